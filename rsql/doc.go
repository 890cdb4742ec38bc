/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package rsql loads hand-written SQL back into a builder QueryState.

The parser is deliberately tolerant and deliberately modest. It recognizes a
subset of SELECT statements and abstains from everything else: a fragment it
cannot map with confidence is left out of the state and reported as a
warning with an excerpt of the original text, so the user can fix it in the
text editor. Errors are reserved for input that cannot be parsed at all.

# Core Features

• Normalization - comments removed, whitespace collapsed outside literals, trailing semicolon dropped
• Depth-aware scanning - clause keywords, commas and AND/OR are only matched at the top level
• Bracket tolerance - [dbo].[Bill] and Bill are the same identifier
• Abstention - window functions, wildcards, expressions and odd conditions become warnings
• Diagnostics - every warning carries type, position and a 60 character excerpt

# Recognized Subset

	SELECT [DISTINCT|TOP n] col | t.col | AGG([DISTINCT] col) | COUNT(*)  [[AS] alias], ...
	FROM table [[AS] alias]
	[INNER|LEFT [OUTER]|RIGHT [OUTER]|FULL [OUTER]|CROSS] JOIN table [[AS] alias] [ON a = b [AND|OR c = d]]
	WHERE col op value [AND|OR col IS [NOT] NULL | col IN (v1, v2) | col LIKE 'x%']
	GROUP BY col, ...
	ORDER BY col [ASC|DESC], ...

# Usage

	result := rsql.ParseSQL("SELECT [Bill].[Amount] FROM [Bill] WHERE CustomerId = @CustomerId")
	if !result.Success {
		return fmt.Errorf("load sql: %s", strings.Join(result.Errors, "; "))
	}
	for _, w := range result.Warnings {
		fmt.Println("skipped:", w)
	}

Success is true iff no error was recorded; warnings never change it.
*/
package rsql
