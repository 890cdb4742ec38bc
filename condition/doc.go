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
Package condition compiles a WHERE chain into an expr-lang program and runs
it against sample rows, so the designer can check which rows a filter keeps.

# Core Features

• Chain Semantics - AND binds tighter than OR, matching SQL precedence
• NULL Handling - Comparisons with a missing value are false; IS NULL is true
• LIKE Matching - % and _ wildcards, case-insensitive, rune aware
• Parameters - @name values are read from a separate parameter map

# Usage

	f, err := condition.NewWhereFilter(state.Where)
	if err != nil {
		return err
	}
	kept, err := condition.Rows(f, rows, map[string]any{"CustomerId": 7})

Columns are looked up by exact key first, then case-insensitively, then by
the unqualified name, so "b.Amount" matches a row key "Amount".
*/
package condition
