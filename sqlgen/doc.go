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
Package sqlgen renders a types.QueryState as SQL text.

Each clause has its own pure generator (GenerateSelect, GenerateFrom,
GenerateJoins, GenerateWhere, GenerateGroupBy, GenerateOrderBy) and
GenerateSQL joins the non-empty ones with newlines:

	SELECT b.Amount,
	       SUM(i.Price) AS Total
	FROM Bill b
	LEFT JOIN BillItem i ON b.Id = i.BillId
	WHERE b.CustomerId = @CustomerId
	  AND b.Status = 'Open'
	GROUP BY b.Amount
	ORDER BY Total DESC

Output is deterministic and never bracket-quoted. String values are single
quoted with embedded quotes doubled; @name parameters and column references
are written verbatim. Every binary operator of a calculated column is
parenthesized, so no precedence table is needed.
*/
package sqlgen
