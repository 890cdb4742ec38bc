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

package sqlgen

import (
	"strings"

	"github.com/rulego/sqlbuilder/types"
)

// GenerateSQL serializes a query state into SQL text. Clauses are emitted in
// the fixed order SELECT, FROM, JOIN, WHERE, GROUP BY, ORDER BY; a clause
// whose collection is empty is omitted. It never fails: incomplete parts of
// the state degrade to omitted fragments. A nil state renders "".
func GenerateSQL(state *types.QueryState) string {
	if state == nil {
		return ""
	}
	clauses := []string{
		GenerateSelect(state.Columns),
		GenerateFrom(state.Tables),
		GenerateJoins(state.Joins),
		GenerateWhere(state.Where),
		GenerateGroupBy(state.GroupBy),
		GenerateOrderBy(state.OrderBy),
	}
	present := clauses[:0]
	for _, c := range clauses {
		if c != "" {
			present = append(present, c)
		}
	}
	return strings.Join(present, "\n")
}
