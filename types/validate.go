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

package types

import (
	"fmt"
	"strings"
)

// Issue points at an incomplete or inconsistent part of a QueryState.
type Issue struct {
	// Path locates the offending element, e.g. "joins[1].conditions[0]"
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Validate lists what a user still has to fill in before the query is
// complete. The generator renders incomplete states anyway; Validate only
// tells the editor what to highlight.
func Validate(s *QueryState) []Issue {
	var issues []Issue
	add := func(path, format string, args ...interface{}) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}
	if s == nil {
		add("", "query state is nil")
		return issues
	}

	if len(s.Tables) == 0 {
		add("tables", "at least one table is required")
	}
	for i, t := range s.Tables {
		if strings.TrimSpace(t.Name) == "" {
			add(fmt.Sprintf("tables[%d]", i), "table name is empty")
		}
		if i > 0 {
			add(fmt.Sprintf("tables[%d]", i), "only the first table is emitted, use a join for %q", t.Name)
		}
	}

	for i, j := range s.Joins {
		path := fmt.Sprintf("joins[%d]", i)
		if !j.Type.IsValid() {
			add(path, "unsupported join type %q", j.Type)
		}
		if strings.TrimSpace(j.Table) == "" {
			add(path, "join table is empty")
		}
		if j.Type == JoinCross {
			if len(j.Conditions) > 0 {
				add(path, "conditions of a CROSS join are ignored")
			}
			continue
		}
		if len(j.Conditions) == 0 {
			add(path, "%s join needs at least one ON condition", j.Type)
		}
		for k, c := range j.Conditions {
			cpath := fmt.Sprintf("%s.conditions[%d]", path, k)
			if c.LeftColumn == "" || c.RightColumn == "" {
				add(cpath, "both sides of the condition are required")
			}
			if !c.Operator.IsComparison() {
				add(cpath, "unsupported join operator %q", c.Operator)
			}
		}
	}

	for i, c := range s.Columns {
		validateColumn(fmt.Sprintf("columns[%d]", i), c, add)
	}

	for i, w := range s.Where {
		path := fmt.Sprintf("where[%d]", i)
		if w.Column == "" {
			add(path, "column is empty")
		}
		switch {
		case !w.Operator.IsValidWhere():
			add(path, "unsupported operator %q", w.Operator)
		case w.Operator == OpIn:
			if len(w.Values) == 0 {
				add(path, "IN needs at least one value")
			}
		case w.Operator == OpIsNull || w.Operator == OpIsNotNull:
		default:
			if w.Value == nil {
				add(path, "value is required for operator %s", w.Operator)
			}
		}
	}

	for i, g := range s.GroupBy {
		if strings.TrimSpace(g) == "" {
			add(fmt.Sprintf("groupBy[%d]", i), "column is empty")
		}
	}
	for i, o := range s.OrderBy {
		if strings.TrimSpace(o.Column) == "" {
			add(fmt.Sprintf("orderBy[%d]", i), "column is empty")
		}
	}
	return issues
}

func validateColumn(path string, c Column, add func(string, string, ...interface{})) {
	switch col := ColumnValue(c).(type) {
	case SimpleColumn:
		if col.Column == "" {
			add(path, "column name is empty")
		}
	case AggregateColumn:
		if _, ok := LookupAggregateFunc(string(col.Function)); !ok {
			add(path, "unsupported aggregate function %q", col.Function)
		}
		if col.Column == "" {
			add(path, "aggregate column is empty")
		}
	case WindowColumn:
		if _, ok := LookupWindowFunc(string(col.Function)); !ok {
			add(path, "unsupported window function %q", col.Function)
		}
	case CalculatedColumn:
		if IsNilExpression(col.Expression) {
			add(path, "expression is empty")
			return
		}
		WalkExpression(col.Expression, func(e Expression) {
			switch n := e.(type) {
			case *BinaryOp:
				if IsNilExpression(n.Left) || IsNilExpression(n.Right) {
					add(path, "operator %q is missing an operand", n.Op)
				}
			case *FuncCall:
				if n.Name == "" {
					add(path, "function name is empty")
				}
			}
		})
	case nil:
		add(path, "column is nil")
	default:
		add(path, "unsupported column type %T", c)
	}
}
