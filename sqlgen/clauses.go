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
	"bytes"
	"strings"

	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

// selectIndent aligns continuation columns with the first one ("SELECT ").
const selectIndent = "       "

// GenerateSelect renders the SELECT clause. An empty list renders SELECT *.
// Columns that render empty (for example a calculated column whose
// expression is still incomplete) are left out.
func GenerateSelect(columns []types.Column) string {
	var items []string
	for _, c := range columns {
		if s := GenerateColumn(c); s != "" {
			items = append(items, s)
		}
	}
	if len(items) == 0 {
		return "SELECT *"
	}
	return "SELECT " + strings.Join(items, ",\n"+selectIndent)
}

// GenerateColumn renders one SELECT-list entry including its alias.
func GenerateColumn(c types.Column) string {
	var buf bytes.Buffer
	switch col := types.ColumnValue(c).(type) {
	case types.SimpleColumn:
		if col.Column == "" {
			return ""
		}
		buf.WriteString(col.QualifiedName())
	case types.CalculatedColumn:
		formatExpression(&buf, col.Expression)
	case types.AggregateColumn:
		if col.Column == "" || col.Function == "" {
			return ""
		}
		buf.WriteString(strings.ToUpper(string(col.Function)))
		buf.WriteString("(")
		if col.Distinct {
			buf.WriteString("DISTINCT ")
		}
		buf.WriteString(col.Column)
		buf.WriteString(")")
	case types.WindowColumn:
		if col.Function == "" {
			return ""
		}
		formatWindow(&buf, col)
	default:
		return ""
	}
	if buf.Len() == 0 {
		return ""
	}
	if alias := c.OutputAlias(); alias != "" {
		buf.WriteString(" AS ")
		buf.WriteString(alias)
	}
	return buf.String()
}

// formatWindow writes FUNC() OVER (...). Absent parts of the OVER clause are
// omitted entirely.
func formatWindow(buf *bytes.Buffer, col types.WindowColumn) {
	buf.WriteString(strings.ToUpper(string(col.Function)))
	buf.WriteString("() OVER (")
	var parts []string
	if partition := nonEmpty(col.PartitionBy); len(partition) > 0 {
		parts = append(parts, "PARTITION BY "+strings.Join(partition, ", "))
	}
	if order := orderItems(col.OrderBy); len(order) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(order, ", "))
	}
	if frame := strings.TrimSpace(col.FrameClause); frame != "" {
		parts = append(parts, frame)
	}
	buf.WriteString(strings.Join(parts, " "))
	buf.WriteString(")")
}

// GenerateFrom renders FROM for the first table only. No table, no clause.
func GenerateFrom(tables []types.Table) string {
	if len(tables) == 0 || strings.TrimSpace(tables[0].Name) == "" {
		return ""
	}
	t := tables[0]
	if t.Alias != "" {
		return "FROM " + t.Name + " " + t.Alias
	}
	return "FROM " + t.Name
}

// GenerateJoins renders one line per join, in order.
func GenerateJoins(joins []types.JoinConfig) string {
	var lines []string
	for _, j := range joins {
		if line := GenerateJoin(j); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// GenerateJoin renders "<TYPE> JOIN table[ alias][ ON ...]". CROSS joins
// never get an ON clause, whatever their conditions say.
func GenerateJoin(j types.JoinConfig) string {
	if strings.TrimSpace(j.Table) == "" {
		return ""
	}
	joinType := types.JoinType(strings.ToUpper(strings.TrimSpace(string(j.Type))))
	if joinType == "" {
		joinType = types.JoinInner
	}
	var buf bytes.Buffer
	buf.WriteString(string(joinType))
	buf.WriteString(" JOIN ")
	buf.WriteString(j.Table)
	if j.Alias != "" {
		buf.WriteString(" ")
		buf.WriteString(j.Alias)
	}
	if joinType == types.JoinCross {
		return buf.String()
	}
	if on := GenerateJoinConditions(j.Conditions); on != "" {
		buf.WriteString(" ON ")
		buf.WriteString(on)
	}
	return buf.String()
}

// GenerateJoinConditions renders "c1 AND c2 OR c3". The first rendered
// condition never carries a connective; later ones use their own AndOr.
func GenerateJoinConditions(conditions []types.JoinCondition) string {
	var buf bytes.Buffer
	for _, c := range conditions {
		if c.LeftColumn == "" || c.RightColumn == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
			buf.WriteString(string(c.AndOr.OrDefault()))
			buf.WriteString(" ")
		}
		op := c.Operator
		if op == "" {
			op = types.OpEq
		}
		buf.WriteString(c.LeftColumn)
		buf.WriteString(" ")
		buf.WriteString(string(op))
		buf.WriteString(" ")
		buf.WriteString(c.RightColumn)
	}
	return buf.String()
}

// GenerateWhere renders the WHERE clause: the first condition follows the
// keyword, later ones go on indented lines prefixed by their connective.
func GenerateWhere(conditions []types.WhereCondition) string {
	var buf bytes.Buffer
	for _, c := range conditions {
		cond := GenerateCondition(c)
		if cond == "" {
			continue
		}
		if buf.Len() == 0 {
			buf.WriteString("WHERE ")
		} else {
			buf.WriteString("\n  ")
			buf.WriteString(string(c.AndOr.OrDefault()))
			buf.WriteString(" ")
		}
		buf.WriteString(cond)
	}
	return buf.String()
}

// GenerateCondition renders a single WHERE term without connective.
func GenerateCondition(c types.WhereCondition) string {
	if strings.TrimSpace(c.Column) == "" {
		return ""
	}
	op := types.Operator(strings.ToUpper(strings.TrimSpace(string(c.Operator))))
	switch op {
	case types.OpIsNull, types.OpIsNotNull:
		return c.Column + " " + string(op)
	case types.OpIn:
		values := c.Values
		if len(values) == 0 && c.Value != nil {
			if vs, err := cast.ToSliceE(c.Value); err == nil {
				values = vs
			} else {
				values = []any{c.Value}
			}
		}
		items := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok && (c.IsParameter || IsParameterToken(s)) {
				items = append(items, s)
				continue
			}
			items = append(items, FormatValue(v))
		}
		return c.Column + " IN (" + strings.Join(items, ", ") + ")"
	case "":
		op = types.OpEq
	}
	var value string
	if c.IsParameter {
		value = cast.ToString(c.Value)
	} else {
		value = FormatValue(c.Value)
	}
	return c.Column + " " + string(op) + " " + value
}

// GenerateGroupBy renders "GROUP BY a, b".
func GenerateGroupBy(columns []string) string {
	cols := nonEmpty(columns)
	if len(cols) == 0 {
		return ""
	}
	return "GROUP BY " + strings.Join(cols, ", ")
}

// GenerateOrderBy renders "ORDER BY a ASC, b DESC".
func GenerateOrderBy(items []types.OrderByItem) string {
	order := orderItems(items)
	if len(order) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(order, ", ")
}

func orderItems(items []types.OrderByItem) []string {
	out := make([]string, 0, len(items))
	for _, o := range items {
		if strings.TrimSpace(o.Column) == "" {
			continue
		}
		out = append(out, o.Column+" "+string(o.Direction.OrDefault()))
	}
	return out
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
