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
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
)

// QueryBuilder assembles a QueryState step by step, the way the visual
// editor does when the user drops tables and columns. Build returns a fresh
// copy, so a builder can keep going after a state was handed out.
//
// Example:
//
//	state := types.NewBuilder().
//		From("Bill", "b").
//		Join(types.JoinLeft, "Customer", "c", types.On("b.CustomerId", types.OpEq, "c.Id")).
//		Select(types.SimpleColumn{Table: "b", Column: "Amount"}).
//		WhereParam("c.Id", types.OpEq, "@CustomerId").
//		Build()
type QueryBuilder struct {
	state *QueryState
}

// NewBuilder starts from an empty state.
func NewBuilder() *QueryBuilder {
	return &QueryBuilder{state: NewQueryState()}
}

// BuilderFrom continues editing a copy of s.
func BuilderFrom(s *QueryState) *QueryBuilder {
	if s == nil {
		return NewBuilder()
	}
	return &QueryBuilder{state: s.Clone()}
}

// From sets the base table.
func (b *QueryBuilder) From(name, alias string) *QueryBuilder {
	b.state.Tables = []Table{{Name: name, Alias: alias}}
	return b
}

// Join appends a join. When alias is empty and the table is already part of
// the query, a fresh alias is derived so self-joins stay unambiguous.
func (b *QueryBuilder) Join(joinType JoinType, table, alias string, conditions ...JoinCondition) *QueryBuilder {
	if alias == "" && b.references(table) {
		alias = SuggestAlias(table, b.aliases())
	}
	if joinType == JoinCross {
		conditions = nil
	}
	b.state.Joins = append(b.state.Joins, JoinConfig{
		Type:       joinType,
		Table:      table,
		Alias:      alias,
		Conditions: append([]JoinCondition{}, conditions...),
	})
	return b
}

// Select appends columns to the SELECT list.
func (b *QueryBuilder) Select(columns ...Column) *QueryBuilder {
	for _, c := range columns {
		b.state.Columns = append(b.state.Columns, CloneColumn(c))
	}
	return b
}

// Where appends a condition connected with AND.
func (b *QueryBuilder) Where(column string, op Operator, value any) *QueryBuilder {
	return b.addWhere(WhereCondition{Column: column, Operator: op, Value: value}, And)
}

// OrWhere appends a condition connected with OR.
func (b *QueryBuilder) OrWhere(column string, op Operator, value any) *QueryBuilder {
	return b.addWhere(WhereCondition{Column: column, Operator: op, Value: value}, Or)
}

// WhereParam appends an AND condition whose value is an @name parameter.
func (b *QueryBuilder) WhereParam(column string, op Operator, param string) *QueryBuilder {
	return b.addWhere(WhereCondition{Column: column, Operator: op, Value: param, IsParameter: true}, And)
}

// WhereIn appends an AND condition "column IN (values...)".
func (b *QueryBuilder) WhereIn(column string, values ...any) *QueryBuilder {
	return b.addWhere(WhereCondition{Column: column, Operator: OpIn, Values: values}, And)
}

// WhereNull appends "column IS NULL", or IS NOT NULL when not is set.
func (b *QueryBuilder) WhereNull(column string, not bool) *QueryBuilder {
	op := OpIsNull
	if not {
		op = OpIsNotNull
	}
	return b.addWhere(WhereCondition{Column: column, Operator: op}, And)
}

func (b *QueryBuilder) addWhere(cond WhereCondition, andOr Connective) *QueryBuilder {
	if len(b.state.Where) > 0 {
		cond.AndOr = andOr
	}
	b.state.Where = append(b.state.Where, cond)
	return b
}

// GroupBy appends grouping columns.
func (b *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	b.state.GroupBy = append(b.state.GroupBy, columns...)
	return b
}

// OrderBy appends an ordering term.
func (b *QueryBuilder) OrderBy(column string, dir Direction) *QueryBuilder {
	b.state.OrderBy = append(b.state.OrderBy, OrderByItem{Column: column, Direction: dir.OrDefault()})
	return b
}

// Build returns a copy of the assembled state.
func (b *QueryBuilder) Build() *QueryState {
	return b.state.Clone()
}

func (b *QueryBuilder) references(table string) bool {
	for _, t := range b.state.Tables {
		if strings.EqualFold(t.Name, table) {
			return true
		}
	}
	for _, j := range b.state.Joins {
		if strings.EqualFold(j.Table, table) {
			return true
		}
	}
	return false
}

func (b *QueryBuilder) aliases() []string {
	var taken []string
	for _, t := range b.state.Tables {
		taken = append(taken, t.Alias, t.Name)
	}
	for _, j := range b.state.Joins {
		taken = append(taken, j.Alias, j.Table)
	}
	return taken
}

// On builds the first condition of an ON clause.
func On(left string, op Operator, right string) JoinCondition {
	return JoinCondition{LeftColumn: left, Operator: op, RightColumn: right}
}

// AndOn builds a follow-up condition connected with AND.
func AndOn(left string, op Operator, right string) JoinCondition {
	return JoinCondition{LeftColumn: left, Operator: op, RightColumn: right, AndOr: And}
}

// OrOn builds a follow-up condition connected with OR.
func OrOn(left string, op Operator, right string) JoinCondition {
	return JoinCondition{LeftColumn: left, Operator: op, RightColumn: right, AndOr: Or}
}

// SuggestAlias derives a short lower-case singular alias for a table, e.g.
// "dbo.[Customers]" becomes "customer". Names in taken are avoided by adding
// a numeric suffix.
func SuggestAlias(table string, taken []string) string {
	name := table
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "[]"))
	if name == "" {
		name = "t"
	}
	base := strings.ToLower(inflection.Singular(name))

	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		if t != "" {
			used[strings.ToLower(t)] = true
		}
	}
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}
