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

import "strings"

// JoinType is the keyword emitted in front of JOIN.
type JoinType string

const (
	JoinInner     JoinType = "INNER"
	JoinLeft      JoinType = "LEFT"
	JoinRight     JoinType = "RIGHT"
	JoinFullOuter JoinType = "FULL OUTER"
	JoinCross     JoinType = "CROSS"
)

// IsValid reports whether t is one of the supported join types.
func (t JoinType) IsValid() bool {
	switch t {
	case JoinInner, JoinLeft, JoinRight, JoinFullOuter, JoinCross:
		return true
	default:
		return false
	}
}

// Connective joins the second and later conditions of a chain.
// The zero value means unset and is rendered as AND.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// OrDefault returns AND for an unset connective.
func (c Connective) OrDefault() Connective {
	if strings.EqualFold(string(c), string(Or)) {
		return Or
	}
	return And
}

// Direction of an ORDER BY item.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// OrDefault returns ASC for an unset direction.
func (d Direction) OrDefault() Direction {
	if strings.EqualFold(string(d), string(Desc)) {
		return Desc
	}
	return Asc
}

// Operator is a comparison operator used by join and where conditions.
type Operator string

const (
	OpEq        Operator = "="
	OpNe        Operator = "!="
	OpGt        Operator = ">"
	OpLt        Operator = "<"
	OpGe        Operator = ">="
	OpLe        Operator = "<="
	OpLike      Operator = "LIKE"
	OpIn        Operator = "IN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

// IsComparison reports whether op is one of the binary comparison operators
// accepted in a JOIN ... ON clause.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
		return true
	default:
		return false
	}
}

// IsValidWhere reports whether op may appear in a WhereCondition.
func (op Operator) IsValidWhere() bool {
	switch op {
	case OpLike, OpIn, OpIsNull, OpIsNotNull:
		return true
	default:
		return op.IsComparison()
	}
}

// QueryState is the structured representation of one query.
// It is treated as a value: the generator and the parser never modify a
// state that was handed to them.
type QueryState struct {
	Tables  []Table          `json:"tables"`
	Joins   []JoinConfig     `json:"joins"`
	Columns Columns          `json:"columns"`
	Where   []WhereCondition `json:"where"`
	GroupBy []string         `json:"groupBy"`
	OrderBy []OrderByItem    `json:"orderBy"`
}

// NewQueryState returns an empty state with non-nil collections, which is
// what the builder UI expects when it serializes a fresh query.
func NewQueryState() *QueryState {
	return &QueryState{
		Tables:  []Table{},
		Joins:   []JoinConfig{},
		Columns: Columns{},
		Where:   []WhereCondition{},
		GroupBy: []string{},
		OrderBy: []OrderByItem{},
	}
}

// IsEmpty reports whether no clause carries any data.
func (s *QueryState) IsEmpty() bool {
	return s == nil || (len(s.Tables) == 0 && len(s.Joins) == 0 && len(s.Columns) == 0 &&
		len(s.Where) == 0 && len(s.GroupBy) == 0 && len(s.OrderBy) == 0)
}

// Clone returns a deep copy of the state.
func (s *QueryState) Clone() *QueryState {
	if s == nil {
		return nil
	}
	out := NewQueryState()
	out.Tables = append(out.Tables, s.Tables...)
	for _, j := range s.Joins {
		j.Conditions = append([]JoinCondition{}, j.Conditions...)
		out.Joins = append(out.Joins, j)
	}
	for _, c := range s.Columns {
		out.Columns = append(out.Columns, CloneColumn(c))
	}
	for _, w := range s.Where {
		if w.Values != nil {
			w.Values = append([]any{}, w.Values...)
		}
		out.Where = append(out.Where, w)
	}
	out.GroupBy = append(out.GroupBy, s.GroupBy...)
	out.OrderBy = append(out.OrderBy, s.OrderBy...)
	return out
}

// Table is an entry of the FROM list.
type Table struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// JoinConfig describes one JOIN. CROSS joins carry no conditions by convention.
type JoinConfig struct {
	Type       JoinType        `json:"type"`
	Table      string          `json:"table"`
	Alias      string          `json:"alias,omitempty"`
	Conditions []JoinCondition `json:"conditions"`
}

// JoinCondition is one "left op right" term of an ON clause.
// AndOr is only meaningful from the second condition on.
type JoinCondition struct {
	LeftColumn  string     `json:"leftColumn"`
	Operator    Operator   `json:"operator"`
	RightColumn string     `json:"rightColumn"`
	AndOr       Connective `json:"andOr,omitempty"`
}

// WhereCondition is one term of the WHERE chain.
//
// Value holds a string, a number or a bool. IN conditions use Values instead.
// IsParameter marks Value as an @name token that is emitted verbatim.
type WhereCondition struct {
	Column      string     `json:"column"`
	Operator    Operator   `json:"operator"`
	Value       any        `json:"value,omitempty"`
	Values      []any      `json:"values,omitempty"`
	IsParameter bool       `json:"isParameter,omitempty"`
	AndOr       Connective `json:"andOr,omitempty"`
}

// OrderByItem is one ORDER BY term.
type OrderByItem struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}
