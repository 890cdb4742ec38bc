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

// ColumnKind selects how a SELECT-list entry is rendered.
type ColumnKind string

const (
	ColumnSimple     ColumnKind = "simple"
	ColumnCalculated ColumnKind = "calculated"
	ColumnAggregate  ColumnKind = "aggregate"
	ColumnWindow     ColumnKind = "window"
)

// Column is one entry of the SELECT list. The set of implementations is
// closed: SimpleColumn, CalculatedColumn, AggregateColumn and WindowColumn.
type Column interface {
	// Kind returns the variant tag
	Kind() ColumnKind
	// OutputAlias returns the AS alias, empty when none
	OutputAlias() string
	isColumn()
}

// AggregateFunc is the function of an aggregate column.
type AggregateFunc string

const (
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggCount AggregateFunc = "COUNT"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

var aggregateFunctions = map[string]AggregateFunc{
	"SUM":   AggSum,
	"AVG":   AggAvg,
	"COUNT": AggCount,
	"MIN":   AggMin,
	"MAX":   AggMax,
}

// LookupAggregateFunc resolves a case-insensitive aggregate function name.
func LookupAggregateFunc(name string) (AggregateFunc, bool) {
	fn, ok := aggregateFunctions[strings.ToUpper(strings.TrimSpace(name))]
	return fn, ok
}

// WindowFunc is the function of a window column.
type WindowFunc string

const (
	WinRowNumber  WindowFunc = "ROW_NUMBER"
	WinRank       WindowFunc = "RANK"
	WinDenseRank  WindowFunc = "DENSE_RANK"
	WinNtile      WindowFunc = "NTILE"
	WinSum        WindowFunc = "SUM"
	WinAvg        WindowFunc = "AVG"
	WinCount      WindowFunc = "COUNT"
	WinMin        WindowFunc = "MIN"
	WinMax        WindowFunc = "MAX"
	WinLead       WindowFunc = "LEAD"
	WinLag        WindowFunc = "LAG"
	WinFirstValue WindowFunc = "FIRST_VALUE"
	WinLastValue  WindowFunc = "LAST_VALUE"
)

var windowFunctions = map[string]WindowFunc{
	"ROW_NUMBER":  WinRowNumber,
	"RANK":        WinRank,
	"DENSE_RANK":  WinDenseRank,
	"NTILE":       WinNtile,
	"SUM":         WinSum,
	"AVG":         WinAvg,
	"COUNT":       WinCount,
	"MIN":         WinMin,
	"MAX":         WinMax,
	"LEAD":        WinLead,
	"LAG":         WinLag,
	"FIRST_VALUE": WinFirstValue,
	"LAST_VALUE":  WinLastValue,
}

// LookupWindowFunc resolves a case-insensitive window function name.
func LookupWindowFunc(name string) (WindowFunc, bool) {
	fn, ok := windowFunctions[strings.ToUpper(strings.TrimSpace(name))]
	return fn, ok
}

// SimpleColumn references a column directly, optionally qualified by a table.
type SimpleColumn struct {
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
	Alias  string `json:"alias,omitempty"`
}

// CalculatedColumn renders an arbitrary expression tree.
type CalculatedColumn struct {
	Expression Expression `json:"expression"`
	Alias      string     `json:"alias,omitempty"`
}

// AggregateColumn renders FUNC([DISTINCT ]column).
type AggregateColumn struct {
	Function AggregateFunc `json:"function"`
	Column   string        `json:"column"`
	Distinct bool          `json:"distinct,omitempty"`
	Alias    string        `json:"alias,omitempty"`
}

// WindowColumn renders FUNC() OVER (PARTITION BY ... ORDER BY ... frame).
type WindowColumn struct {
	Function    WindowFunc    `json:"function"`
	Alias       string        `json:"alias,omitempty"`
	PartitionBy []string      `json:"partitionBy,omitempty"`
	OrderBy     []OrderByItem `json:"orderBy,omitempty"`
	FrameClause string        `json:"frameClause,omitempty"`
}

func (SimpleColumn) Kind() ColumnKind     { return ColumnSimple }
func (CalculatedColumn) Kind() ColumnKind { return ColumnCalculated }
func (AggregateColumn) Kind() ColumnKind  { return ColumnAggregate }
func (WindowColumn) Kind() ColumnKind     { return ColumnWindow }

func (c SimpleColumn) OutputAlias() string     { return c.Alias }
func (c CalculatedColumn) OutputAlias() string { return c.Alias }
func (c AggregateColumn) OutputAlias() string  { return c.Alias }
func (c WindowColumn) OutputAlias() string     { return c.Alias }

func (SimpleColumn) isColumn()     {}
func (CalculatedColumn) isColumn() {}
func (AggregateColumn) isColumn()  {}
func (WindowColumn) isColumn()     {}

// QualifiedName returns table.column, or column when no table is set.
func (c SimpleColumn) QualifiedName() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// CloneColumn deep-copies a column. Pointer variants come back as values so
// the copy never aliases the original.
func CloneColumn(c Column) Column {
	switch col := ColumnValue(c).(type) {
	case CalculatedColumn:
		col.Expression = CloneExpression(col.Expression)
		return col
	case WindowColumn:
		return cloneWindow(col)
	default:
		return col
	}
}

func cloneWindow(w WindowColumn) WindowColumn {
	w.PartitionBy = append([]string(nil), w.PartitionBy...)
	w.OrderBy = append([]OrderByItem(nil), w.OrderBy...)
	return w
}

// ColumnValue returns the value form of c, so that a switch over the four
// value types is exhaustive even when callers store pointers.
func ColumnValue(c Column) Column {
	switch col := c.(type) {
	case *SimpleColumn:
		if col == nil {
			return nil
		}
		return *col
	case *CalculatedColumn:
		if col == nil {
			return nil
		}
		return *col
	case *AggregateColumn:
		if col == nil {
			return nil
		}
		return *col
	case *WindowColumn:
		if col == nil {
			return nil
		}
		return *col
	default:
		return c
	}
}
