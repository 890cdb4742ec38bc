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

package aggregator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rulego/sqlbuilder/calc"
	"github.com/rulego/sqlbuilder/sqlgen"
	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

var (
	// ErrUnsupported 不支持的聚合函数
	ErrUnsupported = errors.New("unsupported aggregate")
	// ErrNotGrouped SELECT 中的普通列既不在 GROUP BY 中也不是聚合列
	ErrNotGrouped = errors.New("column is neither grouped nor aggregated")
)

// AggregationField defines one aggregate output column.
type AggregationField struct {
	InputField  string              // column read from each row, "*" counts rows
	Function    types.AggregateFunc // SUM, AVG, COUNT, MIN or MAX
	Distinct    bool
	OutputAlias string
}

// GroupField is one GROUP BY column and the name it is reported under.
type GroupField struct {
	InputField  string
	OutputAlias string
}

// GroupAggregator groups sample rows and accumulates aggregates per group.
// Groups are reported in the order they were first seen.
type GroupAggregator struct {
	aggregationFields []AggregationField
	groupFields       []GroupField
	prototypes        []AggregatorFunction
	groups            map[string]*group
	order             []string
	mu                sync.Mutex
}

type group struct {
	keys []any
	aggs []AggregatorFunction
}

// NewGroupAggregator creates a group aggregator. An empty output alias falls
// back to the input field.
func NewGroupAggregator(groupFields []GroupField, aggregationFields []AggregationField) (*GroupAggregator, error) {
	prototypes := make([]AggregatorFunction, len(aggregationFields))
	for i := range aggregationFields {
		if aggregationFields[i].OutputAlias == "" {
			aggregationFields[i].OutputAlias = aggregationFields[i].InputField
		}
		agg, err := CreateBuiltinAggregator(aggregationFields[i].Function, aggregationFields[i].Distinct)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", aggregationFields[i].OutputAlias, err)
		}
		prototypes[i] = agg
	}
	for i := range groupFields {
		if groupFields[i].OutputAlias == "" {
			groupFields[i].OutputAlias = groupFields[i].InputField
		}
	}
	return &GroupAggregator{
		aggregationFields: aggregationFields,
		groupFields:       groupFields,
		prototypes:        prototypes,
		groups:            make(map[string]*group),
	}, nil
}

// FromState derives the grouping of a query. Simple columns of the SELECT
// list must appear in GROUP BY; calculated and window columns are skipped.
func FromState(s *types.QueryState) (*GroupAggregator, error) {
	if s == nil {
		return NewGroupAggregator(nil, nil)
	}
	var groupFields []GroupField
	grouped := make(map[string]int, len(s.GroupBy))
	for _, g := range s.GroupBy {
		grouped[strings.ToLower(g)] = len(groupFields)
		groupFields = append(groupFields, GroupField{InputField: g})
	}

	var fields []AggregationField
	for _, c := range s.Columns {
		switch col := types.ColumnValue(c).(type) {
		case types.SimpleColumn:
			i, ok := grouped[strings.ToLower(col.QualifiedName())]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotGrouped, col.QualifiedName())
			}
			if col.Alias != "" {
				groupFields[i].OutputAlias = col.Alias
			}
		case types.AggregateColumn:
			name := col.Alias
			if name == "" {
				name = sqlgen.GenerateColumn(col)
			}
			fields = append(fields, AggregationField{
				InputField:  col.Column,
				Function:    col.Function,
				Distinct:    col.Distinct,
				OutputAlias: name,
			})
		}
	}
	return NewGroupAggregator(groupFields, fields)
}

// Columns returns the output names: group columns first, then aggregates.
func (ga *GroupAggregator) Columns() []string {
	out := make([]string, 0, len(ga.groupFields)+len(ga.aggregationFields))
	for _, g := range ga.groupFields {
		out = append(out, g.OutputAlias)
	}
	for _, f := range ga.aggregationFields {
		out = append(out, f.OutputAlias)
	}
	return out
}

// Add feeds one row. A missing group column groups as NULL.
func (ga *GroupAggregator) Add(row map[string]any) error {
	if row == nil {
		return fmt.Errorf("row cannot be nil")
	}
	ga.mu.Lock()
	defer ga.mu.Unlock()

	keys := make([]any, len(ga.groupFields))
	var key strings.Builder
	for i, field := range ga.groupFields {
		keys[i], _ = calc.LookupColumn(row, field.InputField)
		key.WriteString(valueKey(keys[i]))
		key.WriteByte('|')
	}

	g, exists := ga.groups[key.String()]
	if !exists {
		g = ga.newGroup(keys)
		ga.groups[key.String()] = g
		ga.order = append(ga.order, key.String())
	}

	for i, field := range ga.aggregationFields {
		// count(*) 直接计数
		if field.InputField == "*" {
			g.aggs[i].Add(1)
			continue
		}
		fieldVal, found := calc.LookupColumn(row, field.InputField)
		if !found || fieldVal == nil {
			continue
		}
		if isNumeric(field.Function) {
			numVal, err := cast.ToFloat64E(fieldVal)
			if err != nil {
				return fmt.Errorf("cannot convert field %s value %v to numeric type for aggregator %s", field.InputField, fieldVal, field.Function)
			}
			fieldVal = numVal
		}
		g.aggs[i].Add(fieldVal)
	}
	return nil
}

func (ga *GroupAggregator) newGroup(keys []any) *group {
	g := &group{keys: keys, aggs: make([]AggregatorFunction, len(ga.prototypes))}
	for i, p := range ga.prototypes {
		g.aggs[i] = p.New()
	}
	return g
}

// GetResults returns one row per group. Without GROUP BY there is always
// exactly one row, even when no rows were added.
func (ga *GroupAggregator) GetResults() []map[string]any {
	ga.mu.Lock()
	defer ga.mu.Unlock()

	if len(ga.aggregationFields) == 0 && len(ga.groupFields) == 0 {
		return []map[string]any{}
	}
	order := ga.order
	groups := ga.groups
	if len(ga.groupFields) == 0 && len(order) == 0 {
		order = []string{""}
		groups = map[string]*group{"": ga.newGroup(nil)}
	}

	result := make([]map[string]any, 0, len(order))
	for _, key := range order {
		g := groups[key]
		row := make(map[string]any, len(ga.groupFields)+len(g.aggs))
		for i, field := range ga.groupFields {
			row[field.OutputAlias] = g.keys[i]
		}
		for i, field := range ga.aggregationFields {
			row[field.OutputAlias] = g.aggs[i].Result()
		}
		result = append(result, row)
	}
	return result
}

// Reset drops all groups.
func (ga *GroupAggregator) Reset() {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.groups = make(map[string]*group)
	ga.order = nil
}

// Aggregate groups rows the way state describes.
func Aggregate(state *types.QueryState, rows []map[string]any) ([]map[string]any, []string, error) {
	ga, err := FromState(state)
	if err != nil {
		return nil, nil, err
	}
	for i, row := range rows {
		if err := ga.Add(row); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return ga.GetResults(), ga.Columns(), nil
}
