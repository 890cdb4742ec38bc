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
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

// AggregatorFunction accumulates the values of one aggregate column within
// one group. NULL values are filtered out before Add is called.
type AggregatorFunction interface {
	New() AggregatorFunction
	Add(value any)
	Result() any
}

// CreateBuiltinAggregator returns an empty accumulator for fn.
func CreateBuiltinAggregator(fn types.AggregateFunc, distinct bool) (AggregatorFunction, error) {
	var agg AggregatorFunction
	switch fn {
	case types.AggSum:
		agg = &SumAggregator{}
	case types.AggAvg:
		agg = &AvgAggregator{}
	case types.AggCount:
		agg = &CountAggregator{}
	case types.AggMin:
		agg = &MinAggregator{}
	case types.AggMax:
		agg = &MaxAggregator{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, fn)
	}
	if distinct {
		agg = &DistinctAggregator{inner: agg, seen: map[string]bool{}}
	}
	return agg, nil
}

// isNumeric reports whether fn needs numeric input.
func isNumeric(fn types.AggregateFunc) bool {
	return fn == types.AggSum || fn == types.AggAvg
}

type SumAggregator struct {
	values []float64
}

func (s *SumAggregator) New() AggregatorFunction {
	return &SumAggregator{}
}

func (s *SumAggregator) Add(v any) {
	s.values = append(s.values, cast.ToFloat64(v))
}

// Result SUM 没有输入时为 NULL
func (s *SumAggregator) Result() any {
	sum, err := stats.Sum(s.values)
	if err != nil {
		return nil
	}
	return types.NormalizeNumber(sum)
}

type AvgAggregator struct {
	values []float64
}

func (a *AvgAggregator) New() AggregatorFunction {
	return &AvgAggregator{}
}

func (a *AvgAggregator) Add(v any) {
	a.values = append(a.values, cast.ToFloat64(v))
}

func (a *AvgAggregator) Result() any {
	mean, err := stats.Mean(a.values)
	if err != nil {
		return nil
	}
	return mean
}

type CountAggregator struct {
	count int64
}

func (c *CountAggregator) New() AggregatorFunction {
	return &CountAggregator{}
}

func (c *CountAggregator) Add(_ any) {
	c.count++
}

func (c *CountAggregator) Result() any {
	return c.count
}

// extremum keeps the values seen so far. Numbers are compared numerically,
// anything else by its text.
type extremum struct {
	values  []any
	numbers []float64
	numeric bool
}

func (e *extremum) add(v any) {
	if len(e.values) == 0 {
		e.numeric = true
	}
	e.values = append(e.values, v)
	if f, err := cast.ToFloat64E(v); err == nil && isNumber(v) {
		e.numbers = append(e.numbers, f)
	} else {
		e.numeric = false
	}
}

func (e *extremum) result(pick func(stats.Float64Data) (float64, error), less func(a, b string) bool) any {
	if len(e.values) == 0 {
		return nil
	}
	if e.numeric {
		f, err := pick(e.numbers)
		if err != nil {
			return nil
		}
		return types.NormalizeNumber(f)
	}
	best := e.values[0]
	for _, v := range e.values[1:] {
		if less(cast.ToString(v), cast.ToString(best)) {
			best = v
		}
	}
	return best
}

type MinAggregator struct {
	extremum
}

func (m *MinAggregator) New() AggregatorFunction {
	return &MinAggregator{}
}

func (m *MinAggregator) Add(v any) {
	m.add(v)
}

func (m *MinAggregator) Result() any {
	return m.result(stats.Min, func(a, b string) bool { return a < b })
}

type MaxAggregator struct {
	extremum
}

func (m *MaxAggregator) New() AggregatorFunction {
	return &MaxAggregator{}
}

func (m *MaxAggregator) Add(v any) {
	m.add(v)
}

func (m *MaxAggregator) Result() any {
	return m.result(stats.Max, func(a, b string) bool { return a > b })
}

// DistinctAggregator passes each distinct value to the wrapped aggregator once.
type DistinctAggregator struct {
	inner AggregatorFunction
	seen  map[string]bool
}

func (d *DistinctAggregator) New() AggregatorFunction {
	return &DistinctAggregator{inner: d.inner.New(), seen: map[string]bool{}}
}

func (d *DistinctAggregator) Add(v any) {
	key := valueKey(v)
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.inner.Add(v)
}

func (d *DistinctAggregator) Result() any {
	return d.inner.Result()
}

// valueKey 数值按大小归一，1 和 1.0 视为同一个值
func valueKey(v any) string {
	if isNumber(v) {
		return "n:" + cast.ToString(cast.ToFloat64(v))
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
