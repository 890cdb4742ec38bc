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

package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/sqlbuilder/calc"
	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

// ErrInvalidCondition WHERE条件无法转换为过滤表达式
var ErrInvalidCondition = errors.New("invalid where condition")

// Condition decides whether a row passes.
type Condition interface {
	Match(row, params map[string]any) (bool, error)
}

// Filter is a compiled WHERE chain.
type Filter struct {
	program  *vm.Program
	source   string
	bindings *calc.Bindings
}

// NewWhereFilter compiles a WHERE chain. AND binds tighter than OR, as in
// SQL. A comparison against NULL is false, and an empty chain matches every
// row.
func NewWhereFilter(where []types.WhereCondition) (*Filter, error) {
	b := calc.NewBindings()
	parts := make([]string, 0, len(where)*2)
	for i, w := range where {
		term, err := translate(w, b)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		if len(parts) > 0 {
			if w.AndOr.OrDefault() == types.Or {
				parts = append(parts, "||")
			} else {
				parts = append(parts, "&&")
			}
		}
		parts = append(parts, term)
	}
	source := "true"
	if len(parts) > 0 {
		source = strings.Join(parts, " ")
	}
	program, err := expr.Compile(source, compileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	return &Filter{program: program, source: source, bindings: b}, nil
}

// Match evaluates the filter against one row.
func (f *Filter) Match(row, params map[string]any) (bool, error) {
	result, err := expr.Run(f.program, f.bindings.Env(row, params))
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// Source returns the compiled expression, with synthetic variable names.
func (f *Filter) Source() string {
	return f.source
}

// Rows returns the rows that pass, in input order.
func Rows(c Condition, rows []map[string]any, params map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		ok, err := c.Match(row, params)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func compileOptions() []expr.Option {
	// startsWith、endsWith、contains 是内置操作符，这里只补充 LIKE
	return []expr.Option{
		expr.Function("like_match", func(params ...any) (any, error) {
			if len(params) != 2 {
				return false, fmt.Errorf("like_match function requires 2 parameters")
			}
			if params[0] == nil || params[1] == nil {
				return false, nil
			}
			return matchesLikePattern(cast.ToString(params[0]), cast.ToString(params[1])), nil
		}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}
}

var comparisons = map[types.Operator]string{
	types.OpEq: "==",
	types.OpNe: "!=",
	types.OpGt: ">",
	types.OpLt: "<",
	types.OpGe: ">=",
	types.OpLe: "<=",
}

func translate(w types.WhereCondition, b *calc.Bindings) (string, error) {
	if strings.TrimSpace(w.Column) == "" {
		return "", fmt.Errorf("%w: empty column", ErrInvalidCondition)
	}
	col := b.Column(w.Column)
	op := types.Operator(strings.ToUpper(strings.TrimSpace(string(w.Operator))))
	switch op {
	case "<>":
		op = types.OpNe
	case "":
		op = types.OpEq
	}
	switch op {
	case types.OpIsNull:
		return col + " == nil", nil
	case types.OpIsNotNull:
		return col + " != nil", nil
	case types.OpLike:
		v, err := value(w.Value, w.IsParameter, b)
		if err != nil {
			return "", err
		}
		return "like_match(" + col + ", " + v + ")", nil
	case types.OpIn:
		members := w.Values
		if len(members) == 0 && w.Value != nil {
			if vs, err := cast.ToSliceE(w.Value); err == nil {
				members = vs
			} else {
				members = []any{w.Value}
			}
		}
		if len(members) == 0 {
			return "false", nil
		}
		items := make([]string, 0, len(members))
		for _, m := range members {
			v, err := value(m, w.IsParameter, b)
			if err != nil {
				return "", err
			}
			items = append(items, v)
		}
		return "(" + col + " != nil && " + col + " in [" + strings.Join(items, ", ") + "])", nil
	}
	sym, ok := comparisons[op]
	if !ok {
		return "", fmt.Errorf("%w: operator %q", ErrInvalidCondition, w.Operator)
	}
	v, err := value(w.Value, w.IsParameter, b)
	if err != nil {
		return "", err
	}
	// NULL 参与比较时结果为假
	return "(" + col + " != nil && " + v + " != nil && " + col + " " + sym + " " + v + ")", nil
}

func value(v any, isParameter bool, b *calc.Bindings) (string, error) {
	if s, ok := v.(string); ok && (isParameter || strings.HasPrefix(s, "@")) && len(strings.TrimPrefix(s, "@")) > 0 {
		return b.Param(s), nil
	}
	lit, err := calc.Literal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	return lit, nil
}

// matchesLikePattern 实现LIKE模式匹配
// 支持%（匹配任意字符序列）和_（匹配单个字符）
func matchesLikePattern(text, pattern string) bool {
	return likeMatch([]rune(text), []rune(pattern), 0, 0)
}

// likeMatch 递归实现LIKE匹配算法
func likeMatch(text, pattern []rune, textIndex, patternIndex int) bool {
	// 如果模式已经匹配完成
	if patternIndex >= len(pattern) {
		return textIndex >= len(text) // 文本也应该匹配完成
	}

	// 如果文本已经结束，但模式还有非%字符，则不匹配
	if textIndex >= len(text) {
		for i := patternIndex; i < len(pattern); i++ {
			if pattern[i] != '%' {
				return false
			}
		}
		return true
	}

	switch pattern[patternIndex] {
	case '%':
		// 先尝试匹配0个字符，再逐个吞掉文本
		for i := textIndex; i <= len(text); i++ {
			if likeMatch(text, pattern, i, patternIndex+1) {
				return true
			}
		}
		return false
	case '_':
		return likeMatch(text, pattern, textIndex+1, patternIndex+1)
	default:
		// SQL Server 默认排序规则不区分大小写
		if !strings.EqualFold(string(text[textIndex]), string(pattern[patternIndex])) {
			return false
		}
		return likeMatch(text, pattern, textIndex+1, patternIndex+1)
	}
}
