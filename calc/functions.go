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

package calc

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/spf13/cast"
)

// function 预览可用的标量函数
type function struct {
	name    string
	minArgs int
	maxArgs int // -1 不限
	exec    func(args []any) (any, error)
}

var builtins = []function{
	{name: "ABS", minArgs: 1, maxArgs: 1, exec: mathFunc(math.Abs)},
	{name: "FLOOR", minArgs: 1, maxArgs: 1, exec: mathFunc(math.Floor)},
	{name: "CEILING", minArgs: 1, maxArgs: 1, exec: mathFunc(math.Ceil)},
	{name: "CEIL", minArgs: 1, maxArgs: 1, exec: mathFunc(math.Ceil)},
	{name: "SQRT", minArgs: 1, maxArgs: 1, exec: execSqrt},
	{name: "POWER", minArgs: 2, maxArgs: 2, exec: execPower},
	{name: "ROUND", minArgs: 1, maxArgs: 2, exec: execRound},
	{name: "UPPER", minArgs: 1, maxArgs: 1, exec: stringFunc(strings.ToUpper)},
	{name: "LOWER", minArgs: 1, maxArgs: 1, exec: stringFunc(strings.ToLower)},
	{name: "LTRIM", minArgs: 1, maxArgs: 1, exec: stringFunc(func(s string) string { return strings.TrimLeft(s, " ") })},
	{name: "RTRIM", minArgs: 1, maxArgs: 1, exec: stringFunc(func(s string) string { return strings.TrimRight(s, " ") })},
	{name: "TRIM", minArgs: 1, maxArgs: 1, exec: stringFunc(func(s string) string { return strings.Trim(s, " ") })},
	{name: "LEN", minArgs: 1, maxArgs: 1, exec: execLen},
	{name: "LENGTH", minArgs: 1, maxArgs: 1, exec: execLen},
	{name: "CONCAT", minArgs: 1, maxArgs: -1, exec: execConcat},
	{name: "COALESCE", minArgs: 1, maxArgs: -1, exec: execCoalesce},
	{name: "ISNULL", minArgs: 2, maxArgs: 2, exec: execCoalesce},
}

// functionNames 函数名到表达式中注册名的映射
var functionNames = func() map[string]string {
	m := make(map[string]string, len(builtins))
	for _, f := range builtins {
		m[f.name] = "sql_" + strings.ToLower(f.name)
	}
	return m
}()

// Functions lists the function names a preview can evaluate, sorted.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for _, f := range builtins {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether name can be evaluated by a preview.
func Supported(name string) bool {
	_, ok := functionNames[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// CompileOptions returns the expr options every preview program is compiled
// with. Callers may append their own, e.g. expr.AsBool().
func CompileOptions() []expr.Option {
	options := make([]expr.Option, 0, len(builtins)+1)
	for _, f := range builtins {
		f := f
		options = append(options, expr.Function(functionNames[f.name], func(params ...any) (any, error) {
			if len(params) < f.minArgs || (f.maxArgs >= 0 && len(params) > f.maxArgs) {
				return nil, fmt.Errorf("%s: wrong number of arguments: %d", f.name, len(params))
			}
			return f.exec(params)
		}))
	}
	options = append(options, expr.AllowUndefinedVariables())
	return options
}

// 以下函数遇到 NULL 参数时返回 NULL

func mathFunc(fn func(float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		val, err := cast.ToFloat64E(args[0])
		if err != nil {
			return nil, err
		}
		return fn(val), nil
	}
}

func stringFunc(fn func(string) string) func([]any) (any, error) {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		return fn(cast.ToString(args[0])), nil
	}
}

func execSqrt(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	if val < 0 {
		return nil, fmt.Errorf("sqrt of negative number")
	}
	return math.Sqrt(val), nil
}

func execPower(args []any) (any, error) {
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}
	base, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := cast.ToFloat64E(args[1])
	if err != nil {
		return nil, err
	}
	return math.Pow(base, exp), nil
}

func execRound(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	precision := 0
	if len(args) == 2 {
		if precision, err = cast.ToIntE(args[1]); err != nil {
			return nil, err
		}
	}
	shift := math.Pow(10, float64(precision))
	return math.Round(val*shift) / shift, nil
}

func execLen(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	// LEN 忽略尾部空格
	return int64(utf8.RuneCountInString(strings.TrimRight(cast.ToString(args[0]), " "))), nil
}

func execConcat(args []any) (any, error) {
	var sb strings.Builder
	for _, arg := range args {
		if arg != nil {
			sb.WriteString(cast.ToString(arg))
		}
	}
	return sb.String(), nil
}

func execCoalesce(args []any) (any, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}
