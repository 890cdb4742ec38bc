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
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

var (
	// ErrMalformed 表达式树不完整，例如运算缺少操作数
	ErrMalformed = errors.New("malformed expression")
	// ErrUnsupported 运算符或函数无法预览
	ErrUnsupported = errors.New("unsupported in preview")
)

// Program is a compiled calculated-column expression.
type Program struct {
	program  *vm.Program
	source   string
	bindings *Bindings
}

// Compile translates an expression tree into expr source and compiles it.
// The generator accepts half-built trees; Compile does not, since a preview
// of an incomplete expression has no value.
func Compile(e types.Expression) (*Program, error) {
	b := NewBindings()
	var buf bytes.Buffer
	if err := translate(&buf, e, b); err != nil {
		return nil, err
	}
	source := buf.String()
	program, err := expr.Compile(source, CompileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	return &Program{program: program, source: source, bindings: b}, nil
}

// Eval runs the program against one row. Integer results come back as
// int64 and floating point results as float64.
func (p *Program) Eval(row, params map[string]any) (any, error) {
	out, err := expr.Run(p.program, p.bindings.Env(row, params))
	if err != nil {
		return nil, err
	}
	return Normalize(out), nil
}

// Source returns the translated expr source, with synthetic variable names.
func (p *Program) Source() string {
	return p.source
}

// Columns lists the column references the program reads.
func (p *Program) Columns() []string {
	return p.bindings.Columns()
}

// Params lists the parameters the program reads, without '@'.
func (p *Program) Params() []string {
	return p.bindings.Params()
}

// Eval compiles and runs e once.
func Eval(e types.Expression, row, params map[string]any) (any, error) {
	p, err := Compile(e)
	if err != nil {
		return nil, err
	}
	return p.Eval(row, params)
}

// sqlOperators 把SQL运算符映射为expr运算符
var sqlOperators = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"||":  "+",
	"=":   "==",
	"!=":  "!=",
	"<>":  "!=",
	">":   ">",
	"<":   "<",
	">=":  ">=",
	"<=":  "<=",
	"AND": "&&",
	"OR":  "||",
}

func translate(buf *bytes.Buffer, e types.Expression, b *Bindings) error {
	if types.IsNilExpression(e) {
		return fmt.Errorf("%w: empty operand", ErrMalformed)
	}
	switch n := e.(type) {
	case *types.ColumnRef:
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("%w: empty column reference", ErrMalformed)
		}
		buf.WriteString(b.Column(n.Name))
	case *types.Parameter:
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("%w: empty parameter", ErrMalformed)
		}
		buf.WriteString(b.Param(n.Name))
	case *types.Literal:
		if s, ok := n.Value.(string); ok && strings.HasPrefix(s, "@") && len(s) > 1 {
			buf.WriteString(b.Param(s))
			return nil
		}
		lit, err := Literal(n.Value)
		if err != nil {
			return err
		}
		buf.WriteString(lit)
	case *types.BinaryOp:
		op, ok := sqlOperators[strings.ToUpper(strings.TrimSpace(n.Op))]
		if !ok {
			return fmt.Errorf("%w: operator %q", ErrUnsupported, n.Op)
		}
		buf.WriteString("(")
		if err := translate(buf, n.Left, b); err != nil {
			return err
		}
		buf.WriteString(" " + op + " ")
		if err := translate(buf, n.Right, b); err != nil {
			return err
		}
		buf.WriteString(")")
	case *types.FuncCall:
		name := strings.ToUpper(strings.TrimSpace(n.Name))
		if name == "" {
			return fmt.Errorf("%w: empty function name", ErrMalformed)
		}
		fn, ok := functionNames[name]
		if !ok {
			return fmt.Errorf("%w: function %s", ErrUnsupported, name)
		}
		buf.WriteString(fn)
		buf.WriteString("(")
		for i, arg := range n.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := translate(buf, arg, b); err != nil {
				return err
			}
		}
		buf.WriteString(")")
	default:
		return fmt.Errorf("%w: node %T", ErrUnsupported, e)
	}
	return nil
}

// Literal renders a scalar as expr source.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "nil", nil
	case string:
		return strconv.Quote(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float32, float64:
		f := cast.ToFloat64(x)
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, nil
	default:
		n := types.NormalizeNumber(v)
		switch y := n.(type) {
		case int64:
			return strconv.FormatInt(y, 10), nil
		case float64:
			return Literal(y)
		}
		if i, err := cast.ToInt64E(v); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		return "", fmt.Errorf("%w: literal of type %T", ErrUnsupported, v)
	}
}

// Normalize converts integer kinds to int64 and float32 to float64.
func Normalize(v any) any {
	switch x := v.(type) {
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return cast.ToInt64(x)
	case float32:
		return cast.ToFloat64(x)
	default:
		return v
	}
}
