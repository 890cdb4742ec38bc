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
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rulego/sqlbuilder/types"
	"github.com/spf13/cast"
)

var parameterPattern = regexp.MustCompile(`^@\w+$`)

// IsParameterToken reports whether s is a bare @name token.
func IsParameterToken(s string) bool {
	return parameterPattern.MatchString(s)
}

// GenerateExpression renders an expression tree. Malformed nodes (nil
// operands, empty function names) render as an empty string instead of
// failing, because the editor may hold half-built expressions.
func GenerateExpression(e types.Expression) string {
	var buf bytes.Buffer
	formatExpression(&buf, e)
	return buf.String()
}

func formatExpression(buf *bytes.Buffer, e types.Expression) {
	if types.IsNilExpression(e) {
		return
	}
	switch n := e.(type) {
	case *types.ColumnRef:
		buf.WriteString(n.Name)
	case *types.Parameter:
		buf.WriteString(n.Name)
	case *types.Literal:
		formatLiteral(buf, n.Value)
	case *types.BinaryOp:
		left := GenerateExpression(n.Left)
		right := GenerateExpression(n.Right)
		if left == "" || right == "" {
			return
		}
		// 每个二元运算都加括号，无需优先级表
		buf.WriteString("(")
		buf.WriteString(left)
		buf.WriteString(" ")
		buf.WriteString(strings.TrimSpace(n.Op))
		buf.WriteString(" ")
		buf.WriteString(right)
		buf.WriteString(")")
	case *types.FuncCall:
		if strings.TrimSpace(n.Name) == "" {
			return
		}
		buf.WriteString(n.Name)
		buf.WriteString("(")
		for i, arg := range n.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			formatExpression(buf, arg)
		}
		buf.WriteString(")")
	}
}

// formatLiteral quotes strings unless they are @name tokens; numbers and
// booleans are written bare.
func formatLiteral(buf *bytes.Buffer, v any) {
	if s, ok := v.(string); ok && IsParameterToken(s) {
		buf.WriteString(s)
		return
	}
	buf.WriteString(FormatValue(v))
}

// FormatValue renders a condition or literal value: strings are quoted with
// internal quotes doubled, numbers and booleans are bare, nil is NULL.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return QuoteString(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return cast.ToString(x)
	default:
		return QuoteString(cast.ToString(x))
	}
}

// QuoteString wraps s in single quotes, doubling any quote inside.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
