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
	"testing"

	"github.com/rulego/sqlbuilder/types"
	"github.com/stretchr/testify/assert"
)

// TestGenerateExpression 测试表达式渲染
func TestGenerateExpression(t *testing.T) {
	tests := []struct {
		name string
		expr types.Expression
		want string
	}{
		{"列引用", types.Col("Bill.Amount"), "Bill.Amount"},
		{"字符串字面量", types.Lit("O'Brien"), "'O''Brien'"},
		{"整数字面量", types.Lit(42), "42"},
		{"浮点字面量", types.Lit(1.5), "1.5"},
		{"参数形式的字符串字面量", types.Lit("@Rate"), "@Rate"},
		{"带空格的@字符串仍加引号", types.Lit("@not a param"), "'@not a param'"},
		{"参数", types.Param("@CustomerId"), "@CustomerId"},
		{"二元运算", types.Op(types.Col("Qty"), "*", types.Col("Price")), "(Qty * Price)"},
		{
			"嵌套运算",
			types.Op(types.Op(types.Col("a"), "+", types.Col("b")), "*", types.Lit(2)),
			"((a + b) * 2)",
		},
		{"缺少右操作数", types.Op(types.Col("a"), "+", nil), ""},
		{"缺少左操作数", &types.BinaryOp{Op: "-", Right: types.Lit(1)}, ""},
		{"函数", types.Fn("ROUND", types.Col("Price"), types.Lit(2)), "ROUND(Price, 2)"},
		{"无参函数", types.Fn("GETDATE"), "GETDATE()"},
		{"函数名为空", types.Fn(""), ""},
		{
			"函数嵌套运算",
			types.Fn("ISNULL", types.Op(types.Col("a"), "/", types.Col("b")), types.Lit(0)),
			"ISNULL((a / b), 0)",
		},
		{"nil", nil, ""},
		{"typed nil", (*types.ColumnRef)(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateExpression(tt.expr))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "'it''s'", FormatValue("it's"))
	assert.Equal(t, "TRUE", FormatValue(true))
	assert.Equal(t, "FALSE", FormatValue(false))
	assert.Equal(t, "7", FormatValue(int64(7)))
	assert.Equal(t, "0.25", FormatValue(float32(0.25)))
	assert.Equal(t, "''", FormatValue(""))
}

func TestIsParameterToken(t *testing.T) {
	assert.True(t, IsParameterToken("@CustomerId"))
	assert.True(t, IsParameterToken("@p_1"))
	assert.False(t, IsParameterToken("@"))
	assert.False(t, IsParameterToken("x@y"))
	assert.False(t, IsParameterToken("@a b"))
}
