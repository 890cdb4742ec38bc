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

package sqlbuilder

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rulego/sqlbuilder/logger"
	"github.com/rulego/sqlbuilder/rsql"
	"github.com/stretchr/testify/assert"
)

// TestWithLogLevel 测试日志级别设置选项
func TestWithLogLevel(t *testing.T) {
	t.Run("作用于实例日志器", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(WithLogOutput(&buf, logger.ERROR), WithLogLevel(logger.DEBUG))

		s.ParseSQL("SELECT * FROM Bill")
		assert.Contains(t, buf.String(), "[DEBUG]")
	})

	t.Run("作用于全局日志器", func(t *testing.T) {
		original := logger.GetDefault()
		defer logger.SetDefault(original)

		var buf bytes.Buffer
		logger.SetDefault(logger.NewLogger(logger.ERROR, &buf))
		New(WithLogLevel(logger.WARN))

		logger.Warn("visible")
		assert.Contains(t, buf.String(), "visible")
	})
}

// TestWithDiscardLog 测试禁用日志输出选项
func TestWithDiscardLog(t *testing.T) {
	original := logger.GetDefault()
	defer logger.SetDefault(original)

	var buf bytes.Buffer
	logger.SetDefault(logger.NewLogger(logger.DEBUG, &buf))

	s := New(WithDiscardLog())
	result := s.ParseSQL("DELETE FROM Bill")
	assert.False(t, result.Success)
	assert.Empty(t, buf.String(), "全局日志器不应收到输出")
}

// TestWithMaxInputLength 测试输入长度上限
func TestWithMaxInputLength(t *testing.T) {
	s := New(WithDiscardLog(), WithMaxInputLength(20))

	result := s.ParseSQL("SELECT Name FROM Customer")
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Diagnostics[0], rsql.ErrInputTooLarge)

	result = New(WithDiscardLog(), WithMaxInputLength(0)).ParseSQL("SELECT Name FROM Customer")
	assert.True(t, result.Success)
}

// TestWithSyntaxCheck 测试语法交叉检查选项
func TestWithSyntaxCheck(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithLogOutput(&buf, logger.WARN), WithSyntaxCheck(true))

	result := s.ParseSQL("SELECT a.Id FROM A a FULL OUTER JOIN B b ON a.Id = b.Id")
	assert.True(t, result.Success)
	assert.Len(t, result.Warnings, 1)
	assert.True(t, strings.HasPrefix(result.Warnings[0], "syntax check failed"))

	result = s.ParseSQL("SELECT a.Id FROM A a LEFT JOIN B b ON a.Id = b.Id")
	assert.Empty(t, result.Warnings)

	s.GenerateSQL(result.State)
	assert.Empty(t, buf.String())

	result.State.Joins[0].Type = "FULL OUTER"
	s.GenerateSQL(result.State)
	assert.Contains(t, buf.String(), "does not pass the syntax check")
}
