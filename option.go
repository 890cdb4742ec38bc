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
	"io"

	"github.com/rulego/sqlbuilder/logger"
)

// Option 表示对SQLBuilder默认行为的修改配置。
// 通过函数式选项模式，用户可以灵活地配置解析和生成行为。
type Option func(*config)

// WithLogger 设置实例使用的日志记录器。
// 未设置时使用 logger.GetDefault()。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	b := sqlbuilder.New(sqlbuilder.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(c *config) {
		c.logger = log
	}
}

// WithLogLevel 设置日志级别。
// 作用于实例的日志记录器；未设置 WithLogger 时作用于全局默认日志记录器。
//
// 示例:
//
//	// 输出解析器跳过的每个片段
//	b := sqlbuilder.New(sqlbuilder.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(c *config) {
		c.level = &level
	}
}

// WithLogOutput 把实例日志写到指定输出。
//
// 示例:
//
//	logFile, _ := os.OpenFile("sqlbuilder.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	b := sqlbuilder.New(sqlbuilder.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(c *config) {
		c.logger = logger.NewNamedLogger(level, output, "sqlbuilder")
	}
}

// WithDiscardLog 禁用实例的日志输出
func WithDiscardLog() Option {
	return func(c *config) {
		c.logger = logger.NewDiscardLogger()
	}
}

// WithMaxInputLength 设置可解析SQL的最大字节数，<=0 使用默认值 64 KiB
func WithMaxInputLength(n int) Option {
	return func(c *config) {
		c.maxInputLength = n
	}
}

// WithSyntaxCheck 启用 MySQL 语法交叉检查。
// 解析时检查失败会追加一条警告；生成时检查失败只记录日志。
func WithSyntaxCheck(enabled bool) Option {
	return func(c *config) {
		c.syntaxCheck = enabled
	}
}
