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
	"github.com/rulego/sqlbuilder/logger"
	"github.com/rulego/sqlbuilder/rsql"
	"github.com/rulego/sqlbuilder/sqlcheck"
)

// config 保存 SQLBuilder 的配置，New 之后不再修改
type config struct {
	logger         logger.Logger
	level          *logger.Level
	maxInputLength int
	syntaxCheck    bool
}

func defaultConfig() config {
	return config{
		maxInputLength: rsql.DefaultMaxInputLength,
	}
}

// parseOptions 转换为解析器选项
func (c config) parseOptions() rsql.Options {
	opts := rsql.Options{
		MaxInputLength: c.maxInputLength,
		Logger:         c.logger,
	}
	if c.syntaxCheck {
		opts.SyntaxCheck = sqlcheck.Check
	}
	return opts
}
