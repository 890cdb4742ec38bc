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
	"fmt"
	"strings"

	"github.com/rulego/sqlbuilder/aggregator"
	"github.com/rulego/sqlbuilder/calc"
	"github.com/rulego/sqlbuilder/condition"
	"github.com/rulego/sqlbuilder/logger"
	"github.com/rulego/sqlbuilder/rsql"
	"github.com/rulego/sqlbuilder/sqlcheck"
	"github.com/rulego/sqlbuilder/sqlgen"
	"github.com/rulego/sqlbuilder/types"
)

// SQLBuilder 是查询构建核心的主要接口。
// 它把 QueryState 生成为 SQL，把 SQL 尽力还原为 QueryState。
// New 之后实例不可变，可并发使用。
//
// 使用示例:
//
//	b := sqlbuilder.New()
//	sql := b.GenerateSQL(state)
//	result := b.ParseSQL(sql)
type SQLBuilder struct {
	cfg config
}

// New 创建一个新的SQLBuilder实例。
//
// 示例:
//
//	// 创建默认实例
//	b := sqlbuilder.New()
//
//	// 启用语法交叉检查并关闭日志
//	b := sqlbuilder.New(sqlbuilder.WithSyntaxCheck(true), sqlbuilder.WithDiscardLog())
func New(options ...Option) *SQLBuilder {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	if cfg.level != nil {
		if cfg.logger != nil {
			cfg.logger.SetLevel(*cfg.level)
		} else {
			logger.GetDefault().SetLevel(*cfg.level)
		}
	}
	return &SQLBuilder{cfg: cfg}
}

func (s *SQLBuilder) log() logger.Logger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return logger.GetDefault()
}

// GenerateSQL 把查询状态序列化为SQL文本，从不失败。
// 启用语法检查时，检查失败只记录 WARN 日志。
func (s *SQLBuilder) GenerateSQL(state *types.QueryState) string {
	sql := sqlgen.GenerateSQL(state)
	if s.cfg.syntaxCheck && sql != "" {
		if err := sqlcheck.Check(sql); err != nil {
			s.log().Warn("generated sql does not pass the syntax check: %v", err)
		}
	}
	return sql
}

// ParseSQL 尽力把SQL文本还原为查询状态。
// 结果的 State 永不为 nil；Success 为 false 时错误已记录到 WARN 日志。
func (s *SQLBuilder) ParseSQL(sql string) *rsql.Result {
	result := rsql.ParseSQLWithOptions(sql, s.cfg.parseOptions())
	if !result.Success {
		s.log().Warn("sql could not be loaded: %s", strings.Join(result.Errors, "; "))
	}
	return result
}

// Check 使用完整语法检查SQL文本
func (s *SQLBuilder) Check(sql string) error {
	return sqlcheck.Check(sql)
}

// RoundTrip 生成SQL后重新解析，并比较重新生成的文本。
// 返回 true 表示状态可以无损往返。没有列的状态生成 SELECT *，解析时产生通配符警告，因此不能往返。
func (s *SQLBuilder) RoundTrip(state *types.QueryState) (*rsql.Result, bool) {
	sql := sqlgen.GenerateSQL(state)
	result := rsql.ParseSQLWithOptions(sql, s.cfg.parseOptions())
	if !result.Success {
		return result, false
	}
	regenerated := sqlgen.GenerateSQL(result.State)
	if regenerated != sql {
		s.log().Debug("round trip changed the query:\n%s\n---\n%s", sql, regenerated)
		return result, false
	}
	return result, len(result.Warnings) == 0
}

// Validate 报告状态中生成器会静默省略的不完整部分
func (s *SQLBuilder) Validate(state *types.QueryState) []types.Issue {
	return types.Validate(state)
}

// Preview 用一行样例数据计算每个选择列的值
func (s *SQLBuilder) Preview(state *types.QueryState, row, params map[string]any) []calc.ColumnResult {
	results := calc.EvalColumns(state, row, params)
	for _, r := range results {
		if r.Err() != nil {
			s.log().Debug("column %s not evaluated: %v", r.Name, r.Err())
		}
	}
	return results
}

// Filter 返回满足 WHERE 条件的样例行
func (s *SQLBuilder) Filter(state *types.QueryState, rows []map[string]any, params map[string]any) ([]map[string]any, error) {
	if state == nil {
		return rows, nil
	}
	f, err := condition.NewWhereFilter(state.Where)
	if err != nil {
		return nil, fmt.Errorf("where clause: %w", err)
	}
	return condition.Rows(f, rows, params)
}

// Aggregate 过滤样例行后按 GROUP BY 和聚合列分组统计。
// 返回的列名顺序为分组列在前、聚合列在后。
func (s *SQLBuilder) Aggregate(state *types.QueryState, rows []map[string]any, params map[string]any) ([]map[string]any, []string, error) {
	kept, err := s.Filter(state, rows, params)
	if err != nil {
		return nil, nil, err
	}
	results, columns, err := aggregator.Aggregate(state, kept)
	if err != nil {
		return nil, nil, err
	}
	s.log().Debug("aggregated %d of %d rows into %d groups", len(kept), len(rows), len(results))
	return results, columns, nil
}

var defaultBuilder = New()

// GenerateSQL 使用默认实例生成SQL
func GenerateSQL(state *types.QueryState) string {
	return defaultBuilder.GenerateSQL(state)
}

// ParseSQL 使用默认实例解析SQL
func ParseSQL(sql string) *rsql.Result {
	return defaultBuilder.ParseSQL(sql)
}
