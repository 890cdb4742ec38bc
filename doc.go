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

/*
Package sqlbuilder 是可视化SQL查询设计器的核心。

它维护一个规范的查询结构 types.QueryState，把它确定性地生成为SQL文本，
并把SQL文本尽力还原为 QueryState。还原时无法确定的片段不会被猜测，
而是从结果中省略并给出警告。

# 核心特性

• 确定性生成 - 相同状态总是生成相同文本，空子句被省略
• 宽容解析 - 窗口函数、子查询等无法表示的内容以警告形式报告
• 参数透传 - @CustomerId 之类的参数原样保留
• 方括号标识符 - 输入中的 [Bill].[Amount] 被规范化为 Bill.Amount
• 预览 - 用样例行计算计算列、过滤 WHERE 条件
• 语法交叉检查 - 可选的 MySQL 语法校验

# 入门示例

构建并生成查询：

	state := types.NewBuilder().
		From("Bill", "b").
		Join(types.JoinLeft, "Customer", "c", types.On("b.CustomerId", types.OpEq, "c.Id")).
		Select(
			types.SimpleColumn{Table: "c", Column: "Name"},
			types.AggregateColumn{Function: types.AggSum, Column: "b.Amount", Alias: "Total"},
		).
		WhereParam("b.CustomerId", types.OpEq, "@CustomerId").
		GroupBy("c.Name").
		Build()

	sql := sqlbuilder.GenerateSQL(state)

把SQL载入设计器：

	result := sqlbuilder.ParseSQL(sql)
	if !result.Success {
		// result.Errors 说明原因，result.State 仍可使用
	}
	for _, w := range result.Warnings {
		fmt.Println("skipped:", w)
	}

# 配置

	b := sqlbuilder.New(
		sqlbuilder.WithLogLevel(logger.DEBUG),
		sqlbuilder.WithMaxInputLength(16*1024),
		sqlbuilder.WithSyntaxCheck(true),
	)

# 包结构

• types - 查询状态、列与表达式的标签联合、JSON/YAML 编解码、构建器
• sqlgen - SQL 生成
• rsql - SQL 解析与诊断
• calc - 计算列预览
• condition - WHERE 条件过滤
• sqlcheck - 语法交叉检查
• logger - 分级日志
*/
package sqlbuilder
