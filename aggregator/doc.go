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
Package aggregator 按查询状态的 GROUP BY 和聚合列对样例数据分组统计，
用于在设计器中预览聚合查询的结果。

支持的聚合函数：SUM、AVG、COUNT、MIN、MAX，以及 DISTINCT 修饰。
NULL 值不参与聚合；COUNT(*) 统计行数；没有 GROUP BY 时总是返回一行。

# 使用示例

	rows, columns, err := aggregator.Aggregate(state, sampleRows)

也可以手动构造分组聚合器：

	ga, _ := aggregator.NewGroupAggregator(
		[]aggregator.GroupField{{InputField: "c.Region"}},
		[]aggregator.AggregationField{{InputField: "b.Amount", Function: types.AggSum, OutputAlias: "Total"}},
	)
	for _, row := range sampleRows {
		_ = ga.Add(row)
	}
	results := ga.GetResults()
*/
package aggregator
