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
Package types provides the query model shared by the SQL generator, the SQL
parser and the visual builder.

# Core Features

• QueryState - tables, joins, SELECT list, WHERE chain, GROUP BY and ORDER BY
• Closed sum types - Column and Expression variants with exhaustive switches
• Serialization - tagged JSON shape used by the builder UI, YAML through the same shape
• Validation - incompleteness report for the editor, never blocks generation
• Fluent builder - assembles states step by step, self-join aliases included

# Query State

	type QueryState struct {
		Tables  []Table          // only the first one is emitted in FROM
		Joins   []JoinConfig     // emitted in order after FROM
		Columns Columns          // SELECT list, in output order
		Where   []WhereCondition // first has no connective, later ones carry AndOr
		GroupBy []string
		OrderBy []OrderByItem
	}

# Columns

Every SELECT-list entry is one of:

	SimpleColumn{Table, Column, Alias}
	CalculatedColumn{Expression, Alias}
	AggregateColumn{Function, Column, Distinct, Alias}
	WindowColumn{Function, Alias, PartitionBy, OrderBy, FrameClause}

Serialized columns carry a "type" discriminator:

	{"type": "aggregate", "function": "SUM", "column": "Amount", "alias": "Total"}

# Expressions

Calculated columns hold a tree of *ColumnRef, *Literal, *Parameter, *BinaryOp
and *FuncCall nodes:

	expr := types.Op(types.Col("Qty"), "*", types.Fn("ROUND", types.Col("Price"), types.Lit(2)))

States are values: consumers replace them instead of editing them in place.
Clone gives a deep copy.
*/
package types
