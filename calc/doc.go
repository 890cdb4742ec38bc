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
Package calc evaluates calculated columns against a sample row, so a query
designer can preview what an expression produces before running the query.

Expression trees are translated into expr-lang source and compiled once.
Column references and @parameters are bound to synthetic variables, which
lets names such as "[Bill Item].Qty" reach the program unchanged.

# Supported Functions

ABS, FLOOR, CEILING/CEIL, SQRT, POWER, ROUND, UPPER, LOWER, TRIM, LTRIM,
RTRIM, LEN/LENGTH, CONCAT, COALESCE and ISNULL. Other function names fail at
compile time with ErrUnsupported.

# Semantics

Division always yields a float. '||' concatenates strings. Scalar functions
return NULL for a NULL argument; arithmetic on NULL is an evaluation error.

# Usage

	p, err := calc.Compile(types.Op(types.Col("b.Amount"), "*", types.Lit(1.2)))
	if err != nil {
		return err
	}
	v, err := p.Eval(map[string]any{"Amount": 100}, nil) // 120.0
*/
package calc
