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

package calc

import (
	"errors"

	"github.com/rulego/sqlbuilder/sqlgen"
	"github.com/rulego/sqlbuilder/types"
)

// ErrNotRowLevel 聚合列和窗口列需要多行数据，无法按单行预览
var ErrNotRowLevel = errors.New("column needs more than one row")

// ColumnResult is the preview of one SELECT column against one row.
type ColumnResult struct {
	// Name is the alias, or the rendered column text when there is none.
	Name  string           `json:"name" yaml:"name"`
	Kind  types.ColumnKind `json:"kind" yaml:"kind"`
	Value any              `json:"value" yaml:"value"`
	// Error is set when the column could not be evaluated; Value is nil.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	err   error
}

// Err returns the evaluation error, if any.
func (r ColumnResult) Err() error {
	return r.err
}

// EvalColumns previews every column of state against row. Failures are
// reported per column; one bad column does not hide the others.
func EvalColumns(state *types.QueryState, row, params map[string]any) []ColumnResult {
	if state == nil {
		return nil
	}
	results := make([]ColumnResult, 0, len(state.Columns))
	for _, c := range state.Columns {
		col := types.ColumnValue(c)
		if col == nil {
			continue
		}
		r := ColumnResult{Name: col.OutputAlias(), Kind: col.Kind()}
		if r.Name == "" {
			r.Name = sqlgen.GenerateColumn(col)
		}
		switch v := col.(type) {
		case types.SimpleColumn:
			r.Value, _ = LookupColumn(row, v.QualifiedName())
		case types.CalculatedColumn:
			r.Value, r.err = Eval(v.Expression, row, params)
		default:
			r.err = ErrNotRowLevel
		}
		if r.err != nil {
			r.Error = r.err.Error()
		}
		results = append(results, r)
	}
	return results
}
