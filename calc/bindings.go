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
	"strconv"
	"strings"

	"github.com/rulego/sqlbuilder/utils/fieldpath"
	"github.com/rulego/sqlbuilder/utils/ident"
)

// Bindings maps SQL column references and @parameters onto plain variable
// names (c0, c1, ... and p0, p1, ...). Names such as "Bill.Amount" or
// "[Bill Item].Qty" are not valid expr identifiers, so the compiled source
// only ever sees the synthetic names.
type Bindings struct {
	columns    []string
	params     []string
	colIndex   map[string]int
	paramIndex map[string]int
}

func NewBindings() *Bindings {
	return &Bindings{
		colIndex:   make(map[string]int),
		paramIndex: make(map[string]int),
	}
}

// Column returns the variable bound to a column reference.
func (b *Bindings) Column(name string) string {
	key := strings.TrimSpace(name)
	i, ok := b.colIndex[key]
	if !ok {
		i = len(b.columns)
		b.columns = append(b.columns, key)
		b.colIndex[key] = i
	}
	return "c" + strconv.Itoa(i)
}

// Param returns the variable bound to an @parameter.
func (b *Bindings) Param(name string) string {
	key := strings.TrimPrefix(strings.TrimSpace(name), "@")
	i, ok := b.paramIndex[key]
	if !ok {
		i = len(b.params)
		b.params = append(b.params, key)
		b.paramIndex[key] = i
	}
	return "p" + strconv.Itoa(i)
}

// Columns lists the bound column references in binding order.
func (b *Bindings) Columns() []string {
	return append([]string(nil), b.columns...)
}

// Params lists the bound parameter names without '@'.
func (b *Bindings) Params() []string {
	return append([]string(nil), b.params...)
}

// Env builds the evaluation environment. Missing columns and parameters
// are bound to nil.
func (b *Bindings) Env(row, params map[string]any) map[string]any {
	env := make(map[string]any, len(b.columns)+len(b.params))
	for i, name := range b.columns {
		env["c"+strconv.Itoa(i)], _ = LookupColumn(row, name)
	}
	for i, name := range b.params {
		env["p"+strconv.Itoa(i)], _ = LookupParam(params, name)
	}
	return env
}

// LookupColumn finds a column value in a row. The exact key wins, then a
// case-insensitive match, then the same two attempts with brackets removed.
// A qualified name is then followed through nested objects, so "b.Amount"
// finds {"b": {"Amount": ...}}, and finally the table qualifier is dropped
// so it also finds a row key "Amount".
func LookupColumn(row map[string]any, name string) (any, bool) {
	if v, ok := lookupKey(row, name); ok {
		return v, true
	}
	stripped := ident.StripQualified(name)
	if v, ok := lookupKey(row, stripped); ok {
		return v, true
	}
	if fieldpath.IsNestedField(name) {
		if v, ok := fieldpath.GetNestedField(row, name); ok {
			return v, true
		}
	}
	_, column := ident.SplitQualified(name)
	return lookupKey(row, column)
}

// LookupParam finds a parameter by name with or without the '@' prefix.
func LookupParam(params map[string]any, name string) (any, bool) {
	name = strings.TrimPrefix(name, "@")
	if v, ok := lookupKey(params, name); ok {
		return v, true
	}
	return lookupKey(params, "@"+name)
}

func lookupKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
