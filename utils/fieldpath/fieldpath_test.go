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

package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type customer struct {
	Name    string
	Address map[string]string
}

// TestGetNestedField 测试嵌套字段访问
func TestGetNestedField(t *testing.T) {
	row := map[string]any{
		"b":        map[string]any{"Amount": int64(5), "Note": nil},
		"c":        customer{Name: "O'Brien", Address: map[string]string{"City": "Cork"}},
		"p":        &customer{Name: "ptr"},
		"Unit.Qty": map[string]any{"x": 1},
		"plain":    3,
	}

	tests := []struct {
		path     string
		expected any
		found    bool
	}{
		{"b.Amount", int64(5), true},
		{"B.amount", int64(5), true},
		{"[b].[Amount]", int64(5), true},
		{"b.Note", nil, true},
		{"b.Missing", nil, false},
		{"c.Name", "O'Brien", true},
		{"c.address.city", "Cork", true},
		{"p.Name", "ptr", true},
		{"plain", 3, true},
		{"[Unit.Qty].x", 1, true},
		{"plain.x", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, found := GetNestedField(row, tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, v)
		})
	}
}

// TestIsNestedField 测试嵌套字段判断
func TestIsNestedField(t *testing.T) {
	assert.True(t, IsNestedField("b.Amount"))
	assert.False(t, IsNestedField("Amount"))
	assert.False(t, IsNestedField("[Unit.Price]"))
}
