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

// Package fieldpath reads values out of nested sample rows, where a column
// such as "b.Amount" may be stored as {"b": {"Amount": ...}}.
package fieldpath

import (
	"reflect"
	"strings"

	"github.com/rulego/sqlbuilder/utils/ident"
)

// GetNestedField 按点号分隔的路径逐层取值，方括号内的点号不分隔。
// 每层先精确匹配键名，再忽略大小写匹配。
func GetNestedField(data any, fieldPath string) (any, bool) {
	if strings.TrimSpace(fieldPath) == "" {
		return nil, false
	}
	current := data
	for _, field := range ident.SplitParts(fieldPath) {
		val, found := getFieldValue(current, ident.StripBrackets(field))
		if !found {
			return nil, false
		}
		current = val
	}
	return current, true
}

// getFieldValue 从单个层级获取字段值
func getFieldValue(data any, fieldName string) (any, bool) {
	if m, ok := data.(map[string]any); ok {
		if v, ok := m[fieldName]; ok {
			return v, true
		}
		for k, v := range m {
			if strings.EqualFold(k, fieldName) {
				return v, true
			}
		}
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		iter := v.MapRange()
		for iter.Next() {
			if strings.EqualFold(iter.Key().String(), fieldName) {
				return iter.Value().Interface(), true
			}
		}
		return nil, false
	case reflect.Struct:
		f := v.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, fieldName) })
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
		return nil, false
	default:
		return nil, false
	}
}

// IsNestedField 检查字段名是否包含方括号外的点号
func IsNestedField(fieldName string) bool {
	return len(ident.SplitParts(fieldName)) > 1
}
