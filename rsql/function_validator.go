/*
 * Copyright 2024 The RuleGo Authors.
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

package rsql

import "strings"

// FunctionCall 函数调用信息
type FunctionCall struct {
	Name string
	// Position 是函数名在输入中的偏移
	Position int
}

// ExtractFunctionCalls finds every "name(" in the tokens, skipping
// keywords such as IN or OVER that are followed by a parenthesis too.
func ExtractFunctionCalls(tokens []Token) []FunctionCall {
	var calls []FunctionCall
	for i := 0; i+1 < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != TokenWord || tokens[i+1].Type != TokenLParen {
			continue
		}
		if isReserved(tok.Value) && !IsKnownFunction(tok.Value) {
			continue
		}
		calls = append(calls, FunctionCall{Name: tok.Value, Position: tok.Pos})
	}
	return calls
}

// UnknownFunctions returns the distinct upper-cased names of calls that are
// not in the known function list, in order of appearance.
func UnknownFunctions(tokens []Token) []string {
	var names []string
	seen := make(map[string]bool)
	for _, call := range ExtractFunctionCalls(tokens) {
		name := strings.ToUpper(call.Name)
		if IsKnownFunction(name) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
