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

// Package ident normalizes quoted identifiers such as [Bill].[Amount] or
// "Bill"."Amount". Quotes are accepted on input only; generated SQL never
// carries them.
package ident

import "strings"

// StripBrackets trims whitespace and removes one enclosing [...] or "..."
// pair. Internal brackets are left alone and "" inside double quotes is
// unescaped to ".
func StripBrackets(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// StripQualified applies StripBrackets to every dot-separated part, so
// "[dbo].[Bill].[Amount]" becomes "dbo.Bill.Amount".
func StripQualified(s string) string {
	parts := SplitParts(s)
	for i, p := range parts {
		parts[i] = StripBrackets(p)
	}
	return strings.Join(parts, ".")
}

// SplitQualified splits a possibly qualified column reference on its last
// dot and strips brackets from both halves. An unqualified name returns an
// empty table.
func SplitQualified(s string) (table, column string) {
	parts := SplitParts(s)
	for i, p := range parts {
		parts[i] = StripBrackets(p)
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]
}

// SplitParts splits on dots that are not inside brackets or double quotes.
func SplitParts(s string) []string {
	var parts []string
	inBracket, inQuote := false, false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			if !inQuote {
				inBracket = true
			}
		case ']':
			if !inQuote {
				inBracket = false
			}
		case '"':
			if !inBracket {
				inQuote = !inQuote
			}
		case '.':
			if !inBracket && !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
