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

// token.go 定义词法单元类型以及子句、连接类型等关键字表
package rsql

import "strings"

// TokenType 表示词法单元的类型
type TokenType int

const (
	TokenEOF TokenType = iota
	// TokenWord 标识符或关键字，如 Bill、SELECT、@CustomerId
	TokenWord
	// TokenQuoted 方括号标识符，如 [Bill Item]
	TokenQuoted
	// TokenString 单引号字符串，如 'O''Brien'、N'abc'
	TokenString
	TokenNumber
	TokenComma
	TokenDot
	TokenLParen
	TokenRParen
	// TokenOperator 比较或算术运算符，如 =、<>、>=、+
	TokenOperator
	TokenStar
	TokenSemicolon
	// TokenIllegal 无法识别的字符
	TokenIllegal
)

// Token 是一个词法单元
type Token struct {
	Type  TokenType
	Value string
	// Pos 和 End 是在输入中的字节偏移，[Pos, End)
	Pos int
	End int
	// Depth 是该token所在的括号嵌套层级，最外层为0
	Depth int
	// Unterminated 标记未闭合的字符串或方括号
	Unterminated bool
}

// Is reports whether the token is the given keyword, case-insensitively.
func (t Token) Is(keyword string) bool {
	return t.Type == TokenWord && strings.EqualFold(t.Value, keyword)
}

// IsIdentifier reports whether the token can name a table, column or alias.
func (t Token) IsIdentifier() bool {
	switch t.Type {
	case TokenQuoted:
		return true
	case TokenWord:
		return !isReserved(t.Value) && !strings.HasPrefix(t.Value, "@")
	default:
		return false
	}
}

// clauseKeywords 是顶层子句的起始关键字，GROUP 和 ORDER 需要后跟 BY
var clauseKeywords = map[string]bool{
	"FROM":      true,
	"WHERE":     true,
	"GROUP":     true,
	"HAVING":    true,
	"ORDER":     true,
	"LIMIT":     true,
	"OFFSET":    true,
	"FETCH":     true,
	"UNION":     true,
	"EXCEPT":    true,
	"INTERSECT": true,
	"OPTION":    true,
	"FOR":       true,
	"INTO":      true,
}

// joinTypeWords 可以出现在 JOIN 之前
var joinTypeWords = map[string]bool{
	"INNER": true,
	"LEFT":  true,
	"RIGHT": true,
	"FULL":  true,
	"CROSS": true,
	"OUTER": true,
}

// reservedWords 不能作为别名
var reservedWords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true, "BY": true,
	"HAVING": true, "ORDER": true, "LIMIT": true, "OFFSET": true, "FETCH": true,
	"UNION": true, "EXCEPT": true, "INTERSECT": true, "OPTION": true, "FOR": true,
	"JOIN": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"CROSS": true, "OUTER": true, "APPLY": true, "ON": true, "USING": true,
	"AS": true, "AND": true, "OR": true, "NOT": true, "IN": true, "IS": true,
	"NULL": true, "LIKE": true, "BETWEEN": true, "EXISTS": true, "CASE": true,
	"WHEN": true, "THEN": true, "ELSE": true, "END": true, "DISTINCT": true,
	"TOP": true, "ALL": true, "ASC": true, "DESC": true, "OVER": true,
	"WITH": true, "PARTITION": true, "INTO": true, "TIES": true, "PERCENT": true,
}

func isReserved(word string) bool {
	return reservedWords[strings.ToUpper(word)]
}

// knownFunctions 是常见的标量函数，只用于丰富放弃解析时的提示信息
var knownFunctions = map[string]bool{
	"ABS": true, "ROUND": true, "FLOOR": true, "CEILING": true, "CEIL": true,
	"SQRT": true, "POWER": true, "UPPER": true, "LOWER": true, "LEN": true,
	"LENGTH": true, "LTRIM": true, "RTRIM": true, "TRIM": true, "SUBSTRING": true,
	"LEFT": true, "RIGHT": true, "REPLACE": true, "CONCAT": true, "COALESCE": true,
	"ISNULL": true, "IFNULL": true, "NULLIF": true, "IIF": true, "CAST": true,
	"CONVERT": true, "FORMAT": true, "GETDATE": true, "NOW": true, "DATEADD": true,
	"DATEDIFF": true, "DATEPART": true, "YEAR": true, "MONTH": true, "DAY": true,
	"SUM": true, "AVG": true, "COUNT": true, "MIN": true, "MAX": true,
}

// IsKnownFunction reports whether name is a scalar or aggregate function the
// builder knows by name.
func IsKnownFunction(name string) bool {
	return knownFunctions[strings.ToUpper(name)]
}
