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

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyInput    = errors.New("sql text is empty")
	ErrInputTooLarge = errors.New("sql text exceeds the maximum input length")
	ErrNotSelect     = errors.New("only SELECT statements can be loaded into the builder")
	ErrInternal      = errors.New("internal parser failure")
)

// maxExcerptLength 是警告中引用原文片段的最大字符数
const maxExcerptLength = 60

// ErrorType 定义诊断类型
type ErrorType int

const (
	ErrorTypeEmptyInput ErrorType = iota
	ErrorTypeInputTooLarge
	ErrorTypeNotSelect
	ErrorTypeInternal
	ErrorTypeWildcard
	ErrorTypeWindowFunction
	ErrorTypeComplexExpression
	ErrorTypeUnsupportedClause
	ErrorTypeUnsupportedCondition
	ErrorTypeImplicitJoin
	ErrorTypeUnsupportedJoin
	ErrorTypeSyntaxCheck
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeEmptyInput:
		return "EMPTY_INPUT"
	case ErrorTypeInputTooLarge:
		return "INPUT_TOO_LARGE"
	case ErrorTypeNotSelect:
		return "NOT_SELECT"
	case ErrorTypeInternal:
		return "INTERNAL"
	case ErrorTypeWildcard:
		return "WILDCARD"
	case ErrorTypeWindowFunction:
		return "WINDOW_FUNCTION"
	case ErrorTypeComplexExpression:
		return "COMPLEX_EXPRESSION"
	case ErrorTypeUnsupportedClause:
		return "UNSUPPORTED_CLAUSE"
	case ErrorTypeUnsupportedCondition:
		return "UNSUPPORTED_CONDITION"
	case ErrorTypeImplicitJoin:
		return "IMPLICIT_JOIN"
	case ErrorTypeUnsupportedJoin:
		return "UNSUPPORTED_JOIN"
	case ErrorTypeSyntaxCheck:
		return "SYNTAX_CHECK"
	default:
		return "UNKNOWN"
	}
}

func (t ErrorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Severity 区分可恢复的警告和不可恢复的错误
type Severity int

const (
	// SeverityWarning 片段被放弃解析，其余部分照常
	SeverityWarning Severity = iota
	// SeverityError 解析失败，success=false
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseError describes one fragment the parser abstained from, or one
// failure that stopped it.
type ParseError struct {
	Type     ErrorType `json:"type"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	// Position 是规范化后文本中的字节偏移
	Position int `json:"position"`
	Line     int `json:"line"`
	Column   int `json:"column"`
	// Token 是被放弃的原文片段，最多60个字符
	Token       string   `json:"excerpt,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Context     string   `json:"-"`
	Recoverable bool     `json:"recoverable"`
	Err         error    `json:"-"`
}

// Error 实现 error 接口
func (e *ParseError) Error() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Line > 0 && e.Column > 0 {
		builder.WriteString(fmt.Sprintf(" at line %d, column %d", e.Line, e.Column))
	}
	if e.Token != "" {
		builder.WriteString(fmt.Sprintf(" (near '%s')", e.Token))
	}
	if e.Context != "" {
		builder.WriteString(fmt.Sprintf("\nContext: %s", e.Context))
	}
	if len(e.Suggestions) > 0 {
		builder.WriteString(fmt.Sprintf("\nSuggestions: %s", strings.Join(e.Suggestions, "; ")))
	}
	return builder.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsRecoverable 检查错误是否可恢复
func (e *ParseError) IsRecoverable() bool {
	return e.Recoverable
}

// Summary is the one-line text used in Result.Warnings and Result.Errors.
func (e *ParseError) Summary() string {
	if e.Token == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %q", e.Message, e.Token)
}

// ErrorRecovery collects diagnostics for one parse run.
type ErrorRecovery struct {
	input       string
	diagnostics []*ParseError
}

// NewErrorRecovery 创建诊断收集器，input 用于计算行列号和上下文
func NewErrorRecovery(input string) *ErrorRecovery {
	return &ErrorRecovery{input: input}
}

// AddWarning records an abstention. fragment is the text that was skipped.
func (er *ErrorRecovery) AddWarning(t ErrorType, message string, position int, fragment string, suggestions ...string) *ParseError {
	return er.add(&ParseError{
		Type:        t,
		Severity:    SeverityWarning,
		Message:     message,
		Position:    position,
		Token:       Excerpt(fragment),
		Suggestions: suggestions,
		Recoverable: true,
	})
}

// AddError records a failure; cause is kept for errors.Is.
func (er *ErrorRecovery) AddError(t ErrorType, cause error, message string, position int) *ParseError {
	return er.add(&ParseError{
		Type:        t,
		Severity:    SeverityError,
		Message:     message,
		Position:    position,
		Recoverable: false,
		Err:         cause,
	})
}

func (er *ErrorRecovery) add(e *ParseError) *ParseError {
	if e.Position >= 0 && e.Position <= len(er.input) {
		e.Line, e.Column = calculateLineColumn(er.input, e.Position)
		e.Context = FormatErrorContext(er.input, e.Position, 20)
	}
	er.diagnostics = append(er.diagnostics, e)
	return e
}

// Diagnostics 返回按发现顺序排列的全部诊断
func (er *ErrorRecovery) Diagnostics() []*ParseError {
	return er.diagnostics
}

func (er *ErrorRecovery) Warnings() []string {
	return er.summaries(SeverityWarning)
}

func (er *ErrorRecovery) Errors() []string {
	return er.summaries(SeverityError)
}

// HasErrors 检查是否有不可恢复的错误
func (er *ErrorRecovery) HasErrors() bool {
	for _, d := range er.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (er *ErrorRecovery) summaries(s Severity) []string {
	out := make([]string, 0)
	for _, d := range er.diagnostics {
		if d.Severity == s {
			out = append(out, d.Summary())
		}
	}
	return out
}

// Excerpt trims s to at most 60 characters, marking the cut with "...".
func Excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= maxExcerptLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxExcerptLength]) + "..."
}

// calculateLineColumn 根据字节偏移计算1起始的行列号
func calculateLineColumn(input string, position int) (int, int) {
	line, column := 1, 1
	for i := 0; i < position && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// FormatErrorContext 格式化错误上下文
func FormatErrorContext(input string, position int, contextLength int) string {
	if position < 0 || position >= len(input) {
		return ""
	}

	start := position - contextLength
	if start < 0 {
		start = 0
	}

	end := position + contextLength
	if end > len(input) {
		end = len(input)
	}

	context := input[start:end]
	pointer := strings.Repeat(" ", position-start) + "^"

	return fmt.Sprintf("%s\n%s", context, pointer)
}
