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

// Lexer splits SQL text into tokens and records the parenthesis depth of
// each one, so clause keywords and separators can be matched at the top
// level only.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	depth   int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize returns every token of input, without the trailing EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.pos

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: start, End: start, Depth: l.depth}
	case ',':
		return l.single(TokenComma, start)
	case '.':
		return l.single(TokenDot, start)
	case ';':
		return l.single(TokenSemicolon, start)
	case '*':
		return l.single(TokenStar, start)
	case '(':
		tok := l.single(TokenLParen, start)
		l.depth++
		return tok
	case ')':
		if l.depth > 0 {
			l.depth--
		}
		return l.single(TokenRParen, start)
	case '\'':
		return l.readString(start)
	case '[':
		return l.readDelimited(start, ']')
	case '"':
		return l.readDelimited(start, '"')
	case '<':
		if l.peekChar() == '=' || l.peekChar() == '>' {
			return l.double(TokenOperator, start)
		}
		return l.single(TokenOperator, start)
	case '>', '!':
		if l.peekChar() == '=' {
			return l.double(TokenOperator, start)
		}
		return l.single(TokenOperator, start)
	case '|':
		if l.peekChar() == '|' {
			return l.double(TokenOperator, start)
		}
		return l.single(TokenOperator, start)
	case '=', '+', '-', '/', '%':
		return l.single(TokenOperator, start)
	}

	// N'...' 是 Unicode 字符串字面量
	if (l.ch == 'N' || l.ch == 'n') && l.peekChar() == '\'' {
		l.readChar()
		tok := l.readString(start)
		return tok
	}

	if isWordStart(l.ch) {
		for isWordPart(l.ch) {
			l.readChar()
		}
		return Token{Type: TokenWord, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
	}

	if isDigit(l.ch) {
		for isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
	}

	return l.single(TokenIllegal, start)
}

func (l *Lexer) single(t TokenType, start int) Token {
	l.readChar()
	return Token{Type: t, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
}

func (l *Lexer) double(t TokenType, start int) Token {
	l.readChar()
	l.readChar()
	return Token{Type: t, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// readString reads a single-quoted literal; '' inside is an escaped quote.
// The token value keeps the quotes.
func (l *Lexer) readString(start int) Token {
	l.readChar() // 跳过开头单引号
	for {
		if l.ch == 0 {
			return Token{Type: TokenString, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth, Unterminated: true}
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // 跳过结尾单引号
			return Token{Type: TokenString, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
		}
		l.readChar()
	}
}

// readDelimited reads a [bracketed] or "double-quoted" identifier.
func (l *Lexer) readDelimited(start int, closing byte) Token {
	l.readChar()
	for l.ch != closing {
		if l.ch == 0 {
			return Token{Type: TokenQuoted, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth, Unterminated: true}
		}
		l.readChar()
	}
	l.readChar()
	return Token{Type: TokenQuoted, Value: l.input[start:l.pos], Pos: start, End: l.pos, Depth: l.depth}
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isWordStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '@' || ch == '#' || ch >= 0x80
}

func isWordPart(ch byte) bool {
	return isWordStart(ch) || isDigit(ch) || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Normalize prepares raw SQL for clause extraction: comments are removed,
// every whitespace run outside literals collapses to one space, carriage
// returns disappear, and one trailing semicolon is dropped. The content of
// string literals and bracketed identifiers is kept byte for byte.
func Normalize(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))
	pendingSpace := false
	emit := func(s string) {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteString(s)
	}

	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'':
			j := i + 1
			for j < len(sql) {
				if sql[j] == '\'' {
					if j+1 < len(sql) && sql[j+1] == '\'' {
						j += 2
						continue
					}
					break
				}
				j++
			}
			end := min(j+1, len(sql))
			emit(sql[i:end])
			i = end
		case c == '[':
			end := strings.IndexByte(sql[i:], ']')
			if end < 0 {
				emit(sql[i:])
				i = len(sql)
			} else {
				emit(sql[i : i+end+1])
				i += end + 1
			}
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				i = len(sql)
			} else {
				i += end
			}
			pendingSpace = true
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 4
			}
			pendingSpace = true
		case isSpace(c):
			pendingSpace = true
			i++
		default:
			emit(sql[i : i+1])
			i++
		}
	}

	out := strings.TrimSpace(b.String())
	out = strings.TrimSpace(strings.TrimSuffix(out, ";"))
	return out
}
