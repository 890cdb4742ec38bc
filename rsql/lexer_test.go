package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenizeTypes 测试基本token的识别
func TestTokenizeTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"SELECT a", []TokenType{TokenWord, TokenWord}},
		{"[Bill].[Amount]", []TokenType{TokenQuoted, TokenDot, TokenQuoted}},
		{"'O''Brien'", []TokenType{TokenString}},
		{"N'abc'", []TokenType{TokenString}},
		{"12.5, 3", []TokenType{TokenNumber, TokenComma, TokenNumber}},
		{"a <> b", []TokenType{TokenWord, TokenOperator, TokenWord}},
		{"a>=b", []TokenType{TokenWord, TokenOperator, TokenWord}},
		{"COUNT(*)", []TokenType{TokenWord, TokenLParen, TokenStar, TokenRParen}},
		{"@CustomerId;", []TokenType{TokenWord, TokenSemicolon}},
		{"#temp", []TokenType{TokenWord}},
		{"a ? b", []TokenType{TokenWord, TokenIllegal, TokenWord}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			kinds := make([]TokenType, 0, len(tokens))
			for _, tok := range tokens {
				kinds = append(kinds, tok.Type)
			}
			assert.Equal(t, tt.expected, kinds)
		})
	}
}

// TestTokenizeValues 测试token的原文与偏移
func TestTokenizeValues(t *testing.T) {
	tokens := Tokenize("x = 'O''Brien' AND [Bill Item].Id <= 10")
	require.Len(t, tokens, 9)

	assert.Equal(t, "'O''Brien'", tokens[2].Value)
	assert.Equal(t, 4, tokens[2].Pos)
	assert.Equal(t, 14, tokens[2].End)
	assert.True(t, tokens[3].Is("and"))
	assert.Equal(t, "[Bill Item]", tokens[4].Value)
	assert.Equal(t, "<=", tokens[7].Value)
	assert.Equal(t, "10", tokens[8].Value)
}

// TestTokenizeDepth 测试括号嵌套层级
func TestTokenizeDepth(t *testing.T) {
	tokens := Tokenize("f(a, (b)) , c")
	depths := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		depths = append(depths, tok.Depth)
	}
	// f ( a , ( b ) ) , c
	assert.Equal(t, []int{0, 0, 1, 1, 1, 2, 1, 0, 0, 0}, depths)
}

// TestTokenizeUnterminated 测试未闭合的字符串和方括号
func TestTokenizeUnterminated(t *testing.T) {
	tokens := Tokenize("'abc")
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].Unterminated)

	tokens = Tokenize("[Bill")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenQuoted, tokens[0].Type)
	assert.True(t, tokens[0].Unterminated)

	tokens = Tokenize(") a")
	require.Len(t, tokens, 2)
	assert.Equal(t, 0, tokens[1].Depth)
}

// TestTokenIsIdentifier 测试标识符判断
func TestTokenIsIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Bill", true},
		{"[Order]", true},
		{"ORDER", false},
		{"join", false},
		{"@p", false},
		{"'x'", false},
		{"12", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.expected, tokens[0].IsIdentifier())
		})
	}
}

// TestNormalize 测试SQL文本规范化
func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapse whitespace", "SELECT  a,\r\n\t b\nFROM   T", "SELECT a, b FROM T"},
		{"trailing semicolon", "SELECT a FROM T ;  ", "SELECT a FROM T"},
		{"only one semicolon dropped", "SELECT a FROM T;;", "SELECT a FROM T;"},
		{"string literal kept", "WHERE a = 'x   y'", "WHERE a = 'x   y'"},
		{"escaped quote kept", "WHERE a = 'O''Brien  x'", "WHERE a = 'O''Brien  x'"},
		{"bracket kept", "SELECT [Bill   Item].a", "SELECT [Bill   Item].a"},
		{"line comment", "SELECT a -- pick a\nFROM T", "SELECT a FROM T"},
		{"block comment", "SELECT /* all\n the */ a FROM T", "SELECT a FROM T"},
		{"comment marker in string", "WHERE a = '--x'", "WHERE a = '--x'"},
		{"unterminated string", "WHERE a = 'x", "WHERE a = 'x"},
		{"empty", "  \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}
