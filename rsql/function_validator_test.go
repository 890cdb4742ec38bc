package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExtractFunctionCalls 测试函数调用提取
func TestExtractFunctionCalls(t *testing.T) {
	calls := ExtractFunctionCalls(Tokenize("ROUND(a, 2) + x IN (1) + LEFT(Name, 3) + MyFn (b)"))

	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"ROUND", "LEFT", "MyFn"}, names)
	assert.Equal(t, 0, calls[0].Position)
}

// TestUnknownFunctions 测试未知函数去重
func TestUnknownFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"ABS(x) + round(y, 1)", nil},
		{"foo(x) + FOO(y) + bar(z)", []string{"FOO", "BAR"}},
		{"CASE WHEN a IN (1) THEN 1 END", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnknownFunctions(Tokenize(tt.input)))
		})
	}
}
