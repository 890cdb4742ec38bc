package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateDocument = `{
  "tables": [{"name": "Bill", "alias": "b"}],
  "joins": [{"type": "LEFT", "table": "Customer", "alias": "c",
             "conditions": [{"leftColumn": "b.CustomerId", "operator": "=", "rightColumn": "c.Id"}]}],
  "columns": [
    {"type": "simple", "table": "c", "column": "Name"},
    {"type": "calculated", "alias": "Net",
     "expression": {"type": "operator", "operator": "*",
                    "left": {"type": "column", "value": "b.Amount"},
                    "right": {"type": "function", "name": "ROUND", "args": [
                      {"type": "parameter", "value": "@Rate"}, {"type": "literal", "value": 2}]}}},
    {"type": "aggregate", "function": "SUM", "column": "b.Amount", "alias": "Total"},
    {"type": "window", "function": "ROW_NUMBER", "alias": "rn",
     "orderBy": [{"column": "b.Amount", "direction": "DESC"}]}
  ],
  "where": [
    {"column": "b.Amount", "operator": ">", "value": 100},
    {"column": "b.Rate", "operator": "<", "value": 0.5, "andOr": "OR"},
    {"column": "c.Region", "operator": "IN", "values": ["North", 3], "andOr": "AND"}
  ],
  "groupBy": ["c.Name"],
  "orderBy": [{"column": "Total", "direction": "DESC"}]
}`

// TestUnmarshalState 测试解码带类型标签的状态文档
func TestUnmarshalState(t *testing.T) {
	state, err := UnmarshalState([]byte(stateDocument))
	require.NoError(t, err)

	expected := NewBuilder().
		From("Bill", "b").
		Join(JoinLeft, "Customer", "c", On("b.CustomerId", OpEq, "c.Id")).
		Select(
			SimpleColumn{Table: "c", Column: "Name"},
			CalculatedColumn{Alias: "Net", Expression: Op(Col("b.Amount"), "*", Fn("ROUND", Param("@Rate"), Lit(int64(2))))},
			AggregateColumn{Function: AggSum, Column: "b.Amount", Alias: "Total"},
			WindowColumn{Function: WinRowNumber, Alias: "rn", OrderBy: []OrderByItem{{Column: "b.Amount", Direction: Desc}}},
		).
		Where("b.Amount", OpGt, int64(100)).
		OrWhere("b.Rate", OpLt, 0.5).
		WhereIn("c.Region", "North", int64(3)).
		GroupBy("c.Name").
		OrderBy("Total", Desc).
		Build()
	assert.Equal(t, expected, state)
}

// TestStateJSONRoundTrip 测试编码后再解码得到相同状态
func TestStateJSONRoundTrip(t *testing.T) {
	state, err := UnmarshalState([]byte(stateDocument))
	require.NoError(t, err)

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.JSONEq(t, stateDocument, string(data))

	again, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, state, again)
}

// TestStateYAML 测试 YAML 编解码
func TestStateYAML(t *testing.T) {
	state, err := UnmarshalState([]byte(stateDocument))
	require.NoError(t, err)

	data, err := MarshalStateYAML(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: calculated")
	assert.Contains(t, string(data), "value: 100")

	again, err := UnmarshalStateYAML(data)
	require.NoError(t, err)
	assert.Equal(t, state, again)

	empty, err := UnmarshalStateYAML([]byte(""))
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

// TestUnknownKind 测试未知类型标签
func TestUnknownKind(t *testing.T) {
	_, err := UnmarshalState([]byte(`{"columns": [{"type": "star"}]}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorContains(t, err, "columns[0]")

	_, err = UnmarshalColumn([]byte(`{"type": "calculated", "expression": {"type": "case"}}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	expr, err := UnmarshalExpression([]byte(" null "))
	assert.NoError(t, err)
	assert.Nil(t, expr)
}

// TestMalformedOperatorJSON 测试缺少操作数的运算节点
func TestMalformedOperatorJSON(t *testing.T) {
	data, err := json.Marshal(CalculatedColumn{Expression: Op(Col("a"), "+", nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "calculated", "expression": {"type": "operator", "operator": "+", "left": {"type": "column", "value": "a"}}}`, string(data))

	col, err := UnmarshalColumn(data)
	require.NoError(t, err)
	op := col.(CalculatedColumn).Expression.(*BinaryOp)
	assert.Nil(t, op.Right)
}

// TestNormalizeNumber 测试数字规范化
func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		input    any
		expected any
	}{
		{json.Number("42"), int64(42)},
		{json.Number("4.5"), 4.5},
		{3.0, int64(3)},
		{3.25, 3.25},
		{7, int64(7)},
		{"7", "7"},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeNumber(tt.input))
	}
}
