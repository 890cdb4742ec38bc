package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *QueryState {
	return NewBuilder().
		From("Bill", "b").
		Join(JoinLeft, "Customer", "c", On("b.CustomerId", OpEq, "c.Id"), AndOn("c.Active", OpEq, "b.Active")).
		Select(
			SimpleColumn{Table: "c", Column: "Name"},
			CalculatedColumn{Expression: Op(Col("b.Amount"), "*", Fn("ROUND", Lit(1.2), Lit(2))), Alias: "Gross"},
			AggregateColumn{Function: AggCount, Column: "b.Id", Distinct: true, Alias: "Bills"},
			WindowColumn{Function: WinRank, Alias: "r", PartitionBy: []string{"c.Region"},
				OrderBy: []OrderByItem{{Column: "b.Amount", Direction: Desc}}},
		).
		WhereParam("b.CustomerId", OpEq, "@CustomerId").
		WhereIn("c.Region", "North", 2).
		GroupBy("c.Name").
		OrderBy("c.Name", Asc).
		Build()
}

// TestNewQueryState 测试空状态
func TestNewQueryState(t *testing.T) {
	s := NewQueryState()
	assert.True(t, s.IsEmpty())
	assert.NotNil(t, s.Tables)
	assert.NotNil(t, s.Columns)
	assert.NotNil(t, s.Where)

	var nilState *QueryState
	assert.True(t, nilState.IsEmpty())
	assert.Nil(t, nilState.Clone())

	s.GroupBy = append(s.GroupBy, "a")
	assert.False(t, s.IsEmpty())
}

// TestClone 测试深拷贝互不影响
func TestClone(t *testing.T) {
	original := sampleState()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Tables[0].Alias = "x"
	clone.Joins[0].Conditions[0].LeftColumn = "x.Id"
	clone.Where[1].Values[0] = "East"
	clone.GroupBy[0] = "x"
	clone.Columns[1].(CalculatedColumn).Expression.(*BinaryOp).Left.(*ColumnRef).Name = "x"
	clone.Columns[3].(WindowColumn).PartitionBy[0] = "x"

	assert.Equal(t, sampleState(), original)
}

// TestCloneCrossJoin 测试无条件连接的拷贝
func TestCloneCrossJoin(t *testing.T) {
	s := NewBuilder().From("A", "").Join(JoinCross, "B", "").Build()
	s.Joins[0].Conditions = nil
	assert.Equal(t, []JoinCondition{}, s.Clone().Joins[0].Conditions)
}

// TestDefaults 测试连接词和排序方向的默认值
func TestDefaults(t *testing.T) {
	assert.Equal(t, And, Connective("").OrDefault())
	assert.Equal(t, Or, Connective("or").OrDefault())
	assert.Equal(t, Asc, Direction("").OrDefault())
	assert.Equal(t, Desc, Direction("desc").OrDefault())

	assert.True(t, JoinFullOuter.IsValid())
	assert.False(t, JoinType("FULL").IsValid())
	assert.False(t, JoinType("inner").IsValid())
}

// TestOperator 测试运算符分类
func TestOperator(t *testing.T) {
	tests := []struct {
		op         Operator
		comparison bool
		where      bool
	}{
		{OpEq, true, true},
		{OpLe, true, true},
		{OpLike, false, true},
		{OpIn, false, true},
		{OpIsNotNull, false, true},
		{"BETWEEN", false, false},
		{"<>", false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.comparison, tt.op.IsComparison())
			assert.Equal(t, tt.where, tt.op.IsValidWhere())
		})
	}
}

// TestColumnValue 测试指针列转换为值
func TestColumnValue(t *testing.T) {
	assert.Equal(t, SimpleColumn{Column: "a"}, ColumnValue(&SimpleColumn{Column: "a"}))
	assert.Equal(t, AggregateColumn{Function: AggSum, Column: "a"}, ColumnValue(&AggregateColumn{Function: AggSum, Column: "a"}))

	var nilCol *WindowColumn
	assert.Nil(t, ColumnValue(nilCol))
	assert.Nil(t, ColumnValue(nil))

	for _, c := range []Column{SimpleColumn{}, CalculatedColumn{}, AggregateColumn{}, WindowColumn{}} {
		assert.Equal(t, c, ColumnValue(c))
	}
}

// TestLookupFunctions 测试函数名解析
func TestLookupFunctions(t *testing.T) {
	fn, ok := LookupAggregateFunc(" avg ")
	assert.True(t, ok)
	assert.Equal(t, AggAvg, fn)
	_, ok = LookupAggregateFunc("MEDIAN")
	assert.False(t, ok)

	win, ok := LookupWindowFunc("dense_rank")
	assert.True(t, ok)
	assert.Equal(t, WinDenseRank, win)
	_, ok = LookupWindowFunc("PERCENT_RANK")
	assert.False(t, ok)
}

// TestExpressionHelpers 测试表达式遍历和判空
func TestExpressionHelpers(t *testing.T) {
	e := Op(Col("a"), "+", Fn("ABS", Param("@p"), nil))

	var kinds []ExpressionKind
	WalkExpression(e, func(n Expression) { kinds = append(kinds, n.ExprKind()) })
	assert.Equal(t, []ExpressionKind{ExprOperator, ExprColumn, ExprFunction, ExprParameter}, kinds)

	var nilRef *ColumnRef
	assert.True(t, IsNilExpression(nilRef))
	assert.True(t, IsNilExpression(nil))
	assert.False(t, IsNilExpression(Lit(nil)))

	clone := CloneExpression(e)
	assert.Equal(t, e, clone)
	clone.(*BinaryOp).Op = "-"
	assert.Equal(t, "+", e.Op)
}
