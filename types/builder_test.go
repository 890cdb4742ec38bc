package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder 测试链式构建查询状态
func TestBuilder(t *testing.T) {
	state := NewBuilder().
		From("Bill", "b").
		Join(JoinInner, "Customer", "c", On("b.CustomerId", OpEq, "c.Id"), OrOn("b.Email", OpEq, "c.Email")).
		Select(SimpleColumn{Table: "c", Column: "Name"}).
		Where("b.Amount", OpGt, 10).
		OrWhere("b.Amount", OpLt, 0).
		WhereNull("c.DeletedAt", false).
		WhereNull("c.Email", true).
		GroupBy("c.Name").
		OrderBy("c.Name", "").
		Build()

	require.Len(t, state.Where, 4)
	assert.Empty(t, state.Where[0].AndOr)
	assert.Equal(t, Or, state.Where[1].AndOr)
	assert.Equal(t, OpIsNull, state.Where[2].Operator)
	assert.Equal(t, And, state.Where[2].AndOr)
	assert.Equal(t, OpIsNotNull, state.Where[3].Operator)

	require.Len(t, state.Joins, 1)
	assert.Empty(t, state.Joins[0].Conditions[0].AndOr)
	assert.Equal(t, Or, state.Joins[0].Conditions[1].AndOr)

	assert.Equal(t, []OrderByItem{{Column: "c.Name", Direction: Asc}}, state.OrderBy)
	assert.Empty(t, Validate(state))
}

// TestBuilderIsolation 测试 Build 返回的状态与构建器互不影响
func TestBuilderIsolation(t *testing.T) {
	b := NewBuilder().From("A", "a")
	first := b.Build()
	b.Where("a.Id", OpEq, 1)
	second := b.Build()

	assert.Empty(t, first.Where)
	assert.Len(t, second.Where, 1)

	second.Tables[0].Name = "B"
	assert.Equal(t, "A", b.Build().Tables[0].Name)

	base := NewBuilder().From("A", "a").Build()
	edited := BuilderFrom(base).Where("a.Id", OpEq, 1).Build()
	assert.Empty(t, base.Where)
	assert.Len(t, edited.Where, 1)
	assert.True(t, BuilderFrom(nil).Build().IsEmpty())
}

// TestCrossJoinConditions 测试交叉连接丢弃条件
func TestCrossJoinConditions(t *testing.T) {
	state := NewBuilder().From("A", "a").Join(JoinCross, "B", "b", On("a.Id", OpEq, "b.Id")).Build()
	require.Len(t, state.Joins, 1)
	assert.NotNil(t, state.Joins[0].Conditions)
	assert.Empty(t, state.Joins[0].Conditions)
}

// TestSelfJoinAlias 测试自连接自动生成别名
func TestSelfJoinAlias(t *testing.T) {
	state := NewBuilder().
		From("Employees", "").
		Join(JoinLeft, "Employees", "", On("Employees.ManagerId", OpEq, "employee.Id")).
		Join(JoinLeft, "Employees", "").
		Join(JoinLeft, "Bill", "").
		Build()

	require.Len(t, state.Joins, 3)
	assert.Equal(t, "employee", state.Joins[0].Alias)
	assert.Equal(t, "employee2", state.Joins[1].Alias)
	assert.Empty(t, state.Joins[2].Alias)
}

// TestSuggestAlias 测试别名推导
func TestSuggestAlias(t *testing.T) {
	tests := []struct {
		table    string
		taken    []string
		expected string
	}{
		{"Customers", nil, "customer"},
		{"dbo.[Categories]", nil, "category"},
		{"People", nil, "person"},
		{"Bill", []string{"bill"}, "bill2"},
		{"Bill", []string{"BILL", "bill2"}, "bill3"},
		{"[ ]", nil, "t"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestAlias(tt.table, tt.taken))
		})
	}
}
