package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidate 测试查询状态的完整性检查
func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		state *QueryState
		paths []string
	}{
		{
			name:  "空指针",
			state: nil,
			paths: []string{""},
		},
		{
			name:  "缺少表",
			state: NewQueryState(),
			paths: []string{"tables"},
		},
		{
			name: "多个表",
			state: &QueryState{Tables: []Table{{Name: "A"}, {Name: ""}}},
			paths: []string{"tables[1]", "tables[1]"},
		},
		{
			name: "连接缺少条件",
			state: &QueryState{
				Tables: []Table{{Name: "A"}},
				Joins: []JoinConfig{
					{Type: JoinLeft, Table: "B"},
					{Type: "FULL", Table: "C", Conditions: []JoinCondition{{LeftColumn: "A.Id", Operator: "LIKE", RightColumn: ""}}},
					{Type: JoinCross, Table: "D", Conditions: []JoinCondition{{LeftColumn: "A.Id", Operator: OpEq, RightColumn: "D.Id"}}},
				},
			},
			paths: []string{"joins[0]", "joins[1]", "joins[1].conditions[0]", "joins[1].conditions[0]", "joins[2]"},
		},
		{
			name: "列",
			state: &QueryState{
				Tables: []Table{{Name: "A"}},
				Columns: Columns{
					SimpleColumn{},
					AggregateColumn{Function: "MEDIAN", Column: "x"},
					&WindowColumn{Function: "NTH_VALUE"},
					CalculatedColumn{},
					CalculatedColumn{Expression: Op(Col("a"), "+", nil)},
					CalculatedColumn{Expression: Fn("", Col("a"))},
					nil,
				},
			},
			paths: []string{"columns[0]", "columns[1]", "columns[2]", "columns[3]", "columns[4]", "columns[5]", "columns[6]"},
		},
		{
			name: "过滤条件",
			state: &QueryState{
				Tables: []Table{{Name: "A"}},
				Where: []WhereCondition{
					{Column: "a", Operator: OpEq},
					{Column: "a", Operator: OpIn},
					{Column: "", Operator: OpIsNull},
					{Column: "a", Operator: "BETWEEN", Value: 1},
					{Column: "a", Operator: OpEq, Value: 0},
				},
				GroupBy: []string{" "},
				OrderBy: []OrderByItem{{Column: ""}},
			},
			paths: []string{"where[0]", "where[1]", "where[2]", "where[3]", "groupBy[0]", "orderBy[0]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(tt.state)
			paths := make([]string, 0, len(issues))
			for _, issue := range issues {
				paths = append(paths, issue.Path)
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

// TestIssueString 测试问题描述格式
func TestIssueString(t *testing.T) {
	issues := Validate(&QueryState{Tables: []Table{{Name: "A"}}, Joins: []JoinConfig{{Type: JoinInner, Table: "B"}}})
	if assert.Len(t, issues, 1) {
		assert.Equal(t, "joins[0]: INNER join needs at least one ON condition", issues[0].String())
	}
}
