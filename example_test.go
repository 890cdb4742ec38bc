package sqlbuilder_test

import (
	"fmt"

	"github.com/rulego/sqlbuilder"
	"github.com/rulego/sqlbuilder/types"
)

func ExampleGenerateSQL() {
	state := types.NewBuilder().
		From("Orders", "o").
		Join(types.JoinInner, "Customer", "c", types.On("o.CustomerId", types.OpEq, "c.Id")).
		Select(
			types.SimpleColumn{Table: "c", Column: "Name"},
			types.AggregateColumn{Function: types.AggCount, Column: "o.Id", Alias: "Orders"},
		).
		WhereIn("c.Region", "North", "South").
		GroupBy("c.Name").
		Build()

	fmt.Println(sqlbuilder.GenerateSQL(state))
	// Output:
	// SELECT c.Name,
	//        COUNT(o.Id) AS Orders
	// FROM Orders o
	// INNER JOIN Customer c ON o.CustomerId = c.Id
	// WHERE c.Region IN ('North', 'South')
	// GROUP BY c.Name
}

func ExampleParseSQL() {
	b := sqlbuilder.New(sqlbuilder.WithDiscardLog())
	result := b.ParseSQL(`SELECT [c].[Name], ROW_NUMBER() OVER (ORDER BY c.Name) AS rn
FROM [Customer] c
WHERE c.Id = @CustomerId`)

	fmt.Println(result.Success, len(result.State.Columns), len(result.Warnings))
	fmt.Println(result.State.Where[0].Value)
	// Output:
	// true 1 1
	// @CustomerId
}
