package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rulego/sqlbuilder/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run 执行一次命令，返回标准输出、标准错误和错误
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(context.Background(), append([]string{"sqlbuilder"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func reportState() *types.QueryState {
	return types.NewBuilder().
		From("Bill", "b").
		Select(
			types.SimpleColumn{Table: "b", Column: "Id"},
			types.CalculatedColumn{Expression: types.Op(types.Col("b.Amount"), "*", types.Param("@Rate")), Alias: "Net"},
		).
		Where("b.Amount", types.OpGt, 10).
		Build()
}

// TestParseCommand 测试 parse 子命令
func TestParseCommand(t *testing.T) {
	t.Run("参数输入", func(t *testing.T) {
		out, _, err := run(t, "", "parse", "SELECT c.Name FROM Customer c")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, true, result["success"])
	})

	t.Run("标准输入与YAML", func(t *testing.T) {
		out, _, err := run(t, "SELECT Name FROM Customer", "parse", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "success: true")
		assert.Contains(t, out, "name: Customer")
	})

	t.Run("文件输入", func(t *testing.T) {
		path := writeFile(t, "q.sql", []byte("SELECT Name FROM Customer"))
		_, _, err := run(t, "", "parse", "--file", path)
		assert.NoError(t, err)
	})

	t.Run("严格模式", func(t *testing.T) {
		sql := "SELECT Name, ROW_NUMBER() OVER (ORDER BY Name) AS rn FROM Customer"
		_, _, err := run(t, "", "parse", sql)
		assert.NoError(t, err)

		out, _, err := run(t, "", "parse", "--strict", sql)
		assert.ErrorIs(t, err, errReported)
		assert.Contains(t, out, "WINDOW_FUNCTION")
	})

	t.Run("非SELECT语句", func(t *testing.T) {
		out, _, err := run(t, "", "parse", "DELETE FROM Customer")
		assert.ErrorIs(t, err, errReported)
		assert.Contains(t, out, `"success": false`)
	})

	t.Run("输入上限", func(t *testing.T) {
		_, _, err := run(t, "", "--max-input", "10", "parse", "SELECT Name FROM Customer")
		assert.ErrorIs(t, err, errReported)
	})

	t.Run("未知日志级别", func(t *testing.T) {
		_, _, err := run(t, "", "--log-level", "loud", "parse", "SELECT 1")
		assert.ErrorContains(t, err, "unknown log level")
	})

	t.Run("未知输出格式", func(t *testing.T) {
		_, _, err := run(t, "", "parse", "--format", "xml", "SELECT Name FROM Customer")
		assert.ErrorContains(t, err, "unknown format")
	})
}

// TestFormatCommand 测试 format 子命令
func TestFormatCommand(t *testing.T) {
	out, _, err := run(t, "", "format", "select  a.Name from [Customer] a where a.Id=1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a.Name\nFROM Customer a\nWHERE a.Id = 1\n", out)

	_, stderr, err := run(t, "", "format", "SELECT *, Name FROM Customer")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning:")

	_, _, err = run(t, "", "format", "UPDATE Customer SET Name = 'x'")
	assert.Error(t, err)
}

// TestGenerateCommand 测试 generate 子命令
func TestGenerateCommand(t *testing.T) {
	expected := "SELECT b.Id,\n       (b.Amount * @Rate) AS Net\nFROM Bill b\nWHERE b.Amount > 10\n"

	data, err := json.Marshal(reportState())
	require.NoError(t, err)
	out, _, err := run(t, "", "generate", "--state", writeFile(t, "state.json", data))
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	data, err = types.MarshalStateYAML(reportState())
	require.NoError(t, err)
	out, _, err = run(t, "", "generate", "--state", writeFile(t, "state.yaml", data))
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	incomplete := reportState()
	incomplete.Tables = nil
	data, err = json.Marshal(incomplete)
	require.NoError(t, err)
	_, stderr, err := run(t, "", "generate", "--validate", "--state", writeFile(t, "state.json", data))
	require.NoError(t, err)
	assert.Contains(t, stderr, "issue:")

	_, _, err = run(t, "", "generate")
	assert.Error(t, err)
}

// TestCheckCommand 测试 check 子命令
func TestCheckCommand(t *testing.T) {
	out, _, err := run(t, "", "check", "SELECT [c].[Name] FROM [Customer] c JOIN Bill b ON b.CustomerId = c.Id")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, []any{"Customer", "Bill"}, info["tables"])

	_, _, err = run(t, "", "check", "SELECT FROM")
	assert.Error(t, err)
}

// TestEvalCommand 测试 eval 子命令
func TestEvalCommand(t *testing.T) {
	data, err := json.Marshal(reportState())
	require.NoError(t, err)
	state := writeFile(t, "state.json", data)
	rows := writeFile(t, "rows.json", []byte(`[{"Id": 1, "Amount": 5}, {"Id": 2, "Amount": 40}]`))
	params := writeFile(t, "params.yaml", []byte("Rate: 0.5\n"))

	out, _, err := run(t, "", "eval", "--state", state, "--row", rows, "--params", params)
	require.NoError(t, err)

	var result []struct {
		Row     map[string]any `json:"row"`
		Columns []struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 1)
	assert.Equal(t, float64(2), result[0].Row["Id"])
	require.Len(t, result[0].Columns, 2)
	assert.Equal(t, "Net", result[0].Columns[1].Name)
	assert.Equal(t, float64(20), result[0].Columns[1].Value)

	single := writeFile(t, "row.json", []byte(`{"Id": 3, "Amount": 11}`))
	out, _, err = run(t, "", "eval", "--state", state, "--row", single, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Net")

	bad := writeFile(t, "bad.json", []byte(`[1, 2]`))
	_, _, err = run(t, "", "eval", "--state", state, "--row", bad)
	assert.ErrorContains(t, err, "not an object")
}

// TestAggregateCommand 测试 aggregate 子命令
func TestAggregateCommand(t *testing.T) {
	summary := types.NewBuilder().
		From("Bill", "b").
		Select(
			types.SimpleColumn{Table: "b", Column: "Region"},
			types.AggregateColumn{Function: types.AggCount, Column: "*", Alias: "Bills"},
		).
		GroupBy("b.Region").
		Build()
	data, err := types.MarshalStateYAML(summary)
	require.NoError(t, err)
	state := writeFile(t, "summary.yaml", data)
	rows := writeFile(t, "rows.json", []byte(`[{"Region": "North"}, {"Region": "South"}, {"Region": "North"}]`))

	out, _, err := run(t, "", "aggregate", "--state", state, "--row", rows)
	require.NoError(t, err)
	assert.Contains(t, out, "| b.Region | Bills |")
	assert.Contains(t, out, "| North    | 2     |")
	assert.Contains(t, out, "(2 rows)")

	out, _, err = run(t, "", "aggregate", "--state", state, "--row", rows, "--format", "json")
	require.NoError(t, err)
	var result []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []map[string]any{{"b.Region": "North", "Bills": float64(2)}, {"b.Region": "South", "Bills": float64(1)}}, result)
}
