/*
 * Copyright 2025 The RuleGo Authors.
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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rulego/sqlbuilder"
	"github.com/rulego/sqlbuilder/calc"
	"github.com/rulego/sqlbuilder/logger"
	"github.com/rulego/sqlbuilder/sqlcheck"
	"github.com/rulego/sqlbuilder/types"
	"github.com/rulego/sqlbuilder/utils/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// errReported 结果已输出，只需返回非零退出码
var errReported = errors.New("failed")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.Command{
		Name:      "sqlbuilder",
		Usage:     "load, generate and preview queries of the visual query designer",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "debug, info, warn, error or off",
			},
			&cli.IntFlag{
				Name:  "max-input",
				Usage: "largest accepted SQL text in bytes, 0 for the default",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "load SQL into a query state",
				ArgsUsage: "[SQL]",
				Flags: []cli.Flag{
					fileFlag(),
					formatFlag(),
					&cli.BoolFlag{Name: "strict", Usage: "fail when anything was skipped"},
				},
				Action: a.parse,
			},
			{
				Name:      "format",
				Usage:     "load SQL and print it the way the designer generates it",
				ArgsUsage: "[SQL]",
				Flags:     []cli.Flag{fileFlag()},
				Action:    a.format,
			},
			{
				Name:   "generate",
				Usage:  "generate SQL from a query state",
				Flags:  []cli.Flag{stateFlag(), &cli.BoolFlag{Name: "validate", Usage: "report incomplete parts on stderr"}},
				Action: a.generate,
			},
			{
				Name:      "check",
				Usage:     "check SQL against the MySQL grammar",
				ArgsUsage: "[SQL]",
				Flags:     []cli.Flag{fileFlag(), formatFlag()},
				Action:    a.check,
			},
			{
				Name:  "eval",
				Usage: "filter sample rows with the WHERE clause and preview the columns",
				Flags: []cli.Flag{
					stateFlag(),
					rowFlag(),
					paramsFlag(),
					formatFlag(),
				},
				Action: a.eval,
			},
			{
				Name:  "aggregate",
				Usage: "filter sample rows and preview the grouped aggregates",
				Flags: []cli.Flag{
					stateFlag(),
					rowFlag(),
					paramsFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"o"}, Value: "table", Usage: "output format: table, json or yaml"},
				},
				Action: a.aggregate,
			},
		},
	}
}

// 每个子命令各自持有 flag 实例

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   "json",
		Usage:   "output format: json or yaml",
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read SQL from `FILE` instead of the argument or stdin",
	}
}

func stateFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "state",
		Aliases:  []string{"s"},
		Usage:    "query state `FILE`, .json or .yaml",
		Required: true,
	}
}

func rowFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "row",
		Aliases:  []string{"r"},
		Usage:    "sample row `FILE`, an object or an array of objects",
		Required: true,
	}
}

func paramsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "params",
		Aliases: []string{"p"},
		Usage:   "parameter values `FILE`",
	}
}

// builder 根据全局参数创建实例
func (a *app) builder(cmd *cli.Command) (*sqlbuilder.SQLBuilder, error) {
	level, err := logger.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}
	return sqlbuilder.New(
		sqlbuilder.WithLogOutput(a.stderr, level),
		sqlbuilder.WithMaxInputLength(int(cmd.Int("max-input"))),
	), nil
}

func (a *app) parse(ctx context.Context, cmd *cli.Command) error {
	b, err := a.builder(cmd)
	if err != nil {
		return err
	}
	sql, err := a.readSQL(cmd)
	if err != nil {
		return err
	}
	result := b.ParseSQL(sql)
	if err := a.write(cmd.String("format"), result); err != nil {
		return err
	}
	if !result.Success || (cmd.Bool("strict") && len(result.Warnings) > 0) {
		return errReported
	}
	return nil
}

func (a *app) format(ctx context.Context, cmd *cli.Command) error {
	b, err := a.builder(cmd)
	if err != nil {
		return err
	}
	sql, err := a.readSQL(cmd)
	if err != nil {
		return err
	}
	result := b.ParseSQL(sql)
	for _, w := range result.Warnings {
		fmt.Fprintln(a.stderr, "warning:", w)
	}
	if !result.Success {
		return errors.New(strings.Join(result.Errors, "; "))
	}
	fmt.Fprintln(a.stdout, b.GenerateSQL(result.State))
	return nil
}

func (a *app) generate(ctx context.Context, cmd *cli.Command) error {
	b, err := a.builder(cmd)
	if err != nil {
		return err
	}
	state, err := readState(cmd.String("state"))
	if err != nil {
		return err
	}
	if cmd.Bool("validate") {
		for _, issue := range b.Validate(state) {
			fmt.Fprintln(a.stderr, "issue:", issue)
		}
	}
	fmt.Fprintln(a.stdout, b.GenerateSQL(state))
	return nil
}

func (a *app) check(ctx context.Context, cmd *cli.Command) error {
	sql, err := a.readSQL(cmd)
	if err != nil {
		return err
	}
	info, err := sqlcheck.Inspect(sql)
	if err != nil {
		return err
	}
	return a.write(cmd.String("format"), info)
}

// evalRow 一行样例数据的预览结果
type evalRow struct {
	Row     map[string]any      `json:"row" yaml:"row"`
	Columns []calc.ColumnResult `json:"columns" yaml:"columns"`
}

func (a *app) eval(ctx context.Context, cmd *cli.Command) error {
	b, err := a.builder(cmd)
	if err != nil {
		return err
	}
	state, err := readState(cmd.String("state"))
	if err != nil {
		return err
	}
	rows, err := readRows(cmd.String("row"))
	if err != nil {
		return err
	}
	params, err := readParams(cmd)
	if err != nil {
		return err
	}
	kept, err := b.Filter(state, rows, params)
	if err != nil {
		return err
	}
	out := make([]evalRow, 0, len(kept))
	for _, row := range kept {
		if err := ctx.Err(); err != nil {
			return err
		}
		out = append(out, evalRow{Row: row, Columns: b.Preview(state, row, params)})
	}
	return a.write(cmd.String("format"), out)
}

func (a *app) aggregate(ctx context.Context, cmd *cli.Command) error {
	b, err := a.builder(cmd)
	if err != nil {
		return err
	}
	state, err := readState(cmd.String("state"))
	if err != nil {
		return err
	}
	rows, err := readRows(cmd.String("row"))
	if err != nil {
		return err
	}
	params, err := readParams(cmd)
	if err != nil {
		return err
	}
	results, columns, err := b.Aggregate(state, rows, params)
	if err != nil {
		return err
	}
	if strings.EqualFold(cmd.String("format"), "table") {
		return table.Write(a.stdout, results, columns)
	}
	return a.write(cmd.String("format"), results)
}

func readParams(cmd *cli.Command) (map[string]any, error) {
	var params map[string]any
	if path := cmd.String("params"); path != "" {
		if err := readData(path, &params); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// readSQL 依次从 --file、参数、标准输入读取SQL
func (a *app) readSQL(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if cmd.Args().Len() > 0 {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *app) write(format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := types.ToYAML(v)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	case "json", "":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func readState(path string) (*types.QueryState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return types.UnmarshalStateYAML(data)
	}
	return types.UnmarshalState(data)
}

// readData 读取 JSON 或 YAML 文件，整数保持为 int64
func readData(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	doc = normalize(doc)
	switch target := v.(type) {
	case *map[string]any:
		m, ok := doc.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected an object", path)
		}
		*target = m
	case *any:
		*target = doc
	default:
		return fmt.Errorf("unsupported target %T", v)
	}
	return nil
}

func readRows(path string) ([]map[string]any, error) {
	var doc any
	if err := readData(path, &doc); err != nil {
		return nil, err
	}
	switch d := doc.(type) {
	case map[string]any:
		return []map[string]any{d}, nil
	case []any:
		rows := make([]map[string]any, 0, len(d))
		for i, item := range d {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: item %d is not an object", path, i)
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%s: expected an object or an array of objects", path)
	}
}

func normalize(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, item := range n {
			n[k] = normalize(item)
		}
		return n
	case []any:
		for i, item := range n {
			n[i] = normalize(item)
		}
		return n
	default:
		return types.NormalizeNumber(v)
	}
}
