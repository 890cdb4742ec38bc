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

// Package sqlcheck cross-checks SQL text against a full grammar, the MySQL
// grammar of the TiDB parser. The builder's own parser is tolerant by design
// and never rejects a statement outright; this package answers the stricter
// question of whether the text parses at all.
//
// Bracketed and double-quoted identifiers are rewritten to backticks before
// parsing. Constructs outside MySQL, such as FULL OUTER JOIN or TOP, still
// fail, so callers treat a failure as a hint, not a verdict.
package sqlcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
	"github.com/rulego/sqlbuilder/rsql"
)

var (
	// ErrSyntax the text does not parse
	ErrSyntax = errors.New("syntax error")
	// ErrNotSelect the first statement parses but is not a SELECT
	ErrNotSelect = errors.New("not a SELECT statement")
)

// Info summarizes the first statement of a checked text.
type Info struct {
	// Statements is the number of statements in the text.
	Statements int `json:"statements" yaml:"statements"`
	// Tables lists referenced tables in order of first appearance.
	Tables []string `json:"tables" yaml:"tables"`
	// Fields is the number of SELECT-list entries; 0 for a UNION.
	Fields int `json:"fields" yaml:"fields"`
	// Union reports a UNION/EXCEPT/INTERSECT statement.
	Union bool `json:"union,omitempty" yaml:"union,omitempty"`
}

// Check reports whether sql parses as a SELECT statement.
func Check(sql string) error {
	_, err := Inspect(sql)
	return err
}

// Inspect parses sql and summarizes its first statement.
func Inspect(sql string) (*Info, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrSyntax)
	}
	// parser.Parser 不是并发安全的，每次调用新建
	p := parser.New()
	stmts, _, err := p.Parse(ToMySQL(sql), "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: no statement", ErrSyntax)
	}

	info := &Info{Statements: len(stmts)}
	switch stmt := stmts[0].(type) {
	case *ast.SelectStmt:
		if stmt.Fields != nil {
			info.Fields = len(stmt.Fields.Fields)
		}
	case *ast.SetOprStmt:
		info.Union = true
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSelect, stmts[0])
	}
	collector := &tableCollector{seen: make(map[string]bool)}
	stmts[0].Accept(collector)
	info.Tables = collector.names
	return info, nil
}

// ToMySQL rewrites [name] and "name" identifiers as `name`. String literals
// and comments are copied unchanged.
func ToMySQL(sql string) string {
	var sb strings.Builder
	last := 0
	for _, tok := range rsql.Tokenize(sql) {
		if tok.Type != rsql.TokenQuoted || tok.Unterminated || len(tok.Value) < 2 {
			continue
		}
		inner := tok.Value[1 : len(tok.Value)-1]
		sb.WriteString(sql[last:tok.Pos])
		sb.WriteString("`" + strings.ReplaceAll(inner, "`", "``") + "`")
		last = tok.End
	}
	sb.WriteString(sql[last:])
	return sb.String()
}

// tableCollector 收集语句中引用的表名
type tableCollector struct {
	names []string
	seen  map[string]bool
}

func (v *tableCollector) Enter(n ast.Node) (ast.Node, bool) {
	if t, ok := n.(*ast.TableName); ok {
		name := t.Name.O
		if t.Schema.O != "" {
			name = t.Schema.O + "." + name
		}
		if !v.seen[strings.ToLower(name)] {
			v.seen[strings.ToLower(name)] = true
			v.names = append(v.names, name)
		}
	}
	return n, false
}

func (v *tableCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
