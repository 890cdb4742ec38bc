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

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned when a serialized column or expression carries
// a "type" discriminator this package does not know.
var ErrUnknownKind = errors.New("unknown node type")

// Columns is the SELECT list. It exists so the list can be decoded from the
// tagged JSON shape exchanged with the builder UI.
type Columns []Column

// UnmarshalJSON decodes every element by its "type" discriminator.
func (cs *Columns) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Columns, 0, len(raws))
	for i, raw := range raws {
		col, err := UnmarshalColumn(raw)
		if err != nil {
			return fmt.Errorf("columns[%d]: %w", i, err)
		}
		out = append(out, col)
	}
	*cs = out
	return nil
}

type kindHeader struct {
	Type string `json:"type"`
}

// UnmarshalColumn decodes one tagged column.
func UnmarshalColumn(data []byte) (Column, error) {
	var head kindHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch ColumnKind(head.Type) {
	case ColumnSimple:
		var c SimpleColumn
		err := json.Unmarshal(data, &c)
		return c, err
	case ColumnAggregate:
		var c AggregateColumn
		err := json.Unmarshal(data, &c)
		return c, err
	case ColumnWindow:
		var c WindowColumn
		err := json.Unmarshal(data, &c)
		return c, err
	case ColumnCalculated:
		var c CalculatedColumn
		err := json.Unmarshal(data, &c)
		return c, err
	default:
		return nil, fmt.Errorf("%w: column %q", ErrUnknownKind, head.Type)
	}
}

func (c SimpleColumn) MarshalJSON() ([]byte, error) {
	type plain SimpleColumn
	return json.Marshal(struct {
		Type ColumnKind `json:"type"`
		plain
	}{ColumnSimple, plain(c)})
}

func (c AggregateColumn) MarshalJSON() ([]byte, error) {
	type plain AggregateColumn
	return json.Marshal(struct {
		Type ColumnKind `json:"type"`
		plain
	}{ColumnAggregate, plain(c)})
}

func (c WindowColumn) MarshalJSON() ([]byte, error) {
	type plain WindowColumn
	return json.Marshal(struct {
		Type ColumnKind `json:"type"`
		plain
	}{ColumnWindow, plain(c)})
}

func (c CalculatedColumn) MarshalJSON() ([]byte, error) {
	type plain CalculatedColumn
	return json.Marshal(struct {
		Type ColumnKind `json:"type"`
		plain
	}{ColumnCalculated, plain(c)})
}

// UnmarshalJSON decodes the nested expression tree.
func (c *CalculatedColumn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Expression json.RawMessage `json:"expression"`
		Alias      string          `json:"alias"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	expr, err := UnmarshalExpression(raw.Expression)
	if err != nil {
		return fmt.Errorf("expression: %w", err)
	}
	c.Expression = expr
	c.Alias = raw.Alias
	return nil
}

func (n ColumnRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": ExprColumn, "value": n.Name})
}

func (n Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": ExprLiteral, "value": n.Value})
}

func (n Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": ExprParameter, "value": n.Name})
}

func (n BinaryOp) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": ExprOperator, "operator": n.Op}
	if !IsNilExpression(n.Left) {
		out["left"] = n.Left
	}
	if !IsNilExpression(n.Right) {
		out["right"] = n.Right
	}
	return json.Marshal(out)
}

func (n FuncCall) MarshalJSON() ([]byte, error) {
	args := n.Args
	if args == nil {
		args = []Expression{}
	}
	return json.Marshal(map[string]any{"type": ExprFunction, "name": n.Name, "args": args})
}

// UnmarshalExpression decodes a tagged expression tree. JSON null and an
// empty input decode to a nil expression.
func UnmarshalExpression(data []byte) (Expression, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var raw struct {
		Type     string            `json:"type"`
		Value    json.RawMessage   `json:"value"`
		Operator string            `json:"operator"`
		Left     json.RawMessage   `json:"left"`
		Right    json.RawMessage   `json:"right"`
		Name     string            `json:"name"`
		Args     []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch ExpressionKind(raw.Type) {
	case ExprColumn:
		var s string
		err := json.Unmarshal(raw.Value, &s)
		return &ColumnRef{Name: s}, err
	case ExprParameter:
		var s string
		err := json.Unmarshal(raw.Value, &s)
		return &Parameter{Name: s}, err
	case ExprLiteral:
		v, err := decodeScalar(raw.Value)
		return &Literal{Value: v}, err
	case ExprOperator:
		left, err := UnmarshalExpression(raw.Left)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := UnmarshalExpression(raw.Right)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return &BinaryOp{Op: raw.Operator, Left: left, Right: right}, nil
	case ExprFunction:
		fn := &FuncCall{Name: raw.Name, Args: make([]Expression, 0, len(raw.Args))}
		for i, a := range raw.Args {
			arg, err := UnmarshalExpression(a)
			if err != nil {
				return nil, fmt.Errorf("args[%d]: %w", i, err)
			}
			fn.Args = append(fn.Args, arg)
		}
		return fn, nil
	default:
		return nil, fmt.Errorf("%w: expression %q", ErrUnknownKind, raw.Type)
	}
}

// UnmarshalJSON keeps integral numbers as int64 instead of float64.
func (w *WhereCondition) UnmarshalJSON(data []byte) error {
	type plain WhereCondition
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	p.Value = NormalizeNumber(p.Value)
	for i := range p.Values {
		p.Values[i] = NormalizeNumber(p.Values[i])
	}
	*w = WhereCondition(p)
	return nil
}

func decodeScalar(data json.RawMessage) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return NormalizeNumber(v), nil
}

// NormalizeNumber turns decoded JSON/YAML numbers into int64 when integral and
// float64 otherwise. Other values are returned unchanged.
func NormalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	case int:
		return int64(n)
	default:
		return v
	}
}

// UnmarshalState decodes a JSON QueryState.
func UnmarshalState(data []byte) (*QueryState, error) {
	state := NewQueryState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// UnmarshalStateYAML decodes a YAML QueryState. YAML documents use the same
// field names and discriminators as JSON.
func UnmarshalStateYAML(data []byte) (*QueryState, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return NewQueryState(), nil
	}
	bridged, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return UnmarshalState(bridged)
}

// MarshalStateYAML encodes a QueryState as YAML.
func MarshalStateYAML(s *QueryState) ([]byte, error) {
	return ToYAML(s)
}

// ToYAML encodes any JSON-serializable value as YAML, preserving the JSON
// field names and discriminators.
func ToYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(yamlNumbers(doc))
}

// yamlNumbers replaces json.Number so yaml.v3 emits plain scalars.
func yamlNumbers(v any) any {
	switch n := v.(type) {
	case map[string]any:
		for k, item := range n {
			n[k] = yamlNumbers(item)
		}
		return n
	case []any:
		for i, item := range n {
			n[i] = yamlNumbers(item)
		}
		return n
	case json.Number:
		return NormalizeNumber(n)
	default:
		return v
	}
}
