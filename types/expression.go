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

// ExpressionKind is the variant tag of an expression node.
type ExpressionKind string

const (
	ExprColumn    ExpressionKind = "column"
	ExprLiteral   ExpressionKind = "literal"
	ExprParameter ExpressionKind = "parameter"
	ExprOperator  ExpressionKind = "operator"
	ExprFunction  ExpressionKind = "function"
)

// Expression is a node of a calculated column's expression tree. The set of
// implementations is closed: *ColumnRef, *Literal, *Parameter, *BinaryOp
// and *FuncCall.
type Expression interface {
	ExprKind() ExpressionKind
	isExpression()
}

// ColumnRef is a column reference emitted verbatim.
type ColumnRef struct {
	Name string `json:"value"`
}

// Literal holds a string or a number.
type Literal struct {
	Value any `json:"value"`
}

// Parameter is an @name placeholder emitted verbatim.
type Parameter struct {
	Name string `json:"value"`
}

// BinaryOp is "(left op right)". A missing operand makes the node malformed.
type BinaryOp struct {
	Op    string     `json:"operator"`
	Left  Expression `json:"left,omitempty"`
	Right Expression `json:"right,omitempty"`
}

// FuncCall is NAME(args...).
type FuncCall struct {
	Name string       `json:"name"`
	Args []Expression `json:"args"`
}

func (*ColumnRef) ExprKind() ExpressionKind { return ExprColumn }
func (*Literal) ExprKind() ExpressionKind   { return ExprLiteral }
func (*Parameter) ExprKind() ExpressionKind { return ExprParameter }
func (*BinaryOp) ExprKind() ExpressionKind  { return ExprOperator }
func (*FuncCall) ExprKind() ExpressionKind  { return ExprFunction }

func (*ColumnRef) isExpression() {}
func (*Literal) isExpression()   {}
func (*Parameter) isExpression() {}
func (*BinaryOp) isExpression()  {}
func (*FuncCall) isExpression()  {}

// Col builds a column reference node.
func Col(name string) *ColumnRef { return &ColumnRef{Name: name} }

// Lit builds a literal node.
func Lit(v any) *Literal { return &Literal{Value: v} }

// Param builds a parameter node.
func Param(name string) *Parameter { return &Parameter{Name: name} }

// Op builds a binary operator node.
func Op(left Expression, op string, right Expression) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

// Fn builds a function call node.
func Fn(name string, args ...Expression) *FuncCall {
	return &FuncCall{Name: name, Args: args}
}

// IsNilExpression reports whether e is nil or a typed nil pointer.
func IsNilExpression(e Expression) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *ColumnRef:
		return n == nil
	case *Literal:
		return n == nil
	case *Parameter:
		return n == nil
	case *BinaryOp:
		return n == nil
	case *FuncCall:
		return n == nil
	default:
		return false
	}
}

// CloneExpression deep-copies an expression tree.
func CloneExpression(e Expression) Expression {
	if IsNilExpression(e) {
		return nil
	}
	switch n := e.(type) {
	case *ColumnRef:
		c := *n
		return &c
	case *Literal:
		c := *n
		return &c
	case *Parameter:
		c := *n
		return &c
	case *BinaryOp:
		return &BinaryOp{Op: n.Op, Left: CloneExpression(n.Left), Right: CloneExpression(n.Right)}
	case *FuncCall:
		args := make([]Expression, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, CloneExpression(a))
		}
		return &FuncCall{Name: n.Name, Args: args}
	default:
		return e
	}
}

// WalkExpression calls fn for every node in depth-first order, parents first.
// Nil operands are skipped.
func WalkExpression(e Expression, fn func(Expression)) {
	if IsNilExpression(e) {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *BinaryOp:
		WalkExpression(n.Left, fn)
		WalkExpression(n.Right, fn)
	case *FuncCall:
		for _, a := range n.Args {
			WalkExpression(a, fn)
		}
	}
}
