/*
 * Copyright 2024 The RuleGo Authors.
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

package rsql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rulego/sqlbuilder/logger"
	"github.com/rulego/sqlbuilder/types"
	"github.com/rulego/sqlbuilder/utils/ident"
	"github.com/spf13/cast"
)

// DefaultMaxInputLength 默认最大输入长度 64 KiB
const DefaultMaxInputLength = 64 * 1024

// extraStatement 标记分号之后的第二条语句
const extraStatement = ";"

var (
	integerPattern   = regexp.MustCompile(`^-?(0|[1-9]\d*)$`)
	floatPattern     = regexp.MustCompile(`^-?\d+\.\d+$`)
	parameterPattern = regexp.MustCompile(`^@\w+$`)
)

// Options 解析选项
type Options struct {
	// MaxInputLength 允许的最大输入字节数，<=0 时使用 DefaultMaxInputLength
	MaxInputLength int
	// Logger 为空时使用 logger.GetDefault()
	Logger logger.Logger
	// SyntaxCheck 可选的语法交叉检查，失败只产生警告
	SyntaxCheck func(sql string) error
}

// Result is the outcome of loading SQL text into the builder. State is
// never nil: rejected input yields an empty state, a failure halfway keeps
// whatever was recovered before it.
type Result struct {
	Success     bool              `json:"success"`
	State       *types.QueryState `json:"state"`
	Warnings    []string          `json:"warnings"`
	Errors      []string          `json:"errors"`
	Diagnostics []*ParseError     `json:"diagnostics,omitempty"`
}

// Parser recovers a QueryState from SQL text on a best-effort basis. Every
// fragment it cannot map with confidence is left out of the state and
// reported as a warning instead.
type Parser struct {
	raw      string
	input    string
	tokens   []Token
	opts     Options
	log      logger.Logger
	recovery *ErrorRecovery
	state    *types.QueryState
}

// section 是一个顶层子句在 token 序列中的范围，[start, end) 为子句体
type section struct {
	name  string
	pos   int
	start int
	end   int
}

// span 是 AND/OR 或逗号分隔出的一段 token，conn 为其前面的连接词
type span struct {
	start int
	end   int
	conn  types.Connective
}

func NewParser(sql string) *Parser {
	return NewParserWithOptions(sql, Options{})
}

func NewParserWithOptions(sql string, opts Options) *Parser {
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetDefault()
	}
	return &Parser{raw: sql, opts: opts, log: log}
}

// ParseSQL parses sql with default options.
func ParseSQL(sql string) *Result {
	return NewParser(sql).Parse()
}

func ParseSQLWithOptions(sql string, opts Options) *Result {
	return NewParserWithOptions(sql, opts).Parse()
}

// Parse runs the extraction. It never panics: an internal failure becomes an
// error in the result, next to the partial state.
func (p *Parser) Parse() (result *Result) {
	p.state = types.NewQueryState()
	p.recovery = NewErrorRecovery("")
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("sql parser failure: %v", r)
			p.recovery.AddError(ErrorTypeInternal, ErrInternal, fmt.Sprintf("internal parser failure: %v", r), -1)
			result = p.result()
		}
	}()

	if len(p.raw) > p.opts.MaxInputLength {
		p.recovery.AddError(ErrorTypeInputTooLarge, ErrInputTooLarge,
			fmt.Sprintf("sql text is %d bytes, the limit is %d", len(p.raw), p.opts.MaxInputLength), -1)
		return p.result()
	}

	p.input = Normalize(p.raw)
	p.recovery = NewErrorRecovery(p.input)
	if p.input == "" {
		p.recovery.AddError(ErrorTypeEmptyInput, ErrEmptyInput, ErrEmptyInput.Error(), -1)
		return p.result()
	}

	p.tokens = Tokenize(p.input)
	if len(p.tokens) == 0 || !p.tokens[0].Is("SELECT") {
		first := ""
		if len(p.tokens) > 0 {
			first = strings.ToUpper(p.tokens[0].Value)
		}
		p.recovery.AddError(ErrorTypeNotSelect, ErrNotSelect,
			fmt.Sprintf("statement starts with %q, only SELECT statements can be loaded", first), 0)
		return p.result()
	}

	sections := p.locateClauses()
	var sel, from, where, groupBy, orderBy *section
	var unsupported []section
	for i := range sections {
		s := &sections[i]
		var slot **section
		switch s.name {
		case "SELECT":
			slot = &sel
		case "FROM":
			slot = &from
		case "WHERE":
			slot = &where
		case "GROUP BY":
			slot = &groupBy
		case "ORDER BY":
			slot = &orderBy
		default:
			unsupported = append(unsupported, *s)
			continue
		}
		if *slot != nil {
			unsupported = append(unsupported, *s)
			continue
		}
		*slot = s
	}

	if from != nil {
		p.parseFrom(*from)
	}
	if sel != nil {
		p.parseColumns(*sel)
	}
	if where != nil {
		p.parseWhere(*where)
	}
	if groupBy != nil {
		p.parseGroupBy(*groupBy)
	}
	if orderBy != nil {
		p.parseOrderBy(*orderBy)
	}
	for _, s := range unsupported {
		text, _ := p.text(s.start, s.end)
		if s.name == extraStatement {
			p.warn(ErrorTypeUnsupportedClause, "only the first statement is loaded, the rest was ignored", s.pos, text)
			continue
		}
		p.warn(ErrorTypeUnsupportedClause, fmt.Sprintf("%s clause is not supported by the builder and was ignored", s.name),
			s.pos, strings.TrimSpace(s.name+" "+text))
	}

	if p.opts.SyntaxCheck != nil {
		if err := p.opts.SyntaxCheck(p.input); err != nil {
			p.warn(ErrorTypeSyntaxCheck, "syntax check failed: "+err.Error(), -1, "")
		}
	}
	return p.result()
}

func (p *Parser) result() *Result {
	return &Result{
		Success:     !p.recovery.HasErrors(),
		State:       p.state,
		Warnings:    p.recovery.Warnings(),
		Errors:      p.recovery.Errors(),
		Diagnostics: p.recovery.Diagnostics(),
	}
}

func (p *Parser) warn(t ErrorType, message string, pos int, fragment string, suggestions ...string) {
	d := p.recovery.AddWarning(t, message, pos, fragment, suggestions...)
	p.log.Debug("sql parser abstained: %s", d.Summary())
}

// text 返回 token 区间 [a, b) 对应的原文及其偏移
func (p *Parser) text(a, b int) (string, int) {
	if a >= b || a >= len(p.tokens) {
		if a < len(p.tokens) {
			return "", p.tokens[a].Pos
		}
		return "", len(p.input)
	}
	return p.input[p.tokens[a].Pos:p.tokens[b-1].End], p.tokens[a].Pos
}

// locateClauses cuts the statement at top-level clause keywords. A set
// operator or a second statement ends the scan; everything after it is
// reported as one unsupported section.
func (p *Parser) locateClauses() []section {
	cur := section{name: "SELECT", pos: p.tokens[0].Pos, start: 1}
	var out []section
	for i := 1; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.Depth != 0 {
			continue
		}
		if t.Type == TokenSemicolon {
			cur.end = i
			out = append(out, cur)
			return append(out, section{name: extraStatement, pos: t.Pos, start: i + 1, end: len(p.tokens)})
		}
		if t.Type != TokenWord {
			continue
		}
		kw := strings.ToUpper(t.Value)
		if !clauseKeywords[kw] {
			continue
		}
		bodyStart := i + 1
		if kw == "GROUP" || kw == "ORDER" {
			if i+1 >= len(p.tokens) || !p.tokens[i+1].Is("BY") {
				continue
			}
			kw += " BY"
			bodyStart = i + 2
		}
		cur.end = i
		out = append(out, cur)
		cur = section{name: kw, pos: t.Pos, start: bodyStart}
		if kw == "UNION" || kw == "EXCEPT" || kw == "INTERSECT" {
			break
		}
	}
	cur.end = len(p.tokens)
	return append(out, cur)
}

// ---------------------------------------------------------------------------
// FROM / JOIN

type joinSpan struct {
	start int // 第一个连接类型关键字
	kw    int // JOIN 或 APPLY
	end   int
}

func (p *Parser) parseFrom(s section) {
	var joins []joinSpan
	lower := s.start
	for k := s.start; k < s.end; k++ {
		t := p.tokens[k]
		if t.Depth != 0 || !(t.Is("JOIN") || t.Is("APPLY")) {
			continue
		}
		st := k
		for st-1 >= lower && p.tokens[st-1].Type == TokenWord && joinTypeWords[strings.ToUpper(p.tokens[st-1].Value)] {
			st--
		}
		if len(joins) > 0 {
			joins[len(joins)-1].end = st
		}
		joins = append(joins, joinSpan{start: st, kw: k, end: s.end})
		lower = k + 1
	}

	baseEnd := s.end
	if len(joins) > 0 {
		baseEnd = joins[0].start
	}
	p.parseBaseTable(s, baseEnd)
	for _, j := range joins {
		p.parseJoin(j)
	}
}

func (p *Parser) parseBaseTable(s section, end int) {
	text, pos := p.text(s.start, end)
	if s.start >= end {
		p.warn(ErrorTypeUnsupportedClause, "FROM clause names no table", s.pos, "FROM")
		return
	}
	if p.tokens[s.start].Type == TokenLParen {
		p.warn(ErrorTypeUnsupportedClause, "derived tables are not supported", pos, text)
		return
	}
	raw, i, ok := p.readName(s.start, end)
	if !ok {
		p.warn(ErrorTypeUnsupportedClause, "table reference not recognized", pos, text)
		return
	}
	alias, i := p.readAlias(i, end)
	p.state.Tables = append(p.state.Tables, types.Table{Name: ident.StripQualified(raw), Alias: alias})

	if i >= end {
		return
	}
	rest, restPos := p.text(i, end)
	switch {
	case p.tokens[i].Type == TokenComma:
		p.warn(ErrorTypeImplicitJoin, "comma-separated tables are not supported, only the first table was kept", restPos, rest,
			"rewrite the extra tables as explicit JOINs")
	case p.tokens[i].Is("WITH"):
		p.warn(ErrorTypeUnsupportedClause, "table hints were ignored", restPos, rest)
	default:
		p.warn(ErrorTypeUnsupportedClause, "unrecognized text after the FROM table was ignored", restPos, rest)
	}
}

func (p *Parser) parseJoin(j joinSpan) {
	text, pos := p.text(j.start, j.end)
	words := make([]string, 0, j.kw-j.start)
	for k := j.start; k < j.kw; k++ {
		words = append(words, strings.ToUpper(p.tokens[k].Value))
	}
	if p.tokens[j.kw].Is("APPLY") {
		p.warn(ErrorTypeUnsupportedJoin, "APPLY is not supported", pos, text)
		return
	}
	joinType, ok := joinTypeOf(words)
	if !ok {
		p.warn(ErrorTypeUnsupportedJoin, fmt.Sprintf("join type %q is not supported", strings.Join(words, " ")), pos, text)
		return
	}

	i := j.kw + 1
	if i < j.end && p.tokens[i].Type == TokenLParen {
		p.warn(ErrorTypeUnsupportedJoin, "joins on derived tables are not supported", pos, text)
		return
	}
	raw, i, ok := p.readName(i, j.end)
	if !ok {
		p.warn(ErrorTypeUnsupportedJoin, "join table not recognized", pos, text)
		return
	}
	alias, i := p.readAlias(i, j.end)
	join := types.JoinConfig{
		Type:       joinType,
		Table:      ident.StripQualified(raw),
		Alias:      alias,
		Conditions: []types.JoinCondition{},
	}

	switch {
	case i >= j.end:
	case p.tokens[i].Is("ON"):
		if joinType == types.JoinCross {
			on, onPos := p.text(i, j.end)
			p.warn(ErrorTypeUnsupportedJoin, "ON conditions of a CROSS join were ignored", onPos, on)
			break
		}
		join.Conditions = p.parseJoinConditions(i+1, j.end)
	default:
		rest, restPos := p.text(i, j.end)
		p.warn(ErrorTypeUnsupportedJoin, "join condition not recognized", restPos, rest)
	}
	p.state.Joins = append(p.state.Joins, join)
}

// joinTypeOf 规范化连接类型：FULL / FULL OUTER 统一为 FULL OUTER，LEFT OUTER 为 LEFT
func joinTypeOf(words []string) (types.JoinType, bool) {
	switch strings.Join(words, " ") {
	case "", "INNER":
		return types.JoinInner, true
	case "LEFT", "LEFT OUTER":
		return types.JoinLeft, true
	case "RIGHT", "RIGHT OUTER":
		return types.JoinRight, true
	case "FULL", "FULL OUTER":
		return types.JoinFullOuter, true
	case "CROSS":
		return types.JoinCross, true
	default:
		return "", false
	}
}

// parseJoinConditions splits ON text into column comparisons. Anything that
// is not "column op column" is dropped without a warning.
func (p *Parser) parseJoinConditions(a, b int) []types.JoinCondition {
	conditions := make([]types.JoinCondition, 0)
	a, b = p.unwrap(a, b)
	for _, part := range p.splitConnectives(a, b) {
		s, e := p.unwrap(part.start, part.end)
		left, i, ok := p.readName(s, e)
		if !ok || i >= e || !isComparison(p.tokens[i]) {
			p.dropCondition(s, e)
			continue
		}
		op := normalizeOperator(p.tokens[i].Value)
		right, k, ok := p.readName(i+1, e)
		if !ok || k != e {
			p.dropCondition(s, e)
			continue
		}
		cond := types.JoinCondition{
			LeftColumn:  ident.StripQualified(left),
			Operator:    op,
			RightColumn: ident.StripQualified(right),
		}
		if len(conditions) > 0 {
			cond.AndOr = part.conn
		}
		conditions = append(conditions, cond)
	}
	return conditions
}

func (p *Parser) dropCondition(a, b int) {
	text, _ := p.text(a, b)
	p.log.Debug("sql parser dropped join condition %q", text)
}

// ---------------------------------------------------------------------------
// SELECT list

var aggregateNames = map[string]bool{"SUM": true, "AVG": true, "COUNT": true, "MIN": true, "MAX": true}

func (p *Parser) parseColumns(s section) {
	start := p.skipSelectPrefix(s.start, s.end)
	for _, item := range p.splitCommas(start, s.end) {
		p.parseColumn(item.start, item.end)
	}
}

// skipSelectPrefix 跳过 ALL、DISTINCT、TOP n，它们无法在构建器中表示
func (p *Parser) skipSelectPrefix(i, end int) int {
	for i < end {
		t := p.tokens[i]
		switch {
		case t.Is("ALL"):
			i++
		case t.Is("DISTINCT"):
			p.warn(ErrorTypeUnsupportedClause, "SELECT DISTINCT is not represented in the builder", t.Pos, t.Value)
			i++
		case t.Is("TOP"):
			j := i + 1
			if j < end && p.tokens[j].Type == TokenLParen {
				j = min(p.closingParen(j, end)+1, end)
			} else if j < end && p.tokens[j].Type == TokenNumber {
				j++
			}
			if j < end && p.tokens[j].Is("PERCENT") {
				j++
			}
			if j+1 < end && p.tokens[j].Is("WITH") && p.tokens[j+1].Is("TIES") {
				j += 2
			}
			text, pos := p.text(i, j)
			p.warn(ErrorTypeUnsupportedClause, "TOP is not represented in the builder", pos, text)
			i = j
		default:
			return i
		}
	}
	return i
}

func (p *Parser) parseColumn(a, b int) {
	text, pos := p.text(a, b)
	if a >= b {
		p.warn(ErrorTypeUnsupportedClause, "empty select item was skipped", pos, text,
			"remove the extra comma")
		return
	}

	if p.isWildcard(a, b) {
		p.warn(ErrorTypeWildcard, "SELECT * cannot be expanded into builder columns", pos, text,
			"list the columns explicitly")
		return
	}
	base := p.tokens[a].Depth
	for k := a; k < b; k++ {
		if p.tokens[k].Depth == base && p.tokens[k].Is("OVER") {
			p.warn(ErrorTypeWindowFunction,
				fmt.Sprintf("window function %s is not supported when loading SQL", strings.ToUpper(p.tokens[a].Value)),
				pos, text, "edit the window column in the builder or keep the SQL as text")
			return
		}
	}

	end, alias := p.splitAlias(a, b)

	if col, ok := p.aggregateColumn(a, end); ok {
		col.Alias = alias
		p.state.Columns = append(p.state.Columns, col)
		return
	}
	if raw, i, ok := p.readName(a, end); ok && i == end {
		table, column := ident.SplitQualified(raw)
		p.state.Columns = append(p.state.Columns, types.SimpleColumn{Table: table, Column: column, Alias: alias})
		return
	}

	message := "complex expression is not mapped to a builder column"
	if unknown := UnknownFunctions(p.tokens[a:end]); len(unknown) > 0 {
		message += "; unrecognized functions: " + strings.Join(unknown, ", ")
	}
	p.warn(ErrorTypeComplexExpression, message, pos, text, "add it as a calculated column in the builder")
}

func (p *Parser) isWildcard(a, b int) bool {
	if p.tokens[b-1].Type != TokenStar {
		return false
	}
	if b-a == 1 {
		return true
	}
	_, i, ok := p.readName(a, b-1)
	return ok && i == b-2 && p.tokens[b-2].Type == TokenDot
}

// splitAlias detects "expr AS alias" and "expr alias" and returns the end
// of the expression part.
func (p *Parser) splitAlias(a, b int) (int, string) {
	if b-a >= 3 && p.tokens[b-2].Is("AS") {
		if last := p.tokens[b-1]; last.IsIdentifier() || last.Type == TokenString {
			return b - 2, unquoteAlias(last)
		}
	}
	if b-a >= 2 {
		last, prev := p.tokens[b-1], p.tokens[b-2]
		if last.IsIdentifier() && endsExpression(prev) {
			return b - 1, unquoteAlias(last)
		}
	}
	return b, ""
}

func endsExpression(t Token) bool {
	switch t.Type {
	case TokenQuoted, TokenRParen, TokenNumber, TokenString:
		return true
	case TokenWord:
		return !isReserved(t.Value) || strings.EqualFold(t.Value, "END")
	default:
		return false
	}
}

func unquoteAlias(t Token) string {
	v := t.Value
	if t.Type == TokenString {
		return unquoteString(v)
	}
	return ident.StripBrackets(v)
}

// aggregateColumn recognizes SUM|AVG|COUNT|MIN|MAX([DISTINCT] column) and
// COUNT(*).
func (p *Parser) aggregateColumn(a, b int) (types.AggregateColumn, bool) {
	if b-a < 3 || p.tokens[a].Type != TokenWord || !aggregateNames[strings.ToUpper(p.tokens[a].Value)] {
		return types.AggregateColumn{}, false
	}
	if p.tokens[a+1].Type != TokenLParen || p.closingParen(a+1, b) != b-1 {
		return types.AggregateColumn{}, false
	}
	fn, _ := types.LookupAggregateFunc(p.tokens[a].Value)
	col := types.AggregateColumn{Function: fn}

	i, end := a+2, b-1
	if i < end && p.tokens[i].Is("DISTINCT") {
		col.Distinct = true
		i++
	} else if i < end && p.tokens[i].Is("ALL") {
		i++
	}
	if i+1 == end && p.tokens[i].Type == TokenStar {
		if fn != types.AggCount || col.Distinct {
			return types.AggregateColumn{}, false
		}
		col.Column = "*"
		return col, true
	}
	raw, k, ok := p.readName(i, end)
	if !ok || k != end {
		return types.AggregateColumn{}, false
	}
	col.Column = ident.StripQualified(raw)
	return col, true
}

// ---------------------------------------------------------------------------
// WHERE

func (p *Parser) parseWhere(s section) {
	a, b := p.unwrap(s.start, s.end)
	for _, part := range p.splitConnectives(a, b) {
		cond, ok := p.parseCondition(part.start, part.end)
		if !ok {
			continue
		}
		if len(p.state.Where) > 0 {
			cond.AndOr = part.conn
		}
		p.state.Where = append(p.state.Where, cond)
	}
}

func (p *Parser) parseCondition(a, b int) (types.WhereCondition, bool) {
	text, pos := p.text(a, b)
	a, b = p.unwrap(a, b)
	fail := func(message string) (types.WhereCondition, bool) {
		p.warn(ErrorTypeUnsupportedCondition, message, pos, text, "keep this filter in the SQL text")
		return types.WhereCondition{}, false
	}
	if a >= b {
		return fail("empty condition")
	}
	if p.hasConnective(a, b) {
		return fail("nested AND/OR groups are not supported")
	}

	raw, i, ok := p.readName(a, b)
	if !ok || i >= b {
		return fail("condition is not a column comparison")
	}
	cond := types.WhereCondition{Column: ident.StripQualified(raw)}
	t := p.tokens[i]

	switch {
	case t.Is("IS"):
		rest := tokenWords(p.tokens[i+1 : b])
		switch rest {
		case "NULL":
			cond.Operator = types.OpIsNull
		case "NOT NULL":
			cond.Operator = types.OpIsNotNull
		default:
			return fail("IS condition not recognized")
		}
		return cond, true

	case t.Is("NOT"):
		if i+1 < b && p.tokens[i+1].Is("IN") {
			return fail("NOT IN is not supported")
		}
		if i+1 < b && p.tokens[i+1].Is("LIKE") {
			return fail("NOT LIKE is not supported")
		}
		return fail("NOT condition not recognized")

	case t.Is("IN"):
		if i+1 >= b || p.tokens[i+1].Type != TokenLParen || p.closingParen(i+1, b) != b-1 {
			return fail("IN list not recognized")
		}
		if i+2 < b-1 && p.tokens[i+2].Is("SELECT") {
			return fail("IN subqueries are not supported")
		}
		values := make([]any, 0)
		for _, item := range p.splitCommas(i+2, b-1) {
			v, _, ok := p.parseValue(item.start, item.end)
			if !ok {
				return fail("IN list value not recognized")
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return fail("IN list is empty")
		}
		cond.Operator = types.OpIn
		cond.Values = values
		return cond, true

	case t.Is("LIKE"):
		cond.Operator = types.OpLike

	case t.Is("BETWEEN"):
		return fail("BETWEEN is not supported")

	case isComparison(t):
		cond.Operator = normalizeOperator(t.Value)

	default:
		return fail("condition is not a column comparison")
	}

	v, isParam, ok := p.parseValue(i+1, b)
	if !ok {
		return fail("condition value is not a literal or parameter")
	}
	cond.Value = v
	cond.IsParameter = isParam
	return cond, true
}

// parseValue reads a single literal: a quoted string, an @parameter, a
// number or TRUE/FALSE. Column references and expressions are refused.
func (p *Parser) parseValue(a, b int) (any, bool, bool) {
	neg := false
	if b-a == 2 && p.tokens[a].Type == TokenOperator && p.tokens[a].Value == "-" {
		neg = true
		a++
	}
	if b-a != 1 {
		return nil, false, false
	}
	t := p.tokens[a]
	switch t.Type {
	case TokenString:
		if neg || t.Unterminated {
			return nil, false, false
		}
		return unquoteString(t.Value), false, true
	case TokenNumber:
		text := t.Value
		if neg {
			text = "-" + text
		}
		if integerPattern.MatchString(text) {
			if n, err := cast.ToInt64E(text); err == nil {
				return n, false, true
			}
		}
		if floatPattern.MatchString(text) {
			if f, err := cast.ToFloat64E(text); err == nil {
				return f, false, true
			}
		}
		return nil, false, false
	case TokenWord:
		if neg {
			return nil, false, false
		}
		if parameterPattern.MatchString(t.Value) {
			return t.Value, true, true
		}
		if t.Is("TRUE") || t.Is("FALSE") {
			return cast.ToBool(strings.ToLower(t.Value)), false, true
		}
	}
	return nil, false, false
}

// ---------------------------------------------------------------------------
// GROUP BY / ORDER BY

func (p *Parser) parseGroupBy(s section) {
	for _, item := range p.splitCommas(s.start, s.end) {
		if col := p.columnText(item.start, item.end); col != "" {
			p.state.GroupBy = append(p.state.GroupBy, col)
		}
	}
}

func (p *Parser) parseOrderBy(s section) {
	for _, item := range p.splitCommas(s.start, s.end) {
		a, b := item.start, item.end
		dir := types.Asc
		if b > a && p.tokens[b-1].Is("DESC") {
			dir = types.Desc
			b--
		} else if b > a && p.tokens[b-1].Is("ASC") {
			b--
		}
		if col := p.columnText(a, b); col != "" {
			p.state.OrderBy = append(p.state.OrderBy, types.OrderByItem{Column: col, Direction: dir})
		}
	}
}

// columnText 返回去掉方括号的列名；表达式按原文保留
func (p *Parser) columnText(a, b int) string {
	if raw, i, ok := p.readName(a, b); ok && i == b {
		return ident.StripQualified(raw)
	}
	text, _ := p.text(a, b)
	return strings.TrimSpace(text)
}

// ---------------------------------------------------------------------------
// token helpers

// readName reads "ident(.ident)*" starting at i and returns its raw text.
func (p *Parser) readName(i, end int) (string, int, bool) {
	if i >= end || !p.tokens[i].IsIdentifier() || p.tokens[i].Unterminated {
		return "", i, false
	}
	start := i
	i++
	for i+1 < end && p.tokens[i].Type == TokenDot && p.tokens[i+1].IsIdentifier() && !p.tokens[i+1].Unterminated {
		i += 2
	}
	return p.input[p.tokens[start].Pos:p.tokens[i-1].End], i, true
}

// readAlias reads "[AS] alias". Reserved words are never taken as alias.
func (p *Parser) readAlias(i, end int) (string, int) {
	if i < end && p.tokens[i].Is("AS") {
		if i+1 < end && p.tokens[i+1].IsIdentifier() {
			return unquoteAlias(p.tokens[i+1]), i + 2
		}
		return "", i
	}
	if i < end && p.tokens[i].IsIdentifier() {
		return unquoteAlias(p.tokens[i]), i + 1
	}
	return "", i
}

// closingParen 返回与 open 处左括号匹配的右括号下标，找不到时返回 end
func (p *Parser) closingParen(open, end int) int {
	depth := p.tokens[open].Depth
	for k := open + 1; k < end; k++ {
		if p.tokens[k].Type == TokenRParen && p.tokens[k].Depth == depth {
			return k
		}
	}
	return end
}

// unwrap strips parentheses that enclose the whole range.
func (p *Parser) unwrap(a, b int) (int, int) {
	for b-a >= 2 && p.tokens[a].Type == TokenLParen && p.closingParen(a, b) == b-1 {
		a++
		b--
	}
	return a, b
}

func (p *Parser) baseDepth(a, b int) int {
	if a >= b {
		return 0
	}
	depth := p.tokens[a].Depth
	for k := a + 1; k < b; k++ {
		depth = min(depth, p.tokens[k].Depth)
	}
	return depth
}

// splitCommas 在当前层级的逗号处切分
func (p *Parser) splitCommas(a, b int) []span {
	var out []span
	depth := p.baseDepth(a, b)
	start := a
	for k := a; k < b; k++ {
		if p.tokens[k].Type == TokenComma && p.tokens[k].Depth == depth {
			out = append(out, span{start: start, end: k})
			start = k + 1
		}
	}
	if start < b || len(out) > 0 {
		out = append(out, span{start: start, end: b})
	}
	return out
}

// splitConnectives cuts a boolean chain at top-level AND/OR. The AND of
// "BETWEEN x AND y" is not a connective.
func (p *Parser) splitConnectives(a, b int) []span {
	var out []span
	depth := p.baseDepth(a, b)
	start := a
	conn := types.Connective("")
	between := false
	for k := a; k < b; k++ {
		t := p.tokens[k]
		if t.Depth != depth || t.Type != TokenWord {
			continue
		}
		switch {
		case t.Is("BETWEEN"):
			between = true
		case t.Is("AND") && between:
			between = false
		case t.Is("AND") || t.Is("OR"):
			out = append(out, span{start: start, end: k, conn: conn})
			conn = types.Connective(strings.ToUpper(t.Value))
			start = k + 1
		}
	}
	// 连接词两侧的空操作数保留为空段，由调用方报告
	if start < b || len(out) > 0 {
		out = append(out, span{start: start, end: b, conn: conn})
	}
	return out
}

func (p *Parser) hasConnective(a, b int) bool {
	return len(p.splitConnectives(a, b)) > 1
}

func isComparison(t Token) bool {
	if t.Type != TokenOperator {
		return false
	}
	switch t.Value {
	case "=", "!=", "<>", ">", "<", ">=", "<=":
		return true
	}
	return false
}

func normalizeOperator(op string) types.Operator {
	if op == "<>" {
		return types.OpNe
	}
	return types.Operator(op)
}

// unquoteString 去掉 N 前缀和外层单引号，'' 还原为 '
func unquoteString(v string) string {
	if len(v) > 0 && (v[0] == 'N' || v[0] == 'n') {
		v = v[1:]
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		v = v[1 : len(v)-1]
	}
	return strings.ReplaceAll(v, "''", "'")
}

func tokenWords(tokens []Token) string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		words = append(words, strings.ToUpper(t.Value))
	}
	return strings.Join(words, " ")
}
