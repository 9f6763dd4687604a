// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
	"github.com/nvc-lang/nvc/internal/optional"
)

const (
	keywordLet  = "let"
	keywordFun  = "fun"
	keywordType = "type"
)

const initialNodeCapacity = 8

func isKeyword(v string) bool {
	switch v {
	case keywordLet, keywordFun, keywordType:
		return true
	}
	return false
}

// ParserOptions adjust the accepted grammar.
type ParserOptions struct {
	// AllowTrailingComma accepts a comma directly before the closing
	// parenthesis of a parameter or member list.
	AllowTrailingComma bool
}

func DefaultParserOptions() ParserOptions {
	return ParserOptions{AllowTrailingComma: true}
}

// ParserNvc implements a parser for nvc token streams.
type ParserNvc struct {
	reporter exc.Reporter
	options  ParserOptions
}

func NewParserNvc(reporter exc.Reporter, options ParserOptions) *ParserNvc {
	return &ParserNvc{reporter: reporter, options: options}
}

func (self *ParserNvc) Parse(ctx context.Context, f idl.LexerFile) (*Module, error) {
	stream, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	return self.ParseStream(ctx, stream)
}

// ParseStream parses a complete token stream. The first failure is reported
// and returned and no partial module is produced.
func (self *ParserNvc) ParseStream(ctx context.Context, stream *idl.TokenStream) (*Module, error) {
	p := &parserNvcTokens{
		ctx:      ctx,
		reporter: self.reporter,
		options:  self.options,
	}
	nodes, err := p.parseForms(stream.Tokens)
	if err != nil {
		return nil, err
	}
	return &Module{Name: stream.Name, Nodes: nodes}, nil
}

type parserNvcTokens struct {
	ctx      context.Context
	reporter exc.Reporter
	options  ParserOptions
}

func (self *parserNvcTokens) fail(loc idl.Location, code string, format string, args ...any) error {
	e := exc.Newf(loc, code, format, args...)
	_ = self.reporter.Report(e)
	return e
}

// parseForms parses every top-level form in the window. Each form must be
// followed by a newline, the end of input or the end of the window.
func (self *parserNvcTokens) parseForms(window []idl.Token) ([]Node, error) {
	nodes := make([]Node, 0, initialNodeCapacity)
	for cursor := 0; cursor < len(window); {
		if window[cursor].IsTerminator() {
			cursor = cursor + 1
			continue
		}
		n, eaten, err := self.parseRecursive(window[cursor:])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
		cursor = cursor + eaten
		if cursor < len(window) && !window[cursor].IsTerminator() {
			return nil, self.fail(window[cursor].Loc, exc.CodeIncompleteConsumption,
				"Unexpected %s after %s", describeToken(window[cursor]), Format(n))
		}
	}
	return slices.Clip(nodes), nil
}

// parseRecursive parses the single form at the head of window and reports
// how many tokens it consumed.
func (self *parserNvcTokens) parseRecursive(window []idl.Token) (Node, int, error) {
	if len(window) > 0 && window[0].Type == idl.TokenTypeSymbol {
		switch window[0].Value {
		case keywordLet:
			return self.parseLetDecl(window)
		case keywordFun:
			return self.parseFunDecl(window)
		case keywordType:
			return self.parseTypeDecl(window)
		}
	}
	return self.parseExpression(window)
}

func (self *parserNvcTokens) parseLetDecl(window []idl.Token) (Node, int, error) {
	kw := window[0]
	if len(window) < 2 || window[1].Type != idl.TokenTypeSymbol || isKeyword(window[1].Value) {
		return nil, 0, self.fail(locAt(window, 1), exc.CodeMalformedDeclaration,
			"Malformed let declaration: expected a name after 'let' but found %s", describeAt(window, 1))
	}
	name := window[1]
	if len(window) < 3 || !window[2].IsOperator(idl.OperatorEqual) {
		return nil, 0, self.fail(locAt(window, 2), exc.CodeMissingExpectedToken,
			"Expected '=' after 'let %s' but found %s", name.Value, describeAt(window, 2))
	}
	if len(window) < 4 || window[3].IsTerminator() {
		return nil, 0, self.fail(locAt(window, 3), exc.CodeEmptyOperandWindow,
			"Expected an expression after 'let %s ='", name.Value)
	}
	rhs, eaten, err := self.parseExpression(window[3:])
	if err != nil {
		return nil, 0, err
	}
	end := 3 + eaten
	if end < len(window) && !window[end].IsTerminator() {
		return nil, 0, self.fail(window[end].Loc, exc.CodeIncompleteConsumption,
			"Unexpected %s after the value of '%s'", describeToken(window[end]), name.Value)
	}
	return &LetDecl{Loc: kw.Loc, Name: name.Value, Rhs: rhs}, end, nil
}

func (self *parserNvcTokens) parseFunDecl(window []idl.Token) (Node, int, error) {
	s := self.newSignatureScanner(window)
	kw := s.advance()
	name, err := s.declarationName(keywordFun, "function")
	if err != nil {
		return nil, 0, err
	}
	params, err := s.parseTypedNameList("parameter")
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.expect(idl.OperatorArrow, fmt.Sprintf("after the parameters of '%s'", name)); err != nil {
		return nil, 0, err
	}
	ret := optional.None[string]()
	if cur, ok := s.peek(); ok && cur.Value.Type == idl.TokenTypeSymbol {
		if isKeyword(cur.Value.Value) {
			return nil, 0, self.fail(cur.Value.Loc, exc.CodeUnexpectedToken,
				"Keyword '%s' cannot be used as the return type of '%s'", cur.Value.Value, name)
		}
		ret = optional.Some(s.advance().Value)
	}
	open, err := s.expect(idl.OperatorLParen, fmt.Sprintf("to open the body of '%s'", name))
	if err != nil {
		return nil, 0, err
	}
	openIndex := s.last
	closeIndex, ok := matchParen(window, openIndex)
	if !ok {
		return nil, 0, self.fail(open.Loc, exc.CodeMissingExpectedToken,
			"Expected ')' to close the body of '%s'", name)
	}
	body, err := self.parseForms(window[openIndex+1 : closeIndex])
	if err != nil {
		return nil, 0, err
	}
	return &FunDecl{
		Loc:        kw.Loc,
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}, closeIndex + 1, nil
}

func (self *parserNvcTokens) parseTypeDecl(window []idl.Token) (Node, int, error) {
	s := self.newSignatureScanner(window)
	kw := s.advance()
	name, err := s.declarationName(keywordType, "type")
	if err != nil {
		return nil, 0, err
	}
	members, err := s.parseTypedNameList("member")
	if err != nil {
		return nil, 0, err
	}
	return &TypeDecl{Loc: kw.Loc, Name: name, Members: members}, s.last + 1, nil
}

// parseExpression parses the longest operator chain at the head of window. A
// chain of one token is returned as the literal it holds.
func (self *parserNvcTokens) parseExpression(window []idl.Token) (Node, int, error) {
	if len(window) == 0 || window[0].IsTerminator() {
		return nil, 0, self.fail(locAt(window, 0), exc.CodeEmptyOperandWindow, "Expected an expression")
	}
	run := chainLength(window)
	if run == 1 {
		n, err := self.parseSingle(window[0])
		if err != nil {
			return nil, 0, err
		}
		return n, 1, nil
	}
	chain, err := self.buildChain(window[:run])
	if err != nil {
		return nil, 0, err
	}
	return chain, run, nil
}

func (self *parserNvcTokens) parseSingle(tok idl.Token) (Node, error) {
	switch tok.Type {
	case idl.TokenTypeSymbol:
		return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken,
			"Unexpected symbol '%s': a name on its own is not an expression", tok.Value)
	case idl.TokenTypeOperator:
		return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken,
			"Unexpected operator '%s': operators need operands", tok.Op)
	}
	n := operandNode(tok)
	if n == nil {
		return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken, "Unexpected %s", describeToken(tok))
	}
	return n, nil
}

// buildChain converts a run accepted by chainLength into its flat form.
// Operators in operand position must be unary capable and the run must end
// with an operand.
func (self *parserNvcTokens) buildChain(run []idl.Token) (*OperatorChain, error) {
	elements := make([]ChainElement, 0, len(run))
	expectOperand := true
	for _, tok := range run {
		if tok.Type == idl.TokenTypeOperator {
			if expectOperand {
				if !tok.Op.IsUnary() {
					return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken,
						"Operator '%s' cannot be used as a unary operator", tok.Op)
				}
				elements = append(elements, ChainUnary{Loc: tok.Loc, Op: tok.Op})
				continue
			}
			elements = append(elements, ChainBinary{Loc: tok.Loc, Op: tok.Op})
			expectOperand = true
			continue
		}
		if !expectOperand {
			return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken,
				"Expected an operator but found %s", describeToken(tok))
		}
		if tok.Type == idl.TokenTypeSymbol && isKeyword(tok.Value) {
			return nil, self.fail(tok.Loc, exc.CodeUnexpectedToken,
				"Keyword '%s' cannot be used in an expression", tok.Value)
		}
		elements = append(elements, ChainOperand{Node: operandNode(tok)})
		expectOperand = false
	}
	if expectOperand {
		last := run[len(run)-1]
		return nil, self.fail(last.Loc, exc.CodeMissingExpectedToken,
			"Expected an operand after operator '%s'", last.Op)
	}
	return &OperatorChain{Loc: run[0].Loc, Elements: slices.Clip(elements)}, nil
}

// chainLength returns the length of the longest prefix of window in which
// every adjacent pair may appear together in an expression.
func chainLength(window []idl.Token) int {
	n := 1
	for n < len(window) && chainable(window[n-1], window[n]) {
		n = n + 1
	}
	return n
}

func chainable(lhs idl.Token, rhs idl.Token) bool {
	switch lhs.Type {
	case idl.TokenTypeInteger, idl.TokenTypeFloat, idl.TokenTypeString, idl.TokenTypeSymbol:
		return rhs.Type == idl.TokenTypeOperator && rhs.Op.IsBinary()
	case idl.TokenTypeOperator:
		if !lhs.Op.IsBinary() && !lhs.Op.IsUnary() {
			return false
		}
		switch rhs.Type {
		case idl.TokenTypeInteger, idl.TokenTypeFloat, idl.TokenTypeString, idl.TokenTypeSymbol:
			return true
		case idl.TokenTypeOperator:
			return rhs.Op.IsUnary()
		}
	}
	return false
}

func operandNode(tok idl.Token) Node {
	switch tok.Type {
	case idl.TokenTypeInteger:
		return &IntLiteral{Loc: tok.Loc, Value: tok.Int}
	case idl.TokenTypeFloat:
		return &FloatLiteral{Loc: tok.Loc, Value: tok.Float}
	case idl.TokenTypeString:
		return &StringLiteral{Loc: tok.Loc, Value: tok.Value}
	case idl.TokenTypeSymbol:
		return &Symbol{Loc: tok.Loc, Name: tok.Value}
	}
	return nil
}

func matchParen(window []idl.Token, open int) (int, bool) {
	depth := 0
	for x := open; x < len(window); x = x + 1 {
		switch {
		case window[x].IsOperator(idl.OperatorLParen):
			depth = depth + 1
		case window[x].IsOperator(idl.OperatorRParen):
			depth = depth - 1
			if depth == 0 {
				return x, true
			}
		}
	}
	return 0, false
}

func locAt(window []idl.Token, x int) idl.Location {
	if len(window) == 0 {
		return idl.Location{}
	}
	if x >= len(window) {
		x = len(window) - 1
	}
	return window[x].Loc
}

func describeAt(window []idl.Token, x int) string {
	if x >= len(window) {
		return "end of input"
	}
	return describeToken(window[x])
}

func describeToken(t idl.Token) string {
	switch t.Type {
	case idl.TokenTypeInteger:
		return "integer " + strconv.FormatInt(t.Int, 10)
	case idl.TokenTypeFloat:
		return "float " + strconv.FormatFloat(t.Float, 'g', -1, 64)
	case idl.TokenTypeString:
		return "string '" + t.Value + "'"
	case idl.TokenTypeSymbol:
		return "symbol '" + t.Value + "'"
	case idl.TokenTypeOperator:
		return "operator '" + t.Op.String() + "'"
	case idl.TokenTypeNewline:
		return "end of line"
	case idl.TokenTypeEOF:
		return "end of file"
	default:
		return "unknown token"
	}
}
