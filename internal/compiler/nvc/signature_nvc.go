// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"context"
	"fmt"
	"slices"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
	"github.com/nvc-lang/nvc/internal/iter"
)

type indexedToken = iter.Indexed[*idl.Token]

// signatureScanner walks the head of a declaration with newlines filtered
// out so that signatures may be split across lines. Consumed tokens keep
// their offset in the original window so the caller can resume from there.
type signatureScanner struct {
	parser *parserNvcTokens
	window []idl.Token
	tokens idl.Lookahead[indexedToken]
	last   int
}

func (self *parserNvcTokens) newSignatureScanner(window []idl.Token) *signatureScanner {
	skipNewlines := idl.Filter[indexedToken](iter.FilterFunc[indexedToken](func(ctx context.Context, t indexedToken) bool {
		return t.Value.Type != idl.TokenTypeNewline
	}))
	return &signatureScanner{
		parser: self,
		window: window,
		tokens: iter.NewLookahead(iter.NewIteratorFilter(iter.NewIndexedSlice(window), skipNewlines), 1),
	}
}

func (self *signatureScanner) peek() (indexedToken, bool) {
	v := self.tokens.Lookahead(self.parser.ctx, 0)
	return v.Value(), v.IsPresent()
}

// advance consumes the current token and returns it.
func (self *signatureScanner) advance() *idl.Token {
	cur, ok := self.peek()
	if !ok {
		return nil
	}
	self.last = cur.Index
	_ = self.tokens.Next(self.parser.ctx)
	return cur.Value
}

// current returns the next token unless the input is exhausted.
func (self *signatureScanner) current() (*idl.Token, bool) {
	cur, ok := self.peek()
	if !ok || cur.Value.Type == idl.TokenTypeEOF {
		return nil, false
	}
	return cur.Value, true
}

// endLoc is the location reported when a token is missing at the end of
// input.
func (self *signatureScanner) endLoc() idl.Location {
	if cur, ok := self.peek(); ok {
		return cur.Value.Loc
	}
	return locAt(self.window, self.last)
}

func (self *signatureScanner) expect(op idl.Operator, where string) (*idl.Token, error) {
	tok, ok := self.current()
	if !ok {
		return nil, self.parser.fail(self.endLoc(), exc.CodeMissingExpectedToken,
			"Expected '%s' %s", op, where)
	}
	if !tok.IsOperator(op) {
		return nil, self.parser.fail(tok.Loc, exc.CodeUnexpectedToken,
			"Expected '%s' %s but found %s", op, where, describeToken(*tok))
	}
	return self.advance(), nil
}

func (self *signatureScanner) expectName(what string) (*idl.Token, error) {
	tok, ok := self.current()
	if !ok {
		return nil, self.parser.fail(self.endLoc(), exc.CodeMissingExpectedToken, "Expected %s", what)
	}
	if tok.Type != idl.TokenTypeSymbol || isKeyword(tok.Value) {
		return nil, self.parser.fail(tok.Loc, exc.CodeUnexpectedToken,
			"Expected %s but found %s", what, describeToken(*tok))
	}
	return self.advance(), nil
}

// declarationName consumes the name following a declaration keyword.
func (self *signatureScanner) declarationName(keyword string, kind string) (string, error) {
	tok, ok := self.current()
	if !ok || tok.Type != idl.TokenTypeSymbol || isKeyword(tok.Value) {
		found := "end of input"
		loc := self.endLoc()
		if ok {
			found = describeToken(*tok)
			loc = tok.Loc
		}
		return "", self.parser.fail(loc, exc.CodeMalformedDeclaration,
			"Malformed %s declaration: expected a name after '%s' but found %s", kind, keyword, found)
	}
	return self.advance().Value, nil
}

func (self *signatureScanner) parseTypedName(what string) (TypedName, error) {
	name, err := self.expectName(what + " name")
	if err != nil {
		return TypedName{}, err
	}
	colon, ok := self.current()
	if !ok || !colon.IsOperator(idl.OperatorColon) {
		loc := self.endLoc()
		if ok {
			loc = colon.Loc
		}
		return TypedName{}, self.parser.fail(loc, exc.CodeMissingExpectedToken,
			"Expected ':' after %s '%s'", what, name.Value)
	}
	self.advance()
	typ, err := self.expectName(fmt.Sprintf("a type for %s '%s'", what, name.Value))
	if err != nil {
		return TypedName{}, err
	}
	return TypedName{Loc: name.Loc, Name: name.Value, Type: typ.Value}, nil
}

// parseTypedNameList parses ( [NAME : TYPE (, NAME : TYPE)* [,]] ).
func (self *signatureScanner) parseTypedNameList(what string) ([]TypedName, error) {
	if _, err := self.expect(idl.OperatorLParen, fmt.Sprintf("to open the %s list", what)); err != nil {
		return nil, err
	}
	closeMissing := func() error {
		return self.parser.fail(self.endLoc(), exc.CodeMissingExpectedToken,
			"Expected ')' to close the %s list", what)
	}
	names := make([]TypedName, 0, 4)
	for {
		tok, ok := self.current()
		if !ok {
			return nil, closeMissing()
		}
		if tok.IsOperator(idl.OperatorRParen) {
			self.advance()
			return slices.Clip(names), nil
		}
		tn, err := self.parseTypedName(what)
		if err != nil {
			return nil, err
		}
		names = append(names, tn)
		tok, ok = self.current()
		if !ok {
			return nil, closeMissing()
		}
		if tok.IsOperator(idl.OperatorRParen) {
			continue
		}
		if !tok.IsOperator(idl.OperatorComma) {
			return nil, self.parser.fail(tok.Loc, exc.CodeUnexpectedToken,
				"Expected ',' or ')' after %s '%s' but found %s", what, tn.Name, describeToken(*tok))
		}
		self.advance()
		if next, ok := self.current(); ok && next.IsOperator(idl.OperatorRParen) && !self.parser.options.AllowTrailingComma {
			return nil, self.parser.fail(next.Loc, exc.CodeUnexpectedToken,
				"Trailing comma is not allowed in the %s list", what)
		}
	}
}
