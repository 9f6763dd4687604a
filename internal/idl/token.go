// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"bytes"
	"fmt"
	"strconv"
)

// Location identifies a single byte of a source buffer. Line and Column are
// zero-indexed. LineStart is the offset of the first byte of the line within
// Source and is used to recover the line text for diagnostics.
type Location struct {
	Name      string
	Line      int
	Column    int
	LineStart int
	Source    []byte
}

// LineText returns the full text of the line containing the location, without
// the trailing newline. It returns an empty string when no source is attached.
func (l Location) LineText() string {
	if l.LineStart < 0 || l.LineStart > len(l.Source) {
		return ""
	}
	line := l.Source[l.LineStart:]
	if end := bytes.IndexAny(line, "\n\x00"); end >= 0 {
		line = line[:end]
	}
	return string(line)
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Name, l.Line+1, l.Column)
}

type TokenType uint8

const (
	TokenTypeUnknown  TokenType = 0
	TokenTypeString   TokenType = 1
	TokenTypeInteger  TokenType = 2
	TokenTypeFloat    TokenType = 3
	TokenTypeSymbol   TokenType = 4
	TokenTypeOperator TokenType = 5
	TokenTypeNewline  TokenType = 6
	TokenTypeEOF      TokenType = 7
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeString:
		return "string"
	case TokenTypeInteger:
		return "integer"
	case TokenTypeFloat:
		return "float"
	case TokenTypeSymbol:
		return "symbol"
	case TokenTypeOperator:
		return "operator"
	case TokenTypeNewline:
		return "newline"
	case TokenTypeEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Operator enumerates the fixed operator table. The numbering has a gap at 15
// so that the values line up with the compound assignment operators that were
// reserved and never defined.
type Operator int8

const (
	OperatorUnknown  Operator = -1
	OperatorLT       Operator = 0
	OperatorLE       Operator = 1
	OperatorGT       Operator = 2
	OperatorGE       Operator = 3
	OperatorEqual    Operator = 4
	OperatorAdd      Operator = 5
	OperatorSub      Operator = 6
	OperatorMul      Operator = 7
	OperatorDiv      Operator = 8
	OperatorNot      Operator = 9
	OperatorPow      Operator = 10
	OperatorAddEqual Operator = 11
	OperatorSubEqual Operator = 12
	OperatorMulEqual Operator = 13
	OperatorDivEqual Operator = 14
	OperatorPowEqual Operator = 16
	OperatorColon    Operator = 17
	OperatorLParen   Operator = 18
	OperatorRParen   Operator = 19
	OperatorLBracket Operator = 20
	OperatorRBracket Operator = 21
	OperatorArrow    Operator = 22
	OperatorComma    Operator = 23
	OperatorDot      Operator = 24
)

var operatorText = map[Operator]string{
	OperatorLT:       "<",
	OperatorLE:       "<=",
	OperatorGT:       ">",
	OperatorGE:       ">=",
	OperatorEqual:    "=",
	OperatorAdd:      "+",
	OperatorSub:      "-",
	OperatorMul:      "*",
	OperatorDiv:      "/",
	OperatorNot:      "~",
	OperatorPow:      "^",
	OperatorAddEqual: "+=",
	OperatorSubEqual: "-=",
	OperatorMulEqual: "*=",
	OperatorDivEqual: "/=",
	OperatorPowEqual: "^=",
	OperatorColon:    ":",
	OperatorLParen:   "(",
	OperatorRParen:   ")",
	OperatorLBracket: "[",
	OperatorRBracket: "]",
	OperatorArrow:    "->",
	OperatorComma:    ",",
	OperatorDot:      ".",
}

var operatorByText = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorText))
	for op, text := range operatorText {
		m[text] = op
	}
	return m
}()

// LookupOperator returns the operator spelled exactly as text or
// OperatorUnknown.
func LookupOperator(text string) Operator {
	if op, ok := operatorByText[text]; ok {
		return op
	}
	return OperatorUnknown
}

func (o Operator) String() string {
	if text, ok := operatorText[o]; ok {
		return text
	}
	return "?"
}

// IsBinary reports whether the operator may join two operands in an
// expression.
func (o Operator) IsBinary() bool {
	switch o {
	case OperatorLT, OperatorLE, OperatorGT, OperatorGE,
		OperatorAdd, OperatorSub, OperatorMul, OperatorDiv, OperatorPow:
		return true
	}
	return false
}

// IsUnary reports whether the operator may prefix an operand.
func (o Operator) IsUnary() bool {
	switch o {
	case OperatorAdd, OperatorSub, OperatorNot:
		return true
	}
	return false
}

// Token is a single lexical element. Only the payload field matching Type is
// meaningful.
type Token struct {
	Type  TokenType
	Loc   Location
	Value string
	Int   int64
	Float float64
	Op    Operator
}

// IsTerminator reports whether the token ends a top-level form.
func (t Token) IsTerminator() bool {
	return t.Type == TokenTypeNewline || t.Type == TokenTypeEOF
}

// IsOperator reports whether the token is the given operator.
func (t Token) IsOperator(op Operator) bool {
	return t.Type == TokenTypeOperator && t.Op == op
}

func (t Token) String() string {
	switch t.Type {
	case TokenTypeInteger:
		return "int(" + strconv.FormatInt(t.Int, 10) + ")"
	case TokenTypeFloat:
		return "float(" + strconv.FormatFloat(t.Float, 'f', 2, 64) + ")"
	case TokenTypeString:
		if t.Value == "" {
			return "str(NULL)"
		}
		return "str(" + t.Value + ")"
	case TokenTypeSymbol:
		return "symbol(" + t.Value + ")"
	case TokenTypeOperator:
		return "op(" + t.Op.String() + ")"
	case TokenTypeNewline:
		return "newline"
	case TokenTypeEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// TokenStream is the complete output of tokenizing one source buffer. The
// final token is always TokenTypeEOF.
type TokenStream struct {
	Name   string
	Source []byte
	Tokens []Token
}

func (s *TokenStream) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tokens)
}
