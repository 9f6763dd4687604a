// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"fmt"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

const (
	precedenceNone = iota
	precedenceComparison
	precedenceAdditive
	precedenceMultiplicative
	precedencePower
)

func binaryPrecedence(op idl.Operator) int {
	switch op {
	case idl.OperatorLT, idl.OperatorLE, idl.OperatorGT, idl.OperatorGE:
		return precedenceComparison
	case idl.OperatorAdd, idl.OperatorSub:
		return precedenceAdditive
	case idl.OperatorMul, idl.OperatorDiv:
		return precedenceMultiplicative
	case idl.OperatorPow:
		return precedencePower
	default:
		return precedenceNone
	}
}

func rightAssociative(op idl.Operator) bool {
	return op == idl.OperatorPow
}

// ResolveChain turns a flat operator chain into a tree of UnaryExpr and
// BinaryExpr nodes. Unary operators bind tighter than any binary operator and
// ^ groups to the right. A chain of a single operand resolves to that operand.
func ResolveChain(chain *OperatorChain) (Node, error) {
	r := &chainResolver{chain: chain}
	n, err := r.parseBinary(precedenceComparison)
	if err != nil {
		return nil, err
	}
	if r.pos < len(chain.Elements) {
		e := chain.Elements[r.pos]
		return nil, exc.New(e.Location(), exc.CodeUnexpectedToken, fmt.Sprintf("Unexpected %s in expression", describeElement(e)))
	}
	return n, nil
}

type chainResolver struct {
	chain *OperatorChain
	pos   int
}

func (self *chainResolver) parseBinary(minPrecedence int) (Node, error) {
	left, err := self.parseUnary()
	if err != nil {
		return nil, err
	}
	for self.pos < len(self.chain.Elements) {
		b, ok := self.chain.Elements[self.pos].(ChainBinary)
		if !ok {
			break
		}
		precedence := binaryPrecedence(b.Op)
		if precedence == precedenceNone || precedence < minPrecedence {
			break
		}
		self.pos = self.pos + 1
		next := precedence + 1
		if rightAssociative(b.Op) {
			next = precedence
		}
		right, err := self.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Loc: b.Loc, Op: b.Op, Left: left, Right: right}
	}
	return left, nil
}

func (self *chainResolver) parseUnary() (Node, error) {
	if self.pos >= len(self.chain.Elements) {
		loc := self.chain.Loc
		if n := len(self.chain.Elements); n > 0 {
			loc = self.chain.Elements[n-1].Location()
		}
		return nil, exc.New(loc, exc.CodeMissingExpectedToken, "Expected an operand")
	}
	switch e := self.chain.Elements[self.pos].(type) {
	case ChainUnary:
		self.pos = self.pos + 1
		operand, err := self.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Loc: e.Loc, Op: e.Op, Operand: operand}, nil
	case ChainOperand:
		self.pos = self.pos + 1
		return e.Node, nil
	default:
		return nil, exc.New(e.Location(), exc.CodeUnexpectedToken, fmt.Sprintf("Expected an operand but found %s", describeElement(e)))
	}
}

func describeElement(e ChainElement) string {
	switch e := e.(type) {
	case ChainUnary:
		return fmt.Sprintf("unary operator '%s'", e.Op)
	case ChainBinary:
		return fmt.Sprintf("operator '%s'", e.Op)
	case ChainOperand:
		return "operand " + Format(e.Node)
	default:
		return "element"
	}
}
