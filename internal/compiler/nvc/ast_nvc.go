// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"github.com/nvc-lang/nvc/internal/idl"
	"github.com/nvc-lang/nvc/internal/optional"
)

// Node is any element of the syntax tree. The set of implementations is
// closed.
type Node interface {
	Location() idl.Location
	node()
}

// Module is the root of a single parse.
type Module struct {
	Name  string
	Nodes []Node
}

type IntLiteral struct {
	Loc   idl.Location
	Value int64
}

type FloatLiteral struct {
	Loc   idl.Location
	Value float64
}

type StringLiteral struct {
	Loc   idl.Location
	Value string
}

// Symbol is a name used as an operand inside an expression.
type Symbol struct {
	Loc  idl.Location
	Name string
}

type LetDecl struct {
	Loc  idl.Location
	Name string
	Rhs  Node
}

// TypedName is a NAME : TYPE pair from a parameter or member list.
type TypedName struct {
	Loc  idl.Location
	Name string
	Type string
}

// FunDecl is a function declaration. An absent ReturnType means the function
// returns unit.
type FunDecl struct {
	Loc        idl.Location
	Name       string
	Params     []TypedName
	ReturnType optional.Optional[string]
	Body       []Node
}

type TypeDecl struct {
	Loc     idl.Location
	Name    string
	Members []TypedName
}

// OperatorChain is an unresolved, flat run of operands and operators exactly
// as written. ResolveChain converts it into a tree.
type OperatorChain struct {
	Loc      idl.Location
	Elements []ChainElement
}

type ChainElement interface {
	Location() idl.Location
	chainElement()
}

type ChainUnary struct {
	Loc idl.Location
	Op  idl.Operator
}

type ChainBinary struct {
	Loc idl.Location
	Op  idl.Operator
}

type ChainOperand struct {
	Node Node
}

type UnaryExpr struct {
	Loc     idl.Location
	Op      idl.Operator
	Operand Node
}

type BinaryExpr struct {
	Loc   idl.Location
	Op    idl.Operator
	Left  Node
	Right Node
}

func (n *IntLiteral) Location() idl.Location    { return n.Loc }
func (n *FloatLiteral) Location() idl.Location  { return n.Loc }
func (n *StringLiteral) Location() idl.Location { return n.Loc }
func (n *Symbol) Location() idl.Location        { return n.Loc }
func (n *LetDecl) Location() idl.Location       { return n.Loc }
func (n *FunDecl) Location() idl.Location       { return n.Loc }
func (n *TypeDecl) Location() idl.Location      { return n.Loc }
func (n *OperatorChain) Location() idl.Location { return n.Loc }
func (n *UnaryExpr) Location() idl.Location     { return n.Loc }
func (n *BinaryExpr) Location() idl.Location    { return n.Loc }

func (*IntLiteral) node()    {}
func (*FloatLiteral) node()  {}
func (*StringLiteral) node() {}
func (*Symbol) node()        {}
func (*LetDecl) node()       {}
func (*FunDecl) node()       {}
func (*TypeDecl) node()      {}
func (*OperatorChain) node() {}
func (*UnaryExpr) node()     {}
func (*BinaryExpr) node()    {}

func (e ChainUnary) Location() idl.Location   { return e.Loc }
func (e ChainBinary) Location() idl.Location  { return e.Loc }
func (e ChainOperand) Location() idl.Location { return e.Node.Location() }

func (ChainUnary) chainElement()   {}
func (ChainBinary) chainElement()  {}
func (ChainOperand) chainElement() {}
