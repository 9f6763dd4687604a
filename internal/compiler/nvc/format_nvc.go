package nvc

import (
	"strconv"
	"strings"
)

// Format renders a node in the compact form printed by the tree dump. Chains
// are shown resolved with every sub-expression parenthesized.
func Format(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// FormatModule renders every top-level node on its own line.
func FormatModule(m *Module) string {
	var b strings.Builder
	for _, n := range m.Nodes {
		writeNode(&b, n)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *IntLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *FloatLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'f', 2, 64))
	case *StringLiteral:
		b.WriteByte('\'')
		b.WriteString(n.Value)
		b.WriteByte('\'')
	case *Symbol:
		b.WriteString(n.Name)
	case *LetDecl:
		b.WriteString("let(")
		b.WriteString(n.Name)
		b.WriteString(", ")
		writeNode(b, n.Rhs)
		b.WriteByte(')')
	case *FunDecl:
		b.WriteString("fun ")
		b.WriteString(n.Name)
		writeTypedNames(b, n.Params)
		b.WriteString(" -> ")
		b.WriteString(n.ReturnType.ValueOr(""))
		b.WriteByte('(')
		for x, child := range n.Body {
			if x > 0 {
				b.WriteString("; ")
			}
			writeNode(b, child)
		}
		b.WriteByte(')')
	case *TypeDecl:
		b.WriteString("type ")
		b.WriteString(n.Name)
		writeTypedNames(b, n.Members)
	case *OperatorChain:
		if resolved, err := ResolveChain(n); err == nil {
			writeNode(b, resolved)
			return
		}
		for x, e := range n.Elements {
			if x > 0 {
				b.WriteByte(' ')
			}
			switch e := e.(type) {
			case ChainUnary:
				b.WriteString(e.Op.String())
			case ChainBinary:
				b.WriteString(e.Op.String())
			case ChainOperand:
				writeNode(b, e.Node)
			}
		}
	case *UnaryExpr:
		b.WriteByte('(')
		b.WriteString(n.Op.String())
		writeNode(b, n.Operand)
		b.WriteByte(')')
	case *BinaryExpr:
		b.WriteByte('(')
		writeNode(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		writeNode(b, n.Right)
		b.WriteByte(')')
	}
}

func writeTypedNames(b *strings.Builder, names []TypedName) {
	b.WriteByte('(')
	for x, tn := range names {
		if x > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tn.Name)
		b.WriteString(": ")
		b.WriteString(tn.Type)
		b.WriteByte(',')
	}
	b.WriteByte(')')
}
