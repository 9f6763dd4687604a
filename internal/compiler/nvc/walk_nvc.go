package nvc

// Walk visits every node of the module in post-order and then calls f with
// the module itself. Operator chains are walked as written, not resolved.
func Walk(module *Module, f func(interface{})) {
	for _, n := range module.Nodes {
		walkNode(n, f)
	}
	f(module)
}

func walkNode(n Node, f func(interface{})) {
	switch n := n.(type) {
	case *LetDecl:
		walkNode(n.Rhs, f)
	case *FunDecl:
		for x := range n.Params {
			f(&n.Params[x])
		}
		for _, child := range n.Body {
			walkNode(child, f)
		}
	case *TypeDecl:
		for x := range n.Members {
			f(&n.Members[x])
		}
	case *OperatorChain:
		walkChain(n, f)
	case *UnaryExpr:
		walkNode(n.Operand, f)
	case *BinaryExpr:
		walkNode(n.Left, f)
		walkNode(n.Right, f)
	}
	f(n)
}

func walkChain(chain *OperatorChain, f func(interface{})) {
	for _, element := range chain.Elements {
		if operand, ok := element.(ChainOperand); ok {
			walkNode(operand.Node, f)
			continue
		}
		f(element)
	}
}

// CountNodes returns the number of syntax nodes in the module, excluding the
// module itself, typed names and chain operators.
func CountNodes(module *Module) int {
	count := 0
	Walk(module, func(v interface{}) {
		if _, ok := v.(Node); ok {
			count = count + 1
		}
	})
	return count
}
