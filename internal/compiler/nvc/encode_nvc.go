// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeModule converts the tree into a protobuf Struct. Every node becomes
// an object with a "kind" field, its 1-indexed line and its column.
func EncodeModule(m *Module) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"name":  m.Name,
		"nodes": encodeNodes(m.Nodes),
	})
}

// MarshalModuleJSON renders the tree as indented JSON.
func MarshalModuleJSON(m *Module) ([]byte, error) {
	s, err := EncodeModule(m)
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

func encodeNodes(nodes []Node) []interface{} {
	out := make([]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, encodeNode(n))
	}
	return out
}

func encodeTypedNames(names []TypedName) []interface{} {
	out := make([]interface{}, 0, len(names))
	for _, tn := range names {
		out = append(out, map[string]interface{}{
			"name": tn.Name,
			"type": tn.Type,
			"line": int64(tn.Loc.Line + 1),
		})
	}
	return out
}

func encodeNode(n Node) map[string]interface{} {
	loc := n.Location()
	out := map[string]interface{}{
		"line":   int64(loc.Line + 1),
		"column": int64(loc.Column),
	}
	switch n := n.(type) {
	case *IntLiteral:
		out["kind"] = "int"
		out["value"] = n.Value
	case *FloatLiteral:
		out["kind"] = "float"
		out["value"] = n.Value
	case *StringLiteral:
		out["kind"] = "string"
		out["value"] = n.Value
	case *Symbol:
		out["kind"] = "symbol"
		out["name"] = n.Name
	case *LetDecl:
		out["kind"] = "let"
		out["name"] = n.Name
		out["value"] = encodeNode(n.Rhs)
	case *FunDecl:
		out["kind"] = "fun"
		out["name"] = n.Name
		out["params"] = encodeTypedNames(n.Params)
		if n.ReturnType.IsPresent() {
			out["returns"] = n.ReturnType.Value()
		}
		out["body"] = encodeNodes(n.Body)
	case *TypeDecl:
		out["kind"] = "type"
		out["name"] = n.Name
		out["members"] = encodeTypedNames(n.Members)
	case *OperatorChain:
		out["kind"] = "chain"
		out["text"] = Format(n)
		if resolved, err := ResolveChain(n); err == nil {
			out["resolved"] = encodeNode(resolved)
		}
	case *UnaryExpr:
		out["kind"] = "unary"
		out["op"] = n.Op.String()
		out["operand"] = encodeNode(n.Operand)
	case *BinaryExpr:
		out["kind"] = "binary"
		out["op"] = n.Op.String()
		out["left"] = encodeNode(n.Left)
		out["right"] = encodeNode(n.Right)
	}
	return out
}
