// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/fs"
	"github.com/nvc-lang/nvc/internal/idl"
)

func parseSource(t *testing.T, input string, options ParserOptions) (*Module, exc.Reporter, error) {
	t.Helper()
	ctx := context.Background()
	r := exc.NewReporter(nil)
	lf, err := NewLexerNvc(r).Lex(ctx, fs.NewFileString("/test.nv", input, idl.FileKindNvc))
	require.NoError(t, err)
	m, err := NewParserNvc(r, options).Parse(ctx, lf)
	return m, r, err
}

func TestParser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "let int", input: "let x = 5", expected: "let(x, 5)\n"},
		{name: "let float", input: "let f = 3.5", expected: "let(f, 3.50)\n"},
		{name: "let string", input: "let s = 'hi'", expected: "let(s, 'hi')\n"},
		{name: "let empty string", input: "let s = ''", expected: "let(s, '')\n"},
		{name: "precedence", input: "let y = 1 + 2 * 3", expected: "let(y, (1 + (2 * 3)))\n"},
		{name: "left associative", input: "let w = 10 - 4 - 3", expected: "let(w, ((10 - 4) - 3))\n"},
		{name: "power is right associative", input: "let z = 2 ^ 3 ^ 2", expected: "let(z, (2 ^ (3 ^ 2)))\n"},
		{name: "unary binds tightest", input: "let n = -x ^ 2", expected: "let(n, ((-x) ^ 2))\n"},
		{name: "comparison lowest", input: "let c = a + 1 < b * 2", expected: "let(c, ((a + 1) < (b * 2)))\n"},
		{name: "double unary", input: "1 - -2", expected: "(1 - (-2))\n"},
		{name: "not", input: "~x + 1", expected: "((~x) + 1)\n"},
		{name: "string operand", input: "'a' + 'b'", expected: "('a' + 'b')\n"},
		{name: "bare literal", input: "42", expected: "42\n"},
		{name: "newline in comment ends a form", input: "let x = 1 # c\n # 2", expected: "let(x, 1)\n2\n"},
		{
			name:     "several forms",
			input:    "# header #\nlet a = 1\n\n\nlet b = a + 1\n1 + 2\n3",
			expected: "let(a, 1)\nlet(b, (a + 1))\n(1 + 2)\n3\n",
		},
		{
			name:     "function",
			input:    "fun f(a: Int, b: Int) -> Int()",
			expected: "fun f(a: Int, b: Int,) -> Int()\n",
		},
		{name: "unit function", input: "fun g() -> ()", expected: "fun g() -> ()\n"},
		{name: "trailing comma", input: "fun g(a: Int,) -> (1)", expected: "fun g(a: Int,) -> (1)\n"},
		{
			name:     "multiline function",
			input:    "fun h(\n  a: Int,\n  b: Int,\n) -> Int(\n  let x = a + b\n  x * 2\n)\nlet after = 1",
			expected: "fun h(a: Int, b: Int,) -> Int(let(x, (a + b)); (x * 2))\nlet(after, 1)\n",
		},
		{
			name:     "nested function",
			input:    "fun outer() -> (fun inner() -> Int(1))",
			expected: "fun outer() -> (fun inner() -> Int(1))\n",
		},
		{name: "type", input: "type Point(x: Int, y: Int)", expected: "type Point(x: Int, y: Int,)\n"},
		{name: "empty type", input: "type Empty()", expected: "type Empty()\n"},
		{name: "multiline type", input: "type P(\n  x: Int\n)", expected: "type P(x: Int,)\n"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			m, r, err := parseSource(t, testCase.input, DefaultParserOptions())
			require.NoError(t, err)
			require.Empty(t, r.Reported())
			require.Equal(t, "/test.nv", m.Name)
			require.Equal(t, testCase.expected, FormatModule(m))
		})
	}
}

func TestParserErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  string
		strict bool
		code   string
		line   int
		column int
	}{
		{name: "missing colon", input: "fun f(a Int) -> Int()", code: exc.CodeMissingExpectedToken, column: 8},
		{name: "unterminated string", input: "'abc", code: exc.CodeUnterminatedString},
		{name: "lone symbol", input: "x", code: exc.CodeUnexpectedToken},
		{name: "lone operator", input: "+", code: exc.CodeUnexpectedToken},
		{name: "let without name", input: "let = 5", code: exc.CodeMalformedDeclaration, column: 4},
		{name: "let keyword name", input: "let fun = 5", code: exc.CodeMalformedDeclaration, column: 4},
		{name: "let without equals", input: "let x 5", code: exc.CodeMissingExpectedToken, column: 6},
		{name: "let without value", input: "let x =", code: exc.CodeEmptyOperandWindow, column: 7},
		{name: "let value on next line", input: "let x =\n5", code: exc.CodeEmptyOperandWindow, column: 7},
		{name: "let with trailing token", input: "let x = 5 6", code: exc.CodeIncompleteConsumption, column: 10},
		{name: "two literals", input: "1 2", code: exc.CodeIncompleteConsumption, column: 2},
		{name: "dangling operator", input: "1 +", code: exc.CodeMissingExpectedToken, column: 2},
		{name: "binary operator first", input: "* 2", code: exc.CodeUnexpectedToken},
		{name: "keyword operand", input: "x + let", code: exc.CodeUnexpectedToken, column: 4},
		{name: "parenthesis", input: "(1)", code: exc.CodeUnexpectedToken},
		{name: "fun without name", input: "fun", code: exc.CodeMalformedDeclaration, column: 3},
		{name: "fun without arrow", input: "fun f(a: Int) Int()", code: exc.CodeUnexpectedToken, column: 14},
		{name: "unclosed params", input: "fun f(a: Int", code: exc.CodeMissingExpectedToken, column: 12},
		{name: "unclosed body", input: "fun f() -> Int(1", code: exc.CodeMissingExpectedToken, column: 14},
		{name: "bad body", input: "fun f() -> Int(\n  let\n)", code: exc.CodeMalformedDeclaration, line: 1, column: 5},
		{name: "missing separator", input: "type T(x: Int y: Int)", code: exc.CodeUnexpectedToken, column: 14},
		{name: "missing member type", input: "type T(x:)", code: exc.CodeUnexpectedToken, column: 9},
		{name: "type without name", input: "type (x: Int)", code: exc.CodeMalformedDeclaration, column: 5},
		{
			name:   "trailing comma disabled",
			input:  "type T(x: Int,)",
			strict: true,
			code:   exc.CodeUnexpectedToken,
			column: 14,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			options := DefaultParserOptions()
			if testCase.strict {
				options.AllowTrailingComma = false
			}
			m, r, err := parseSource(t, testCase.input, options)
			require.Nil(t, m)
			require.Error(t, err)
			require.True(t, exc.Is(err, testCase.code), err.Error())
			reported := r.Reported()
			require.Len(t, reported, 1)
			require.Equal(t, testCase.line, reported[0].Location().Line)
			require.Equal(t, testCase.column, reported[0].Location().Column)
		})
	}
}

func TestParseRecursiveEaten(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		eaten int
	}{
		{input: "let x = 5", eaten: 4},
		{input: "let x = 5\nlet y = 6", eaten: 4},
		{input: "let x = 1 + 2", eaten: 6},
		{input: "1 + 2 3", eaten: 3},
		{input: "fun f() -> ()\nx", eaten: 7},
		{input: "type T(x: Int)", eaten: 7},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			r := exc.NewReporter(nil)
			stream, err := NewLexerNvc(r).Tokenize("eat.nv", []byte(testCase.input))
			require.NoError(t, err)
			p := &parserNvcTokens{ctx: context.Background(), reporter: r, options: DefaultParserOptions()}
			n, eaten, err := p.parseRecursive(stream.Tokens)
			require.NoError(t, err)
			require.NotNil(t, n)
			require.Equal(t, testCase.eaten, eaten)
		})
	}
}

func TestParseFunDecl(t *testing.T) {
	t.Parallel()

	m, _, err := parseSource(t, "fun f(a: Int, b: Int) -> Int()", DefaultParserOptions())
	require.NoError(t, err)
	require.Len(t, m.Nodes, 1)
	fn, ok := m.Nodes[0].(*FunDecl)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "a", fn.Params[0].Name)
	require.Equal(t, "Int", fn.Params[0].Type)
	require.Equal(t, 6, fn.Params[0].Loc.Column)
	require.Equal(t, "b", fn.Params[1].Name)
	require.Equal(t, "Int", fn.Params[1].Type)
	require.True(t, fn.ReturnType.IsPresent())
	require.Equal(t, "Int", fn.ReturnType.Value())
	require.NotNil(t, fn.Body)
	require.Empty(t, fn.Body)

	m, _, err = parseSource(t, "fun g() -> ()", DefaultParserOptions())
	require.NoError(t, err)
	fn = m.Nodes[0].(*FunDecl)
	require.False(t, fn.ReturnType.IsPresent())
	require.Empty(t, fn.Params)
}

func TestParseLetDeclShape(t *testing.T) {
	t.Parallel()

	m, _, err := parseSource(t, "\nlet total = a * 2", DefaultParserOptions())
	require.NoError(t, err)
	let, ok := m.Nodes[0].(*LetDecl)
	require.True(t, ok)
	require.Equal(t, "total", let.Name)
	require.Equal(t, 1, let.Loc.Line)
	require.Equal(t, 0, let.Loc.Column)

	chain, ok := let.Rhs.(*OperatorChain)
	require.True(t, ok)
	require.Len(t, chain.Elements, 3)
	require.Equal(t, &Symbol{Loc: chain.Elements[0].Location(), Name: "a"}, chain.Elements[0].(ChainOperand).Node)
	require.Equal(t, idl.OperatorMul, chain.Elements[1].(ChainBinary).Op)
	require.Equal(t, int64(2), chain.Elements[2].(ChainOperand).Node.(*IntLiteral).Value)
}
