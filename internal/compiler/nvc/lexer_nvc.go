// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package nvc

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/fs"
	"github.com/nvc-lang/nvc/internal/idl"
)

// LexerNvc implements a tokenizer for nvc source text.
type LexerNvc struct {
	reporter exc.Reporter
}

func NewLexerNvc(reporter exc.Reporter) *LexerNvc {
	return &LexerNvc{reporter: reporter}
}

func (self *LexerNvc) Lex(ctx context.Context, f idl.File) (idl.LexerFile, error) {
	return &lexerFileNvc{
		File:  f,
		lexer: self,
	}, nil
}

type lexerFileNvc struct {
	idl.File
	lexer *LexerNvc
}

func (self *lexerFileNvc) Tokens(ctx context.Context) (*idl.TokenStream, error) {
	path := self.File.Path(ctx)
	src, err := fs.ReadAll(ctx, self.File)
	if err != nil {
		e, ok := err.(exc.Exception)
		if !ok {
			e = exc.WrapUnknown(idl.Location{Name: path}, err)
		}
		_ = self.lexer.reporter.Report(e)
		return nil, e
	}
	return self.lexer.Tokenize(path, src)
}

// Tokenize converts src into a complete token stream. The first failure is
// reported and returned and no stream is produced.
func (self *LexerNvc) Tokenize(name string, src []byte) (*idl.TokenStream, error) {
	if end := bytes.IndexByte(src, 0); end >= 0 {
		src = src[:end]
	}
	s := &lexerNvcState{
		name:     name,
		src:      src,
		reporter: self.reporter,
		tokens:   make([]idl.Token, 0, len(src)/4+1),
	}
	if err := s.run(); err != nil {
		return nil, err
	}
	return &idl.TokenStream{
		Name:   name,
		Source: src,
		Tokens: slices.Clip(s.tokens),
	}, nil
}

type lexerNvcState struct {
	name      string
	src       []byte
	reporter  exc.Reporter
	pos       int
	line      int
	lineStart int
	inComment bool
	inString  bool
	strOpen   idl.Location
	tokens    []idl.Token
}

func (self *lexerNvcState) run() error {
	for self.pos < len(self.src) {
		c := self.src[self.pos]
		if c == '\n' {
			if self.inString {
				return self.fail(self.loc(self.pos), exc.CodeMultilineString, "Multiline strings are not supported")
			}
			if n := len(self.tokens); n > 0 && self.tokens[n-1].Type != idl.TokenTypeNewline {
				self.emit(idl.Token{Type: idl.TokenTypeNewline, Loc: self.loc(self.pos)})
			}
			self.pos = self.pos + 1
			self.line = self.line + 1
			self.lineStart = self.pos
			continue
		}
		switch {
		case c == '#' && !self.inString:
			self.inComment = !self.inComment
			self.pos = self.pos + 1
		case c == '\'' && !self.inComment:
			if err := self.quote(); err != nil {
				return err
			}
		case self.inComment || self.inString:
			self.pos = self.pos + 1
		case isSpace(c):
			self.pos = self.pos + 1
		case isWord(c):
			self.readSymbol()
		case isDigit(c):
			if err := self.readNumber(); err != nil {
				return err
			}
		default:
			if err := self.readOperator(); err != nil {
				return err
			}
		}
	}
	if self.inString {
		return self.fail(self.strOpen, exc.CodeUnterminatedString, "Unterminated string")
	}
	eof := idl.Token{Type: idl.TokenTypeEOF, Loc: self.loc(self.pos)}
	if n := len(self.tokens); n > 0 && self.tokens[n-1].Type == idl.TokenTypeNewline {
		self.tokens[n-1] = eof
	} else {
		self.emit(eof)
	}
	return nil
}

func (self *lexerNvcState) loc(offset int) idl.Location {
	return idl.Location{
		Name:      self.name,
		Line:      self.line,
		Column:    offset - self.lineStart,
		LineStart: self.lineStart,
		Source:    self.src,
	}
}

func (self *lexerNvcState) emit(t idl.Token) {
	self.tokens = append(self.tokens, t)
}

func (self *lexerNvcState) fail(loc idl.Location, code string, message string) error {
	self.tokens = nil
	e := exc.New(loc, code, message)
	_ = self.reporter.Report(e)
	return e
}

// quote opens a string or closes the one in progress. On close the text is
// recovered by scanning back along the current line for the opening quote.
func (self *lexerNvcState) quote() error {
	if !self.inString {
		self.inString = true
		self.strOpen = self.loc(self.pos)
		self.pos = self.pos + 1
		return nil
	}
	open := bytes.LastIndexByte(self.src[self.lineStart:self.pos], '\'')
	if open < 0 {
		return self.fail(self.loc(self.pos), exc.CodeUnterminatedString, "Unterminated string")
	}
	begin := self.lineStart + open
	self.emit(idl.Token{
		Type:  idl.TokenTypeString,
		Loc:   self.loc(begin),
		Value: string(self.src[begin+1 : self.pos]),
	})
	self.inString = false
	self.pos = self.pos + 1
	return nil
}

func (self *lexerNvcState) readSymbol() {
	start := self.pos
	for self.pos < len(self.src) && isWord(self.src[self.pos]) {
		self.pos = self.pos + 1
	}
	self.emit(idl.Token{
		Type:  idl.TokenTypeSymbol,
		Loc:   self.loc(start),
		Value: string(self.src[start:self.pos]),
	})
}

func (self *lexerNvcState) readNumber() error {
	start := self.pos
	self.skipDigits()
	if self.pos+1 < len(self.src) && self.src[self.pos] == '.' && isDigit(self.src[self.pos+1]) {
		self.pos = self.pos + 1
		self.skipDigits()
	}
	text := string(self.src[start:self.pos])
	loc := self.loc(start)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return self.fail(loc, exc.CodeInvalidNumber, fmt.Sprintf("Invalid number '%s'", text))
	}
	if bytes.IndexByte(self.src[start:self.pos], '.') < 0 {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return self.fail(loc, exc.CodeInvalidNumber, fmt.Sprintf("Integer '%s' is out of range", text))
		}
		self.emit(idl.Token{Type: idl.TokenTypeInteger, Loc: loc, Int: i})
		return nil
	}
	self.emit(idl.Token{Type: idl.TokenTypeFloat, Loc: loc, Float: f})
	return nil
}

func (self *lexerNvcState) skipDigits() {
	for self.pos < len(self.src) && isDigit(self.src[self.pos]) {
		self.pos = self.pos + 1
	}
}

// readOperator applies longest match over at most two operator bytes.
func (self *lexerNvcState) readOperator() error {
	start := self.pos
	end := start
	for end < len(self.src) && end-start < 2 && isOperator(self.src[end]) {
		end = end + 1
	}
	run := string(self.src[start:end])
	if len(run) == 2 {
		if op := idl.LookupOperator(run); op != idl.OperatorUnknown {
			self.emit(idl.Token{Type: idl.TokenTypeOperator, Loc: self.loc(start), Op: op})
			self.pos = end
			return nil
		}
	}
	if op := idl.LookupOperator(run[:1]); op != idl.OperatorUnknown {
		self.emit(idl.Token{Type: idl.TokenTypeOperator, Loc: self.loc(start), Op: op})
		self.pos = start + 1
		return nil
	}
	return self.fail(self.loc(start), exc.CodeUnknownOperator, fmt.Sprintf("Unknown operator '%s'", run))
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func isWord(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperator(c byte) bool {
	return !isSpace(c) && !isWord(c) && !isDigit(c) && c != '\n' && c != '#' && c != '\''
}
