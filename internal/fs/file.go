// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"strings"

	"github.com/nvc-lang/nvc/internal/idl"
)

// NewFileString wraps source text held in memory, such as a line typed at
// the REPL, as an idl.File.
func NewFileString(path string, content string, kind idl.FileKind) idl.File {
	return NewFileFunc(path, kind, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	})
}

// NewFileFunc wraps a source whose content is produced by open. Every call
// to Body calls open again so open must return a fresh handle each time.
func NewFileFunc(path string, kind idl.FileKind, open func() (io.ReadCloser, error)) idl.File {
	return &sourceFile{
		path: path,
		kind: kind,
		open: open,
	}
}

type sourceFile struct {
	path string
	kind idl.FileKind
	open func() (io.ReadCloser, error)
}

func (self *sourceFile) Path(ctx context.Context) string {
	return self.path
}

func (self *sourceFile) Kind(ctx context.Context) idl.FileKind {
	return self.kind
}

func (self *sourceFile) Body(ctx context.Context) (idl.FileBody, error) {
	rc, err := self.open()
	if err != nil {
		return nil, fsErr(self.path, err)
	}
	return newChunkBody(self.path, rc), nil
}
