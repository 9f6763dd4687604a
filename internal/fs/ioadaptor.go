// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

const readChunkLen = 4096

// chunkBody reads source text in bounded chunks. The end of input is
// signalled with a CodeEOF exception, possibly alongside the final bytes.
type chunkBody struct {
	name string
	rc   io.ReadCloser
	buf  []byte
}

func newChunkBody(name string, rc io.ReadCloser) *chunkBody {
	return &chunkBody{name: name, rc: rc}
}

func (self *chunkBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cap(self.buf) < int(size) {
		self.buf = make([]byte, size)
	}
	count, err := self.rc.Read(self.buf[:size])
	switch {
	case errors.Is(err, io.EOF):
		return self.buf[:count], exc.Wrap(idl.Location{Name: self.name}, exc.CodeEOF, err)
	case err != nil:
		return nil, fsErr(self.name, err)
	}
	return self.buf[:count], nil
}

func (self *chunkBody) Close(ctx context.Context) error {
	return self.rc.Close()
}

// drain reads body to its end and returns a copy of everything read.
func drain(ctx context.Context, body idl.FileBody) ([]byte, error) {
	var out []byte
	for {
		chunk, err := body.Read(ctx, readChunkLen)
		out = append(out, chunk...)
		if exc.Is(err, exc.CodeEOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadAll opens the body of f, drains it and closes it.
func ReadAll(ctx context.Context, f idl.File) ([]byte, error) {
	body, err := f.Body(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close(ctx)
	return drain(ctx, body)
}
