// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

const (
	fileExt     = ".nv"
	fileLongExt = ".nvc"
)

var knownExts = map[string]idl.FileKind{
	fileExt:     idl.FileKindNvc,
	fileLongExt: idl.FileKindNvc,
}

// KindOf returns the file kind implied by the extension of path.
func KindOf(path string) idl.FileKind {
	return knownExts[filepath.Ext(path)]
}

var _ idl.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations. Open
// returns the result of the first one that succeeds.
type FileSystemMulti []idl.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]idl.File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(idl.Location{Name: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory replaces os.DirFS as the source of the fs.FS that
// targets are read from. The factory is called with the absolute root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

type fileSystemLocal struct {
	root      string
	fsFactory func(string) fs.FS
}

// NewFileSystemLocal creates a new FileSystem that uses the local file system.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (idl.FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(idl.Location{Name: root}, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]idl.File, error) {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	path = filepath.Join("/", path)

	dir := r.fsFactory(r.root)
	p := filepath.Clean(path)
	if p == "" || p == "/" {
		// If the entire path was a root then set to '.' to satisfy the
		// fs.ValidPath method which only allows, and requires, '.' when
		// it is expressing the root path.
		p = "."
	}
	p = strings.TrimPrefix(p, "/")
	// Trim the first slash character if present because fs.FS requires an
	// un-rooted path.
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	defer d.Close()
	stat, _ := d.Stat()
	if !stat.IsDir() {
		// A file named explicitly is treated as nvc source whatever its
		// extension. Extensions only filter directory listings.
		kind := KindOf(p)
		if kind == idl.FileKindNone {
			kind = idl.FileKindNvc
		}
		f := NewFileFunc(path, kind, func() (io.ReadCloser, error) {
			return dir.Open(p)
		})
		return []idl.File{f}, nil
	}
	dfs, err := d.(fs.ReadDirFile).ReadDir(0)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]idl.File, 0, len(dfs))
	for _, df := range dfs {
		if df.IsDir() {
			continue
		}
		if KindOf(df.Name()) == idl.FileKindNone {
			continue
		}
		dfPath := filepath.Join(p, df.Name())
		f := NewFileFunc(filepath.Join("/", dfPath), KindOf(dfPath), func() (io.ReadCloser, error) {
			return dir.Open(dfPath)
		})
		files = append(files, f)
	}
	if len(files) < 1 {
		return nil, exc.New(idl.Location{Name: path}, exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it is empty", path))
	}
	return files, nil
}

func fsErr(path string, err error) error {
	if e, ok := err.(exc.Exception); ok {
		return e
	}
	if errT, ok := err.(*fs.PathError); ok {
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(idl.Location{Name: errT.Path}, exc.CodeFileNotFound, errT)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(idl.Location{Name: errT.Path}, exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(idl.Location{Name: errT.Path}, errT)
		}
	}
	return exc.WrapUnknown(idl.Location{Name: path}, err)
}
