// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"github.com/nvc-lang/nvc/internal/fs"
	"github.com/nvc-lang/nvc/internal/idl"
)

// EnvRoot names the environment variable that confines the default file
// system to a directory. Absolute targets are resolved inside it.
const EnvRoot = "NVC_ROOT"

// NewDefaultFS returns the local file system rooted at the platform roots.
// Targets are normalized to absolute paths before they are opened so the
// roots are the file system roots rather than search directories.
func NewDefaultFS(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	roots := getDefaultRoots(lookup)
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
