// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package compiler

import (
	"path/filepath"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if root, ok := lookup(EnvRoot); ok && root != "" {
		return []string{root}
	}
	systemdrive, ok := lookup("SystemDrive")
	if !ok || systemdrive == "" {
		systemdrive = "C:"
	}
	return []string{filepath.Join(systemdrive, `\`)}
}
