// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package compiler

// getDefaultRoots returns the directories the default file system is rooted
// at. NVC_ROOT, when set, replaces the file system root.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if root, ok := lookup(EnvRoot); ok && root != "" {
		return []string{root}
	}
	return []string{"/"}
}
