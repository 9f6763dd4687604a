// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"os"

	"github.com/peterh/liner"
)

// Terminal is a line editor with history backed by a file.
type Terminal struct {
	state       *liner.State
	historyPath string
}

// OpenTerminal puts the terminal in raw mode and loads history from
// historyPath when it exists. Close must be called to restore the terminal.
func OpenTerminal(historyPath string) *Terminal {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &Terminal{state: state, historyPath: historyPath}
}

func (self *Terminal) Prompt(prompt string) (string, error) {
	return self.state.Prompt(prompt)
}

func (self *Terminal) AppendHistory(item string) {
	self.state.AppendHistory(item)
}

// Close saves history and restores the terminal.
func (self *Terminal) Close() error {
	if self.historyPath != "" {
		if f, err := os.Create(self.historyPath); err == nil {
			_, _ = self.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return self.state.Close()
}
