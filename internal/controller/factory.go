package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewUI picks the interactive TUI when stdout is a terminal and the
// plain printer otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether output is attached to a character device.
func IsTTY(output io.Writer) bool {
	f, ok := output.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
