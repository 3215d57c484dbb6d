package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// useColor resolves --color against the config file. "auto" enables colour
// only when the command's output is a terminal.
func (a *app) useColor(cmd *cobra.Command) (bool, error) {
	mode := a.color
	if !cmd.Flags().Changed("color") && a.cfg.Output.Color != "" {
		mode = a.cfg.Output.Color
	}
	switch strings.ToLower(mode) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return writerIsTerminal(cmd.OutOrStdout()), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// writerIsTerminal reports whether w is a file attached to a terminal.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
