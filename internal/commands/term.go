package commands

import (
	"os"

	"golang.org/x/term"
)

// interactive reports whether both stdin and stdout are terminals, i.e.
// whether prompting the user is possible.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
