//go:build !windows

package doctor

import (
	"os"
	"os/exec"
)

// resetTerminal restores cooked mode after audio backends or a picker left
// the tty raw. Errors are ignored when stdin is not a terminal.
func resetTerminal() {
	cmd := exec.Command("stty", "sane")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}
