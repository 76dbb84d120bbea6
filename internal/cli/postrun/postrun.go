package postrun

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// CommandError reports a post-download command that failed. ExitCode holds
// the command's own exit status, or -1 when it never ran or died on a
// signal.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("post-download command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes commands in order inside dir, stopping at the first failure.
// Stdout, stderr and stdin pass through to the caller's terminal.
func Run(commands []string, dir string) error {
	for _, cmdLine := range commands {
		cmd := exec.Command("bash", "-lc", cmdLine)
		cmd.Dir = dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		cmd.Env = os.Environ()
		if err := cmd.Run(); err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return &CommandError{Command: cmdLine, ExitCode: exitCode, Err: err}
		}
	}
	return nil
}
