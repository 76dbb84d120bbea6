package postrun

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRunExecutesCommandsInOrder(t *testing.T) {
	temp := t.TempDir()
	marker := filepath.Join(temp, "result.txt")

	commands := []string{
		"echo first > result.txt",
		"echo second >> result.txt",
	}
	if err := Run(commands, temp); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if string(b) != "first\nsecond\n" {
		t.Fatalf("unexpected output: %q", string(b))
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	temp := t.TempDir()

	commands := []string{
		"exit 7",
		"echo late > result.txt",
	}
	err := Run(commands, temp)
	if err == nil {
		t.Fatalf("expected command failure")
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %T: %v", err, err)
	}
	if cmdErr.ExitCode != 7 {
		t.Fatalf("exit code = %d, want 7", cmdErr.ExitCode)
	}
	if _, err := os.Stat(filepath.Join(temp, "result.txt")); !os.IsNotExist(err) {
		t.Fatalf("later command ran after failure, err=%v", err)
	}
}

func TestRunUsesGivenWorkingDirectory(t *testing.T) {
	temp := t.TempDir()

	if err := Run([]string{"pwd > cwd.txt"}, temp); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(temp, "cwd.txt"))
	if err != nil {
		t.Fatalf("read cwd marker: %v", err)
	}
	resolved, err := filepath.EvalSymlinks(temp)
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	got := string(b)
	if got != temp+"\n" && got != resolved+"\n" {
		t.Fatalf("command ran in %q, want %q", got, temp)
	}
}
