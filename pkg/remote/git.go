package remote

import (
	"fmt"
	"os/exec"
	"strings"
)

// OriginURL returns the URL of the origin remote of the git repository at
// dir.
func OriginURL(dir string) (string, error) {
	out, err := gitOutput(dir, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("read git remote: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DescribeTag returns the most recent tag reachable from HEAD in dir. With
// fetch set, tags are fetched from the remote first so shallow clones see
// them.
func DescribeTag(dir string, fetch bool) (string, error) {
	if fetch {
		if _, err := gitOutput(dir, "fetch", "--tags", "--depth", "1"); err != nil {
			return "", fmt.Errorf("fetch git tags: %w", err)
		}
	}
	out, err := gitOutput(dir, "describe", "--tags")
	if err != nil {
		return "", fmt.Errorf("describe git tag: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
