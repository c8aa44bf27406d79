// Package gitsync commits and pushes the catalog files.
package gitsync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes a command in dir and returns its combined output
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// CommandError carries the output of a failed git command
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s failed: %v: %s", strings.Join(e.Args, " "), e.Err, strings.TrimSpace(e.Output))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Syncer pushes files to origin
type Syncer struct {
	Runner Runner
	Dir    string
	Remote string
	Branch string
}

// New returns a Syncer for the repository in dir pushing to origin main
func New(dir string) *Syncer {
	return &Syncer{Runner: ExecRunner{}, Dir: dir, Remote: "origin", Branch: "main"}
}

// Push runs git add, commit and push; the first failure aborts
func (s *Syncer) Push(ctx context.Context, message string, paths ...string) error {
	steps := [][]string{
		append([]string{"add"}, paths...),
		{"commit", "-m", message},
		{"push", s.Remote, s.Branch},
	}

	for _, args := range steps {
		slog.Debug("Running git", "args", args)
		out, err := s.Runner.Run(ctx, s.Dir, "git", args...)
		if err != nil {
			return &CommandError{Args: args, Output: string(out), Err: err}
		}
	}

	slog.Info("Pushed catalog", "remote", s.Remote, "branch", s.Branch, "files", paths)
	return nil
}
