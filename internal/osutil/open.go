// Package osutil opens files with the desktop's default application.
package osutil

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Runner starts a command
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// OpenCommand returns the opener for goos
func OpenCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Opener opens paths using Run, or the real process runner when nil
type Opener struct {
	GOOS string
	Run  Runner
}

// OpenFile opens path on the current platform
func OpenFile(ctx context.Context, path string) error {
	return Opener{}.Open(ctx, path)
}

// Open launches the platform opener for path
func (o Opener) Open(ctx context.Context, path string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	run := o.Run
	if run == nil {
		run = execRunner
	}

	name, args := OpenCommand(goos, path)
	if err := run(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
