package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner runs the code of a particular format.
type Runner interface {
	// Run runs the code and returns its output. Non-nil error means that the
	// code failed, output is still returned.
	Run(ctx context.Context, code []byte) (stdout, stderr []byte, err error)
}

// ScriptRunner runs the code by passing the path of a temporary file with the
// code to the program, e.g. python interpreter or a sandboxing wrapper.
type ScriptRunner struct {
	// Program to run.
	Path string
	// Arguments preceding the code file path.
	Args []string
}

// Run implements Runner.
func (s ScriptRunner) Run(ctx context.Context, code []byte) ([]byte, []byte, error) {
	f, err := os.CreateTemp("", "executor_*")
	if err != nil {
		return nil, nil, fmt.Errorf("create code file: %w", err)
	}
	defer os.Remove(f.Name())

	_, err = f.Write(code)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, nil, fmt.Errorf("write code file: %w", err)
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, s.Path, append(append([]string(nil), s.Args...), f.Name())...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		err = fmt.Errorf("run %s: %w", s.Path, err)
	}

	return stdout.Bytes(), stderr.Bytes(), err
}

// RunnerFunc is a function implementing Runner.
type RunnerFunc func(ctx context.Context, code []byte) ([]byte, []byte, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, code []byte) ([]byte, []byte, error) {
	return f(ctx, code)
}
