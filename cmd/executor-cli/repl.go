package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nspcc-dev/trustflow-contract/executor"
)

const (
	colorRed   = "\033[91m"
	colorReset = "\033[0m"
	clearTerm  = "\033[H\033[2J"

	multilineEnd = ".end"
)

const helpText = `Commands:
  .help          Show this help message
  .exit, .quit   Exit the REPL
  .clear         Clear the screen
  .file <path>   Execute Python code from the file
  .multiline     Enter multiline mode, finish with .end or Ctrl+D

Any other input is executed as a single line of Python code.
`

type repl struct {
	client *executor.Client
	in     *bufio.Scanner
	out    io.Writer

	// Prompt is printed only in interactive mode.
	interactive bool
	// Stderr of the code is highlighted.
	color bool
}

func newREPL(c *executor.Client, in io.Reader, out io.Writer) *repl {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), executor.DefaultMaxPayload)

	return &repl{
		client: c,
		in:     s,
		out:    out,
	}
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Executor daemon REPL client")
	fmt.Fprintln(r.out, "Type .help for help, .exit to quit")

	for {
		if r.interactive {
			fmt.Fprint(r.out, ">>> ")
		}

		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ".") {
			r.execute(ctx, []byte(line))
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case ".exit", ".quit":
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		case ".help":
			fmt.Fprint(r.out, helpText)
		case ".clear":
			fmt.Fprint(r.out, clearTerm)
		case ".file":
			arg = strings.TrimSpace(arg)
			if arg == "" {
				fmt.Fprintln(r.out, "Usage: .file <path>")
				continue
			}
			r.executeFile(ctx, arg)
		case ".multiline":
			code := r.readMultiline()
			if strings.TrimSpace(code) != "" {
				r.execute(ctx, []byte(code))
			}
		default:
			fmt.Fprintf(r.out, "Unknown command: %s\n", cmd)
			fmt.Fprintln(r.out, "Type .help for available commands")
		}
	}
}

func (r *repl) readMultiline() string {
	fmt.Fprintf(r.out, "Entering multiline mode, finish with %s or Ctrl+D\n", multilineEnd)

	var lines []string
	for r.in.Scan() {
		line := r.in.Text()
		if strings.TrimSpace(line) == multilineEnd {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (r *repl) executeFile(ctx context.Context, path string) bool {
	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.out, "Error reading file: %v\n", err)
		return false
	}

	fmt.Fprintf(r.out, "Executing code from %s...\n", path)
	return r.execute(ctx, code)
}

// execute sends the code to the daemon and prints the result. It returns
// true if the code is executed successfully.
func (r *repl) execute(ctx context.Context, code []byte) bool {
	res, err := r.client.ExecutePython(ctx, code)
	if err != nil {
		fmt.Fprintf(r.out, "✗ No response from daemon: %v\n", err)
		return false
	}

	r.out.Write(res.Stdout)

	if len(res.Stderr) > 0 {
		if r.color {
			fmt.Fprint(r.out, colorRed)
		}
		r.out.Write(res.Stderr)
		if r.color {
			fmt.Fprint(r.out, colorReset)
		}
	}

	if !res.Success() {
		fmt.Fprintln(r.out, "✗ Failed")
		return false
	}

	fmt.Fprintln(r.out, "✓ Success")
	return true
}
