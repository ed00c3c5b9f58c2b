package executor

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrExecutionFailed is returned by Client.ExecuteAndSubmit when the daemon
// fails to run the code.
var ErrExecutionFailed = errors.New("code execution failed")

// Client sends code to the executor daemon.
type Client struct {
	path string
}

// NewClient returns Client of the daemon listening on the unix socket at the
// given path.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Execute runs the code of the given format. Context deadline applies to the
// whole exchange.
func (c *Client) Execute(ctx context.Context, format byte, code []byte) (Result, error) {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return Result{}, fmt.Errorf("connect executor daemon: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Result{}, fmt.Errorf("set deadline: %w", err)
		}
	}

	if err := WriteRequest(conn, Request{Format: format, Code: code}); err != nil {
		return Result{}, err
	}

	return ReadResult(conn)
}

// ExecutePython runs the Python code.
func (c *Client) ExecutePython(ctx context.Context, code []byte) (Result, error) {
	return c.Execute(ctx, FormatPython, code)
}

// ExecuteAndSubmit runs the Python code committed by commandHash and passes
// the result hash to submit, e.g. Request contract AssignResult or
// AssignAuditResult. Failed runs are not submitted.
func (c *Client) ExecuteAndSubmit(ctx context.Context, code []byte, commandHash util.Uint256, submit func(util.Uint256) error) (Result, error) {
	if h := CommandHash(code); !h.Equals(commandHash) {
		return Result{}, fmt.Errorf("code hash %s doesn't match the command hash %s", h.StringLE(), commandHash.StringLE())
	}

	res, err := c.ExecutePython(ctx, code)
	if err != nil {
		return res, err
	}

	if !res.Success() {
		return res, fmt.Errorf("%w: %s", ErrExecutionFailed, res.Stderr)
	}

	if err := submit(res.Hash()); err != nil {
		return res, fmt.Errorf("submit result: %w", err)
	}

	return res, nil
}
