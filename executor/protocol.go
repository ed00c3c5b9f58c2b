package executor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Supported code formats.
const (
	FormatPython byte = 1
)

// Response statuses.
const (
	StatusSuccess uint32 = 0
	StatusFailure uint32 = 1
)

// DefaultMaxPayload is the default limit of the request code size.
const DefaultMaxPayload = 10 << 20

// maxOutput limits response sections read by the client.
const maxOutput = 64 << 20

// ErrPayloadTooLarge is returned when the size of the message section exceeds
// the limit.
var ErrPayloadTooLarge = errors.New("payload too large")

// Request is a single code execution request.
type Request struct {
	Format byte
	Code   []byte
}

// Result is a code execution result.
type Result struct {
	Status uint32
	Stdout []byte
	Stderr []byte
	Zip    []byte
}

// Success checks whether the code was executed successfully.
func (r Result) Success() bool {
	return r.Status == StatusSuccess
}

// Hash returns the result commitment: SHA-256 hash of the stdout.
func (r Result) Hash() util.Uint256 {
	return hash.Sha256(r.Stdout)
}

// CommandHash returns the command commitment of the code.
func CommandHash(code []byte) util.Uint256 {
	return hash.Sha256(code)
}

// WriteRequest writes the request into w.
func WriteRequest(w io.Writer, req Request) error {
	var buf bytes.Buffer
	buf.Grow(5 + len(req.Code))

	buf.WriteByte(req.Format)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(req.Code)))
	buf.Write(req.Code)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

// ReadRequest reads the request from r. It returns ErrPayloadTooLarge if the
// code is larger than limit.
func ReadRequest(r io.Reader, limit uint32) (Request, error) {
	var (
		req    Request
		header [5]byte
	)

	if _, err := io.ReadFull(r, header[:]); err != nil {
		return req, fmt.Errorf("read request header: %w", err)
	}

	req.Format = header[0]

	size := binary.BigEndian.Uint32(header[1:])
	if size > limit {
		return req, fmt.Errorf("%w: %d bytes, limit is %d", ErrPayloadTooLarge, size, limit)
	}

	req.Code = make([]byte, size)
	if _, err := io.ReadFull(r, req.Code); err != nil {
		return req, fmt.Errorf("read request code: %w", err)
	}

	return req, nil
}

// WriteResult writes the result into w.
func WriteResult(w io.Writer, res Result) error {
	var buf bytes.Buffer
	buf.Grow(16 + len(res.Stdout) + len(res.Stderr) + len(res.Zip))

	for _, v := range []uint32{res.Status, uint32(len(res.Stdout)), uint32(len(res.Stderr)), uint32(len(res.Zip))} {
		_ = binary.Write(&buf, binary.BigEndian, v)
	}

	buf.Write(res.Stdout)
	buf.Write(res.Stderr)
	buf.Write(res.Zip)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// ReadResult reads the result from r.
func ReadResult(r io.Reader) (Result, error) {
	var (
		res    Result
		header [16]byte
	)

	if _, err := io.ReadFull(r, header[:]); err != nil {
		return res, fmt.Errorf("read result header: %w", err)
	}

	res.Status = binary.BigEndian.Uint32(header[0:])

	sections := []struct {
		name string
		dst  *[]byte
		size uint32
	}{
		{"stdout", &res.Stdout, binary.BigEndian.Uint32(header[4:])},
		{"stderr", &res.Stderr, binary.BigEndian.Uint32(header[8:])},
		{"zip", &res.Zip, binary.BigEndian.Uint32(header[12:])},
	}

	for _, s := range sections {
		if s.size > maxOutput {
			return res, fmt.Errorf("%s: %w: %d bytes", s.name, ErrPayloadTooLarge, s.size)
		}

		*s.dst = make([]byte, s.size)
		if _, err := io.ReadFull(r, *s.dst); err != nil {
			return res, fmt.Errorf("read result %s: %w", s.name, err)
		}
	}

	return res, nil
}
