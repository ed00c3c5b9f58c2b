package executor

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

func TestRequestFraming(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteRequest(&buf, Request{Format: FormatPython, Code: []byte("print(42)")}))
	require.Equal(t, append([]byte{1, 0, 0, 0, 9}, "print(42)"...), buf.Bytes())

	req, err := ReadRequest(&buf, DefaultMaxPayload)
	require.NoError(t, err)
	require.Equal(t, FormatPython, req.Format)
	require.Equal(t, []byte("print(42)"), req.Code)

	t.Run("too large", func(t *testing.T) {
		var header [5]byte
		header[0] = FormatPython
		binary.BigEndian.PutUint32(header[1:], DefaultMaxPayload+1)

		_, err := ReadRequest(bytes.NewReader(header[:]), DefaultMaxPayload)
		require.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadRequest(bytes.NewReader([]byte{1, 0, 0, 0, 9, 'p'}), DefaultMaxPayload)
		require.Error(t, err)
	})
}

func TestResultFraming(t *testing.T) {
	var buf bytes.Buffer

	res := Result{Status: StatusFailure, Stdout: []byte("out"), Stderr: []byte("err")}
	require.NoError(t, WriteResult(&buf, res))
	require.Equal(t, []byte{
		0, 0, 0, 1,
		0, 0, 0, 3,
		0, 0, 0, 3,
		0, 0, 0, 0,
		'o', 'u', 't', 'e', 'r', 'r',
	}, buf.Bytes())

	actual, err := ReadResult(&buf)
	require.NoError(t, err)
	require.False(t, actual.Success())
	require.Equal(t, res.Stdout, actual.Stdout)
	require.Equal(t, res.Stderr, actual.Stderr)
	require.Empty(t, actual.Zip)

	require.Equal(t, hash.Sha256([]byte("out")), actual.Hash())
}
