package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// File is a Log stored as JSON lines in a file. Each line is a Record.
// Records are written by a single write call per Append, so an interrupted
// append leaves at most one incomplete trailing line which is reported by
// Records.
type File struct {
	path string

	mtx  sync.Mutex
	next uint64
	prev util.Uint256
}

// OpenFile opens or creates the log file at the given path. It reads the last
// record to resume the chain.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create event log dir: %w", err)
	}

	f := &File{path: path}

	records, err := f.readRecords()
	if err != nil {
		return nil, err
	}

	if n := len(records); n > 0 {
		f.next = records[n-1].Index + 1
		f.prev = records[n-1].Hash
	}

	return f, nil
}

// Path returns the event log file path.
func (f *File) Path() string {
	return f.path
}

// Append implements Log.
func (f *File) Append(events ...state.NotificationEvent) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	recs, err := chainRecords(f.next, f.prev, events)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for i := range recs {
		data, err := json.Marshal(&recs[i])
		if err != nil {
			return fmt.Errorf("encode record #%d: %w", recs[i].Index, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync event log: %w", err)
	}

	if n := len(recs); n > 0 {
		f.next = recs[n-1].Index + 1
		f.prev = recs[n-1].Hash
	}

	return nil
}

// Records implements Log.
func (f *File) Records() ([]Record, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.readRecords()
}

func (f *File) readRecords() ([]Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	var (
		res  []Record
		line int
		r    = bufio.NewReader(file)
	)

	for {
		data, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(data)) > 0 {
			line++

			var rec Record
			if err := json.Unmarshal(data, &rec); err != nil {
				return nil, fmt.Errorf("line %d: invalid record: %w", line, err)
			}

			res = append(res, rec)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return nil, fmt.Errorf("read event log: %w", err)
		}
	}
}
