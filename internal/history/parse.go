package history

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/gorewood/gitfeed/internal/git"
)

// maxRecordBytes bounds a single log line.
const maxRecordBytes = 1 << 20

var (
	// ErrFieldCount means a record did not have git.LogFieldCount fields.
	ErrFieldCount = errors.New("wrong field count")
	// ErrTimestamp means the commit time was not a Unix timestamp.
	ErrTimestamp = errors.New("malformed timestamp")
	// ErrEmptyHash means the hash field was blank.
	ErrEmptyHash = errors.New("empty hash")
	// ErrRecordTooLong means a line exceeded maxRecordBytes.
	ErrRecordTooLong = errors.New("record too long")
)

// ParseFailure describes one log record that was skipped.
type ParseFailure struct {
	Line int
	Err  error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("log record %d: %v", e.Line, e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// ParseRecord parses one line of git.LogArgs output.
func ParseRecord(line string) (CommitRecord, error) {
	fields := strings.Split(line, git.FieldSeparator)
	if len(fields) != git.LogFieldCount {
		return CommitRecord{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), git.LogFieldCount)
	}

	hash := strings.TrimSpace(fields[0])
	if hash == "" {
		return CommitRecord{}, ErrEmptyHash
	}

	timestamp, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return CommitRecord{}, fmt.Errorf("%w: %q", ErrTimestamp, fields[4])
	}

	return CommitRecord{
		Hash:      hash,
		Parents:   strings.Fields(fields[1]),
		Committer: fields[2],
		Author:    fields[3],
		Time:      time.Unix(timestamp, 0).UTC(),
		Subject:   fields[5],
	}, nil
}

// Records yields the commit records in raw in log order. Records that fail
// to parse are reported to onSkip, which may be nil, and dropped; parsing
// always continues with the next line.
func Records(raw []byte, onSkip func(*ParseFailure)) iter.Seq[CommitRecord] {
	return func(yield func(CommitRecord) bool) {
		skip := func(line int, err error) {
			if onSkip != nil {
				onSkip(&ParseFailure{Line: line, Err: err})
			}
		}

		rest := raw
		for line := 1; len(rest) > 0; line++ {
			var text []byte
			if i := bytes.IndexByte(rest, '\n'); i >= 0 {
				text, rest = rest[:i], rest[i+1:]
			} else {
				text, rest = rest, nil
			}
			if len(text) > maxRecordBytes {
				skip(line, fmt.Errorf("%w: %d bytes", ErrRecordTooLong, len(text)))
				continue
			}
			s := strings.TrimRight(string(text), "\r")
			if strings.TrimSpace(s) == "" {
				continue
			}
			record, err := ParseRecord(s)
			if err != nil {
				skip(line, err)
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

// Parse collects every record in raw along with the failures it skipped.
func Parse(raw []byte) ([]CommitRecord, []*ParseFailure) {
	var (
		records  []CommitRecord
		failures []*ParseFailure
	)
	for record := range Records(raw, func(f *ParseFailure) { failures = append(failures, f) }) {
		records = append(records, record)
	}
	return records, failures
}
