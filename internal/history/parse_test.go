package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// record joins fields the way git.LogArgs formats them.
func record(fields ...string) string {
	return strings.Join(fields, "\x1f")
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    CommitRecord
		wantErr error
	}{
		{
			name: "normal commit",
			line: record("abc123", "def456", "bob", "alice", "1700000000", "Fix parser"),
			want: CommitRecord{
				Hash: "abc123", Parents: []string{"def456"},
				Committer: "bob", Author: "alice",
				Time:    time.Unix(1700000000, 0).UTC(),
				Subject: "Fix parser",
			},
		},
		{
			name: "root commit",
			line: record("def456", "", "alice", "alice", "1699990000", "Initial"),
			want: CommitRecord{
				Hash: "def456", Parents: []string{},
				Committer: "alice", Author: "alice",
				Time:    time.Unix(1699990000, 0).UTC(),
				Subject: "Initial",
			},
		},
		{
			name: "merge commit",
			line: record("m1", "p1 p2", "c", "a", "1700000001", "Merge branch 'x'"),
			want: CommitRecord{
				Hash: "m1", Parents: []string{"p1", "p2"},
				Committer: "c", Author: "a",
				Time:    time.Unix(1700000001, 0).UTC(),
				Subject: "Merge branch 'x'",
			},
		},
		{
			name: "empty subject",
			line: record("abc", "", "c", "a", "1", ""),
			want: CommitRecord{Hash: "abc", Parents: []string{}, Committer: "c", Author: "a", Time: time.Unix(1, 0).UTC()},
		},
		{name: "too few fields", line: record("abc", "", "c", "a", "1"), wantErr: ErrFieldCount},
		{name: "too many fields", line: record("abc", "", "c", "a", "1", "s", "extra"), wantErr: ErrFieldCount},
		{name: "bad timestamp", line: record("abc", "", "c", "a", "yesterday", "s"), wantErr: ErrTimestamp},
		{name: "empty hash", line: record(" ", "", "c", "a", "1", "s"), wantErr: ErrEmptyHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRecord() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecord() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRecord() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_DropsOnlyMalformedRows(t *testing.T) {
	raw := strings.Join([]string{
		record("c3", "c2", "x", "x", "1700000300", "third"),
		record("bad", "", "x", "x", "1700000200"),
		record("c2", "c1", "x", "x", "1700000200", "second"),
		"",
		record("c1", "", "x", "x", "not-a-time", "first"),
		record("c0", "", "x", "x", "1700000000", "zeroth"),
	}, "\n")

	records, failures := Parse([]byte(raw))

	var hashes []string
	for _, r := range records {
		hashes = append(hashes, r.Hash)
	}
	if diff := cmp.Diff([]string{"c3", "c2", "c0"}, hashes); diff != "" {
		t.Errorf("kept records mismatch (-want +got):\n%s", diff)
	}

	if len(failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(failures))
	}
	if failures[0].Line != 2 || !errors.Is(failures[0], ErrFieldCount) {
		t.Errorf("failure 0 = %v, want line 2 field count", failures[0])
	}
	if failures[1].Line != 5 || !errors.Is(failures[1], ErrTimestamp) {
		t.Errorf("failure 1 = %v, want line 5 timestamp", failures[1])
	}
}

func TestParse_OversizedRecordIsSkipped(t *testing.T) {
	raw := strings.Join([]string{
		record("aaa", "", "x", "x", "1700000300", "before"),
		record("bbb", "", "x", "x", "1700000200", strings.Repeat("s", 2<<20)),
		record("ccc", "", "x", "x", "1700000100", "after"),
	}, "\n")

	records, failures := Parse([]byte(raw))

	var hashes []string
	for _, r := range records {
		hashes = append(hashes, r.Hash)
	}
	if diff := cmp.Diff([]string{"aaa", "ccc"}, hashes); diff != "" {
		t.Errorf("kept records mismatch (-want +got):\n%s", diff)
	}
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	if failures[0].Line != 2 || !errors.Is(failures[0], ErrRecordTooLong) {
		t.Errorf("failure = %v, want line 2 record too long", failures[0])
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := []byte(record("b", "a", "x", "y", "2", "second") + "\r\n" + record("a", "", "x", "x", "1", "first") + "\n")

	first, _ := Parse(raw)
	second, _ := Parse(raw)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parsing the same input twice differs (-first +second):\n%s", diff)
	}
	if len(first) != 2 || first[0].Subject != "second" {
		t.Errorf("Parse() = %+v, want 2 records with CRLF stripped", first)
	}
}

func TestRecords_StopsWhenConsumerStops(t *testing.T) {
	raw := []byte(record("b", "a", "x", "x", "2", "second") + "\n" + record("a", "", "x", "x", "1", "first"))

	var seen []string
	for r := range Records(raw, nil) {
		seen = append(seen, r.Hash)
		break
	}
	if diff := cmp.Diff([]string{"b"}, seen); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFailure_Error(t *testing.T) {
	f := &ParseFailure{Line: 3, Err: ErrTimestamp}
	if got, want := f.Error(), "log record 3: malformed timestamp"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
