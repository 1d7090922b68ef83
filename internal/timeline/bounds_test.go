package timeline

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 1, 17, 15, 30, 0, 0, time.UTC)

func TestParseStart(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{value: "", wantNil: true},
		{value: "24h", want: testNow.Add(-24 * time.Hour)},
		{value: "7d", want: testNow.AddDate(0, 0, -7)},
		{value: "2w", want: testNow.AddDate(0, 0, -14)},
		{value: "1m", want: testNow.AddDate(0, -1, 0)},
		{value: "2026-01-10", want: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		{value: "2026-01-10T08:00:00Z", want: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)},
		{value: "@1700000000", want: time.Unix(1700000000, 0)},
		{value: "0d", wantErr: true},
		{value: "3y", wantErr: true},
		{value: "@soon", wantErr: true},
		{value: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseStart(tt.value, testNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStart(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseStart(%q) = %v, want nil", tt.value, got)
				}
				return
			}
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("ParseStart(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseStop_DateCoversWholeDay(t *testing.T) {
	got, err := ParseStop("2026-01-10", testNow)
	if err != nil {
		t.Fatalf("ParseStop() error = %v", err)
	}
	want := time.Date(2026, 1, 10, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseStop() = %v, want %v", got, want)
	}

	got, err = ParseStop("2h", testNow)
	if err != nil {
		t.Fatalf("ParseStop() error = %v", err)
	}
	if !got.Equal(testNow.Add(-2 * time.Hour)) {
		t.Errorf("ParseStop(2h) = %v", got)
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("7d", "2026-01-17", []string{CategoryChangeset}, testNow)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if q.Start == nil || q.Stop == nil || !q.Wants(CategoryChangeset) {
		t.Errorf("ParseQuery() = %+v", q)
	}

	if _, err := ParseQuery("2026-01-10", "2026-01-09", nil, testNow); err == nil {
		t.Error("stop before start should fail")
	}
	if _, err := ParseQuery("", "later", nil, testNow); err == nil {
		t.Error("invalid stop should fail")
	}

	q, err = ParseQuery("", "", nil, testNow)
	if err != nil || q.Start != nil || q.Stop != nil || q.Filters != nil {
		t.Errorf("ParseQuery() of empty bounds = %+v, %v", q, err)
	}
}
