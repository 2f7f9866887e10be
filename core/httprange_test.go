package core

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		size    int64
		want    byteRange
		wantErr error
	}{
		{"full explicit range", "bytes=0-99", 100, byteRange{0, 100}, nil},
		{"interior range", "bytes=10-19", 100, byteRange{10, 10}, nil},
		{"single byte", "bytes=0-0", 100, byteRange{0, 1}, nil},
		{"open ended", "bytes=50-", 100, byteRange{50, 50}, nil},
		{"end clamped to size", "bytes=90-200", 100, byteRange{90, 10}, nil},
		{"suffix", "bytes=-10", 100, byteRange{90, 10}, nil},
		{"suffix larger than size", "bytes=-500", 100, byteRange{0, 100}, nil},
		{"last byte", "bytes=99-99", 100, byteRange{99, 1}, nil},

		{"start past end of file", "bytes=100-", 100, byteRange{}, errUnsatisfiableRange},
		{"start far past end", "bytes=200-300", 100, byteRange{}, errUnsatisfiableRange},
		{"suffix zero", "bytes=-0", 100, byteRange{}, errUnsatisfiableRange},
		{"suffix on empty file", "bytes=-10", 0, byteRange{}, errUnsatisfiableRange},

		{"wrong unit", "lines=0-10", 100, byteRange{}, errIgnoreRange},
		{"no unit", "0-10", 100, byteRange{}, errIgnoreRange},
		{"multiple ranges", "bytes=0-10,20-30", 100, byteRange{}, errIgnoreRange},
		{"end before start", "bytes=10-5", 100, byteRange{}, errIgnoreRange},
		{"no dash", "bytes=10", 100, byteRange{}, errIgnoreRange},
		{"garbage start", "bytes=abc-10", 100, byteRange{}, errIgnoreRange},
		{"garbage end", "bytes=0-xyz", 100, byteRange{}, errIgnoreRange},
		{"negative start", "bytes=--5-10", 100, byteRange{}, errIgnoreRange},
		{"empty spec", "bytes=", 100, byteRange{}, errIgnoreRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRange(tc.header, tc.size)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("parseRange(%q, %d) error = %v, want %v", tc.header, tc.size, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseRange(%q, %d) = %+v, want %+v", tc.header, tc.size, got, tc.want)
			}
		})
	}
}

func TestByteRangeEnd(t *testing.T) {
	br := byteRange{start: 10, length: 10}
	if got := br.end(); got != 19 {
		t.Errorf("end() = %d, want 19", got)
	}
}
