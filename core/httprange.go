package core

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// errIgnoreRange means the Range header is malformed or asks for
	// multiple ranges; RFC 7233 permits ignoring it and
	// answer 200 with the full body. Multi-range responses in particular
	// are a deliberate simplification: no static client needs multipart
	// byteranges, and the complexity is not worth carrying.
	errIgnoreRange = errors.New("range ignored")

	// errUnsatisfiableRange means the range is syntactically fine but lies
	// outside the representation. Answered with 416.
	errUnsatisfiableRange = errors.New("range not satisfiable")
)

// byteRange is a resolved byte span within a variant: offset plus length.
type byteRange struct {
	start  int64
	length int64
}

func (br byteRange) end() int64 {
	return br.start + br.length - 1
}

// parseRange resolves a Range header against a representation size.
// Handled forms: "bytes=a-b", "bytes=a-", "bytes=-n".
func parseRange(header string, size int64) (byteRange, error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return byteRange{}, errIgnoreRange
	}
	if strings.Contains(spec, ",") {
		return byteRange{}, errIgnoreRange
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return byteRange{}, errIgnoreRange
	}

	// Suffix form: last n bytes.
	if startStr == "" {
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return byteRange{}, errIgnoreRange
		}
		if n == 0 || size == 0 {
			return byteRange{}, errUnsatisfiableRange
		}
		if n > size {
			n = size
		}
		return byteRange{start: size - n, length: n}, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return byteRange{}, errIgnoreRange
	}

	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return byteRange{}, errIgnoreRange
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start > size-1 {
		return byteRange{}, errUnsatisfiableRange
	}

	return byteRange{start: start, length: end - start + 1}, nil
}
