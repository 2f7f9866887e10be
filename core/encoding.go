package core

import (
	"strconv"
	"strings"
)

// encodingPreference is the tie-break order when several encodings are both
// acceptable to the client and present in the index. Kept as an ordered list
// so the decision is auditable and testable in isolation.
var encodingPreference = []string{EncodingBrotli, EncodingGzip}

// acceptedEncodings parses an Accept-Encoding header into a token → qvalue
// map. Tokens are lowercased; a missing q defaults to 1. Malformed q-values
// make the token unacceptable rather than failing the request.
func acceptedEncodings(header string) map[string]float64 {
	accepted := make(map[string]float64)
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		token := part
		q := 1.0
		if i := strings.IndexByte(part, ';'); i >= 0 {
			token = strings.TrimSpace(part[:i])
			params := strings.TrimSpace(part[i+1:])
			if strings.HasPrefix(params, "q=") {
				parsed, err := strconv.ParseFloat(strings.TrimSpace(params[2:]), 64)
				if err != nil {
					q = 0
				} else {
					q = parsed
				}
			}
		}

		token = strings.ToLower(token)
		if token == "x-gzip" {
			token = EncodingGzip
		}
		accepted[token] = q
	}
	return accepted
}

// acceptable reports whether the client accepts an encoding, honoring
// explicit q=0 exclusions and the * wildcard.
func acceptable(accepted map[string]float64, encoding string) bool {
	if q, ok := accepted[encoding]; ok {
		return q > 0
	}
	if q, ok := accepted["*"]; ok {
		return q > 0
	}
	return false
}

// Negotiate picks the best representation of an asset for a request:
// brotli over gzip over identity, restricted to variants that actually exist
// in the index. Nothing is ever compressed here; a variant missing from the
// index means the offline pipeline decided it was not worth storing.
//
// Identity is the universal fallback. A request that excludes identity with
// q=0 but accepts nothing we have still gets the identity bytes: for public
// static files a useful response beats a 406.
func Negotiate(asset *Asset, acceptEncoding string) Variant {
	if acceptEncoding == "" || !asset.HasAlternatives() {
		return asset.Identity()
	}

	accepted := acceptedEncodings(acceptEncoding)
	for _, encoding := range encodingPreference {
		variant, ok := asset.Variant(encoding)
		if !ok {
			continue
		}
		if acceptable(accepted, encoding) {
			return variant
		}
	}

	return asset.Identity()
}
