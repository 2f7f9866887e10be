package core

import (
	"net/http"
	"strings"
	"time"
)

// notModified evaluates the request's conditional headers against the asset,
// in the order the RFC prescribes: If-None-Match first, and If-Modified-Since
// only when the request carries no ETag condition at all. A present but
// non-matching If-None-Match therefore forces a full response even when the
// date condition would have said 304.
func notModified(asset *Asset, r *http.Request) bool {
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		return etagMatch(asset.ETag, inm)
	}
	if ims := r.Header.Get("If-Modified-Since"); ims != "" {
		t, err := http.ParseTime(ims)
		if err != nil {
			return false
		}
		return !asset.LastModified.After(t)
	}
	return false
}

// etagMatch compares the asset's strong ETag against an If-None-Match value.
// The comparison is weak: a W/ prefix on the client's copy still matches, so
// validators survive intermediaries that weaken them. "*" matches any
// existing representation.
func etagMatch(etag, ifNoneMatch string) bool {
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}

// httpDate formats a time for Last-Modified.
func httpDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
