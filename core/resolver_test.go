package core

import (
	"errors"
	"testing"
)

func TestResolveWithoutPrefix(t *testing.T) {
	rs := NewResolver("")

	testCases := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"simple file", "/app.js", "app.js", nil},
		{"nested file", "/css/site.css", "css/site.css", nil},
		{"deeply nested", "/a/b/c/d.png", "a/b/c/d.png", nil},
		{"empty path", "", "", ErrNotFound},
		{"root", "/", "", ErrNotFound},
		{"trailing slash", "/css/", "", ErrNotFound},
		{"no leading slash", "app.js", "", ErrNotFound},
		{"null byte", "/app\x00.js", "", ErrNotFound},
		{"dot dot segment", "/../etc/passwd", "", ErrPathTraversal},
		{"embedded dot dot", "/css/../../etc/passwd", "", ErrPathTraversal},
		{"double slash", "/css//site.css", "", ErrPathTraversal},
		{"single dot segment", "/css/./site.css", "", ErrPathTraversal},
		{"hidden file", "/.env", "", ErrNotFound},
		{"hidden directory", "/.git/config", "", ErrNotFound},
		{"hidden in subdir", "/css/.hidden", "", ErrNotFound},
		{"dot dot as name suffix", "/app..js", "app..js", nil},
		{"gzip sibling", "/app.js.gz", "", ErrNotFound},
		{"brotli sibling", "/app.js.br", "", ErrNotFound},
		{"gzip sibling in subdir", "/css/site.css.gz", "", ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rs.Resolve(tc.path)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tc.path, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestResolveWithPrefix(t *testing.T) {
	rs := NewResolver("/static")

	testCases := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"under prefix", "/static/app.js", "app.js", nil},
		{"nested under prefix", "/static/css/site.css", "css/site.css", nil},
		{"outside prefix", "/app.js", "", ErrNotFound},
		{"prefix itself", "/static", "", ErrNotFound},
		{"prefix with slash", "/static/", "", ErrNotFound},
		{"prefix as name part", "/staticfiles/app.js", "", ErrNotFound},
		{"traversal under prefix", "/static/../secret.txt", "", ErrPathTraversal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rs.Resolve(tc.path)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tc.path, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
