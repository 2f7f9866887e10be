package prerouter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caasmo/alabaster/config"
	"github.com/caasmo/alabaster/core"
)

// lastRecord parses the last JSON log line in the buffer.
func lastRecord(t *testing.T, b *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &record); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return record
}

func newRequestLogApp(activated bool) (*core.App, *bytes.Buffer) {
	mockApp := &core.App{}
	buf := new(bytes.Buffer)
	mockApp.SetLogger(slog.New(slog.NewJSONHandler(buf, nil)))

	cfg := config.NewDefaultConfig()
	cfg.Log.Access.Activated = activated
	mockApp.SetConfigProvider(config.NewProvider(cfg))
	return mockApp, buf
}

func TestRequestLogSuccessfulRequest(t *testing.T) {
	mockApp, buf := newRequestLogApp(true)

	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	})
	handler := NewRecorder(mockApp).Execute(NewRequestLog(mockApp, nil).Execute(finalHandler))

	req := httptest.NewRequest("GET", "/static/app.js?v=1", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	req.Header.Set("User-Agent", "test-agent")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if buf.Len() == 0 {
		t.Fatal("expected a log entry, got none")
	}
	record := lastRecord(t, buf)

	if record["msg"] != "http_request" {
		t.Errorf("msg = %v, want http_request", record["msg"])
	}
	if status, _ := record["status"].(float64); status != http.StatusOK {
		t.Errorf("status = %v, want %d", record["status"], http.StatusOK)
	}
	if record["uri"] != "/static/app.js?v=1" {
		t.Errorf("uri = %v, want /static/app.js?v=1", record["uri"])
	}
	if record["remote_ip"] != "192.0.2.1" {
		t.Errorf("remote_ip = %v, want 192.0.2.1", record["remote_ip"])
	}
	if bytesWritten, _ := record["bytes"].(float64); bytesWritten != 5 {
		t.Errorf("bytes = %v, want 5", record["bytes"])
	}
	if record["user_agent"] != "test-agent" {
		t.Errorf("user_agent = %v, want test-agent", record["user_agent"])
	}
}

func TestRequestLogDeactivated(t *testing.T) {
	mockApp, buf := newRequestLogApp(false)

	handler := NewRecorder(mockApp).Execute(NewRequestLog(mockApp, nil).Execute(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if buf.Len() != 0 {
		t.Errorf("expected no log output when deactivated, got: %s", buf.String())
	}
}

// Without the Recorder middleware the logger installs its own recorder and
// still reports the real status.
func TestRequestLogWithoutRecorder(t *testing.T) {
	mockApp, buf := newRequestLogApp(true)

	handler := NewRequestLog(mockApp, nil).Execute(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	record := lastRecord(t, buf)
	if status, _ := record["status"].(float64); status != http.StatusNotFound {
		t.Errorf("status = %v, want %d", record["status"], http.StatusNotFound)
	}
}

func TestRequestLogTruncatesLongURI(t *testing.T) {
	mockApp, buf := newRequestLogApp(true)

	handler := NewRecorder(mockApp).Execute(NewRequestLog(mockApp, nil).Execute(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	longPath := "/static/" + strings.Repeat("a", 600)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", longPath, nil))

	record := lastRecord(t, buf)
	uri, _ := record["uri"].(string)
	if len(uri) != 512+len("...") {
		t.Errorf("uri length = %d, want %d", len(uri), 512+len("..."))
	}
	if !strings.HasSuffix(uri, "...") {
		t.Errorf("truncated uri missing ellipsis: %q", uri[len(uri)-10:])
	}
}

func TestRemoteIP(t *testing.T) {
	testCases := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "192.0.2.1:8080", "192.0.2.1"},
		{"ipv6 with port", "[2001:db8::1]:8080", "2001:0db8:0000:0000:0000:0000:0000:0001"},
		{"missing port", "not-an-addr", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if got := RemoteIP(r); got != tc.want {
				t.Errorf("RemoteIP(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
			}
		})
	}
}
