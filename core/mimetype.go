package core

import (
	"mime"
	"path"
	"strings"
)

// mediaTypes is the built-in extension table. It deliberately avoids the
// platform mime database for the common web types so responses do not depend
// on the host's /etc/mime.types.
var mediaTypes = map[string]string{
	".css":   "text/css",
	".csv":   "text/csv",
	".eot":   "application/vnd.ms-fontobject",
	".gif":   "image/gif",
	".htm":   "text/html",
	".html":  "text/html",
	".ico":   "image/x-icon",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "application/javascript",
	".json":  "application/json",
	".map":   "application/json",
	".md":    "text/markdown",
	".mjs":   "application/javascript",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".otf":   "font/otf",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".ttf":   "font/ttf",
	".txt":   "text/plain",
	".wasm":  "application/wasm",
	".webm":  "video/webm",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".xml":   "application/xml",
}

// mediaTypeFor resolves the media type for a URL path. Config-supplied
// mappings win over the built-in table, which wins over the platform
// database. Unknown extensions fall back to application/octet-stream,
// with a charset parameter added for text types.
func mediaTypeFor(urlPath string, extra map[string]string) string {
	ext := strings.ToLower(path.Ext(urlPath))

	mt, ok := extra[ext]
	if !ok {
		mt, ok = mediaTypes[ext]
	}
	if !ok {
		mt = mime.TypeByExtension(ext)
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
	}
	if mt == "" {
		mt = "application/octet-stream"
	}

	return withCharset(mt)
}

// withCharset appends charset=utf-8 for types that browsers treat as text.
func withCharset(mediaType string) string {
	if strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/javascript" ||
		mediaType == "application/json" {
		return mediaType + "; charset=utf-8"
	}
	return mediaType
}
