package static

import "path/filepath"

// defaultContentType is served for unknown and missing extensions.
const defaultContentType = "application/octet-stream"

// mimeTypes maps file extensions to content types. Lookups are exact and
// case-sensitive: ".CSS" is not ".css". Read-only after package init.
var mimeTypes = map[string]string{
	"":             defaultContentType,
	".html":        "text/html",
	".htm":         "text/html",
	".css":         "text/css",
	".js":          "text/javascript",
	".mjs":         "text/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".xml":         "text/xml",
	".txt":         "text/plain",
	".md":          "text/markdown",
	".csv":         "text/csv",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".svg":         "image/svg+xml",
	".ico":         "image/vnd.microsoft.icon",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".wasm":        "application/wasm",
	".pdf":         "application/pdf",
	".mp3":         "audio/mpeg",
	".wav":         "audio/wav",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
	".zip":         "application/zip",
	".gz":          "application/gzip",
	".bz2":         "application/x-bzip2",
	".xz":          "application/x-xz",
	".Z":           "application/x-compress",
}

// ContentType returns the content type for name based on its extension.
func ContentType(name string) string {
	if ct, ok := mimeTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return defaultContentType
}
