package static

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"style.css", "text/css"},
		{"index.html", "text/html"},
		{"app.js", "text/javascript"},
		{"data.json", "application/json"},
		{"icon.svg", "image/svg+xml"},
		{"font.woff2", "font/woff2"},
		{"archive.tar.gz", "application/gzip"},
		{"legacy.Z", "application/x-compress"},
		{"Makefile", "application/octet-stream"},
		{"blob.unknownext", "application/octet-stream"},
		{"trailing.", "application/octet-stream"},
		// lookups are case-sensitive
		{"STYLE.CSS", "application/octet-stream"},
		{"Index.HTML", "application/octet-stream"},
		{"legacy.z", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentType(tt.name); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
