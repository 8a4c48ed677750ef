package softchip

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	root := t.TempDir()

	sc, err := New(WithRoot(root))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !filepath.IsAbs(sc.Root()) {
		t.Errorf("Root() = %q, want absolute path", sc.Root())
	}
}

func TestNew_NoRoot(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("New() expected error for missing root, got nil")
	}
	if !strings.Contains(err.Error(), "root is required") {
		t.Errorf("New() error = %v, want 'root is required'", err)
	}
}

func TestNew_RootMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		root string
	}{
		{"missing", filepath.Join(dir, "nope")},
		{"file", file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithRoot(tt.root)); err == nil {
				t.Errorf("New(WithRoot(%q)) expected error, got nil", tt.root)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	sc, err := New(WithRoot(t.TempDir()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if sc.Port() != 3000 {
		t.Errorf("Port() = %d, want 3000", sc.Port())
	}
	if sc.Host() != "" {
		t.Errorf("Host() = %q, want all interfaces", sc.Host())
	}
	if sc.sampleTimeout != 500*time.Millisecond {
		t.Errorf("sampleTimeout = %v, want 500ms", sc.sampleTimeout)
	}
	if sc.shutdownTimeout != 5*time.Second {
		t.Errorf("shutdownTimeout = %v, want 5s", sc.shutdownTimeout)
	}
	if sc.readHeaderTimeout != 0 || sc.writeTimeout != 0 {
		t.Errorf("connection timeouts = %v/%v, want disabled", sc.readHeaderTimeout, sc.writeTimeout)
	}
	if sc.simulate {
		t.Error("simulate should default to false")
	}
	if sc.metricsPath != "" {
		t.Errorf("metricsPath = %q, want disabled", sc.metricsPath)
	}
}

func TestWithRoot_Empty(t *testing.T) {
	for _, root := range []string{"", "  "} {
		if _, err := New(WithRoot(root)); err == nil {
			t.Errorf("New(WithRoot(%q)) expected error, got nil", root)
		}
	}
}

func TestWithPort(t *testing.T) {
	sc, err := New(WithRoot(t.TempDir()), WithPort(9090))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sc.Port() != 9090 {
		t.Errorf("Port() = %d, want 9090", sc.Port())
	}
}

func TestWithPort_Invalid(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 100000} {
		_, err := New(WithRoot(t.TempDir()), WithPort(port))
		if err == nil {
			t.Errorf("WithPort(%d) expected error, got nil", port)
		}
	}
}

func TestWithHost(t *testing.T) {
	sc, err := New(WithRoot(t.TempDir()), WithHost("127.0.0.1"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sc.Host() != "127.0.0.1" {
		t.Errorf("Host() = %q, want 127.0.0.1", sc.Host())
	}
}

func TestWithSampleTimeout_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := New(WithRoot(t.TempDir()), WithSampleTimeout(d)); err == nil {
			t.Errorf("WithSampleTimeout(%v) expected error, got nil", d)
		}
	}
}

func TestWithShutdownTimeout_Invalid(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if _, err := New(WithRoot(t.TempDir()), WithShutdownTimeout(d)); err == nil {
			t.Errorf("WithShutdownTimeout(%v) expected error, got nil", d)
		}
	}
}

func TestWithConnTimeouts(t *testing.T) {
	sc, err := New(WithRoot(t.TempDir()), WithConnTimeouts(2*time.Second, 30*time.Second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sc.readHeaderTimeout != 2*time.Second || sc.writeTimeout != 30*time.Second {
		t.Errorf("timeouts = %v/%v, want 2s/30s", sc.readHeaderTimeout, sc.writeTimeout)
	}

	if _, err := New(WithRoot(t.TempDir()), WithConnTimeouts(-1, 0)); err == nil {
		t.Error("WithConnTimeouts(-1, 0) expected error, got nil")
	}
}

func TestWithMetricsPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/metrics", false},
		{"/internal/metrics", false},
		{"metrics", true},
		{"/", true},
		{"", true},
		{"/api/stats", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := New(WithRoot(t.TempDir()), WithMetricsPath(tt.path))
			if (err != nil) != tt.wantErr {
				t.Errorf("WithMetricsPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	sc, err := New(WithRoot(t.TempDir()), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sc.logger.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Error("custom logger was not used")
	}
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithRoot(t.TempDir()), WithLogger(nil))
	if err == nil {
		t.Error("WithLogger(nil) expected error, got nil")
	}
}

func TestWithLogger_DefaultsToSlogDefault(t *testing.T) {
	sc, err := New(WithRoot(t.TempDir()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sc.logger != slog.Default() {
		t.Error("logger should default to slog.Default()")
	}
}
