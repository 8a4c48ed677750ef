package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strconv"
	"syscall"

	"github.com/vedsaas/softchip/internal/static"
)

// ErrPeerDisconnect is returned by the writers when the client reset or
// aborted the connection mid-response. Callers drop it without logging.
var ErrPeerDisconnect = errors.New("peer disconnected")

// protectiveHeaders go on every response, whatever its status.
var protectiveHeaders = [...][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Cache-Control", "no-cache, no-store, must-revalidate"},
	{"Pragma", "no-cache"},
	{"Expires", "0"},
}

// errorPage mirrors the body of a stock HTTP server error response.
const errorPage = `<!DOCTYPE HTML>
<html lang="en">
    <head>
        <meta charset="utf-8">
        <title>Error response</title>
    </head>
    <body>
        <h1>Error response</h1>
        <p>Error code: %d</p>
        <p>Message: %s.</p>
        <p>Error code explanation: %d - %s.</p>
    </body>
</html>
`

// withProtectiveHeaders sets the CORS and cache headers before any handler
// (including chi's fallbacks and the panic recoverer) writes.
func withProtectiveHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range protectiveHeaders {
			h.Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as the complete response body.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)

	if _, err := w.Write(data); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// writeError sends an HTML error page for status with the given message.
func writeError(w http.ResponseWriter, status int, message string) error {
	text := http.StatusText(status)
	body := fmt.Sprintf(errorPage, status, html.EscapeString(message), status, html.EscapeString(text))

	w.Header().Set("Content-Type", "text/html;charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, body); err != nil {
		return classifyWriteError(err)
	}
	return nil
}

// streamFile copies asset to w as a 200 response. When the client goes away
// mid-transfer it stops and returns [ErrPeerDisconnect]; other failures are
// returned wrapped.
func streamFile(w http.ResponseWriter, asset *static.Asset) error {
	h := w.Header()
	h.Set("Content-Type", asset.ContentType)
	h.Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	h.Set("Last-Modified", asset.ModTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, asset); err != nil {
		if isPeerDisconnect(err) {
			return ErrPeerDisconnect
		}
		return fmt.Errorf("failed to stream %s: %w", asset.Path, err)
	}
	return nil
}

func classifyWriteError(err error) error {
	if isPeerDisconnect(err) {
		return ErrPeerDisconnect
	}
	return err
}

// isPeerDisconnect reports whether err means the client closed or reset the
// connection. Deadline and disk errors are deliberately not in this class.
func isPeerDisconnect(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed)
}
