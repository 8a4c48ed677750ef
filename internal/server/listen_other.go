//go:build !unix

package server

import "syscall"

// reuseAddr is a no-op off unix: SO_REUSEADDR on Windows allows two live
// listeners to share a port, which is not what a quick relaunch needs.
func reuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}
