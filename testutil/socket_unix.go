//go:build !windows

// Package testutil has helpers shared by DDL source tests.
package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

// GarbageUnixSocket listens on a unix socket that answers every connection with a
// line that is not any database protocol, and returns the socket path. A driver
// dialing it fails the handshake instead of getting "connection refused".
func GarbageUnixSocket(t *testing.T, name string) string {
	t.Helper()

	// t.TempDir paths can exceed the unix socket path limit on macOS.
	dir, err := os.MkdirTemp("", "ddlschema")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Write([]byte("not a database\n"))
			conn.Close()
		}
	}()
	return path
}
