// Package logging wraps the standard library log.Logger with the
// per-component prefixes the teacher's tools use (rubin.dev/node/node,
// rubin.dev/node/cmd/*): no structured-logging library, just a prefixed
// *log.Logger per subsystem.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger is a per-component logger. It is safe for concurrent use because
// the underlying log.Logger serializes writes internally.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to w (os.Stderr if w is nil) with lines
// prefixed "[component] ".
func New(w io.Writer, component string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{Logger: log.New(w, "["+component+"] ", log.LstdFlags|log.Lmicroseconds)}
}

// Component names used across the tree, kept together so prefixes stay
// consistent between packages.
const (
	Chain      = "chain"
	DataReq    = "dr"
	Radon      = "radon"
	P2P        = "p2p"
	Storage    = "store"
	Superblock = "superblock"
	Snapshot   = "snapshot"
)
