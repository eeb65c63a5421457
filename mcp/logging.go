package mcp

import (
	"fmt"
	"log"
	"sync/atomic"
)

// Stdout carries the protocol, so the server only ever logs to a file.
var fileLog atomic.Pointer[log.Logger]

// SetLogger routes server diagnostics to l. A nil l silences them.
func SetLogger(l *log.Logger) {
	fileLog.Store(l)
}

// Log records a diagnostic line tagged with the tool server prefix.
func Log(format string, args ...any) {
	if l := fileLog.Load(); l != nil {
		_ = l.Output(2, fmt.Sprintf("mcp: "+format, args...))
	}
}
