package log

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// The loggers discard output until Initialize is called so that library
// packages can log unconditionally.
var (
	WarningLog = log.New(io.Discard, "", 0)
	InfoLog    = log.New(io.Discard, "", 0)
	ErrorLog   = log.New(io.Discard, "", 0)
	DebugLog   = log.New(io.Discard, "", 0)
)

var debugEnabled = os.Getenv("DEBUG") == "true" || os.Getenv("DEBUG") == "1"

var logFileName = filepath.Join(os.TempDir(), "homefix.log")

var (
	globalLogFile *os.File
	// quiet suppresses the "wrote logs" notice; stdout belongs to the MCP
	// transport in tool-server mode.
	quiet bool
)

// Initialize should be called once at the beginning of the program to set up logging.
// defer Close() after calling this function. Logs go to a file in the os temp
// directory; mcp marks every line so tool-server output can be told apart from
// the interactive client.
func Initialize(mcp bool) {
	prefix := "%s"
	if mcp {
		prefix = "[MCP] %s"
		quiet = true
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile

	var out io.Writer
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		out = os.Stderr
		fmt.Fprintf(os.Stderr, "Warning: using stderr for logging: %v\n", err)
	} else {
		out = f
		globalLogFile = f
	}

	InfoLog = log.New(out, fmt.Sprintf(prefix, "INFO:"), flags)
	WarningLog = log.New(out, fmt.Sprintf(prefix, "WARNING:"), flags)
	ErrorLog = log.New(out, fmt.Sprintf(prefix, "ERROR:"), flags)
	if debugEnabled {
		DebugLog = log.New(out, fmt.Sprintf(prefix, "DEBUG:"), flags)
	} else {
		DebugLog = log.New(io.Discard, "", 0)
	}
}

func Close() {
	if globalLogFile == nil {
		return
	}
	_ = globalLogFile.Close()
	globalLogFile = nil
	if !quiet {
		fmt.Fprintln(os.Stderr, "wrote logs to "+logFileName)
	}
}

// FileName returns the path of the log file.
func FileName() string {
	return logFileName
}

// Every is used to log at most once every timeout duration.
type Every struct {
	timeout time.Duration
	timer   *time.Timer
}

func NewEvery(timeout time.Duration) *Every {
	return &Every{timeout: timeout}
}

// ShouldLog returns true if the timeout has passed since the last log.
func (e *Every) ShouldLog() bool {
	if e.timer == nil {
		e.timer = time.NewTimer(e.timeout)
		return true
	}

	select {
	case <-e.timer.C:
		e.timer.Reset(e.timeout)
		return true
	default:
		return false
	}
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}

// SanitizeURL removes credentials from a URL string for safe logging.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "[INVALID_URL]"
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword("***", "***")
		} else {
			u.User = url.User("***")
		}
	}

	return u.String()
}
