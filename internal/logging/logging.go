// Package logging routes the process log to a rotating file. The TUI owns
// the terminal, so nothing may write to stdout or stderr while it runs.
package logging

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// File returns a size-rotated log writer at path.
func File(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}
}

// Component returns a named logger sharing the given writer.
func Component(w io.Writer, name string) *log.Logger {
	return log.New(w, "["+name+"] ", log.LstdFlags)
}
