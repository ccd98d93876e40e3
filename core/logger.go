package core

import (
	"log"
	"os"
)

// Person identifies the signed-in user a log entry is about.
type Person struct {
	ID    string
	Name  string
	Email string
}

// Logger is implemented by every logging backend of the application.
// args may hold errors, map[string]interface{} extras and a Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// StdLogger is a Logger that only writes to a standard *log.Logger.
type StdLogger struct {
	std   *log.Logger
	quiet bool
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(prefix string) *StdLogger {
	return &StdLogger{std: log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds)}
}

// NewDiscardLogger returns a StdLogger that drops everything but fatal messages (for tests).
func NewDiscardLogger() *StdLogger {
	return &StdLogger{std: log.New(os.Stderr, "", log.LstdFlags), quiet: true}
}

func (l StdLogger) print(level, msg string, args []interface{}) {
	if l.quiet {
		return
	}
	l.std.Println(level + " " + msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}
