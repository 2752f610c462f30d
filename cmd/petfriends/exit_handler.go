package main

import (
	"os"

	"github.com/loykin/petfriends/internal/common"
)

// ExitHandler provides a testable way to handle program termination
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

// DefaultExitHandler implements ExitHandler for production use
type DefaultExitHandler struct{}

// Exit terminates the program with the given exit code
func (DefaultExitHandler) Exit(code int) {
	os.Exit(code)
}

// LogFatalError logs err with the logger configured for the run and exits with 1.
func (h DefaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	all := append([]any{"error", err}, keyvals...)
	common.GetLogger().WithComponent("main").Error(msg, all...)
	h.Exit(1)
}

// Global exit handler (can be replaced for testing)
var exitHandler ExitHandler = DefaultExitHandler{}
