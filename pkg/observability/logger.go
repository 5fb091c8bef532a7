package observability

import "github.com/charmbracelet/log"

// Logger returns l, or a child of log.Default() that only reports warnings
// and errors when l is nil. The global default logger is left untouched.
func Logger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	quiet := log.Default().With()
	quiet.SetLevel(log.WarnLevel)
	return quiet
}
