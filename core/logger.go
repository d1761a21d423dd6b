package core

// Logger is the app-wide logging service. Implementations may forward entries
// to an error tracking backend in addition to the standard logger.
// Extra args may carry an error, a map of metadata or the acting user.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
