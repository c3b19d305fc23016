package monitoring

import "log"

// Logf is the package-level diagnostic logger used by storage and schema
// migrations. It defaults to log.Printf; SetLogger redirects or mutes it.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
