package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the platform sink; no-op until a target installs one.
	debugPrintln DebugWriter = func(string) {}

	debugEnabled bool
)

// SetDebugWriter sets the platform-specific debug output function
// (USB CDC, UART, or stdout on the host).
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message through the platform writer when
// debug output is enabled. Foreground only.
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}
