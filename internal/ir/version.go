package ir

// Version constants for the graph schema and runtime.
const (
	// IRVersion is the graph schema version.
	IRVersion = "1"

	// RuntimeVersion is the EAF-IPG runtime version.
	RuntimeVersion = "0.1.0"
)
