package prompt

// ConfigError signals a missing credential, unknown provider, or
// mismatched settings type, discovered synchronously at construction
// time, before any network call is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "prompt: config error: " + e.Reason }

// ValidationError signals an unbound required placeholder, invalid
// schema, cyclic DAG, or missing dependency reference, raised
// synchronously at Prompt/Workflow construction.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "prompt: validation error: " + e.Reason }
