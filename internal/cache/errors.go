package cache

// ConfigError indicates the store could not be constructed: an invalid size
// cap or an unusable storage directory. It is raised at startup and is fatal
// to the process.
type ConfigError struct {
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return "cache: " + e.Reason + ": " + e.Cause.Error()
	}
	return "cache: " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
