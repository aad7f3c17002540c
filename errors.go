package reentry

import (
	"fmt"
	"time"
)

// ConfigurationError reports an invalid body hierarchy or engine
// configuration. It is fatal: initialization must abort on it.
type ConfigurationError struct {
	msg string
}

func (e ConfigurationError) Error() string {
	return "configuration: " + e.msg
}

func newConfigError(format string, args ...interface{}) ConfigurationError {
	return ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// IntegrationError reports a non-finite state produced while advancing a
// satellite. The satellite which produced it is frozen with its last valid
// state; other satellites are unaffected.
type IntegrationError struct {
	Satellite SatelliteID
	Epoch     time.Time
	msg       string
}

func (e IntegrationError) Error() string {
	return fmt.Sprintf("integration of %s at %s: %s", e.Satellite, e.Epoch.Format(time.RFC3339), e.msg)
}

// UnknownSatelliteError is returned by operations referencing a satellite
// identifier which is not (or no longer) tracked.
type UnknownSatelliteError struct {
	ID SatelliteID
}

func (e UnknownSatelliteError) Error() string {
	return fmt.Sprintf("unknown satellite %q", string(e.ID))
}
