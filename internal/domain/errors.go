package domain

import (
	"fmt"
	"strings"
)

// ConfigurationError reports that the Automate credentials are absent or incomplete.
type ConfigurationError struct {
	// Keys lists the environment variables that must be set.
	Keys []string
}

// NewConfigurationError creates a ConfigurationError naming the required credential keys.
func NewConfigurationError() *ConfigurationError {
	return &ConfigurationError{Keys: RequiredCredentialKeys()}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	keys := e.Keys
	if len(keys) == 0 {
		keys = RequiredCredentialKeys()
	}

	var list string
	if len(keys) == 1 {
		list = keys[0]
	} else {
		list = strings.Join(keys[:len(keys)-1], ", ") + ", and " + keys[len(keys)-1]
	}

	return fmt.Sprintf("No API credentials provided. Please configure %s environment variables.", list)
}

// UnknownDomainError reports a domain name outside the fixed set.
type UnknownDomainError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("Unknown domain: %s", e.Name)
}
