package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorMessage(t *testing.T) {
	err := NewConfigurationError()

	assert.Equal(t,
		"No API credentials provided. Please configure CW_AUTOMATE_SERVER_URL, CW_AUTOMATE_CLIENT_ID, CW_AUTOMATE_USERNAME, and CW_AUTOMATE_PASSWORD environment variables.",
		err.Error())
	assert.Equal(t, RequiredCredentialKeys(), err.Keys)
}

func TestConfigurationErrorSingleKey(t *testing.T) {
	err := &ConfigurationError{Keys: []string{EnvPassword}}
	assert.Contains(t, err.Error(), "configure CW_AUTOMATE_PASSWORD environment")
}

func TestUnknownDomainError(t *testing.T) {
	var err error = fmt.Errorf("resolving handler: %w", &UnknownDomainError{Name: "unknown"})

	assert.Contains(t, err.Error(), "Unknown domain: unknown")

	var target *UnknownDomainError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "unknown", target.Name)
}
