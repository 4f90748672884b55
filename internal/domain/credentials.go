package domain

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding the Automate connection parameters.
const (
	EnvServerURL     = "CW_AUTOMATE_SERVER_URL"
	EnvClientID      = "CW_AUTOMATE_CLIENT_ID"
	EnvUsername      = "CW_AUTOMATE_USERNAME"
	EnvPassword      = "CW_AUTOMATE_PASSWORD"
	EnvTwoFactorCode = "CW_AUTOMATE_2FA_CODE"
)

// Credentials holds everything needed to open an Automate session.
// A value is only ever built with all four required fields present;
// TwoFactorCode is optional and empty when not configured.
type Credentials struct {
	ServerURL     string
	ClientID      string
	Username      string
	Password      string
	TwoFactorCode string
}

// RequiredCredentialKeys returns the environment variables that must all be set.
func RequiredCredentialKeys() []string {
	return []string{EnvServerURL, EnvClientID, EnvUsername, EnvPassword}
}

// GetCredentials reads the credentials from the process environment.
// It returns nil when any required variable is missing or empty.
// Nothing is cached, so environment changes are seen on the next call.
func GetCredentials() *Credentials {
	return CredentialsFromEnv(os.Getenv)
}

// CredentialsFromEnv builds credentials using the given lookup function.
func CredentialsFromEnv(getenv func(string) string) *Credentials {
	creds := Credentials{
		ServerURL:     getenv(EnvServerURL),
		ClientID:      getenv(EnvClientID),
		Username:      getenv(EnvUsername),
		Password:      getenv(EnvPassword),
		TwoFactorCode: getenv(EnvTwoFactorCode),
	}

	if creds.ServerURL == "" || creds.ClientID == "" || creds.Username == "" || creds.Password == "" {
		return nil
	}

	return &creds
}

// MissingCredentialKeys lists the required variables that are unset or empty.
func MissingCredentialKeys(getenv func(string) string) []string {
	var missing []string
	for _, key := range RequiredCredentialKeys() {
		if getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// Variables that are already set are left untouched.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	return godotenv.Load(path)
}
