package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullEnv() map[string]string {
	return map[string]string{
		EnvServerURL: "https://automate.example.com",
		EnvClientID:  "test-client-id",
		EnvUsername:  "test-username",
		EnvPassword:  "test-password",
	}
}

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestCredentialsFromEnv_AllRequiredPresent(t *testing.T) {
	creds := CredentialsFromEnv(lookup(fullEnv()))

	require.NotNil(t, creds)
	assert.Equal(t, Credentials{
		ServerURL: "https://automate.example.com",
		ClientID:  "test-client-id",
		Username:  "test-username",
		Password:  "test-password",
	}, *creds)
}

func TestCredentialsFromEnv_WithTwoFactorCode(t *testing.T) {
	env := fullEnv()
	env[EnvTwoFactorCode] = "123456"

	creds := CredentialsFromEnv(lookup(env))

	require.NotNil(t, creds)
	assert.Equal(t, "123456", creds.TwoFactorCode)
}

func TestCredentialsFromEnv_AnyMissingKeyMeansNoCredentials(t *testing.T) {
	for _, key := range RequiredCredentialKeys() {
		t.Run("missing "+key, func(t *testing.T) {
			env := fullEnv()
			delete(env, key)
			env[EnvTwoFactorCode] = "123456"
			assert.Nil(t, CredentialsFromEnv(lookup(env)))
		})
		t.Run("empty "+key, func(t *testing.T) {
			env := fullEnv()
			env[key] = ""
			assert.Nil(t, CredentialsFromEnv(lookup(env)))
		})
	}
}

func TestCredentialsFromEnv_NothingSet(t *testing.T) {
	assert.Nil(t, CredentialsFromEnv(lookup(nil)))
}

func TestGetCredentials_ReadsProcessEnvironmentEachTime(t *testing.T) {
	for key, value := range fullEnv() {
		t.Setenv(key, value)
	}
	t.Setenv(EnvTwoFactorCode, "")

	first := GetCredentials()
	require.NotNil(t, first)

	t.Setenv(EnvClientID, "rotated-client-id")
	second := GetCredentials()
	require.NotNil(t, second)
	assert.Equal(t, "rotated-client-id", second.ClientID)
	assert.NotEqual(t, *first, *second)

	t.Setenv(EnvPassword, "")
	assert.Nil(t, GetCredentials())
}

func TestMissingCredentialKeys(t *testing.T) {
	env := fullEnv()
	delete(env, EnvUsername)
	delete(env, EnvPassword)

	assert.Equal(t, []string{EnvUsername, EnvPassword}, MissingCredentialKeys(lookup(env)))
	assert.Empty(t, MissingCredentialKeys(lookup(fullEnv())))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CW_AUTOMATE_SERVER_URL=https://from-file.example.com\nCW_AUTOMATE_USERNAME=file-user\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// t.Setenv registers restoration of the original value after the test.
	t.Setenv(EnvServerURL, "")
	os.Unsetenv(EnvServerURL)
	t.Setenv(EnvUsername, "already-set")

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "https://from-file.example.com", os.Getenv(EnvServerURL))
	assert.Equal(t, "already-set", os.Getenv(EnvUsername), "existing variables are not overridden")
}

func TestLoadEnvFile_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, LoadEnvFile(""))
}

func TestLoadEnvFile_MissingFile(t *testing.T) {
	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
