package ciutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/phrazzld/flashcards-api/internal/redact"
)

// CI detection variables.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"
)

// Integration test backends.
const (
	EnvTestDatabaseURL   = "FLASHCARDS_TEST_DB_URL"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvFirestoreEmulator = "FIRESTORE_EMULATOR_HOST"
)

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the value of the first non-empty variable in
// envVars, or defaultValue. Using anything but the first name is logged.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, name := range envVars {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Debug("using fallback environment variable",
				slog.String("used_var", name),
				slog.String("preferred_var", envVars[0]),
				slog.String("value", redact.String(val)))
		}
		return val
	}
	return defaultValue
}

// TestDatabaseURL returns FLASHCARDS_TEST_DB_URL, falling back to DATABASE_URL.
func TestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestDatabaseURL, EnvDatabaseURL}, "", logger)
}

// RequireEnv returns the first non-empty variable in envVars. When none is
// set the test is skipped locally and fails in CI.
func RequireEnv(t testing.TB, envVars ...string) string {
	t.Helper()
	if val := GetEnvWithFallbacks(envVars, "", nil); val != "" {
		return val
	}
	if IsCI() {
		t.Fatalf("%v not set in CI", envVars)
	}
	t.Skipf("%v not set - skipping integration test", envVars)
	return ""
}
