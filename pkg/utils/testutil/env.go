package testutil

import (
	"os"
	"testing"
)

// GetEnvOrSkip returns the value of key, skipping the test when it is unset.
// Tests against real PostgreSQL, Firestore or OpenAI are gated this way.
func GetEnvOrSkip(t *testing.T, key string) string {
	t.Helper()
	return GetEnvsOrSkip(t, key)[key]
}

// GetEnvsOrSkip returns the values of all keys, skipping the test if any of
// them is unset.
func GetEnvsOrSkip(t *testing.T, keys ...string) map[string]string {
	t.Helper()

	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}

	if len(missing) > 0 {
		t.Skipf("environment variables %v are not set, skipping test", missing)
	}
	return values
}
