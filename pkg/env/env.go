package env

import "os"

// Get reads an environment variable, falling back when unset or empty.
// Used for pre-config switches like LOG_FORMAT that must resolve before
// envconfig runs.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
