//go:build integration

package testdb

import "os"

// DatabaseURLEnv names the variable holding the test database URL.
const DatabaseURLEnv = "ACCOUNT_TEST_DATABASE_URL"

// GetTestDatabaseURL returns the test database URL, or "" when unset.
func GetTestDatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
