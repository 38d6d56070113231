// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Every variable
// carries the ACCOUNT_ prefix, so auth.jwt_secret is read from
// ACCOUNT_AUTH_JWT_SECRET.
package config
