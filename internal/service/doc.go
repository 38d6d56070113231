// Package service contains the authentication use cases.
//
// AuthService composes a user store, a password hasher, a token issuer and a
// verification mailer. Each operation validates its request before touching
// any collaborator and reports failures as one of the sentinel errors in
// errors.go, wrapping the underlying cause.
package service
