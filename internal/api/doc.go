// Package api exposes the account service over HTTP. Handlers decode JSON
// requests, call the auth service, and translate its error kinds into
// status codes and safe messages. Internal error detail is logged in
// redacted form and never returned to clients.
package api
