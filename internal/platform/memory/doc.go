// Package memory provides in-process implementations of the store interfaces.
// They back the server when no database URL is configured and give the
// service tests a real store to run against.
package memory
