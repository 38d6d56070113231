// Package postgres provides the PostgreSQL implementation of store.UserStore
// together with the goose migrations that create its schema. Queries run
// through pgx; migrations run through database/sql via the pgx stdlib driver.
package postgres
