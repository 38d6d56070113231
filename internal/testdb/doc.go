//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Each test runs inside its own transaction, which is rolled back when the
// test completes, so tests may call t.Parallel and share tables without
// cleanup. A pgx.Tx satisfies postgres.Pool, so stores can be built directly
// on the transaction:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//
//	    pool := testdb.GetTestPoolWithT(t)
//	    testdb.WithTx(t, pool, func(t *testing.T, tx pgx.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped unless ACCOUNT_TEST_DATABASE_URL is set. Migrations are
// applied once per test binary.
package testdb
