// Package db connects to PostgreSQL and applies goose migrations.
//
// It backs the Postgres settings store:
//
//	pool, err := db.Connect(ctx, cfg.DB)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := settings.Migrate(ctx, pool, log); err != nil {
//	    return err
//	}
//
// [Connect] retries with a constant backoff (sethvargo/go-retry) until the
// database answers a ping. [Migrate] runs migrations from any fs.FS
// (usually an embed.FS sub-tree) through a goose Provider. [WithTx] runs a
// function in a transaction that rolls back on error or panic. [Healthcheck] and [Shutdown] return
// closures for the health endpoint and the server's shutdown hooks.
package db
