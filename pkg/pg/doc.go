// Package pg bootstraps the PostgreSQL layer: a Config populated from
// environment variables, Connect for a retrying pgx pool, Migrate for
// goose schema migrations, a health check closure, and common error
// helpers.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil { ... }
package pg
