// Package config provides PostgreSQL connection configuration for the three
// supported database access layers (pgxpool, database/sql, sqlx), driven by
// the LENDING_POSTGRES_DSN environment variable with a local-dev default.
package config
