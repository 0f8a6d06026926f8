package postgres

import "embed"

// Migrations holds the SQL schema migrations, applied with
// pkgpostgres.RunMigrations(dsn, Migrations, MigrationsDir).
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files.
const MigrationsDir = "migrations"
