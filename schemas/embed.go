// Package schemas provides the embedded MySQL migrations for database storage.
package schemas

import "embed"

// Migrations contains all SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
