package migrations

import "embed"

// Migrations holds the golang-migrate files for the identity store.
//
//go:embed *.sql
var Migrations embed.FS
