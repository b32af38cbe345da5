//go:build !cgo_sqlite

// Package sqlitedriver selects the SQLite driver backing corpus snapshots.
// The default is the pure Go driver; build with -tags cgo_sqlite to use the
// CGO driver instead.
package sqlitedriver

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	// DriverName is the SQL driver name to use with database/sql.
	DriverName = "sqlite"

	// DriverType identifies this as the pure Go implementation.
	DriverType = "purego"

	// DriverPackage is the import path of the underlying driver.
	DriverPackage = "modernc.org/sqlite"
)
