// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database pool and creates the schema.

# Connecting

Open picks the driver from Config.DatabaseType ("postgres" via lib/pq,
"sqlite" via modernc.org/sqlite), caps the pool at Config.MaxOpenConns and
pings before returning:

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

# Schema Creation

CreateSchema initializes the party table for the connection's dialect:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and indexes.

# Tables

  - party: one row per registered political party

Deleted parties keep their row with active = false.

# Indexes

  - party.(active, registered_at DESC) for the default listing
  - party.ideology for the ideology filter and stats
*/
package db
