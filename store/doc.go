// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists parties in the party table through sqlx.

Queries are written with ? placeholders and rebound for the connection's
driver, so the same Store runs on PostgreSQL and SQLite.

# Admission Control

Every operation first takes a slot from a weighted semaphore sized like
the connection pool. A caller that cannot get one within the queue timeout
fails with ErrBusy instead of waiting on the pool indefinitely.

# Errors

	ErrNotFound      no active party with that id
	ErrNotPersisted  a create, update or delete did not reach the database
	ErrBusy          no slot within the queue timeout

Write failures wrap both ErrNotPersisted and the cause.
*/
package store
