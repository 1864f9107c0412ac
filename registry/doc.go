// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry runs the party upsert pipeline: validate the submission,
store its logo, then write the row.

	reg := registry.New(store.New(conn, 10, 5*time.Second), files)
	party, err := reg.Create(ctx, registry.Submission{Input: in, Logo: logo})

# Ordering

A logo is written to disk (synced and renamed into place) before the row
is touched. If the row write then fails, the logo is removed again, so a
failed submission leaves neither a row nor a file behind. A submission
that fails validation touches neither.

# Logos on Update

  - new file uploaded: its reference replaces the stored one
  - no file, logoUrl given: the given reference is stored
  - no file, no logoUrl: the stored reference is kept

The file behind a replaced reference is not deleted.
*/
package registry
