// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the party registry API.

# Handler Types

PartyHandler serves every /api/parties endpoint. It is created with the
registry pipeline and the configuration:

	partyHandler := handlers.NewPartyHandler(reg, cfg)

# Request Bodies

Create and update accept three encodings:

  - application/json: a models.PartyInput
  - multipart/form-data: the same fields as form values, plus an optional
    "logo" file part
  - application/x-www-form-urlencoded: form values only

Form keys may use either the external names (foundingDate) or the column
names (founding_date). Unknown keys are ignored.

# Errors

Registry errors map onto statuses:

	*validation.Error  → 400 with a per-field "fields" map
	store.ErrNotFound  → 404 "party not found"
	anything else      → 500 with a fixed message; the cause is only logged
*/
package handlers
