// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - PartyInput: raw submission in external form (JSON body or form values)

# Domain Types

  - PartyRecord: internal representation, db tags name the columns

# Response Types

  - Party: external representation (camelCase JSON)
  - PartyStats: active party counts per ideology
  - DeletePartyResponse: id, message
  - ErrorResponse: error, message, fields

# Field Names

External and internal names form a fixed one-to-one mapping:

	id                  ↔ id
	name                ↔ name
	abbreviation        ↔ abbreviation
	ideology            ↔ ideology
	foundingDate        ↔ founding_date
	headquarters        ↔ headquarters
	representativeColor ↔ representative_color
	logoUrl             ↔ logo_url
	active              ↔ active
	registeredAt        ↔ registered_at

Use ToColumn / ToExternal for single names and PartyRecord.External /
Party.Internal for whole records.

# Constants

Ideologies (advisory, not enforced by the store):

	left, right, center, conservative, liberal,
	social-democrat, nationalist, regionalist

DateLayout is the canonical founding date format, "2006-01-02".
*/
package models
