// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validation checks party submissions and normalizes them into
storage form.

	rec, err := validation.Validate(in)
	if ve, ok := validation.AsError(err); ok {
		middleware.ValidationErrorResponse(w, ve)
		return
	}

Every failing field is reported at once, keyed by its JSON name. Text
fields are trimmed, blank optional fields become NULL, and the founding
date is reduced to YYYY-MM-DD without any timezone conversion.

# Dates

NormalizeDate accepts ISO dates, RFC 3339 and plain datetimes, RFC 1123,
JavaScript's Date.toString() and slash dates. Slash dates are always read
day first (DD/MM/YYYY, the es-PE locale the dashboard uses), so an en-US
"3/5/2024" is the 3rd of May.
*/
package validation
