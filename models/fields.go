package models

import (
	"net/url"
	"strings"
)

// fieldNames pairs every external (wire) name with its internal (column)
// name. Order is the canonical column order used by the store.
var fieldNames = [...][2]string{
	{"id", "id"},
	{"name", "name"},
	{"abbreviation", "abbreviation"},
	{"ideology", "ideology"},
	{"foundingDate", "founding_date"},
	{"headquarters", "headquarters"},
	{"representativeColor", "representative_color"},
	{"logoUrl", "logo_url"},
	{"active", "active"},
	{"registeredAt", "registered_at"},
}

var (
	toColumn   = make(map[string]string, len(fieldNames))
	toExternal = make(map[string]string, len(fieldNames))
)

func init() {
	for _, pair := range fieldNames {
		toColumn[pair[0]] = pair[1]
		toExternal[pair[1]] = pair[0]
	}
}

// ToColumn maps an external field name to its column. ok is false for
// names that are not part of a party.
func ToColumn(external string) (column string, ok bool) {
	column, ok = toColumn[external]
	return column, ok
}

// ToExternal maps a column to its external field name.
func ToExternal(column string) (external string, ok bool) {
	external, ok = toExternal[column]
	return external, ok
}

// Columns returns the internal column names in canonical order.
func Columns() []string {
	cols := make([]string, len(fieldNames))
	for i, pair := range fieldNames {
		cols[i] = pair[1]
	}
	return cols
}

// External converts a stored record to its wire form. Timestamps are
// always reported in UTC.
func (r PartyRecord) External() Party {
	return Party{
		ID:                  r.ID,
		Name:                r.Name,
		Abbreviation:        r.Abbreviation,
		Ideology:            r.Ideology,
		FoundingDate:        r.FoundingDate,
		Headquarters:        r.Headquarters,
		RepresentativeColor: r.RepresentativeColor,
		LogoURL:             r.LogoURL,
		Active:              r.Active,
		RegisteredAt:        r.RegisteredAt.UTC(),
	}
}

// Internal converts a wire party back to its stored form.
func (p Party) Internal() PartyRecord {
	return PartyRecord{
		ID:                  p.ID,
		Name:                p.Name,
		Abbreviation:        p.Abbreviation,
		Ideology:            p.Ideology,
		FoundingDate:        p.FoundingDate,
		Headquarters:        p.Headquarters,
		RepresentativeColor: p.RepresentativeColor,
		LogoURL:             p.LogoURL,
		Active:              p.Active,
		RegisteredAt:        p.RegisteredAt,
	}
}

// InputFromForm reads a submission out of form values keyed by external
// names. Column-style keys (founding_date, ...) are accepted as aliases,
// since older clients posted the storage names directly. Anything else is
// ignored.
func InputFromForm(values url.Values) PartyInput {
	get := func(external string) (string, bool) {
		if v, ok := values[external]; ok && len(v) > 0 {
			return v[0], true
		}
		column, _ := ToColumn(external)
		if v, ok := values[column]; ok && len(v) > 0 {
			return v[0], true
		}
		return "", false
	}

	var in PartyInput
	in.Name, _ = get("name")
	in.Abbreviation, _ = get("abbreviation")
	in.Ideology, _ = get("ideology")
	in.FoundingDate, _ = get("foundingDate")
	in.Headquarters, _ = get("headquarters")
	in.RepresentativeColor, _ = get("representativeColor")
	if logo, ok := get("logoUrl"); ok && strings.TrimSpace(logo) != "" {
		in.LogoURL = &logo
	}
	return in
}
