// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/party-registry/models"
)

// MaxAbbreviationLength caps the abbreviation, counted in characters
const MaxAbbreviationLength = 10

// Field error messages, keyed by external field name
const (
	MsgNameRequired         = "name is required."
	MsgAbbreviationRequired = "abbreviation is required."
	MsgAbbreviationTooLong  = "abbreviation must be at most 10 characters."
	MsgFoundingDateRequired = "founding date is required."
	MsgHeadquartersRequired = "headquarters is required."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their external name so errors key straight into the response
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Error carries one message per offending field. It is the only error
// Validate returns, so callers can render it with errors.As.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// FieldError builds an Error for a single field
func FieldError(field, message string) *Error {
	return &Error{Fields: map[string]string{field: message}}
}

// AsError reports whether err is (or wraps) a validation Error
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// required holds the trimmed text fields checked by struct tags
type required struct {
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required,max=10"`
	Headquarters string `json:"headquarters" validate:"required"`
}

var tagMessages = map[string]map[string]string{
	"name":         {"required": MsgNameRequired},
	"abbreviation": {"required": MsgAbbreviationRequired, "max": MsgAbbreviationTooLong},
	"headquarters": {"required": MsgHeadquartersRequired},
}

// Validate checks a submission and returns the normalized internal record.
// Every failing field is reported at once. The returned record has no ID,
// timestamps, or active flag; those belong to the store. A blank LogoURL
// counts as absent.
func Validate(in models.PartyInput) (models.PartyRecord, error) {
	fields := map[string]string{}

	r := required{
		Name:         strings.TrimSpace(in.Name),
		Abbreviation: strings.TrimSpace(in.Abbreviation),
		Headquarters: strings.TrimSpace(in.Headquarters),
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.PartyRecord{}, fmt.Errorf("validate party: %w", err)
		}
		for _, fe := range verrs {
			msg, ok := tagMessages[fe.Field()][fe.Tag()]
			if !ok {
				msg = fe.Field() + " is invalid."
			}
			fields[fe.Field()] = msg
		}
	}

	foundingDate, err := NormalizeDate(in.FoundingDate)
	if err != nil {
		fields["foundingDate"] = MsgFoundingDateRequired
	}

	if len(fields) > 0 {
		return models.PartyRecord{}, &Error{Fields: fields}
	}

	return models.PartyRecord{
		Name:                r.Name,
		Abbreviation:        r.Abbreviation,
		Ideology:            optional(in.Ideology),
		FoundingDate:        foundingDate,
		Headquarters:        r.Headquarters,
		RepresentativeColor: optional(in.RepresentativeColor),
		LogoURL:             optionalRef(in.LogoURL),
	}, nil
}

// optional trims s and returns nil when nothing is left
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalRef is optional for a reference that may be missing altogether
func optionalRef(p *string) *string {
	if p == nil {
		return nil
	}
	return optional(*p)
}
