package models

import "time"

// Ideology values offered by the registration form. Advisory only: the
// store accepts any string.
const (
	IdeologyLeft           = "left"
	IdeologyRight          = "right"
	IdeologyCenter         = "center"
	IdeologyConservative   = "conservative"
	IdeologyLiberal        = "liberal"
	IdeologySocialDemocrat = "social-democrat"
	IdeologyNationalist    = "nationalist"
	IdeologyRegionalist    = "regionalist"
)

var Ideologies = []string{
	IdeologyLeft,
	IdeologyRight,
	IdeologyCenter,
	IdeologyConservative,
	IdeologyLiberal,
	IdeologySocialDemocrat,
	IdeologyNationalist,
	IdeologyRegionalist,
}

// DateLayout is the canonical founding date format on the wire and in storage
const DateLayout = "2006-01-02"

// Request types

// PartyInput is a submission in external form, as decoded from JSON or
// multipart form values. Nothing has been validated yet.
type PartyInput struct {
	Name                string  `json:"name"`
	Abbreviation        string  `json:"abbreviation"`
	Ideology            string  `json:"ideology"`
	FoundingDate        string  `json:"foundingDate"`
	Headquarters        string  `json:"headquarters"`
	RepresentativeColor string  `json:"representativeColor"`
	LogoURL             *string `json:"logoUrl"`
}

// Domain types

// PartyRecord is the internal, storage-side representation. Column names
// come from the db tags.
type PartyRecord struct {
	ID                  string    `db:"id"`
	Name                string    `db:"name"`
	Abbreviation        string    `db:"abbreviation"`
	Ideology            *string   `db:"ideology"`
	FoundingDate        string    `db:"founding_date"`
	Headquarters        string    `db:"headquarters"`
	RepresentativeColor *string   `db:"representative_color"`
	LogoURL             *string   `db:"logo_url"`
	Active              bool      `db:"active"`
	RegisteredAt        time.Time `db:"registered_at"`
}

// Response types

// Party is the external representation returned by every endpoint.
type Party struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Abbreviation        string    `json:"abbreviation"`
	Ideology            *string   `json:"ideology"`
	FoundingDate        string    `json:"foundingDate"`
	Headquarters        string    `json:"headquarters"`
	RepresentativeColor *string   `json:"representativeColor"`
	LogoURL             *string   `json:"logoUrl"`
	Active              bool      `json:"active"`
	RegisteredAt        time.Time `json:"registeredAt"`
}

type PartyStats struct {
	Total      int            `json:"total"`
	ByIdeology map[string]int `json:"byIdeology"`
}

type DeletePartyResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
