// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/danielhkuo/party-registry/metrics"
	"github.com/danielhkuo/party-registry/models"
	"github.com/danielhkuo/party-registry/store"
	"github.com/danielhkuo/party-registry/uploads"
	"github.com/danielhkuo/party-registry/validation"
)

// Store is the persistence side of the registry; *store.Store satisfies it
type Store interface {
	List(ctx context.Context, opts store.ListOptions) ([]models.PartyRecord, error)
	Get(ctx context.Context, id string) (models.PartyRecord, error)
	Create(ctx context.Context, rec models.PartyRecord) (models.PartyRecord, error)
	Update(ctx context.Context, id string, rec models.PartyRecord) (models.PartyRecord, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.PartyStats, error)
}

// Attachments stores logo files; *uploads.Resolver satisfies it
type Attachments interface {
	Save(src io.Reader, filename string) (string, error)
	Remove(ref string) error
}

// Logo is an uploaded file accompanying a submission
type Logo struct {
	Filename string
	Content  io.Reader
}

// Submission is one create or update request
type Submission struct {
	Input models.PartyInput
	Logo  *Logo
}

// MsgLogoRefInvalid rejects a logoUrl that does not point into the upload area
const MsgLogoRefInvalid = "logoUrl must reference an uploaded logo."

type Registry struct {
	store Store
	files Attachments
}

func New(s Store, files Attachments) *Registry {
	return &Registry{store: s, files: files}
}

// List returns active parties in external form
func (r *Registry) List(ctx context.Context, opts store.ListOptions) ([]models.Party, error) {
	recs, err := r.store.List(ctx, opts)
	if err != nil {
		slog.Error("failed to list parties", "ideology", opts.Ideology, "error", err)
		return nil, err
	}

	parties := make([]models.Party, len(recs))
	for i, rec := range recs {
		parties[i] = rec.External()
	}
	return parties, nil
}

func (r *Registry) Get(ctx context.Context, id string) (models.Party, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to get party", "id", id, "error", err)
		}
		return models.Party{}, err
	}
	return rec.External(), nil
}

func (r *Registry) Stats(ctx context.Context) (models.PartyStats, error) {
	stats, err := r.store.Stats(ctx)
	if err != nil {
		slog.Error("failed to compute party stats", "error", err)
	}
	return stats, err
}

// Create validates sub, stores its logo if any, then inserts the party.
// A client-supplied logoUrl is ignored; only an uploaded file sets it.
func (r *Registry) Create(ctx context.Context, sub Submission) (models.Party, error) {
	rec, err := validation.Validate(sub.Input)
	if err != nil {
		return models.Party{}, r.fail(metrics.OperationCreate, "", err)
	}
	rec.LogoURL = nil

	ref, err := r.attach(sub.Logo)
	if err != nil {
		return models.Party{}, r.fail(metrics.OperationCreate, "", err)
	}
	if ref != "" {
		rec.LogoURL = &ref
	}

	created, err := r.store.Create(ctx, rec)
	if err != nil {
		r.discard(ref)
		return models.Party{}, r.fail(metrics.OperationCreate, "", err)
	}

	metrics.PartyMutationsTotal.WithLabelValues(metrics.OperationCreate, metrics.OutcomeOK).Inc()
	slog.Info("party created", "id", created.ID, "abbreviation", created.Abbreviation)
	return created.External(), nil
}

// Update validates sub and overwrites party id. Without a new file the
// client's logoUrl is kept as given, provided it names an upload; if it
// is absent too, the stored logo stays.
func (r *Registry) Update(ctx context.Context, id string, sub Submission) (models.Party, error) {
	rec, err := validation.Validate(sub.Input)
	if err != nil {
		return models.Party{}, r.fail(metrics.OperationUpdate, id, err)
	}
	if sub.Logo == nil && rec.LogoURL != nil && !uploads.ValidRef(*rec.LogoURL) {
		err := validation.FieldError("logoUrl", MsgLogoRefInvalid)
		return models.Party{}, r.fail(metrics.OperationUpdate, id, err)
	}

	ref, err := r.attach(sub.Logo)
	if err != nil {
		return models.Party{}, r.fail(metrics.OperationUpdate, id, err)
	}
	if ref != "" {
		rec.LogoURL = &ref
	}

	updated, err := r.store.Update(ctx, id, rec)
	if err != nil {
		r.discard(ref)
		return models.Party{}, r.fail(metrics.OperationUpdate, id, err)
	}

	metrics.PartyMutationsTotal.WithLabelValues(metrics.OperationUpdate, metrics.OutcomeOK).Inc()
	slog.Info("party updated", "id", id)
	return updated.External(), nil
}

// Delete soft-deletes party id
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return r.fail(metrics.OperationDelete, id, err)
	}

	metrics.PartyMutationsTotal.WithLabelValues(metrics.OperationDelete, metrics.OutcomeOK).Inc()
	slog.Info("party deleted", "id", id)
	return nil
}

// attach stores logo and returns its reference, or "" when there is none
func (r *Registry) attach(logo *Logo) (string, error) {
	if logo == nil {
		return "", nil
	}
	return r.files.Save(logo.Content, logo.Filename)
}

// discard removes a logo written for a submission whose row never landed
func (r *Registry) discard(ref string) {
	if ref == "" {
		return
	}
	if err := r.files.Remove(ref); err != nil {
		slog.Warn("failed to remove orphaned logo", "ref", ref, "error", err)
	}
}

// fail records the outcome of a failed mutation and passes err through
func (r *Registry) fail(operation, id string, err error) error {
	outcome := metrics.OutcomeFailed
	switch {
	case errors.Is(err, store.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	default:
		if _, ok := validation.AsError(err); ok {
			outcome = metrics.OutcomeInvalid
		}
	}
	metrics.PartyMutationsTotal.WithLabelValues(operation, outcome).Inc()

	if outcome == metrics.OutcomeFailed {
		slog.Error("party "+operation+" failed", "id", id, "error", err)
	}
	return err
}
