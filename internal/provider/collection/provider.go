// Package collection serves the AnkiDroid provider contract from a local
// collection file, so the client can run off-device against a copy of a
// user's collection.
package collection

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/vytor/ankibridge/internal/db"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/provider"
	"github.com/vytor/ankibridge/internal/repository"
	"github.com/vytor/ankibridge/internal/repository/sqlite"
)

const secondsPerDay = 86400

// The notes collection only accepts updates addressed to one note id.
var idSelectionPattern = regexp.MustCompile(`^\s*_?id\s*=\s*\?\s*$`)

// Provider implements provider.Resolver over a collection.
type Provider struct {
	authority string
	readOnly  bool
	now       func() time.Time

	notes repository.NoteRepository
	cards repository.CardRepository
	col   repository.CollectionRepository
}

// Option configures a Provider.
type Option func(*Provider)

// WithAuthority sets the authority the provider answers to.
func WithAuthority(authority string) Option {
	return func(p *Provider) {
		p.authority = authority
	}
}

// WithReadOnly rejects every update with provider.ErrPermissionDenied.
func WithReadOnly(readOnly bool) Option {
	return func(p *Provider) {
		p.readOnly = readOnly
	}
}

// WithClock overrides the clock used for due-date counting.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// New creates a Provider over the given repositories.
func New(notes repository.NoteRepository, cards repository.CardRepository, col repository.CollectionRepository, opts ...Option) *Provider {
	p := &Provider{
		authority: provider.Authority,
		now:       time.Now,
		notes:     notes,
		cards:     cards,
		col:       col,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open creates a Provider backed by the sqlite repositories of database.
func Open(database *db.DB, opts ...Option) *Provider {
	return New(
		sqlite.NewNoteRepository(database.DB),
		sqlite.NewCardRepository(database.DB),
		sqlite.NewCollectionRepository(database.DB),
		opts...,
	)
}

type target struct {
	collection string
	id         int64
	hasID      bool
}

func (p *Provider) route(uri provider.URI) (target, error) {
	if uri.Authority != p.authority {
		return target{}, fmt.Errorf("%w: unknown authority %q", provider.ErrUnsupportedURI, uri.Authority)
	}
	segs := uri.Segments()
	switch len(segs) {
	case 1:
		return target{collection: segs[0]}, nil
	case 2:
		id, err := strconv.ParseInt(segs[1], 10, 64)
		if err != nil {
			return target{}, fmt.Errorf("%w: %s", provider.ErrUnsupportedURI, uri)
		}
		return target{collection: segs[0], id: id, hasID: true}, nil
	default:
		return target{}, fmt.Errorf("%w: %s", provider.ErrUnsupportedURI, uri)
	}
}

// Query implements provider.Resolver.
func (p *Provider) Query(ctx context.Context, uri provider.URI, projection []string, selection string, selectionArgs []string, sortOrder string) (provider.Cursor, error) {
	log := logger.FromContext(ctx).WithPrefix("collection")
	log.Debug("query %s selection=%q", uri, selection)

	t, err := p.route(uri)
	if err != nil {
		return nil, err
	}

	switch {
	case t.collection == provider.CollectionNotesV2 && !t.hasID:
		return p.queryNotes(ctx, projection, selection, toArgs(selectionArgs), sortOrder)
	case t.collection == provider.CollectionNotes && t.hasID:
		return p.queryNotes(ctx, projection, "id = ?", []any{t.id}, "")
	case t.collection == provider.CollectionDecks:
		return p.queryDecks(ctx, projection, t)
	case t.collection == provider.CollectionModels:
		return p.queryModels(ctx, projection, t)
	}
	return nil, fmt.Errorf("%w: query %s", provider.ErrUnsupportedURI, uri)
}

// Update implements provider.Resolver. Only the flds column can be written.
func (p *Provider) Update(ctx context.Context, uri provider.URI, values provider.Values, selection string, selectionArgs []string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("collection")

	t, err := p.route(uri)
	if err != nil {
		return 0, err
	}
	if p.readOnly {
		return 0, fmt.Errorf("%w: collection is read-only", provider.ErrPermissionDenied)
	}

	flds, err := fieldsValue(values)
	if err != nil {
		return 0, err
	}

	var where string
	var args []any
	switch {
	case t.collection == provider.CollectionNotes && t.hasID:
		where, args = "id = ?", []any{t.id}
	case t.collection == provider.CollectionNotes:
		if !idSelectionPattern.MatchString(selection) || len(selectionArgs) != 1 {
			return 0, fmt.Errorf("%w: notes update requires an id selection", provider.ErrUnsupportedURI)
		}
		where, args = "id = ?", toArgs(selectionArgs)
	case t.collection == provider.CollectionNotesV2 && !t.hasID:
		if selection == "" {
			return 0, fmt.Errorf("notes_v2 update requires a selection")
		}
		where, args = selection, toArgs(selectionArgs)
	default:
		return 0, fmt.Errorf("%w: update %s", provider.ErrUnsupportedURI, uri)
	}

	n, err := p.notes.UpdateFields(ctx, where, args, flds)
	if err != nil {
		return 0, err
	}
	log.Debug("update %s touched %d notes", uri, n)
	return int(n), nil
}

// today is the collection day number: whole days since the collection was created.
func (p *Provider) today(ctx context.Context) (int64, error) {
	crt, err := p.col.CreatedAt(ctx)
	if err != nil {
		return 0, err
	}
	return max(p.now().Unix()-crt, 0) / secondsPerDay, nil
}

func fieldsValue(values provider.Values) (string, error) {
	if len(values) != 1 {
		return "", fmt.Errorf("only the flds column can be updated")
	}
	v, ok := values["flds"]
	if !ok {
		return "", fmt.Errorf("only the flds column can be updated")
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("flds must be a string, got %T", v)
	}
	return s, nil
}

func toArgs(args []string) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
