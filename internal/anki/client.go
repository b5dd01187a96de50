// Package anki reads and patches AnkiDroid flashcard data through the
// provider's content-query interface.
//
// A Client performs every operation as a short sequence of blocking
// resolver calls and keeps no connection state between calls. The only
// state it carries is two read-through caches (deck names and model field
// names). Callers are expected to issue one call at a time per Client; the
// bridge package serialises calls through a single worker.
package anki

import (
	"context"
	"errors"

	"github.com/vytor/ankibridge/internal/cache"
	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/metrics"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

// NewCardOrder selects the tie-break used to order new notes.
type NewCardOrder string

const (
	// OrderByCardID orders notes by the id of their earliest new card. Card ids
	// are creation timestamps in milliseconds.
	OrderByCardID NewCardOrder = "id"
	// OrderByCardMod orders notes by the earliest modification time of their new cards.
	OrderByCardMod NewCardOrder = "mod"
)

// ParseNewCardOrder maps a config value to a NewCardOrder, defaulting to OrderByCardID.
func ParseNewCardOrder(s string) NewCardOrder {
	if NewCardOrder(s) == OrderByCardMod {
		return OrderByCardMod
	}
	return OrderByCardID
}

const (
	maxNewCardLimit = 1000
	unknownDeckName = "Unknown Deck"
)

// Client talks to one provider authority.
type Client struct {
	resolver  provider.Resolver
	packages  provider.PackageManager
	pkg       string
	authority string
	uris      provider.URIs
	order     NewCardOrder
	marker    string
	metrics   *metrics.Metrics

	deckStore   cache.Store[int64, string]
	fieldStore  cache.Store[int64, []string]
	deckNames   *cache.Cache[int64, string]
	modelFields *cache.Cache[int64, []string]
}

// Option configures a Client.
type Option func(*Client)

// WithPackage overrides the package checked for installation.
func WithPackage(pkg string) Option {
	return func(c *Client) {
		c.pkg = pkg
	}
}

// WithAuthority overrides the provider authority.
func WithAuthority(authority string) Option {
	return func(c *Client) {
		c.authority = authority
	}
}

// WithNewCardOrder selects how new notes are ordered.
func WithNewCardOrder(order NewCardOrder) Option {
	return func(c *Client) {
		c.order = order
	}
}

// WithDefaultMarker sets the marker used when an append request names none.
func WithDefaultMarker(marker string) Option {
	return func(c *Client) {
		if marker != "" {
			c.marker = marker
		}
	}
}

// WithMetrics records cache and update metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithDeckNameStore replaces the in-memory deck name store.
func WithDeckNameStore(s cache.Store[int64, string]) Option {
	return func(c *Client) {
		c.deckStore = s
	}
}

// WithModelFieldStore replaces the in-memory model field name store.
func WithModelFieldStore(s cache.Store[int64, []string]) Option {
	return func(c *Client) {
		c.fieldStore = s
	}
}

// New creates a Client for the AnkiDroid provider.
func New(resolver provider.Resolver, packages provider.PackageManager, opts ...Option) *Client {
	c := &Client{
		resolver:  resolver,
		packages:  packages,
		pkg:       provider.Package,
		authority: provider.Authority,
		order:     OrderByCardID,
		marker:    models.DefaultMarker,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.uris = provider.URIsFor(c.authority)

	if c.deckStore == nil {
		c.deckStore = cache.NewMapStore[int64, string]()
	}
	if c.fieldStore == nil {
		c.fieldStore = cache.NewMapStore[int64, []string]()
	}
	c.deckNames = cache.New[int64, string](
		cache.WithStore[int64, string](c.deckStore),
		cache.WithObserver[int64, string](c.metrics.CacheObserver("deck_name")),
	)
	c.modelFields = cache.New[int64, []string](
		cache.WithStore[int64, []string](c.fieldStore),
		cache.WithObserver[int64, []string](c.metrics.CacheObserver("model_fields")),
	)
	return c
}

// checkAvailable enforces the installation and visibility preconditions.
func (c *Client) checkAvailable(ctx context.Context) error {
	if !c.packages.IsInstalled(ctx, c.pkg) {
		return apperrors.NewNotInstalledError()
	}
	if !c.packages.ResolveProvider(ctx, c.authority) {
		return apperrors.NewProviderNotFoundError()
	}
	return nil
}

// queryError converts a resolver failure into the client's taxonomy. Errors
// that already carry a code pass through unchanged.
func queryError(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, provider.ErrPermissionDenied) {
		return apperrors.NewPermissionDeniedError("AnkiDroid provider access denied", err)
	}
	return apperrors.NewQueryFailedError(message, err)
}

func strPtr(s string) *string {
	return &s
}
