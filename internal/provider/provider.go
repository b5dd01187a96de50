// Package provider describes the content-query interface AnkiDroid exposes
// to other applications: URIs, cursors, the resolver used to query and update
// them, and the package manager used to find the provider.
package provider

import (
	"context"
	"errors"
)

const (
	// Package is the Android package name of AnkiDroid.
	Package = "com.ichi2.anki"
	// Authority identifies the AnkiDroid flashcards provider.
	Authority = "com.ichi2.anki.flashcards"
)

// Collection names exposed by the provider.
const (
	CollectionNotes   = "notes"
	CollectionNotesV2 = "notes_v2"
	CollectionDecks   = "decks"
	CollectionModels  = "models"
)

var (
	// ErrPermissionDenied is returned when the caller lacks access to the provider.
	ErrPermissionDenied = errors.New("provider: permission denied")
	// ErrUnsupportedURI is returned when a URI or selection shape is not accepted.
	ErrUnsupportedURI = errors.New("provider: unsupported uri")
)

// Values holds the column values of an update.
type Values map[string]any

// Resolver queries and updates provider collections.
//
// Query may return a nil Cursor with a nil error; callers treat that as a
// "null cursor" rather than an empty result.
type Resolver interface {
	Query(ctx context.Context, uri URI, projection []string, selection string, selectionArgs []string, sortOrder string) (Cursor, error)
	Update(ctx context.Context, uri URI, values Values, selection string, selectionArgs []string) (int, error)
}

// PackageManager answers installation and provider visibility questions.
type PackageManager interface {
	IsInstalled(ctx context.Context, pkg string) bool
	ResolveProvider(ctx context.Context, authority string) bool
}
