package repository

import (
	"context"

	"github.com/vytor/ankibridge/internal/models"
)

// NoteQuery is a SELECT over the notes table. Where and OrderBy are raw SQL
// fragments; Where may use ? placeholders bound to Args.
type NoteQuery struct {
	Columns []string
	Where   string
	Args    []any
	OrderBy string
}

// Rows is a fully read result set.
type Rows struct {
	Columns []string
	Values  [][]any
}

// NoteRepository handles note data access
type NoteRepository interface {
	Get(ctx context.Context, id int64) (*models.Note, error)
	Select(ctx context.Context, q NoteQuery) (*Rows, error)
	// UpdateFields replaces flds of every matching note and refreshes the
	// derived sort field, checksum and modification time.
	UpdateFields(ctx context.Context, where string, args []any, flds string) (int64, error)
	Insert(ctx context.Context, note models.Note) (int64, error)
}

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	// DeckCounts returns learn/review/new counts per deck id. today is the
	// collection day number review due dates are compared against.
	DeckCounts(ctx context.Context, today int64) (map[int64]models.DeckCounts, error)
}

// CollectionRepository handles the collection-wide row: creation time and the
// deck and model registries.
type CollectionRepository interface {
	CreatedAt(ctx context.Context) (int64, error)
	Decks(ctx context.Context) ([]models.Deck, error)
	Deck(ctx context.Context, id int64) (*models.Deck, error)
	SaveDeck(ctx context.Context, deck models.Deck) error
	Models(ctx context.Context) ([]models.NoteModel, error)
	Model(ctx context.Context, id int64) (*models.NoteModel, error)
	SaveModel(ctx context.Context, model models.NoteModel) error
}
