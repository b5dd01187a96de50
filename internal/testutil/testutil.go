package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/ankibridge/internal/db"
	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/repository"
	"github.com/vytor/ankibridge/internal/repository/sqlite"
)

// Collection is an in-memory collection with its repositories.
type Collection struct {
	DB    *db.DB
	Notes repository.NoteRepository
	Cards repository.CardRepository
	Col   repository.CollectionRepository
}

// NewTestCollection creates an in-memory collection with the schema applied.
// It is closed when the test ends.
func NewTestCollection(t *testing.T) *Collection {
	t.Helper()

	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return &Collection{
		DB:    database,
		Notes: sqlite.NewNoteRepository(database.DB),
		Cards: sqlite.NewCardRepository(database.DB),
		Col:   sqlite.NewCollectionRepository(database.DB),
	}
}

// AddDeck registers a deck.
func (c *Collection) AddDeck(t *testing.T, id int64, name string) {
	t.Helper()
	require.NoError(t, c.Col.SaveDeck(context.Background(), models.Deck{ID: id, Name: name}))
}

// AddModel registers a note type with the given field names.
func (c *Collection) AddModel(t *testing.T, id int64, name string, fieldNames ...string) {
	t.Helper()
	m := models.NoteModel{ID: id, Name: name}
	for i, n := range fieldNames {
		m.Fields = append(m.Fields, models.ModelField{Name: n, Ord: i})
	}
	require.NoError(t, c.Col.SaveModel(context.Background(), m))
}

// AddNote inserts a note with the given field values.
func (c *Collection) AddNote(t *testing.T, id, modelID int64, values ...string) int64 {
	t.Helper()
	noteID, err := c.Notes.Insert(context.Background(), models.Note{
		ID:      id,
		ModelID: modelID,
		Fields:  fields.Join(values),
	})
	require.NoError(t, err)
	return noteID
}

// AddCard inserts a card.
func (c *Collection) AddCard(t *testing.T, card models.Card) int64 {
	t.Helper()
	id, err := c.Cards.Insert(context.Background(), card)
	require.NoError(t, err)
	return id
}

// AddNewCard inserts a new (type 0, queue 0) card for a note.
func (c *Collection) AddNewCard(t *testing.T, id, noteID, deckID int64) int64 {
	t.Helper()
	return c.AddCard(t, models.Card{
		ID:     id,
		NoteID: noteID,
		DeckID: deckID,
		Type:   models.CardTypeNew,
		Queue:  models.QueueNew,
	})
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
