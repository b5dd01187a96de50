package anki

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

// New cards have both type and queue equal to 0.
const newNotesSelection = "id IN (SELECT nid FROM cards WHERE did=? AND type=0 AND queue=0)"

var newNotesProjection = []string{"_id", "mid", "flds", "sfld"}

// newNotesOrder orders notes by their earliest new card in the deck, then by
// note id. The deck id is inlined because sort orders take no arguments.
func newNotesOrder(order NewCardOrder, deckID int64) string {
	column := "cards.id"
	if order == OrderByCardMod {
		column = "cards.mod"
	}
	return fmt.Sprintf(
		"(SELECT MIN(%s) FROM cards WHERE cards.nid = notes.id AND did=%d AND type=0 AND queue=0) ASC, id ASC",
		column, deckID,
	)
}

// TodayNewCards returns up to limit notes of a deck that still have new
// cards, oldest first, with fields named from the note's model.
func (c *Client) TodayNewCards(ctx context.Context, deckID int64, limit int) ([]models.CardView, error) {
	log := logger.FromContext(ctx).WithPrefix("anki")

	limit = min(max(limit, 0), maxNewCardLimit)
	deckID = max(deckID, 0)

	if err := c.checkAvailable(ctx); err != nil {
		return nil, err
	}
	if deckID <= 0 {
		return nil, apperrors.NewInvalidArgumentError("deckId is required")
	}
	if limit == 0 {
		return []models.CardView{}, nil
	}

	notes, err := c.queryNewNotes(ctx, deckID, limit)
	if err != nil {
		return nil, err
	}

	deckName, ok := c.DeckName(ctx, deckID)
	if !ok {
		deckName = unknownDeckName
	}

	cards := make([]models.CardView, 0, len(notes))
	for _, n := range notes {
		cards = append(cards, c.cardView(ctx, n, deckName))
	}
	log.Debug("deck %d: %d new cards (limit %d)", deckID, len(cards), limit)
	return cards, nil
}

func (c *Client) cardView(ctx context.Context, n models.NoteRecord, deckName string) models.CardView {
	names, _ := c.ModelFieldNames(ctx, n.ModelID)
	values := fields.Split(n.RawFields)

	back := make([]models.FieldValue, len(values))
	for i, v := range values {
		name := fmt.Sprintf("Field %d", i+1)
		if i < len(names) {
			name = names[i]
		}
		back[i] = models.FieldValue{Name: name, Value: v}
	}

	front := ""
	switch {
	case len(values) > 0 && !fields.IsBlank(values[0]):
		front = values[0]
	case n.SortField != nil:
		front = *n.SortField
	}

	return models.CardView{
		CardID:     strconv.FormatInt(n.NoteID, 10),
		ModelID:    n.ModelID,
		DeckName:   deckName,
		FrontText:  front,
		BackFields: back,
	}
}

func (c *Client) queryNewNotes(ctx context.Context, deckID int64, limit int) ([]models.NoteRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("anki")

	args := []string{strconv.FormatInt(deckID, 10)}
	cur, err := c.resolver.Query(ctx, c.uris.NotesV2, newNotesProjection, newNotesSelection, args, newNotesOrder(c.order, deckID))
	if err != nil {
		log.Error("new notes query failed: %v", err)
		return nil, queryError("failed to query new notes by deck", err)
	}
	if cur == nil {
		log.Warn("new notes query returned null cursor")
		return nil, nil
	}
	defer cur.Close()

	cols := cur.Columns()
	idIdx, idOK := provider.Lookup(cols, "_id", "id").Pos()
	midIdx, midOK := provider.Lookup(cols, "mid").Pos()
	fldsIdx, fldsOK := provider.Lookup(cols, "flds").Pos()
	if !idOK || !midOK || !fldsOK {
		return nil, apperrors.NewSchemaMismatchError("unexpected notes schema from provider (missing _id/mid/flds)", cols)
	}
	sfld := provider.Lookup(cols, "sfld")

	var rows []models.NoteRecord
	for len(rows) < limit && cur.Next() {
		raw, _ := cur.String(fldsIdx)
		if fields.IsBlank(raw) {
			continue
		}
		noteID, err := cur.Int64(idIdx)
		if err != nil {
			return nil, queryError("failed to read note id", err)
		}
		modelID, err := cur.Int64(midIdx)
		if err != nil {
			return nil, queryError("failed to read model id", err)
		}

		rec := models.NoteRecord{NoteID: noteID, ModelID: modelID, RawFields: raw}
		if pos, ok := sfld.Pos(); ok {
			if s, ok := cur.String(pos); ok {
				rec.SortField = &s
			}
		}
		rows = append(rows, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, queryError("failed to read new notes", err)
	}
	return rows, nil
}
