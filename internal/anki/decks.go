package anki

import (
	"context"
	"strconv"
	"strings"

	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

var deckProjection = []string{"deck_id", "deck_name", "deck_count"}

// Decks lists all decks with their pending counts, in provider order.
func (c *Client) Decks(ctx context.Context) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("anki")

	if err := c.checkAvailable(ctx); err != nil {
		return nil, err
	}

	cur, err := c.resolver.Query(ctx, c.uris.Decks, deckProjection, "", nil, "")
	if err != nil {
		log.Error("deck query failed: %v", err)
		return nil, queryError("failed to query decks from AnkiDroid provider", err)
	}
	if cur == nil {
		log.Warn("deck query returned null cursor")
		return []models.DeckSummary{}, nil
	}
	defer cur.Close()

	cols := cur.Columns()
	idIdx, ok := provider.Lookup(cols, "deck_id").Pos()
	if !ok {
		return nil, apperrors.NewSchemaMismatchError("unexpected decks schema (missing deck_id)", cols)
	}
	nameIdx, ok := provider.Lookup(cols, "deck_name").Pos()
	if !ok {
		return nil, apperrors.NewSchemaMismatchError("unexpected decks schema (missing deck_name)", cols)
	}
	countIdx := provider.Lookup(cols, "deck_count")

	decks := []models.DeckSummary{}
	for cur.Next() {
		id, err := cur.Int64(idIdx)
		if err != nil {
			return nil, queryError("failed to read deck id", err)
		}
		name, _ := cur.String(nameIdx)

		var counts *models.DeckCounts
		if pos, ok := countIdx.Pos(); ok {
			if raw, ok := cur.String(pos); ok {
				counts = ParseDeckCounts(raw)
			}
		}

		d := models.DeckSummary{DeckID: id, DeckName: name}
		if counts != nil {
			d.LearnCount = &counts.LearnCount
			d.ReviewCount = &counts.ReviewCount
			d.NewCount = &counts.NewCount
		}
		decks = append(decks, d)
	}
	if err := cur.Err(); err != nil {
		return nil, queryError("failed to read decks", err)
	}

	log.Debug("found %d decks", len(decks))
	return decks, nil
}

// ParseDeckCounts parses the provider's "[learn,review,new]" count string.
// Anything malformed yields nil.
func ParseDeckCounts(raw string) *models.DeckCounts {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 3 {
		return nil
	}
	var n [3]int
	for i := range n {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil
		}
		n[i] = v
	}
	return &models.DeckCounts{LearnCount: n[0], ReviewCount: n[1], NewCount: n[2]}
}
