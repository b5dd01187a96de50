package anki

import (
	"context"

	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/provider"
)

// ModelFieldNames returns the ordered field names of a model. Lookup failures
// are logged and reported as unavailable.
func (c *Client) ModelFieldNames(ctx context.Context, modelID int64) ([]string, bool) {
	if modelID == 0 {
		return nil, false
	}
	return c.modelFields.GetOrCompute(modelID, func(id int64) ([]string, bool) {
		raw, ok := c.lookupString(ctx, c.uris.Models.AppendID(id), "field_names")
		if !ok {
			return nil, false
		}
		names := fields.NonBlank(fields.Split(raw))
		if len(names) == 0 {
			return nil, false
		}
		return names, true
	})
}

// DeckName returns the name of a deck, or false when it cannot be resolved.
func (c *Client) DeckName(ctx context.Context, deckID int64) (string, bool) {
	return c.deckNames.GetOrCompute(deckID, func(id int64) (string, bool) {
		name, ok := c.lookupString(ctx, c.uris.Decks.AppendID(id), "deck_name")
		if !ok || fields.IsBlank(name) {
			return "", false
		}
		return name, true
	})
}

// lookupString reads one column of the first row at uri. It never fails.
func (c *Client) lookupString(ctx context.Context, uri provider.URI, column string) (string, bool) {
	log := logger.FromContext(ctx).WithPrefix("anki")

	cur, err := c.resolver.Query(ctx, uri, []string{column}, "", nil, "")
	if err != nil {
		log.Debug("lookup %s failed: %v", uri, err)
		return "", false
	}
	if cur == nil {
		return "", false
	}
	defer cur.Close()

	if !cur.Next() {
		return "", false
	}
	idx, ok := provider.Lookup(cur.Columns(), column).Pos()
	if !ok {
		log.Debug("lookup %s: column %s missing", uri, column)
		return "", false
	}
	return cur.String(idx)
}
