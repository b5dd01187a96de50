package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
	"github.com/vytor/ankibridge/internal/repository"
)

// noteColumns maps provider column names to notes table expressions.
var noteColumns = map[string]string{
	"_id":  "id AS _id",
	"id":   "id",
	"guid": "guid",
	"mid":  "mid",
	"mod":  "mod",
	"usn":  "usn",
	"tags": "tags",
	"flds": "flds",
	"sfld": "sfld",
	"csum": "csum",
}

var defaultNoteProjection = []string{"_id", "guid", "mid", "mod", "tags", "flds", "sfld"}

var deckColumns = []string{"deck_id", "deck_name", "deck_desc", "deck_dyn", "deck_count"}

var modelColumns = []string{"_id", "name", "field_names", "num_fields", "type"}

func (p *Provider) queryNotes(ctx context.Context, projection []string, where string, args []any, orderBy string) (provider.Cursor, error) {
	if len(projection) == 0 {
		projection = defaultNoteProjection
	}
	cols := make([]string, len(projection))
	for i, name := range projection {
		expr, ok := noteColumns[name]
		if !ok {
			return nil, fmt.Errorf("unknown notes column %q", name)
		}
		cols[i] = expr
	}

	rows, err := p.notes.Select(ctx, repository.NoteQuery{
		Columns: cols,
		Where:   where,
		Args:    args,
		OrderBy: orderBy,
	})
	if err != nil {
		return nil, err
	}
	return provider.NewStaticCursor(projection, rows.Values...), nil
}

func (p *Provider) queryDecks(ctx context.Context, projection []string, t target) (provider.Cursor, error) {
	var decks []models.Deck
	if t.hasID {
		d, err := p.col.Deck(ctx, t.id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, err
		default:
			decks = append(decks, *d)
		}
	} else {
		all, err := p.col.Decks(ctx)
		if err != nil {
			return nil, err
		}
		decks = all
	}

	today, err := p.today(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := p.cards.DeckCounts(ctx, today)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(decks))
	for _, d := range decks {
		c := counts[d.ID]
		rows = append(rows, map[string]any{
			"deck_id":    d.ID,
			"deck_name":  d.Name,
			"deck_desc":  d.Desc,
			"deck_dyn":   int64(d.Dyn),
			"deck_count": fmt.Sprintf("[%d,%d,%d]", c.LearnCount, c.ReviewCount, c.NewCount),
		})
	}
	return project(deckColumns, projection, rows)
}

func (p *Provider) queryModels(ctx context.Context, projection []string, t target) (provider.Cursor, error) {
	var list []models.NoteModel
	if t.hasID {
		m, err := p.col.Model(ctx, t.id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return nil, err
		default:
			list = append(list, *m)
		}
	} else {
		all, err := p.col.Models(ctx)
		if err != nil {
			return nil, err
		}
		list = all
	}

	rows := make([]map[string]any, 0, len(list))
	for _, m := range list {
		names := m.FieldNames()
		rows = append(rows, map[string]any{
			"_id":         m.ID,
			"name":        m.Name,
			"field_names": fields.Join(names),
			"num_fields":  int64(len(names)),
			"type":        int64(m.Type),
		})
	}
	return project(modelColumns, projection, rows)
}

// project builds a cursor over computed rows restricted to projection, or to
// all available columns when projection is empty.
func project(available, projection []string, rows []map[string]any) (provider.Cursor, error) {
	if len(projection) == 0 {
		projection = available
	}
	known := make(map[string]bool, len(available))
	for _, c := range available {
		known[c] = true
	}
	for _, c := range projection {
		if !known[c] {
			return nil, fmt.Errorf("unknown column %q", c)
		}
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		v := make([]any, len(projection))
		for j, c := range projection {
			v[j] = row[c]
		}
		values[i] = v
	}
	return provider.NewStaticCursor(projection, values...), nil
}
