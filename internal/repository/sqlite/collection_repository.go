package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/repository"
)

// The legacy schema keeps a single col row holding the deck and model
// registries as JSON objects keyed by id.
const colRowID = 1

type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository implementation
func NewCollectionRepository(db *sql.DB) repository.CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) CreatedAt(ctx context.Context) (int64, error) {
	var crt int64
	err := r.db.QueryRowContext(ctx, `SELECT crt FROM col WHERE id = ?`, colRowID).Scan(&crt)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("collection_repo").Error("failed to read collection creation time: %v", err)
		return 0, err
	}
	return crt, nil
}

func (r *collectionRepository) Decks(ctx context.Context) ([]models.Deck, error) {
	registry := map[string]models.Deck{}
	if err := readRegistry(ctx, r.db, "decks", &registry); err != nil {
		return nil, err
	}
	decks := make([]models.Deck, 0, len(registry))
	for _, d := range registry {
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool {
		if decks[i].Name != decks[j].Name {
			return decks[i].Name < decks[j].Name
		}
		return decks[i].ID < decks[j].ID
	})
	return decks, nil
}

func (r *collectionRepository) Deck(ctx context.Context, id int64) (*models.Deck, error) {
	registry := map[string]models.Deck{}
	if err := readRegistry(ctx, r.db, "decks", &registry); err != nil {
		return nil, err
	}
	d, ok := registry[strconv.FormatInt(id, 10)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (r *collectionRepository) SaveDeck(ctx context.Context, deck models.Deck) error {
	if deck.Mod == 0 {
		deck.Mod = nowSeconds()
	}
	return tx(ctx, r.db, func(t *sql.Tx) error {
		registry := map[string]models.Deck{}
		if err := readRegistry(ctx, t, "decks", &registry); err != nil {
			return err
		}
		registry[strconv.FormatInt(deck.ID, 10)] = deck
		return writeRegistry(ctx, t, "decks", registry)
	})
}

func (r *collectionRepository) Models(ctx context.Context) ([]models.NoteModel, error) {
	registry := map[string]models.NoteModel{}
	if err := readRegistry(ctx, r.db, "models", &registry); err != nil {
		return nil, err
	}
	out := make([]models.NoteModel, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *collectionRepository) Model(ctx context.Context, id int64) (*models.NoteModel, error) {
	registry := map[string]models.NoteModel{}
	if err := readRegistry(ctx, r.db, "models", &registry); err != nil {
		return nil, err
	}
	m, ok := registry[strconv.FormatInt(id, 10)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (r *collectionRepository) SaveModel(ctx context.Context, model models.NoteModel) error {
	if model.Mod == 0 {
		model.Mod = nowSeconds()
	}
	return tx(ctx, r.db, func(t *sql.Tx) error {
		registry := map[string]models.NoteModel{}
		if err := readRegistry(ctx, t, "models", &registry); err != nil {
			return err
		}
		registry[strconv.FormatInt(model.ID, 10)] = model
		return writeRegistry(ctx, t, "models", registry)
	})
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// readRegistry decodes one JSON column of the col row. column is always one
// of the fixed registry names, never user input.
func readRegistry(ctx context.Context, q queryRower, column string, dst any) error {
	log := logger.FromContext(ctx).WithPrefix("collection_repo")

	stmt, args, err := sqlBuilder.Select(column).From("col").Where("id = ?", colRowID).ToSql()
	if err != nil {
		return err
	}
	var raw string
	if err := q.QueryRowContext(ctx, stmt, args...).Scan(&raw); err != nil {
		log.Error("failed to read %s registry: %v", column, err)
		return err
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Error("malformed %s registry: %v", column, err)
		return fmt.Errorf("decode %s registry: %w", column, err)
	}
	return nil
}

func writeRegistry(ctx context.Context, e execer, column string, registry any) error {
	raw, err := json.Marshal(registry)
	if err != nil {
		return err
	}
	stmt, args, err := sqlBuilder.Update("col").
		Set(column, string(raw)).
		Set("mod", nowSeconds()*1000).
		Where("id = ?", colRowID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := e.ExecContext(ctx, stmt, args...); err != nil {
		logger.FromContext(ctx).WithPrefix("collection_repo").Error("failed to write %s registry: %v", column, err)
		return err
	}
	return nil
}
