package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	if c.ID == 0 {
		id, err := nextID(ctx, r.db, "cards")
		if err != nil {
			return 0, err
		}
		c.ID = id
	}
	if c.Mod == 0 {
		c.Mod = nowSeconds()
	}
	log.Debug("inserting card: id=%d, nid=%d, did=%d", c.ID, c.NoteID, c.DeckID)

	stmt, args, err := sqlBuilder.Insert("cards").
		Columns("id", "nid", "did", "ord", "mod", "usn", "type", "queue", "due").
		Values(c.ID, c.NoteID, c.DeckID, c.Ord, c.Mod, pendingUSN, c.Type, c.Queue, c.Due).
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	return c.ID, nil
}

func (r *cardRepository) DeckCounts(ctx context.Context, today int64) (map[int64]models.DeckCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("computing deck counts: today=%d", today)

	stmt, args, err := sqlBuilder.
		Select("did", "SUM(CASE WHEN queue IN (1, 3) THEN 1 ELSE 0 END)").
		Column("SUM(CASE WHEN queue = 2 AND due <= ? THEN 1 ELSE 0 END)", today).
		Column("SUM(CASE WHEN queue = 0 THEN 1 ELSE 0 END)").
		From("cards").
		GroupBy("did").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to compute deck counts: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := map[int64]models.DeckCounts{}
	for rows.Next() {
		var did int64
		var c models.DeckCounts
		if err := rows.Scan(&did, &c.LearnCount, &c.ReviewCount, &c.NewCount); err != nil {
			log.Error("failed to scan deck counts: %v", err)
			return nil, err
		}
		counts[did] = c
	}
	return counts, rows.Err()
}
