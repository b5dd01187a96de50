package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/repository"
)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository implementation
func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Get(ctx context.Context, id int64) (*models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("getting note: id=%d", id)

	var n models.Note
	err := r.db.QueryRowContext(ctx, `
SELECT id, guid, mid, mod, tags, flds, sfld, csum
FROM notes
WHERE id = ?
`, id).Scan(&n.ID, &n.GUID, &n.ModelID, &n.Mod, &n.Tags, &n.Fields, &n.SortFld, &n.Csum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found: id=%d", id)
		} else {
			log.Error("failed to get note: %v", err)
		}
		return nil, err
	}
	return &n, nil
}

func (r *noteRepository) Select(ctx context.Context, q repository.NoteQuery) (*repository.Rows, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	columns := q.Columns
	if len(columns) == 0 {
		columns = []string{"id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld", "csum"}
	}
	query := sqlBuilder.Select(columns...).From("notes")
	if q.Where != "" {
		query = query.Where(q.Where, q.Args...)
	}
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	log.Debug("selecting notes: %s", stmt)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to select notes: %v", err)
		return nil, err
	}
	out, err := readAll(rows)
	if err != nil {
		log.Error("failed to read note rows: %v", err)
		return nil, err
	}
	log.Debug("selected %d notes", len(out.Values))
	return out, nil
}

func (r *noteRepository) UpdateFields(ctx context.Context, where string, args []any, flds string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	values := fields.Split(flds)
	stmt, stmtArgs, err := sqlBuilder.Update("notes").
		Set("flds", flds).
		Set("sfld", fields.SortField(values)).
		Set("csum", fields.Checksum(values)).
		Set("mod", nowSeconds()).
		Set("usn", pendingUSN).
		Where(where, args...).
		ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, stmt, stmtArgs...)
	if err != nil {
		log.Error("failed to update note fields: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("updated fields of %d notes", n)
	return n, nil
}

func (r *noteRepository) Insert(ctx context.Context, n models.Note) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	if n.ID == 0 {
		id, err := nextID(ctx, r.db, "notes")
		if err != nil {
			return 0, err
		}
		n.ID = id
	}
	if n.GUID == "" {
		n.GUID = uuid.NewString()
	}
	if n.Mod == 0 {
		n.Mod = nowSeconds()
	}
	values := fields.Split(n.Fields)
	log.Debug("inserting note: id=%d, mid=%d", n.ID, n.ModelID)

	stmt, args, err := sqlBuilder.Insert("notes").
		Columns("id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld", "csum").
		Values(n.ID, n.GUID, n.ModelID, n.Mod, pendingUSN, n.Tags, n.Fields, fields.SortField(values), fields.Checksum(values)).
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		log.Error("failed to insert note: %v", err)
		return 0, err
	}
	log.Debug("note inserted: id=%d", n.ID)
	return n.ID, nil
}
