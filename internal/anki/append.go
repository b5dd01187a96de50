package anki

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/fields"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

const (
	payloadBreak = "<br>"
	appendBreak  = "<br><br>"
	idSelection  = "id=?"
	fieldsColumn = "flds"
)

// AppendToNoteField appends generated text, followed by a marker, to one
// field of a note. When the field already contains the marker nothing is
// written and the result is skipped.
func (c *Client) AppendToNoteField(ctx context.Context, req models.AppendRequest) (models.AppendResult, error) {
	log := logger.FromContext(ctx).WithPrefix("anki").WithFields(map[string]any{
		"note_id":  req.NoteID,
		"model_id": req.ModelID,
	})

	noteID := max(req.NoteID, 0)
	modelID := max(req.ModelID, 0)
	key := strings.ToLower(strings.TrimSpace(req.TargetFieldKey))
	marker := req.Marker
	if marker == "" {
		marker = c.marker
	}
	text := fields.TrimEnd(req.GeneratedText)

	if noteID <= 0 {
		return models.AppendResult{}, apperrors.NewInvalidArgumentError("noteId is required")
	}
	if modelID <= 0 {
		return models.AppendResult{}, apperrors.NewInvalidArgumentError("modelId is required")
	}
	if key == "" {
		return models.AppendResult{}, apperrors.NewInvalidArgumentError("targetFieldKey is required")
	}
	if fields.IsBlank(text) {
		return models.AppendResult{}, apperrors.NewInvalidArgumentError("generatedText is empty")
	}
	payload := text + payloadBreak + marker

	if err := c.checkAvailable(ctx); err != nil {
		return models.AppendResult{}, err
	}

	names, ok := c.ModelFieldNames(ctx, modelID)
	if !ok {
		return models.AppendResult{}, apperrors.NewSchemaMismatchError("unable to load model field names", nil)
	}
	fieldIdx := fields.Index(names, key)
	if fieldIdx < 0 {
		return models.AppendResult{}, apperrors.NewFieldNotFoundError(req.TargetFieldKey, names)
	}

	raw, err := c.readNoteFields(ctx, noteID)
	if err != nil {
		return models.AppendResult{}, err
	}
	values := fields.Split(raw)
	if fieldIdx >= len(values) {
		return models.AppendResult{}, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("field index out of range (%d/%d)", fieldIdx, len(values)), nil)
	}

	current := values[fieldIdx]
	if strings.Contains(current, marker) {
		log.Debug("marker already present in field %q, skipping", names[fieldIdx])
		return models.AppendResult{
			Status:   models.AppendSkipped,
			Reason:   models.ReasonMarkerPresent,
			NewValue: current,
		}, nil
	}

	newValue := payload
	if !fields.IsBlank(current) {
		newValue = fields.TrimEnd(current) + appendBreak + payload
	}
	values[fieldIdx] = newValue

	if err := c.updateNoteFields(ctx, noteID, fields.Join(values)); err != nil {
		return models.AppendResult{}, err
	}

	log.Info("appended to field %q", names[fieldIdx])
	return models.AppendResult{Status: models.AppendUpdated, NewValue: newValue}, nil
}

// readNoteFields returns the raw field blob of a note.
func (c *Client) readNoteFields(ctx context.Context, noteID int64) (string, error) {
	args := []string{strconv.FormatInt(noteID, 10)}
	cur, err := c.resolver.Query(ctx, c.uris.NotesV2, []string{"_id", fieldsColumn}, idSelection, args, "")
	if err != nil {
		return "", queryError("failed to read note fields", err)
	}
	if cur == nil {
		return "", apperrors.NewNullCursorError()
	}
	defer cur.Close()

	idx, ok := provider.Lookup(cur.Columns(), fieldsColumn).Pos()
	if !ok {
		return "", apperrors.NewSchemaMismatchError("unexpected notes schema from provider (missing flds)", cur.Columns())
	}
	if !cur.Next() {
		if err := cur.Err(); err != nil {
			return "", queryError("failed to read note fields", err)
		}
		return "", apperrors.NewNoteNotFoundError(noteID)
	}
	raw, _ := cur.String(idx)
	return raw, nil
}

type updateStep struct {
	name      string
	uri       provider.URI
	selection string
	args      []string
}

// updateNoteFields writes flds through an ordered ladder of addressing
// schemes, since provider versions differ in which ones they accept. A step
// runs only after the previous one touched no rows or rejected the URI; the
// first successful write ends the ladder so text is never appended twice.
func (c *Client) updateNoteFields(ctx context.Context, noteID int64, joined string) error {
	log := logger.FromContext(ctx).WithPrefix("anki").WithField("note_id", noteID)

	values := provider.Values{fieldsColumn: joined}
	args := []string{strconv.FormatInt(noteID, 10)}
	steps := []updateStep{
		{name: "record", uri: c.uris.Notes.AppendID(noteID)},
		{name: "notes", uri: c.uris.Notes, selection: idSelection, args: args},
		{name: "notes_v2", uri: c.uris.NotesV2, selection: idSelection, args: args},
	}

	var lastErr error
	for _, step := range steps {
		n, err := c.resolver.Update(ctx, step.uri, values, step.selection, step.args)
		switch {
		case errors.Is(err, provider.ErrPermissionDenied):
			c.metrics.ObserveUpdate(step.name, "permission_denied")
			return apperrors.NewPermissionDeniedError("AnkiDroid provider access denied", err)
		case errors.Is(err, provider.ErrUnsupportedURI):
			c.metrics.ObserveUpdate(step.name, "unsupported")
			log.Debug("update via %s unsupported: %v", step.name, err)
			lastErr = err
			continue
		case err != nil:
			c.metrics.ObserveUpdate(step.name, "error")
			return apperrors.NewUpdateFailedError("note update failed", err)
		case n <= 0:
			c.metrics.ObserveUpdate(step.name, "zero_rows")
			log.Debug("update via %s touched no rows", step.name)
			continue
		}
		c.metrics.ObserveUpdate(step.name, "updated")
		log.Debug("update via %s touched %d rows", step.name, n)
		return nil
	}

	if lastErr != nil {
		return apperrors.NewUpdateFailedError("note update failed (unsupported URI)", lastErr)
	}
	return apperrors.NewUpdateFailedError("provider update returned 0 rows", nil)
}
