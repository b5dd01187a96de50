package anki

import (
	"context"
	"errors"

	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
)

// Status checks that AnkiDroid is installed and its provider answers. It
// never fails; problems are reported through the returned Status.
func (c *Client) Status(ctx context.Context) models.Status {
	log := logger.FromContext(ctx).WithPrefix("anki")

	installed := c.packages.IsInstalled(ctx, c.pkg)
	visible := c.packages.ResolveProvider(ctx, c.authority)

	if !installed {
		log.Debug("package %s not installed", c.pkg)
		return models.Status{
			Installed:        false,
			ProviderVisible:  visible,
			LastErrorCode:    strPtr(apperrors.ErrCodeNotInstalled),
			LastErrorMessage: strPtr("AnkiDroid is not installed"),
		}
	}
	if !visible {
		log.Debug("provider %s not visible", c.authority)
		return models.Status{
			Installed:        true,
			LastErrorCode:    strPtr(apperrors.ErrCodeProviderNotFound),
			LastErrorMessage: strPtr("AnkiDroid content provider not visible; check the <queries> manifest entry"),
		}
	}

	failed := func(code, message string) models.Status {
		log.Warn("provider probe failed: %s: %s", code, message)
		return models.Status{
			Installed:        true,
			ProviderVisible:  true,
			LastErrorCode:    strPtr(code),
			LastErrorMessage: strPtr(message),
		}
	}

	// Zero-row probe: confirms the channel answers without reading anything.
	cur, err := c.resolver.Query(ctx, c.uris.NotesV2, []string{"_id"}, "1=0", nil, "")
	if err != nil {
		if errors.Is(err, provider.ErrPermissionDenied) {
			return failed(apperrors.ErrCodePermissionDenied, err.Error())
		}
		return failed(apperrors.ErrCodeQueryFailed, err.Error())
	}
	if cur == nil {
		return failed(apperrors.ErrCodeNullCursor, "provider returned null cursor; open AnkiDroid once and retry")
	}
	_ = cur.Close()

	return models.Status{
		Installed:          true,
		ProviderVisible:    true,
		ProviderAccessible: true,
	}
}
