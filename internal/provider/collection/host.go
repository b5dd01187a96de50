package collection

import (
	"context"

	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/provider"
)

// Pinger reports whether the collection is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Host implements provider.PackageManager for a local collection. The app
// counts as installed while the collection answers, and only the configured
// authority resolves.
type Host struct {
	db        Pinger
	pkg       string
	authority string
}

// NewHost creates a Host for db. Empty names fall back to AnkiDroid's.
func NewHost(db Pinger, pkg, authority string) *Host {
	if pkg == "" {
		pkg = provider.Package
	}
	if authority == "" {
		authority = provider.Authority
	}
	return &Host{db: db, pkg: pkg, authority: authority}
}

func (h *Host) IsInstalled(ctx context.Context, pkg string) bool {
	if pkg != h.pkg {
		return false
	}
	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("collection").Warn("collection unavailable: %v", err)
		return false
	}
	return true
}

func (h *Host) ResolveProvider(_ context.Context, authority string) bool {
	return authority == h.authority
}
