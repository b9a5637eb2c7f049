package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
)

// AuditReader is the read side of the audit log.
type AuditReader interface {
	List(ctx context.Context, opts domain.ListOpts) ([]domain.AuditEntry, error)
}

// AuditHandler serves the admin audit log endpoint.
type AuditHandler struct {
	store  AuditReader
	logger *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(store AuditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{store: store, logger: logger}
}

// List returns audit entries, newest first.
// GET /api/audit
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context(), parseListOpts(r))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "failed to list audit log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
