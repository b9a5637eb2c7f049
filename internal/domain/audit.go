package domain

import "time"

// AuditEntry is a single append-only audit log row.
type AuditEntry struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"userId"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  int64          `json:"entityId,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
