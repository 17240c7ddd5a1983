package printing

import (
	"time"
)

// DocumentResult describes a generated and stored PDF
type DocumentResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	PageCount int       `json:"page_count"`
	SizeBytes int       `json:"size_bytes"`
}
