package models

import "time"

// Response is the envelope of every artifact server reply.
type Response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Count   int          `json:"count,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ArtifactStatus describes one pipeline output on disk.
type ArtifactStatus struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Present    bool       `json:"present"`
	Size       int64      `json:"size,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// CacheStats mirrors the artifact cache counters.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Artifacts []ArtifactStatus `json:"artifacts"`
	Cache     CacheStats       `json:"cache"`
}
