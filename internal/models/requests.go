package models

// ListQuery holds query parameters for event listing endpoints
type ListQuery struct {
	Limit int `form:"limit"`
}

// UpdateLabelRequest renames a visit. Label is a pointer so an explicit
// empty string (clear the label) is distinguishable from a missing field.
type UpdateLabelRequest struct {
	Label *string `json:"label"`
}

// SavePlaceRequest upserts a named place by label
type SavePlaceRequest struct {
	Label        string  `json:"label" binding:"required"`
	Latitude     float64 `json:"lat" binding:"required"`
	Longitude    float64 `json:"lon" binding:"required"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// ActivityBatchRequest is a batch of classifier readings reported by a device
type ActivityBatchRequest struct {
	Readings []ActivityReading `json:"readings" binding:"required"`
}

// LocationReportRequest is a device-reported fix used as the last-known
// location tier
type LocationReportRequest struct {
	Latitude  float64 `json:"lat" binding:"required"`
	Longitude float64 `json:"lon" binding:"required"`
	Address   string  `json:"address"`
}

// PendingBatchRequest enqueues raw watcher events into the native buffer
type PendingBatchRequest struct {
	Events []PendingRawEvent `json:"events" binding:"required"`
}

// SimulateRequest triggers a manual start/park transition
type SimulateRequest struct {
	Kind string `json:"kind" binding:"required"` // "start" or "park"
}

// MigrationSummary reports the outcome of the one-time backfill pass
type MigrationSummary struct {
	UpdatedCount int      `json:"updatedCount"`
	TotalCount   int      `json:"totalCount"`
	Errors       []string `json:"errors"`
}
