package models

// PostResults is the response body of a batch POST to a collection.
// Items that were stored successfully are listed by ID in Success; items
// whose upsert failed appear in Failed keyed by ID with a short reason.
// Modified is the single timestamp shared by every upsert in the batch.
type PostResults struct {
	Modified float64           `json:"modified"`
	Success  []string          `json:"success"`
	Failed   map[string]string `json:"failed"`
}

// NewPostResults returns a PostResults with both containers initialized so
// that an empty batch still serializes as [] and {} rather than null.
func NewPostResults(modified float64) *PostResults {
	return &PostResults{
		Modified: modified,
		Success:  make([]string, 0),
		Failed:   make(map[string]string),
	}
}

// AdminToken is the response of a successful admin login.
type AdminToken struct {
	Token string `json:"token"`
}

// ClientCount is the admin API representation of the number of sync
// clients attached to an account.
type ClientCount struct {
	Clients int64 `json:"clients"`
}

// QuotaSetting is the admin API representation of the sync quota.
type QuotaSetting struct {
	// Limit is the storage cap in kB. Zero means unlimited.
	Limit int64 `json:"limit"`
}
