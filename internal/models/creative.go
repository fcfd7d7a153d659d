package models

// Generation job states. A job moves generating -> ready exactly once.
const (
	StatusGenerating = "generating"
	StatusReady      = "ready"
)

// Creative is the typed view of a generation job document.
type Creative struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Prompt     string  `json:"prompt"`
	Style      string  `json:"style"`
	Platform   string  `json:"platform"`
	Dimensions string  `json:"dimensions"`
	URL        *string `json:"url"`
	Status     string  `json:"status"`
	Error      *string `json:"error,omitempty"`
	StorageKey string  `json:"storageKey,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// JobStatus is what pollers see.
type JobStatus struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	URL    *string `json:"url"`
	Error  *string `json:"error,omitempty"`
}

func (c Creative) JobStatus() JobStatus {
	return JobStatus{ID: c.ID, Status: c.Status, URL: c.URL, Error: c.Error}
}
