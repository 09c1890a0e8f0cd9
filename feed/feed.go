package feed

import "time"

// Feed contains the data associated with a feed stored in the database
type Feed struct {
	ID            int64      `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	CustomTitle   bool       `json:"customTitle"`
	FolderID      *int64     `json:"folderId"`
	Position      int        `json:"position"`
	FailureCount  int        `json:"failureCount"`
	IsAvailable   bool       `json:"isAvailable"`
	LastFetchedAt *time.Time `json:"lastFetchedAt"`
	NextCheckAt   time.Time  `json:"nextCheckAt"`
	HubURL        string     `json:"hubUrl,omitempty"`
	TopicURL      string     `json:"topicUrl,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Folder contains the data associated with a feed folder stored in the
// database
type Folder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Entry contains the data associated with a single feed entry stored in the
// database. URL is unique within a feed; entries beyond the retention cap are
// deleted, newest-first by Published
type Entry struct {
	ID        int64     `json:"id"`
	FeedID    int64     `json:"feedId"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published time.Time `json:"published"`
	Read      bool      `json:"read"`
	Starred   bool      `json:"starred"`
}

// Subscription contains the hub registration state for a feed. IsActive only
// becomes true once the hub has confirmed the registration via the
// verification callback
type Subscription struct {
	ID           int64     `json:"id"`
	FeedID       int64     `json:"feedId"`
	HubURL       string    `json:"hubUrl"`
	TopicURL     string    `json:"topicUrl"`
	Secret       string    `json:"-"`
	LeaseSeconds int       `json:"leaseSeconds"`
	ExpiresAt    time.Time `json:"expiresAt"`
	IsActive     bool      `json:"isActive"`
	ErrorCount   int       `json:"errorCount"`
	LastError    string    `json:"lastError,omitempty"`
}

// ParsedEntry is a single entry extracted from a raw feed document, sanitized
// and ready to merge into the entry store
type ParsedEntry struct {
	URL       string
	Title     string
	Content   string
	Published time.Time
}

// ParsedFeed is the normalized result of parsing a raw feed document. HubURL
// and TopicURL are empty unless endpoint discovery found them
type ParsedFeed struct {
	Title    string
	Entries  []*ParsedEntry
	HubURL   string
	TopicURL string
}

// RefreshResult aggregates the outcome of one poll refresh cycle
type RefreshResult struct {
	Refreshed int      `json:"refreshed"`
	Errors    []string `json:"errors"`
}

// RenewalOutcome is the per-subscription result of a renewal run
type RenewalOutcome struct {
	FeedID       int64      `json:"feedId"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	ErrorCount   int        `json:"errorCount,omitempty"`
	NewExpiresAt *time.Time `json:"newExpiresAt,omitempty"`
}

// RenewalResult aggregates the outcome of one subscription renewal run
type RenewalResult struct {
	Renewed int               `json:"renewed"`
	Failed  int               `json:"failed"`
	Results []*RenewalOutcome `json:"results"`
}

// UnreadCounts groups unread entry totals by feed and by folder
type UnreadCounts struct {
	Total    int           `json:"total"`
	ByFolder map[int64]int `json:"byFolder"`
	ByFeed   map[int64]int `json:"byFeed"`
}
