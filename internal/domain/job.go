package domain

// JobPosting is a candidate posting returned by a job-search provider.
type JobPosting struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Location     string `json:"location,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Source       string `json:"source"`
}

// JobQuery is the search input passed to providers.
type JobQuery struct {
	Keywords string
	Location string
	Limit    int
}
