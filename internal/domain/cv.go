package domain

import "time"

// ParsedCVData is the loosely typed result of CV field inference.
type ParsedCVData struct {
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Skills      []string `json:"skills"`
	Experience  []string `json:"experience"`
	Education   []string `json:"education"`
	Summary     string   `json:"summary"`
	TextLength  int      `json:"textLength"`
	Placeholder bool     `json:"placeholder,omitempty"`
	Degraded    bool     `json:"degraded,omitempty"`
}

// CV is one uploaded résumé file.
type CV struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	FileName     string        `json:"fileName"`
	OriginalName string        `json:"originalName"`
	MimeType     string        `json:"mimeType"`
	SizeBytes    int64         `json:"sizeBytes"`
	ParsedData   *ParsedCVData `json:"parsedData,omitempty"`
	UploadedAt   time.Time     `json:"uploadedAt"`
}
