package cvparser

import (
	"fmt"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

const degradedName = "Unknown Candidate"

// Parser turns uploaded CV documents into ParsedCVData. Parsing never fails:
// extraction errors produce degraded data so the upload flow can continue.
type Parser struct {
	logger infra.Logger
}

// New constructs a Parser.
func New(logger infra.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts and infers fields from in-memory document bytes.
func (p *Parser) Parse(data []byte, mimeType, name string) domain.ParsedCVData {
	extraction, err := ExtractText(data, mimeType, name)
	return p.finish(extraction, err, name)
}

// ParseFile extracts and infers fields from a document on disk.
func (p *Parser) ParseFile(path, mimeType string) domain.ParsedCVData {
	extraction, err := ExtractFile(path, mimeType)
	return p.finish(extraction, err, path)
}

func (p *Parser) finish(extraction Extraction, err error, name string) domain.ParsedCVData {
	if err != nil {
		p.logger.Warn().Err(err).Str("file", name).Msg("cv parsing failed, returning degraded data")
		return Degraded(err)
	}
	data := Infer(extraction.Text)
	data.Placeholder = extraction.Placeholder
	p.logger.Debug().
		Str("file", name).
		Bool("placeholder", extraction.Placeholder).
		Int("skills", len(data.Skills)).
		Msg("cv parsed")
	return data
}

// Degraded builds the fallback result used when a CV cannot be read.
func Degraded(cause error) domain.ParsedCVData {
	return domain.ParsedCVData{
		Name:       degradedName,
		Skills:     []string{},
		Experience: []string{},
		Education:  []string{},
		Summary:    fmt.Sprintf("CV parsing failed: %v. Please review the document manually.", cause),
		Degraded:   true,
	}
}
