package cvparser

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// minExtractedText is the shortest decoded text kept before falling back to
// the placeholder description.
const minExtractedText = 50

// ErrUnsupportedFormat is returned for MIME types the extractor cannot read.
var ErrUnsupportedFormat = errors.New("cvparser: unsupported format")

var (
	xmlParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag          = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
)

// Extraction is the text produced for one document.
type Extraction struct {
	Text        string
	Placeholder bool
}

// NormalizeMIME lowercases a declared content type and drops parameters.
func NormalizeMIME(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		return mt
	}
	return strings.ToLower(declared)
}

// SupportedMIME reports whether the declared type is a CV format we accept.
func SupportedMIME(declared string) bool {
	switch NormalizeMIME(declared) {
	case MimePDF, MimeDOC, MimeDOCX:
		return true
	}
	return false
}

// MIMEFromExtension guesses the CV content type from a file name.
func MIMEFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".doc":
		return MimeDOC
	case ".docx":
		return MimeDOCX
	}
	return ""
}

// ExtractFile reads path and extracts its text.
func ExtractFile(path, declared string) (Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, fmt.Errorf("cvparser: read file: %w", err)
	}
	return ExtractText(data, declared, filepath.Base(path))
}

// ExtractText produces best-effort plain text for a CV document.
func ExtractText(data []byte, declared, name string) (Extraction, error) {
	var text string
	switch NormalizeMIME(declared) {
	case MimePDF:
		decoded, err := decodePDF(data)
		if err != nil {
			decoded = decodeRaw(data)
		}
		text = decoded
	case MimeDOCX:
		decoded, err := decodeDOCX(data)
		if err != nil {
			decoded = decodeRaw(data)
		}
		text = decoded
	case MimeDOC:
		text = decodeRaw(data)
	default:
		return Extraction{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, declared)
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < minExtractedText {
		return Extraction{Text: placeholderText(name, len(data)), Placeholder: true}, nil
	}
	return Extraction{Text: text}, nil
}

func placeholderText(name string, size int) string {
	if strings.TrimSpace(name) == "" {
		name = "cv"
	}
	return fmt.Sprintf("Uploaded CV document %q (%d bytes). The text content of this file could not be extracted automatically.", name, size)
}

func decodePDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func decodeDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = xmlParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// decodeRaw treats the bytes as text and keeps printable runes only.
func decodeRaw(data []byte) string {
	valid := strings.ToValidUTF8(string(data), " ")
	var b strings.Builder
	b.Grow(len(valid))
	for _, r := range valid {
		switch {
		case r == '\n':
			b.WriteRune('\n')
		case r == '\r':
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
