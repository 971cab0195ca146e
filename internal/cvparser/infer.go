package cvparser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"jobpilot/internal/domain"
)

const (
	maxNameLength      = 50
	maxNameTokens      = 4
	minEntryLength     = 10
	maxHeadingWords    = 4
	maxExperienceItems = 5
	maxEducationItems  = 3
)

var (
	EmailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	PhonePattern = regexp.MustCompile(`\+?\d[\d \t().-]{8,}\d`)
)

// FirstEmail returns the first email address found in text.
func FirstEmail(text string) string {
	return EmailPattern.FindString(text)
}

// Infer derives CV fields from extracted text. It performs no I/O and the
// same text always yields the same result.
func Infer(text string) domain.ParsedCVData {
	lines := splitLines(text)

	data := domain.ParsedCVData{
		Email:      EmailPattern.FindString(text),
		Phone:      PhonePattern.FindString(text),
		Name:       inferName(lines),
		Skills:     inferSkills(text),
		Experience: extractSection(lines, experienceKeywords, maxExperienceItems),
		Education:  extractSection(lines, educationKeywords, maxEducationItems),
		TextLength: utf8.RuneCountInString(text),
	}
	data.Summary = summarize(data)
	return data
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func inferName(lines []string) string {
	for _, line := range lines {
		if EmailPattern.MatchString(line) || PhonePattern.MatchString(line) {
			continue
		}
		if utf8.RuneCountInString(line) >= maxNameLength {
			continue
		}
		if len(strings.Fields(line)) > maxNameTokens {
			continue
		}
		return line
	}
	return ""
}

func inferSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := []string{}
	for _, kw := range skillKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			skills = append(skills, kw)
		}
	}
	return skills
}

// extractSection collects the lines after the first line mentioning one of
// keywords, up to the next heading.
func extractSection(lines []string, keywords []string, limit int) []string {
	entries := []string{}
	start := -1
	for i, line := range lines {
		if containsAny(strings.ToLower(line), keywords) {
			start = i
			break
		}
	}
	if start < 0 {
		return entries
	}
	for _, line := range lines[start+1:] {
		if isHeading(line) {
			break
		}
		if utf8.RuneCountInString(line) < minEntryLength {
			continue
		}
		entries = append(entries, line)
		if len(entries) == limit {
			break
		}
	}
	return entries
}

func isHeading(line string) bool {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))
	if len(strings.Fields(normalized)) > maxHeadingWords {
		return false
	}
	return containsAny(normalized, headingKeywords)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func summarize(d domain.ParsedCVData) string {
	return fmt.Sprintf("Professional profile with %d identified skills, %d experience entries and %d education entries.",
		len(d.Skills), len(d.Experience), len(d.Education))
}
