// Package resume handles resume upload validation, storage, and text
// extraction for prompt context.
package resume

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

const (
	maxUploadBytes  = 5 << 20
	maxSummaryRunes = 4000
)

var ErrFileTooLarge = errors.New("resume file exceeds the upload size limit")
var ErrUnsupportedType = errors.New("unsupported resume file type")

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".doc":  true,
	".docx": true,
}

// ValidateUpload checks the filename extension and declared size before any
// bytes are stored.
func ValidateUpload(filename string, size int64) error {
	if size > maxUploadBytes {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return nil
}

// Extractor stores uploaded resumes on disk and extracts their text.
type Extractor struct {
	dir string
}

// NewExtractor ensures the storage directory exists.
func NewExtractor(dir string) (*Extractor, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Extractor{dir: dir}, nil
}

// Save writes the upload to disk under a generated name, preserving only
// the extension from the client-supplied filename.
func (e *Extractor) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(e.dir, uuid.New().String()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create resume file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, maxUploadBytes+1)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write resume file: %w", err)
	}
	info, err := f.Stat()
	if err == nil && info.Size() > maxUploadBytes {
		os.Remove(path)
		return "", ErrFileTooLarge
	}
	return path, nil
}

// Summarize extracts plain text from a stored resume, truncated to a
// prompt-friendly length. Extraction is best effort: a resume whose text
// cannot be pulled out still yields a usable placeholder so the interview
// can proceed.
func (e *Extractor) Summarize(path string) string {
	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text = extractPDF(path)
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read resume text file", "path", path, "error", err)
		}
		text = string(raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "Resume text could not be extracted. Ask the candidate to describe their background."
	}
	return truncateRunes(text, maxSummaryRunes)
}

func extractPDF(path string) string {
	f, reader, err := pdf.Open(path)
	if err != nil {
		slog.Warn("failed to open resume PDF", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	var sb strings.Builder
	b, err := reader.GetPlainText()
	if err != nil {
		slog.Warn("failed to extract resume PDF text", "path", path, "error", err)
		return ""
	}
	if _, err := io.Copy(&sb, b); err != nil {
		return ""
	}
	return sb.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// PlausiblyResume is a lightweight sanity check that extracted text looks
// like a resume rather than an arbitrary document. Advisory only.
func PlausiblyResume(text string) bool {
	lower := strings.ToLower(text)
	keywords := []string{"experience", "education", "skills", "work", "project", "university", "degree"}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 2
}
