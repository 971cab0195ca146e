package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobpilot/internal/cvparser"
	"jobpilot/internal/domain"
	"jobpilot/internal/storage"
	"jobpilot/pkg/zip"
)

const (
	defaultMaxUpload = 10 << 20
	genericMIME      = "application/octet-stream"
)

type uploadResponse struct {
	CV         *domain.CV           `json:"cv"`
	ParsedData *domain.ParsedCVData `json:"parsedData"`
}

func (a *App) maxUpload() int64 {
	if a.MaxUploadBytes > 0 {
		return a.MaxUploadBytes
	}
	return defaultMaxUpload
}

// UploadCV stores a multipart "cv" file for "userId", parses it and records
// the CV row. The stored blob is removed again when the row cannot be written.
func (a *App) UploadCV(w http.ResponseWriter, r *http.Request) {
	limit := a.maxUpload()
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusBadRequest, "file_too_large", fmt.Sprintf("file exceeds %d bytes", limit))
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "expected multipart form data")
		return
	}

	userID := strings.TrimSpace(r.FormValue("userId"))
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "userId is required")
		return
	}
	if !a.authorize(w, r, userID) {
		return
	}
	file, header, err := r.FormFile("cv")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "cv file is required")
		return
	}
	defer file.Close()
	if header.Size > limit {
		a.error(w, http.StatusBadRequest, "file_too_large", fmt.Sprintf("file exceeds %d bytes", limit))
		return
	}

	mimeType := uploadMIME(header.Header.Get("Content-Type"), header.Filename)
	if mimeType == "" {
		a.error(w, http.StatusBadRequest, "unsupported_format", "only PDF, DOC and DOCX files are accepted")
		return
	}

	if _, err := a.Users.GetByID(r.Context(), userID); err != nil {
		a.fail(w, r, err)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not read uploaded file")
		return
	}

	originalName := filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	key, err := a.Files.Write(r.Context(), storage.CVKey(userID, originalName, a.now()), data)
	if err != nil {
		a.fail(w, r, fmt.Errorf("store cv: %w", err))
		return
	}

	parsed := a.Parser.Parse(data, mimeType, originalName)
	cv := &domain.CV{
		UserID:       userID,
		FileName:     key,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    int64(len(data)),
		ParsedData:   &parsed,
	}
	if err := a.CVs.Create(r.Context(), cv); err != nil {
		if delErr := a.Files.Delete(r.Context(), key); delErr != nil {
			a.Logger.Warn().Err(delErr).Str("key", key).Msg("orphaned cv blob")
		}
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", userID).Str("cv_id", cv.ID).Str("mime", mimeType).Int64("size", cv.SizeBytes).Msg("cv uploaded")
	a.json(w, http.StatusCreated, uploadResponse{CV: cv, ParsedData: &parsed})
}

// uploadMIME resolves the CV type of an upload. The file extension is only
// consulted when the declared type is missing or generic; any other
// unsupported declaration yields "".
func uploadMIME(declared, filename string) string {
	mt := cvparser.NormalizeMIME(declared)
	switch {
	case cvparser.SupportedMIME(mt):
		return mt
	case mt == "" || mt == genericMIME:
		return cvparser.MIMEFromExtension(filename)
	}
	return ""
}

func (a *App) ListCVs(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	cvs, err := a.CVs.ListByUser(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if cvs == nil {
		cvs = []domain.CV{}
	}
	a.json(w, http.StatusOK, cvs)
}

func (a *App) DeleteCV(w http.ResponseWriter, r *http.Request) {
	cv, err := a.CVs.GetByID(r.Context(), chi.URLParam(r, "cvId"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !a.authorize(w, r, cv.UserID) {
		return
	}
	if err := a.CVs.Delete(r.Context(), cv.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Files.Delete(r.Context(), cv.FileName); err != nil && !errors.Is(err, storage.ErrNotFound) {
		a.Logger.Warn().Err(err).Str("cv_id", cv.ID).Msg("cv blob not removed")
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCVs streams every stored CV of the user as one zip archive. Rows
// whose blob is gone are left out.
func (a *App) ExportCVs(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	cvs, err := a.CVs.ListByUser(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	files := make([]zip.File, 0, len(cvs))
	for _, cv := range cvs {
		data, err := a.Files.Read(r.Context(), cv.FileName)
		if errors.Is(err, storage.ErrNotFound) {
			a.Logger.Warn().Str("cv_id", cv.ID).Msg("cv blob missing, skipped from export")
			continue
		}
		if err != nil {
			a.fail(w, r, err)
			return
		}
		files = append(files, zip.File{Name: cv.OriginalName, Data: data, Modified: cv.UploadedAt})
	}
	archive, err := zip.Archive(files)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", user.Username+"-cvs.zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
