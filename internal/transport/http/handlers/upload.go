package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/streamhive/account-service/internal/domain"
)

// stageUpload copies a multipart file field into a temp file and returns its
// path plus a cleanup func. The cleanup must run regardless of how the
// upload attempt ends; callers defer it immediately. An absent field yields
// an empty path and a no-op cleanup — requiredness is the caller's call.
func stageUpload(r *http.Request, field string, maxSize int64) (string, func(), error) {
	noop := func() {}

	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", noop, nil
		}
		return "", noop, domain.ErrInvalidField(field, "unreadable file field")
	}
	defer file.Close()

	if maxSize > 0 && header.Size > maxSize {
		return "", noop, domain.ErrInvalidField(field, "file too large")
	}

	path, err := copyToTemp(file, header)
	if err != nil {
		return "", noop, domain.ErrInternal(err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

func copyToTemp(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
