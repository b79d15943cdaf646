package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/tshwanesporting/clubsite/storage"
)

const maxUploadSize = 5 << 20 // 5MB, как у оригинальной формы загрузки

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var errUnsupportedImageType = errors.New("only jpeg, png and gif images are accepted")

// parseMultipartForm bounds the request body and parses the form. Handlers
// call this before touching any form value.
func parseMultipartForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		if err.Error() == "http: request body too large" {
			return fmt.Errorf("form must not be larger than %d bytes", maxUploadSize)
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// storeUploadedImage saves the file under the given form field and returns
// its public URL. Returns ("", nil) when the field is absent, so optional
// photos fall through cleanly.
func storeUploadedImage(r *http.Request, field string, uploader storage.FileUploader) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	defer file.Close()

	contentType, err := sniffImageType(file, header)
	if err != nil {
		return "", err
	}

	key := storage.NewUploadKey(header.Filename)
	result, err := uploader.Upload(r.Context(), key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}
	return result.Location, nil
}

// sniffImageType checks the actual bytes rather than trusting the client's
// Content-Type header, then rewinds the file for the uploader.
func sniffImageType(file multipart.File, header *multipart.FileHeader) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	contentType := http.DetectContentType(buf[:n])
	if !allowedImageTypes[contentType] {
		return "", errUnsupportedImageType
	}
	return contentType, nil
}
