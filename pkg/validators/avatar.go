package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
)

var avatarTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// AvatarValidator reads an uploaded avatar and checks its real content
// type. It returns the status to answer with when err isn't nil, the
// file contents and the detected MIME type.
func AvatarValidator(fh *multipart.FileHeader, maxSize int64) (int, []byte, string, error) {
	if fh == nil {
		return http.StatusUnprocessableEntity, nil, "", ErrNoFile
	}

	// Declared size is easy to spoof but saves reading obvious offenders
	if fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	if int64(len(data)) > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), avatarTypes...) {
		return http.StatusUnsupportedMediaType, nil, "", ErrFileTypeUnsupported
	}

	return http.StatusOK, data, mime.String(), nil
}
