package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/api/responses"
	"github.com/umtlostfound/lostfound-backend/internal/media"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

const (
	uploadFormField = "file"
	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20
)

// MediaService stores report images.
type MediaService interface {
	MaxBytes() int64
	UploadImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*media.UploadResult, error)
}

// UploadImage accepts a multipart form with a single "file" part and returns
// the public URL of the stored image.
func UploadImage(svc MediaService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+multipartOverhead)
		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, uploadFormError(err))
			return
		}
		defer file.Close()

		result, err := svc.UploadImage(r.Context(), userID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func uploadFormError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return pkgerrors.Validation("upload too large", map[string]string{uploadFormField: "exceeds the upload limit"})
	case errors.Is(err, http.ErrMissingFile):
		return pkgerrors.Validation("no file uploaded", map[string]string{uploadFormField: "is required"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
}
