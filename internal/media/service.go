package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
	"github.com/umtlostfound/lostfound-backend/pkg/storage/gcs"
)

type objectStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (*gcs.Object, error)
	PublicURL(name string) string
}

// UploadResult locates a stored image.
type UploadResult struct {
	URL       string `json:"url"`
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// Service validates and stores item images.
type Service struct {
	store    objectStore
	maxBytes int64
	logg     *logger.Logger
	newID    func() uuid.UUID
}

func NewService(store objectStore, maxBytes int64, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: store, maxBytes: maxBytes, logg: logg, newID: uuid.New}, nil
}

// MaxBytes is the largest accepted upload.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// UploadImage stores an image under <userID>/<uuid><ext>. Objects are never
// overwritten: a name collision is retried once with a fresh name.
func (s *Service) UploadImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(data) == 0 {
		return nil, pkgerrors.Validation("empty upload", map[string]string{"file": "is required"})
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.Validation("upload too large", map[string]string{
			"file": fmt.Sprintf("must be at most %d MB", s.maxBytes>>20),
		})
	}

	contentType, ext, ok := sniffImage(data)
	if !ok {
		return nil, pkgerrors.Validation("unsupported file type", map[string]string{
			"file": fmt.Sprintf("%s is not allowed; use %s", contentType, allowedDescription),
		})
	}

	name := s.objectName(userID, ext)
	_, err = s.store.Upload(ctx, name, contentType, bytes.NewReader(data))
	if errors.Is(err, gcs.ErrObjectExists) {
		s.logg.Warn(s.logg.WithField(ctx, "object", name), "media.name_collision")
		name = s.objectName(userID, ext)
		_, err = s.store.Upload(ctx, name, contentType, bytes.NewReader(data))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"object":       name,
		"content_type": contentType,
		"size":         len(data),
	}), "media.uploaded")

	url := s.store.PublicURL(name)
	return &UploadResult{URL: url, PublicURL: url, Path: name}, nil
}

func (s *Service) objectName(userID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s%s", userID, s.newID(), ext)
}
