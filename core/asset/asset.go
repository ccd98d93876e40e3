// Package asset validates and stores images uploaded from the editor.
package asset

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// DefaultMaxSize is used when the service is given no size limit.
const DefaultMaxSize int64 = 5 << 20

var (
	// errors
	ErrTooLarge    = errors.New("file is too large")
	ErrUnsupported = errors.New("only png, jpeg, gif and webp images are accepted")
	ErrEmpty       = errors.New("file is empty")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type (
	Asset struct {
		URL         string `json:"url"`
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}

	Store interface {
		Save(name string, r io.Reader) (string, error)
	}

	Service struct {
		store   Store
		maxSize int64
	}
)

func NewService(store Store, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{store: store, maxSize: maxSize}
}

func fieldError(err error) error {
	return core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
}

// Upload checks that r holds a supported image no larger than the limit and stores it under a fresh name.
// filename only contributes to the stored name for readability.
func (svc *Service) Upload(ctx context.Context, filename string, r io.Reader) (Asset, error) {
	data, err := io.ReadAll(io.LimitReader(r, svc.maxSize+1))
	if err != nil {
		return Asset{}, errors.Wrap(err, "reading upload")
	}
	if err = ctx.Err(); err != nil {
		return Asset{}, err
	}

	switch size := int64(len(data)); {
	case size == 0:
		return Asset{}, fieldError(ErrEmpty)
	case size > svc.maxSize:
		return Asset{}, fieldError(ErrTooLarge)
	}

	ctype := http.DetectContentType(data)
	ext, ok := extensions[ctype]
	if !ok {
		return Asset{}, fieldError(ErrUnsupported)
	}

	name := uuid.NewString() + ext
	if stem := core.Slugify(strings.TrimSuffix(path.Base(filename), path.Ext(filename))); stem != "" {
		name = stem + "-" + name
	}
	url, err := svc.store.Save(name, bytes.NewReader(data))
	if err != nil {
		return Asset{}, errors.Wrap(err, "storing upload")
	}
	return Asset{URL: url, Name: name, ContentType: ctype, Size: int64(len(data))}, nil
}
