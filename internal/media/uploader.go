package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// AssetStorage persists an uploaded object and returns its public location.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Asset kinds determine the object-store prefix an upload lands under.
const (
	AssetAvatar    = "avatars"
	AssetCover     = "covers"
	AssetVideo     = "videos"
	AssetThumbnail = "thumbnails"
)

// Uploader names and stores media assets. Handlers hold only the returned
// reference; raw bytes never reach the data layer.
type Uploader struct {
	storage AssetStorage
}

// NewUploader constructs an Uploader over the provided storage backend.
func NewUploader(storage AssetStorage) *Uploader {
	if storage == nil {
		panic("media: asset storage must not be nil")
	}
	return &Uploader{storage: storage}
}

// Upload stores the object under a collision-free key derived from the asset
// kind and original filename, returning the public URL.
func (u *Uploader) Upload(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)

	url, err := u.storage.Save(ctx, key, r)
	if err != nil {
		return "", fmt.Errorf("upload %s asset: %w", kind, err)
	}

	return url, nil
}
