package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore хранит изображения товаров в Cloudinary
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore создает хранилище из CLOUDINARY_URL
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld}, nil
}

// Upload загружает изображение и возвращает пару public_id / secure_url
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, folder, filename string) (*entity.Image, error) {
	// Суффикс uuid защищает от коллизий при одинаковых именах файлов
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	publicID := fmt.Sprintf("%s/%s_%s", folder, base, uuid.NewString())

	truePtr := true
	falsePtr := false

	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		UseFilename:    &truePtr,
		UniqueFilename: &truePtr,
		Overwrite:      &falsePtr,
		ResourceType:   "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	secureURL := result.SecureURL
	if secureURL == "" {
		secureURL = result.URL
	}

	return &entity.Image{
		PublicID:  result.PublicID,
		SecureURL: forceHTTPS(secureURL),
	}, nil
}

// Destroy удаляет изображение по public_id
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to destroy image: %w", err)
	}

	return nil
}

// forceHTTPS приводит URL изображения к https
func forceHTTPS(in string) string {
	if in == "" {
		return in
	}
	out := strings.TrimSpace(in)
	return strings.Replace(out, "http://", "https://", 1)
}
