package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore хранит аватары пользователей в Cloudinary
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

// Upload загружает аватар и возвращает secure_url и public_id
func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, folder, filename string) (string, string, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	publicID := fmt.Sprintf("%s/%s_%d", folder, base, time.Now().UnixNano())

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
		return "", "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	secureURL := result.SecureURL
	if secureURL == "" {
		secureURL = result.URL
	}
	secureURL = strings.Replace(strings.TrimSpace(secureURL), "http://", "https://", 1)

	return secureURL, result.PublicID, nil
}

// Destroy удаляет аватар по public_id
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to destroy avatar: %w", err)
	}

	return nil
}
