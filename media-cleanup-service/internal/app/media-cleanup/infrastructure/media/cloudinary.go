package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryDestroyer освобождает изображения товаров в Cloudinary
// Worker только удаляет: загрузкой занимаются Catalog и Auth сервисы
type CloudinaryDestroyer struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryDestroyer создает клиент из CLOUDINARY_URL
func NewCloudinaryDestroyer(cloudinaryURL string) (*CloudinaryDestroyer, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryDestroyer{cld: cld}, nil
}

// Destroy удаляет изображение по public_id
// Ответ "not found" считается успехом: изображение уже отсутствует
func (d *CloudinaryDestroyer) Destroy(ctx context.Context, publicID string) error {
	result, err := d.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to destroy image %s: %w", publicID, err)
	}

	if result.Result != "ok" && !strings.Contains(result.Result, "not found") {
		return fmt.Errorf("unexpected destroy result for %s: %s", publicID, result.Result)
	}

	return nil
}
