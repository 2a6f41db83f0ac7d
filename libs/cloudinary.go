package libs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfigured reports whether an upload can go to Cloudinary at
// all; without credentials uploads stay on local disk.
func CloudinaryConfigured() bool {
	if os.Getenv("CLOUDINARY_URL") != "" {
		return true
	}
	return os.Getenv("CLOUDINARY_CLOUD_NAME") != "" &&
		os.Getenv("CLOUDINARY_API_KEY") != "" &&
		os.Getenv("CLOUDINARY_API_SECRET") != ""
}

func newClient() (*cloudinary.Cloudinary, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		cldURL := os.Getenv("CLOUDINARY_URL")
		if cldURL == "" {
			return nil, fmt.Errorf("cloudinary environment variables not set")
		}
		return cloudinary.NewFromURL(cldURL)
	}
	return cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
}

// UploadToCloudinary pushes a local image and removes the local copy once
// the upload settles. Returns the public HTTPS URL.
func UploadToCloudinary(localPath string) (string, error) {
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", localPath)
	}

	cld, err := newClient()
	if err != nil {
		return "", fmt.Errorf("cloudinary init failed: %w", err)
	}

	resp, err := cld.Upload.Upload(context.Background(), localPath, uploader.UploadParams{
		PublicID: fmt.Sprintf("catalog_%d", time.Now().UnixNano()),
		Folder:   "catalog",
	})

	os.Remove(localPath)

	if err != nil {
		return "", err
	}
	if resp == nil || (resp.SecureURL == "" && resp.URL == "") {
		return "", fmt.Errorf("cloudinary returned no URL")
	}
	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	return resp.URL, nil
}

func DeleteFromCloudinary(publicID string) error {
	cld, err := newClient()
	if err != nil {
		return fmt.Errorf("cloudinary init failed: %w", err)
	}

	result, err := cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}
