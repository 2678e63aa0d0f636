// utils/file_utils.go
package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Longest edge of a stored item photo
	maxPhotoDimension = 800
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "items"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %v", dir, err)
		}
	}
	return nil
}

// ValidateImageFile checks extension and size before any decoding happens.
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}
	if fileHeader.Size > maxFileSize {
		return fmt.Errorf("file too large. Maximum size is 10MB")
	}
	return nil
}

// SaveItemPhoto stores an uploaded item photo resized to a web-friendly size
// and returns the URL path it will be served from.
func SaveItemPhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Fit keeps aspect ratio and never upscales smaller photos.
	resized := imaging.Fit(img, maxPhotoDimension, maxPhotoDimension, imaging.Lanczos)

	filename := uuid.New().String() + ".jpg"
	destPath := filepath.Join(uploadBaseDir, "items", filename)
	if err := imaging.Save(resized, destPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	return baseURL + "/items/" + filename, nil
}

// RemoveUploadedFile deletes a previously stored upload by its URL path.
// Missing files are not an error; the photo may have been cleaned up already.
func RemoveUploadedFile(urlPath string) error {
	if !strings.HasPrefix(urlPath, baseURL+"/") {
		return fmt.Errorf("not an uploaded file path: %s", urlPath)
	}
	diskPath := filepath.Join(uploadBaseDir, strings.TrimPrefix(urlPath, baseURL+"/"))
	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
