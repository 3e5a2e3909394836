package storage

import (
	"context"
	"strings"
	"testing"

	appConfig "github.com/drukmenu/drukmenu-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey(FolderMenuItems, ".JPG")
	assert.True(t, strings.HasPrefix(key, "menu-items/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	key = objectKey(FolderQRCards, "png")
	assert.True(t, strings.HasSuffix(key, ".png"))

	assert.NotEqual(t, objectKey(FolderBusiness, ".png"), objectKey(FolderBusiness, ".png"))
}

func TestFileURL(t *testing.T) {
	withCDN := NewS3Storage(appConfig.S3Config{
		Region:          "ap-south-1",
		Bucket:          "menus",
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
		BaseURL:         "https://cdn.example.com/",
	})
	assert.Equal(t, "https://cdn.example.com/menu-items/a.jpg", withCDN.fileURL("menu-items/a.jpg"))

	direct := NewS3Storage(appConfig.S3Config{
		Region:          "ap-south-1",
		Bucket:          "menus",
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
	})
	assert.Equal(t, "https://menus.s3.ap-south-1.amazonaws.com/menu-items/a.jpg", direct.fileURL("menu-items/a.jpg"))
}

func TestGeneratePresignedURL(t *testing.T) {
	s := NewS3Storage(appConfig.S3Config{
		Region:          "ap-south-1",
		Bucket:          "menus",
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
	})

	resp, err := s.GeneratePresignedURL(context.Background(), "momo.png", "image/png", FolderMenuItems)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "menu-items/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Contains(t, resp.FileURL, resp.Key)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateFileSize(1024, 2048))
	assert.Error(t, ValidateFileSize(4096, 2048))

	assert.NoError(t, ValidateContentType("image/png", AllowedImageTypes))
	assert.Error(t, ValidateContentType("application/pdf", AllowedImageTypes))

	assert.NoError(t, ValidateFolder(FolderMenuItems))
	assert.Error(t, ValidateFolder("../etc"))
}
