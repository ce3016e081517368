package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/campus-finds/api-go/config"
)

// UploadController owns the item photo bucket on Cloudflare R2. Items only
// ever hold the public URL it hands back; the bytes never touch the database.
type UploadController struct {
	R2Client *s3.Client
	R2Config *config.R2Config
}

func NewUploadController() *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// UploadItemImage validates and stores an item photo, returning its public
// URL. The caller is responsible for releasing the object again if the item
// write it was staged for does not commit.
func (uc *UploadController) UploadItemImage(userID uint, file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !uc.isValidImageType(contentType) {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	if !uc.isValidImageSize(file.Size) {
		return "", fmt.Errorf("image exceeds the 10MB size limit")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read image: %v", err)
	}
	defer src.Close()

	key := uc.generateItemImageKey(userID, file.Filename)

	_, err = uc.R2Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %v", err)
	}

	return fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key), nil
}

// DeleteImage releases a previously stored item photo. Unknown and empty
// URLs are ignored so deletes stay idempotent.
func (uc *UploadController) DeleteImage(imageURL string) error {
	key := uc.keyFromURL(imageURL)
	if key == "" {
		return nil
	}

	_, err := uc.R2Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	})
	return err
}

func (uc *UploadController) keyFromURL(imageURL string) string {
	if imageURL == "" || uc.R2Config.PublicURL == "" {
		return ""
	}
	if !strings.HasPrefix(imageURL, uc.R2Config.PublicURL+"/") {
		return ""
	}
	return strings.TrimPrefix(imageURL, uc.R2Config.PublicURL+"/")
}

func (uc *UploadController) isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic",
	}

	for _, validType := range validTypes {
		if contentType == validType {
			return true
		}
	}
	return false
}

func (uc *UploadController) isValidImageSize(fileSize int64) bool {
	return fileSize <= 10*1024*1024 // 10MB
}

func (uc *UploadController) generateItemImageKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	timestamp := time.Now().Unix()

	return fmt.Sprintf("items/%d/%d_%s%s", userID, timestamp, uuid.New().String(), ext)
}
