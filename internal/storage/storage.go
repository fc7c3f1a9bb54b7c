// Package storage uploads and deletes post/profile images, either on S3 (with
// an optional CloudFront URL in front) or on local disk under ./uploads.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/hasibdev/blog-api/internal/config"
)

const (
	uploadBasePath = "./uploads"
	photosPath     = "./uploads/photos"
)

type Storage struct {
	useS3         bool
	bucket        string
	region        string
	cloudFrontURL string
	sess          *session.Session
}

func New(cfg *config.Config) (*Storage, error) {
	st := &Storage{
		useS3:         cfg.UseS3,
		bucket:        cfg.S3Bucket,
		region:        cfg.S3Region,
		cloudFrontURL: cfg.CloudFrontURL,
	}

	if st.useS3 {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.S3Region),
		})
		if err != nil {
			return nil, err
		}
		st.sess = sess
		return st, nil
	}

	for _, dir := range []string{uploadBasePath, photosPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return st, nil
}

func (st *Storage) Mode() string {
	if st.useS3 {
		return "s3"
	}
	return "local"
}

func (st *Storage) Upload(file *multipart.FileHeader) (string, error) {
	if st.useS3 {
		return st.uploadToS3(file)
	}
	return st.uploadToLocal(file)
}

func (st *Storage) Delete(url string) error {
	if st.useS3 {
		return st.deleteFromS3(url)
	}
	return st.deleteFromLocal(url)
}

func (st *Storage) uploadToS3(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	key := fmt.Sprintf("%s/%s%s", time.Now().Format("2006/01"), uuid.NewString(), ext)

	svc := s3.New(st.sess)
	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", err
	}

	if st.cloudFrontURL != "" {
		return st.cloudFrontURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", st.bucket, st.region, key), nil
}

func (st *Storage) deleteFromS3(url string) error {
	key := st.keyFromURL(url)
	if key == "" {
		return fmt.Errorf("url does not belong to this bucket: %s", url)
	}

	svc := s3.New(st.sess)
	_, err := svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (st *Storage) keyFromURL(url string) string {
	prefixes := []string{
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", st.bucket, st.region),
	}
	if st.cloudFrontURL != "" {
		prefixes = append(prefixes, st.cloudFrontURL+"/")
	}
	for _, p := range prefixes {
		if strings.HasPrefix(url, p) {
			return strings.TrimPrefix(url, p)
		}
	}
	return ""
}

func (st *Storage) uploadToLocal(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.NewString()[:8],
		ext,
	)
	fullPath := filepath.Join(photosPath, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return "/" + strings.TrimPrefix(fullPath, "./"), nil
}

func (st *Storage) deleteFromLocal(url string) error {
	filePath := strings.TrimPrefix(url, "/")

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("invalid file path: %v", err)
	}
	baseAbs, err := filepath.Abs(uploadBasePath)
	if err != nil {
		return fmt.Errorf("invalid base path: %v", err)
	}
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}
	if !strings.HasPrefix(absPath, baseAbs) {
		return fmt.Errorf("file path outside uploads directory")
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", filePath)
	}
	return os.Remove(filePath)
}
