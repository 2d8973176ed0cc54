package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"case_registry_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ScanStorage keeps the scanned copies of correspondence. The registry only
// stores the resulting link on the letter.
type ScanStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*StoredScan, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	PublicURL(key string) string
}

// StoredScan describes an uploaded scan
type StoredScan struct {
	Key         string
	Size        int64
	ContentType string
	URL         string // empty when the bucket has no public URL
}

// NewScanStorage picks R2 when it is configured and reachable, local disk otherwise
func NewScanStorage(cfg *config.Config) ScanStorage {
	if !cfg.R2Configured() {
		log.Printf("[INFO] Scan storage: local filesystem (%s)", cfg.UploadDir)
		return NewLocalStorage(cfg.UploadDir)
	}

	r2, err := NewR2Storage(cfg)
	if err != nil {
		log.Printf("[WARNING] Failed to initialize R2 storage: %v. Falling back to local storage.", err)
		return NewLocalStorage(cfg.UploadDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := r2.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r2.bucket)}); err != nil {
		log.Printf("[WARNING] R2 bucket check failed: %v. Falling back to local storage.", err)
		return NewLocalStorage(cfg.UploadDir)
	}

	log.Printf("[INFO] Scan storage: Cloudflare R2 (bucket %s)", r2.bucket)
	return r2
}

// R2Storage stores scans in a Cloudflare R2 bucket through the S3 API
type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

func NewR2Storage(cfg *config.Config) (*R2Storage, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	creds := credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.R2BucketName,
		publicURL: cfg.R2PublicURL,
	}, nil
}

func (r *R2Storage) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*StoredScan, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload scan to R2: %w", err)
	}
	return &StoredScan{Key: key, Size: size, ContentType: contentType, URL: r.PublicURL(key)}, nil
}

func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete scan from R2: %w", err)
	}
	return nil
}

func (r *R2Storage) SignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign scan URL: %w", err)
	}
	return req.URL, nil
}

// PublicURL returns the bucket's public URL for key, or "" when none is configured
func (r *R2Storage) PublicURL(key string) string {
	if r.publicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(r.publicURL, "/"), key)
}

// LocalStorage stores scans under a directory on disk
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (l *LocalStorage) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*StoredScan, error) {
	fullPath := filepath.Join(l.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, body)
	if err != nil {
		return nil, fmt.Errorf("failed to save scan: %w", err)
	}
	return &StoredScan{Key: key, Size: written, ContentType: contentType, URL: l.PublicURL(key)}, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.baseDir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	return nil
}

// SignedURL for local storage is the plain path
func (l *LocalStorage) SignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return l.PublicURL(key), nil
}

func (l *LocalStorage) PublicURL(key string) string {
	return "/" + filepath.ToSlash(filepath.Join(l.baseDir, key))
}

// ScanKey builds a unique storage key for a letter's scan
func ScanKey(letterID, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("letters/%s/%s_%d%s", letterID, uuid.New().String(), time.Now().Unix(), ext)
}
