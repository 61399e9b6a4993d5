package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/config"
)

// NewStorageService builds the storage service from configuration. A missing
// or unknown backend selection is a configuration error and fatal at startup.
func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	backend, err := newBackendFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewStorageServiceWithBackend(backend), nil
}

func newBackendFromConfig(cfg config.StorageConfig) (StorageBackend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "":
		return nil, apperror.Configuration("STORAGE_BACKEND environment variable is not set")
	case "s3":
		if cfg.S3BucketName == "" {
			return nil, apperror.Configuration("S3_BUCKET_NAME must be configured for S3 backend")
		}
		return NewS3Backend(cfg), nil
	case "vercel", "vercel_blob", "vercel-blob":
		if cfg.VercelBlobToken == "" {
			return nil, apperror.Configuration("VERCEL_BLOB_READ_WRITE_TOKEN must be set for the Vercel Blob backend")
		}
		return NewVercelBlobBackend(cfg), nil
	}
	return nil, apperror.Configuration(fmt.Sprintf("Unsupported storage backend '%s'", cfg.Backend))
}

// S3Backend persists assets on S3 compatible object stores.
type S3Backend struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	baseURL  string
}

func NewS3Backend(cfg config.StorageConfig) *S3Backend {
	region := cfg.S3RegionName
	if region == "" {
		region = "auto"
	}

	options := s3.Options{Region: region}
	if cfg.S3EndpointURL != "" {
		options.BaseEndpoint = aws.String(cfg.S3EndpointURL)
	}
	if cfg.AWSAccessKeyID != "" {
		options.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)
	}

	return &S3Backend{
		client:   s3.New(options),
		bucket:   cfg.S3BucketName,
		region:   cfg.S3RegionName,
		endpoint: strings.TrimSuffix(cfg.S3EndpointURL, "/"),
		baseURL:  strings.TrimSuffix(cfg.PublicURL, "/"),
	}
}

func (b *S3Backend) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperror.StorageUpload("Failed to upload object to S3", err)
	}
	return b.BuildURL(key), nil
}

func (b *S3Backend) BuildURL(key string) string {
	if b.baseURL != "" {
		return fmt.Sprintf("%s/%s", b.baseURL, key)
	}
	if b.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", b.endpoint, b.bucket, key)
	}
	if b.region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", b.bucket, key)
}

func (b *S3Backend) SupportsDeferredUpload() bool { return true }

// VercelBlobBackend persists assets through the Vercel Blob HTTP API.
type VercelBlobBackend struct {
	token    string
	endpoint string
	baseURL  string
	client   *http.Client
}

func NewVercelBlobBackend(cfg config.StorageConfig) *VercelBlobBackend {
	endpoint := cfg.VercelBlobEndpoint
	if endpoint == "" {
		endpoint = "https://blob.vercel-storage.com"
	}
	return &VercelBlobBackend{
		token:    cfg.VercelBlobToken,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		baseURL:  strings.TrimSuffix(cfg.PublicURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *VercelBlobBackend) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("pathname", key); err != nil {
		return "", apperror.StorageUpload("Failed to build blob upload request", err)
	}
	part, err := writer.CreateFormFile("file", key)
	if err != nil {
		return "", apperror.StorageUpload("Failed to build blob upload request", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", apperror.StorageUpload("Failed to build blob upload request", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperror.StorageUpload("Failed to build blob upload request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/upload", &body)
	if err != nil {
		return "", apperror.StorageUpload("Failed to build blob upload request", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return "", apperror.StorageUpload("Failed to upload blob to Vercel", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperror.StorageUpload(
			fmt.Sprintf("Vercel Blob upload returned status %d", resp.StatusCode), nil)
	}

	var payload struct {
		DownloadURL string `json:"downloadUrl"`
		URL         string `json:"url"`
		Href        string `json:"href"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		for _, url := range []string{payload.DownloadURL, payload.URL, payload.Href} {
			if url != "" {
				return url, nil
			}
		}
	}
	return b.BuildURL(key), nil
}

func (b *VercelBlobBackend) BuildURL(key string) string {
	if b.baseURL != "" {
		return fmt.Sprintf("%s/%s", b.baseURL, key)
	}
	return fmt.Sprintf("%s/%s", b.endpoint, key)
}

// Deferred uploads require deterministic URLs; without a configured public
// base URL the blob URL is only known after the write completes.
func (b *VercelBlobBackend) SupportsDeferredUpload() bool { return b.baseURL != "" }
