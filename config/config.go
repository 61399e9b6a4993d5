package config

import (
	"os"
	"strings"
)

type StorageConfig struct {
	Backend            string
	PublicURL          string
	S3BucketName       string
	S3RegionName       string
	S3EndpointURL      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	VercelBlobToken    string
	VercelBlobEndpoint string
}

type Config struct {
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string
	Port        string
	Storage     StorageConfig
}

// Load reads configuration from the environment. Validation of the storage
// backend happens in services.NewStorageService so tests can construct
// backends directly.
func Load() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        os.Getenv("PORT"),
		Storage: StorageConfig{
			Backend:            os.Getenv("STORAGE_BACKEND"),
			PublicURL:          os.Getenv("STORAGE_PUBLIC_URL"),
			S3BucketName:       os.Getenv("S3_BUCKET_NAME"),
			S3RegionName:       os.Getenv("S3_REGION_NAME"),
			S3EndpointURL:      os.Getenv("S3_ENDPOINT_URL"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			VercelBlobToken:    os.Getenv("VERCEL_BLOB_READ_WRITE_TOKEN"),
			VercelBlobEndpoint: os.Getenv("VERCEL_BLOB_ENDPOINT"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg
}
