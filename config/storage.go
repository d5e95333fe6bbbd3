package config

import (
	"sync"
)

var (
	storageOnce   sync.Once
	storageConfig *StorageConfig
)

// StorageConfig selects and configures the object store holding uploaded documents.
// Type is "s3", "minio" or "" (no storage; path-based requests are rejected).
type StorageConfig struct {
	Type  string
	S3    S3Config
	Minio MinioConfig
}

type S3Config struct {
	BucketName string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
}

type MinioConfig struct {
	AccessKey  string
	SecretKey  string
	Endpoint   string
	UseSSL     bool
	Region     string
	BucketName string
}

func LoadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Type: envString("STORAGE_TYPE", ""),
		S3: S3Config{
			BucketName: envString("AWS_S3_BUCKET_NAME", ""),
			Region:     envString("AWS_REGION", "us-east-1"),
			Endpoint:   envString("AWS_ENDPOINT", ""),
			AccessKey:  envString("AWS_ACCESS_KEY", ""),
			SecretKey:  envString("AWS_SECRET_KEY", ""),
		},
		Minio: MinioConfig{
			AccessKey:  envString("MINIO_ACCESS_KEY", ""),
			SecretKey:  envString("MINIO_SECRET_KEY", ""),
			Endpoint:   envString("MINIO_ENDPOINT", "localhost:9000"),
			UseSSL:     envBool("MINIO_USE_SSL", false),
			Region:     envString("MINIO_REGION", ""),
			BucketName: envString("MINIO_BUCKET_NAME", "documentos"),
		},
	}
}

func GetStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		loadDotEnv()
		storageConfig = LoadStorageConfig()
	})
	return storageConfig
}
