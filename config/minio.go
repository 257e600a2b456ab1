package config

import (
	"sync"
)

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

type MinioConfig struct {
	AccessKey  string
	SecretKey  string
	Endpoint   string
	UseSSL     bool
	Region     string
	BucketName string
}

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()

		minioConfig = &MinioConfig{
			AccessKey:  getenv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getenv("MINIO_SECRET_KEY", ""),
			Endpoint:   getenv("MINIO_ENDPOINT", "localhost:9000"),
			UseSSL:     getenvBool("MINIO_USE_SSL", false),
			Region:     getenv("MINIO_REGION", ""),
			BucketName: getenv("MINIO_BUCKET_NAME", "content-pipeline"),
		}
	})
	return minioConfig
}
