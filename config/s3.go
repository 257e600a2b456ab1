package config

import (
	"sync"
)

var (
	s3Once   sync.Once
	s3Config *S3Config
)

type S3Config struct {
	AccessKey  string
	SecretKey  string
	Region     string
	BucketName string
	Endpoint   string
}

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()

		s3Config = &S3Config{
			AccessKey:  getenv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:  getenv("AWS_SECRET_ACCESS_KEY", ""),
			Region:     getenv("AWS_REGION", "us-east-1"),
			BucketName: getenv("S3_BUCKET_NAME", "content-pipeline"),
			Endpoint:   getenv("S3_ENDPOINT", ""),
		}
	})
	return s3Config
}
