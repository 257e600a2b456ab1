package config

import (
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	pipelineOnce   sync.Once
	pipelineConfig *PipelineConfig
)

// PipelineConfig holds processing limits and the scheduling mode.
// Values come from an optional pipeline.yaml, overridable per field
// through the environment.
type PipelineConfig struct {
	MaxContentLength  int           `yaml:"maxContentLength"`
	MaxFileSize       int64         `yaml:"maxFileSize"`
	MaxConcurrentJobs int           `yaml:"maxConcurrentJobs"`
	ProcessingTimeout time.Duration `yaml:"processingTimeout"`
	StorageType       string        `yaml:"storageType"` // local | minio | s3
	QueueMode         bool          `yaml:"queueMode"`   // enqueue to asynq instead of in-process dispatch
	UploadDir         string        `yaml:"uploadDir"`
}

func GetPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		loadEnv()

		pipelineConfig = &PipelineConfig{
			MaxContentLength:  50000,
			MaxFileSize:       50 * 1024 * 1024, // 50MB
			MaxConcurrentJobs: 8,
			ProcessingTimeout: 2 * time.Minute,
			StorageType:       "local",
			UploadDir:         os.TempDir(),
		}

		if path := getenv("PIPELINE_CONFIG", "pipeline.yaml"); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				if err := yaml.Unmarshal(data, pipelineConfig); err != nil {
					log.Printf("Warning: can't parse %s: %v", path, err)
				}
			}
		}

		pipelineConfig.MaxContentLength = getenvInt("PIPELINE_MAX_CONTENT_LENGTH", pipelineConfig.MaxContentLength)
		pipelineConfig.MaxConcurrentJobs = getenvInt("PIPELINE_MAX_CONCURRENT_JOBS", pipelineConfig.MaxConcurrentJobs)
		if secs := getenvInt("PIPELINE_TIMEOUT_SECONDS", 0); secs > 0 {
			pipelineConfig.ProcessingTimeout = time.Duration(secs) * time.Second
		}
		pipelineConfig.StorageType = getenv("PIPELINE_STORAGE_TYPE", pipelineConfig.StorageType)
		pipelineConfig.QueueMode = getenvBool("PIPELINE_QUEUE_MODE", pipelineConfig.QueueMode)
		pipelineConfig.UploadDir = getenv("PIPELINE_UPLOAD_DIR", pipelineConfig.UploadDir)
	})
	return pipelineConfig
}
