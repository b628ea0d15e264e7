package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	PGSQL      PQSQL      `yaml:"pgsql" env-required:"true"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	JWTSecret  string     `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	MinIO      MinIO      `yaml:"minio"`
	Redis      Redis      `yaml:"redis"`
	Media      Media      `yaml:"media"`
	Quota      Quota      `yaml:"quota"`
	Gemini     Gemini     `yaml:"gemini"`
	Pinecone   Pinecone   `yaml:"pinecone"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
}

type PQSQL struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"gasgenie"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"job-photos"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	// PublicBaseURL overrides the endpoint-derived URL returned for stored photos (CDN, proxy).
	PublicBaseURL string `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Media struct {
	AllowedMimeTypes []string `yaml:"allowed_mime_types" env-default:"image/jpeg,image/png,image/webp"`
	MaxFileSize      int64    `yaml:"max_file_size" env-default:"10485760"`
}

// Quota holds the photo storage budget. Sizes use binary units: 1 KB = 1024 B, 1 MB = 1024 KB.
type Quota struct {
	LimitMB        int64         `yaml:"limit_mb" env:"QUOTA_LIMIT_MB" env-default:"1024"`
	HighWatermark  float64       `yaml:"high_watermark" env-default:"90"`
	LowWatermark   int64         `yaml:"low_watermark" env-default:"70"`
	PerObjectKB    int64         `yaml:"per_object_kb" env-default:"300"`
	Namespace      string        `yaml:"namespace" env:"QUOTA_NAMESPACE"`
	LeaseTTL       time.Duration `yaml:"lease_ttl" env-default:"2m"`
	LeaseWait      time.Duration `yaml:"lease_wait" env-default:"3s"`
	WorkerInterval time.Duration `yaml:"worker_interval" env-default:"5m"`
}

func (q Quota) LimitBytes() int64 {
	return q.LimitMB * 1024 * 1024
}

func (q Quota) PerObjectBytes() int64 {
	return q.PerObjectKB * 1024
}

// Validate rejects budgets the estimator cannot work with. The low watermark must sit
// strictly below the high one or eviction never has a target to stop at.
func (q Quota) Validate() error {
	switch {
	case q.LimitMB <= 0:
		return fmt.Errorf("quota.limit_mb must be positive, got %d", q.LimitMB)
	case q.PerObjectKB <= 0:
		return fmt.Errorf("quota.per_object_kb must be positive, got %d", q.PerObjectKB)
	case q.HighWatermark <= 0 || q.HighWatermark > 100:
		return fmt.Errorf("quota.high_watermark must be in (0, 100], got %g", q.HighWatermark)
	case q.LowWatermark <= 0:
		return fmt.Errorf("quota.low_watermark must be positive, got %d", q.LowWatermark)
	case float64(q.LowWatermark) >= q.HighWatermark:
		return fmt.Errorf("quota.low_watermark (%d) must be below quota.high_watermark (%g)", q.LowWatermark, q.HighWatermark)
	case q.LeaseTTL <= 0:
		return fmt.Errorf("quota.lease_ttl must be positive, got %s", q.LeaseTTL)
	case q.WorkerInterval <= 0:
		return fmt.Errorf("quota.worker_interval must be positive, got %s", q.WorkerInterval)
	}
	return nil
}

type Gemini struct {
	APIKey         string  `yaml:"api_key" env:"GEMINI_API_KEY"`
	BaseURL        string  `yaml:"base_url"`
	VisionModel    string  `yaml:"vision_model" env-default:"gemini-2.0-flash"`
	EmbeddingModel string  `yaml:"embedding_model" env-default:"text-embedding-004"`
	Temperature    float64 `yaml:"temperature" env-default:"0.2"`
	MaxTokens      int     `yaml:"max_output_tokens" env-default:"1024"`
}

type Pinecone struct {
	APIKey    string `yaml:"api_key" env:"PINECONE_API_KEY"`
	IndexHost string `yaml:"index_host" env:"PINECONE_INDEX_HOST"`
	TopK      int    `yaml:"top_k" env-default:"5"`
}

type RateLimit struct {
	UploadsPerMinute int64 `yaml:"uploads_per_minute" env-default:"20"`
	SearchPerMinute  int64 `yaml:"search_per_minute" env-default:"60"`
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	if err := cfg.Quota.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	return &cfg
}
