package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MongoURI string
	MongoDB  string

	AWSRegion  string
	S3Bucket   string
	Source1Key string
	Source2Key string

	IngestInterval time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	APIRPS int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		if v := os.Getenv(k); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				return d
			}
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MongoURI:       env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        env("MONGO_DB", "property-db"),
		AWSRegion:      env("AWS_REGION", "eu-north-1"),
		S3Bucket:       env("S3_BUCKET", "buenro-tech-assessment-materials"),
		Source1Key:     env("S3_SOURCE1_KEY", "structured_generated_data.json"),
		Source2Key:     env("S3_SOURCE2_KEY", "large_generated_data.json"),
		IngestInterval: dur("INGEST_INTERVAL", 6*time.Hour),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		APIRPS:         atoi("API_RPS", 50),
	}
}

// S3BaseURL is the public object URL prefix the fetcher GETs against.
func (c Config) S3BaseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.S3Bucket, c.AWSRegion)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
