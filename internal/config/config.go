package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	DataDir   string
	OutputDir string

	ElasticAddress    string
	ElasticUsername   string
	ElasticPassword   string
	ElasticIndex      string
	ElasticMaxResults int
	ElasticTimeoutSec int
	ElasticInsecure   bool
	ElasticMaxRetries int

	TranscriptIndexURL string
	FetchRateLimitRPS  int
	FetchTimeoutMs     int

	StopwordsAdd    []string
	StopwordsRemove []string

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}
	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(dataDir, "debatetxt.db")),
		DataDir:   dataDir,
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		ElasticAddress:    getEnv("ELASTIC_ADDRESS", "https://localhost:9200"),
		ElasticUsername:   getEnv("ELASTIC_USERNAME", ""),
		ElasticPassword:   getEnv("ELASTIC_PASSWORD", ""),
		ElasticIndex:      getEnv("ELASTIC_INDEX", "austxt"),
		ElasticMaxResults: getEnvInt("ELASTIC_MAX_RESULTS", 500000),
		ElasticTimeoutSec: getEnvInt("ELASTIC_TIMEOUT_SEC", 300),
		ElasticInsecure:   getEnvBool("ELASTIC_INSECURE", true),
		ElasticMaxRetries: getEnvInt("ELASTIC_MAX_RETRIES", 5),

		TranscriptIndexURL: getEnv("TRANSCRIPT_INDEX_URL", "http://data.openaustralia.org.au/scrapedxml/representatives_debates/"),
		FetchRateLimitRPS:  getEnvInt("FETCH_RATE_LIMIT_RPS", 2),
		FetchTimeoutMs:     getEnvInt("FETCH_TIMEOUT_MS", 60000),

		StopwordsAdd:    getEnvList("STOPWORDS_ADD"),
		StopwordsRemove: getEnvList("STOPWORDS_REMOVE"),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList reads a comma separated list, dropping blank items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
