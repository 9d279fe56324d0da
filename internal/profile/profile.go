package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// Embedding provider configuration (OpenAI-compatible protocol)
	EmbeddingAPIKey     string // Provider credential, required
	EmbeddingBaseURL    string // Optional, empty means the provider's default endpoint
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingTimeout    int // Provider request timeout in seconds

	// Search configuration
	VectorIndexName string // Catalog name of the nearest-neighbor index
	SearchTimeout   int    // Whole-pipeline timeout in seconds

	// Other configurations
	Mode      string // dev, prod
	Transport string // stdio, http
	Addr      string
	Port      int
	Data      string
	Driver    string // sqlite, postgres
	DSN       string
	Version   string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	// Embedding provider configuration
	p.EmbeddingAPIKey = getEnvOrDefault("PODSEEK_OPENAI_API_KEY", "")
	p.EmbeddingBaseURL = getEnvOrDefault("PODSEEK_EMBEDDING_BASE_URL", "")
	p.EmbeddingModel = getEnvOrDefault("PODSEEK_EMBEDDING_MODEL", "text-embedding-3-small")
	p.EmbeddingDimensions = getEnvOrDefaultInt("PODSEEK_EMBEDDING_DIMENSIONS", 1536)
	p.EmbeddingTimeout = getEnvOrDefaultInt("PODSEEK_EMBEDDING_TIMEOUT_SECONDS", 30)

	// Search configuration
	p.VectorIndexName = getEnvOrDefault("PODSEEK_VECTOR_INDEX_NAME", "segment_embedding_embedding_idx")
	p.SearchTimeout = getEnvOrDefaultInt("PODSEEK_SEARCH_TIMEOUT_SECONDS", 30)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and enforces the values the service
// cannot start without: a store DSN (with its credential) and the embedding
// provider credential. Both checks run before anything is served.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Transport != "stdio" && p.Transport != "http" {
		return errors.Errorf("unknown transport: %s", p.Transport)
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown db driver: %s", p.Driver)
	}

	if p.EmbeddingAPIKey == "" {
		return errors.New("embedding provider API key required (set PODSEEK_OPENAI_API_KEY)")
	}

	// SQLite derives a DSN from the data directory; every other driver
	// carries endpoint and credential inside the DSN and must supply one.
	if p.Driver == "sqlite" && p.DSN == "" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("podseek_%s.db", p.Mode))
	}
	if p.DSN == "" {
		return errors.New("store DSN required (set PODSEEK_DSN)")
	}

	if p.EmbeddingDimensions <= 0 {
		return errors.Errorf("embedding dimensions must be positive: %d", p.EmbeddingDimensions)
	}
	if p.EmbeddingTimeout <= 0 {
		p.EmbeddingTimeout = 30
	}
	if p.SearchTimeout <= 0 {
		p.SearchTimeout = 30
	}
	if p.VectorIndexName == "" {
		p.VectorIndexName = "segment_embedding_embedding_idx"
	}

	return nil
}
