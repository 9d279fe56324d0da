package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearPodseekEnvVars clears the configuration environment variables so a
// test sees only what it sets itself.
func clearPodseekEnvVars(t *testing.T) {
	t.Helper()
	suffixes := []string{
		"OPENAI_API_KEY",
		"EMBEDDING_BASE_URL",
		"EMBEDDING_MODEL",
		"EMBEDDING_DIMENSIONS",
		"EMBEDDING_TIMEOUT_SECONDS",
		"VECTOR_INDEX_NAME",
		"SEARCH_TIMEOUT_SECONDS",
	}
	for _, suffix := range suffixes {
		t.Setenv("PODSEEK_"+suffix, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearPodseekEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "", p.EmbeddingAPIKey)
	assert.Equal(t, "", p.EmbeddingBaseURL)
	assert.Equal(t, "text-embedding-3-small", p.EmbeddingModel)
	assert.Equal(t, 1536, p.EmbeddingDimensions)
	assert.Equal(t, 30, p.EmbeddingTimeout)
	assert.Equal(t, "segment_embedding_embedding_idx", p.VectorIndexName)
	assert.Equal(t, 30, p.SearchTimeout)
}

func TestFromEnv(t *testing.T) {
	clearPodseekEnvVars(t)
	t.Setenv("PODSEEK_OPENAI_API_KEY", "test-key")
	t.Setenv("PODSEEK_EMBEDDING_BASE_URL", "https://llm.example.com/v1")
	t.Setenv("PODSEEK_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("PODSEEK_EMBEDDING_DIMENSIONS", "3072")
	t.Setenv("PODSEEK_SEARCH_TIMEOUT_SECONDS", "10")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "test-key", p.EmbeddingAPIKey)
	assert.Equal(t, "https://llm.example.com/v1", p.EmbeddingBaseURL)
	assert.Equal(t, "text-embedding-3-large", p.EmbeddingModel)
	assert.Equal(t, 3072, p.EmbeddingDimensions)
	assert.Equal(t, 10, p.SearchTimeout)
}

func validProfile(t *testing.T) *Profile {
	t.Helper()
	return &Profile{
		Mode:                "dev",
		Transport:           "stdio",
		Driver:              "sqlite",
		Data:                t.TempDir(),
		EmbeddingAPIKey:     "test-key",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		errMsg  string
		wantErr bool
	}{
		{
			name:   "valid sqlite profile",
			mutate: func(p *Profile) {},
		},
		{
			name:   "unknown mode falls back to dev",
			mutate: func(p *Profile) { p.Mode = "staging" },
		},
		{
			name:    "unknown transport",
			mutate:  func(p *Profile) { p.Transport = "grpc" },
			wantErr: true,
			errMsg:  "unknown transport",
		},
		{
			name:    "unknown driver",
			mutate:  func(p *Profile) { p.Driver = "mysql" },
			wantErr: true,
			errMsg:  "unknown db driver",
		},
		{
			name:    "missing provider credential",
			mutate:  func(p *Profile) { p.EmbeddingAPIKey = "" },
			wantErr: true,
			errMsg:  "PODSEEK_OPENAI_API_KEY",
		},
		{
			name: "postgres requires DSN",
			mutate: func(p *Profile) {
				p.Driver = "postgres"
				p.DSN = ""
			},
			wantErr: true,
			errMsg:  "PODSEEK_DSN",
		},
		{
			name:    "dimensions must be positive",
			mutate:  func(p *Profile) { p.EmbeddingDimensions = -1 },
			wantErr: true,
			errMsg:  "dimensions must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile(t)
			tt.mutate(p)

			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDerivesSQLiteDSN(t *testing.T) {
	p := validProfile(t)

	require.NoError(t, p.Validate())
	assert.True(t, strings.HasSuffix(p.DSN, "podseek_dev.db"), "derived DSN %q", p.DSN)
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	p := validProfile(t)
	p.DSN = "/tmp/custom.db"

	require.NoError(t, p.Validate())
	assert.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestValidateBackfillsDefaults(t *testing.T) {
	p := validProfile(t)
	p.EmbeddingTimeout = 0
	p.SearchTimeout = -5
	p.VectorIndexName = ""

	require.NoError(t, p.Validate())
	assert.Equal(t, 30, p.EmbeddingTimeout)
	assert.Equal(t, 30, p.SearchTimeout)
	assert.Equal(t, "segment_embedding_embedding_idx", p.VectorIndexName)
}

func TestValidateNormalizesMode(t *testing.T) {
	p := validProfile(t)
	p.Mode = "whatever"

	require.NoError(t, p.Validate())
	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
}
