package config

import (
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		shouldSet    bool
		want         string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			shouldSet:    true,
			want:         "custom",
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_VAR_MISSING",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    false,
			want:         "default",
		},
		{
			name:         "returns default when environment variable is empty string",
			key:          "TEST_VAR_EMPTY",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    true,
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		shouldSet    bool
		want         int
	}{
		{
			name:         "returns environment variable as int when valid",
			key:          "TEST_INT_VAR",
			defaultValue: 100,
			envValue:     "200",
			shouldSet:    true,
			want:         200,
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_INT_VAR_MISSING",
			defaultValue: 100,
			envValue:     "",
			shouldSet:    false,
			want:         100,
		},
		{
			name:         "returns default when environment variable is not an integer",
			key:          "TEST_INT_VAR_BAD",
			defaultValue: 100,
			envValue:     "not-a-number",
			shouldSet:    true,
			want:         100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Run("parses valid float", func(t *testing.T) {
		t.Setenv("TEST_FLOAT_VAR", "0.35")

		if got := getEnvAsFloat("TEST_FLOAT_VAR", 1); got != 0.35 {
			t.Errorf("getEnvAsFloat() = %v, want 0.35", got)
		}
	})

	t.Run("returns default on garbage", func(t *testing.T) {
		t.Setenv("TEST_FLOAT_VAR_BAD", "zero")

		if got := getEnvAsFloat("TEST_FLOAT_VAR_BAD", 1); got != 1 {
			t.Errorf("getEnvAsFloat() = %v, want 1", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("requires API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "")

		if _, err := Load(); err == nil {
			t.Error("Load() expected error when API_KEY unset")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("EMBEDDING_MAX_ATTEMPTS", "")
		t.Setenv("REFERENCE_UID", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		if cfg.EmbeddingMaxAttempts != 3 {
			t.Errorf("EmbeddingMaxAttempts = %d, want 3", cfg.EmbeddingMaxAttempts)
		}

		if cfg.EmbeddingDimensions != 1536 {
			t.Errorf("EmbeddingDimensions = %d, want 1536", cfg.EmbeddingDimensions)
		}

		if cfg.ReferenceUID != 1 {
			t.Errorf("ReferenceUID = %d, want 1", cfg.ReferenceUID)
		}

		if cfg.SimilarityFloor != 0 {
			t.Errorf("SimilarityFloor = %v, want 0", cfg.SimilarityFloor)
		}
	})

	t.Run("rejects non-positive attempts", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("EMBEDDING_MAX_ATTEMPTS", "0")

		if _, err := Load(); err == nil {
			t.Error("Load() expected error for EMBEDDING_MAX_ATTEMPTS=0")
		}
	})
}
