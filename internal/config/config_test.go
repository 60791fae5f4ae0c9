package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	c := Config{}
	c.HTTP.Port = 8080
	c.ApplyDefaults()
	return c
}

func TestApplyDefaults(t *testing.T) {
	c := Config{}
	c.ApplyDefaults()

	if c.HTTP.ReadTimeoutSec != 10 || c.HTTP.WriteTimeoutSec != 30 || c.HTTP.ShutdownSec != 10 {
		t.Errorf("http defaults = %+v", c.HTTP)
	}
	if c.Storage.KeyPrefix != "redraft:" {
		t.Errorf("key prefix = %q", c.Storage.KeyPrefix)
	}
	if c.Chunking.Method != "adaptive" || c.Chunking.ChunkSize != 500 || c.Chunking.TargetSize != 600 {
		t.Errorf("chunking defaults = %+v", c.Chunking)
	}
	if c.Chunking.SemanticSimilarityThreshold != 0.6 ||
		c.Chunking.SemanticMinFactor != 0.5 ||
		c.Chunking.SemanticMaxFactor != 1.5 {
		t.Errorf("semantic defaults = %+v", c.Chunking)
	}
	if c.Retrieval.WeightDense != 0.7 || c.Retrieval.WeightSparse != 0.3 || c.Retrieval.PoolMultiplier != 2 {
		t.Errorf("retrieval defaults = %+v", c.Retrieval)
	}
	if c.Cascade.HighThreshold != 0.75 || c.Cascade.MediumThreshold != 0.5 || c.Cascade.ExtendedThreshold != 0.4 {
		t.Errorf("cascade thresholds = %+v", c.Cascade)
	}
	if c.Cascade.MaxContextDocs != 5 || c.Cascade.LengthSlackWords != 15 {
		t.Errorf("cascade limits = %+v", c.Cascade)
	}
}

func TestApplyDefaults_KeepsExplicitWeights(t *testing.T) {
	c := Config{}
	c.Retrieval.WeightDense = 0.9
	c.Retrieval.WeightSparse = 0.1
	c.ApplyDefaults()

	if c.Retrieval.WeightDense != 0.9 || c.Retrieval.WeightSparse != 0.1 {
		t.Errorf("explicit weights overwritten: %+v", c.Retrieval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name:    "port zero rejected",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			wantErr: "http.port",
		},
		{
			name:    "port out of range rejected",
			mutate:  func(c *Config) { c.HTTP.Port = 70000 },
			wantErr: "http.port",
		},
		{
			name:    "overlap must be below chunk size",
			mutate:  func(c *Config) { c.Chunking.OverlapSize = c.Chunking.ChunkSize },
			wantErr: "overlap_size",
		},
		{
			name:    "unknown chunking method rejected",
			mutate:  func(c *Config) { c.Chunking.Method = "recursive" },
			wantErr: "chunking.method",
		},
		{
			name: "semantic factors must be ordered",
			mutate: func(c *Config) {
				c.Chunking.SemanticMinFactor = 2.0
				c.Chunking.SemanticMaxFactor = 1.5
			},
			wantErr: "semantic_min_factor",
		},
		{
			name: "medium threshold must not exceed high",
			mutate: func(c *Config) {
				c.Cascade.MediumThreshold = 0.9
				c.Cascade.HighThreshold = 0.75
			},
			wantErr: "medium_threshold",
		},
		{
			name: "extended threshold must not exceed medium",
			mutate: func(c *Config) {
				c.Cascade.ExtendedThreshold = 0.6
				c.Cascade.MediumThreshold = 0.5
			},
			wantErr: "extended_threshold",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REDRAFT_TEST_SET", "from-env")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "set variable substituted",
			in:   "key: ${REDRAFT_TEST_SET}",
			want: "key: from-env",
		},
		{
			name: "unset variable becomes empty",
			in:   "key: ${REDRAFT_TEST_UNSET}",
			want: "key: ",
		},
		{
			name: "default used when unset",
			in:   "key: ${REDRAFT_TEST_UNSET:-fallback}",
			want: "key: fallback",
		},
		{
			name: "default ignored when set",
			in:   "key: ${REDRAFT_TEST_SET:-fallback}",
			want: "key: from-env",
		},
		{
			name: "plain text untouched",
			in:   "key: $HOME and {braces}",
			want: "key: $HOME and {braces}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars = %q, want %q", got, tt.want)
			}
		})
	}
}
