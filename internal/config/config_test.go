package config

import "testing"

func validConfig() *Config {
	return defaultConfig()
}

func TestValidateDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max sections", func(c *Config) { c.Digest.MaxSections = 0 }},
		{"negative max sections", func(c *Config) { c.Digest.MaxSections = -1 }},
		{"zero min cluster size", func(c *Config) { c.Digest.MinClusterSize = 0 }},
		{"threshold above one", func(c *Config) { c.Digest.SimilarityThreshold = 1.5 }},
		{"negative threshold", func(c *Config) { c.Digest.SimilarityThreshold = -0.1 }},
		{"zero window hours", func(c *Config) { c.Sources.WindowHours = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Digest.MinScore != 0.6 {
		t.Errorf("got min score %v, want 0.6", cfg.Digest.MinScore)
	}
	if cfg.Digest.MaxSections != 5 {
		t.Errorf("got max sections %d, want 5", cfg.Digest.MaxSections)
	}
	if cfg.Sources.WindowHours != 24 {
		t.Errorf("got window hours %d, want 24", cfg.Sources.WindowHours)
	}
	if cfg.Sources.RetryMaxAttempts != 3 {
		t.Errorf("got retry attempts %d, want 3", cfg.Sources.RetryMaxAttempts)
	}
}
