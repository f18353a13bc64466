package config

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()

		if c.FamilyName != "wikipedia" {
			t.Errorf("FamilyName = %q, want %q", c.FamilyName, "wikipedia")
		}
		if c.MaxQuerySize != 50 {
			t.Errorf("MaxQuerySize = %d, want 50", c.MaxQuerySize)
		}
		if c.MaxOpenSubjects != 100 {
			t.Errorf("MaxOpenSubjects = %d, want 100", c.MaxOpenSubjects)
		}
		if c.Concurrency != 4 {
			t.Errorf("Concurrency = %d, want 4", c.Concurrency)
		}
		if c.Throttle != 10*time.Second {
			t.Errorf("Throttle = %v, want 10s", c.Throttle)
		}
		if c.Maxlag != 5 {
			t.Errorf("Maxlag = %d, want 5", c.Maxlag)
		}
		if c.UserAgent == "" {
			t.Error("UserAgent should not be empty")
		}
		if c.Autonomous {
			t.Error("Autonomous should default to false")
		}
		if c.DryRun {
			t.Error("DryRun should default to false")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// valid returns a configuration that passes Validate, which each
	// case then breaks in exactly one way.
	valid := func() *Config {
		c := NewConfig()
		c.LangCode = "en"
		c.Autonomous = true
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing language code",
			mutate:  func(c *Config) { c.LangCode = "" },
			wantErr: ErrNoLangCode,
		},
		{
			name:    "query size zero",
			mutate:  func(c *Config) { c.MaxQuerySize = 0 },
			wantErr: ErrInvalidQuerySize,
		},
		{
			name:    "query size above API maximum",
			mutate:  func(c *Config) { c.MaxQuerySize = 501 },
			wantErr: ErrInvalidQuerySize,
		},
		{
			name:    "query size at API maximum",
			mutate:  func(c *Config) { c.MaxQuerySize = 500 },
			wantErr: nil,
		},
		{
			name:    "open subjects zero",
			mutate:  func(c *Config) { c.MaxOpenSubjects = 0 },
			wantErr: ErrInvalidOpenSubjects,
		},
		{
			name:    "concurrency zero",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative throttle",
			mutate:  func(c *Config) { c.Throttle = -time.Second },
			wantErr: ErrInvalidThrottle,
		},
		{
			name:    "zero throttle is allowed",
			mutate:  func(c *Config) { c.Throttle = 0 },
			wantErr: nil,
		},
		{
			name:    "negative maxlag",
			mutate:  func(c *Config) { c.Maxlag = -1 },
			wantErr: ErrInvalidMaxlag,
		},
		{
			name: "both report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "interactive with parallel fetching",
			mutate: func(c *Config) {
				c.Autonomous = false
				c.Concurrency = 4
			},
			wantErr: ErrInteractiveConcurrency,
		},
		{
			name: "interactive with single fetcher",
			mutate: func(c *Config) {
				c.Autonomous = false
				c.Concurrency = 1
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		if dir == "" {
			t.Errorf("%s dir should not be empty", name)
		}
	}
}
