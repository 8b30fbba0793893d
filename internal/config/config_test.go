package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"
)

var availableAlgos = []string{"binomial", "multiplicative"}

func TestParseConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		cfg, err := ParseConfig("combicalc", []string{}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Op != OpCount || cfg.N != DefaultN || cfg.K != DefaultK {
			t.Errorf("unexpected defaults: op=%s n=%d k=%d", cfg.Op, cfg.N, cfg.K)
		}
		if cfg.Workers != DefaultWorkers {
			t.Errorf("Expected default Workers %d, got %d", DefaultWorkers, cfg.Workers)
		}
		if cfg.Algo != "all" {
			t.Errorf("Expected default Algo 'all', got %s", cfg.Algo)
		}
		if cfg.Timeout != 5*time.Minute {
			t.Errorf("Expected default Timeout 5m, got %v", cfg.Timeout)
		}
	})

	t.Run("ValidFlags", func(t *testing.T) {
		args := []string{
			"-op", "PARTITION",
			"-n", "100",
			"-k", "6",
			"-w", "8",
			"-algo", "binomial",
			"-v",
			"-timeout", "10s",
			"-o", "plan.json",
			"-q",
		}
		cfg, err := ParseConfig("combicalc", args, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Op != OpPartition {
			t.Errorf("Expected op to be normalized to 'partition', got %s", cfg.Op)
		}
		if cfg.N != 100 || cfg.K != 6 || cfg.Workers != 8 {
			t.Errorf("unexpected space: n=%d k=%d workers=%d", cfg.N, cfg.K, cfg.Workers)
		}
		if cfg.Algo != "binomial" || !cfg.Verbose || !cfg.Quiet {
			t.Errorf("unexpected flags: %+v", cfg)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Expected Timeout 10s, got %v", cfg.Timeout)
		}
		if cfg.OutputFile != "plan.json" {
			t.Errorf("Expected OutputFile plan.json, got %s", cfg.OutputFile)
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		env := map[string]string{
			"COMBICALC_OP":          "unrank",
			"COMBICALC_N":           "52",
			"COMBICALC_K":           "5",
			"COMBICALC_WORKERS":     "3",
			"COMBICALC_RANK":        "1299480",
			"COMBICALC_COMBINATION": "0,1,2,3,4",
			"COMBICALC_ALGO":        "multiplicative",
			"COMBICALC_PORT":        "3000",
			"COMBICALC_TIMEOUT":     "2m",
			"COMBICALC_VERBOSE":     "yes",
			"COMBICALC_QUIET":       "1",
			"COMBICALC_NO_COLOR":    "true",
			"COMBICALC_JSON":        "true",
		}
		for k, v := range env {
			t.Setenv(k, v)
		}

		cfg, err := ParseConfig("combicalc", []string{}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Op != OpUnrank || cfg.N != 52 || cfg.K != 5 || cfg.Workers != 3 {
			t.Errorf("unexpected space from env: %+v", cfg)
		}
		if cfg.Rank != "1299480" || cfg.Combination != "0,1,2,3,4" {
			t.Errorf("unexpected rank/combination from env: %q %q", cfg.Rank, cfg.Combination)
		}
		if cfg.Algo != "multiplicative" || cfg.Port != "3000" || cfg.Timeout != 2*time.Minute {
			t.Errorf("unexpected settings from env: %+v", cfg)
		}
		if !cfg.Verbose || !cfg.Quiet || !cfg.NoColor || !cfg.JSONOutput {
			t.Errorf("unexpected booleans from env: %+v", cfg)
		}
	})

	t.Run("ServerFromEnv", func(t *testing.T) {
		t.Setenv("COMBICALC_SERVER", "true")
		t.Setenv("COMBICALC_OUTPUT", "plan.json")
		t.Setenv("COMBICALC_OP", "partition")
		cfg, err := ParseConfig("combicalc", nil, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !cfg.ServerMode || cfg.OutputFile != "plan.json" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("FlagPrecedenceOverEnv", func(t *testing.T) {
		t.Setenv("COMBICALC_N", "200")
		t.Setenv("COMBICALC_WORKERS", "9")
		cfg, err := ParseConfig("combicalc", []string{"-n", "300", "-workers", "2"}, io.Discard, availableAlgos)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.N != 300 || cfg.Workers != 2 {
			t.Errorf("Expected flags to win over env, got n=%d workers=%d", cfg.N, cfg.Workers)
		}
	})

	t.Run("InvalidFlags", func(t *testing.T) {
		if _, err := ParseConfig("combicalc", []string{"-unknown"}, io.Discard, availableAlgos); err == nil {
			t.Error("Expected error for unknown flag")
		}
	})

	t.Run("Help", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := ParseConfig("combicalc", []string{"-h"}, &buf, availableAlgos)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("Expected flag.ErrHelp, got %v", err)
		}
		for _, want := range []string{"-op", "-w, -workers", "COMBICALC_N", "Examples"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("usage lacks %q:\n%s", want, buf.String())
			}
		}
		if strings.Contains(buf.String(), "COMBICALC_COMPLETION") {
			t.Error("usage advertises an environment variable for -completion")
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := ParseConfig("combicalc", []string{"-algo", "invalid"}, &buf, availableAlgos)
		if err == nil || !IsConfigError(err) {
			t.Fatalf("Expected a configuration error, got %v", err)
		}
		if !strings.Contains(buf.String(), "Configuration error") {
			t.Errorf("error writer lacks the validation message: %s", buf.String())
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	base := AppConfig{Op: OpCount, N: 10, K: 3, Workers: 2, Timeout: time.Second, Algo: "all"}
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{"Valid", func(c *AppConfig) {}, false},
		{"NamedCounter", func(c *AppConfig) { c.Algo = "binomial" }, false},
		{"UnknownCounter", func(c *AppConfig) { c.Algo = "fft" }, true},
		{"ZeroTimeout", func(c *AppConfig) { c.Timeout = 0 }, true},
		{"UnknownOp", func(c *AppConfig) { c.Op = "shuffle" }, true},
		{"NegativeN", func(c *AppConfig) { c.N = -1 }, true},
		{"KAboveN", func(c *AppConfig) { c.K = 11 }, true},
		{"KEqualsN", func(c *AppConfig) { c.K = 10 }, false},
		{"ZeroWorkersCount", func(c *AppConfig) { c.Workers = 0 }, false},
		{"ZeroWorkersPartition", func(c *AppConfig) { c.Op, c.Workers = OpPartition, 0 }, true},
		{"ZeroWorkersSweep", func(c *AppConfig) { c.Op, c.Workers = OpSweep, 0 }, true},
		{"RankWithoutCombination", func(c *AppConfig) { c.Op = OpRank }, true},
		{"RankEmptyCombinationForKZero", func(c *AppConfig) { c.Op, c.K = OpRank, 0 }, false},
		{"RankWithCombination", func(c *AppConfig) { c.Op, c.Combination = OpRank, "0,1,2" }, false},
		{"UnrankWithoutRank", func(c *AppConfig) { c.Op = OpUnrank }, true},
		{"UnrankBadRank", func(c *AppConfig) { c.Op, c.Rank = OpUnrank, "12x" }, true},
		{"UnrankWithRank", func(c *AppConfig) { c.Op, c.Rank = OpUnrank, "119" }, false},
		{"OutputWithoutPartition", func(c *AppConfig) { c.OutputFile = "plan.json" }, true},
		{"OutputWithPartition", func(c *AppConfig) { c.Op, c.OutputFile = OpPartition, "plan.json" }, false},
		{"ServerSkipsSpaceChecks", func(c *AppConfig) { c.ServerMode, c.K = true, 99 }, false},
		{"CompletionSkipsSpaceChecks", func(c *AppConfig) { c.Completion, c.Op = "bash", "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := base
			tt.mutate(&c)
			err := c.Validate(availableAlgos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsConfigError(err) {
				t.Errorf("Validate() returned %T, want ConfigError", err)
			}
		})
	}
}

func TestParsedValues(t *testing.T) {
	t.Parallel()

	c := AppConfig{N: 6, K: 3, Rank: " 123456789012345678901234567890 ", Combination: "[0 2 5]"}
	r, err := c.ParsedRank()
	if err != nil || r.String() != "123456789012345678901234567890" {
		t.Errorf("ParsedRank() = %v, %v", r, err)
	}
	comb, err := c.ParsedCombination()
	if err != nil || comb.String() != "[0 2 5]" {
		t.Errorf("ParsedCombination() = %v, %v", comb, err)
	}
	s, err := c.Space()
	if err != nil || s.N != 6 || s.K != 3 {
		t.Errorf("Space() = %v, %v", s, err)
	}

	c.Rank = "-"
	if _, err := c.ParsedRank(); err == nil {
		t.Error("ParsedRank accepted a malformed rank")
	}
}

func TestEnvHelpers(t *testing.T) {
	prefix := EnvPrefix

	t.Run("getEnvString", func(t *testing.T) {
		t.Setenv(prefix+"TEST_STRING", "value")
		if val := getEnvString("TEST_STRING", "default"); val != "value" {
			t.Errorf("Expected 'value', got '%s'", val)
		}
		if val := getEnvString("NONEXISTENT", "default"); val != "default" {
			t.Errorf("Expected 'default', got '%s'", val)
		}
	})

	t.Run("getEnvInt", func(t *testing.T) {
		t.Setenv(prefix+"TEST_INT", "-123")
		if val := getEnvInt("TEST_INT", 0); val != -123 {
			t.Errorf("Expected -123, got %d", val)
		}
		t.Setenv(prefix+"INVALID", "abc")
		if val := getEnvInt("INVALID", 999); val != 999 {
			t.Errorf("Expected default 999 for invalid input, got %d", val)
		}
	})

	t.Run("getEnvBool", func(t *testing.T) {
		key := "TEST_BOOL"
		t.Setenv(prefix+key, "true")
		if val := getEnvBool(key, false); !val {
			t.Error("Expected true")
		}
		t.Setenv(prefix+key, "0")
		if val := getEnvBool(key, true); val {
			t.Error("Expected false for '0'")
		}
		t.Setenv(prefix+key, "invalid")
		if val := getEnvBool(key, true); !val {
			t.Error("Expected default true for invalid input")
		}
	})

	t.Run("getEnvDuration", func(t *testing.T) {
		t.Setenv(prefix+"TEST_DURATION", "1h")
		if val := getEnvDuration("TEST_DURATION", 0); val != time.Hour {
			t.Errorf("Expected 1h, got %v", val)
		}
	})
}
