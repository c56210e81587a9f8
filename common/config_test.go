package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	body := "page_size: 1024\nnum_buffers: 5\noptimizer: sa\nseed: 42\nsa_alpha: 0.85\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.PageSize != 1024 || conf.NumBuffers != 5 || conf.Optimizer != OPTIMIZER_SA || conf.Seed != 42 {
		t.Errorf("config is not loaded: %+v", *conf)
	}
	if conf.OnMemStorage != EnableOnMemStorage {
		t.Errorf("default is not kept: %+v", *conf)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SAMEHADAQP_NUM_BUFFERS", "7")
	conf, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.NumBuffers != 7 || conf.PageSize != PageSize {
		t.Errorf("env is not applied: %+v", *conf)
	}
}

func TestConfigValidate(t *testing.T) {
	conf := NewDefaultConfig()
	conf.NumBuffers = 1
	if err := conf.Validate(); !IsResourceError(err) {
		t.Errorf("expected resource error but %v", err)
	}

	conf = NewDefaultConfig()
	conf.Optimizer = "greedy"
	if err := conf.Validate(); !IsConfigurationError(err) {
		t.Errorf("expected configuration error but %v", err)
	}

	conf = NewDefaultConfig()
	conf.SAAlpha = 0.9
	if err := conf.Validate(); !IsConfigurationError(err) {
		t.Errorf("expected configuration error but %v", err)
	}
}
