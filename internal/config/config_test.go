package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("Port = %s, want 8090", cfg.Port)
	}
	if cfg.DefaultChunkSize != 1000 || cfg.DefaultChunkOverlap != 150 {
		t.Errorf("chunk defaults = %d/%d, want 1000/150", cfg.DefaultChunkSize, cfg.DefaultChunkOverlap)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %s, want 30s", cfg.FetchTimeout)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("worker pool = %d/%d, want 4/100", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_CHUNK_SIZE", "500")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.DefaultChunkSize != 500 {
		t.Errorf("DefaultChunkSize = %d, want 500", cfg.DefaultChunkSize)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %s, want 5s", cfg.FetchTimeout)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("PDFFallbackPdftotext = true, want false")
	}
}

func TestLoadIgnoresGarbageValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "lots")
	t.Setenv("JOB_TTL", "-1h")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want fallback 4", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %s, want clamped 1h", cfg.JobTTL)
	}
}

func TestValidateRejectsOversizedOverlap(t *testing.T) {
	cfg := Load()
	cfg.DefaultChunkOverlap = cfg.DefaultChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for overlap >= chunk size")
	}
}
