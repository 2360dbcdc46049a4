package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProjectConfig(t *testing.T) {
	cfg := DefaultProjectConfig()

	if cfg == nil {
		t.Fatal("DefaultProjectConfig() returned nil")
	}
	if cfg.Strategy != "general" {
		t.Errorf("Strategy = %s, want general", cfg.Strategy)
	}
	if cfg.Emitter != "xunit" {
		t.Errorf("Emitter = %s, want xunit", cfg.Emitter)
	}
	if len(cfg.FailureMarkers) != 2 {
		t.Errorf("len(FailureMarkers) = %d, want 2", len(cfg.FailureMarkers))
	}
	if cfg.MaxMappedProperties != 3 {
		t.Errorf("MaxMappedProperties = %d, want 3", cfg.MaxMappedProperties)
	}
	if cfg.Namespace != "" {
		t.Errorf("Namespace = %s, want empty", cfg.Namespace)
	}
}

func TestLoadProjectConfig_Missing(t *testing.T) {
	cfg, err := LoadProjectConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}
	if cfg.Strategy != "general" {
		t.Errorf("Strategy = %s, want default general", cfg.Strategy)
	}
}

func TestLoadProjectConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `strategy: delegation
namespace: Shop.Core
failure_markers: [invalid]
literals:
  text: '"sample"'
  int32: "7"
max_mapped_properties: 5
exclude:
  - Program
`
	if err := os.WriteFile(filepath.Join(dir, ".qskel.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Strategy != "delegation" {
		t.Errorf("Strategy = %s, want delegation", cfg.Strategy)
	}
	if cfg.Namespace != "Shop.Core" {
		t.Errorf("Namespace = %s, want Shop.Core", cfg.Namespace)
	}
	if cfg.Emitter != "xunit" {
		t.Errorf("Emitter = %s, want default xunit", cfg.Emitter)
	}
	if len(cfg.FailureMarkers) != 1 || cfg.FailureMarkers[0] != "invalid" {
		t.Errorf("FailureMarkers = %v, want [invalid]", cfg.FailureMarkers)
	}
	if cfg.Literals["text"] != `"sample"` {
		t.Errorf("Literals[text] = %s, want \"sample\"", cfg.Literals["text"])
	}
	if cfg.MaxMappedProperties != 5 {
		t.Errorf("MaxMappedProperties = %d, want 5", cfg.MaxMappedProperties)
	}
	if len(cfg.Exclude) != 1 {
		t.Errorf("len(Exclude) = %d, want 1", len(cfg.Exclude))
	}
}

func TestLoadProjectConfig_YmlFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".qskel.yml"), []byte("strategy: mapping\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}
	if cfg.Strategy != "mapping" {
		t.Errorf("Strategy = %s, want mapping", cfg.Strategy)
	}
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".qskel.yaml"), []byte("strategy: [unclosed\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadProjectConfig(dir); err == nil {
		t.Error("LoadProjectConfig() should fail on malformed YAML")
	}
}

func TestSaveProjectConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultProjectConfig()
	cfg.Strategy = "mapping"
	cfg.Exclude = []string{"Legacy"}

	if err := SaveProjectConfig(dir, cfg); err != nil {
		t.Fatalf("SaveProjectConfig() error = %v", err)
	}

	loaded, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}
	if loaded.Strategy != "mapping" {
		t.Errorf("Strategy = %s, want mapping", loaded.Strategy)
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "Legacy" {
		t.Errorf("Exclude = %v, want [Legacy]", loaded.Exclude)
	}
}

func TestProjectConfig_Merge(t *testing.T) {
	cfg := DefaultProjectConfig()
	cfg.Literals = map[string]string{"text": `"a"`}

	cfg.Merge(&ProjectConfig{
		Strategy: "delegation",
		Emitter:  "plan",
		Literals: map[string]string{"int32": "9"},
	})

	if cfg.Strategy != "delegation" {
		t.Errorf("Strategy = %s, want delegation", cfg.Strategy)
	}
	if cfg.Emitter != "plan" {
		t.Errorf("Emitter = %s, want plan", cfg.Emitter)
	}
	if cfg.MaxMappedProperties != 3 {
		t.Errorf("MaxMappedProperties = %d, want unchanged 3", cfg.MaxMappedProperties)
	}
	if cfg.Literals["text"] != `"a"` || cfg.Literals["int32"] != "9" {
		t.Errorf("Literals = %v, want both overrides", cfg.Literals)
	}

	cfg.Merge(nil)
	if cfg.Strategy != "delegation" {
		t.Error("Merge(nil) should not change the config")
	}
}
