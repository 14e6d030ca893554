package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestGetOrAddCreatesEntry(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, DefaultFileName)
	exe := filepath.Join(dir, "host.exe")

	s, err := GetOrAddServerSettings(cfgPath, exe, 8081)
	if err != nil {
		t.Fatalf("GetOrAddServerSettings: %v", err)
	}
	if s.Port != 8081 {
		t.Fatalf("expected port 8081, got %d", s.Port)
	}

	raw, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	var hosts map[string]ServerSettings
	if err := json.Unmarshal(raw, &hosts); err != nil {
		t.Fatalf("config not valid json: %v", err)
	}
	abs, _ := filepath.Abs(exe)
	if hosts[abs].Port != 8081 {
		t.Fatalf("expected entry for %s with port 8081, got %v", abs, hosts)
	}
}

func TestGetOrAddReturnsExisting(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, DefaultFileName)
	exe := filepath.Join(dir, "host.exe")

	if _, err := GetOrAddServerSettings(cfgPath, exe, 8081); err != nil {
		t.Fatalf("first call: %v", err)
	}
	s, err := GetOrAddServerSettings(cfgPath, exe, 9000)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if s.Port != 8081 {
		t.Fatalf("existing entry must win, got %d", s.Port)
	}
}

func TestGetOrAddSkipsUsedPorts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, DefaultFileName)

	if _, err := GetOrAddServerSettings(cfgPath, filepath.Join(dir, "a.exe"), 8081); err != nil {
		t.Fatalf("first: %v", err)
	}
	s, err := GetOrAddServerSettings(cfgPath, filepath.Join(dir, "b.exe"), 8081)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if s.Port != 8082 {
		t.Fatalf("expected next free port 8082, got %d", s.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	hosts, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(hosts) != 0 {
		t.Fatalf("expected empty map")
	}
}

func TestPortFloor(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, DefaultFileName)
	s, err := GetOrAddServerSettings(cfgPath, filepath.Join(dir, "low.exe"), 80)
	if err != nil {
		t.Fatalf("GetOrAddServerSettings: %v", err)
	}
	if s.Port < 1024 {
		t.Fatalf("port must be clamped to >=1024, got %d", s.Port)
	}
}
