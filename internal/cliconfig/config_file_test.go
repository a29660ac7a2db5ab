package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				OverpassURL:      "http://overpass.local/api/interpreter",
				UserAgent:        "BeerCompass/2.0",
				HTTPTimeout:      "5m",
				QueryTimeout:     "4m",
				MaxRetries:       5,
				RequestDelay:     "1s",
				GatewayBackoff:   "15s",
				TimeoutBackoff:   "7s",
				RateLimitBackoff: "2m",
				DataDir:          "/var/lib/barfetch",
				Output:           "/srv/bars.json",
				Method:           "countries",
				City:             "berlin",
				Resume:           &falseVal,
				LogLevel:         "debug",
			},
			changed: map[string]bool{},
			initial: Config{Resume: true},
			expected: Config{
				OverpassURL:      "http://overpass.local/api/interpreter",
				UserAgent:        "BeerCompass/2.0",
				HTTPTimeout:      5 * time.Minute,
				QueryTimeout:     4 * time.Minute,
				MaxRetries:       5,
				RequestDelay:     time.Second,
				GatewayBackoff:   15 * time.Second,
				TimeoutBackoff:   7 * time.Second,
				RateLimitBackoff: 2 * time.Minute,
				DataDir:          "/var/lib/barfetch",
				Output:           "/srv/bars.json",
				Method:           "countries",
				City:             "berlin",
				Resume:           false,
				LogLevel:         "debug",
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				DataDir: "/config/data",
				Method:  "regions",
				Resume:  &trueVal,
			},
			changed: map[string]bool{"data-dir": true, "resume": true},
			initial: Config{
				DataDir: "/flag/data",
				Method:  "blocks",
			},
			expected: Config{
				DataDir: "/flag/data", // unchanged because flag was set
				Method:  "regions",
				Resume:  false,
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{RequestDelay: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyFileConfig() =\n%+v\nwant\n%+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
overpass_url = "https://overpass.kumi.systems/api/interpreter"
method = "regions"
request_delay = "5s"
max_retries = 4
resume = false
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.OverpassURL != "https://overpass.kumi.systems/api/interpreter" {
		t.Errorf("OverpassURL = %v", fc.OverpassURL)
	}
	if fc.Method != "regions" {
		t.Errorf("Method = %v, want regions", fc.Method)
	}
	if fc.RequestDelay != "5s" {
		t.Errorf("RequestDelay = %v, want 5s", fc.RequestDelay)
	}
	if fc.MaxRetries != 4 {
		t.Errorf("MaxRetries = %v, want 4", fc.MaxRetries)
	}
	if fc.Resume == nil || *fc.Resume {
		t.Errorf("Resume = %v, want false", fc.Resume)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
method = "blocks"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".barfetch") {
		t.Errorf("DefaultConfigPath() = %v, should contain .barfetch", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
