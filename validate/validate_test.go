package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"name": "Test Config",
	"description": "Test configuration",
	"grid_size": 4,
	"win_target": 512,
	"spawn_four_probability": 0.1,
	"messages": {
		"welcome": "Welcome!",
		"cant_move": "Blocked",
		"victory": "Reached %d!",
		"game_over": "Game over!",
		"score_status": "Best: %d"
	}
}`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(result ValidationResult, substr string) bool {
	for _, msg := range result.Errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test_config.json", validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test_config.json" {
		t.Errorf("Expected file name test_config.json, got %s", result.File)
	}

	if len(result.Errors) != 5 {
		t.Errorf("Expected 5 info lines, got %v", result.Errors)
	}
	for _, want := range []string{"✓ Name: Test Config", "✓ Grid: 4x4", "✓ Win target: 512", "✓ Four probability: 0.1", "✓ Seed: random"} {
		if !hasMessage(result, want) {
			t.Errorf("Expected info %q in %v", want, result.Errors)
		}
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "invalid JSON",
			content: `{"name": "test", invalid json}`,
			want:    "Invalid JSON",
		},
		{
			name:    "unknown field",
			content: strings.Replace(validConfig, `"grid_size": 4`, `"grid_size": 4, "layout": []`, 1),
			want:    "Invalid JSON",
		},
		{
			name:    "grid too small",
			content: strings.Replace(validConfig, `"grid_size": 4`, `"grid_size": 1`, 1),
			want:    "grid_size",
		},
		{
			name:    "target not a power of two",
			content: strings.Replace(validConfig, `"win_target": 512`, `"win_target": 500`, 1),
			want:    "win_target",
		},
		{
			name: "unreachable target",
			content: strings.Replace(
				strings.Replace(validConfig, `"grid_size": 4`, `"grid_size": 2`, 1),
				`"win_target": 512`, `"win_target": 64`, 1),
			want: "unreachable",
		},
		{
			name:    "victory without placeholder",
			content: strings.Replace(validConfig, `"Reached %d!"`, `"You won!"`, 1),
			want:    "messages.victory",
		},
		{
			name:    "missing cant_move",
			content: strings.Replace(validConfig, `"Blocked"`, `""`, 1),
			want:    "messages.cant_move",
		},
	}

	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, "config_"+string(rune('a'+i))+".json", tt.content)

			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasMessage(result, tt.want) {
				t.Errorf("Expected an error mentioning %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateConfig_FourProbability(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "explicit zero",
			content: strings.Replace(validConfig, `"spawn_four_probability": 0.1`, `"spawn_four_probability": 0`, 1),
			want:    "✓ Four probability: 0",
		},
		{
			name:    "omitted",
			content: strings.Replace(validConfig, `"spawn_four_probability": 0.1,`, "", 1),
			want:    "✓ Four probability: 0.2",
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.content)

			result := validateConfig(path)
			if !result.Valid {
				t.Fatalf("Expected valid config, got %v", result.Errors)
			}
			found := false
			for _, msg := range result.Errors {
				if msg == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected info %q in %v", tt.want, result.Errors)
			}
		})
	}
}

func TestResolveFiles(t *testing.T) {
	files, err := resolveFiles("configs", []string{"classic", "other/path.json"})
	if err != nil {
		t.Fatalf("resolveFiles failed: %v", err)
	}
	if files[0] != filepath.Join("configs", "classic.json") || files[1] != "other/path.json" {
		t.Errorf("Unexpected files: %v", files)
	}

	if _, err := resolveFiles(t.TempDir(), nil); err == nil {
		t.Error("Expected error for an empty directory")
	}
}

func TestBundledConfigsAreValid(t *testing.T) {
	files, err := resolveFiles("../configs", nil)
	if err != nil {
		t.Fatalf("resolveFiles failed: %v", err)
	}

	var buf bytes.Buffer
	if invalid := runValidation(&buf, files); invalid != 0 {
		t.Errorf("Expected all bundled configs to be valid, got %d invalid:\n%s", invalid, buf.String())
	}
	if !strings.Contains(buf.String(), "All configurations are valid") {
		t.Errorf("Expected summary line, got:\n%s", buf.String())
	}
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "good.json", validConfig)
	writeConfig(t, dir, "bad.json", `{"name": "bad"}`)

	t.Run("valid file", func(t *testing.T) {
		cmd := newCommand()
		var buf bytes.Buffer
		cmd.Writer = &buf
		if err := cmd.Run(context.Background(), []string{"validate", "--dir", dir, "good"}); err != nil {
			t.Fatalf("Expected success, got %v", err)
		}
		if !strings.Contains(buf.String(), "✅ VALID") {
			t.Errorf("Expected VALID in output, got:\n%s", buf.String())
		}
	})

	t.Run("whole directory with an invalid file", func(t *testing.T) {
		cmd := newCommand()
		var buf bytes.Buffer
		cmd.Writer = &buf
		err := cmd.Run(context.Background(), []string{"validate", "--dir", dir})
		if err == nil {
			t.Fatal("Expected error when a config is invalid")
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("Expected count in error, got %v", err)
		}
		if !strings.Contains(buf.String(), "❌ INVALID") {
			t.Errorf("Expected INVALID in output, got:\n%s", buf.String())
		}
	})
}
