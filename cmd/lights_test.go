package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/backlightd/internal/lights"
)

func makeDevice(t *testing.T, root, name, maxBrightness string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(maxBrightness), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte("0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runLights(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := CreateLightsCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLightsList(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "intel_backlight", "937\n")

	out, err := runLights(t, "list", "--root", root)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "backlight") || !strings.Contains(out, "937") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestLightsListJSON(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "intel_backlight", "937\n")

	out, err := runLights(t, "list", "--json", "--root", root)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var infos []struct {
		ID            int    `json:"id"`
		Type          string `json:"type"`
		MaxBrightness uint32 `json:"max_brightness"`
	}
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out)
	}
	if len(infos) != 1 || infos[0].Type != "backlight" || infos[0].MaxBrightness != 937 {
		t.Errorf("Unexpected lights: %+v", infos)
	}
}

func TestLightsSet(t *testing.T) {
	root := t.TempDir()
	dir := makeDevice(t, root, "intel_backlight", "255\n")

	if _, err := runLights(t, "set", "--root", root, "0", "0xffffff"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "brightness"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "255" {
		t.Errorf("Expected brightness 255, got %q", data)
	}
}

func TestLightsSetUnknown(t *testing.T) {
	root := t.TempDir()
	makeDevice(t, root, "intel_backlight", "255\n")

	_, err := runLights(t, "set", "--root", root, "4", "0xffffff")
	if !errors.Is(err, lights.ErrUnsupportedOperation) {
		t.Errorf("Expected unsupported operation, got %v", err)
	}
}

func TestLightsSetInvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad id", []string{"set", "x", "0xffffff"}},
		{"bad color", []string{"set", "0", "blue"}},
		{"bad mode", []string{"set", "--mode", "strobe", "0", "0xffffff"}},
		{"missing color", []string{"set", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runLights(t, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
