package lights

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// makeDevice creates a fake sysfs backlight directory under root. An empty
// maxBrightness leaves the max_brightness file out.
func makeDevice(t *testing.T, root, name, maxBrightness string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create device dir: %v", err)
	}
	if maxBrightness != "" {
		if err := os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(maxBrightness), 0o644); err != nil {
			t.Fatalf("Failed to write max_brightness: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte("0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write brightness: %v", err)
	}
	return dir
}

func readBrightness(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, "brightness"))
	if err != nil {
		t.Fatalf("Failed to read brightness: %v", err)
	}
	return string(data)
}
