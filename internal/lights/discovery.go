package lights

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Default sysfs locations.
const (
	DefaultBacklightRoot = "/sys/class/backlight"
	DefaultFixedPath     = "/sys/class/backlight/backlight"
)

// Discovery policies.
const (
	PolicyScan  = "scan"
	PolicyFixed = "fixed"
)

// Discoverer finds the lights present at startup. Discovery never fails as a
// whole; unusable candidates are logged and skipped.
type Discoverer interface {
	Discover() []Light
}

// DiscoveryConfig selects and configures a discovery policy.
type DiscoveryConfig struct {
	Policy    string `toml:"policy"`
	Root      string `toml:"root"`
	FixedPath string `toml:"fixed_path"`
}

// NewDiscoverer returns the discoverer for the configured policy.
func NewDiscoverer(cfg DiscoveryConfig, logger *slog.Logger) (Discoverer, error) {
	switch strings.ToLower(cfg.Policy) {
	case "", PolicyScan:
		root := cfg.Root
		if root == "" {
			root = DefaultBacklightRoot
		}
		return &ScanDiscoverer{Root: root, Logger: logger}, nil
	case PolicyFixed:
		path := cfg.FixedPath
		if path == "" {
			path = DefaultFixedPath
		}
		return &FixedDiscoverer{Path: path, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown discovery policy %q", cfg.Policy)
	}
}

// ScanDiscoverer treats every directory or symlink under Root as a backlight.
type ScanDiscoverer struct {
	Root   string
	Logger *slog.Logger
}

// Discover scans Root once. Ids and ordinals are dense, assigned in directory
// enumeration order to the candidates that could be constructed.
func (d *ScanDiscoverer) Discover() []Light {
	logger := loggerOrDefault(d.Logger)

	entries, err := os.ReadDir(d.Root)
	if err != nil {
		logger.Error("Failed to open backlight root", "error",
			NewError(ErrDiscoveryRootUnavailable, "failed to open backlight root", d.Root, err))
		return nil
	}

	var found []Light
	for _, entry := range entries {
		if !isCandidate(entry) {
			continue
		}

		n := len(found)
		desc := Descriptor{ID: n, Ordinal: n, Type: TypeBacklight}
		path := filepath.Join(d.Root, entry.Name())

		backlight, err := NewBacklight(desc, path, logger)
		if err != nil {
			logger.Error("Skipping backlight", "path", path, "error", err)
			continue
		}
		found = append(found, backlight)
	}

	logger.Info("Found backlights", "count", len(found), "root", d.Root)
	return found
}

// isCandidate accepts non-hidden directories and any symlink. sysfs class
// entries are symlinks into the device tree.
func isCandidate(entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink != 0 {
		return true
	}
	return entry.IsDir() && !strings.HasPrefix(entry.Name(), ".")
}

// FixedDiscoverer assumes exactly one backlight at Path.
type FixedDiscoverer struct {
	Path   string
	Logger *slog.Logger
}

// Discover always returns one backlight with id 0. When max_brightness cannot
// be read the device is still listed with a maximum of 0, so every request
// writes 0.
func (d *FixedDiscoverer) Discover() []Light {
	logger := loggerOrDefault(d.Logger)
	desc := Descriptor{ID: 0, Ordinal: 0, Type: TypeBacklight}

	maxBrightness, err := readMaxBrightness(d.Path)
	if err != nil {
		logger.Warn("Backlight max_brightness unavailable, keeping device with zero range",
			"path", d.Path, "error", err)
	} else {
		logger.Info("Creating backlight", "path", d.Path, "max_brightness", maxBrightness)
	}

	return []Light{newBacklight(desc, d.Path, maxBrightness, logger)}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
