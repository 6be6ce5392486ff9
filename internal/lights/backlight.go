package lights

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	maxBrightnessFile = "max_brightness"
	brightnessFile    = "brightness"
)

// Level is a brightness value written to a device, with the device maximum.
type Level struct {
	Value uint32
	Max   uint32
}

// Backlight is a display backlight controlled through sysfs.
type Backlight struct {
	descriptor    Descriptor
	path          string
	maxBrightness uint32
	logger        *slog.Logger
}

// NewBacklight creates a backlight for the device directory at path, reading
// its max_brightness once.
func NewBacklight(desc Descriptor, path string, logger *slog.Logger) (*Backlight, error) {
	logger = loggerOrDefault(logger)

	maxBrightness, err := readMaxBrightness(path)
	if err != nil {
		return nil, err
	}

	logger.Info("Creating backlight", "path", path, "max_brightness", maxBrightness)

	return newBacklight(desc, path, maxBrightness, logger), nil
}

func newBacklight(desc Descriptor, path string, maxBrightness uint32, logger *slog.Logger) *Backlight {
	return &Backlight{
		descriptor:    desc,
		path:          path,
		maxBrightness: maxBrightness,
		logger:        logger.With("light_id", desc.ID),
	}
}

// readMaxBrightness reads and parses path/max_brightness.
func readMaxBrightness(path string) (uint32, error) {
	capPath := filepath.Join(path, maxBrightnessFile)

	data, err := os.ReadFile(capPath)
	if err != nil {
		return 0, NewError(ErrCapabilityUnreadable, "failed to read max_brightness", capPath, err)
	}

	value, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, NewError(ErrCapabilityUnreadable, "invalid max_brightness", capPath, err)
	}
	if value == 0 {
		return 0, NewError(ErrCapabilityUnreadable, "max_brightness is zero", capPath, nil)
	}

	return uint32(value), nil
}

// Descriptor returns the light identity.
func (b *Backlight) Descriptor() Descriptor {
	return b.descriptor
}

// Path returns the sysfs device directory.
func (b *Backlight) Path() string {
	return b.path
}

// MaxBrightness returns the native maximum brightness.
func (b *Backlight) MaxBrightness() uint32 {
	return b.maxBrightness
}

// Level returns the native brightness a state maps to.
func (b *Backlight) Level(state State) uint32 {
	return ScaleBrightness(RGBToBrightness(state.Color), b.maxBrightness)
}

// SetState writes the brightness for state to the device.
// The write is not read back.
func (b *Backlight) SetState(state State) (Level, error) {
	level := Level{Value: b.Level(state), Max: b.maxBrightness}

	if state.Mode == ModeLowPersistence {
		// TODO: drive low persistence through the panel driver once one exposes a control file.
		b.logger.Error("Low persistence brightness mode not implemented, using normal brightness")
	}

	b.logger.Debug("Changing backlight level", "level", level.Value, "max_brightness", level.Max)

	ctlPath := filepath.Join(b.path, brightnessFile)
	f, err := os.OpenFile(ctlPath, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		b.logger.Error("Failed to open brightness", "path", ctlPath, "error", err)
		return level, NewError(ErrControlUnwritable, "failed to open brightness", ctlPath, err)
	}

	if _, err := f.WriteString(strconv.FormatUint(uint64(level.Value), 10)); err != nil {
		f.Close()
		b.logger.Error("Failed to write brightness", "path", ctlPath, "error", err)
		return level, NewError(ErrControlUnwritable, "failed to write brightness", ctlPath, err)
	}

	if err := f.Close(); err != nil {
		return level, NewError(ErrControlUnwritable, "failed to write brightness", ctlPath, err)
	}

	return level, nil
}
