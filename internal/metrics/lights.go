// Package metrics provides Prometheus metrics for discovered lights.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/backlightd/internal/lights"
)

var (
	lightsDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "backlightd",
		Subsystem: "lights",
		Name:      "discovered",
		Help:      "Number of lights found at startup",
	})

	lightMaxBrightness = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "backlightd",
		Subsystem: "light",
		Name:      "max_brightness",
		Help:      "Native maximum brightness of a light",
	}, []string{"light_id", "type"})

	lightBrightness = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "backlightd",
		Subsystem: "light",
		Name:      "brightness",
		Help:      "Last brightness value written to a light",
	}, []string{"light_id"})

	setStateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backlightd",
		Subsystem: "light",
		Name:      "set_state_total",
		Help:      "State change requests by outcome",
	}, []string{"light_id", "result"})
)

// Result label values.
const (
	ResultOK = "ok"
)

// SetDiscovered records the lights found at startup.
func SetDiscovered(infos []lights.Info) {
	lightsDiscovered.Set(float64(len(infos)))
	for _, info := range infos {
		lightMaxBrightness.WithLabelValues(strconv.Itoa(info.ID), info.Type.String()).Set(float64(info.MaxBrightness))
	}
}

// Observer records state changes. It implements lights.Observer.
type Observer struct{}

// StateApplied implements lights.Observer.
func (Observer) StateApplied(desc lights.Descriptor, _ lights.State, level lights.Level) {
	id := strconv.Itoa(desc.ID)
	lightBrightness.WithLabelValues(id).Set(float64(level.Value))
	setStateTotal.WithLabelValues(id, ResultOK).Inc()
}

// StateFailed implements lights.Observer. Unknown ids share one label value
// so arbitrary requests cannot grow the series count.
func (Observer) StateFailed(id int, _ lights.State, err error) {
	label := strconv.Itoa(id)
	result := "error"
	var lerr *lights.Error
	if errors.As(err, &lerr) {
		result = string(lerr.Code)
		if lerr.HasCode(lights.ErrUnknownLight) {
			label = "unknown"
		}
	}
	setStateTotal.WithLabelValues(label, result).Inc()
}
