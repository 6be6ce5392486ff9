package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/backlightd/internal/api/models"
	"github.com/smazurov/backlightd/internal/lights"
)

// errUnsupported is the single failure signal of the lights endpoints.
func errUnsupported(err error) error {
	return huma.Error400BadRequest("Unsupported operation", err)
}

// registerLightRoutes registers light enumeration and control endpoints
func (s *Server) registerLightRoutes() {
	if s.lights == nil {
		s.logger.Debug("Light service not available, skipping light routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "list-lights",
		Method:      http.MethodGet,
		Path:        "/api/lights",
		Summary:     "List Lights",
		Description: "List the lights discovered at startup, in discovery order",
		Tags:        []string{"lights"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LightsResponse, error) {
		descs := s.lights.Lights()
		resp := &models.LightsResponse{}
		resp.Body.Lights = make([]models.Light, 0, len(descs))
		for _, d := range descs {
			resp.Body.Lights = append(resp.Body.Lights, models.Light{
				ID:      d.ID,
				Ordinal: d.Ordinal,
				Type:    d.Type.String(),
			})
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "set-light-state",
		Method:        http.MethodPut,
		Path:          "/api/lights/{id}/state",
		Summary:       "Set Light State",
		Description:   "Set a light from a packed RGB color. The color is reduced to a luma value and scaled into the device brightness range.",
		Tags:          []string{"lights"},
		Errors:        []int{400, 401, 422},
		Security:      withAuth(),
		DefaultStatus: http.StatusNoContent,
	}, func(_ context.Context, input *models.SetLightStateRequest) (*struct{}, error) {
		color, err := lights.ParseColor(input.Body.Color)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Invalid color", err)
		}
		mode, err := lights.ParseBrightnessMode(input.Body.BrightnessMode)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Invalid brightness mode", err)
		}

		if err := s.lights.SetState(input.ID, lights.State{Color: color, Mode: mode}); err != nil {
			s.logger.Warn("Light state change rejected", "light_id", input.ID, "error", err)
			return nil, errUnsupported(lights.ErrUnsupportedOperation)
		}
		return nil, nil
	})

	s.logger.Info("Light routes registered")
}
