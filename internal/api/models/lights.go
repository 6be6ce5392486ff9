package models

// Light is the descriptor of one light.
type Light struct {
	ID      int    `json:"id" example:"0" doc:"Light identifier, dense from 0 in discovery order"`
	Ordinal int    `json:"ordinal" example:"0" doc:"Position among lights of the same type"`
	Type    string `json:"type" example:"backlight" enum:"backlight,keyboard,buttons,battery,notifications,attention" doc:"Light type"`
}

type LightsData struct {
	Lights []Light `json:"lights" doc:"Known lights"`
}

type LightsResponse struct {
	Body LightsData
}

// LightStateData is a requested light state.
type LightStateData struct {
	Color          string `json:"color" example:"0xffffff" doc:"Packed color as 0xRRGGBB, #RRGGBB or decimal; alpha byte ignored"`
	BrightnessMode string `json:"brightness_mode,omitempty" example:"user" enum:"user,sensor,low_persistence" doc:"Brightness mode"`
}

type SetLightStateRequest struct {
	ID   int `path:"id" example:"0" doc:"Light identifier"`
	Body LightStateData
}
