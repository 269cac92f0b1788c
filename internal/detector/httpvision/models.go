package httpvision

// EmbedRequest for POST /embed
type EmbedRequest struct {
	Image string `json:"image"` // base64 encoded image
	Model string `json:"model"` // "facenet128"
}

// EmbedResponse from POST /embed
type EmbedResponse struct {
	Results []EmbedResult `json:"results"`
}

type EmbedResult struct {
	Embedding  []float64  `json:"embedding"`
	Gesture    string     `json:"gesture,omitempty"`
	Quality    float64    `json:"quality"`
	FacialArea FacialArea `json:"facial_area"`
}

type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
