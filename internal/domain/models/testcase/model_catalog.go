package testcase

// ModelInfo describes one selectable model
type ModelInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         string `json:"size,omitempty"`
	Family       string `json:"family,omitempty"`
	Quantization string `json:"quantization,omitempty"`
}

// ProviderModels is the discovery result for one provider.
// Unreachable providers report Available=false with an Error instead of failing the request.
type ProviderModels struct {
	Provider  string      `json:"provider"`
	Available bool        `json:"available"`
	Models    []ModelInfo `json:"models"`
	Error     string      `json:"error,omitempty"`
}
