package handler

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
	Driver   string `json:"driver,omitempty"`
	Uptime   string `json:"uptime"`
}
