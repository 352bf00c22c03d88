package handlers

// QueryRequest is the body accepted by the query endpoint. Database and
// container overrides are optional; configuration defaults apply when they
// are absent.
type QueryRequest struct {
	Query       string `json:"query" validate:"required"`
	DatabaseID  string `json:"database_id,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
}

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
