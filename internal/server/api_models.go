package server

// StartRunRequest optionally limits a run to the listed check ids.
type StartRunRequest struct {
	Checks []string `json:"checks" example:"stock-check"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"check not found"`
}
