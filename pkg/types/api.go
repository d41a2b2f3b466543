package types

// PredictRequest represents the payload accepted by POST /predict.
type PredictRequest struct {
	// Required text to classify, 1..512 characters.
	// example: I love this product!
	Text string `json:"text" example:"I love this product!"`
}

// PredictResponse is the successful prediction payload.
type PredictResponse struct {
	// Sentiment label from the model's fixed label set.
	// example: POSITIVE
	Sentiment string `json:"sentiment" example:"POSITIVE"`
	// Confidence in [0,1], rounded to 4 decimal places.
	// example: 0.9987
	Score float64 `json:"score" example:"0.9987"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: Request must be JSON
	Error string `json:"error" example:"Request must be JSON"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether the model handle is present and serving.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Identifier of the loaded model.
	// example: sst2-lexicon-v1
	Model string `json:"model,omitempty" example:"sst2-lexicon-v1"`
	// Fixed label set of the loaded model.
	Labels []string `json:"labels,omitempty"`
	// Startup error recorded when the model failed to load.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of prediction requests accepted for inference.
	// example: 12
	RequestsTotal uint64 `json:"requests_total" example:"12"`
	// Total number of predictions served successfully.
	// example: 11
	PredictionsTotal uint64 `json:"predictions_total" example:"11"`
}
