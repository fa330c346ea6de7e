package types

// ErrorResponse is the JSON body returned for every failed request. Error
// carries the human readable message read by the board clients.
type ErrorResponse struct {
	Error   string `json:"error" example:"Missing fields"`
	Type    string `json:"type" example:"VALIDATION_ERROR"`
	Code    string `json:"code" example:"400"`
	Details string `json:"details,omitempty"`
}
