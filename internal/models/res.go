package models

// MessageResponse is the error envelope: a single human-readable message,
// matching what the web client renders in its toast notifications.
type MessageResponse struct {
	Message string `json:"message"`
}

func ErrorResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}
