package models

const (
	// FlashSuccess is the category of flash messages reporting a successful operation
	FlashSuccess = "success"
	// FlashError is the category of flash messages reporting a failure
	FlashError = "error"
)

// Flash is a one-shot notification shown on the next page rendered for a client
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}
