package handler

// Error codes reported on the write queue alongside stage updates.
const (
	Success             = "SUCCESS"
	InvalidRequest      = "INVALID_REQUEST"
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
