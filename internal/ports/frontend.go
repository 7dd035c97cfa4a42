package ports

// Frontend is an inbound surface that feeds messages to the checker
type Frontend interface {
	// Start starts the frontend in the background and returns once it is listening
	Start() error

	// Stop stops the frontend
	Stop() error
}
