package adapter

// Adapter represents a runtime adapter for the gateway
type Adapter interface {
	// Start begins the adapter's runtime execution, blocking until it stops
	Start() error
}
