package adapter

import (
	"os"
	"strings"
	"sync"
)

// Mode represents the runtime mode of the gateway
type Mode int

const (
	ModeUnknown Mode = iota
	ModeLambda
	ModeHTTPServer
)

func (m Mode) String() string {
	switch m {
	case ModeLambda:
		return "lambda"
	case ModeHTTPServer:
		return "httpserver"
	default:
		return "unknown"
	}
}

var (
	currentMode Mode
	modeOnce    sync.Once
)

// DetectMode determines and sets the runtime mode. GATEWAY_ADAPTER forces a
// mode; otherwise Lambda is detected from AWS_LAMBDA_FUNCTION_NAME.
func DetectMode() Mode {
	modeOnce.Do(func() {
		currentMode = modeFromEnv()
	})
	return currentMode
}

func modeFromEnv() Mode {
	switch strings.ToLower(os.Getenv("GATEWAY_ADAPTER")) {
	case "lambda":
		return ModeLambda
	case "httpserver", "http":
		return ModeHTTPServer
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return ModeLambda
	}
	return ModeHTTPServer
}

// IsLambda returns true if running in AWS Lambda mode
func IsLambda() bool {
	return DetectMode() == ModeLambda
}

// IsHTTPServer returns true if running in HTTP server mode
func IsHTTPServer() bool {
	return DetectMode() == ModeHTTPServer
}
