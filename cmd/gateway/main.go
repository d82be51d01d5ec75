package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/imposter-project/imposter-gateway/internal/adapter"
	"github.com/imposter-project/imposter-gateway/internal/adapter/awslambda"
	"github.com/imposter-project/imposter-gateway/internal/adapter/httpserver"
	"github.com/imposter-project/imposter-gateway/internal/version"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

func main() {
	parser := argparse.NewParser("gateway", "Serves static content behind CORS and session cookie middleware.")
	configDir := parser.String("c", "config-dir", &argparse.Options{Help: "Directory containing gateway-config.yaml"})
	port := parser.String("p", "port", &argparse.Options{Help: "Port to listen on (HTTP server mode)"})
	showVersion := parser.Flag("v", "version", &argparse.Options{Help: "Print the version and exit"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(2)
	}
	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	// flags take precedence over the environment
	if *configDir != "" {
		os.Setenv("GATEWAY_CONFIG_DIR", *configDir)
	}
	if *port != "" {
		os.Setenv("GATEWAY_PORT", *port)
	}

	gw, err := adapter.InitialiseGateway()
	if err != nil {
		logger.Errorf("failed to start gateway: %v", err)
		os.Exit(1)
	}

	var a adapter.Adapter
	switch adapter.DetectMode() {
	case adapter.ModeLambda:
		a = awslambda.NewAdapter(gw)
	default:
		a = httpserver.NewAdapter(gw)
	}
	logger.Debugf("running in %s mode", adapter.DetectMode())

	if err := a.Start(); err != nil {
		logger.Errorf("gateway stopped: %v", err)
		os.Exit(1)
	}
}
