package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeFromEnv(t *testing.T) {
	tests := []struct {
		name         string
		adapterEnv   string
		functionName string
		want         Mode
	}{
		{name: "default", want: ModeHTTPServer},
		{name: "lambda detected", functionName: "my-fn", want: ModeLambda},
		{name: "forced http", adapterEnv: "httpserver", functionName: "my-fn", want: ModeHTTPServer},
		{name: "forced lambda", adapterEnv: "LAMBDA", want: ModeLambda},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GATEWAY_ADAPTER", tt.adapterEnv)
			t.Setenv("AWS_LAMBDA_FUNCTION_NAME", tt.functionName)
			assert.Equal(t, tt.want, modeFromEnv())
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "lambda", ModeLambda.String())
	assert.Equal(t, "httpserver", ModeHTTPServer.String())
	assert.Equal(t, "unknown", ModeUnknown.String())
}
