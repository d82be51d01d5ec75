// Package tlsconf builds the server TLS configuration from a keystore.
package tlsconf

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"strings"

	"github.com/imposter-project/imposter-gateway/internal/resource"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
	"golang.org/x/crypto/pkcs12"
)

const (
	StoreTypePKCS12 = "PKCS12"
	StoreTypePEM    = "PEM"
)

// Options locates the keystore and sets client certificate policy
type Options struct {
	KeystorePath string
	Password     string
	// StoreType is PKCS12 (the default) or PEM
	StoreType string
	// ClientCAs verifies client certificates. When nil, any client
	// certificate is requested and accepted without verification.
	ClientCAs *x509.CertPool
}

// Load reads the keystore through the resolver and returns a server TLS config
func Load(r *resource.Resolver, o Options) (*tls.Config, error) {
	data, err := readKeystore(r, o.KeystorePath)
	if err != nil {
		return nil, err
	}

	var cert tls.Certificate
	switch strings.ToUpper(o.StoreType) {
	case "", StoreTypePKCS12, "P12", "PFX":
		cert, err = fromPKCS12(data, o.Password)
	case StoreTypePEM:
		cert, err = tls.X509KeyPair(data, data)
	default:
		return nil, fmt.Errorf("unsupported keystore type: %s", o.StoreType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load keystore %s: %w", o.KeystorePath, err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if o.ClientCAs == nil {
		logger.Warnf("no client CA configured - client certificates will be accepted without verification")
		cfg.ClientAuth = tls.RequestClientCert
	} else {
		cfg.ClientAuth = tls.VerifyClientCertIfGiven
		cfg.ClientCAs = o.ClientCAs
	}
	logger.Debugf("loaded %s keystore %s", strings.ToUpper(o.StoreType), o.KeystorePath)
	return cfg, nil
}

// LoadCertPool reads PEM-encoded CA certificates through the resolver
func LoadCertPool(r *resource.Resolver, path string) (*x509.CertPool, error) {
	data, err := readKeystore(r, path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

func readKeystore(r *resource.Resolver, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("keystore path is not set")
	}
	rc, err := r.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// fromPKCS12 converts every bag in the store to PEM, so certificate chains
// are kept.
func fromPKCS12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, err
	}
	var buf bytes.Buffer
	for _, b := range blocks {
		if err := pem.Encode(&buf, &pem.Block{Type: b.Type, Bytes: b.Bytes}); err != nil {
			return tls.Certificate{}, err
		}
	}
	return tls.X509KeyPair(buf.Bytes(), buf.Bytes())
}
