package cqlprobe

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/cqlprobe/types"
)

// LoadTLSConfig builds a client TLS context that trusts the CA certificates in caPath.
//
// With verifyHost false the server chain is still checked against the CA,
// but the certificate may name any host. Both drivers keep a non-nil
// tls.Config as given, so the name check has to be disabled here rather
// than through their EnableHostVerification switch.
//
// Parameters:
//   - caPath: Path to a PEM file with one or more CA certificates
//   - serverName: Name expected in the server certificate (usually the host)
//   - verifyHost: Whether the certificate must match serverName
//
// Returns:
//   - *tls.Config: Client TLS configuration with TLS 1.2 minimum
//   - error: ErrTLSConfig if the file cannot be read or holds no certificate
func LoadTLSConfig(caPath, serverName string, verifyHost bool) (*tls.Config, error) {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading CA certificate %q: %w", types.ErrTLSConfig, caPath, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: no PEM certificate found in %q", types.ErrTLSConfig, caPath)
	}

	config := &tls.Config{
		RootCAs:    pool,
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}

	if !verifyHost {
		// Chain verification moves to VerifyConnection, without a DNS name.
		config.InsecureSkipVerify = true //nolint:gosec // chain still verified below
		config.VerifyConnection = verifyChain(pool)
	}

	return config, nil
}

// verifyChain returns a VerifyConnection hook that checks the peer chain
// against roots and ignores the host name.
func verifyChain(roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return errors.New("cqlprobe: server presented no certificate")
		}

		intermediates := x509.NewCertPool()
		for _, cert := range cs.PeerCertificates[1:] {
			intermediates.AddCert(cert)
		}

		_, err := cs.PeerCertificates[0].Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		})
		if err != nil {
			return fmt.Errorf("cqlprobe: server certificate: %w", err)
		}

		return nil
	}
}
