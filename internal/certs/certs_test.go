package certs

import (
	"crypto/tls"
	"crypto/x509"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_Certificate(t *testing.T) {
	tests := []struct {
		setup       func(t *testing.T, s *Store)
		name        string
		wantReplace bool
	}{
		{
			name:  "creates certificate when none exists",
			setup: func(*testing.T, *Store) {},
		},
		{
			name: "reuses a valid certificate",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				_, err := s.Certificate()
				require.NoError(t, err)
			},
		},
		{
			name: "replaces corrupt files",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				require.NoError(t, os.MkdirAll(s.dir, 0o700))
				require.NoError(t, os.WriteFile(s.CertFile(), []byte("junk"), 0o600))
				require.NoError(t, os.WriteFile(s.KeyFile(), []byte("junk"), 0o600))
			},
			wantReplace: true,
		},
		{
			name: "replaces an expiring certificate",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				s.now = func() time.Time { return time.Now().Add(-360 * 24 * time.Hour) }
				_, err := s.Certificate()
				require.NoError(t, err)
				s.now = time.Now
			},
			wantReplace: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(filepath.Join(t.TempDir(), "certs"))
			tt.setup(t, s)

			var before []byte
			if data, err := os.ReadFile(s.CertFile()); err == nil {
				before = data
			}

			cert, err := s.Certificate()
			require.NoError(t, err)
			parsed := leaf(t, cert)
			assert.NoError(t, parsed.VerifyHostname("localhost"))
			assert.True(t, parsed.NotAfter.After(time.Now().Add(364*24*time.Hour)))

			after, err := os.ReadFile(s.CertFile())
			require.NoError(t, err)
			if before != nil && !tt.wantReplace {
				assert.Equal(t, before, after)
			}
			if tt.wantReplace {
				assert.NotEqual(t, before, after)
			}
		})
	}
}

func TestStore_Properties(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "certs"))
	cert, err := s.Certificate()
	require.NoError(t, err)
	parsed := leaf(t, cert)

	assert.Equal(t, []string{Organization}, parsed.Subject.Organization)
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, parsed.ExtKeyUsage)
	assert.Contains(t, parsed.DNSNames, "localhost")

	var v4, v6 bool
	for _, ip := range parsed.IPAddresses {
		v4 = v4 || ip.Equal(net.IPv4(127, 0, 0, 1))
		v6 = v6 || ip.Equal(net.IPv6loopback)
	}
	assert.True(t, v4, "IPv4 loopback")
	assert.True(t, v6, "IPv6 loopback")

	for _, path := range []string{s.CertFile(), s.KeyFile()} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), path)
	}
}

func TestStore_TLSConfig(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "certs"))
	cfg, err := s.TLSConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}

func TestStore_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := NewStore(filepath.Join(blocker, "certs")).Certificate()
	assert.Error(t, err)
}
