package peerhttp

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// TLSMode selects how peer connections verify certificates.
type TLSMode string

const (
	// TLSNone leaves the transport defaults; used with plain http peers.
	TLSNone TLSMode = "none"
	// TLSSystem verifies peers against the system roots.
	TLSSystem TLSMode = "system"
	// TLSCustomCA verifies peers against the PEM bundle in Options.CAFile only.
	TLSCustomCA TLSMode = "custom"
)

// Options configures the HTTP client of every peer.
type Options struct {
	Timeout         time.Duration
	MaxConnsPerHost int
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	TLSMode         TLSMode
	CAFile          string
	// ProxyURL routes peer traffic through an HTTP proxy. Empty means direct connections.
	ProxyURL string
	// Identity is sent in helpers.HeaderIdentity.
	Identity string
	// CompressBatches gzips batch request bodies.
	CompressBatches bool
}

// DefaultOptions returns the settings used when the configuration leaves the peer client untouched.
func DefaultOptions() Options {
	return Options{
		Timeout:         5 * time.Second,
		MaxConnsPerHost: 50,
		MaxIdleConns:    200,
		IdleConnTimeout: 30 * time.Second,
		TLSMode:         TLSNone,
		CompressBatches: true,
	}
}

// transportFactory validates opts once and builds one transport per peer.
type transportFactory struct {
	opts    Options
	proxy   *url.URL
	tlsConf *tls.Config
}

func newTransportFactory(opts Options) (*transportFactory, error) {
	f := &transportFactory{opts: opts}

	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", opts.ProxyURL, err)
		}
		f.proxy = proxy
	}

	switch opts.TLSMode {
	case "", TLSNone:
	case TLSSystem:
		f.tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	case TLSCustomCA:
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s holds no certificates", opts.CAFile)
		}
		f.tlsConf = &tls.Config{MinVersion: tls.VersionTLS12, RootCAs: pool}
	default:
		return nil, fmt.Errorf("unknown tls mode %q", opts.TLSMode)
	}
	return f, nil
}

func (f *transportFactory) newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   f.opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        f.opts.MaxIdleConns,
		MaxIdleConnsPerHost: f.opts.MaxConnsPerHost,
		MaxConnsPerHost:     f.opts.MaxConnsPerHost,
		IdleConnTimeout:     f.opts.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
	if f.proxy != nil {
		transport.Proxy = http.ProxyURL(f.proxy)
	}
	if f.tlsConf != nil {
		transport.TLSClientConfig = f.tlsConf.Clone()
	}
	return &http.Client{Transport: transport, Timeout: f.opts.Timeout}
}
