package core

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// deadlineConn arms a fresh deadline before every Read and Write, so that the read and
// write budgets apply to each blocking operation instead of the whole exchange.
type deadlineConn struct {
	net.Conn
	read  time.Duration
	write time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.write)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}

// newHTTPClient builds the http.Client of a session from the configured budgets.
// Connect covers dialing and the TLS handshake; read also bounds the wait for response headers.
// Redirects are never followed: a 3xx is returned as is and classified like any other status.
func newHTTPClient(config *SynapseConfig) *http.Client {
	connect, read, write := *config.ConnectTimeout, *config.ReadTimeout, *config.WriteTimeout
	dialer := &net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return &deadlineConn{Conn: conn, read: read, write: write}, nil
	}
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = read
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.InsecureSkipVerify}
	if config.RespectProxy {
		transport.Proxy = http.ProxyFromEnvironment
	} else {
		transport.Proxy = nil
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
