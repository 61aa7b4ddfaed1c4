package image

import (
	"context"
	"net"
	"net/http"
	"time"
)

// FetchOptions таймауты загрузки картинки по URL.
type FetchOptions struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// NewHTTPClient создаёт клиента для загрузки картинок: таймаут на соединение
// и таймаут на каждое чтение из сокета (а не на весь запрос целиком).
func NewHTTPClient(opts FetchOptions) *http.Client {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &readDeadlineConn{Conn: conn, timeout: readTimeout}, nil
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
	}

	return &http.Client{Transport: transport}
}

// readDeadlineConn продлевает дедлайн чтения перед каждым Read.
type readDeadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *readDeadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
