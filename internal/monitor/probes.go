package monitor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseProbe проверяет соединение с PostgreSQL.
func DatabaseProbe(pool *pgxpool.Pool) Probe {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		return nil
	}
}

// TokenSource — аутентификация во внешнем API.
type TokenSource interface {
	Authenticate(ctx context.Context) (string, error)
}

// TrackerProbe проверяет доступность tracker API.
// Полная аутентификация: проверяет и сеть, и учётные данные.
func TrackerProbe(ts TokenSource) Probe {
	return func(ctx context.Context) error {
		if _, err := ts.Authenticate(ctx); err != nil {
			return fmt.Errorf("tracker auth: %w", err)
		}
		return nil
	}
}

// SMTPProbe проверяет доступность SMTP сервера TCP-соединением.
// Без отправки письма: сам handshake подтверждает, что сервер жив.
func SMTPProbe(host string, port int) Probe {
	addr := fmt.Sprintf("%s:%d", host, port)
	return func(ctx context.Context) error {
		d := net.Dialer{Timeout: 5 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("dial smtp %s: %w", addr, err)
		}
		return conn.Close()
	}
}

// HTTPProbe проверяет health endpoint по URL.
func HTTPProbe(url string) Probe {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("get %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)
		}
		return nil
	}
}
