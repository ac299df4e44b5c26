// internal/probe/probe.go
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout caps the whole precheck round trip. The probe exists to
// fail fast on dead sites before a browser tab is spent on them.
const DefaultTimeout = 5 * time.Second

// Prober performs a cheap HTTP reachability check against a hotel website.
// TLS verification is disabled on purpose: small hotel sites run expired
// and self-signed certificates constantly, and the browser stage ignores
// certificate errors too. The probe must not be stricter than the browser.
type Prober struct {
	client *http.Client
}

// New builds a prober with the given round-trip timeout. Zero means
// DefaultTimeout.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				Proxy:           http.ProxyFromEnvironment,
			},
		},
	}
}

// Check reports whether the URL is worth sending to a browser. On failure
// the reason is a short classified string: "HTTP <code>", "timeout",
// "connection_refused", or a truncated error message.
func (p *Prober) Check(ctx context.Context, url string) (bool, string) {
	status, err := p.request(ctx, http.MethodHead, url)
	if err == nil && headRejected(status) {
		// Some servers refuse HEAD outright; retry with GET before
		// condemning the site.
		status, err = p.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		return false, classify(err)
	}
	if status >= 400 {
		return false, fmt.Sprintf("HTTP %d", status)
	}
	return true, ""
}

func (p *Prober) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

func classify(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var sysErr *os.SyscallError
		if errors.As(opErr.Err, &sysErr) && sysErr.Syscall == "connect" {
			return "connection_refused"
		}
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return msg
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
