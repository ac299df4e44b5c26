// internal/browser/netlog.go
package browser

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/urlutil"
)

// networkLog records the first request URL seen per host, in capture order.
// Keeping one URL per host bounds memory on chatty pages while preserving
// everything the sniffer needs.
type networkLog struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	records []engines.RequestRecord
}

func newNetworkLog() *networkLog {
	return &networkLog{seen: make(map[string]struct{})}
}

// enableNetwork turns on request events for the tab and wires them into the
// log. Must run before the first navigation.
func enableNetwork(l *networkLog) chromedp.Action {
	return chromedp.Tasks{
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			chromedp.ListenTarget(ctx, func(ev interface{}) {
				if req, ok := ev.(*network.EventRequestWillBeSent); ok {
					l.add(req.Request.URL)
				}
			})
			return nil
		}),
	}
}

func (l *networkLog) add(rawURL string) {
	host := urlutil.Domain(rawURL)
	if host == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[host]; ok {
		return
	}
	l.seen[host] = struct{}{}
	l.records = append(l.records, engines.RequestRecord{Host: host, URL: rawURL})
}

// snapshot copies the records captured so far.
func (l *networkLog) snapshot() []engines.RequestRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]engines.RequestRecord, len(l.records))
	copy(out, l.records)
	return out
}

// mark returns a cursor for since.
func (l *networkLog) mark() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// reset clears the log for tab reuse.
func (l *networkLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = make(map[string]struct{})
	l.records = nil
}

// since copies the records appended after the cursor.
func (l *networkLog) since(mark int) []engines.RequestRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	if mark >= len(l.records) {
		return nil
	}
	out := make([]engines.RequestRecord, len(l.records)-mark)
	copy(out, l.records[mark:])
	return out
}
