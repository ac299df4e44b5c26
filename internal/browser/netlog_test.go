// internal/browser/netlog_test.go
package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkLogDedupesByHost(t *testing.T) {
	l := newNetworkLog()
	l.add("https://hotels.cloudbeds.com/api/v1.1/availability")
	l.add("https://hotels.cloudbeds.com/api/v1.1/rates")
	l.add("https://www.grandhotel.com/style.css")

	records := l.snapshot()
	assert.Len(t, records, 2)
	assert.Equal(t, "hotels.cloudbeds.com", records[0].Host)
	assert.Equal(t, "https://hotels.cloudbeds.com/api/v1.1/availability", records[0].URL)
	assert.Equal(t, "grandhotel.com", records[1].Host)
}

func TestNetworkLogSince(t *testing.T) {
	l := newNetworkLog()
	l.add("https://grandhotel.com/")
	mark := l.mark()
	l.add("https://widget.freetobook.com/book")

	delta := l.since(mark)
	assert.Len(t, delta, 1)
	assert.Equal(t, "widget.freetobook.com", delta[0].Host)

	assert.Empty(t, l.since(l.mark()))
}

func TestNetworkLogIgnoresUnparseable(t *testing.T) {
	l := newNetworkLog()
	l.add("data:text/html,hello")
	l.add("")
	assert.Empty(t, l.snapshot())
}

func TestNetworkLogReset(t *testing.T) {
	l := newNetworkLog()
	l.add("https://grandhotel.com/")
	l.reset()
	assert.Empty(t, l.snapshot())
	l.add("https://grandhotel.com/")
	assert.Len(t, l.snapshot(), 1)
}
