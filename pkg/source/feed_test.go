package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Mint Economy</title>
		<link>https://www.livemint.com</link>
		<item>
			<title>GST council to meet next week - Mint</title>
			<link>https://www.livemint.com/economy/gst-council</link>
			<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		</item>
		<item>
			<title>Cricket: India wins the series</title>
			<link>https://www.livemint.com/sports/cricket</link>
		</item>
		<item>
			<title>Item without link</title>
		</item>
		<item>
			<title>SEBI eases FPI rules for investors</title>
			<link>https://www.livemint.com/market/sebi</link>
		</item>
	</channel>
</rss>`

func TestFeed_Fetch(t *testing.T) {
	t.Run("rss feed", func(t *testing.T) {
		var userAgent atomic.Value
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent.Store(r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(testRSS))
		}))
		defer ts.Close()

		f := NewFeed(FeedParams{Name: "Mint", URL: ts.URL, Timeout: time.Second, MaxItems: 3,
			Identity: NewIdentity([]string{"test-agent"})})
		assert.Equal(t, "Mint", f.Name())

		res, err := f.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, res, 2, "third item has no link, fourth is over the cap")
		assert.Equal(t, "test-agent", userAgent.Load())

		assert.Equal(t, "GST council to meet next week", res[0].Title)
		assert.Equal(t, "https://www.livemint.com/economy/gst-council", res[0].URL)
		assert.Equal(t, "Mint", res[0].SourceName)
		require.NotNil(t, res[0].Published)
		assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), *res[0].Published)

		assert.Equal(t, "Cricket: India wins the series", res[1].Title)
		assert.Nil(t, res[1].Published)
	})

	t.Run("atom feed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Policy</title>
	<entry>
		<title>Customs duty on gold cut</title>
		<link href="https://example.com/customs"/>
		<id>customs</id>
		<updated>2025-01-02T15:04:05Z</updated>
	</entry>
</feed>`))
		}))
		defer ts.Close()

		res, err := NewFeed(FeedParams{Name: "Policy", URL: ts.URL}).Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "https://example.com/customs", res[0].URL)
		require.NotNil(t, res[0].Published)
		assert.Equal(t, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), *res[0].Published)
	})

	t.Run("bad status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		res, err := NewFeed(FeedParams{Name: "Broken", URL: ts.URL}).Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 502")
		assert.Empty(t, res)
	})

	t.Run("not a feed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("this is not xml"))
		}))
		defer ts.Close()

		_, err := NewFeed(FeedParams{Name: "Junk", URL: ts.URL}).Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("timeout", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer ts.Close()

		start := time.Now()
		_, err := NewFeed(FeedParams{Name: "Slow", URL: ts.URL, Timeout: 50 * time.Millisecond}).Fetch(context.Background())
		require.Error(t, err)
		assert.Less(t, time.Since(start), 900*time.Millisecond)
	})
}
