package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/regwatch/pkg/apikey"
	"github.com/umputun/regwatch/pkg/domain"
)

type staticKeywords []string

func (k staticKeywords) All() []string { return k }

// apiServer answers per api key: "ok" returns articles for the query, a number is used as status code
type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	queries  []url.Values
	behavior map[string]string
}

func newAPIServer(t *testing.T, behavior map[string]string) *apiServer {
	t.Helper()
	s := &apiServer{behavior: behavior}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.mu.Lock()
		s.queries = append(s.queries, q)
		s.mu.Unlock()

		switch s.behavior[q.Get("apiKey")] {
		case "ok":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "ok",
				"articles": []map[string]any{
					{"title": q.Get("q") + " rules tightened by regulator", "url": "https://mint.example.com/" + q.Get("q"),
						"publishedAt": "2025-01-02T10:00:00Z", "source": map[string]string{"name": "Mint"}},
					{"title": "Another " + q.Get("q") + " update for exporters", "url": "https://et.example.com/" + q.Get("q"),
						"publishedAt": "", "source": map[string]string{"name": ""}},
				},
			})
		case "error-status":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "code": "apiKeyInvalid", "message": "bad key"})
		case "429":
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "code": "rateLimited"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) calls() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values{}, s.queries...)
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestNewsAPI(endpoint string, keywords []string, rot KeyRotator) (*NewsAPI, *sleepRecorder) {
	n := NewNewsAPI(NewsAPIParams{
		Endpoint:     endpoint,
		Domains:      []string{"livemint.com", "moneycontrol.com"},
		Language:     "en",
		PageSize:     20,
		Timeout:      time.Second,
		RetryDelay:   2 * time.Second,
		KeywordDelay: 1500 * time.Millisecond,
		Keywords:     staticKeywords(keywords),
		Rotator:      rot,
	})
	rec := &sleepRecorder{}
	n.sleep = rec.sleep
	return n, rec
}

func TestNewsAPI_Fetch(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "ok"})
	rot := apikey.New([]string{"key-aaaaaaaa-1"})
	n, rec := newTestNewsAPI(srv.URL, []string{"GST", "SEBI"}, rot)
	assert.Equal(t, "NewsAPI", n.Name())

	res, err := n.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.Equal(t, "GST rules tightened by regulator", res[0].Title)
	assert.Equal(t, "https://mint.example.com/GST", res[0].URL)
	assert.Equal(t, "2025-01-02T10:00:00Z", res[0].RawDate)
	assert.Equal(t, "NewsAPI - Mint", res[0].SourceName)
	assert.Equal(t, "NewsAPI - Unknown", res[1].SourceName)
	assert.Equal(t, "SEBI rules tightened by regulator", res[2].Title)

	calls := srv.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "GST", calls[0].Get("q"))
	assert.Equal(t, "livemint.com,moneycontrol.com", calls[0].Get("domains"))
	assert.Equal(t, "en", calls[0].Get("language"))
	assert.Equal(t, "publishedAt", calls[0].Get("sortBy"))
	assert.Equal(t, "20", calls[0].Get("pageSize"))
	assert.Equal(t, "key-aaaaaaaa-1", calls[0].Get("apiKey"))
	assert.Equal(t, "SEBI", calls[1].Get("q"))

	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, rec.sleeps, "only the delay between keywords")
	assert.Equal(t, domain.CredentialHealthy, rot.Status()[0].State)
}

func TestNewsAPI_RateLimitRotation(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "429", "key-bbbbbbbb-2": "ok"})
	rot := apikey.New([]string{"key-aaaaaaaa-1", "key-bbbbbbbb-2"})
	n, rec := newTestNewsAPI(srv.URL, []string{"Customs"}, rot)

	res, err := n.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Customs rules tightened by regulator", res[0].Title)

	calls := srv.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "key-aaaaaaaa-1", calls[0].Get("apiKey"))
	assert.Equal(t, "key-bbbbbbbb-2", calls[1].Get("apiKey"))
	assert.Equal(t, "key-bbbbbbbb-2", rot.Current())
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.sleeps)
}

func TestNewsAPI_SingleKeyBackoff(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "429"})
	rot := apikey.New([]string{"key-aaaaaaaa-1"}, apikey.WithBackoff(time.Minute))
	n, rec := newTestNewsAPI(srv.URL, []string{"FDI"}, rot)

	res, err := n.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 keywords failed: FDI")
	assert.Empty(t, res)
	assert.Len(t, srv.calls(), 1, "single key means single attempt")
	assert.Equal(t, []time.Duration{time.Minute}, rec.sleeps)
}

func TestNewsAPI_AllKeysRateLimited(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "429", "key-bbbbbbbb-2": "429"})
	rot := apikey.New([]string{"key-aaaaaaaa-1", "key-bbbbbbbb-2"}, apikey.WithBackoff(time.Minute))
	n, rec := newTestNewsAPI(srv.URL, []string{"FDI"}, rot)

	_, err := n.Fetch(context.Background())
	require.Error(t, err)
	assert.Len(t, srv.calls(), 2, "attempts bounded by number of keys")
	assert.Equal(t, []time.Duration{2 * time.Second, time.Minute}, rec.sleeps, "rotate first, then back off")
}

func TestNewsAPI_BackoffAfterFailuresExhaustAllKeys(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "429", "key-bbbbbbbb-2": "500"})
	rot := apikey.New([]string{"key-aaaaaaaa-1", "key-bbbbbbbb-2"}, apikey.WithBackoff(time.Minute))
	n, rec := newTestNewsAPI(srv.URL, []string{"GST", "SEBI", "RBI", "FDI"}, rot)

	res, err := n.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 keywords failed")
	assert.Empty(t, res)
	assert.Len(t, srv.calls(), 5, "first keyword rotates, the rest go to the second key only")

	// second key is exhausted on its third failure, every later failure backs off too
	exp := []time.Duration{2 * time.Second, 1500 * time.Millisecond, 1500 * time.Millisecond, time.Minute,
		1500 * time.Millisecond, time.Minute}
	assert.Equal(t, exp, rec.sleeps)
	for _, st := range rot.Status() {
		assert.Equal(t, domain.CredentialExhausted, st.State, st.Key)
	}
}

func TestNewsAPI_NonRateLimitFailures(t *testing.T) {
	tests := []struct {
		name     string
		behavior string
		errMsg   string
	}{
		{name: "server error", behavior: "500", errMsg: "GST"},
		{name: "error status", behavior: "error-status", errMsg: "GST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": tt.behavior})
			rot := apikey.New([]string{"key-aaaaaaaa-1", "key-bbbbbbbb-2"})
			n, rec := newTestNewsAPI(srv.URL, []string{"GST", "SEBI"}, rot)

			res, err := n.Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "2 keywords failed")
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, res)
			assert.Len(t, srv.calls(), 2, "no retry for non rate-limit failures")
			assert.Equal(t, []time.Duration{1500 * time.Millisecond}, rec.sleeps)

			status := rot.Status()
			assert.Equal(t, 2, status[0].Failures)
			assert.Equal(t, "key-aaaaaaaa-1", rot.Current(), "below threshold, no rotation")
		})
	}
}

func TestNewsAPI_NoKeys(t *testing.T) {
	n, _ := newTestNewsAPI("http://127.0.0.1:1", []string{"GST"}, apikey.New(nil))
	_, err := n.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no api keys")
}

func TestNewsAPI_KeyNotLeakedInErrors(t *testing.T) {
	rot := apikey.New([]string{"secret-key-0123456789"})
	n, _ := newTestNewsAPI("http://127.0.0.1:1/v2/everything", []string{"GST"}, rot)
	_, err := n.Fetch(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key-0123456789")
}

func TestNewsAPI_Canceled(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"key-aaaaaaaa-1": "ok"})
	n, _ := newTestNewsAPI(srv.URL, []string{"GST", "SEBI"}, apikey.New([]string{"key-aaaaaaaa-1"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
