package source

import (
	"math/rand"
	"net/http"
	"sync"
)

const (
	acceptPage = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptFeed = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5"
)

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-IN,en;q=0.9,hi;q=0.8",
	"en-US,en;q=0.9,hi;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
}

// Identity picks randomized browser headers from a pool of user agents
type Identity struct {
	mu     sync.Mutex
	agents []string
	last   int
}

// NewIdentity makes Identity for the given user agents, empty pool sends a generic agent
func NewIdentity(agents []string) *Identity {
	res := &Identity{last: -1}
	for _, a := range agents {
		if a != "" {
			res.agents = append(res.agents, a)
		}
	}
	if len(res.agents) == 0 {
		res.agents = []string{"Mozilla/5.0 (compatible; regwatch/1.0)"}
	}
	return res
}

// UserAgent returns a random agent, never the same one twice in a row if the pool allows
func (i *Identity) UserAgent() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := rand.Intn(len(i.agents)) //nolint:gosec // non-cryptographic randomness is fine for header variation
	if idx == i.last && len(i.agents) > 1 {
		idx = (idx + 1) % len(i.agents)
	}
	i.last = idx
	return i.agents[idx]
}

// apply sets browser-like headers on the request
func (i *Identity) apply(req *http.Request, accept string) {
	req.Header.Set("User-Agent", i.UserAgent())
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	// dnt - 30% chance
	if rand.Float32() < 0.3 { //nolint:gosec // non-cryptographic randomness is fine
		req.Header.Set("DNT", "1")
	}
}
