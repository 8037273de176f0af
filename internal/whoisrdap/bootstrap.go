package whoisrdap

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
)

// BootstrapSource fetches the IANA RDAP bootstrap document once and caches
// it for the lifetime of the holder. Single-initialization is guarded by
// sync.Once, the same "first-write gate, read-mostly" shape the teacher
// uses for its GeoIP reader (internal/service/geo.go: geoMu sync.RWMutex).
type BootstrapSource struct {
	URL    string
	Client *http.Client

	mu       sync.RWMutex
	once     sync.Once
	cache    *model.RdapBootstrap
	fetchErr error
}

// NewBootstrapSource builds a BootstrapSource pointed at url (typically
// https://data.iana.org/rdap/dns.json).
func NewBootstrapSource(url string) *BootstrapSource {
	return &BootstrapSource{
		URL: url,
		Client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// Get returns the cached bootstrap registry, fetching it on first use.
func (b *BootstrapSource) Get(ctx context.Context) (*model.RdapBootstrap, error) {
	b.once.Do(func() {
		reg, err := b.fetch(ctx)
		b.mu.Lock()
		b.cache, b.fetchErr = reg, err
		b.mu.Unlock()
		if err != nil {
			obs.Log.Warn("rdap bootstrap fetch failed", obs.Field("error", err.Error()))
		}
	})
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cache, b.fetchErr
}

type bootstrapDoc struct {
	Services [][][]string `json:"services"`
}

func (b *BootstrapSource) fetch(ctx context.Context) (*model.RdapBootstrap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bootstrap fetch: status %d", resp.StatusCode)
	}

	var doc bootstrapDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}

	reg := &model.RdapBootstrap{}
	for _, entry := range doc.Services {
		if len(entry) < 2 {
			continue
		}
		reg.Services = append(reg.Services, model.RdapBootstrapEntry{
			TLDs:    entry[0],
			Servers: entry[1],
		})
	}
	return reg, nil
}

// BaseURL returns the first RDAP server configured for tld, if any.
func (b *BootstrapSource) BaseURL(ctx context.Context, tld string) (string, error) {
	reg, err := b.Get(ctx)
	if err != nil {
		return "", err
	}
	tld = strings.ToLower(tld)
	for _, entry := range reg.Services {
		for _, t := range entry.TLDs {
			if strings.ToLower(t) == tld {
				if len(entry.Servers) == 0 {
					return "", fmt.Errorf("no RDAP servers configured for tld %q", tld)
				}
				return entry.Servers[0], nil
			}
		}
	}
	return "", fmt.Errorf("tld %q not found in RDAP bootstrap", tld)
}
