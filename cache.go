package monthversary

import (
	"sync"
	"time"
)

// DeckCache is an in-memory cache of the published deck and the public
// settings projection, with a TTL. It keeps the unauthenticated viewer
// endpoints off the database; every editor mutation invalidates it.
type DeckCache struct {
	mu       sync.RWMutex
	slides   []Slide
	settings PublicSettings
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

// NewDeckCache creates a DeckCache backed by the given Store.
func NewDeckCache(s *Store, ttl time.Duration) *DeckCache {
	return &DeckCache{store: s, ttl: ttl}
}

func (c *DeckCache) valid() bool {
	return c.slides != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *DeckCache) Invalidate() {
	c.mu.Lock()
	c.slides = nil
	c.mu.Unlock()
}

func (c *DeckCache) load() error {
	if c.valid() {
		return nil
	}
	slides, err := c.store.ListPublishedSlides()
	if err != nil {
		return err
	}
	settings, err := c.store.GetSettings()
	if err != nil {
		return err
	}
	c.slides = slides
	c.settings = settings.Public()
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached deck and settings after ensuring the
// cache is fresh. It tries a read lock first; only takes a write lock if
// a reload is needed.
func (c *DeckCache) ensureLoaded() ([]Slide, PublicSettings, error) {
	c.mu.RLock()
	if c.valid() {
		slides, settings := c.slides, c.settings
		c.mu.RUnlock()
		return slides, settings, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, PublicSettings{}, err
	}
	return c.slides, c.settings, nil
}

// PublishedSlides returns the published deck in display order.
func (c *DeckCache) PublishedSlides() ([]Slide, error) {
	slides, _, err := c.ensureLoaded()
	return slides, err
}

// PublicSettings returns the public settings projection.
func (c *DeckCache) PublicSettings() (PublicSettings, error) {
	_, settings, err := c.ensureLoaded()
	return settings, err
}
