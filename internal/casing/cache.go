package casing

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/conneroisu/vuelens/internal/sfc"
)

// DefaultCacheSize is the number of detection results kept when no size is
// configured.
const DefaultCacheSize = 256

// Cache memoizes detection results keyed by document text, document version
// and the known component names. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[uint64, []cacheEntry]
	hash    func(source, version, components string) uint64
}

// cacheEntry is one result in a hash bucket. The full key is kept so a hash
// collision never returns another document's votes.
type cacheEntry struct {
	source     string
	version    string
	components string
	votes      Votes
}

// NewCache creates a cache holding up to size results.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[uint64, []cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, hash: cacheKey}, nil
}

// Detect returns the votes for a component document, computing them on a miss.
// The returned slices belong to the caller.
func (c *Cache) Detect(source, version string, components []string) Votes {
	names := strings.Join(components, "\x00")
	key := c.hash(source, version, names)

	bucket, _ := c.entries.Get(key)
	for _, e := range bucket {
		if e.source == source && e.version == version && e.components == names {
			return e.votes.clone()
		}
	}

	votes := Detect(sfc.Parse(source).TemplateMetadata(), components)
	entry := cacheEntry{source: source, version: version, components: names, votes: votes.clone()}
	c.entries.Add(key, append(bucket[:len(bucket):len(bucket)], entry))
	return votes
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	n := 0
	for _, bucket := range c.entries.Values() {
		n += len(bucket)
	}
	return n
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	c.entries.Purge()
}

func (v Votes) clone() Votes {
	return Votes{Tag: slices.Clone(v.Tag), Attr: slices.Clone(v.Attr)}
}

func cacheKey(source, version, components string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(version)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(components)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(source)
	return d.Sum64()
}
