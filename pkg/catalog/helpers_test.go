package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/square-menu/pkg/cache"
)

// fakeUpstream serves scripted catalog pages keyed by cursor.
type fakeUpstream struct {
	mu        sync.Mutex
	pages     map[string]string
	locations string
	err       error

	posts   int
	gets    int
	cursors []string
}

func (f *fakeUpstream) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts++
	if f.err != nil {
		return nil, f.err
	}
	req := body.(searchRequest)
	f.cursors = append(f.cursors, req.Cursor)
	page, ok := f.pages[req.Cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", req.Cursor)
	}
	return json.RawMessage(page), nil
}

func (f *fakeUpstream) Get(ctx context.Context, path string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.locations), nil
}

// memStore is an in-memory Store that round-trips values through JSON.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key cache.Key, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key.String()]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (m *memStore) Set(ctx context.Context, key cache.Key, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	m.entries[key.String()] = data
	m.sets++
}

func (m *memStore) has(key cache.Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key.String()]
	return ok
}

// page renders a /catalog/search response.
func page(cursor string, objects, related []string) string {
	doc := `{"objects":[` + strings.Join(objects, ",") + `],"related_objects":[` + strings.Join(related, ",") + `]`
	if cursor != "" {
		doc += `,"cursor":"` + cursor + `"`
	}
	return doc + "}"
}

func categoryObj(id, name string) string {
	return fmt.Sprintf(`{"type":"CATEGORY","id":%q,"category_data":{"name":%q}}`, id, name)
}

func imageObj(id, url string) string {
	return fmt.Sprintf(`{"type":"IMAGE","id":%q,"image_data":{"url":%q}}`, id, url)
}

// itemObj renders an ITEM sold everywhere with one priced variation.
func itemObj(id, name, categoryID string, cents int64) string {
	cats := "[]"
	if categoryID != "" {
		cats = fmt.Sprintf(`[{"id":%q}]`, categoryID)
	}
	return fmt.Sprintf(`{"type":"ITEM","id":%q,"present_at_all_locations":true,"item_data":{"name":%q,"categories":%s,`+
		`"variations":[{"type":"ITEM_VARIATION","id":%q,"item_variation_data":{"name":"Regular","price_money":{"amount":%d,"currency":"USD"}}}]}}`,
		id, name, cats, id+"-v", cents)
}

// localItemObj renders an ITEM sold only at the given locations.
func localItemObj(id, name, categoryID string, locations ...string) string {
	locs, _ := json.Marshal(locations)
	return fmt.Sprintf(`{"type":"ITEM","id":%q,"present_at_all_locations":false,"present_at_location_ids":%s,"item_data":{"name":%q,"categories":[{"id":%q}]}}`,
		id, locs, name, categoryID)
}

func singlePage(objects, related []string) map[string]string {
	return map[string]string{"": page("", objects, related)}
}

func newTestService(up *fakeUpstream, store Store) *Service {
	return New(up, store, DefaultConfig())
}
