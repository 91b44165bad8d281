package objectstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

type memObject struct {
	data []byte
	info ObjectInfo
}

// MemoryStore keeps objects in process memory. It backs the server's
// "memory" storage mode and the tests.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	buckets map[string]map[string]*memObject
	now     func() time.Time

	// Calls counts backend requests per operation name.
	calls map[string]int
}

// NewMemoryStore returns an empty store whose public URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		buckets: make(map[string]map[string]*memObject),
		now:     time.Now,
		calls:   make(map[string]int),
	}
}

// Calls returns how many times op was invoked.
func (m *MemoryStore) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

func (m *MemoryStore) count(op string) {
	m.calls[op]++
}

func (m *MemoryStore) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, opts PutOptions) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("put")

	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string]*memObject)
		m.buckets[bucket] = b
	}
	if _, exists := b[key]; exists && !opts.Upsert {
		return nil, ErrAlreadyExists
	}

	sum := md5.Sum(data)
	info := ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: m.now().UTC(),
	}
	b[key] = &memObject{data: data, info: info}

	return &info, nil
}

func (m *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("get")

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("delete")

	if _, ok := m.buckets[bucket][key]; !ok {
		return ErrNotFound
	}
	delete(m.buckets[bucket], key)
	return nil
}

// DeleteMany removes every existing key; missing keys are ignored, which is
// how S3 DeleteObjects behaves.
func (m *MemoryStore) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("delete_many")

	for _, k := range keys {
		delete(m.buckets[bucket], k)
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("list")

	var out []ObjectInfo
	for key, obj := range m.buckets[bucket] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if strings.Contains(strings.TrimPrefix(key, prefix), "/") {
			continue
		}
		out = append(out, obj.info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) PublicURL(bucket, key string) string {
	return m.baseURL + "/" + bucket + "/" + escapeKey(key)
}

func (m *MemoryStore) SignedURL(ctx context.Context, bucket, key string, method Method, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("sign")

	if method == MethodGet {
		if _, ok := m.buckets[bucket][key]; !ok {
			return "", ErrNotFound
		}
	}

	q := url.Values{}
	q.Set("method", string(method))
	q.Set("expires", fmt.Sprintf("%d", m.now().Add(ttl).Unix()))
	return m.baseURL + "/" + bucket + "/" + escapeKey(key) + "?" + q.Encode(), nil
}

// escapeKey escapes each path segment of key, keeping the separators.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
