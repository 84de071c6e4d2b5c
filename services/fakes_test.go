package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/readytoruncq/fieldservice-uploads/mailer"
	"github.com/readytoruncq/fieldservice-uploads/store"
)

type fakeObject struct {
	body        []byte
	contentType string
	metadata    map[string]string
}

type fakeStorage struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]fakeObject
	putErr  error
	urlErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		bucket:  "test-bucket",
		objects: make(map[string]fakeObject),
	}
}

func (s *fakeStorage) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	s.objects[key] = fakeObject{body: append([]byte(nil), body...), contentType: contentType, metadata: md}
	return nil
}

func (s *fakeStorage) GetMetadata(ctx context.Context, key string) (*store.ObjectMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, store.ErrObjectNotFound
	}
	return &store.ObjectMetadata{
		ContentType: obj.contentType,
		Size:        int64(len(obj.body)),
		Custom:      obj.metadata,
	}, nil
}

func (s *fakeStorage) GenerateDownloadUrl(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return "https://signed.example/" + key, nil
}

func (s *fakeStorage) Bucket() string { return s.bucket }

func (s *fakeStorage) IsReady(ctx context.Context) error { return nil }

func (s *fakeStorage) Name() string { return "ObjectStorage[fake]" }

type fakeFetcher struct {
	payloads map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	payload, ok := f.payloads[uri]
	if !ok {
		return nil, fmt.Errorf("unreadable resource %q", uri)
	}
	return payload, nil
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *captureMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (c *fakeCache) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[key] {
		return false, nil
	}
	c.seen[key] = true
	return true, nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, key)
	return nil
}

// Minimal JPEG and PNG headers, enough for content sniffing.
var (
	jpegPayload = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}
	pngPayload  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}
)
