package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SourceFetcher resolves one local-resource reference into its byte content.
// The whole payload is buffered in memory; files of this pipeline are phone
// photos, not multi-GB archives.
type SourceFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

type URISourceFetcherImpl struct {
	httpClient *http.Client
}

func NewURISourceFetcherImpl() *URISourceFetcherImpl {
	return &URISourceFetcherImpl{
		// No application-level timeout wraps the batch; this is the
		// transport layer's own bound.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *URISourceFetcherImpl) Fetch(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "file://"):
		return os.ReadFile(strings.TrimPrefix(uri, "file://"))
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return f.fetchHTTP(ctx, uri)
	case strings.HasPrefix(uri, "content://"):
		// Android content resolvers only exist on the originating device.
		return nil, fmt.Errorf("content resource %q is not readable outside its device", uri)
	default:
		return nil, fmt.Errorf("unsupported resource scheme in %q", uri)
	}
}

func (f *URISourceFetcherImpl) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read file at URI %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to read file at URI %s: status %d", uri, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func decodeDataURI(uri string) ([]byte, error) {
	rest := strings.TrimPrefix(uri, "data:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return nil, errors.New("malformed data URI")
	}

	meta, payload := rest[:comma], rest[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}

	unescaped, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI payload: %w", err)
	}
	return []byte(unescaped), nil
}
