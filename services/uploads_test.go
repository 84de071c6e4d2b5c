package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/models"
)

func newUploadService(storage *fakeStorage, fetcher *fakeFetcher) *UploadServiceImpl {
	return NewUploadServiceImpl(storage, fetcher, 24*time.Hour, logging.NewNullLogger())
}

func TestUploadBatchPartialFailure(t *testing.T) {
	storage := newFakeStorage()
	fetcher := &fakeFetcher{payloads: map[string][]byte{
		"file:///1.jpg": jpegPayload,
		"file:///3.jpg": jpegPayload,
		"file:///5.jpg": jpegPayload,
	}}
	svc := newUploadService(storage, fetcher)

	req := models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "20250101120000-ABC",
		ImageURIs: []string{
			"file:///1.jpg",
			"file:///2.jpg",
			"file:///3.jpg",
			"file:///4.jpg",
			"file:///5.jpg",
		},
		Meta: models.UploadMeta{Machine: "John Deere 8R", IssueType: "Hydraulics"},
	}

	results, failures := svc.UploadBatch(context.Background(), req)

	require.Len(t, results, 3)
	assert.True(t, strings.HasSuffix(results[0].Path, "_1.jpg"), "path %q", results[0].Path)
	assert.True(t, strings.HasSuffix(results[1].Path, "_3.jpg"), "path %q", results[1].Path)
	assert.True(t, strings.HasSuffix(results[2].Path, "_5.jpg"), "path %q", results[2].Path)

	require.Len(t, failures, 2)
	assert.Equal(t, 1, failures[0].Index)
	assert.Equal(t, "file:///2.jpg", failures[0].URI)
	assert.Equal(t, 3, failures[1].Index)
	assert.Equal(t, "file:///4.jpg", failures[1].URI)
}

func TestUploadBatchMetadata(t *testing.T) {
	storage := newFakeStorage()
	fetcher := &fakeFetcher{payloads: map[string][]byte{"file:///a.jpg": jpegPayload}}
	svc := newUploadService(storage, fetcher)

	req := models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "20250101120000-ABC",
		ImageURIs:    []string{"file:///a.jpg"},
		Meta: models.UploadMeta{
			FullName:  "Jed Orr",
			Phone:     "0400000000",
			Machine:   "John Deere 8R",
			IssueType: "Hydraulics",
		},
	}

	results, failures := svc.UploadBatch(context.Background(), req)
	require.Empty(t, failures)
	require.Len(t, results, 1)

	res := results[0]
	assert.True(t, res.OK)
	assert.Equal(t, "test-bucket", res.Bucket)
	assert.NotEmpty(t, res.DownloadURL)

	obj, ok := storage.objects[res.Path]
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", obj.contentType)

	want := map[string]string{
		models.MetaKeyFullName:  "Jed Orr",
		models.MetaKeyPhone:     "0400000000",
		models.MetaKeyMachine:   "John Deere 8R",
		models.MetaKeyIssueType: "Hydraulics",
		models.MetaKeyIssue:     "",
		models.MetaKeyRefCode:   "20250101120000-ABC",
	}
	assert.Equal(t, want, obj.metadata)
}

func TestUploadBatchSystemCoalescesToMachine(t *testing.T) {
	storage := newFakeStorage()
	fetcher := &fakeFetcher{payloads: map[string][]byte{"file:///a.jpg": jpegPayload}}
	svc := newUploadService(storage, fetcher)

	req := models.UploadRequest{
		BucketFolder: models.BucketFolderGPSProblems,
		RefCode:      "ref",
		ImageURIs:    []string{"file:///a.jpg"},
		Meta:         models.UploadMeta{System: "Trimble RTK"},
	}

	results, failures := svc.UploadBatch(context.Background(), req)
	require.Empty(t, failures)
	require.Len(t, results, 1)

	obj, ok := storage.objects[results[0].Path]
	require.True(t, ok)
	assert.Equal(t, "Trimble RTK", obj.metadata[models.MetaKeyMachine])
}

func TestUploadBatchSniffsExtension(t *testing.T) {
	storage := newFakeStorage()
	fetcher := &fakeFetcher{payloads: map[string][]byte{"file:///shot": pngPayload}}
	svc := newUploadService(storage, fetcher)

	req := models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "ref",
		ImageURIs:    []string{"file:///shot"},
	}

	results, failures := svc.UploadBatch(context.Background(), req)
	require.Empty(t, failures)
	require.Len(t, results, 1)
	assert.True(t, strings.HasSuffix(results[0].Path, ".png"), "path %q", results[0].Path)

	obj := storage.objects[results[0].Path]
	assert.Equal(t, "image/png", obj.contentType)
}

func TestUploadBatchFiltersInvalidURIs(t *testing.T) {
	storage := newFakeStorage()
	fetcher := &fakeFetcher{payloads: map[string][]byte{"file:///a.jpg": jpegPayload}}
	svc := newUploadService(storage, fetcher)

	req := models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "ref",
		ImageURIs:    []string{"", "undefined", "file:///a.jpg", "null", "   "},
	}

	results, failures := svc.UploadBatch(context.Background(), req)
	assert.Empty(t, failures)
	require.Len(t, results, 1)
}

func TestUploadBatchEmptyInput(t *testing.T) {
	svc := newUploadService(newFakeStorage(), &fakeFetcher{})

	results, failures := svc.UploadBatch(context.Background(), models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "ref",
	})
	assert.Empty(t, results)
	assert.Empty(t, failures)
}

func TestUploadBatchStorageError(t *testing.T) {
	storage := newFakeStorage()
	storage.putErr = errors.New("bucket unavailable")
	fetcher := &fakeFetcher{payloads: map[string][]byte{"file:///a.jpg": jpegPayload}}
	svc := newUploadService(storage, fetcher)

	results, failures := svc.UploadBatch(context.Background(), models.UploadRequest{
		BucketFolder: models.BucketFolderSnapSend,
		RefCode:      "ref",
		ImageURIs:    []string{"file:///a.jpg"},
	})
	assert.Empty(t, results)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Err, "store object")
}
