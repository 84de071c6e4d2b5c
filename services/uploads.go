package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/models"
	"github.com/readytoruncq/fieldservice-uploads/store"
)

// UploadService runs one submission's files into object storage.
type UploadService interface {
	UploadBatch(ctx context.Context, req models.UploadRequest) ([]models.UploadResult, []models.UploadFailure)
}

type UploadServiceImpl struct {
	storage store.ObjectStorage
	fetcher SourceFetcher
	urlTTL  time.Duration

	logger logging.Logger
}

func NewUploadServiceImpl(storage store.ObjectStorage, fetcher SourceFetcher, urlTTL time.Duration, l logging.Logger) *UploadServiceImpl {
	return &UploadServiceImpl{
		storage: storage,
		fetcher: fetcher,
		urlTTL:  urlTTL,
		logger:  l,
	}
}

// UploadBatch filters the candidate URIs, uploads the survivors concurrently
// and returns successes ordered by source position plus the per-file
// failures. One bad file never sinks the batch; an empty result list with a
// populated failure list is the caller's signal that everything failed.
func (svc *UploadServiceImpl) UploadBatch(ctx context.Context, req models.UploadRequest) ([]models.UploadResult, []models.UploadFailure) {
	uris := FilterImageURIs(req.ImageURIs)
	if dropped := len(req.ImageURIs) - len(uris); dropped > 0 {
		svc.logger.Warn("dropped invalid image uris", "dropped", dropped, "ref_code", req.RefCode)
	}

	type outcome struct {
		result models.UploadResult
		err    error
	}

	// Slot per source index; no ordering dependence on completion time.
	outcomes := make([]outcome, len(uris))

	var wg sync.WaitGroup
	for i, uri := range uris {
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			res, err := svc.uploadOne(ctx, req.BucketFolder, req.RefCode, uri, req.Meta, i)
			outcomes[i] = outcome{result: res, err: err}
		}(i, uri)
	}
	wg.Wait()

	results := make([]models.UploadResult, 0, len(uris))
	failures := make([]models.UploadFailure, 0)
	for i, o := range outcomes {
		if o.err != nil {
			svc.logger.Error("upload failed", "index", i, "uri", uris[i], "ref_code", req.RefCode, "error", o.err)
			failures = append(failures, models.UploadFailure{Index: i, URI: uris[i], Err: o.err.Error()})
			continue
		}
		results = append(results, o.result)
	}

	svc.logger.Info("upload batch finished",
		"ref_code", req.RefCode,
		"folder", req.BucketFolder,
		"succeeded", len(results),
		"failed", len(failures),
	)
	return results, failures
}

// uploadOne buffers the bytes behind uri, sniffs their content type, derives
// the object key and writes the object with the submission metadata
// attached. Every metadata key is always present, empty when the form left
// the field blank.
func (svc *UploadServiceImpl) uploadOne(ctx context.Context, folder models.BucketFolder, refCode, uri string, meta models.UploadMeta, index int) (models.UploadResult, error) {
	body, err := svc.fetcher.Fetch(ctx, uri)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("read source: %w", err)
	}

	mtype := mimetype.Detect(body)
	ext := strings.TrimPrefix(mtype.Extension(), ".")

	key := BuildObjectPath(folder, refCode, meta.MachineLabel(), meta.IssueType, ext, index)

	metadata := map[string]string{
		models.MetaKeyFullName:  meta.FullName,
		models.MetaKeyPhone:     meta.Phone,
		models.MetaKeyMachine:   meta.MachineLabel(),
		models.MetaKeyIssueType: meta.IssueType,
		models.MetaKeyIssue:     meta.Issue,
		models.MetaKeyRefCode:   refCode,
	}

	if err := svc.storage.Put(ctx, key, body, mtype.String(), metadata); err != nil {
		return models.UploadResult{}, fmt.Errorf("store object: %w", err)
	}

	downloadURL, err := svc.storage.GenerateDownloadUrl(ctx, key, svc.urlTTL)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("presign download url: %w", err)
	}

	return models.UploadResult{
		OK:          true,
		Path:        key,
		Bucket:      svc.storage.Bucket(),
		DownloadURL: downloadURL,
	}, nil
}
