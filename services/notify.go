package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/readytoruncq/fieldservice-uploads/caching"
	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/mailer"
	"github.com/readytoruncq/fieldservice-uploads/models"
	"github.com/readytoruncq/fieldservice-uploads/store"
)

// naValue renders wherever a metadata field is missing.
const naValue = "N/A"

// NotifyService turns one object-finalize event into a dispatcher email.
// Stateless across invocations; each object is treated as a fully
// independent event.
type NotifyService interface {
	HandleObjectFinalized(ctx context.Context, evt models.StorageObjectEvent) error
}

type NotifyServiceImpl struct {
	storage store.ObjectStorage
	mailer  mailer.Mailer
	caching caching.CachingService
	urlTTL  time.Duration
	to      string
	from    string

	logger logging.Logger
}

func NewNotifyServiceImpl(
	storage store.ObjectStorage,
	m mailer.Mailer,
	cachingSvc caching.CachingService,
	urlTTL time.Duration,
	to string,
	from string,
	l logging.Logger,
) *NotifyServiceImpl {
	return &NotifyServiceImpl{
		storage: storage,
		mailer:  m,
		caching: cachingSvc,
		urlTTL:  urlTTL,
		to:      to,
		from:    from,
		logger:  l,
	}
}

// HandleObjectFinalized runs one invocation of the trigger:
// prefix filter, duplicate guard, metadata fetch, signed URL, compose,
// dispatch. The uploaded object is never touched on failure.
func (svc *NotifyServiceImpl) HandleObjectFinalized(ctx context.Context, evt models.StorageObjectEvent) error {
	flow, ok := flowForKey(evt.Key)
	if !ok {
		svc.logger.Debug("object outside watched prefixes, skipping", "key", evt.Key)
		return nil
	}

	// Best-effort: queue deliveries are at-least-once, the notification
	// should not be. A guard error never blocks the notification.
	guardKey := fmt.Sprintf("notified:%s/%s", evt.Bucket, evt.Key)
	first, err := svc.caching.MarkOnce(ctx, guardKey, svc.urlTTL)
	if err != nil {
		svc.logger.Warn("duplicate-delivery guard unavailable", "key", evt.Key, "error", err)
	} else if !first {
		svc.logger.Info("duplicate finalize event, skipping", "key", evt.Key)
		return nil
	}

	md, err := svc.storage.GetMetadata(ctx, evt.Key)
	if err != nil {
		return fmt.Errorf("fetch object metadata: %w", err)
	}

	signedURL, err := svc.storage.GenerateDownloadUrl(ctx, evt.Key, svc.urlTTL)
	if err != nil {
		return fmt.Errorf("mint signed url: %w", err)
	}

	msg, err := svc.composeMessage(flow, evt, md, signedURL)
	if err != nil {
		return fmt.Errorf("compose notification: %w", err)
	}

	if err := svc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("dispatch notification: %w", err)
	}

	svc.logger.Info("notification dispatched", "key", evt.Key, "to", svc.to, "flow", flow)
	return nil
}

func (svc *NotifyServiceImpl) composeMessage(flow models.BucketFolder, evt models.StorageObjectEvent, md *store.ObjectMetadata, signedURL string) (mailer.Message, error) {
	isGPS := flow == models.BucketFolderGPSProblems

	issue := metaValue(md.Custom, models.MetaKeyIssue)
	if issue == naValue {
		// Older app builds wrote the long key.
		issue = metaValue(md.Custom, "issue_description")
	}

	size := evt.Size
	if size == 0 {
		size = md.Size
	}

	data := messageData{
		IsGPS:     isGPS,
		FullName:  metaValue(md.Custom, models.MetaKeyFullName),
		Phone:     metaValue(md.Custom, models.MetaKeyPhone),
		Machine:   metaValue(md.Custom, models.MetaKeyMachine),
		IssueType: metaValue(md.Custom, models.MetaKeyIssueType),
		Issue:     issue,
		FilePath:  evt.Key,
		MimeType:  orNA(md.ContentType),
		FileSize:  renderSizeKB(size),
		SignedURL: signedURL,
	}
	if isGPS {
		data.Heading = "New GPS Problem Report"
	} else {
		data.Heading = "New Snap & Send Request"
	}

	var subject string
	if isGPS {
		subject = fmt.Sprintf("GPS Problem – %s from %s", data.Machine, data.FullName)
	} else {
		subject = fmt.Sprintf("Snap & Send – %s from %s", data.Machine, data.FullName)
	}

	html, text, err := renderMessageBodies(data)
	if err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		To:        svc.to,
		From:      svc.from,
		Subject:   subject,
		PlainText: text,
		HTML:      html,
	}, nil
}

// flowForKey reports which watched collection the object belongs to, if any.
func flowForKey(key string) (models.BucketFolder, bool) {
	switch {
	case strings.HasPrefix(key, string(models.BucketFolderSnapSend)+"/"):
		return models.BucketFolderSnapSend, true
	case strings.HasPrefix(key, string(models.BucketFolderGPSProblems)+"/"):
		return models.BucketFolderGPSProblems, true
	default:
		return "", false
	}
}

// metaValue looks a key up case-insensitively; the storage backend lowercases
// metadata keys on the wire.
func metaValue(md map[string]string, key string) string {
	for k, v := range md {
		if strings.EqualFold(k, key) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return naValue
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return naValue
	}
	return s
}

func renderSizeKB(size int64) string {
	if size <= 0 {
		return naValue
	}
	return fmt.Sprintf("%d KB", int64(math.Round(float64(size)/1024)))
}
