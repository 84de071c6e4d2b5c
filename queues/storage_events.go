package queues

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/readytoruncq/fieldservice-uploads/logging"
	"github.com/readytoruncq/fieldservice-uploads/models"
	"github.com/readytoruncq/fieldservice-uploads/services"
)

// StorageEventsReceiver drains the bucket's object-finalize notifications
// and feeds them to the notifier.
type StorageEventsReceiver interface {
	pollLoop() error
}

type StorageEventsReceiverImpl struct {
	client   *sqs.Client
	notifier services.NotifyService
	queueUrl string
	logger   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStorageEventsReceiverImpl(
	parent context.Context,
	client *sqs.Client,
	notifier services.NotifyService,
	queueUrl string,
	l logging.Logger,
) *StorageEventsReceiverImpl {

	ctx, cancel := context.WithCancel(parent)

	return &StorageEventsReceiverImpl{
		client:   client,
		notifier: notifier,
		queueUrl: queueUrl,
		logger:   l,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *StorageEventsReceiverImpl) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.pollLoop()
	}()
}

func (r *StorageEventsReceiverImpl) pollLoop() error {
	for {
		select {
		case <-r.ctx.Done():
			return r.ctx.Err()
		default:
		}

		out, err := r.client.ReceiveMessage(r.ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(r.queueUrl),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     20, // long poll
			VisibilityTimeout:   30,
		})
		if err != nil {
			time.Sleep(time.Second)
			continue
		}

		for _, msg := range out.Messages {
			if msg.Body != nil {
				if err := r.processMessage(r.ctx, *msg.Body); err != nil {
					r.logger.Error("discarding unprocessable event message", "error", err)
				}
			}
			// Notification is at-most-once: the message goes regardless of
			// outcome, failed notifications are not retried.
			if err := r.deleteMessage(r.ctx, msg); err != nil {
				r.logger.Error("failed to delete event message", "error", err)
			}
		}
	}
}

// processMessage decodes one queue message and hands every finalize record
// to the notifier. Notifier failures are logged per record and never abort
// the sibling records.
func (r *StorageEventsReceiverImpl) processMessage(ctx context.Context, body string) error {
	var evt models.S3EventMessage
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		return fmt.Errorf("unmarshal event message: %w", err)
	}

	for _, rec := range evt.Records {
		if !strings.HasPrefix(rec.EventName, "ObjectCreated") {
			continue
		}

		// Event keys arrive URL-encoded, spaces as '+'.
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			key = rec.S3.Object.Key
		}

		err = r.notifier.HandleObjectFinalized(ctx, models.StorageObjectEvent{
			Bucket: rec.S3.Bucket.Name,
			Key:    key,
			Size:   rec.S3.Object.Size,
		})
		if err != nil {
			r.logger.Error("notification failed", "key", key, "error", err)
		}
	}

	return nil
}

func (rc *StorageEventsReceiverImpl) deleteMessage(ctx context.Context, msg types.Message) error {
	_, err := rc.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(rc.queueUrl),
		ReceiptHandle: msg.ReceiptHandle,
	})
	return err
}

func (r *StorageEventsReceiverImpl) Shutdown(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
