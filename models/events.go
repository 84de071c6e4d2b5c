package models

// S3EventMessage is the notification body S3 publishes to the queue when an
// object write is finalized.
type S3EventMessage struct {
	Records []S3EventRecord `json:"Records"`
}

type S3EventRecord struct {
	EventName string        `json:"eventName"`
	S3        S3EventEntity `json:"s3"`
}

type S3EventEntity struct {
	Bucket S3BucketInfo `json:"bucket"`
	Object S3ObjectInfo `json:"object"`
}

type S3BucketInfo struct {
	Name string `json:"name"`
}

// S3ObjectInfo carries the object reference of one event record. Key is
// URL-encoded on the wire.
type S3ObjectInfo struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// StorageObjectEvent is one decoded finalize event handed to the notifier.
// Each event is fully independent; events of one batch may arrive in any
// order.
type StorageObjectEvent struct {
	Bucket string
	Key    string
	Size   int64
}
