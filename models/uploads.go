package models

// BucketFolder selects the logical collection an issue submission lands in.
// It becomes the first segment of every object key, and the notifier only
// reacts to objects under one of these prefixes.
type BucketFolder string

const (
	BucketFolderSnapSend    BucketFolder = "snap-send"
	BucketFolderGPSProblems BucketFolder = "gps-problems"
)

// Custom metadata keys attached to every uploaded object. These are the only
// channel carrying form data to the notifier; no database record is written.
// S3 lowercases metadata keys on the wire, so readers must match
// case-insensitively.
const (
	MetaKeyFullName  = "full_name"
	MetaKeyPhone     = "phone"
	MetaKeyMachine   = "machine"
	MetaKeyIssueType = "issue_type"
	MetaKeyIssue     = "issue"
	MetaKeyRefCode   = "refCode"
)

// UploadMeta carries the free-text form fields of one submission. The upload
// path does not enforce required fields; the calling form does that before
// submitting.
type UploadMeta struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Machine   string `json:"machine"`
	System    string `json:"system"`
	IssueType string `json:"issue_type"`
	Issue     string `json:"issue"`
}

// MachineLabel coalesces the GPS flow's "system" field onto the machine
// field, so the notifier always has one consistent field to read.
func (m UploadMeta) MachineLabel() string {
	if m.Machine != "" {
		return m.Machine
	}
	return m.System
}

// UploadRequest is one user submission: a batch of image references plus the
// shared form metadata. RefCode correlates every file of the batch and is
// embedded in each object key and metadata map.
type UploadRequest struct {
	BucketFolder BucketFolder `json:"bucketFolder" validate:"required,oneof=snap-send gps-problems"`
	RefCode      string       `json:"refCode" validate:"omitempty,max=64"`
	ImageURIs    []string     `json:"imageUris" validate:"max=10"`
	Meta         UploadMeta   `json:"meta"`
}

// UploadResult describes one successfully stored file.
type UploadResult struct {
	OK          bool   `json:"ok"`
	Path        string `json:"path"`
	Bucket      string `json:"bucket"`
	DownloadURL string `json:"downloadUrl"`
}

// UploadFailure describes one file of a batch that could not be stored.
// Index refers to the position in the validated URI list.
type UploadFailure struct {
	Index int    `json:"index"`
	URI   string `json:"uri"`
	Err   string `json:"error"`
}
