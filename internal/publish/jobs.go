package publish

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of an import job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the import of a single file.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Title    string // overrides the imported title when set

	Status JobStatus
	Phase  string

	Slug        string
	PostID      string
	ContentHash string
	Attempts    int

	CreatedAt time.Time
	UpdatedAt time.Time

	fileData []byte
	errors   []string
}

// NewJob queues file contents for import.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New().String(),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// ReadJob loads a file from disk, refusing files larger than maxBytes.
func ReadJob(path string, maxBytes int64) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", filepath.Base(path), maxBytes)
	}
	return NewJob(path, data), nil
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

func (j *Job) setDraft(title, slug, hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.Slug = slug
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

func (j *Job) setPostID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.PostID = id
	j.UpdatedAt = time.Now()
}

func (j *Job) incrAttempts() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Attempts++
	j.UpdatedAt = time.Now()
}

// Report is a read-only, JSON-safe copy of job state.
type Report struct {
	ID          string    `json:"job_id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	PostID      string    `json:"post_id,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	Attempts    int       `json:"attempts"`
	Errors      []string  `json:"errors"`
}

// OK reports whether the file ended up in the CMS, either newly created or
// already present.
func (r Report) OK() bool {
	return r.Status == StatusCompleted || r.Status == StatusDupSkipped
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return Report{
		ID:          j.ID,
		Filename:    j.Filename,
		Title:       j.Title,
		Slug:        j.Slug,
		Status:      j.Status,
		Phase:       j.Phase,
		PostID:      j.PostID,
		ContentHash: j.ContentHash,
		Attempts:    j.Attempts,
		Errors:      errs,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
