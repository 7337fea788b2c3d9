package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/vladimir-chernikin/normative-docs-qa/internal/chunker"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/normdoc"
)

// JobStatus represents the state of a document processing job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusStructuring JobStatus = "structuring"
	StatusChunking    JobStatus = "chunking"
	StatusNormalizing JobStatus = "normalizing"
	StatusValidating  JobStatus = "validating"
	StatusDelivering  JobStatus = "delivering"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single document run through the pipeline.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	DocName  string `json:"document"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Genre  normdoc.Genre `json:"genre,omitempty"`
	Report *Report       `json:"report,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	structure string
	errors    []string
}

// NewJob builds a queued job. docName is the display name chunk metadata
// carries; when empty the filename stem stands in downstream. structure is
// an optional pre-built structure outline text.
func NewJob(docName, filename string, data []byte, structure string) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		DocName:   docName,
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		structure: structure,
	}
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

// SetReport records the processing outcome.
func (j *Job) SetReport(genre normdoc.Genre, report *Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Genre = genre
	j.Report = report
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Structure returns the optional caller-supplied outline text.
func (j *Job) Structure() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.structure
}

func (j *Job) touchedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string        `json:"job_id"`
	DocName  string        `json:"document"`
	Filename string        `json:"filename"`
	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Genre    normdoc.Genre `json:"genre,omitempty"`
	Report   *Report       `json:"report,omitempty"`
	Errors   []string      `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	var report *Report
	if j.Report != nil {
		r := *j.Report
		report = &r
	}
	return JobSnapshot{
		ID:       j.ID,
		DocName:  j.DocName,
		Filename: j.Filename,
		Status:   j.Status,
		Phase:    j.Phase,
		Genre:    j.Genre,
		Report:   report,
		Errors:   errs,
	}
}

// Report summarizes one processed document: what the validator accepted and
// what was handed to the index service.
type Report struct {
	Document        string        `json:"document"`
	Genre           normdoc.Genre `json:"genre"`
	TypeName        string        `json:"type_name"`
	StructureSource string        `json:"structure_source"` // provided, file or generated
	ContentHash     string        `json:"content_hash"`
	Stats           chunker.Stats `json:"stats"`
	Delivered       bool          `json:"delivered"`
	CreatedAt       time.Time     `json:"created_at"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.touchedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
