package domain

import "time"

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job is a persisted record of one generation request/response cycle.
// A job is created in JobProcessing before any upstream call and moves
// exactly once to JobCompleted or JobFailed.
type Job struct {
	ID               string            `json:"id" bson:"_id"`
	UserID           string            `json:"userId" bson:"user_id"`
	Status           JobStatus         `json:"status" bson:"status"`
	Platforms        []Platform        `json:"platforms" bson:"platforms"`
	OriginalContent  string            `json:"originalContent" bson:"original_content"`
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty" bson:"generated_content,omitempty"`
	Error            string            `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" bson:"created_at"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
