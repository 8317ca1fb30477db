package entity

import "time"

// SummaryStatus is the lifecycle state of a narrative summary job.
type SummaryStatus string

const (
	SummaryPending SummaryStatus = "pending"
	SummaryDone    SummaryStatus = "done"
	SummaryFailed  SummaryStatus = "failed"
)

// SummaryJob is one asynchronous narrative request.
// Text is empty while pending and holds the fallback message when failed.
type SummaryJob struct {
	ID        string
	Status    SummaryStatus
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
