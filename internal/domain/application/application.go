// Package application defines a seeker's application to a job and its pipeline stages.
package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Status is a pipeline stage.
type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusScreening   Status = "SCREENING"
	StatusShortlisted Status = "SHORTLISTED"
	StatusInterview   Status = "INTERVIEW"
	StatusOffer       Status = "OFFER"
	StatusRejected    Status = "REJECTED"
)

// Statuses lists every stage in pipeline order.
var Statuses = []Status{
	StatusApplied, StatusScreening, StatusShortlisted,
	StatusInterview, StatusOffer, StatusRejected,
}

// ParseStatus validates s.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: application status %q", domain.ErrInvalidStatus, s)
}

// Application links a seeker to a job. EmployerID is denormalized from the job
// so employer-wide queries need no join.
type Application struct {
	ID         string
	JobID      string
	SeekerID   string
	EmployerID string
	Status     Status
	ResumeURL  domain.Optional[string]
	AppliedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks required fields.
func (a *Application) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidInput)
	case a.JobID == "":
		return fmt.Errorf("%w: job id is required", domain.ErrInvalidInput)
	case a.SeekerID == "":
		return fmt.Errorf("%w: seeker id is required", domain.ErrInvalidInput)
	}
	_, err := ParseStatus(string(a.Status))
	return err
}

// InInterview reports whether the application reached the interview stage.
func (a *Application) InInterview() bool { return a.Status == StatusInterview }
