package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidSeverity = goerr.New("invalid severity")
)

type ReportID string

// NewReportID generates a new unique ReportID
func NewReportID() ReportID {
	return ReportID(uuid.New().String())
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Validate checks if the severity is valid
func (s Severity) Validate() error {
	switch s {
	case SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical:
		return nil
	default:
		return goerr.Wrap(ErrInvalidSeverity, "unknown severity", goerr.V("severity", s))
	}
}

// Report is a citizen-submitted observation about a location, such as
// flooding on a street or an ongoing event. Location and Topic are
// stored normalized so lookups are exact-match.
type Report struct {
	ID          ReportID  `json:"id" firestore:"id"`
	Location    string    `json:"location" firestore:"location"`
	Topic       string    `json:"topic" firestore:"topic"`
	Description string    `json:"description" firestore:"description"`
	Severity    Severity  `json:"severity" firestore:"severity"`
	Reporter    string    `json:"reporter,omitempty" firestore:"reporter,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
}

// Validate checks required report fields.
func (r *Report) Validate() error {
	if r.Location == "" {
		return goerr.New("report location is empty")
	}
	if r.Topic == "" {
		return goerr.New("report topic is empty")
	}
	if r.Description == "" {
		return goerr.New("report description is empty")
	}
	return r.Severity.Validate()
}
