package report

import (
	"context"
	"strings"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// SubmitInput carries the fields of a new citizen report.
type SubmitInput struct {
	Location    string
	Topic       string
	Description string
	Severity    string
	Reporter    string
}

// Submit validates and persists a citizen report. Location and topic are
// stored normalized so the get_stored_reports lookup is exact-match.
func (u *UseCase) Submit(ctx context.Context, input SubmitInput) (*model.Report, error) {
	severity := model.Severity(strings.ToLower(strings.TrimSpace(input.Severity)))
	if severity == "" {
		severity = model.SeverityInfo
	}

	report := &model.Report{
		ID:          model.NewReportID(),
		Location:    model.NormalizeLocation(input.Location),
		Topic:       strings.ToLower(strings.TrimSpace(input.Topic)),
		Description: strings.TrimSpace(input.Description),
		Severity:    severity,
		Reporter:    input.Reporter,
		CreatedAt:   u.now(),
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	if err := u.repo.PutReport(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}
