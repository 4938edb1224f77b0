package report

import (
	"context"
	"fmt"

	"github.com/citypulse-ai/citypulse/pkg/model"
)

// ListOptions contains options for listing reports
type ListOptions struct {
	Location string
	Topic    string
	Limit    int
}

// List retrieves reports for a location, newest first. Topic narrows the
// result when set.
func (u *UseCase) List(ctx context.Context, opts ListOptions) ([]*model.Report, error) {
	return u.repo.ListReports(ctx,
		model.NormalizeLocation(opts.Location), opts.Topic, opts.Limit)
}

// Print writes reports to the configured output in a line-per-report
// format.
func (u *UseCase) Print(reports []*model.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(u.output, "no reports")
		return
	}
	for _, r := range reports {
		fmt.Fprintf(u.output, "%s [%s] %s / %s: %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Severity, r.Location, r.Topic, r.Description)
	}
}
