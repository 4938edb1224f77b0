package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/repository"
	"github.com/citypulse-ai/citypulse/pkg/usecase/report"
	"github.com/m-mizutani/gt"
)

func TestSubmitAndList(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemory()

	fixed := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	uc := report.New(mem, report.WithClock(func() time.Time { return fixed }))

	submitted, err := uc.Submit(ctx, report.SubmitInput{
		Location:    "  Bangalore ",
		Topic:       "Flooding",
		Description: "water logging on outer ring road",
		Severity:    "major",
		Reporter:    "u7",
	})
	gt.NoError(t, err)
	gt.Equal(t, submitted.Location, "bangalore")
	gt.Equal(t, submitted.Topic, "flooding")
	gt.Equal(t, submitted.CreatedAt, fixed)

	reports, err := uc.List(ctx, report.ListOptions{
		Location: "Bangalore",
		Topic:    "flooding",
		Limit:    10,
	})
	gt.NoError(t, err)
	gt.A(t, reports).Length(1)
	gt.Equal(t, reports[0].Description, "water logging on outer ring road")
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	uc := report.New(repository.NewMemory())

	testCases := map[string]report.SubmitInput{
		"missing location": {
			Topic:       "flooding",
			Description: "water everywhere",
		},
		"missing description": {
			Location: "bangalore",
			Topic:    "flooding",
		},
		"unknown severity": {
			Location:    "bangalore",
			Topic:       "flooding",
			Description: "water everywhere",
			Severity:    "catastrophic",
		},
	}

	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Submit(ctx, input)
			gt.Error(t, err)
		})
	}
}

func TestSubmitDefaultsSeverity(t *testing.T) {
	ctx := context.Background()
	uc := report.New(repository.NewMemory())

	submitted, err := uc.Submit(ctx, report.SubmitInput{
		Location:    "bangalore",
		Topic:       "event",
		Description: "street fair on church street",
	})
	gt.NoError(t, err)
	gt.Equal(t, string(submitted.Severity), "info")
}

func TestPrint(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemory()
	var buf bytes.Buffer
	uc := report.New(mem, report.WithOutput(&buf))

	_, err := uc.Submit(ctx, report.SubmitInput{
		Location:    "bangalore",
		Topic:       "pothole",
		Description: "deep pothole near silk board",
		Severity:    "minor",
	})
	gt.NoError(t, err)

	reports, err := uc.List(ctx, report.ListOptions{Location: "bangalore"})
	gt.NoError(t, err)

	uc.Print(reports)
	gt.S(t, buf.String()).Contains("pothole")
	gt.S(t, buf.String()).Contains("minor")
}
