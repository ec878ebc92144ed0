package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

func approvedClaimFixtures() []*entity.Claim {
	return []*entity.Claim{
		{ID: 1, LecturerName: "Adams", Year: 2026, Month: 7, Status: workflow.StatusManagerApproved},
		{ID: 2, LecturerName: "Adams", Year: 2026, Month: 7, Status: workflow.StatusManagerApproved},
		{ID: 3, LecturerName: "Baker", Year: 2026, Month: 7, Status: workflow.StatusManagerApproved},
	}
}

func summaryFixtureRepos() (*mockClaimRepo, *mockLineItemRepo) {
	claims := &mockClaimRepo{
		listApprovedFunc: func(ctx context.Context, year, month int) ([]*entity.Claim, error) {
			return approvedClaimFixtures(), nil
		},
	}
	items := &mockLineItemRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) ([]*entity.LineItem, error) {
			// Two hours at 50 per claim keeps the arithmetic obvious
			return []*entity.LineItem{{ClaimID: claimID, Hours: 2, RatePerHour: 50}}, nil
		},
	}
	return claims, items
}

func TestSummarize_GroupsByLecturerAndPeriod(t *testing.T) {
	claims, items := summaryFixtureRepos()
	svc := NewSummaryService(claims, items, noopLogger{})

	summaries, err := svc.Summarize(context.Background(), 2026, 7)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("got %d groups, want 2", len(summaries))
	}

	adams := summaries[0]
	if adams.LecturerName != "Adams" {
		t.Fatalf("first group = %q, want Adams (sorted)", adams.LecturerName)
	}
	if adams.ClaimCount != 2 {
		t.Errorf("Adams ClaimCount = %d, want 2", adams.ClaimCount)
	}
	if adams.TotalHours != 4 {
		t.Errorf("Adams TotalHours = %v, want 4", adams.TotalHours)
	}
	if adams.TotalAmount != 200 {
		t.Errorf("Adams TotalAmount = %d, want 200", adams.TotalAmount)
	}

	baker := summaries[1]
	if baker.LecturerName != "Baker" || baker.ClaimCount != 1 {
		t.Errorf("second group = %q with %d claims, want Baker with 1", baker.LecturerName, baker.ClaimCount)
	}
}

func TestSummarize_PassesPeriodFilter(t *testing.T) {
	var gotYear, gotMonth int
	claims := &mockClaimRepo{
		listApprovedFunc: func(ctx context.Context, year, month int) ([]*entity.Claim, error) {
			gotYear, gotMonth = year, month
			return nil, nil
		},
	}

	svc := NewSummaryService(claims, &mockLineItemRepo{}, noopLogger{})
	if _, err := svc.Summarize(context.Background(), 2026, 3); err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if gotYear != 2026 || gotMonth != 3 {
		t.Errorf("filter = (%d, %d), want (2026, 3)", gotYear, gotMonth)
	}
}

func TestDetail_SingleLecturer(t *testing.T) {
	claims, items := summaryFixtureRepos()
	svc := NewSummaryService(claims, items, noopLogger{})

	detail, err := svc.Detail(context.Background(), "Adams", 2026, 7)
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}

	if len(detail.Claims) != 2 {
		t.Errorf("got %d claims, want 2", len(detail.Claims))
	}
	if detail.TotalAmount != 200 {
		t.Errorf("TotalAmount = %d, want 200", detail.TotalAmount)
	}
}

func TestDetail_UnknownLecturer(t *testing.T) {
	claims, items := summaryFixtureRepos()
	svc := NewSummaryService(claims, items, noopLogger{})

	_, err := svc.Detail(context.Background(), "Nobody", 2026, 7)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestExportWorkbook_OneRowPerGroup(t *testing.T) {
	claims, items := summaryFixtureRepos()
	svc := NewSummaryService(claims, items, noopLogger{})

	content, err := svc.ExportWorkbook(context.Background(), 2026, 7)
	if err != nil {
		t.Fatalf("ExportWorkbook returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header plus one row per (lecturer, period) group
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Lecturer" {
		t.Errorf("header cell = %q, want Lecturer", rows[0][0])
	}
	if rows[1][0] != "Adams" || rows[2][0] != "Baker" {
		t.Errorf("data rows = %q, %q, want Adams, Baker", rows[1][0], rows[2][0])
	}
}
