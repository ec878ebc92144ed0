package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/mjvanrooyen/claimflow/internal/application/port"
	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
)

// PeriodSummary aggregates one lecturer's approved claims for one month
type PeriodSummary struct {
	LecturerName string  `json:"lecturer_name"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	ClaimCount   int     `json:"claim_count"`
	TotalHours   float64 `json:"total_hours"`
	TotalAmount  int64   `json:"total_amount"`
}

// PeriodDetail is the invoice-style view of one lecturer's period
type PeriodDetail struct {
	LecturerName string          `json:"lecturer_name"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalHours   float64         `json:"total_hours"`
	TotalAmount  int64           `json:"total_amount"`
	Claims       []*entity.Claim `json:"claims"`
}

// SummaryService produces the HR views over approved claims
type SummaryService interface {
	// Summarize groups manager-approved claims by lecturer and period.
	// Zero year or month means no filter.
	Summarize(ctx context.Context, year, month int) ([]PeriodSummary, error)

	// Detail returns one lecturer's approved claims for one period
	Detail(ctx context.Context, lecturer string, year, month int) (*PeriodDetail, error)

	// ExportWorkbook renders the summary as an xlsx workbook
	ExportWorkbook(ctx context.Context, year, month int) ([]byte, error)
}

type summaryServiceImpl struct {
	claimRepo    port.ClaimRepository
	lineItemRepo port.LineItemRepository
	logger       Logger
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(claimRepo port.ClaimRepository, lineItemRepo port.LineItemRepository, logger Logger) SummaryService {
	return &summaryServiceImpl{
		claimRepo:    claimRepo,
		lineItemRepo: lineItemRepo,
		logger:       logger,
	}
}

func (s *summaryServiceImpl) Summarize(ctx context.Context, year, month int) ([]PeriodSummary, error) {
	claims, err := s.approvedClaims(ctx, year, month)
	if err != nil {
		return nil, err
	}

	type key struct {
		lecturer string
		year     int
		month    int
	}
	groups := make(map[key]*PeriodSummary)
	for _, claim := range claims {
		k := key{claim.LecturerName, claim.Year, claim.Month}
		summary, ok := groups[k]
		if !ok {
			summary = &PeriodSummary{LecturerName: k.lecturer, Year: k.year, Month: k.month}
			groups[k] = summary
		}
		summary.ClaimCount++
		summary.TotalHours += claim.TotalHours()
		summary.TotalAmount += claim.TotalAmount()
	}

	summaries := make([]PeriodSummary, 0, len(groups))
	for _, summary := range groups {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.LecturerName != b.LecturerName {
			return a.LecturerName < b.LecturerName
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return summaries, nil
}

func (s *summaryServiceImpl) Detail(ctx context.Context, lecturer string, year, month int) (*PeriodDetail, error) {
	if lecturer == "" {
		return nil, ErrNotFound
	}

	claims, err := s.approvedClaims(ctx, year, month)
	if err != nil {
		return nil, err
	}

	detail := &PeriodDetail{LecturerName: lecturer, Year: year, Month: month}
	for _, claim := range claims {
		if claim.LecturerName != lecturer {
			continue
		}
		detail.Claims = append(detail.Claims, claim)
		detail.TotalHours += claim.TotalHours()
		detail.TotalAmount += claim.TotalAmount()
	}
	if len(detail.Claims) == 0 {
		return nil, ErrNotFound
	}
	return detail, nil
}

// ExportWorkbook writes one row per (lecturer, period) group
func (s *summaryServiceImpl) ExportWorkbook(ctx context.Context, year, month int) ([]byte, error) {
	summaries, err := s.Summarize(ctx, year, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Lecturer", "Year", "Month", "Claims", "Total Hours", "Total Amount"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, summary := range summaries {
		values := []interface{}{
			summary.LecturerName,
			summary.Year,
			summary.Month,
			summary.ClaimCount,
			summary.TotalHours,
			summary.TotalAmount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Summary workbook exported", "rows", len(summaries))
	return buf.Bytes(), nil
}

func (s *summaryServiceImpl) approvedClaims(ctx context.Context, year, month int) ([]*entity.Claim, error) {
	claims, err := s.claimRepo.ListApproved(ctx, year, month)
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		items, err := s.lineItemRepo.GetByClaimID(ctx, claim.ID)
		if err != nil {
			return nil, err
		}
		claim.LineItems = items
	}
	return claims, nil
}
