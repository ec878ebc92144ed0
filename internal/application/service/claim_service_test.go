package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mjvanrooyen/claimflow/internal/domain/entity"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

func newClaimService(claims *mockClaimRepo, items *mockLineItemRepo, docs *mockDocumentRepo, blobs *mockBlobStorage) ClaimService {
	return NewClaimService(claims, items, docs, &mockTxManager{}, blobs, noopLogger{})
}

func TestCreateClaim_StartsAsDraft(t *testing.T) {
	var created *entity.Claim
	claims := &mockClaimRepo{
		createFunc: func(ctx context.Context, claim *entity.Claim) error {
			claim.ID = 42
			created = claim
			return nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	claim, err := svc.Create(context.Background(), lecturerActor("lect-1"), CreateClaimInput{
		LecturerName: "Dr. Test",
		ModuleCode:   "CS101",
		Year:         2026,
		Month:        8,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if claim.ID != 42 {
		t.Errorf("ID = %d, want 42", claim.ID)
	}
	if created.Status != workflow.StatusDraft {
		t.Errorf("Status = %s, want DRAFT", created.Status)
	}
	if created.LecturerUserID != "lect-1" {
		t.Errorf("LecturerUserID = %q, want lect-1", created.LecturerUserID)
	}
}

func TestCreateClaim_NonLecturerDenied(t *testing.T) {
	svc := newClaimService(&mockClaimRepo{}, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	_, err := svc.Create(context.Background(), managerActor("mgr-1"), CreateClaimInput{
		LecturerName: "Dr. Test",
		ModuleCode:   "CS101",
		Year:         2026,
		Month:        8,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestCreateClaim_AggregatesAllViolations(t *testing.T) {
	createCalls := 0
	claims := &mockClaimRepo{
		createFunc: func(ctx context.Context, claim *entity.Claim) error {
			createCalls++
			return nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	_, err := svc.Create(context.Background(), lecturerActor("lect-1"), CreateClaimInput{
		LecturerName: "  ",
		ModuleCode:   "",
		Year:         1999,
		Month:        13,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	for _, field := range []string{"lecturer_name", "module_code", "year", "month"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("no violation recorded for %s", field)
		}
	}
	if createCalls != 0 {
		t.Errorf("Create stored %d claims despite violations", createCalls)
	}
}

func TestAddLineItem_ValidEntry(t *testing.T) {
	var stored *entity.LineItem
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusDraft, LecturerUserID: "lect-1"}, nil
		},
	}
	items := &mockLineItemRepo{
		createFunc: func(ctx context.Context, item *entity.LineItem) error {
			item.ID = 5
			stored = item
			return nil
		},
	}

	svc := newClaimService(claims, items, &mockDocumentRepo{}, &mockBlobStorage{})
	item, err := svc.AddLineItem(context.Background(), 7, lecturerActor("lect-1"), AddLineItemInput{
		Date:        time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Hours:       2.5,
		RatePerHour: 33.33,
		Notes:       "tutorial session",
	})
	if err != nil {
		t.Fatalf("AddLineItem returned error: %v", err)
	}

	if item.ID != 5 {
		t.Errorf("ID = %d, want 5", item.ID)
	}
	if stored.Amount() != 83 {
		t.Errorf("Amount = %d, want 83", stored.Amount())
	}
}

func TestAddLineItem_WrongOwnerDenied(t *testing.T) {
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusDraft, LecturerUserID: "lect-1"}, nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	_, err := svc.AddLineItem(context.Background(), 7, lecturerActor("lect-2"), AddLineItemInput{
		Date:        time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Hours:       1,
		RatePerHour: 20,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestAddLineItem_LockedAfterReviewStarts(t *testing.T) {
	for _, status := range []workflow.Status{
		workflow.StatusUnderReview,
		workflow.StatusCoordinatorApproved,
		workflow.StatusManagerApproved,
	} {
		t.Run(string(status), func(t *testing.T) {
			claims := &mockClaimRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
					return &entity.Claim{ID: id, Status: status, LecturerUserID: "lect-1"}, nil
				},
			}

			svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
			_, err := svc.AddLineItem(context.Background(), 7, lecturerActor("lect-1"), AddLineItemInput{
				Date:        time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
				Hours:       1,
				RatePerHour: 20,
			})
			if !errors.Is(err, ErrForbidden) {
				t.Errorf("error = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestAddLineItem_BoundsViolations(t *testing.T) {
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusDraft, LecturerUserID: "lect-1"}, nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	_, err := svc.AddLineItem(context.Background(), 7, lecturerActor("lect-1"), AddLineItemInput{
		Hours:       25,
		RatePerHour: 100000,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	for _, field := range []string{"date", "hours", "rate_per_hour"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("no violation recorded for %s", field)
		}
	}
}

func TestDeleteClaim_RemovesRowsAndBlobs(t *testing.T) {
	var deletedHandles []string
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusManagerRejected}, nil
		},
	}
	docs := &mockDocumentRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
			return []*entity.SupportingDocument{
				{ID: 1, ClaimID: claimID, StorageHandle: "uploads/a.pdf"},
				{ID: 2, ClaimID: claimID, StorageHandle: "uploads/b.xlsx"},
			}, nil
		},
	}
	blobs := &mockBlobStorage{
		deleteFunc: func(handle string) error {
			deletedHandles = append(deletedHandles, handle)
			return nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, docs, blobs)
	if err := svc.Delete(context.Background(), 7, managerActor("mgr-1")); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(deletedHandles) != 2 {
		t.Fatalf("deleted %d blobs, want 2", len(deletedHandles))
	}
}

func TestDeleteClaim_BlobFailureDoesNotFailDelete(t *testing.T) {
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusManagerRejected}, nil
		},
	}
	docs := &mockDocumentRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
			return []*entity.SupportingDocument{{ID: 1, ClaimID: claimID, StorageHandle: "uploads/a.pdf"}}, nil
		},
	}
	blobs := &mockBlobStorage{
		deleteFunc: func(handle string) error {
			return errors.New("disk gone")
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, docs, blobs)
	if err := svc.Delete(context.Background(), 7, managerActor("mgr-1")); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}
}

func TestDeleteClaim_NonManagerDenied(t *testing.T) {
	getCalls := 0
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			getCalls++
			return &entity.Claim{ID: id}, nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	err := svc.Delete(context.Background(), 7, lecturerActor("lect-1"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
	if getCalls != 0 {
		t.Errorf("claim loaded %d times before the role check", getCalls)
	}
}

func TestGetClaim_LoadsChildren(t *testing.T) {
	claims := &mockClaimRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Claim, error) {
			return &entity.Claim{ID: id, Status: workflow.StatusSubmitted}, nil
		},
	}
	items := &mockLineItemRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) ([]*entity.LineItem, error) {
			return []*entity.LineItem{{ID: 1, ClaimID: claimID, Hours: 3, RatePerHour: 20}}, nil
		},
	}
	docs := &mockDocumentRepo{
		getByClaimIDFunc: func(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error) {
			return []*entity.SupportingDocument{{ID: 1, ClaimID: claimID, FileName: "receipt.pdf"}}, nil
		},
	}

	svc := newClaimService(claims, items, docs, &mockBlobStorage{})
	claim, err := svc.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if len(claim.LineItems) != 1 || len(claim.Documents) != 1 {
		t.Errorf("children = %d items, %d documents, want 1 each", len(claim.LineItems), len(claim.Documents))
	}
	if claim.TotalAmount() != 60 {
		t.Errorf("TotalAmount = %d, want 60", claim.TotalAmount())
	}
}

func TestReviewQueue_QueriesReviewStatuses(t *testing.T) {
	var requested []workflow.Status
	claims := &mockClaimRepo{
		listByStatusesFunc: func(ctx context.Context, statuses []workflow.Status) ([]*entity.Claim, error) {
			requested = statuses
			return nil, nil
		},
	}

	svc := newClaimService(claims, &mockLineItemRepo{}, &mockDocumentRepo{}, &mockBlobStorage{})
	if _, err := svc.ReviewQueue(context.Background()); err != nil {
		t.Fatalf("ReviewQueue returned error: %v", err)
	}

	want := map[workflow.Status]bool{
		workflow.StatusSubmitted:           true,
		workflow.StatusUnderReview:         true,
		workflow.StatusCoordinatorApproved: true,
		workflow.StatusCoordinatorRejected: true,
	}
	if len(requested) != len(want) {
		t.Fatalf("queried %d statuses, want %d", len(requested), len(want))
	}
	for _, s := range requested {
		if !want[s] {
			t.Errorf("unexpected status %s in review queue query", s)
		}
	}
}
