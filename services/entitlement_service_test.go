package services

import (
	"errors"
	"testing"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

func newTestEntitlements(t *testing.T) *EntitlementService {
	t.Helper()
	store, err := database.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return NewEntitlementService(store)
}

func TestEnrollIdempotent(t *testing.T) {
	svc := newTestEntitlements(t)

	params := database.CreateEnrollmentParams{
		UserID:     1,
		CourseID:   "web-development",
		CourseName: "Web Development",
		PaymentID:  "pay_first",
		AmountPaid: 599,
	}

	first, err := svc.Enroll(params)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	params.PaymentID = "pay_second"
	second, err := svc.Enroll(params)
	if err != nil {
		t.Fatalf("re-Enroll failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the existing grant %d, got %d", first.ID, second.ID)
	}

	enrollments, err := svc.ListEnrollments(1)
	if err != nil {
		t.Fatalf("ListEnrollments failed: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(enrollments))
	}
}

func TestHasAccessThroughPremiumPass(t *testing.T) {
	svc := newTestEntitlements(t)

	if _, err := svc.Enroll(database.CreateEnrollmentParams{
		UserID:         5,
		CourseID:       model.PremiumPassCourseID,
		CourseName:     "Premium Pass",
		EnrollmentType: model.EnrollmentTypePremiumPass,
	}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	hasAccess, enrollment, err := svc.HasAccess(5, "data-science")
	if err != nil {
		t.Fatalf("HasAccess failed: %v", err)
	}
	if !hasAccess {
		t.Error("pass holder should have access to any course")
	}
	if enrollment != nil {
		t.Error("pass access should not return a per-course enrollment")
	}

	hasAccess, _, err = svc.HasAccess(5, model.PremiumPassCourseID)
	if err != nil {
		t.Fatalf("HasAccess failed: %v", err)
	}
	if !hasAccess {
		t.Error("pass holder should see the pass itself as accessible")
	}
}

func TestRecordProgressReportsCompletionOnce(t *testing.T) {
	svc := newTestEntitlements(t)

	enrollment, err := svc.Enroll(database.CreateEnrollmentParams{
		UserID:     1,
		CourseID:   "web-development",
		CourseName: "Web Development",
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	update, err := svc.RecordProgress(enrollment.ID, 40)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if update.JustCompleted {
		t.Error("40%% must not report completion")
	}
	if update.Enrollment.Status != model.EnrollmentStatusActive {
		t.Errorf("expected active status, got %q", update.Enrollment.Status)
	}

	update, err = svc.RecordProgress(enrollment.ID, 100)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if !update.JustCompleted {
		t.Error("reaching 100%% should report JustCompleted")
	}

	// A second write at 100 keeps the status but must not re-trigger
	// certificate issuance.
	update, err = svc.RecordProgress(enrollment.ID, 100)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if update.JustCompleted {
		t.Error("repeated completion must not report JustCompleted again")
	}

	// Progress may drop afterwards; completion stays.
	update, err = svc.RecordProgress(enrollment.ID, 30)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if update.Enrollment.Progress != 30 {
		t.Errorf("expected progress 30, got %d", update.Enrollment.Progress)
	}
	if update.Enrollment.Status != model.EnrollmentStatusCompleted {
		t.Errorf("completion must be sticky, got %q", update.Enrollment.Status)
	}
	if update.JustCompleted {
		t.Error("a drop below 100 must not report completion")
	}
}

func TestRecordProgressClampsOutOfRange(t *testing.T) {
	svc := newTestEntitlements(t)

	enrollment, err := svc.Enroll(database.CreateEnrollmentParams{UserID: 1, CourseID: "ui-ux-design"})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	update, err := svc.RecordProgress(enrollment.ID, 250)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if update.Enrollment.Progress != 100 {
		t.Errorf("expected clamp to 100, got %d", update.Enrollment.Progress)
	}
	if !update.JustCompleted {
		t.Error("clamped 100 should still count as completion")
	}

	update, err = svc.RecordProgress(enrollment.ID, -5)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if update.Enrollment.Progress != 0 {
		t.Errorf("expected clamp to 0, got %d", update.Enrollment.Progress)
	}
}

func TestRecordProgressUnknownEnrollment(t *testing.T) {
	svc := newTestEntitlements(t)

	if _, err := svc.RecordProgress(42, 50); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected database.ErrNotFound, got %v", err)
	}
}
