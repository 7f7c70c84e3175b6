package services

import (
	"testing"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

// Walks the whole paid-course lifecycle against one store: enroll, reach
// 100%, mint the certificate, see it in the user's listing and verify it.
func TestCompletionFlowIssuesListedCertificate(t *testing.T) {
	store, err := database.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	entitlements := NewEntitlementService(store)
	certificates := NewCertificateService(store)

	user, err := store.SignUp(database.SignUpInput{
		Email:     "grace@example.com",
		Password:  "secret-password",
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	enrollment, err := entitlements.Enroll(database.CreateEnrollmentParams{
		UserID:     user.ID,
		CourseID:   "web-development",
		CourseName: "Web Development",
		PaymentID:  "pay_flow",
		AmountPaid: 599,
	})
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	update, err := entitlements.RecordProgress(enrollment.ID, 100)
	if err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}
	if !update.JustCompleted {
		t.Fatal("expected JustCompleted on reaching 100%")
	}

	cert, err := certificates.Generate(user.ID, user.FullName(), update.Enrollment.CourseName, update.Enrollment.CourseID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if cert.StudentName != "Grace Hopper" {
		t.Errorf("unexpected student name: %q", cert.StudentName)
	}

	listed, err := certificates.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != cert.ID {
		t.Fatalf("expected the minted certificate in the listing, got %+v", listed)
	}

	valid, err := certificates.Verify(cert.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !valid {
		t.Error("the minted certificate must verify")
	}

	hasAccess, got, err := entitlements.HasAccess(user.ID, "web-development")
	if err != nil {
		t.Fatalf("HasAccess failed: %v", err)
	}
	if !hasAccess {
		t.Error("completed enrollment must keep access")
	}
	if got == nil || got.Status != model.EnrollmentStatusCompleted {
		t.Errorf("expected completed enrollment, got %+v", got)
	}
}
