package database

import (
	"errors"
	"testing"
	"time"

	"github.com/learnsphere/academy-api/model"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestLocalStoreSignUpDuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	input := SignUpInput{
		Email:     "alice@example.com",
		Password:  "secret-password",
		FirstName: "Alice",
		LastName:  "Smith",
		Phone:     "1234567890",
	}

	user, err := store.SignUp(input)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a non-zero user id")
	}

	_, err = store.SignUp(input)
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if err.Error() != "User already exists with this email" {
		t.Errorf("unexpected duplicate error message: %q", err.Error())
	}
}

func TestLocalStoreSignUpGoogleLinksExistingAccount(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SignUp(SignUpInput{
		Email:     "bob@example.com",
		Password:  "secret-password",
		FirstName: "Bob",
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	linked, err := store.SignUp(SignUpInput{
		Email:     "bob@example.com",
		Password:  model.GoogleAuthSentinel,
		FirstName: "Robert",
	})
	if err != nil {
		t.Fatalf("OAuth re-signup failed: %v", err)
	}
	if linked.ID != first.ID {
		t.Errorf("expected existing account %d, got %d", first.ID, linked.ID)
	}
	if linked.FirstName != "Bob" {
		t.Errorf("linking must not overwrite the profile, got first name %q", linked.FirstName)
	}
}

func TestLocalStoreSignIn(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.SignUp(SignUpInput{Email: "carol@example.com", Password: "pw", FirstName: "Carol"}); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	user, err := store.SignIn("carol@example.com", "anything")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Errorf("unexpected user: %q", user.Email)
	}

	_, err = store.SignIn("nobody@example.com", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLocalStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	user, err := store.SignUp(SignUpInput{Email: "dave@example.com", Password: "pw", FirstName: "Dave"})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, err := store.CreateEnrollment(CreateEnrollmentParams{
		UserID:     user.ID,
		CourseID:   "web-development",
		CourseName: "Web Development",
	}); err != nil {
		t.Fatalf("CreateEnrollment failed: %v", err)
	}

	reopened, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID after reopen failed: %v", err)
	}
	if got.Email != "dave@example.com" {
		t.Errorf("unexpected user after reopen: %q", got.Email)
	}
	enrollments, err := reopened.GetUserEnrollments(user.ID)
	if err != nil {
		t.Fatalf("GetUserEnrollments after reopen failed: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("expected 1 enrollment after reopen, got %d", len(enrollments))
	}
}

func TestLocalStoreEnrollmentIdempotent(t *testing.T) {
	store := newTestStore(t)

	params := CreateEnrollmentParams{
		UserID:     7,
		CourseID:   "data-science",
		CourseName: "Data Science",
		PaymentID:  "pay_1",
	}

	first, err := store.CreateEnrollment(params)
	if err != nil {
		t.Fatalf("CreateEnrollment failed: %v", err)
	}

	params.PaymentID = "pay_2"
	second, err := store.CreateEnrollment(params)
	if err != nil {
		t.Fatalf("second CreateEnrollment failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected existing enrollment %d, got %d", first.ID, second.ID)
	}
	if second.PaymentID != "pay_1" {
		t.Errorf("re-enrollment must not overwrite the original grant, got payment id %q", second.PaymentID)
	}

	enrollments, err := store.GetUserEnrollments(7)
	if err != nil {
		t.Fatalf("GetUserEnrollments failed: %v", err)
	}
	if len(enrollments) != 1 {
		t.Fatalf("expected exactly 1 enrollment, got %d", len(enrollments))
	}
}

func TestLocalStoreEnrollmentsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for _, course := range []string{"web-development", "data-science", "ui-ux-design"} {
		if _, err := store.CreateEnrollment(CreateEnrollmentParams{
			UserID:   1,
			CourseID: course,
		}); err != nil {
			t.Fatalf("CreateEnrollment(%s) failed: %v", course, err)
		}
	}

	enrollments, err := store.GetUserEnrollments(1)
	if err != nil {
		t.Fatalf("GetUserEnrollments failed: %v", err)
	}
	if len(enrollments) != 3 {
		t.Fatalf("expected 3 enrollments, got %d", len(enrollments))
	}
	for i := 1; i < len(enrollments); i++ {
		prev, cur := enrollments[i-1], enrollments[i]
		if cur.EnrolledAt.After(prev.EnrolledAt) {
			t.Errorf("enrollments out of order at %d: %v before %v", i, prev.EnrolledAt, cur.EnrolledAt)
		}
		if cur.EnrolledAt.Equal(prev.EnrolledAt) && cur.ID > prev.ID {
			t.Errorf("tie-break out of order at %d: id %d before %d", i, prev.ID, cur.ID)
		}
	}
}

func TestLocalStorePremiumPassGrantsAccess(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.CreateEnrollment(CreateEnrollmentParams{
		UserID:         3,
		CourseID:       model.PremiumPassCourseID,
		CourseName:     "Premium Pass",
		EnrollmentType: model.EnrollmentTypePremiumPass,
	}); err != nil {
		t.Fatalf("CreateEnrollment failed: %v", err)
	}

	hasAccess, enrollment, err := store.IsUserEnrolledInCourse(3, "cloud-engineering")
	if err != nil {
		t.Fatalf("IsUserEnrolledInCourse failed: %v", err)
	}
	if !hasAccess {
		t.Error("premium pass holder should have access to any course")
	}
	if enrollment != nil {
		t.Error("pass access should not materialize a per-course enrollment")
	}

	hasPass, err := store.HasPremiumPass(3)
	if err != nil {
		t.Fatalf("HasPremiumPass failed: %v", err)
	}
	if !hasPass {
		t.Error("expected HasPremiumPass to report true")
	}

	otherAccess, _, err := store.IsUserEnrolledInCourse(4, "cloud-engineering")
	if err != nil {
		t.Fatalf("IsUserEnrolledInCourse failed: %v", err)
	}
	if otherAccess {
		t.Error("a different user must not inherit the pass")
	}
}

func TestLocalStoreProgressClampedAndSticky(t *testing.T) {
	store := newTestStore(t)

	enrollment, err := store.CreateEnrollment(CreateEnrollmentParams{UserID: 1, CourseID: "web-development"})
	if err != nil {
		t.Fatalf("CreateEnrollment failed: %v", err)
	}

	got, err := store.UpdateEnrollmentProgress(enrollment.ID, 150)
	if err != nil {
		t.Fatalf("UpdateEnrollmentProgress failed: %v", err)
	}
	if got.Progress != 100 {
		t.Errorf("expected progress clamped to 100, got %d", got.Progress)
	}
	if got.Status != model.EnrollmentStatusCompleted {
		t.Errorf("expected status completed at 100%%, got %q", got.Status)
	}

	got, err = store.UpdateEnrollmentProgress(enrollment.ID, -20)
	if err != nil {
		t.Fatalf("UpdateEnrollmentProgress failed: %v", err)
	}
	if got.Progress != 0 {
		t.Errorf("expected progress clamped to 0, got %d", got.Progress)
	}
	if got.Status != model.EnrollmentStatusCompleted {
		t.Errorf("completion must be sticky, got status %q", got.Status)
	}

	if _, err := store.UpdateEnrollmentProgress(9999, 50); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown enrollment, got %v", err)
	}
}

func TestLocalStoreCertificatesScopedToUser(t *testing.T) {
	store := newTestStore(t)

	certs := []model.Certificate{
		{ID: "CERT-A", UserID: 1, CourseID: "web-development", StudentName: "Alice", IssuedAt: time.Now().UTC()},
		{ID: "CERT-B", UserID: 2, CourseID: "web-development", StudentName: "Bob", IssuedAt: time.Now().UTC()},
		{ID: "CERT-C", UserID: 1, CourseID: "data-science", StudentName: "Alice", IssuedAt: time.Now().UTC()},
	}
	for i := range certs {
		if err := store.SaveCertificate(&certs[i]); err != nil {
			t.Fatalf("SaveCertificate failed: %v", err)
		}
	}

	mine, err := store.GetUserCertificates(1)
	if err != nil {
		t.Fatalf("GetUserCertificates failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 certificates for user 1, got %d", len(mine))
	}
	for _, c := range mine {
		if c.UserID != 1 {
			t.Errorf("certificate %s belongs to user %d, leaked into user 1's listing", c.ID, c.UserID)
		}
	}

	byCourse, err := store.GetCertificatesByCourse("web-development")
	if err != nil {
		t.Fatalf("GetCertificatesByCourse failed: %v", err)
	}
	if len(byCourse) != 2 {
		t.Fatalf("expected 2 certificates for course, got %d", len(byCourse))
	}
}

func TestLocalStorePaymentLifecycle(t *testing.T) {
	store := newTestStore(t)

	payment := &model.CoursePayment{
		UserID:     1,
		OrderID:    "order_abc",
		CourseID:   "web-development",
		CourseName: "Web Development",
		Amount:     599,
	}
	if err := store.CreatePayment(payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.Status != model.PaymentStatusPending {
		t.Errorf("new payment should be pending, got %q", payment.Status)
	}

	completed, err := store.CompletePayment("order_abc", "pay_xyz", []byte(`{"gateway":"test"}`))
	if err != nil {
		t.Fatalf("CompletePayment failed: %v", err)
	}
	if completed.Status != model.PaymentStatusCompleted {
		t.Errorf("expected completed status, got %q", completed.Status)
	}
	if completed.PaymentID != "pay_xyz" {
		t.Errorf("expected payment id recorded, got %q", completed.PaymentID)
	}

	if _, err := store.CompletePayment("order_missing", "pay_1", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown order, got %v", err)
	}
}

func TestLocalStoreExpireStalePayments(t *testing.T) {
	store := newTestStore(t)

	stale := &model.CoursePayment{UserID: 1, OrderID: "order_old", CourseID: "web-development"}
	if err := store.CreatePayment(stale); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	fresh := &model.CoursePayment{UserID: 1, OrderID: "order_new", CourseID: "data-science"}
	if err := store.CreatePayment(fresh); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	// Both rows were just written, so only a zero cutoff can catch them.
	expired, err := store.ExpireStalePayments(-time.Minute)
	if err != nil {
		t.Fatalf("ExpireStalePayments failed: %v", err)
	}
	if expired != 2 {
		t.Errorf("expected 2 expired payments, got %d", expired)
	}

	got, err := store.GetPaymentByOrderID("order_old")
	if err != nil {
		t.Fatalf("GetPaymentByOrderID failed: %v", err)
	}
	if got.Status != model.PaymentStatusFailed {
		t.Errorf("expected failed status, got %q", got.Status)
	}
}

func TestLocalStoreTokenRevocation(t *testing.T) {
	store := newTestStore(t)

	if err := store.RevokeToken("jti-1", 1, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}
	if err := store.RevokeToken("jti-2", 1, time.Now().Add(-time.Hour), "logout"); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	revoked, err := store.IsTokenRevoked("jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if !revoked {
		t.Error("expected jti-1 to be revoked")
	}

	expired, err := store.IsTokenRevoked("jti-2")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if expired {
		t.Error("an already expired token should not count as revoked")
	}

	removed, err := store.CleanupExpiredTokens()
	if err != nil {
		t.Fatalf("CleanupExpiredTokens failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned entry, got %d", removed)
	}
}

func TestLocalStoreCatalogSeeded(t *testing.T) {
	store := newTestStore(t)

	courses, err := store.ListCourses()
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) == 0 {
		t.Fatal("expected a seeded course catalog")
	}

	course, err := store.GetCourseBySlug("web-development")
	if err != nil {
		t.Fatalf("GetCourseBySlug failed: %v", err)
	}
	if course.Price <= 0 {
		t.Errorf("expected a positive catalog price, got %v", course.Price)
	}

	if _, err := store.GetCourseBySlug("no-such-course"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
