package services

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

func newTestCertificates(t *testing.T) *CertificateService {
	t.Helper()
	store, err := database.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return NewCertificateService(store)
}

var certIDPattern = regexp.MustCompile(`^CERT-[0-9A-Z]+-[0-9A-Z]+$`)

func TestNewCertificateIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCertificateID()
		if !certIDPattern.MatchString(id) {
			t.Fatalf("malformed certificate id: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate certificate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestGenerateAndLookup(t *testing.T) {
	svc := newTestCertificates(t)

	cert, err := svc.Generate(1, "Alice Smith", "Web Development", "web-development")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if cert.StudentName != "Alice Smith" {
		t.Errorf("unexpected student name: %q", cert.StudentName)
	}
	if cert.CompletionDate.IsZero() || cert.IssuedAt.IsZero() {
		t.Error("expected completion and issue dates to be set")
	}

	got, err := svc.GetByID(cert.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CourseID != "web-development" {
		t.Errorf("unexpected course id: %q", got.CourseID)
	}

	valid, err := svc.Verify(cert.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !valid {
		t.Error("a freshly issued certificate must verify")
	}

	valid, err = svc.Verify("CERT-UNKNOWN-ID")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("an unknown id must not verify")
	}
}

func TestListForUserAndByCourse(t *testing.T) {
	svc := newTestCertificates(t)

	if _, err := svc.Generate(1, "Alice Smith", "Web Development", "web-development"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(2, "Bob Jones", "Web Development", "web-development"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(1, "Alice Smith", "Data Science", "data-science"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mine, err := svc.ListForUser(1)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 certificates for user 1, got %d", len(mine))
	}

	byCourse, err := svc.GetByCourse("web-development")
	if err != nil {
		t.Fatalf("GetByCourse failed: %v", err)
	}
	if len(byCourse) != 2 {
		t.Fatalf("expected 2 certificates for course, got %d", len(byCourse))
	}
}

func TestFormatForSharing(t *testing.T) {
	svc := newTestCertificates(t)

	cert := &model.Certificate{
		ID:             "CERT-TEST-123",
		StudentName:    "Alice Smith",
		CourseName:     "Web Development",
		CourseID:       "web-development",
		CompletionDate: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	}

	text := svc.FormatForSharing(cert)

	want := "🎓 I've successfully completed the Web Development course and earned my certificate!\n\n" +
		"📅 Completed: March 15, 2026\n" +
		"🆔 Certificate ID: CERT-TEST-123\n" +
		"🏫 Issued by: LearnSphere Academy\n\n" +
		"#LearnSphereAcademy #OnlineLearning #Certificate #WebDevelopment"
	if text != want {
		t.Errorf("share text mismatch:\ngot:  %q\nwant: %q", text, want)
	}

	if strings.Contains(text, "#Web Development") {
		t.Error("hashtags must not contain spaces")
	}
}
