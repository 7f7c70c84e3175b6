package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

// IssuerName appears on certificates and in the share text.
const IssuerName = "LearnSphere Academy"

// certIDRandomSpace bounds the random suffix (36^6, six base36 digits).
const certIDRandomSpace = 2176782336

// CertificateService mints and looks up proof-of-completion records.
type CertificateService struct {
	store database.Storage
}

// NewCertificateService creates a new certificate service
func NewCertificateService(store database.Storage) *CertificateService {
	return &CertificateService{store: store}
}

// NewCertificateID builds an identifier from a base36 millisecond timestamp
// and a short random base36 suffix, uppercased. Uniqueness rests on the
// timestamp plus randomness; there is no registry check.
func NewCertificateID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strconv.FormatInt(rand.Int63n(certIDRandomSpace), 36)
	return strings.ToUpper(fmt.Sprintf("CERT-%s-%s", ts, suffix))
}

// Generate mints a certificate and appends it to the store. Construction
// cannot fail; only the store write can.
func (s *CertificateService) Generate(userID uint, studentName, courseName, courseID string) (*model.Certificate, error) {
	now := time.Now().UTC()
	cert := &model.Certificate{
		ID:             NewCertificateID(),
		UserID:         userID,
		StudentName:    studentName,
		CourseName:     courseName,
		CourseID:       courseID,
		CompletionDate: now,
		IssuedAt:       now,
	}

	if err := s.store.SaveCertificate(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// GetByID returns one certificate, or database.ErrNotFound.
func (s *CertificateService) GetByID(id string) (*model.Certificate, error) {
	return s.store.GetCertificateByID(id)
}

// GetByCourse returns every certificate issued for a course.
func (s *CertificateService) GetByCourse(courseID string) ([]model.Certificate, error) {
	return s.store.GetCertificatesByCourse(courseID)
}

// ListForUser returns the certificates issued to one user.
func (s *CertificateService) ListForUser(userID uint) ([]model.Certificate, error) {
	return s.store.GetUserCertificates(userID)
}

// Verify reports whether a certificate with that id exists.
func (s *CertificateService) Verify(id string) (bool, error) {
	_, err := s.store.GetCertificateByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FormatForSharing renders the clipboard/share-target text for a
// certificate. The template is stable; clients depend on it verbatim.
func (s *CertificateService) FormatForSharing(cert *model.Certificate) string {
	issuerTag := strings.Join(strings.Fields(IssuerName), "")
	courseTag := strings.Join(strings.Fields(cert.CourseName), "")

	return fmt.Sprintf(
		"🎓 I've successfully completed the %s course and earned my certificate!\n\n"+
			"📅 Completed: %s\n"+
			"🆔 Certificate ID: %s\n"+
			"🏫 Issued by: %s\n\n"+
			"#%s #OnlineLearning #Certificate #%s",
		cert.CourseName,
		cert.CompletionDate.Format("January 2, 2006"),
		cert.ID,
		IssuerName,
		issuerTag,
		courseTag,
	)
}
