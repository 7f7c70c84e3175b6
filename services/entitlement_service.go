package services

import (
	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/model"
)

// EntitlementService translates verified payments into durable course access
// and tracks consumption. It trusts the payment layer's success signal; it
// performs no gateway verification of its own.
type EntitlementService struct {
	store database.Storage
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(store database.Storage) *EntitlementService {
	return &EntitlementService{store: store}
}

// ProgressUpdate is the result of a progress write. JustCompleted is true
// only on the call that transitioned the enrollment to completed, so the
// caller can chain certificate issuance exactly once.
type ProgressUpdate struct {
	Enrollment    *model.Enrollment `json:"enrollment"`
	JustCompleted bool              `json:"just_completed"`
}

// Enroll grants access for a paid course or premium pass. The underlying
// create is idempotent per (user, course); re-enrolling returns the existing
// grant unchanged.
func (s *EntitlementService) Enroll(params database.CreateEnrollmentParams) (*model.Enrollment, error) {
	return s.store.CreateEnrollment(params)
}

// HasAccess reports whether the user may consume the course, either through
// a course enrollment or a premium pass. The pass is a standing override; no
// per-course rows are materialized for it.
func (s *EntitlementService) HasAccess(userID uint, courseID string) (bool, *model.Enrollment, error) {
	return s.store.IsUserEnrolledInCourse(userID, courseID)
}

// ListEnrollments returns the user's enrollments, newest first.
func (s *EntitlementService) ListEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.store.GetUserEnrollments(userID)
}

// GetEnrollment returns one enrollment by id.
func (s *EntitlementService) GetEnrollment(id uint) (*model.Enrollment, error) {
	return s.store.GetEnrollmentByID(id)
}

// RecordProgress writes a clamped progress value and reports whether this
// call completed the enrollment. Out-of-range values are clamped, never
// rejected; an unknown enrollment id fails with database.ErrNotFound.
func (s *EntitlementService) RecordProgress(enrollmentID uint, progress int) (*ProgressUpdate, error) {
	before, err := s.store.GetEnrollmentByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	wasCompleted := before.Status == model.EnrollmentStatusCompleted

	enrollment, err := s.store.UpdateEnrollmentProgress(enrollmentID, progress)
	if err != nil {
		return nil, err
	}

	return &ProgressUpdate{
		Enrollment:    enrollment,
		JustCompleted: !wasCompleted && enrollment.Status == model.EnrollmentStatusCompleted,
	}, nil
}
