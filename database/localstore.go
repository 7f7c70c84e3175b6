package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/learnsphere/academy-api/model"
)

// localNamespace prefixes every collection file, mirroring the namespaced
// keys the browser demo uses for its local storage.
const localNamespace = "learnsphere"

// LocalStore is the demo fallback Storage. Each collection lives in one JSON
// file holding the whole array; every write is a read-modify-write of the
// full collection. That snapshot model is only safe for a single writer —
// two processes sharing a data directory can lose updates. The mutex below
// serializes writers within this process, nothing guards across processes.
type LocalStore struct {
	mu  sync.Mutex
	dir string

	// Token revocation is kept in memory: the demo store has no durable
	// session security to protect, and entries expire with the token.
	revoked map[string]time.Time
}

// localSession is the current-session pointer persisted next to the
// collections.
type localSession struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// NewLocalStore opens (or creates) a file-backed store in dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		revoked: make(map[string]time.Time),
	}, nil
}

// Init seeds the course catalog when the collection is empty.
func (s *LocalStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courses []model.Course
	if err := s.readCollection("courses", &courses); err != nil {
		return err
	}
	if len(courses) > 0 {
		return nil
	}

	courses = SeedCourses()
	log.Printf("Seeding local store with %d catalog courses", len(courses))
	return s.writeCollection("courses", courses)
}

// Close is a no-op; every write already hits the filesystem.
func (s *LocalStore) Close() error {
	return nil
}

// HealthCheck verifies the data directory is writable.
func (s *LocalStore) HealthCheck() error {
	probe := filepath.Join(s.dir, "."+localNamespace+"_health")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// GetDB returns nil; there is no underlying database handle.
func (s *LocalStore) GetDB() interface{} {
	return nil
}

// ---------------------------------------------------------------------------
// Collection plumbing

func (s *LocalStore) collectionPath(name string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", localNamespace, name))
}

// readCollection loads a whole collection. A missing file is an empty
// collection, not an error.
func (s *LocalStore) readCollection(name string, dest interface{}) error {
	data, err := os.ReadFile(s.collectionPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// writeCollection snapshots a whole collection back to disk.
func (s *LocalStore) writeCollection(name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.collectionPath(name), data, 0o644)
}

func (s *LocalStore) writeSession(user *model.User) error {
	return s.writeCollection("session", localSession{ID: user.ID, Email: user.Email})
}

func nextUserID(users []model.User) uint {
	var max uint
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func nextEnrollmentID(enrollments []model.Enrollment) uint {
	var max uint
	for _, e := range enrollments {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// ---------------------------------------------------------------------------
// Users

// SignUp creates a user. Duplicate emails fail with ErrDuplicateUser unless
// the credential is the Google sentinel (OAuth linking), which returns the
// existing account.
func (s *LocalStore) SignUp(input SignUpInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []model.User
	if err := s.readCollection("users", &users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email == input.Email {
			if input.Password == model.GoogleAuthSentinel {
				existing := users[i]
				if err := s.writeSession(&existing); err != nil {
					return nil, err
				}
				return &existing, nil
			}
			return nil, ErrDuplicateUser
		}
	}

	now := time.Now().UTC()
	user := model.User{
		ID:         nextUserID(users),
		CreatedAt:  now,
		UpdatedAt:  now,
		Email:      input.Email,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		Phone:      input.Phone,
	}

	users = append(users, user)
	if err := s.writeCollection("users", users); err != nil {
		return nil, err
	}
	if err := s.writeSession(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// SignIn resolves a user by email. The demo store intentionally performs no
// password verification; it never holds real credentials.
func (s *LocalStore) SignIn(email, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []model.User
	if err := s.readCollection("users", &users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email == email {
			user := users[i]
			if err := s.writeSession(&user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// GetUserByID returns the user with the given id.
func (s *LocalStore) GetUserByID(id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []model.User
	if err := s.readCollection("users", &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			user := users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUserProfile updates mutable profile fields.
func (s *LocalStore) UpdateUserProfile(id uint, update ProfileUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []model.User
	if err := s.readCollection("users", &users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}
		if update.FirstName != nil {
			users[i].FirstName = *update.FirstName
		}
		if update.MiddleName != nil {
			users[i].MiddleName = *update.MiddleName
		}
		if update.LastName != nil {
			users[i].LastName = *update.LastName
		}
		if update.Phone != nil {
			users[i].Phone = *update.Phone
		}
		users[i].UpdatedAt = time.Now().UTC()

		if err := s.writeCollection("users", users); err != nil {
			return nil, err
		}
		user := users[i]
		return &user, nil
	}

	return nil, ErrNotFound
}

// ---------------------------------------------------------------------------
// Enrollments

// CreateEnrollment is idempotent per (user, course): an existing row wins.
func (s *LocalStore) CreateEnrollment(params CreateEnrollmentParams) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return nil, err
	}

	for i := range enrollments {
		if enrollments[i].UserID == params.UserID && enrollments[i].CourseID == params.CourseID {
			existing := enrollments[i]
			return &existing, nil
		}
	}

	enrollmentType := params.EnrollmentType
	if enrollmentType == "" {
		enrollmentType = model.EnrollmentTypeCourse
	}

	now := time.Now().UTC()
	enrollment := model.Enrollment{
		ID:             nextEnrollmentID(enrollments),
		UserID:         params.UserID,
		CourseID:       params.CourseID,
		CourseName:     params.CourseName,
		PaymentID:      params.PaymentID,
		EnrollmentType: enrollmentType,
		AmountPaid:     params.AmountPaid,
		EnrolledAt:     now,
		Status:         model.EnrollmentStatusActive,
		Progress:       0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	enrollments = append(enrollments, enrollment)
	if err := s.writeCollection("enrollments", enrollments); err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// GetUserEnrollments returns a user's enrollments, newest first (matching
// the remote backend's ordering).
func (s *LocalStore) GetUserEnrollments(userID uint) ([]model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return nil, err
	}

	result := make([]model.Enrollment, 0)
	for _, e := range enrollments {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EnrolledAt.Equal(result[j].EnrolledAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].EnrolledAt.After(result[j].EnrolledAt)
	})
	return result, nil
}

// GetEnrollmentByID returns the enrollment with the given id.
func (s *LocalStore) GetEnrollmentByID(id uint) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].ID == id {
			enrollment := enrollments[i]
			return &enrollment, nil
		}
	}
	return nil, ErrNotFound
}

// IsUserEnrolledInCourse reports course access through a matching row or any
// premium pass.
func (s *LocalStore) IsUserEnrolledInCourse(userID uint, courseID string) (bool, *model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return false, nil, err
	}

	hasPremium := false
	for i := range enrollments {
		if enrollments[i].UserID != userID {
			continue
		}
		if enrollments[i].CourseID == courseID {
			enrollment := enrollments[i]
			return true, &enrollment, nil
		}
		if enrollments[i].IsPremiumPass() {
			hasPremium = true
		}
	}
	return hasPremium, nil, nil
}

// UpdateEnrollmentProgress clamps progress and derives status; completion is
// sticky.
func (s *LocalStore) UpdateEnrollmentProgress(enrollmentID uint, progress int) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return nil, err
	}

	for i := range enrollments {
		if enrollments[i].ID != enrollmentID {
			continue
		}

		clamped := clampProgress(progress)
		enrollments[i].Progress = clamped
		if clamped == 100 {
			enrollments[i].Status = model.EnrollmentStatusCompleted
		} else if enrollments[i].Status != model.EnrollmentStatusCompleted {
			enrollments[i].Status = model.EnrollmentStatusActive
		}
		enrollments[i].UpdatedAt = time.Now().UTC()

		if err := s.writeCollection("enrollments", enrollments); err != nil {
			return nil, err
		}
		enrollment := enrollments[i]
		return &enrollment, nil
	}

	return nil, ErrNotFound
}

// HasPremiumPass reports whether the user holds any premium pass enrollment.
func (s *LocalStore) HasPremiumPass(userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []model.Enrollment
	if err := s.readCollection("enrollments", &enrollments); err != nil {
		return false, err
	}
	for i := range enrollments {
		if enrollments[i].UserID == userID && enrollments[i].IsPremiumPass() {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Certificates

// SaveCertificate appends the certificate to the collection.
func (s *LocalStore) SaveCertificate(cert *model.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var certs []model.Certificate
	if err := s.readCollection("certificates", &certs); err != nil {
		return err
	}
	certs = append(certs, *cert)
	return s.writeCollection("certificates", certs)
}

// GetCertificateByID returns the certificate with the given id.
func (s *LocalStore) GetCertificateByID(id string) (*model.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var certs []model.Certificate
	if err := s.readCollection("certificates", &certs); err != nil {
		return nil, err
	}
	for i := range certs {
		if certs[i].ID == id {
			cert := certs[i]
			return &cert, nil
		}
	}
	return nil, ErrNotFound
}

// GetCertificatesByCourse returns all certificates issued for a course.
func (s *LocalStore) GetCertificatesByCourse(courseID string) ([]model.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var certs []model.Certificate
	if err := s.readCollection("certificates", &certs); err != nil {
		return nil, err
	}
	result := make([]model.Certificate, 0)
	for _, c := range certs {
		if c.CourseID == courseID {
			result = append(result, c)
		}
	}
	return result, nil
}

// GetUserCertificates returns certificates issued to one user. The filter by
// user id is deliberate: without it, every certificate ever generated in a
// shared data directory would leak into the listing.
func (s *LocalStore) GetUserCertificates(userID uint) ([]model.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var certs []model.Certificate
	if err := s.readCollection("certificates", &certs); err != nil {
		return nil, err
	}
	result := make([]model.Certificate, 0)
	for _, c := range certs {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssuedAt.After(result[j].IssuedAt)
	})
	return result, nil
}

// ---------------------------------------------------------------------------
// Contact messages

// CreateContactMessage appends a contact form submission.
func (s *LocalStore) CreateContactMessage(msg *model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []model.ContactMessage
	if err := s.readCollection("contact_messages", &messages); err != nil {
		return err
	}

	var max uint
	for _, m := range messages {
		if m.ID > max {
			max = m.ID
		}
	}
	msg.ID = max + 1
	msg.CreatedAt = time.Now().UTC()

	messages = append(messages, *msg)
	return s.writeCollection("contact_messages", messages)
}

// ---------------------------------------------------------------------------
// Payments

// CreatePayment records a pending gateway order.
func (s *LocalStore) CreatePayment(payment *model.CoursePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []model.CoursePayment
	if err := s.readCollection("payments", &payments); err != nil {
		return err
	}

	var max uint
	for _, p := range payments {
		if p.ID > max {
			max = p.ID
		}
	}
	payment.ID = max + 1
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if payment.Status == "" {
		payment.Status = model.PaymentStatusPending
	}

	payments = append(payments, *payment)
	return s.writeCollection("payments", payments)
}

// GetPaymentByOrderID returns the payment with the given order id.
func (s *LocalStore) GetPaymentByOrderID(orderID string) (*model.CoursePayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []model.CoursePayment
	if err := s.readCollection("payments", &payments); err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].OrderID == orderID {
			payment := payments[i]
			return &payment, nil
		}
	}
	return nil, ErrNotFound
}

// CompletePayment marks a pending order completed.
func (s *LocalStore) CompletePayment(orderID, paymentID string, gatewayPayload []byte) (*model.CoursePayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []model.CoursePayment
	if err := s.readCollection("payments", &payments); err != nil {
		return nil, err
	}

	for i := range payments {
		if payments[i].OrderID != orderID {
			continue
		}
		payments[i].PaymentID = paymentID
		payments[i].Status = model.PaymentStatusCompleted
		if len(gatewayPayload) > 0 && json.Valid(gatewayPayload) {
			payments[i].GatewayPayload = gatewayPayload
		}
		payments[i].UpdatedAt = time.Now().UTC()

		if err := s.writeCollection("payments", payments); err != nil {
			return nil, err
		}
		payment := payments[i]
		return &payment, nil
	}

	return nil, ErrNotFound
}

// ---------------------------------------------------------------------------
// Course catalog

// ListCourses returns the seeded catalog.
func (s *LocalStore) ListCourses() ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courses []model.Course
	if err := s.readCollection("courses", &courses); err != nil {
		return nil, err
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

// GetCourseBySlug returns one catalog entry by slug.
func (s *LocalStore) GetCourseBySlug(slug string) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var courses []model.Course
	if err := s.readCollection("courses", &courses); err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].Slug == slug {
			course := courses[i]
			return &course, nil
		}
	}
	return nil, ErrNotFound
}

// ---------------------------------------------------------------------------
// Token revocation (in-memory for the demo store)

// RevokeToken remembers a token id until its expiry.
func (s *LocalStore) RevokeToken(jti string, userID uint, expiresAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

// IsTokenRevoked checks the in-memory revocation set.
func (s *LocalStore) IsTokenRevoked(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	return expiresAt.After(time.Now()), nil
}

// GetUserTokenVersion always returns 0; the demo store does not rotate
// token versions.
func (s *LocalStore) GetUserTokenVersion(userID uint) (int, error) {
	return 0, nil
}

// ---------------------------------------------------------------------------
// Maintenance

// CleanupExpiredTokens prunes expired entries from the revocation set.
func (s *LocalStore) CleanupExpiredTokens() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	now := time.Now()
	for jti, expiresAt := range s.revoked {
		if expiresAt.Before(now) {
			delete(s.revoked, jti)
			removed++
		}
	}
	return removed, nil
}

// ExpireStalePayments fails pending orders older than the given age.
func (s *LocalStore) ExpireStalePayments(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []model.CoursePayment
	if err := s.readCollection("payments", &payments); err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	var changed int64
	for i := range payments {
		if payments[i].Status == model.PaymentStatusPending && payments[i].CreatedAt.Before(cutoff) {
			payments[i].Status = model.PaymentStatusFailed
			payments[i].UpdatedAt = time.Now().UTC()
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.writeCollection("payments", payments)
}

// RecordCronRun is a no-op; job logs only matter on the remote backend.
func (s *LocalStore) RecordCronRun(entry *model.CronJobLog) error {
	return nil
}
