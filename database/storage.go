package database

import (
	"log"
	"time"

	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/model"
)

// SignUpInput carries profile fields and the raw credential for account
// creation. When Password is model.GoogleAuthSentinel, a duplicate email is
// treated as an OAuth linking flow and the existing user is returned.
type SignUpInput struct {
	Email      string
	Password   string
	FirstName  string
	MiddleName string
	LastName   string
	Phone      string
}

// ProfileUpdate holds the mutable profile fields. Nil pointers are left
// untouched.
type ProfileUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Phone      *string
}

// CreateEnrollmentParams describes the access grant a verified payment
// produced.
type CreateEnrollmentParams struct {
	UserID         uint
	CourseID       string
	CourseName     string
	PaymentID      string
	EnrollmentType string
	AmountPaid     float64
}

// Storage is the persistence shim fronting either the remote PostgreSQL
// backend or the local file-backed demo store. Exactly one implementation is
// selected at startup and injected into every consumer.
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() interface{}

	// Users
	SignUp(input SignUpInput) (*model.User, error)
	SignIn(email, password string) (*model.User, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateUserProfile(id uint, update ProfileUpdate) (*model.User, error)

	// Enrollments. CreateEnrollment is idempotent per (user, course): a
	// second call returns the existing row instead of creating a duplicate.
	CreateEnrollment(params CreateEnrollmentParams) (*model.Enrollment, error)
	GetUserEnrollments(userID uint) ([]model.Enrollment, error)
	GetEnrollmentByID(id uint) (*model.Enrollment, error)
	IsUserEnrolledInCourse(userID uint, courseID string) (bool, *model.Enrollment, error)
	UpdateEnrollmentProgress(enrollmentID uint, progress int) (*model.Enrollment, error)
	HasPremiumPass(userID uint) (bool, error)

	// Certificates (append-only)
	SaveCertificate(cert *model.Certificate) error
	GetCertificateByID(id string) (*model.Certificate, error)
	GetCertificatesByCourse(courseID string) ([]model.Certificate, error)
	GetUserCertificates(userID uint) ([]model.Certificate, error)

	// Contact messages (append-only)
	CreateContactMessage(msg *model.ContactMessage) error

	// Payments
	CreatePayment(payment *model.CoursePayment) error
	GetPaymentByOrderID(orderID string) (*model.CoursePayment, error)
	CompletePayment(orderID, paymentID string, gatewayPayload []byte) (*model.CoursePayment, error)

	// Course catalog
	ListCourses() ([]model.Course, error)
	GetCourseBySlug(slug string) (*model.Course, error)

	// Token revocation
	RevokeToken(jti string, userID uint, expiresAt time.Time, reason string) error
	IsTokenRevoked(jti string) (bool, error)
	GetUserTokenVersion(userID uint) (int, error)

	// Maintenance (cron jobs)
	CleanupExpiredTokens() (int64, error)
	ExpireStalePayments(olderThan time.Duration) (int64, error)
	RecordCronRun(entry *model.CronJobLog) error
}

// SelectStore picks the backend once, at process start. Remote configuration
// that is present and non-placeholder selects PostgreSQL; anything else runs
// the local demo store so the app works without a database.
func SelectStore(env *config.EnviornmentVariable) (Storage, error) {
	if env.UseRemoteStore() {
		log.Println("Database configuration found, using PostgreSQL backend")
		return StartGORM(env)
	}

	log.Println("No database configuration, using local demo store at", env.DATA_DIR)
	return NewLocalStore(env.DATA_DIR)
}
