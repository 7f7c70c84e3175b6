package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // preflight ping driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/model"
	"github.com/learnsphere/academy-api/utils/auth"
)

// GORMStore is the remote-backed Storage implementation on PostgreSQL.
type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnviornmentVariable) (*GORMStore, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	// Preflight ping so a down database fails fast with a readable error
	// instead of surfacing through GORM's first query.
	if err := preflightPing(dsn); err != nil {
		log.Println("PostgreSQL preflight ping failed:", err)
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Info)
	if env.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true, // map unique violations to gorm.ErrDuplicatedKey
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

func preflightPing(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Ping()
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Certificate{},
		&model.CoursePayment{},
		&model.ContactMessage{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	)
	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetDB returns the GORM DB instance for use in handlers that need it
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// ---------------------------------------------------------------------------
// Users

// SignUp creates a user account. A duplicate email fails with
// ErrDuplicateUser unless the credential is the Google sentinel, in which
// case the existing account is returned so repeat OAuth logins stay
// idempotent.
func (s *GORMStore) SignUp(input SignUpInput) (*model.User, error) {
	var existing model.User
	err := s.db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		if input.Password == model.GoogleAuthSentinel {
			return &existing, nil
		}
		return nil, ErrDuplicateUser
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// OAuth-created accounts carry no password; password login stays
	// disabled for them until the user sets one.
	passwordHash := ""
	if input.Password != model.GoogleAuthSentinel {
		passwordHash, err = auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
	}

	user := model.User{
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		MiddleName:   input.MiddleName,
		LastName:     input.LastName,
		Phone:        input.Phone,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return &user, nil
}

// SignIn verifies credentials and returns the matching user.
func (s *GORMStore) SignIn(email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID returns the user with the given id.
func (s *GORMStore) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile updates the mutable profile fields of a user.
func (s *GORMStore) UpdateUserProfile(id uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.FirstName != nil {
		changes["first_name"] = *update.FirstName
	}
	if update.MiddleName != nil {
		changes["middle_name"] = *update.MiddleName
	}
	if update.LastName != nil {
		changes["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		changes["phone"] = *update.Phone
	}

	if len(changes) > 0 {
		if err := s.db.Model(user).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return user, nil
}

// ---------------------------------------------------------------------------
// Enrollments

// CreateEnrollment enforces the at-most-one-per-(user,course) invariant: an
// existing row is returned as-is. The check-then-insert is not transactional,
// so a concurrent double submit is caught again on the unique index.
func (s *GORMStore) CreateEnrollment(params CreateEnrollmentParams) (*model.Enrollment, error) {
	var existing model.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", params.UserID, params.CourseID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollmentType := params.EnrollmentType
	if enrollmentType == "" {
		enrollmentType = model.EnrollmentTypeCourse
	}

	enrollment := model.Enrollment{
		UserID:         params.UserID,
		CourseID:       params.CourseID,
		CourseName:     params.CourseName,
		PaymentID:      params.PaymentID,
		EnrollmentType: enrollmentType,
		AmountPaid:     params.AmountPaid,
		EnrolledAt:     time.Now().UTC(),
		Status:         model.EnrollmentStatusActive,
		Progress:       0,
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race; return the winner's row
			if err2 := s.db.Where("user_id = ? AND course_id = ?", params.UserID, params.CourseID).
				First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &enrollment, nil
}

// GetUserEnrollments returns a user's enrollments, newest first.
func (s *GORMStore) GetUserEnrollments(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := s.db.Where("user_id = ?", userID).
		Order("enrolled_at DESC, id DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// GetEnrollmentByID returns the enrollment with the given id.
func (s *GORMStore) GetEnrollmentByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := s.db.First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// IsUserEnrolledInCourse reports whether the user may access the course,
// either through a matching row or through any premium pass.
func (s *GORMStore) IsUserEnrolledInCourse(userID uint, courseID string) (bool, *model.Enrollment, error) {
	var enrollment model.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err == nil {
		return true, &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, err
	}

	hasPremium, err := s.HasPremiumPass(userID)
	if err != nil {
		return false, nil, err
	}
	return hasPremium, nil, nil
}

// UpdateEnrollmentProgress clamps progress to [0,100] and derives status.
// Completion is sticky: once completed, lowering progress does not flip the
// enrollment back to active.
func (s *GORMStore) UpdateEnrollmentProgress(enrollmentID uint, progress int) (*model.Enrollment, error) {
	enrollment, err := s.GetEnrollmentByID(enrollmentID)
	if err != nil {
		return nil, err
	}

	clamped := clampProgress(progress)
	status := enrollment.Status
	if clamped == 100 {
		status = model.EnrollmentStatusCompleted
	} else if status != model.EnrollmentStatusCompleted {
		status = model.EnrollmentStatusActive
	}

	err = s.db.Model(enrollment).Updates(map[string]interface{}{
		"progress": clamped,
		"status":   status,
	}).Error
	if err != nil {
		return nil, err
	}

	enrollment.Progress = clamped
	enrollment.Status = status
	return enrollment, nil
}

// HasPremiumPass reports whether the user holds any premium pass enrollment.
func (s *GORMStore) HasPremiumPass(userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND enrollment_type = ?", userID, model.EnrollmentTypePremiumPass).
		Count(&count).Error
	return count > 0, err
}

// ---------------------------------------------------------------------------
// Certificates

// SaveCertificate appends a certificate row. Certificates are immutable, so
// this is the only write path.
func (s *GORMStore) SaveCertificate(cert *model.Certificate) error {
	return s.db.Create(cert).Error
}

// GetCertificateByID returns the certificate with the given id.
func (s *GORMStore) GetCertificateByID(id string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// GetCertificatesByCourse returns all certificates issued for a course.
func (s *GORMStore) GetCertificatesByCourse(courseID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := s.db.Where("course_id = ?", courseID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// GetUserCertificates returns certificates issued to one user, newest first.
func (s *GORMStore) GetUserCertificates(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := s.db.Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// ---------------------------------------------------------------------------
// Contact messages

// CreateContactMessage appends a contact form submission.
func (s *GORMStore) CreateContactMessage(msg *model.ContactMessage) error {
	return s.db.Create(msg).Error
}

// ---------------------------------------------------------------------------
// Payments

// CreatePayment records a pending gateway order.
func (s *GORMStore) CreatePayment(payment *model.CoursePayment) error {
	return s.db.Create(payment).Error
}

// GetPaymentByOrderID returns the payment with the given order id.
func (s *GORMStore) GetPaymentByOrderID(orderID string) (*model.CoursePayment, error) {
	var payment model.CoursePayment
	if err := s.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// CompletePayment marks a pending order completed and stores the raw gateway
// callback body for audits.
func (s *GORMStore) CompletePayment(orderID, paymentID string, gatewayPayload []byte) (*model.CoursePayment, error) {
	payment, err := s.GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{
		"payment_id": paymentID,
		"status":     model.PaymentStatusCompleted,
	}
	if len(gatewayPayload) > 0 && json.Valid(gatewayPayload) {
		changes["gateway_payload"] = gatewayPayload
	}

	if err := s.db.Model(payment).Updates(changes).Error; err != nil {
		return nil, err
	}

	payment.PaymentID = paymentID
	payment.Status = model.PaymentStatusCompleted
	return payment, nil
}

// ---------------------------------------------------------------------------
// Course catalog

// ListCourses returns the full catalog.
func (s *GORMStore) ListCourses() ([]model.Course, error) {
	var courses []model.Course
	err := s.db.Order("name ASC").Find(&courses).Error
	return courses, err
}

// GetCourseBySlug returns one catalog entry by slug.
func (s *GORMStore) GetCourseBySlug(slug string) (*model.Course, error) {
	var course model.Course
	if err := s.db.Where("slug = ?", slug).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ---------------------------------------------------------------------------
// Token revocation

// RevokeToken blacklists a token id until its natural expiry.
func (s *GORMStore) RevokeToken(jti string, userID uint, expiresAt time.Time, reason string) error {
	entry := model.JWTTokenBlacklist{
		Token:     jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}
	return s.db.Create(&entry).Error
}

// IsTokenRevoked checks whether a token id is blacklisted.
func (s *GORMStore) IsTokenRevoked(jti string) (bool, error) {
	var count int64
	err := s.db.Model(&model.JWTTokenBlacklist{}).
		Where("token = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserTokenVersion returns the current token version for a user.
func (s *GORMStore) GetUserTokenVersion(userID uint) (int, error) {
	var user model.User
	err := s.db.Select("token_version").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return user.TokenVersion, nil
}

// ---------------------------------------------------------------------------
// Maintenance

// CleanupExpiredTokens removes expired entries from the blacklist.
func (s *GORMStore) CleanupExpiredTokens() (int64, error) {
	result := s.db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}

// ExpireStalePayments fails pending orders older than the given age. The
// gateway never calls back for abandoned checkouts, so these rows would stay
// pending forever otherwise.
func (s *GORMStore) ExpireStalePayments(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Model(&model.CoursePayment{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, cutoff).
		Update("status", model.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}

// RecordCronRun appends a cron job execution log.
func (s *GORMStore) RecordCronRun(entry *model.CronJobLog) error {
	return s.db.Create(entry).Error
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
