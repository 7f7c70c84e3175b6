package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/learnsphere/academy-api/model"
)

// SeedCourses returns the storefront catalog. Both backends seed from the
// same list so a demo store and a real deployment show the same courses.
func SeedCourses() []model.Course {
	return []model.Course{
		{
			Slug:        "web-development",
			Name:        "Web Development",
			Description: "Full-stack web development with HTML, CSS, JavaScript, and modern frameworks.",
			Price:       599,
			Duration:    "12 weeks",
			Level:       "beginner",
		},
		{
			Slug:        "data-science",
			Name:        "Data Science",
			Description: "Statistics, Python, and machine learning fundamentals for working with data.",
			Price:       799,
			Duration:    "16 weeks",
			Level:       "intermediate",
		},
		{
			Slug:        "mobile-development",
			Name:        "Mobile Development",
			Description: "Build native-quality mobile apps for iOS and Android.",
			Price:       699,
			Duration:    "14 weeks",
			Level:       "intermediate",
		},
		{
			Slug:        "cloud-engineering",
			Name:        "Cloud Engineering",
			Description: "Design, deploy, and operate workloads on the major cloud platforms.",
			Price:       899,
			Duration:    "12 weeks",
			Level:       "advanced",
		},
		{
			Slug:        "ui-ux-design",
			Name:        "UI/UX Design",
			Description: "User research, wireframing, and interface design from first principles.",
			Price:       499,
			Duration:    "10 weeks",
			Level:       "beginner",
		},
	}
}

// Seeder handles database seeding operations for the PostgreSQL backend
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedCourseCatalog(); err != nil {
		return fmt.Errorf("failed to seed course catalog: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedCourseCatalog inserts the catalog courses that are not present yet.
// Existing rows are left alone so manual price edits survive re-seeding.
func (s *Seeder) SeedCourseCatalog() error {
	for _, course := range SeedCourses() {
		var count int64
		if err := s.db.Model(&model.Course{}).Where("slug = ?", course.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("Course %q already exists, skipping...", course.Slug)
			continue
		}
		if err := s.db.Create(&course).Error; err != nil {
			return err
		}
		log.Printf("Seeded course %q", course.Slug)
	}
	return nil
}

// RunSeeds is the entrypoint used by cmd/seed.
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}
