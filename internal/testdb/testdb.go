// Package testdb opens in-memory sqlite databases carrying the entity store
// tables, for repository tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// schema mirrors the goose migrations with sqlite types. Dates and times are
// TEXT, arrays are stored in their Postgres literal form.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT,
  student_id TEXT,
  employee_id TEXT,
  phone_number TEXT,
  user_type TEXT NOT NULL DEFAULT 'STUDENT',
  account_status TEXT NOT NULL DEFAULT 'ACTIVE',
  profile_image_url TEXT,
  bio TEXT,
  email_verified INTEGER NOT NULL DEFAULT 0,
  last_login DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  icon TEXT NOT NULL,
  color TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  item_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS locations (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  building TEXT NOT NULL,
  floor TEXT,
  room TEXT,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  item_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS lost_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT,
  location_id TEXT,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  date_lost TEXT,
  time_lost TEXT,
  contact_method TEXT NOT NULL,
  contact_info TEXT NOT NULL,
  images TEXT NOT NULL DEFAULT '{}',
  tags TEXT NOT NULL DEFAULT '{}',
  status TEXT NOT NULL,
  urgency TEXT NOT NULL,
  reward_amount NUMERIC NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  view_count INTEGER NOT NULL DEFAULT 0,
  expires_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS found_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT,
  location_id TEXT,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  date_found TEXT,
  time_found TEXT,
  current_location TEXT NOT NULL,
  contact_method TEXT NOT NULL,
  contact_info TEXT NOT NULL,
  images TEXT NOT NULL DEFAULT '{}',
  tags TEXT NOT NULL DEFAULT '{}',
  status TEXT NOT NULL,
  condition_notes TEXT,
  is_featured INTEGER NOT NULL DEFAULT 0,
  view_count INTEGER NOT NULL DEFAULT 0,
  expires_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS claim_requests (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  item_type TEXT NOT NULL,
  claimer_id TEXT NOT NULL,
  message TEXT NOT NULL,
  status TEXT NOT NULL,
  owner_notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_claim_requests_one_pending
  ON claim_requests (claimer_id, item_id) WHERE status = 'pending';`,
	`CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  claim_request_id TEXT NOT NULL,
  sender_id TEXT NOT NULL,
  body TEXT NOT NULL,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  related_item_id TEXT,
  related_claim_id TEXT,
  read_at DATETIME,
  created_at DATETIME
);`,
}

// Open returns a fresh, isolated in-memory database with every table created.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// MustProfile inserts a profile.
func MustProfile(t testing.TB, db *gorm.DB, first, last, email string) models.Profile {
	t.Helper()
	profile := models.Profile{
		ID:            uuid.New(),
		FirstName:     first,
		LastName:      last,
		UserType:      enums.UserTypeStudent,
		AccountStatus: enums.AccountStatusActive,
	}
	if email != "" {
		profile.Email = &email
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile
}

// MustCategory inserts an active category.
func MustCategory(t testing.TB, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{
		ID:       uuid.New(),
		Name:     name,
		Icon:     "tag",
		Color:    "#3B82F6",
		IsActive: true,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

// MustLocation inserts an active location.
func MustLocation(t testing.TB, db *gorm.DB, name string) models.Location {
	t.Helper()
	location := models.Location{
		ID:       uuid.New(),
		Name:     name,
		Building: name,
		IsActive: true,
	}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	return location
}

// LostItem returns an ACTIVE lost report owned by userID, ready to insert.
func LostItem(userID uuid.UUID, title string, createdAt time.Time) *models.LostItem {
	return &models.LostItem{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Description:   "description for " + strings.ToLower(title),
		ContactMethod: enums.ContactPreferenceEmail.Stored(),
		ContactInfo:   "owner@example.edu",
		Images:        pq.StringArray{},
		Tags:          pq.StringArray{},
		Status:        enums.LostStatusActive,
		Urgency:       enums.UrgencyMedium.Stored(),
		RewardAmount:  decimal.Zero,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}
}

// FoundItem returns an AVAILABLE found report owned by userID, ready to insert.
func FoundItem(userID uuid.UUID, title string, createdAt time.Time) *models.FoundItem {
	return &models.FoundItem{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Description:     "description for " + strings.ToLower(title),
		CurrentLocation: "Front desk",
		ContactMethod:   enums.ContactPreferenceEmail.Stored(),
		ContactInfo:     "finder@example.edu",
		Images:          pq.StringArray{},
		Tags:            pq.StringArray{},
		Status:          enums.FoundStatusAvailable,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	}
}

// MustCreate inserts any model or fails the test.
func MustCreate(t testing.TB, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
