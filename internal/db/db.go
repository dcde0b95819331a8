package db

import (
	"fmt"
	"log"
	"strings"

	"sekolahku/internal/config"
	"sekolahku/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// 唯一约束冲突统一翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SqliteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// SqliteDSN turns on foreign keys (for the cascade on user deletion) and a
// busy timeout so concurrent writers wait instead of failing.
func SqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Migrate auto-migrates all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.Like{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Seed creates the admin account and sample articles on an empty database.
func Seed(db *gorm.DB, cfg *config.Config) {
	seedAdmin(db, cfg.AdminEmail, cfg.AdminPassword)
	seedArticles(db)
}

func seedAdmin(db *gorm.DB, email, password string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin %s: %v", email, err)
		return
	}
	log.Printf("Admin account %s created", email)
}

func seedArticles(db *gorm.DB) {
	var count int64
	db.Model(&models.Article{}).Count(&count)
	if count > 0 {
		log.Println("Articles already seeded, skipping")
		return
	}

	articles := []models.Article{
		{
			Kind:    models.KindNews,
			Title:   "Penerimaan Peserta Didik Baru Dibuka",
			Summary: "Pendaftaran siswa baru tahun ajaran ini dibuka mulai bulan depan.",
			Body:    "## Jadwal\n\nPendaftaran dibuka setiap hari kerja pukul 08.00–12.00 di ruang tata usaha.\n\n- Fotokopi akta kelahiran\n- Kartu keluarga\n- Pas foto 3x4",
		},
		{
			Kind:    models.KindNews,
			Title:   "Juara 1 Lomba Cerdas Cermat Tingkat Kecamatan",
			Summary: "Tim kelas 5 membawa pulang piala bergilir.",
			Body:    "Selamat kepada tim cerdas cermat kita atas prestasinya!",
		},
		{
			Kind:    models.KindWasteBank,
			Title:   "Setoran Bank Sampah Bulan Ini",
			Summary: "Rekap setoran sampah plastik dan kertas per kelas.",
			Body:    "Terima kasih atas partisipasi seluruh warga sekolah. **Kelas 4B** menjadi penyetor terbanyak.",
		},
	}

	for _, a := range articles {
		if err := db.Create(&a).Error; err != nil {
			log.Printf("Failed to create article %s: %v", a.Title, err)
		}
	}
	log.Println("Initial articles created successfully")
}
