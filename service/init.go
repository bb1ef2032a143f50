/*
 * @module service/init
 * @description Service bootstrap: database connection, migration, seeding and
 *              construction of the global service singletons.
 * @architecture Layered - service layer
 * @stateFlow Init() runs once at startup before the HTTP router is built
 * @rules API serving must not begin until every dependency here is ready;
 *        tests construct services directly and never call Init()
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 */

package service

import (
	"fmt"
	"log"
	"os"

	"ndi-assessment-service/service/ai"
	"ndi-assessment-service/service/assessment"
	"ndi-assessment-service/service/cache"
	"ndi-assessment-service/service/database"
	"ndi-assessment-service/service/evidence"
	"ndi-assessment-service/service/report"
	"ndi-assessment-service/service/scheduler"
	"ndi-assessment-service/service/scoring"
	"ndi-assessment-service/service/settings"
	"ndi-assessment-service/service/task"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                      *gorm.DB
	GlobalScoringEngine     *scoring.Engine
	GlobalAssessmentService *assessment.Service
	GlobalSettingsService   *settings.Service
	GlobalAIService         *ai.Service
	GlobalEvidenceService   *evidence.Service
	GlobalTaskService       *task.Service
	GlobalReportService     *report.Service
	GlobalCacheClient       *cache.Client
	GlobalScheduler         *scheduler.Scheduler
)

// Init connects, migrates, seeds and wires the service graph. Called once
// from main before routes are registered.
func Init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase opens the postgres connection from DATABASE_URL or the
// discrete DB_* variables.
func initDatabase() {
	var dsn string

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "ndi")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Riyadh",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	log.Println("database connected")
}

// getEnvWithDefault returns the environment variable or a fallback.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations migrates the schema and seeds initial data.
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	if err := database.InitializeData(DB); err != nil {
		log.Fatalf("initial data seeding failed: %v", err)
	}
	log.Println("database migration and seeding complete")
}

// initServices builds the service graph and starts background workers.
func initServices() {
	GlobalScoringEngine = scoring.NewEngine(DB)
	GlobalAssessmentService = assessment.NewService(DB, GlobalScoringEngine)
	GlobalSettingsService = settings.NewService(DB, settings.KeyFromEnv())
	GlobalAIService = ai.NewService(DB, GlobalSettingsService)
	GlobalEvidenceService = evidence.NewService(DB, getEnvWithDefault("UPLOAD_DIR", "uploads"), GlobalAIService)
	GlobalTaskService = task.NewService(DB)
	GlobalReportService = report.NewService(DB, GlobalScoringEngine)

	// Optional: dashboard cache is a no-op when REDIS_URL is unset.
	GlobalCacheClient = cache.NewClient(os.Getenv("REDIS_URL"))

	GlobalScheduler = scheduler.NewScheduler(DB, GlobalEvidenceService)
	if err := GlobalScheduler.Start(); err != nil {
		log.Printf("scheduler start failed: %v", err)
	}

	log.Println("services initialized")
}
