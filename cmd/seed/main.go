package main

import (
	"log"
	"os"

	"github.com/yourusername/testing-platform-api/internal/config"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
	"github.com/yourusername/testing-platform-api/internal/repository/jsonfile"
	pgRepo "github.com/yourusername/testing-platform-api/internal/repository/postgres"
	"github.com/yourusername/testing-platform-api/internal/service"
	"github.com/yourusername/testing-platform-api/pkg/database"
)

// Наполняет пустое хранилище демонстрационными тестами.
// Использует ту же конфигурацию, что и сервер.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	var quizRepo repository.QuizRepository
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			os.Exit(1)
		}
		if err := database.MigrateDB(db); err != nil {
			log.Printf("Failed to apply migrations: %v", err)
			os.Exit(1)
		}
		quizRepo = pgRepo.NewQuizRepo(db)
	case config.BackendJSONFile:
		store, err := jsonfile.NewStore(cfg.Storage.FilePath)
		if err != nil {
			log.Printf("Failed to open store: %v", err)
			os.Exit(1)
		}
		quizRepo = jsonfile.NewQuizRepo(store)
	}

	if err := service.SeedDemoQuizzes(quizRepo); err != nil {
		log.Printf("Seed failed: %v", err)
		os.Exit(1)
	}
	log.Println("Seed completed")
}
