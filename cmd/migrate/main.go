package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/config"
	"github.com/nbaedge/props-api/pkg/database"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Game{},
		&models.RosterPlayer{},
		&models.LineupSlot{},
		&models.GameLogEntry{},
		&models.OddsHistory{},
		&models.DepthChartRow{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Indexes beyond what the model tags declare
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_date ON games(game_date)",
		"CREATE INDEX IF NOT EXISTS idx_lineup_slots_player ON lineup_slots(player_id)",
		"CREATE INDEX IF NOT EXISTS idx_odds_history_player_market ON odds_history(player_id, market)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"team_depth_charts",
		"odds_history",
		"game_log_entries",
		"lineup_slots",
		"roster_players",
		"games",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	tipoff := time.Now().UTC().Add(6 * time.Hour)

	games := []models.Game{
		{GameDate: tipoff, HomeTeam: "BOS", AwayTeam: "NYK"},
		{GameDate: tipoff.Add(30 * time.Minute), HomeTeam: "DEN", AwayTeam: "LAL"},
	}
	if err := db.Create(&games).Error; err != nil {
		return fmt.Errorf("failed to seed games: %w", err)
	}

	rosters := []models.RosterPlayer{
		{PlayerID: 1628369, Name: "Jayson Tatum", Team: "BOS", Position: "SF", Jersey: "0"},
		{PlayerID: 1627759, Name: "Jaylen Brown", Team: "BOS", Position: "SG", Jersey: "7"},
		{PlayerID: 1628401, Name: "Derrick White", Team: "BOS", Position: "PG", Jersey: "9"},
		{PlayerID: 1628973, Name: "Jalen Brunson", Team: "NYK", Position: "PG", Jersey: "11"},
		{PlayerID: 203999, Name: "Nikola Jokic", Team: "DEN", Position: "C", Jersey: "15"},
		{PlayerID: 2544, Name: "LeBron James", Team: "LAL", Position: "SF", Jersey: "23"},
	}
	if err := db.Create(&rosters).Error; err != nil {
		return fmt.Errorf("failed to seed rosters: %w", err)
	}

	logrus.Infof("Seeded %d games and %d roster players", len(games), len(rosters))
	return nil
}
