package cli

import (
	"fmt"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colonycraft-go/internal/adapters/catalog"
	appCrafting "github.com/andrescamacho/colonycraft-go/internal/application/crafting"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/config"
	"github.com/andrescamacho/colonycraft-go/internal/infrastructure/database"
)

const dateLayout = "2006-01-02"

// loadConfig loads configuration honouring the --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadCatalog parses the recipe catalog at path
func loadCatalog(path string) (*catalog.Catalog, error) {
	loader, err := catalog.NewLoader()
	if err != nil {
		return nil, err
	}
	cat, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	return cat, nil
}

// openDatabase connects and migrates the craft ledger tables
func openDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func craftingOptions(cfg config.CraftingConfig) appCrafting.Options {
	return appCrafting.Options{
		PollInterval:      cfg.PollInterval,
		ProgressRate:      cfg.ProgressRate,
		MaxActivePerAgent: cfg.MaxActivePerAgent,
	}
}

// parseDateRange turns YYYY-MM-DD flags into an inclusive range
func parseDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		parsed, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date format: %w", err)
		}
		start = &parsed
	}
	if endDate != "" {
		parsed, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date format: %w", err)
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, nil
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); !has {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
