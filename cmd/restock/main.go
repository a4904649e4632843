// cmd/restock/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/marketplace"
	"github.com/restockd/restockd/internal/repository"
	"github.com/restockd/restockd/internal/repository/postgres"
	"github.com/restockd/restockd/internal/service"
	"github.com/restockd/restockd/internal/storage"
	"github.com/restockd/restockd/pkg/logger"
)

func newDBFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "db",
		Usage:   "Also read/write Postgres alongside the CSV archive",
		EnvVars: []string{"RESTOCK_USE_DB"},
	}
}

func openStores(cfg *config.Config) (*storage.OrderItemStore, *storage.InventoryLevelStore) {
	items := storage.NewOrderItemStore(filepath.Join(cfg.App.DataDir, cfg.App.OrderItemsCSV))
	levels := storage.NewInventoryLevelStore(filepath.Join(cfg.App.DataDir, cfg.App.InventoryLevelsCSV))
	return items, levels
}

func openDB(cfg *config.Config) (*postgres.DB, error) {
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func runSync(c *cli.Context) error {
	cfg := config.Load()

	client, err := marketplace.NewClient(cfg.Marketplace)
	if err != nil {
		return fmt.Errorf("build marketplace client: %w", err)
	}
	itemsCSV, levelsCSV := openStores(cfg)

	var (
		orders    repository.OrderItemRepository
		inventory repository.InventoryRepository
	)
	if c.Bool("db") {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		orders = postgres.NewOrderItemRepository(db)
		inventory = postgres.NewInventoryRepository(db)
	}

	sync := service.NewSyncService(client, orders, inventory, itemsCSV, levelsCSV)

	daysBack := c.Int("days-back")
	if daysBack <= 0 {
		daysBack = cfg.Marketplace.SyncDaysBack
	}

	items, err := sync.SyncOrders(c.Context, daysBack)
	if err != nil {
		return fmt.Errorf("sync orders: %w", err)
	}
	levels, err := sync.SyncInventory(c.Context)
	if err != nil {
		return fmt.Errorf("sync inventory: %w", err)
	}

	logger.Log.Info().
		Int("order_items", items).
		Int("inventory_levels", levels).
		Msg("sync complete")
	return nil
}

func runReport(c *cli.Context) error {
	cfg := config.Load()

	// Without an explicit target date, cover the configured lead time.
	until := time.Now().UTC().AddDate(0, 0, cfg.Forecast.ReplenishLeadDays)
	if raw := c.String("until"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
		until = parsed
	}

	var (
		orders    repository.OrderItemRepository
		inventory repository.InventoryRepository
		reports   repository.ReportRepository
	)
	if c.Bool("db") {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		orders = postgres.NewOrderItemRepository(db)
		inventory = postgres.NewInventoryRepository(db)
		reports = postgres.NewReportRepository(db)
	} else {
		itemsCSV, levelsCSV := openStores(cfg)
		orders = storage.NewCSVOrderItemRepository(itemsCSV)
		inventory = storage.NewCSVInventoryRepository(levelsCSV)
	}

	reportService := service.NewReportService(orders, inventory, reports, nil, nil, cfg.Forecast)

	report, err := reportService.Generate(c.Context, until)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func runImport(c *cli.Context) error {
	cfg := config.Load()

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	itemsCSV, levelsCSV := openStores(cfg)

	items, err := itemsCSV.Load()
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, item := range items {
		_, err := db.ExecContext(c.Context,
			`INSERT INTO order_items (order_id, purchase_date, sku, quantity)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (order_id, sku) DO NOTHING`,
			item.OrderID, item.PurchaseDate, item.SKU, item.Quantity)
		if err != nil {
			return fmt.Errorf("import order item %s/%s: %w", item.OrderID, item.SKU, err)
		}
	}

	levels, err := levelsCSV.Load()
	if err != nil {
		return fmt.Errorf("load inventory levels: %w", err)
	}
	if len(levels) > 0 {
		if _, err := db.ExecContext(c.Context, `TRUNCATE inventory_levels`); err != nil {
			return fmt.Errorf("clear inventory levels: %w", err)
		}
		for _, level := range levels {
			_, err := db.ExecContext(c.Context,
				`INSERT INTO inventory_levels (sku, quantity) VALUES ($1, $2)`,
				level.SKU, level.Quantity)
			if err != nil {
				return fmt.Errorf("import inventory level %s: %w", level.SKU, err)
			}
		}
	}

	logger.Log.Info().
		Int("order_items", len(items)).
		Int("inventory_levels", len(levels)).
		Msg("import complete")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	app := &cli.App{
		Name:  "restock",
		Usage: "Sync marketplace data and generate replenishment reports",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Pull recent orders and the inventory snapshot from the marketplace",
				Flags: []cli.Flag{
					newDBFlag(),
					&cli.IntFlag{
						Name:    "days-back",
						Usage:   "How many days of orders to pull",
						EnvVars: []string{"MARKETPLACE_SYNC_DAYS_BACK"},
					},
				},
				Action: runSync,
			},
			{
				Name:  "report",
				Usage: "Generate a replenishment report from the synced data",
				Flags: []cli.Flag{
					newDBFlag(),
					&cli.StringFlag{
						Name:  "until",
						Usage: "Replenish to cover demand up to this date (YYYY-MM-DD); defaults to the configured lead time from today",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the report JSON to this file instead of stdout",
					},
				},
				Action: runReport,
			},
			{
				Name:  "import",
				Usage: "Load the CSV archive into Postgres",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
				},
				Action: runImport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
