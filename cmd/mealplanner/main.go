package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/logger"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	switch os.Args[1] {
	case "migrate":
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
		fmt.Println("Migrations applied.")
	case "dbcheck":
		checkCmd := flag.NewFlagSet("dbcheck", flag.ExitOnError)
		timeout := checkCmd.Duration("timeout", 5*time.Second, "Give up after this long")
		checkCmd.Parse(os.Args[2:])

		db := openDB(zl, cfg)
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			zl.Fatal("database check failed", zap.Error(err))
		}
		fmt.Printf("Database OK (%s).\n", db.Dialect)
	case "ingredients":
		db := openDB(zl, cfg)
		defer db.Close()

		svc := ingredient.NewService(ingredient.NewRepository(db.SQL), zl)
		items, err := svc.List(context.Background())
		if err != nil {
			zl.Fatal("failed to list ingredients", zap.Error(err))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\n", it.ID, it.Name)
		}
		w.Flush()
		fmt.Printf("\n%d ingredients.\n", len(items))
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func openDB(zl *zap.Logger, cfg *config.Config) *database.DB {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	return db
}

func printUsage() {
	fmt.Println("Usage: mealplanner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  migrate        Apply database migrations")
	fmt.Println("  dbcheck        Verify the database is reachable (-timeout)")
	fmt.Println("  ingredients    List canonical ingredients")
}
