package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/logger"
	"github.com/spendwise/spendwise/internal/notionsync"
	"github.com/spendwise/spendwise/internal/receipts"
	storebq "github.com/spendwise/spendwise/internal/store/bigquery"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan":
		runScan(log)
	case "accounts":
		runAccounts(log)
	case "sync-notion":
		runSyncNotion(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("SpendWise CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  scan         Extract transaction fields from a local receipt file")
	fmt.Println("  accounts     List a user's accounts and balances")
	fmt.Println("  sync-notion  Mirror a user's transactions into Notion")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// runScan extracts fields from a local receipt without going through the
// upload queue. Useful for tuning the extraction heuristics.
func runScan(log zerolog.Logger) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a receipt PDF or image")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var text string
	if receipts.IsPDF(data) {
		text, err = receipts.PDFText(data)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read PDF text")
		}
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create genai client")
		}

		mimeType := mime.TypeByExtension(filepath.Ext(*filePath))
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		ocr := receipts.NewGeminiOCR(client, cfg.Model)
		text, err = ocr.RecognizeText(ctx, mimeType, data)
		if err != nil {
			log.Fatal().Err(err).Msg("OCR failed")
		}
	}

	result := receipts.ExtractFields(text)
	fmt.Println("\n=== Extracted Fields ===")
	fmt.Printf("Amount:      %s\n", orDash(result.Amount))
	fmt.Printf("Date:        %s\n", orDash(result.Date))
	fmt.Printf("Description: %s\n", orDash(result.Description))
}

func runAccounts(log zerolog.Logger) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	userID := fs.String("user", "", "User ID to list accounts for")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	dataStore, err := storebq.New(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create data store")
	}
	defer dataStore.Close()

	accounts, err := dataStore.ListAccounts(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list accounts")
	}

	fmt.Printf("\n=== Accounts (%d) ===\n", len(accounts))
	for _, account := range accounts {
		fmt.Printf("%-12s %-8s %-12s %s\n", account.Name, account.Type, account.AccountNumber, account.Balance.StringFixed(2))
	}
}

func runSyncNotion(log zerolog.Logger) {
	fs := flag.NewFlagSet("sync-notion", flag.ExitOnError)
	userID := fs.String("user", "", "User ID whose transactions to sync")
	startDate := fs.String("start-date", "", "Start date (YYYY-MM-DD, default 1 year ago)")
	endDate := fs.String("end-date", "", "End date (YYYY-MM-DD, default today)")
	dryRun := fs.Bool("dry-run", false, "Log planned changes without writing to Notion")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.NotionDatabaseID == "" || cfg.NotionToken == "" {
		log.Fatal().Msg("NOTION_DATABASE_ID and NOTION_TOKEN must be set")
	}

	from := civil.DateOf(time.Now().AddDate(-1, 0, 0))
	to := civil.DateOf(time.Now())
	if *startDate != "" {
		from, err = civil.ParseDate(*startDate)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --start-date")
		}
	}
	if *endDate != "" {
		to, err = civil.ParseDate(*endDate)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --end-date")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dataStore, err := storebq.New(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create data store")
	}
	defer dataStore.Close()

	syncer := notionsync.NewSyncer(
		dataStore, dataStore, dataStore,
		notionsync.NewNotionClient(cfg.NotionToken),
		cfg.NotionDatabaseID,
		log,
	)
	stats, err := syncer.Sync(ctx, *userID, from, to, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Sync completed: %d created, %d deleted, %d skipped\n", stats.Created, stats.Deleted, stats.Skipped)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
