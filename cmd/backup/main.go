package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"lingofolio/internal/config"
	"lingofolio/internal/database"
	"lingofolio/internal/logger"
	"lingofolio/internal/repository"
	"lingofolio/internal/service"
	"lingofolio/internal/storage"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	messagesCmd := flag.NewFlagSet("messages", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	exportS3 := exportCmd.Bool("s3", false, "Also upload the backup to the configured S3 bucket")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Skip the confirmation prompt for -clear")

	// Messages flags
	messagesLimit := messagesCmd.Int("limit", 20, "Number of messages to show (max 100)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx, cfg.MigrationsPath, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	backupService := service.NewBackupService(db, log)

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		outputPath := handleExport(ctx, log, backupService, *exportOutput)
		if *exportS3 {
			uploadBackup(ctx, log, cfg, outputPath)
		}

	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, log, backupService, *importInput, *importClear, *importYes)

	case "messages":
		_ = messagesCmd.Parse(os.Args[2:])
		contactService := service.NewContactService(repository.NewContactRepository(db), log)
		handleMessages(ctx, log, contactService, *messagesLimit)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, log *zap.Logger, backupService *service.BackupService, outputPath string) string {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create output directory", zap.Error(err))
		}
	}

	if err := backupService.Export(ctx, outputPath); err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}

	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Info("Export complete", zap.String("path", outputPath), zap.Int64("bytes", fileInfo.Size()))
	}
	return outputPath
}

func uploadBackup(ctx context.Context, log *zap.Logger, cfg *config.Config, path string) {
	if cfg.S3.Bucket == "" {
		log.Fatal("Cannot upload backup: s3.bucket is not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatal("Failed to open backup", zap.Error(err))
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		log.Fatal("Failed to stat backup", zap.Error(err))
	}

	store := storage.NewS3Store(awsCfg, cfg.S3.Bucket, "")
	url, err := store.Put(ctx, "backups/"+filepath.Base(path), "application/json", file, info.Size())
	if err != nil {
		log.Fatal("Backup upload failed", zap.Error(err))
	}
	log.Info("Backup uploaded", zap.String("url", url))
}

func handleImport(ctx context.Context, log *zap.Logger, backupService *service.BackupService, inputPath string, clearData, skipConfirm bool) {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal("Input file does not exist", zap.String("path", inputPath))
	}

	if clearData {
		if !skipConfirm {
			fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
			confirmation, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(confirmation) != "yes" {
				log.Info("Import cancelled")
				return
			}
		}

		if err := backupService.Clear(ctx); err != nil {
			log.Fatal("Failed to clear database", zap.Error(err))
		}
	}

	log.Info("Importing database", zap.String("path", inputPath))
	if err := backupService.Import(ctx, inputPath); err != nil {
		log.Fatal("Import failed", zap.Error(err))
	}

	log.Info("Import complete")
}

func handleMessages(ctx context.Context, log *zap.Logger, contactService *service.ContactService, limit int) {
	messages, err := contactService.Recent(ctx, limit)
	if err != nil {
		log.Fatal("Failed to list contact messages", zap.Error(err))
	}
	if len(messages) == 0 {
		fmt.Println("No contact messages.")
		return
	}
	for _, m := range messages {
		fmt.Printf("#%d  %s  %s <%s>\n", m.ID, m.CreatedAt.Format(time.RFC3339), m.Name, m.Email)
		fmt.Printf("    %s\n\n", strings.ReplaceAll(m.Message, "\n", "\n    "))
	}
}

func printUsage() {
	fmt.Println("Lingofolio Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to JSON file")
	fmt.Println("  backup import [options]    Import database from JSON file")
	fmt.Println("  backup messages [options]  Show the newest contact form messages")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println("  -s3               Also upload the backup to s3://<bucket>/backups/")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println("  -yes              Do not ask for confirmation when clearing")
	fmt.Println()
	fmt.Println("Messages Options:")
	fmt.Println("  -limit <n>        Number of messages to show (default: 20, max: 100)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -output backups/today.json -s3")
	fmt.Println("  backup import -input backup.json")
	fmt.Println("  backup import -input backup.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, sqlite-pure, postgres or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./lingofolio.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  S3_BUCKET        Bucket used by -s3")
}
