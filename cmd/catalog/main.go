package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"vocabquiz/internal/catalog"
	"vocabquiz/internal/config"
	"vocabquiz/internal/database"
	"vocabquiz/internal/logging"
	"vocabquiz/internal/repository"
	"vocabquiz/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: catalog_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Replace the stored catalog instead of merging (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Server.LogLevel, true)

	ctx := context.Background()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	repo := repository.NewTopicRepository(db)
	backupService := service.NewBackupService(repo, logger)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, repo, *importInput, *importClear)

	case "seed":
		seedCmd.Parse(os.Args[2:])
		handleSeed(ctx, db)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("catalog_%s.json", time.Now().Format("20060102_150405"))
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Msg("failed to create output directory")
		}
	}

	log.Info().Str("path", outputPath).Msg("exporting catalog")
	n, err := backupService.Export(ctx, outputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}

	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to stat export file")
	}
	log.Info().Int("topics", n).Int64("bytes", fileInfo.Size()).Msg("export complete")
}

func handleImport(ctx context.Context, backupService *service.BackupService, repo *repository.TopicRepository, inputPath string, replace bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal().Str("path", inputPath).Msg("input file does not exist")
	}

	if replace {
		fmt.Print("WARNING: This will delete every stored topic. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Info().Msg("import cancelled")
			return
		}
	}

	n, err := backupService.Import(ctx, inputPath, replace)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	stored, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count stored topics")
	}
	log.Info().Int("topics", n).Int("stored", stored).Bool("replace", replace).Msg("import complete")
}

func handleSeed(ctx context.Context, db *database.DB) {
	n, err := db.SeedTopics(ctx, catalog.Builtin())
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	if n == 0 {
		log.Info().Msg("catalog already populated; nothing seeded")
	}
}

func printUsage() {
	fmt.Println("Vocab Quiz Catalog Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  catalog export [options]    Export stored topics to a JSON file")
	fmt.Println("  catalog import [options]    Import topics from a JSON file")
	fmt.Println("  catalog seed                Fill an empty catalog with the built-in topics")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: catalog_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Replace the stored catalog instead of merging (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  VOCABQUIZ_DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  VOCABQUIZ_DATABASE_PATH    SQLite database path (default: ./vocabquiz.db)")
	fmt.Println("  VOCABQUIZ_DATABASE_URL     PostgreSQL or MySQL connection URL")
}
