// Command edukai-ingest extracts text from course material files (plain
// text, images, PDFs) into an aggregated corpus, optionally recording
// extraction history and generating a quiz from the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"edukai_backend/core"
	"edukai_backend/db"
	"edukai_backend/fileprocessor"
	"edukai_backend/logging"
	"edukai_backend/ocrprocessor"
	"edukai_backend/pdfprocessor"
	"edukai_backend/quizgen"
	"edukai_backend/session"
	"edukai_backend/shutdown"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "optional YAML config file overlaying environment settings")
	withHistory := flag.Bool("history", false, "record extraction runs and corpus entries in the database")
	withQuiz := flag.Bool("quiz", false, "generate a quiz from the aggregated corpus (requires EDUKAI_OPENAI_API_KEY)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: edukai-ingest [flags] file...")
		flag.PrintDefaults()
		return core.ExitCodeError
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	config, err := core.LoadConfigWithFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return core.ExitCodeError
	}

	logger, err := logging.NewLogger(config.DevMode, config.LogFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}

	teardown, err := shutdown.NewManager(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize shutdown manager: %v\n", err)
		return core.ExitCodeError
	}
	teardown.Register("logger-sync", 0, func(ctx context.Context) error {
		return logger.Sync()
	})
	defer teardown.Shutdown()

	logger.Info("Configuration loaded",
		zap.String("ocr_language", config.OCRLanguage),
		zap.Float64("render_scale", config.RenderScale),
		zap.String("database_path", config.DatabasePath),
		zap.Bool("dev_mode", config.DevMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var receivedSignal atomic.Value
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		receivedSignal.Store(sig)
		logger.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	manager, err := buildPipeline(config, logger)
	if err != nil {
		logger.Error("Failed to build processing pipeline", zap.Error(err))
		return core.ExitCodeError
	}

	failed := ingestFiles(ctx, manager, config, logger, files)

	if sig := receivedSignal.Load(); sig != nil {
		if sig == syscall.SIGTERM {
			return core.ExitCodeSIGTERM
		}
		return core.ExitCodeSIGINT
	}

	printCorpusSummary(manager)

	if *withHistory {
		if err := recordHistory(ctx, config, manager, teardown); err != nil {
			logger.Error("Failed to record extraction history", zap.Error(err))
			failed = true
		}
	}

	if *withQuiz {
		if err := generateQuiz(ctx, config, manager); err != nil {
			logger.Error("Quiz generation failed", zap.Error(err))
			failed = true
		}
	}

	if failed {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// buildPipeline wires the OCR backend, the extraction engines, and the
// session manager with a progress-printing observer.
func buildPipeline(config *core.Config, logger *logging.Logger) (*session.Manager, error) {
	backend, err := ocrprocessor.NewTesseractBackend(logger)
	if err != nil {
		return nil, err
	}

	ocr, err := ocrprocessor.NewProcessor(backend, logger, ocrprocessor.ProcessorConfig{
		Language:       config.OCRLanguage,
		Timeout:        config.OCRTimeout,
		NormalizeInput: true,
		MaxImageSize:   config.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}

	pdf, err := pdfprocessor.NewExtractor(ocr, logger, pdfprocessor.ExtractorConfig{
		RenderScale:   config.RenderScale,
		PageSeparator: config.PageSeparator,
	})
	if err != nil {
		return nil, err
	}

	processor, err := fileprocessor.NewProcessor(ocr, pdf, logger)
	if err != nil {
		return nil, err
	}

	return session.NewManager(processor, logger, newProgressPrinter())
}

// newProgressPrinter renders controller events as colored console lines.
// Intermediate progress only prints when the percentage has advanced
// enough to be worth a line.
func newProgressPrinter() session.ObserverFunc {
	var mu sync.Mutex
	lastPercent := make(map[string]float64)

	stageColor := map[string]*color.Color{
		fileprocessor.StageReading:    color.New(color.FgHiBlack),
		fileprocessor.StageExtracting: color.New(color.FgCyan),
		fileprocessor.StageOCR:        color.New(color.FgYellow),
		fileprocessor.StageComplete:   color.New(color.FgGreen),
	}

	return func(ev session.Event) {
		mu.Lock()
		defer mu.Unlock()

		switch ev.State {
		case session.StateProcessing:
			if ev.Progress == nil {
				color.New(color.FgWhite, color.Bold).Printf("processing %s\n", ev.FileName)
				return
			}
			if ev.Progress.Stage != fileprocessor.StageComplete &&
				ev.Progress.Percent < lastPercent[ev.FileID]+5 {
				return
			}
			lastPercent[ev.FileID] = ev.Progress.Percent
			clr, ok := stageColor[ev.Progress.Stage]
			if !ok {
				clr = color.New(color.FgWhite)
			}
			clr.Printf("  [%-10s] %3.0f%% %s\n", ev.Progress.Stage, ev.Progress.Percent, ev.Progress.Message)

		case session.StateSucceeded:
			color.New(color.FgGreen, color.Bold).Printf("✓ %s\n", ev.FileName)

		case session.StateFailed:
			color.New(color.FgRed, color.Bold).Printf("✗ %s: %v\n", ev.FileName, ev.Err)
		}
	}
}

// ingestFiles loads the named files into the session and processes them.
// Returns true if any file could not be loaded or processed.
func ingestFiles(ctx context.Context, manager *session.Manager, config *core.Config, logger *logging.Logger, paths []string) bool {
	failed := false

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			color.New(color.FgRed).Printf("✗ %s: %v\n", path, err)
			failed = true
			continue
		}
		if config.MaxFileSize > 0 && int64(len(data)) > config.MaxFileSize {
			color.New(color.FgRed).Printf("✗ %s: file exceeds maximum size of %d bytes\n", path, config.MaxFileSize)
			failed = true
			continue
		}

		file, err := core.NewUploadedFile(path, "", data)
		if err != nil {
			logger.Error("Failed to register file", zap.String("path", path), zap.Error(err))
			failed = true
			continue
		}
		if _, err := manager.Add(file); err != nil {
			logger.Error("Failed to add file to session", zap.String("path", path), zap.Error(err))
			failed = true
		}
	}

	if failures := manager.ProcessAll(ctx); len(failures) > 0 {
		failed = true
	}
	return failed
}

// printCorpusSummary prints the aggregated corpus stats.
func printCorpusSummary(manager *session.Manager) {
	corpus := manager.Corpus()
	totalChars := 0
	totalTokens := 0
	for _, entry := range corpus {
		totalChars += len(entry)
		totalTokens += pdfprocessor.EstimateTokenCount(entry)
	}

	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println("Corpus")
	fmt.Printf("  %d distinct text block(s), %d characters, ~%d tokens\n",
		len(corpus), totalChars, totalTokens)
}

// recordHistory persists extraction outcomes and corpus entries. The
// write queue and database are handed to the shutdown manager so the
// queue always drains before the connection closes.
func recordHistory(ctx context.Context, config *core.Config, manager *session.Manager, teardown *shutdown.Manager) error {
	database, err := db.NewDatabaseWithConfig(db.DatabaseConfig{
		Path:           config.DatabasePath,
		MigrationsPath: config.MigrationsPath,
	})
	if err != nil {
		return err
	}
	teardown.Register("database", 20, func(ctx context.Context) error {
		return database.Close()
	})

	writer := db.NewAsyncWriter()
	writer.Start()
	teardown.Register("write-queue", 10, func(ctx context.Context) error {
		if !writer.Stop() {
			return fmt.Errorf("write queue drain timed out")
		}
		return nil
	})

	repo := db.NewRepository(database, writer)
	for _, snap := range manager.Snapshots() {
		record := db.ExtractionRecord{
			FileID:     snap.FileID,
			FileName:   snap.FileName,
			Status:     db.StatusSuccess,
			TextLength: len(snap.Text),
		}
		if snap.State != session.StateSucceeded {
			record.Status = db.StatusError
			if snap.Err != nil {
				record.ErrorMessage = snap.Err.Error()
			}
		}
		if _, err := repo.InsertExtractionRecord(ctx, record); err != nil {
			return err
		}

		if snap.State == session.StateSucceeded {
			if err := repo.UpsertCorpusEntry(ctx, snap.FileID, snap.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// generateQuiz submits the corpus to the configured OpenAI model and
// prints the resulting quiz.
func generateQuiz(ctx context.Context, config *core.Config, manager *session.Manager) error {
	if config.OpenAIAPIKey == "" {
		return fmt.Errorf("quiz generation requires EDUKAI_OPENAI_API_KEY")
	}
	corpus := manager.Corpus()
	if len(corpus) == 0 {
		return fmt.Errorf("corpus is empty, nothing to generate a quiz from")
	}

	client := openai.NewClient(config.OpenAIAPIKey)
	generator, err := quizgen.NewGenerator(quizgen.GeneratorConfig{
		Model:         config.QuizModel,
		QuestionCount: config.QuizQuestionCount,
	}, client)
	if err != nil {
		return err
	}

	color.New(color.FgCyan).Println("\nGenerating quiz...")
	start := time.Now()
	result, err := generator.Generate(ctx, corpus)
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Printf("\n%s\n", result.Quiz.Title)
	for i, q := range result.Quiz.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for j, choice := range q.Choices {
			marker := "  "
			if j == q.AnswerIndex {
				marker = "→ "
			}
			fmt.Printf("   %s%s\n", marker, choice)
		}
	}
	color.New(color.FgHiBlack).Printf("\n(%d questions in %v)\n",
		len(result.Quiz.Questions), time.Since(start).Round(time.Millisecond))
	return nil
}
