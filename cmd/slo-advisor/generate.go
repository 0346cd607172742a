package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slodlc/slo-advisor/internal/config"
	"github.com/slodlc/slo-advisor/internal/guide"
	"github.com/slodlc/slo-advisor/internal/worksheet"
)

var (
	generateWorksheet    string
	generatePlatform     string
	generateServiceName  string
	generateRepository   string
	generateOutputDir    string
	generateOutputFile   string
	generateModel        string
	generateTUI          bool
	generateErrorMessage string
	generateErrorDetails string
)

// Service names end up in filenames and document headers.
var serviceNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an SLO Implementation Guide",
	Long: `Generate an SLO Implementation Guide from a Discovery worksheet.

The worksheet is validated and sanitized, then sent to the Anthropic API
with platform-specific prompt guidance. Worksheets over the model token
budget are split on Markdown sections and processed in order. Transient
API failures are retried with exponential backoff; when the primary model
exhausts its retries, the fallback model is tried with a fresh budget.

On failure an error document is written in place of the guide and the
command exits non-zero.

With --error-message, no API call is made: a standalone error document is
written for the given service. CI uses this to publish a failure notice
when an earlier pipeline step has already failed.

Examples:
  slo-advisor generate --worksheet discovery.md --platform Dynatrace --service-name checkout
  slo-advisor generate --worksheet discovery.md --platform Grafana --service-name checkout --tui
  slo-advisor generate --error-message "Worksheet validation failed" --service-name checkout`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateWorksheet, "worksheet", "", "Path to the Discovery worksheet")
	generateCmd.Flags().StringVar(&generatePlatform, "platform", "", "Observability platform the guide targets")
	generateCmd.Flags().StringVar(&generateServiceName, "service-name", "", "Service the guide is for")
	generateCmd.Flags().StringVar(&generateRepository, "repository", "", "Documentation repository the guide is published to (defaults to output.repository)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "Directory for the output file (defaults to output.dir)")
	generateCmd.Flags().StringVar(&generateOutputFile, "output-file", "", "Output filename (defaults to <service>-slo-implementation-guide.md)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Override the primary model")
	generateCmd.Flags().BoolVar(&generateTUI, "tui", false, "Show interactive progress while generating")
	generateCmd.Flags().StringVar(&generateErrorMessage, "error-message", "", "Write an error document with this message instead of generating")
	generateCmd.Flags().StringVar(&generateErrorDetails, "error-details", "", "Technical details for the error document")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Standalone error document mode. No worksheet, no API call.
	if generateErrorMessage != "" {
		return writeStandaloneErrorDocument(cfg)
	}

	if generateWorksheet == "" || generatePlatform == "" || generateServiceName == "" {
		return fmt.Errorf("--worksheet, --platform, and --service-name are required")
	}
	if !serviceNameRe.MatchString(generateServiceName) {
		return fmt.Errorf("invalid service name %q: only letters, digits, hyphens, and underscores are allowed", generateServiceName)
	}

	validator, err := buildValidator(cfg)
	if err != nil {
		return err
	}
	if res := validator.Validate(generateWorksheet); !res.OK {
		// A rejected worksheet never produces an error document; the
		// worksheet author has to fix the file first.
		fmt.Printf("%s Validation failed: %s\n", color.RedString("✗"), res.Reason)
		os.Exit(1)
	}

	ws, err := worksheet.Read(generateWorksheet)
	if err != nil {
		return err
	}

	platform := guide.ParsePlatform(generatePlatform)

	repository := generateRepository
	if repository == "" {
		repository = cfg.Output.Repository
	}
	outDir := generateOutputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	outFile := generateOutputFile
	if outFile == "" {
		outFile = guide.OutputFilename(generateServiceName, false)
	}
	outPath := filepath.Join(outDir, outFile)

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	gcfg := guide.Config{
		PrimaryModel:   cfg.Models.Primary,
		FallbackModel:  cfg.Models.Fallback,
		MaxRetries:     cfg.Retry.MaxRetries,
		InitialBackoff: cfg.Retry.InitialBackoff,
	}
	if generateModel != "" {
		gcfg.PrimaryModel = generateModel
	}
	// The config layer always carries an explicit retry count, so zero
	// here means the user asked for no retries.
	if cfg.Retry.MaxRetries == 0 {
		gcfg.MaxRetries = -1
	}
	if cfg.Limits.TokenBudget > 0 {
		budgets := map[string]int{gcfg.PrimaryModel: cfg.Limits.TokenBudget}
		if gcfg.FallbackModel != "" {
			budgets[gcfg.FallbackModel] = cfg.Limits.TokenBudget
		}
		gcfg.TokenBudgets = budgets
	}

	emitter := guide.NewEventEmitter(0)
	opts := []guide.Option{guide.WithEvents(emitter)}
	if cfg.Log.File != "" {
		logger, err := guide.NewDebugLogger(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer logger.Close()
		opts = append(opts, guide.WithLogger(logger))
	}

	gen := guide.NewGenerator(&guide.APICompleter{Client: client}, gcfg, opts...)
	req := guide.Request{
		Worksheet:   ws.Content,
		Platform:    platform,
		ServiceName: generateServiceName,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	if generateTUI {
		return runGenerateTUI(ctx, gen, req, emitter, outPath, outDir)
	}

	fmt.Printf("Processing Discovery worksheet for service: %s\n", generateServiceName)
	fmt.Printf("Observability platform: %s\n", platform)
	if repository != "" {
		fmt.Printf("Documentation repository: %s\n", repository)
	}
	fmt.Printf("Output file: %s\n", outPath)

	go consumeEventsHeadless(emitter.Events())

	res, err := gen.Generate(ctx, req)
	emitter.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating guide: %v\n", err)
		if usage, calls := client.TotalUsage(); calls > 0 {
			fmt.Fprintf(os.Stderr, "Spent before failing: %d calls, %d in / %d out tokens\n", calls, usage.InputTokens, usage.OutputTokens)
		}
		errPath := filepath.Join(outDir, res.Filename)
		if werr := os.WriteFile(errPath, []byte(res.ErrorDoc), 0644); werr != nil {
			fmt.Fprintf(os.Stderr, "Error writing error document: %v\n", werr)
		} else {
			fmt.Printf("Error document saved to: %s\n", errPath)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, []byte(res.Guide), 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	fmt.Printf("\n%s SLO Implementation Guide saved to: %s\n", color.GreenString("✓"), outPath)
	printRunSummary(res)
	return nil
}

// printRunSummary reports the model, token usage, and any required
// sections the model left out.
func printRunSummary(res *guide.Result) {
	fmt.Printf("  Model: %s\n", res.Model)
	if res.Chunks > 1 {
		fmt.Printf("  Chunks: %d\n", res.Chunks)
	}
	fmt.Printf("  Tokens: %d in / %d out (est. $%.4f)\n", res.InputTokens, res.OutputTokens, res.Cost)
	if len(res.MissingSections) > 0 {
		fmt.Printf("  %s Guide is missing sections: %s\n", color.YellowString("⚠"), strings.Join(res.MissingSections, ", "))
	}
}

// consumeEventsHeadless prints generation events to stdout.
func consumeEventsHeadless(events <-chan guide.Event) {
	for event := range events {
		switch event.Type {
		case guide.EventChunked:
			fmt.Printf("[CHUNKED] %s\n", event.Message)
		case guide.EventModelCall:
			fmt.Printf("[CALL] %s\n", event.Message)
		case guide.EventRetry:
			fmt.Printf("[RETRY] %s: %v\n", event.Message, event.Err)
		case guide.EventFallback:
			fmt.Printf("[FALLBACK] %s\n", event.Message)
		case guide.EventChunkCompleted:
			if event.Chunks > 0 {
				fmt.Printf("[CHUNK %d/%d] %s\n", event.Chunk, event.Chunks, event.Message)
			}
		case guide.EventSectionsMissing:
			fmt.Printf("[WARN] %s\n", event.Message)
		}
	}
}

// writeStandaloneErrorDocument writes an error document for a failed run
// without touching the API.
func writeStandaloneErrorDocument(cfg *config.Config) error {
	if generateServiceName == "" {
		return fmt.Errorf("--service-name is required for error document generation")
	}
	if !serviceNameRe.MatchString(generateServiceName) {
		return fmt.Errorf("invalid service name %q: only letters, digits, hyphens, and underscores are allowed", generateServiceName)
	}

	outDir := generateOutputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	outFile := generateOutputFile
	if outFile == "" {
		outFile = guide.OutputFilename(generateServiceName, true)
	}
	outPath := filepath.Join(outDir, outFile)

	doc := guide.FormatErrorDocument(generateErrorMessage, generateServiceName, generateErrorDetails, time.Now())
	if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write error document: %w", err)
	}

	fmt.Printf("Error document generated: %s\n", outPath)
	return nil
}
