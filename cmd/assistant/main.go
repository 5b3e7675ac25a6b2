package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/ai"
	"github.com/dvloznov/finance-assistant/internal/analysis"
	"github.com/dvloznov/finance-assistant/internal/config"
	"github.com/dvloznov/finance-assistant/internal/docstore"
	infraBQ "github.com/dvloznov/finance-assistant/internal/infra/bigquery"
	"github.com/dvloznov/finance-assistant/internal/logger"
	"github.com/dvloznov/finance-assistant/internal/search"
	"github.com/dvloznov/finance-assistant/internal/service"
	"github.com/dvloznov/finance-assistant/internal/validate"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		runExtract(log)
	case "extract-doc":
		runExtractDoc(log)
	case "search":
		runSearch(log)
	case "ask":
		runAsk(log)
	case "report":
		runReport(log)
	case "respond":
		runRespond(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Assistant CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  assistant <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  extract      Create a transaction from a natural-language statement")
	fmt.Println("  extract-doc  Process document text (invoice, receipt) into a record")
	fmt.Println("  search       Search stored records with a natural-language query")
	fmt.Println("  ask          Analyze a query's intent without running a search")
	fmt.Println("  report       Generate a financial report (summary, cashflow, runway, ...)")
	fmt.Println("  respond      Generate a free-text answer to a financial question")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nRun 'assistant <command> -h' for more information on a command.")
}

// bootstrap loads config and builds the extraction engine shared by every
// command.
func bootstrap(ctx context.Context, log zerolog.Logger) (*config.Config, *ai.Engine) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	client, err := ai.NewClient(ctx, cfg.Model, log)
	if err != nil {
		log.Fatal().Err(err).Msg("creating completion client")
	}

	rules := validate.NewRules(cfg.Validation, log)
	return cfg, ai.NewEngine(client, cfg.Model, rules, log)
}

func runExtract(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	text := fs.String("text", "", "natural-language transaction statement")
	dryRun := fs.Bool("dry-run", false, "extract only, do not store")
	fs.Parse(os.Args[2:])

	if *text == "" {
		log.Fatal().Msg("-text is required")
	}

	ctx := context.Background()
	cfg, engine := bootstrap(ctx, log)

	if *dryRun {
		tx, err := engine.ExtractTransaction(ctx, *text)
		if err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}
		printJSON(tx)
		return
	}

	repo, err := infraBQ.NewRepository(ctx, cfg.BigQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("creating repository")
	}
	defer repo.Close()

	svc := service.NewTransactionService(engine, repo, log)
	result, err := svc.CreateFromText(ctx, *text)
	if err != nil {
		log.Fatal().Err(err).Msg("creating transaction")
	}
	printJSON(result)
}

func runExtractDoc(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract-doc", flag.ExitOnError)
	file := fs.String("file", "", "path to a text file with the document content")
	docType := fs.String("type", "invoice", "document type (invoice, receipt, ...)")
	dryRun := fs.Bool("dry-run", false, "extract only, do not store")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("reading document file")
	}

	ctx := context.Background()
	cfg, engine := bootstrap(ctx, log)

	if *dryRun {
		doc, err := engine.ExtractDocument(ctx, string(data), *docType)
		if err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}
		printJSON(doc)
		return
	}

	repo, err := infraBQ.NewRepository(ctx, cfg.BigQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("creating repository")
	}
	defer repo.Close()

	svc := service.NewDocumentService(engine, repo, docstore.New(cfg.Storage.Bucket), repo, log)
	result, err := svc.ProcessText(ctx, string(data), *file, *docType)
	if err != nil {
		log.Fatal().Err(err).Msg("processing document")
	}
	printJSON(result)
}

func runSearch(log zerolog.Logger) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("query", "", "natural-language search query")
	searchType := fs.String("type", "", "transactions, documents or all (default: infer)")
	limit := fs.Int("limit", 0, "max results (default from config)")
	fs.Parse(os.Args[2:])

	if *query == "" {
		log.Fatal().Msg("-query is required")
	}

	ctx := context.Background()
	cfg, engine := bootstrap(ctx, log)

	repo, err := infraBQ.NewRepository(ctx, cfg.BigQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("creating repository")
	}
	defer repo.Close()

	svc := search.NewService(engine, repo, cfg.Search.DefaultLimit, log)
	printJSON(svc.Search(ctx, *query, *searchType, *limit))
}

func runAsk(log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	query := fs.String("query", "", "query to analyze")
	fs.Parse(os.Args[2:])

	if *query == "" {
		log.Fatal().Msg("-query is required")
	}

	ctx := context.Background()
	_, engine := bootstrap(ctx, log)
	printJSON(engine.AnalyzeQuery(ctx, *query))
}

func runReport(log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	reportType := fs.String("type", "summary", "report type: summary, cashflow, category, runway, comparison, expenses")
	months := fs.Int("months", 0, "trailing months for runway/comparison reports")
	limit := fs.Int("limit", 0, "max entries for the expenses report")
	start := fs.String("start", "", "period start (YYYY-MM-DD)")
	end := fs.String("end", "", "period end (YYYY-MM-DD)")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	cfg, engine := bootstrap(ctx, log)

	repo, err := infraBQ.NewRepository(ctx, cfg.BigQuery)
	if err != nil {
		log.Fatal().Err(err).Msg("creating repository")
	}
	defer repo.Close()

	params := map[string]any{}
	if *months > 0 {
		params["months_back"] = *months
	}
	if *limit > 0 {
		params["limit"] = *limit
	}
	if *start != "" {
		params["period_start"] = *start
	}
	if *end != "" {
		params["period_end"] = *end
	}

	analyzer := analysis.NewAnalyzer(repo, log)
	svc := service.NewReportService(analyzer, engine, log)
	printJSON(svc.Generate(ctx, *reportType, params))
}

func runRespond(log zerolog.Logger) {
	fs := flag.NewFlagSet("respond", flag.ExitOnError)
	query := fs.String("query", "", "financial question")
	fs.Parse(os.Args[2:])

	if *query == "" {
		log.Fatal().Msg("-query is required")
	}

	ctx := context.Background()
	_, engine := bootstrap(ctx, log)

	answer, err := engine.GenerateResponse(ctx, *query, nil, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("generating response")
	}
	fmt.Println(answer)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
