package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	cardkit "github.com/roadmaplab/cardkit"
	"github.com/roadmaplab/cardkit/pkg/card"
	"github.com/roadmaplab/cardkit/pkg/convert"
	"github.com/roadmaplab/cardkit/pkg/editor"
	"github.com/roadmaplab/cardkit/pkg/genai"
	"github.com/roadmaplab/cardkit/pkg/resolver"
	"github.com/roadmaplab/cardkit/pkg/schema"
	"github.com/roadmaplab/cardkit/pkg/simplify"
)

func main() {
	mode := flag.String("mode", "edit", "mode: edit, convert, extract, validate, export")
	kindFlag := flag.String("kind", "model", "card kind: model or dataset")
	schemaPath := flag.String("schema", "schemas/base-model-schema.json", "schema document path or URL")
	customURL := flag.String("custom-url", "", "custom schema URL override")
	input := flag.String("in", "", "input file (record or document text)")
	output := flag.String("out", "", "output file (stdout if empty)")
	configPath := flag.String("config", "", "generation config file for extract mode")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	kind, err := card.ParseKind(*kindFlag)
	if err != nil {
		log.Fatalf("Invalid kind: %v", err)
	}

	ctx := context.Background()
	loader := cardkit.NewLoader(cardkit.LoaderOptions{AllowHTTP: true, RequestTimeout: 30 * time.Second})

	switch *mode {
	case "edit":
		runEdit(ctx, loader, kind, *schemaPath, *customURL, *input, *output, logger)
	case "convert":
		runConvert(kind, *input, *output)
	case "extract":
		runExtract(ctx, loader, kind, *schemaPath, *configPath, *input, *output, logger)
	case "validate":
		runValidate(ctx, loader, kind, *schemaPath, *input, logger)
	case "export":
		runExport(ctx, loader, kind, *schemaPath, *input, *output, logger)
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
}

func runEdit(ctx context.Context, loader schema.Loader, kind card.Kind, schemaPath, customURL, input, output string, logger *slog.Logger) {
	session := openSession(ctx, loader, kind, schemaPath, customURL, input, logger)

	driver := editor.NewSurveyDriver()
	if err := editor.Fill(ctx, driver, session); err != nil {
		log.Fatalf("Editing failed: %v", err)
	}

	report, err := session.Validate()
	if err != nil {
		log.Fatalf("Validation failed to run: %v", err)
	}
	for _, msg := range report.Messages() {
		fmt.Fprintln(os.Stderr, "validation:", msg)
	}

	name, data, err := session.ExportJSON(time.Now())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	writeOutput(output, name, data)
}

func runConvert(kind card.Kind, input, output string) {
	payload := readRecord(input)

	var (
		out   map[string]any
		warns []convert.Warning
	)
	if card.DetectFormat(input, payload) == card.FormatLegacy {
		out, warns = convert.ToCanonical(payload, kind)
	} else {
		if _, record, ok := card.RecordFromEnvelope(payload); ok {
			payload = record
		}
		out, warns = convert.ToLegacy(payload, kind)
	}
	for _, warn := range warns {
		fmt.Fprintln(os.Stderr, "warning:", warn.String())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	writeOutput(output, "converted.json", data)
}

func runExtract(ctx context.Context, loader schema.Loader, kind card.Kind, schemaPath, configPath, input, output string, logger *slog.Logger) {
	if input == "" {
		log.Fatalf("extract mode requires -in")
	}
	text, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	cfg := genai.Config{}
	if configPath != "" {
		cfg, err = genai.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	catalog, err := resolver.NewCatalog(loader, nil, map[card.Kind]schema.Source{
		card.KindModel:   parseSource(schemaPath),
		card.KindDataset: parseSource(strings.ReplaceAll(schemaPath, "model", "dataset")),
	}, logger)
	if err != nil {
		log.Fatalf("Failed to build schema catalog: %v", err)
	}

	pipeline, err := cardkit.NewExtractionPipeline(cfg, catalog, logger)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	result, err := pipeline.RunDocument(ctx, input, text)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	data, err := json.MarshalIndent(card.Envelope(result.Kind, result.Record), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	writeOutput(output, "extracted.json", data)
}

func runValidate(ctx context.Context, loader schema.Loader, kind card.Kind, schemaPath, input string, logger *slog.Logger) {
	session := openSession(ctx, loader, kind, schemaPath, "", input, logger)
	report, err := session.Validate()
	if err != nil {
		log.Fatalf("Validation failed to run: %v", err)
	}
	if report.Valid {
		fmt.Println("valid")
		return
	}
	for _, msg := range report.Messages() {
		fmt.Println(msg)
	}
	os.Exit(1)
}

func runExport(ctx context.Context, loader schema.Loader, kind card.Kind, schemaPath, input, output string, logger *slog.Logger) {
	session := openSession(ctx, loader, kind, schemaPath, "", input, logger)

	if strings.HasSuffix(strings.ToLower(output), ".txt") {
		name, data, warns, err := session.ExportLegacy(time.Now())
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		for _, warn := range warns {
			fmt.Fprintln(os.Stderr, "warning:", warn.String())
		}
		writeOutput(output, name, data)
		return
	}

	name, data, err := session.ExportJSON(time.Now())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	writeOutput(output, name, data)
}

func openSession(ctx context.Context, loader schema.Loader, kind card.Kind, schemaPath, customURL, input string, logger *slog.Logger) *editor.Session {
	catalog, err := resolver.NewCatalog(loader, nil, map[card.Kind]schema.Source{
		kind: parseSource(schemaPath),
	}, logger)
	if err != nil {
		log.Fatalf("Failed to build schema catalog: %v", err)
	}
	loaded, err := catalog.Load(ctx, kind, customURL)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	var initial map[string]any
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		imported, err := editor.ImportRecord(input, data)
		if err != nil {
			log.Fatalf("Failed to import record: %v", err)
		}
		if imported.Kind != kind {
			log.Fatalf("Input is a %s record, expected %s", imported.Kind, kind)
		}
		for _, warn := range imported.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", warn.String())
		}
		initial = imported.Record
	}

	session, err := cardkit.NewSession(kind, loaded.Document, simplify.Apply(loaded.Resolved), initial, logger)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	return session
}

func readRecord(path string) map[string]any {
	if path == "" {
		log.Fatalf("convert mode requires -in")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Fatalf("Failed to parse input: %v", err)
	}
	return payload
}

func writeOutput(path, fallbackName string, data []byte) {
	if path == "" {
		fmt.Println(string(data))
		return
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = strings.TrimRight(path, "/") + "/" + fallbackName
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Written to %s\n", path)
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		src, err := schema.SourceFromURL(path)
		if err != nil {
			log.Fatalf("Invalid schema URL: %v", err)
		}
		return src
	}
	return schema.SourceFromFile(path)
}
