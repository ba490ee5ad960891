package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docmatch/internal"
	"docmatch/internal/config"
	"docmatch/internal/learning"
	"docmatch/internal/pipeline"
	"docmatch/internal/storage"
	"docmatch/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg)
	must(err)
	defer kv.Close()

	engine := learning.NewEngine(ctx, cfg, kv, log.New(os.Stderr, "", log.LstdFlags))

	cmd := os.Args[1]
	switch cmd {
	case "rank":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		catalogPath := fs.String("catalog", "", "template catalog (yaml|json)")
		input := fs.String("input", "", "extracted fields file")
		inType := fs.String("type", "json", "json|xlsx|html")
		base := fs.String("base", "", "base confidence per template: id=0.8,id2=0.4")
		_ = fs.Parse(os.Args[2:])
		if *catalogPath == "" || *input == "" {
			must(fmt.Errorf("--catalog and --input are required"))
		}
		candidates, err := pipeline.LoadCatalog(*catalogPath)
		must(err)
		fields, err := pipeline.ExtractFieldsFromInput(*inType, *input)
		must(err)
		baseConfidence, err := parseBaseConfidence(*base)
		must(err)
		printJSON(engine.Rank(candidates, fields, baseConfidence))
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		catalogPath := fs.String("catalog", "", "template catalog (yaml|json)")
		input := fs.String("input", "", "extracted fields file")
		inType := fs.String("type", "json", "json|xlsx|html")
		base := fs.String("base", "", "base confidence per template: id=0.8,id2=0.4")
		docName := fs.String("doc", "", "document name, defaults to the input file name")
		_ = fs.Parse(os.Args[2:])
		if *catalogPath == "" || *input == "" {
			must(fmt.Errorf("--catalog and --input are required"))
		}
		candidates, err := pipeline.LoadCatalog(*catalogPath)
		must(err)
		fields, err := pipeline.ExtractFieldsFromInput(*inType, *input)
		must(err)
		baseConfidence, err := parseBaseConfidence(*base)
		must(err)
		name := strings.TrimSpace(*docName)
		if name == "" {
			name = filepath.Base(*input)
		}
		result, err := engine.ProcessDocument(ctx, learning.Document{
			Name:           name,
			Candidates:     candidates,
			Fields:         fields,
			BaseConfidence: baseConfidence,
		})
		must(err)
		printJSON(result)
	case "feedback":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		templateID := fs.String("template", "", "template id")
		docName := fs.String("doc", "", "document name")
		feedback := fs.String("feedback", "", "positive|negative|neutral")
		corrected := fs.String("corrected", "", "comma separated corrected field ids")
		_ = fs.Parse(os.Args[2:])
		if *templateID == "" || *docName == "" {
			must(fmt.Errorf("--template and --doc are required"))
		}
		ok, err := engine.RecordFeedback(ctx, *templateID, *docName, internal.UserFeedback(strings.ToLower(*feedback)), splitList(*corrected))
		must(err)
		if !ok {
			must(fmt.Errorf("no usage for template=%s doc=%s", *templateID, *docName))
		}
		fmt.Printf("feedback recorded template=%s doc=%s\n", *templateID, *docName)
	case "analytics:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		templateID := fs.String("template", "", "template id, empty for a summary of all")
		_ = fs.Parse(os.Args[2:])
		if *templateID == "" {
			printJSON(engine.Summaries())
			return
		}
		stats := engine.GetAnalytics(*templateID)
		if stats == nil {
			must(fmt.Errorf("no analytics for template=%s", *templateID))
		}
		printJSON(stats)
	case "analytics:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		path := strings.TrimSpace(*out)
		if path == "" {
			path = filepath.Join(cfg.OutputDir, fmt.Sprintf("analytics_%s.xlsx", time.Now().UTC().Format("20060102T150405Z")))
		}
		summaries := engine.Summaries()
		must(pipeline.ExportAnalyticsXLSX(summaries, engine.AllAnalytics(), path))
		fmt.Printf("exported %d templates to %s\n", len(summaries), path)
	case "threshold":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		templateID := fs.String("template", "", "template id")
		_ = fs.Parse(os.Args[2:])
		if *templateID == "" {
			must(fmt.Errorf("--template is required"))
		}
		printJSON(map[string]any{
			"templateId":  *templateID,
			"threshold":   engine.Threshold(*templateID),
			"suggestions": engine.Suggestions(*templateID),
		})
	default:
		usage()
		os.Exit(1)
	}
}

// parseBaseConfidence reads "id=0.8,id2=80%" into a map.
func parseBaseConfidence(input string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, pair := range splitList(input) {
		id, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid base confidence %q, want id=value", pair)
		}
		value, ok := util.ParseNumber(raw)
		if !ok {
			return nil, fmt.Errorf("invalid base confidence value for %s: %q", id, raw)
		}
		out[strings.TrimSpace(id)] = value
	}
	return out, nil
}

func splitList(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	must(enc.Encode(v))
}

func usage() {
	fmt.Println("usage: docmatch <command>")
	fmt.Println("commands:")
	fmt.Println("  rank --catalog=templates.yaml --input=fields.json [--type=json|xlsx|html] [--base=id=0.8,...]")
	fmt.Println("  process --catalog=templates.yaml --input=fields.json [--type=...] [--base=...] [--doc=name]")
	fmt.Println("  feedback --template=id --doc=name --feedback=positive|negative|neutral [--corrected=f1,f2]")
	fmt.Println("  analytics:show [--template=id]")
	fmt.Println("  analytics:export [--out=./out/analytics.xlsx]")
	fmt.Println("  threshold --template=id")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
