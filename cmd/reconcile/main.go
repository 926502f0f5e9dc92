// Command reconcile compares an extracted purchase order against an
// extracted proforma invoice and prints the discrepancy report.
// Usage: go run ./cmd/reconcile -po po.json -invoice pi.json [-out dir]
// With -out, the JSON, CSV and Excel reports are written to dir.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"docrecon/internal/domain"
	"docrecon/internal/logger"
	"docrecon/internal/parser"
	"docrecon/internal/reconcile"
	"docrecon/internal/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	poPath := fs.String("po", "", "path to the extracted purchase order JSON")
	invPath := fs.String("invoice", "", "path to the extracted proforma invoice JSON")
	qtyTol := fs.Float64("qty-tol", reconcile.DefaultTolerances().QuantityPct, "quantity tolerance in percent")
	priceTol := fs.Float64("price-tol", reconcile.DefaultTolerances().PricePct, "price tolerance in percent")
	strategy := fs.String("key-strategy", string(reconcile.DefaultKeyStrategy), "item key strategy: description or sku")
	outDir := fs.String("out", "", "directory for the JSON, CSV and Excel reports")
	verbose := fs.Bool("v", false, "log per-item classification")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *poPath == "" || *invPath == "" {
		return errors.New("both -po and -invoice are required")
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Service: "docrecon-cli", Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	p, err := parser.NewJSONParser()
	if err != nil {
		return err
	}
	po, err := readDocument(p, *poPath)
	if err != nil {
		return err
	}
	inv, err := readDocument(p, *invPath)
	if err != nil {
		return err
	}

	cmp, err := reconcile.NewComparator(reconcile.Options{
		Tolerances:  reconcile.Tolerances{QuantityPct: *qtyTol, PricePct: *priceTol},
		KeyStrategy: reconcile.KeyStrategy(*strategy),
		Logger:      log,
	})
	if err != nil {
		return err
	}

	comparison := cmp.Compare(po, inv)
	in := report.Input{
		Comparison:  comparison,
		Alerts:      reconcile.SynthesizeAlerts(comparison),
		GeneratedAt: time.Now().UTC(),
	}
	log.Info("comparison complete",
		zap.Int("items", comparison.TotalItemsCompared),
		zap.Int("discrepant", comparison.DiscrepantItems),
		zap.Int("alerts", len(in.Alerts)),
	)

	if *outDir != "" {
		if err := writeReports(*outDir, in); err != nil {
			return err
		}
	}
	return report.WriteJSON(stdout, in)
}

func readDocument(p *parser.JSONParser, path string) (domain.ExtractedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := p.Decode(data)
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeReports(dir string, in report.Input) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, f := range report.Formats {
		if err := writeReport(filepath.Join(dir, f.DefaultName()), f, in); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, f report.Format, in report.Input) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := report.Render(out, f, in); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
