package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"panelprep/internal/load"
	"panelprep/internal/metrics"
	"panelprep/internal/metrics/datadog"
	"panelprep/internal/panel"
	"panelprep/internal/storage"
	"panelprep/internal/table"

	// register all storage backends with the factory.
	_ "panelprep/internal/storage/all"
)

// main loads the two source tables, runs the reconciliation pipeline, writes
// the panel as CSV, and optionally inserts it into a database.
func main() {
	var (
		mediaPath  string
		extraPath  string
		outputPath string

		dateColumn       string
		geoColumn        string
		kpiColumn        string
		revenueColumn    string
		populationColumn string

		sep            string
		decimalSep     string
		thousandsSep   string
		dateLayout     string
		charset        string
		meanColumnsCSV string
		discountPrefix string

		computePerConversion bool
		aggregateWeekly      bool

		storeDSN     string
		storeBackend string
		storeTable   string

		metricsBackendFlg string
	)

	flag.StringVar(&mediaPath, "media", "", "media input file (csv, xlsx or html)")
	flag.StringVar(&extraPath, "extra", "", "extra-variables input file (csv, xlsx or html)")
	flag.StringVar(&outputPath, "output", "", "output CSV path (default stdout)")

	flag.StringVar(&dateColumn, "date-column", "time", "date column in both inputs")
	flag.StringVar(&geoColumn, "geo-column", "geo", "geo column, keyed only when both inputs carry it")
	flag.StringVar(&kpiColumn, "kpi-column", "conversions", "source column for conversions")
	flag.StringVar(&revenueColumn, "revenue-column", "revenue_per_conversion", "source column for revenue per conversion")
	flag.StringVar(&populationColumn, "population-column", "population", "source column for population")

	flag.StringVar(&sep, "sep", "", "CSV field separator (default: detect)")
	flag.StringVar(&decimalSep, "decimal", ".", "decimal separator in numeric cells")
	flag.StringVar(&thousandsSep, "thousands", "", "thousands separator in numeric cells")
	flag.StringVar(&dateLayout, "date-layout", "", "explicit Go time layout for dates (default: infer)")
	flag.StringVar(&charset, "charset", "", "input charset: utf-8, latin1, windows-1252 (default: detect)")
	flag.StringVar(&meanColumnsCSV, "mean-columns", "", "comma-separated columns averaged on weekly aggregation (default: built-in survey set)")
	flag.StringVar(&discountPrefix, "discount-prefix", "descuento", "column name prefix also averaged on weekly aggregation")

	flag.BoolVar(&computePerConversion, "compute-per-conversion", false, "divide the revenue column by the kpi column")
	flag.BoolVar(&aggregateWeekly, "aggregate-weekly", false, "aggregate daily rows to Monday-start weeks")

	flag.StringVar(&storeDSN, "store", "", "DSN of a database to insert the panel into (disabled when empty)")
	flag.StringVar(&storeBackend, "store-backend", "sqlite", "storage backend (postgres, sqlite, mssql)")
	flag.StringVar(&storeTable, "store-table", "panel", "destination table name")

	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend (datadog, none)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if mediaPath == "" || extraPath == "" {
		fmt.Fprintln(os.Stderr, "usage: panelprep -media media.csv -extra extra.csv [-output panel.csv]")
		os.Exit(2)
	}

	// Decide metrics backend: flag → env → disabled.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			Tags: datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	loadOpts := load.Options{Comma: separatorRune(sep), Charset: charset}
	media, err := loadTable(mediaPath, loadOpts)
	if err != nil {
		fatalf("load media: %v", err)
	}
	extra, err := loadTable(extraPath, loadOpts)
	if err != nil {
		fatalf("load extra: %v", err)
	}

	cfg := panel.Config{
		DateColumn:           dateColumn,
		GeoColumn:            geoColumn,
		KPIColumn:            kpiColumn,
		RevenueColumn:        revenueColumn,
		PopulationColumn:     populationColumn,
		ComputePerConversion: computePerConversion,
		AggregateWeekly:      aggregateWeekly,
		DecimalSep:           decimalSep,
		ThousandsSep:         thousandsSep,
		DateLayout:           dateLayout,
		DiscountPrefix:       discountPrefix,
	}
	if meanColumnsCSV != "" {
		cfg.MeanColumns = splitCSV(meanColumnsCSV)
	}
	if *verbose {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	start := time.Now()
	res, err := panel.Run(cfg, media, extra)
	if err != nil {
		fatalf("%v", err)
	}
	if *verbose {
		log.Printf("panel: rows=%d duplicates_dropped=%d unmatched_dropped=%d coerced_missing=%d rows_inserted=%d values_imputed=%d",
			res.Panel.NumRows(), res.Stats.DuplicatesDropped, res.Stats.UnmatchedDropped,
			res.Stats.CoercedMissing, res.Stats.RowsInserted, res.Stats.ValuesImputed)
	}

	if err := writePanel(outputPath, res.Panel, load.WriteOptions{Comma: separatorRune(sep), DecimalSep: decimalSep}); err != nil {
		fatalf("write output: %v", err)
	}

	if storeDSN != "" {
		if err := storePanel(context.Background(), res.Panel, storeBackend, storeDSN, storeTable, geoColumn, *verbose); err != nil {
			fatalf("store panel: %v", err)
		}
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// loadTable picks a reader by file extension.
func loadTable(path string, opts load.Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return load.ReadXLSX(f)
	case ".html", ".htm":
		return load.ReadHTMLTable(f)
	default:
		return load.ReadCSV(f, opts)
	}
}

func writePanel(path string, t *table.Table, opts load.WriteOptions) error {
	if path == "" {
		return load.WriteCSV(os.Stdout, t, opts)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := load.WriteCSV(f, t, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func storePanel(ctx context.Context, t *table.Table, backend, dsn, tableName, geoColumn string, verbose bool) error {
	repo, err := storage.New(ctx, storage.Config{Kind: backend, DSN: dsn})
	if err != nil {
		return err
	}
	defer repo.Close()

	spec := storage.SpecFor(tableName, t, panel.RoleDate, geoColumn)
	if err := repo.EnsureTable(ctx, spec); err != nil {
		return err
	}
	n, err := repo.InsertRows(ctx, spec, storage.RowsFor(t))
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("store: backend=%s table=%s inserted=%d", backend, tableName, n)
	}
	return nil
}

// separatorRune maps the -sep flag to a rune; empty means sniff on read and
// ',' on write.
func separatorRune(s string) rune {
	if s == "" {
		return 0
	}
	if s == `\t` {
		return '\t'
	}
	return []rune(s)[0]
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
