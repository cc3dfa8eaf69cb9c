package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/acervera/expenditure-control/internal/invoice"
	"github.com/acervera/expenditure-control/internal/journal"
	"github.com/acervera/expenditure-control/internal/pdftext"
	"github.com/acervera/expenditure-control/internal/stats"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("expenditure-control")
	var (
		dir         = fs.StringLong("dir", ".", "Directory containing invoice PDFs")
		dbPath      = fs.StringLong("db", "gastos.db", "Record database file path")
		journalPath = fs.StringLong("journal", "", "Scan journal file path (empty disables skip-unchanged)")
		exportDir   = fs.StringLong("export", "", "Directory to export the tables into (empty disables export)")
		format      = fs.StringLong("format", "csv", "Export format: 'csv' or 'xlsx'")
		noForecast  = fs.BoolLong("no-forecast", "Skip the spending forecast")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENDITURE_CONTROL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx := context.Background()

	slog.Info("Opening record database", "path", *dbPath)
	store, err := invoice.NewSQLiteStore(*dbPath)
	if err != nil {
		slog.Error("Failed to open record database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var j *journal.Journal
	if *journalPath != "" {
		j, err = journal.Open(*journalPath)
		if err != nil {
			slog.Error("Failed to open scan journal", "error", err)
			os.Exit(1)
		}
		defer j.Close()
	}

	service := invoice.NewService(pdftext.NewFitzExtractor(), store, j)

	result, err := service.ProcessDirectory(ctx, *dir)
	if err != nil {
		slog.Error("Batch failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Artículos encontrados: %d\n", len(result.Items.Records))
	fmt.Printf("Facturas procesadas: %d\n", len(result.Totals.Records))
	for _, failure := range result.Failures {
		fmt.Printf("No se pudo leer: %s (%v)\n", failure.File, failure.Err)
	}

	if len(result.Items.Records) == 0 && len(result.Totals.Records) == 0 {
		fmt.Println("No se encontraron filas válidas en los documentos.")
		os.Exit(0)
	}

	items, totals, err := store.FetchAll(ctx)
	if err != nil {
		slog.Error("Failed to fetch records", "error", err)
		os.Exit(1)
	}

	printSummary(stats.Summarize(items, totals))

	if !*noForecast {
		printForecast(items)
	}

	if *exportDir != "" {
		switch *format {
		case "csv":
			err = invoice.ExportCSV(*exportDir, result.Items, result.Totals)
		case "xlsx":
			err = invoice.ExportXLSX(*exportDir, result.Items, result.Totals)
		default:
			slog.Error("Invalid export format", "format", *format, "valid", "csv or xlsx")
			os.Exit(1)
		}
		if err != nil {
			slog.Error("Export failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Tablas exportadas en: %s\n", *exportDir)
	}
}

func printSummary(summary stats.Summary) {
	fmt.Println("\n=== ESTADÍSTICAS ===")
	fmt.Printf("Total facturas: %d\n", summary.TotalInvoices)
	fmt.Printf("Total artículos: %d\n", summary.TotalItems)
	fmt.Printf("Total gastado: %s EUR\n", summary.TotalSpent.StringFixed(2))
	fmt.Printf("Precio medio por artículo: %s EUR\n", summary.AvgItemPrice.StringFixed(2))
	fmt.Printf("Gasto promedio por factura: %s EUR\n", summary.AvgInvoiceTotal.StringFixed(2))
	fmt.Printf("Total impuestos: %s EUR\n", summary.TotalTaxes.StringFixed(2))

	if summary.MostExpensiveItem != nil {
		fmt.Printf("Artículo más caro: %s (%s EUR)\n",
			summary.MostExpensiveItem.Description,
			summary.MostExpensiveItem.UnitPrice.StringFixed(2))
	}

	if len(summary.MonthlySpending) > 0 {
		fmt.Println("\nGastos mensuales:")
		for _, bucket := range summary.MonthlySpending {
			fmt.Printf("  %s: %s EUR\n", bucket.Month, bucket.Value.StringFixed(2))
		}
	}

	if len(summary.TopProducts) > 0 {
		fmt.Println("\nProductos más comprados:")
		for i, product := range summary.TopProducts {
			if i == 10 {
				break
			}
			fmt.Printf("  %s: %d\n", product.Description, product.Count)
		}
	}
}

func printForecast(items []invoice.ItemRecord) {
	points, ok := stats.Forecast(items)
	if !ok {
		fmt.Println("\nPredicción no disponible: se necesitan al menos 3 meses de historial.")
		return
	}

	fmt.Println("\nPredicción de gasto (6 meses):")
	for _, point := range points {
		fmt.Printf("  %s: %.2f EUR\n", point.Month, point.Value)
	}
}
