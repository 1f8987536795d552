// Package main provides the sheetmap CLI: it mapifies one sheet of an xlsx
// workbook into JSON lines using pass-through validators.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dreamph/sheetmap"
)

var (
	sheetName    string
	sheetIndex   int
	columns      []string
	keepTitles   bool
	errorCells   string
	formulaCells string
	outputPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetmap [input.xlsx]",
		Short: "Convert spreadsheet rows into validated JSON records",
		Long: `sheetmap decodes an xlsx workbook and converts one sheet into JSON
records, one object per line, reporting precise cell locations on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	rootCmd.Flags().IntVar(&sheetIndex, "sheet-index", 0, "Sheet index, 0-based (ignored when --sheet is set)")
	rootCmd.Flags().StringSliceVar(&columns, "columns", nil, "Ordered column keys (required)")
	rootCmd.Flags().BoolVar(&keepTitles, "keep-titles", false, "Treat the first row as data instead of a header")
	rootCmd.Flags().StringVar(&errorCells, "error-cells", "error", "Error cell policy: error, as-number")
	rootCmd.Flags().StringVar(&formulaCells, "formula-cells", "error", "Formula cell policy: error, as-string")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}
	if len(columns) == 0 {
		return fmt.Errorf("--columns is required, e.g. --columns id,name,price")
	}

	spec := &sheetmap.ColumnSpec{
		Ordering:   columns,
		Validators: map[string]sheetmap.Validator{},
	}
	for _, key := range columns {
		spec.Validators[key] = sheetmap.Identity()
	}

	opts := []sheetmap.Option{
		sheetmap.SheetAt(sheetIndex),
		sheetmap.ErrorCellsAs(sheetmap.ErrorCellMode(errorCells)),
		sheetmap.FormulaCellsAs(sheetmap.FormulaCellMode(formulaCells)),
	}
	if sheetName != "" {
		opts = append(opts, sheetmap.Sheet(sheetName))
	}
	if keepTitles {
		opts = append(opts, sheetmap.KeepTitles())
	}

	records, err := sheetmap.ReadFile(inputPath, spec, opts...)
	if err != nil {
		if loc := sheetmap.OriginOf(err); loc != nil {
			log.Error("mapify failed", "location", loc.String(), "err", err)
		} else {
			log.Error("mapify failed", "err", err)
		}
		return fmt.Errorf("mapify %s: %w", inputPath, err)
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	log.Info("done",
		"file", inputPath,
		"records", len(records),
		"columns", strings.Join(columns, ","))
	return nil
}
