// Package main provides the CLI entry point for specsql.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/specsql-go/internal/config"
	"github.com/ukaji3/specsql-go/internal/logging"
	"github.com/ukaji3/specsql-go/pkg/specsql"
	"github.com/ukaji3/specsql-go/pkg/specsql/executor"
	"github.com/ukaji3/specsql-go/pkg/specsql/mapping"
	"github.com/ukaji3/specsql-go/pkg/specsql/output"
)

var (
	configPath string
	outputPath string
	rulesPath  string
	systemID   string
	systemDate string
	startSheet int
	dsn        string
	dsnFile    string
	driver     string

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "specsql",
		Short: "Generate SQL INSERT statements from item-definition workbooks",
		Long: `specsql reads item-definition workbooks (項目定義書) and renders the
records they describe as SQL INSERT statements.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Configuration file")

	generateCmd := &cobra.Command{
		Use:   "generate [input.xlsx]",
		Short: "Render INSERT statements for a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (\"-\" for stdout; default from config)")
	generateCmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Column-rule table (.txt, .json, .yaml or mapping .xlsx)")
	generateCmd.Flags().StringVar(&systemID, "system-id", "", "Fixed system id token (default: current time HHMMSS)")
	generateCmd.Flags().StringVar(&systemDate, "system-date", "", "Fixed system date token (default: today)")
	generateCmd.Flags().IntVar(&startSheet, "start-sheet", -1, "Index of the first sheet to read")

	runCmd := &cobra.Command{
		Use:   "run [input.sql]",
		Short: "Execute a generated SQL file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExecute,
	}
	runCmd.Flags().StringVar(&dsn, "dsn", "", "Connection string")
	runCmd.Flags().StringVar(&dsnFile, "dsn-file", "", "File holding the connection string")
	runCmd.Flags().StringVar(&driver, "driver", "", "Database driver: sqlserver, mysql, pgx")

	tableInfoCmd := &cobra.Command{
		Use:   "tableinfo [mapping.xlsx]",
		Short: "Convert a mapping workbook into a column-rule table",
		Args:  cobra.ExactArgs(1),
		RunE:  runTableInfo,
	}
	tableInfoCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	tablesCmd := &cobra.Command{
		Use:   "tables [input.sql]",
		Short: "List the tables an SQL file inserts into",
		Args:  cobra.ExactArgs(1),
		RunE:  runTables,
	}
	tablesCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(generateCmd, runCmd, tableInfoCmd, tablesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	rules := cfg.Extract.Rules
	if rulesPath != "" {
		rules = rulesPath
	}
	info, err := mapping.Load(rules)
	if err != nil {
		return fmt.Errorf("failed to load column rules: %w", err)
	}

	opts := specsql.DefaultOptions()
	opts.StartSheet = cfg.Extract.StartSheet
	opts.SkipSheets = cfg.Extract.SkipSheets
	opts.CategoryCell = cfg.Extract.CategoryCell
	opts.SystemID = cfg.Extract.SystemID
	opts.SystemDate = cfg.Extract.SystemDate
	opts.MappingOverrides = cfg.Mappings
	if systemID != "" {
		opts.SystemID = systemID
	}
	if systemDate != "" {
		opts.SystemDate = systemDate
	}
	if startSheet >= 0 {
		opts.StartSheet = startSheet
	}

	result, err := specsql.Generate(inputPath, info, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	out := cfg.Output.Path
	if outputPath != "" {
		out = outputPath
	}
	if out == "-" {
		return output.WriteSQL(os.Stdout, result.Statements)
	}
	if err := output.WriteFile(out, result.Statements); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%d statements written to %s\n", len(result.Statements), out)
	return nil
}

func runExecute(cmd *cobra.Command, args []string) error {
	conn := cfg.Database.DSN
	if dsnFile != "" {
		var err error
		if conn, err = executor.ReadDSN(dsnFile); err != nil {
			return err
		}
	}
	if dsn != "" {
		conn = dsn
	}
	if conn == "" {
		return fmt.Errorf("no connection string: set --dsn, --dsn-file, database.dsn or SPECSQL_DSN")
	}
	drv := cfg.Database.Driver
	if driver != "" {
		drv = driver
	}

	ctx := context.Background()
	db, err := executor.Open(ctx, drv, conn)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := executor.RunFile(ctx, db, args[0], nil)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%d statements executed, %d failed\n", result.Executed, result.Failed)
	return nil
}

func runTableInfo(cmd *cobra.Command, args []string) error {
	doc, err := mapping.ReadWorkbook(args[0])
	if err != nil {
		return err
	}
	if outputPath == "" {
		if err := mapping.WriteTableInfo(os.Stdout, doc); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := mapping.WriteTableInfo(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return f.Close()
}

func runTables(cmd *cobra.Command, args []string) error {
	names, err := mapping.ReadTableNames(args[0])
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(strings.Join(names, "\n"))
		return nil
	}
	return output.WriteFile(outputPath, names)
}
