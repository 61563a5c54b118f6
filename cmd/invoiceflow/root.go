package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"invoiceflow/internal/config"
	"invoiceflow/internal/extract"
	"invoiceflow/internal/fileutil"
	"invoiceflow/internal/gcp"
	"invoiceflow/internal/runlog"
	"invoiceflow/internal/services"
	"invoiceflow/internal/vendors"
)

type processOptions struct {
	file           string
	folder         string
	outputDir      string
	move           bool
	vendorOverride string
	maxConcurrent  int
	vendorsFile    string
	logFile        string
	runLogFile     string
	projectID      string
	region         string
	model          string
}

func newRootCommand() *cobra.Command {
	var opts processOptions
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "invoiceflow",
		Short:         "Process PDF invoices with AI extraction and vendor reconciliation",
		Long: `invoiceflow extracts structured fields from PDF invoices using a
generative model, reconciles vendor names against a canonical registry,
and renames each invoice deterministically into the output directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, &opts, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVar(&opts.file, "file", "", "Path to a single PDF file to process")
	rootCmd.Flags().StringVar(&opts.folder, "folder", "", "Path to a folder of PDF files to process")
	rootCmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for the renamed invoice files")
	rootCmd.Flags().BoolVar(&opts.move, "move", false, "Move processed files instead of copying")
	rootCmd.Flags().StringVar(&opts.vendorOverride, "vendor-override", "", "Canonical vendor name overriding AI detection; detected vendors become aliases")
	rootCmd.Flags().IntVar(&opts.maxConcurrent, "max-concurrent", 0, "Maximum number of invoices processed concurrently")
	rootCmd.Flags().StringVar(&opts.vendorsFile, "vendors-file", "", "Path to the vendor registry file")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "Append processing logs to this file")
	rootCmd.Flags().StringVar(&opts.runLogFile, "run-log-file", "", "Append per-run JSON records to this file")
	rootCmd.Flags().StringVar(&opts.projectID, "project", "", "Google Cloud project ID")
	rootCmd.Flags().StringVar(&opts.region, "region", "", "Vertex AI region")
	rootCmd.Flags().StringVar(&opts.model, "model", "", "Generative model to use for extraction")

	rootCmd.MarkFlagsMutuallyExclusive("file", "folder")
	rootCmd.MarkFlagsOneRequired("file", "folder")

	rootCmd.AddCommand(newVendorsCommand(&configFlag))
	rootCmd.AddCommand(newRunsCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}

func runProcess(cmd *cobra.Command, opts *processOptions, configPath string) error {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, opts, cfg)

	setupLogging(cfg.Paths.LogFile)

	paths, err := gatherInputs(opts)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No PDF files found in %q.\n", opts.folder)
		return nil
	}

	ctx := cmd.Context()
	client, err := gcp.NewVertexClient(ctx, cfg.Vertex.ProjectID, cfg.Vertex.Region, cfg.Vertex.Model)
	if err != nil {
		return fmt.Errorf("connect to Vertex AI: %w", err)
	}
	defer client.Close()

	processor := services.NewProcessor(
		services.NewGeminiExtractor(client),
		extract.Text,
		vendors.NewRegistrar(cfg.Paths.VendorsFile),
		services.ProcessorConfig{
			OutputDir:      cfg.Paths.OutputDir,
			MoveFiles:      cfg.Processing.MoveFiles,
			VendorOverride: opts.vendorOverride,
			MaxConcurrent:  cfg.Processing.MaxConcurrent,
		},
	)

	start := time.Now()
	results := processor.ProcessBatch(ctx, paths)
	duration := time.Since(start)

	succeeded := 0
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		status := "failed"
		if r != "" {
			status = "ok"
			succeeded++
		}
		rows = append(rows, []string{filepath.Base(paths[i]), status, r})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Source", "Status", "Renamed To"}, rows))
	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d/%d files in %s.\n", succeeded, len(paths), duration.Round(10*time.Millisecond))

	journal := runlog.NewJournal(cfg.Paths.RunLogFile)
	entry := runlog.Entry{
		RunID:           uuid.NewString(),
		Timestamp:       time.Now(),
		Input:           inputLabel(opts),
		OutputDir:       cfg.Paths.OutputDir,
		MoveFiles:       cfg.Processing.MoveFiles,
		VendorOverride:  opts.vendorOverride,
		MaxConcurrent:   cfg.Processing.MaxConcurrent,
		FilesProcessed:  len(paths),
		Succeeded:       succeeded,
		DurationSeconds: duration.Seconds(),
	}
	if err := journal.Append(entry); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not write run log: %v\n", err)
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over config file values.
func applyFlagOverrides(cmd *cobra.Command, opts *processOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Paths.OutputDir = opts.outputDir
	}
	if flags.Changed("move") {
		cfg.Processing.MoveFiles = opts.move
	}
	if flags.Changed("max-concurrent") {
		cfg.Processing.MaxConcurrent = opts.maxConcurrent
	}
	if flags.Changed("vendors-file") {
		cfg.Paths.VendorsFile = opts.vendorsFile
	}
	if flags.Changed("log-file") {
		cfg.Paths.LogFile = opts.logFile
	}
	if flags.Changed("run-log-file") {
		cfg.Paths.RunLogFile = opts.runLogFile
	}
	if flags.Changed("project") {
		cfg.Vertex.ProjectID = opts.projectID
	}
	if flags.Changed("region") {
		cfg.Vertex.Region = opts.region
	}
	if flags.Changed("model") {
		cfg.Vertex.Model = opts.model
	}
}

func gatherInputs(opts *processOptions) ([]string, error) {
	if opts.file != "" {
		if _, err := os.Stat(opts.file); err != nil {
			return nil, fmt.Errorf("file not found at %q", opts.file)
		}
		return []string{opts.file}, nil
	}

	info, err := os.Stat(opts.folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("folder not found at %q", opts.folder)
	}
	return fileutil.ListPDFs(opts.folder)
}

func inputLabel(opts *processOptions) string {
	if opts.file != "" {
		return opts.file
	}
	return opts.folder
}
