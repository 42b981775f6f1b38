// Command docprep processes documents into text, chunks and metadata,
// printing results as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gavelworks/docprep"
)

var (
	configPath  string
	docType     string
	enableOCR   bool
	ocrLanguage string
	chunkSize   int
	overlap     int
	verbose     bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docprep",
		Short:         "Extract, chunk and analyze documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(processCmd(), formatsCmd())
	return root
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Process a document and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ocr") {
				cfg.EnableOCR = enableOCR
			}
			if ocrLanguage != "" {
				cfg.OCRLanguage = ocrLanguage
			}
			if chunkSize > 0 {
				cfg.MaxChunkSize = chunkSize
			}
			if overlap > 0 {
				cfg.ChunkOverlap = overlap
			}

			p := docprep.NewProcessor(cfg)
			res := p.Process(cmd.Context(), args[0], docType)
			if err := printJSON(res); err != nil {
				return err
			}
			if !res.Success {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&docType, "type", "t", docprep.TypeContract, "document type (contract, legal, general, financial, technical)")
	cmd.Flags().BoolVar(&enableOCR, "ocr", false, "enable OCR for images and scanned PDF pages")
	cmd.Flags().StringVar(&ocrLanguage, "ocr-language", "", "OCR language code (e.g. eng, deu)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "override max chunk size in bytes")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "override chunk overlap in bytes")
	return cmd
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Report supported formats and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p := docprep.NewProcessor(cfg)
			return printJSON(p.SupportedFormats())
		},
	}
}

func loadConfig() (docprep.Config, error) {
	cfg := docprep.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = docprep.LoadConfig(configPath)
		if err != nil {
			return docprep.Config{}, err
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
