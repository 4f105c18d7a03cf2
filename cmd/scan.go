package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shelfscan/shelfscan/internal/pipeline"
	"github.com/shelfscan/shelfscan/internal/utils"
	"github.com/shelfscan/shelfscan/pkg/decode"
	"github.com/shelfscan/shelfscan/pkg/lookup"
	"github.com/shelfscan/shelfscan/pkg/store"
)

// scanCmd implements: shelfscan scan <input_folder> <output_folder> <store_path>
var scanCmd = &cobra.Command{
	Use:   "scan <input_folder> <output_folder> <store_path>",
	Short: "Scan a folder of images for barcodes and build the product report",
	Long: `Scans every .png/.jpg/.jpeg file in the input folder, resolves each unique
barcode against the product lookup service, and writes the annotated images,
detected_barcodes.csv and the SQLite record store.

Unreadable images and failed lookups are logged and skipped; the run only
fails when a sink (report or store) cannot be written.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir, outputDir, storePath := args[0], args[1], args[2]

		if info, err := os.Stat(inputDir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("input folder not found: %s", inputDir)
			}
			return err
		} else if !info.IsDir() {
			return fmt.Errorf("input path is not a folder: %s", inputDir)
		}

		baseURL, _ := cmd.Flags().GetString("lookup-url")
		if baseURL == "" {
			baseURL = viper.GetString("lookup.base_url")
		}
		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = viper.GetString("lookup.api_key")
		}

		lock, err := utils.NewStoreLock(storePath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := store.Open(storePath)
		if err != nil {
			return fmt.Errorf("open record store: %w", err)
		}
		defer db.Close()

		sum, err := pipeline.Run(cmd.Context(), pipeline.Options{
			InputDir:  inputDir,
			OutputDir: outputDir,
			Decoder:   decode.New(),
			Lookup:    lookup.NewClient(baseURL, apiKey),
			Store:     db,
		})
		if err != nil {
			return err
		}

		utils.Log.Infof("Scanned %d images (%d skipped): %d detections, %d unique barcodes, %d duplicate skips, %d lookup misses",
			sum.ImagesProcessed, sum.ImagesSkipped, sum.Detections, sum.UniqueCodes, sum.DuplicateSkips, sum.LookupMisses)
		utils.Log.Infof("Barcode information saved to: %s", sum.ReportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("lookup-url", "", "Base URL of the product lookup service (overrides config)")
	scanCmd.Flags().String("api-key", "", "API key for the product lookup service (overrides config)")
}
