package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shelfscan/shelfscan/pkg/store"
)

var storePath string

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the shelfscan record store",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the record store",
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, _ := cmd.Parent().PersistentFlags().GetString("storepath")

		if _, err := os.Stat(storePath); os.IsNotExist(err) {
			return fmt.Errorf("record store not found: %s", storePath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Record store schema:")
		schemaCmd := exec.Command(sqlitePath, storePath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, storePath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the records in the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, _ := cmd.Parent().PersistentFlags().GetString("storepath")

		if _, err := os.Stat(storePath); os.IsNotExist(err) {
			return fmt.Errorf("record store not found: %s", storePath)
		}

		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}

		if stats.Records == 0 {
			fmt.Println("No records in the store to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "RECORDS\tDISTINCT CODES\tDUPLICATES\t")
		fmt.Fprintf(w, "%d\t%d\t%d\t\n", stats.Records, stats.DistinctCodes, stats.Duplicates)
		w.Flush()

		return nil
	},
}

// dbHasCmd checks the store history for a serial code, the hook for
// cross-run duplicate checks.
var dbHasCmd = &cobra.Command{
	Use:   "has <serial_code>",
	Short: "Check whether a barcode is already recorded in the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, _ := cmd.Parent().PersistentFlags().GetString("storepath")

		if _, err := os.Stat(storePath); os.IsNotExist(err) {
			return fmt.Errorf("record store not found: %s", storePath)
		}

		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer db.Close()

		found, err := db.Exists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if found {
			fmt.Printf("%s is recorded in the store\n", args[0])
		} else {
			fmt.Printf("%s is not recorded in the store\n", args[0])
		}
		return nil
	},
}

// dbRecentCmd lists the latest inserted records.
var dbRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently recorded barcodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath, _ := cmd.Parent().PersistentFlags().GetString("storepath")
		limit, _ := cmd.Flags().GetInt("limit")

		if _, err := os.Stat(storePath); os.IsNotExist(err) {
			return fmt.Errorf("record store not found: %s", storePath)
		}

		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.ListRecent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No records in the store.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SERIAL CODE\tTITLE\tBRAND\tCATEGORY\tDUPLICATE\tINSERTED AT\t")
		for _, r := range records {
			dup := "No"
			if r.IsDuplicate {
				dup = "Yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				r.SerialCode, r.Title, r.Brand, r.Category, dup, r.InsertedAt.Format("2006-01-02 15:04:05"))
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbHasCmd)
	dbCmd.AddCommand(dbRecentCmd)
	dbCmd.PersistentFlags().StringVar(&storePath, "storepath", "shelfscan.sqlite", "Path to the SQLite record store")
	dbRecentCmd.Flags().Int("limit", 20, "Maximum number of records to list")
}
