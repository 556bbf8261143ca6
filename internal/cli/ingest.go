package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	appRepos "github.com/oregondata/orschooldata/internal/app/repositories"
	"github.com/oregondata/orschooldata/internal/bootstrap"
	"github.com/oregondata/orschooldata/internal/db"
	"github.com/oregondata/orschooldata/internal/ingest"
)

var (
	ingestDir   string
	ingestFile  string
	ingestYears []int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load fall-membership extracts into the database",
	Long: `Parses ODE fall-membership extracts (fall_membership_<year>.csv),
derives district and statewide totals, and replaces each covered year in
the database in a single transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		repos := appRepos.NewRepositories(database.Pool)
		loader := ingest.NewLoader(repos.EnrollmentRepository, lgr)

		var result *ingest.Result
		if ingestFile != "" {
			result, err = loader.LoadFile(cmd.Context(), ingestFile)
		} else {
			dir := ingestDir
			if dir == "" {
				dir = cfg.Data.Dir
			}
			result, err = loader.LoadDirectory(cmd.Context(), dir, ingestYears)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows across years %v\n", result.RowsLoaded, result.YearsLoaded)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "Directory holding extracts (default: configured data dir)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Single extract file to load")
	ingestCmd.Flags().IntSliceVar(&ingestYears, "years", nil, "Only load these end-years")
	rootCmd.AddCommand(ingestCmd)
}
