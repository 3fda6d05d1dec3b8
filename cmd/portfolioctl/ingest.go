package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
	"github.com/pzaman/portfolio-backend-go/internal/service"
)

func newIngestCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <dataset> <file.csv>",
		Short: "Import a CSV file",
		Long: "Import a CSV file into the database. Datasets: " +
			strings.Join(models.Datasets, ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			_, db, err := opts.open()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewIngestService(repository.NewIngestRepository(db), nil, nil)
			batch, err := svc.Import(cmd.Context(), dataset, filepath.Base(path), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: read=%d inserted=%d skipped=%d\n",
				batch.Dataset, batch.ID, batch.RowsRead, batch.RowsInserted, batch.RowsSkipped)
			return nil
		},
	}
}
