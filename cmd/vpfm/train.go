package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venomio/vpfm/internal/simulate"
)

func newTrainCmd() *cobra.Command {
	var uptoDate string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Refit player ratings and context boosters from historical data",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			driver := simulate.NewDriver(st, newLogger(cmd))
			if err := driver.TrainAndExtract(cmd.Context(), uptoDate); err != nil {
				return fmt.Errorf("train: %w", err)
			}
			fmt.Println("training complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&uptoDate, "upto", "", "upto date (YYYY-MM-DD), recorded in the training log; rows are not filtered by it")
	return cmd
}
