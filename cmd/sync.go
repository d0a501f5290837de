package cmd

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull remote data and merge it into the local dataset",
	Long: `Run one pull-and-merge round trip against the configured webhook.
With --push, every local attendance record is re-sent afterwards, which
repairs a backend that lost data or missed earlier best-effort pushes.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("push", false, "Re-push all local records after the pull")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	report, err := comps.kiosk.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pulled %d staff and %d records; local dataset now has %d staff and %d records\n",
		report.PulledStaff, report.PulledRecords, report.Staff, report.Records)

	if !mustGetBool(cmd, "push") {
		return nil
	}

	settings, err := comps.kiosk.Settings(ctx)
	if err != nil {
		return err
	}
	records, err := comps.kiosk.History(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No local records to push")
		return nil
	}

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetDescription("Pushing records"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	var failed int
	for _, record := range records {
		if err := comps.webhook.PushRecord(ctx, settings.WebhookURL, record); err != nil {
			failed++
		}
		bar.Add(1)
	}
	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed to push", failed, len(records))
	}
	fmt.Printf("Pushed %d records\n", len(records))
	return nil
}
