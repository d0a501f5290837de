package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facekiosk/facekiosk/internal/webhook"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Inspect the webhook endpoint",
}

var webhookTestCmd = &cobra.Command{
	Use:   "test [url]",
	Short: "Run a connectivity check against the configured or given endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWebhookTest,
}

func init() {
	rootCmd.AddCommand(webhookCmd)
	webhookCmd.AddCommand(webhookTestCmd)
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	var result webhook.TestResult
	if len(args) == 1 {
		result = comps.webhook.TestConnection(ctx, args[0])
	} else {
		result, err = comps.kiosk.TestWebhook(ctx)
		if err != nil {
			return err
		}
	}
	if !result.OK {
		return errors.New(result.Message)
	}
	fmt.Println(result.Message)
	return nil
}
