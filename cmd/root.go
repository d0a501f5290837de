package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facekiosk",
	Short: "A face-recognition attendance kiosk",
	Long: `Face Kiosk is an attendance terminal backend. It matches camera frames
against a roster of registered staff using a multimodal AI model
(OpenAI or Gemini), records arrivals and departures locally, and syncs
them to a Google Apps Script spreadsheet backend on a best-effort basis.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
