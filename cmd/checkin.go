package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/facekiosk/facekiosk/internal/camera"
	"github.com/facekiosk/facekiosk/internal/constants"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Run one check-in attempt from the command line",
	Long: `Capture a frame and run one recognition attempt without the browser.
The frame comes from the KIOSK_CAMERA device (through ffmpeg) or from a
file given with --file. Useful for headless kiosks and smoke testing.`,
	RunE: runCheckin,
}

func init() {
	rootCmd.AddCommand(checkinCmd)

	checkinCmd.Flags().String("direction", "in", "Attendance direction: in or out")
	checkinCmd.Flags().String("file", "", "Read the probe frame from a file instead of the camera")
}

// grabFrame captures one still from the configured source.
func grabFrame(ctx context.Context, source, filePath string) ([]byte, error) {
	var dev camera.Device
	switch {
	case filePath != "":
		dev = camera.NewFileDevice(filePath)
	case source != "":
		dev = camera.NewFFmpegDevice(source, constants.ProbeImageSize)
	default:
		return nil, errors.New("no capture source: set KIOSK_CAMERA or use --file")
	}
	defer dev.Close()

	ctx, cancel := context.WithTimeout(ctx, constants.CaptureTimeout)
	defer cancel()

	if err := dev.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening capture source: %w", err)
	}
	return dev.Still(ctx)
}

func runCheckin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	comps, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer comps.close()

	frame, err := grabFrame(ctx, comps.cfg.Kiosk.Camera, mustGetString(cmd, "file"))
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := comps.kiosk.CheckIn(ctx, frame, mustGetString(cmd, "direction"))
	if err != nil {
		return err
	}

	if !result.Matched {
		fmt.Printf("No match (confidence %.2f): %s\n", result.Confidence, result.Message)
		return nil
	}
	if result.Duplicate {
		fmt.Printf("%s (%s) already recorded\n", result.StaffName, result.StaffID)
		return nil
	}
	fmt.Printf("Matched %s (%s) with confidence %.2f in %s\n",
		result.StaffName, result.StaffID, result.Confidence, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Recorded %s at %s\n", result.Record.Direction, result.Record.Timestamp)

	usage := comps.rec.Provider().GetUsage()
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		fmt.Printf("Token usage: %d in, %d out\n", usage.InputTokens, usage.OutputTokens)
	}
	return nil
}
