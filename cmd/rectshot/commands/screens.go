package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rectshot/rectshot/internal/capture"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the screens that would be captured",
	Long:  `Probe the capture backend and print each screen with its placement and scale.`,
	RunE:  runScreens,
}

func init() {
	rootCmd.AddCommand(screensCmd)
}

func runScreens(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}
	settings := configMgr.Get()

	backend, err := capture.Select(capture.Options{DPROverrides: settings.DPROverrides})
	if err != nil {
		return err
	}
	if closer, ok := backend.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	screens, err := backend.CaptureScreens()
	if err != nil {
		return fmt.Errorf("failed to probe screens: %w", err)
	}

	fmt.Printf("Backend: %s\n\n", backend.Name())
	for _, s := range screens {
		px := s.PixelSize()
		fmt.Printf("%-12s %4.0fx%-4.0f at (%.0f,%.0f)  %dx%d px  DPR %.2f\n",
			s.Name, s.Rect.W, s.Rect.H, s.Rect.X, s.Rect.Y, px.X, px.Y, s.DPR)
	}
	return nil
}
