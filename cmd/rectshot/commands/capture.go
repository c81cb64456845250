package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rectshot/rectshot/internal/api"
	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/capture"
	"github.com/rectshot/rectshot/internal/config"
	"github.com/rectshot/rectshot/internal/editor"
	"github.com/rectshot/rectshot/internal/export"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
	"github.com/rectshot/rectshot/internal/output"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the screens and open the region editor",
	Long: `Capture every connected screen into one canvas and serve the editor.

Open the printed URL in a browser, drag out the region to keep and press
Enter or double-click to save it. Escape cancels without saving; the process
then exits with status 1.`,
	Example: `  # Capture immediately
  rectshot capture

  # Wait two seconds before capturing
  rectshot capture --delay 2000

  # Commit as soon as the mouse button is released
  rectshot capture --release-to-capture

  # Save somewhere specific and copy to the clipboard
  rectshot capture --output-dir ~/Pictures --clipboard`,
	RunE: runCapture,
}

var (
	delayFlag            int
	releaseToCaptureFlag bool
	lightMaskFlag        bool
	noMagnifierFlag      bool
	outputDirFlag        string
	clipboardFlag        bool
	freshFlag            bool
)

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().IntVar(&delayFlag, "delay", -1, "delay before capturing, in milliseconds")
	captureCmd.Flags().BoolVar(&releaseToCaptureFlag, "release-to-capture", false, "commit a freshly drawn selection on button release")
	captureCmd.Flags().BoolVar(&lightMaskFlag, "light-mask", false, "use a light mask over unselected areas")
	captureCmd.Flags().BoolVar(&noMagnifierFlag, "no-magnifier", false, "disable the magnifier while resizing")
	captureCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "directory for saved captures")
	captureCmd.Flags().BoolVar(&clipboardFlag, "clipboard", false, "also copy the capture to the clipboard")
	captureCmd.Flags().BoolVar(&freshFlag, "fresh", false, "start with an empty selection, ignoring the remembered region")
}

func runCapture(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}
	settings := applyCaptureFlags(cmd, configMgr)

	log := logger.WithComponent("capture-cmd")

	if settings.DelayMS > 0 {
		log.Info().Int("delay_ms", settings.DelayMS).Msg("Delaying capture")
		time.Sleep(time.Duration(settings.DelayMS) * time.Millisecond)
	}

	screens, err := capture.CaptureAll(capture.Options{DPROverrides: settings.DPROverrides})
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	cv, err := canvas.New(screens)
	if err != nil {
		return fmt.Errorf("failed to assemble canvas: %w", err)
	}
	log.Info().
		Int("screens", len(screens)).
		Float64("dpr", cv.MaxDPR()).
		Msg("Canvas assembled")

	edCfg := editor.Config{
		ReleaseToCapture: settings.ReleaseToCapture,
		ShowMagnifier:    settings.ShowMagnifier,
	}
	if settings.RememberRegion && !freshFlag && !settings.CropRegion.IsEmpty() {
		r := settings.CropRegion
		edCfg.InitialSelection = geometry.RectOf(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
	}

	stream := output.NewMJPEGStream()
	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	session := api.NewSession(cv, edCfg, settings.LightMask, stream)
	server := api.NewServer(session, cv, stream)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(settings.ServerPort)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Editor ready: http://localhost:%d\n", settings.ServerPort)

	var res api.Result
	sessionDone := make(chan struct{})
	go func() {
		res = session.Run(ctx)
		close(sessionDone)
	}()

	select {
	case <-sessionDone:
	case err := <-serverErr:
		cancel()
		<-sessionDone
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server shutdown failed")
	}

	if !res.Accepted {
		fmt.Println("Capture cancelled")
		os.Exit(1)
	}

	if settings.RememberRegion {
		configMgr.SetCropRegion(config.Region{
			X:      int(res.Region.X),
			Y:      int(res.Region.Y),
			Width:  int(res.Region.W),
			Height: int(res.Region.H),
		})
		if err := configMgr.Save(); err != nil {
			log.Warn().Err(err).Msg("Failed to persist remembered region")
		}
	}

	path, err := export.Save(res.Image, export.Options{
		OutputDir:       settings.OutputDir,
		CopyToClipboard: settings.CopyToClipboard,
	})
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

// applyCaptureFlags folds explicitly set flags over the persisted settings.
func applyCaptureFlags(cmd *cobra.Command, configMgr *config.Manager) config.Settings {
	configMgr.Update(func(s *config.Settings) {
		if delayFlag >= 0 {
			s.DelayMS = delayFlag
		}
		if cmd.Flags().Changed("release-to-capture") {
			s.ReleaseToCapture = releaseToCaptureFlag
		}
		if cmd.Flags().Changed("light-mask") {
			s.LightMask = lightMaskFlag
		}
		if cmd.Flags().Changed("no-magnifier") {
			s.ShowMagnifier = !noMagnifierFlag
		}
		if outputDirFlag != "" {
			s.OutputDir = outputDirFlag
		}
		if cmd.Flags().Changed("clipboard") {
			s.CopyToClipboard = clipboardFlag
		}
	})
	return configMgr.Get()
}
