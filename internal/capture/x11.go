package capture

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/rectshot/rectshot/internal/canvas"
	"github.com/rectshot/rectshot/internal/geometry"
	"github.com/rectshot/rectshot/internal/logger"
)

// X11Backend captures the root window directly over the X protocol. Unlike
// the portable backend it talks to the server itself, which keeps working
// when no desktop portal is present.
type X11Backend struct {
	conn     *xgb.Conn
	root     xproto.Window
	screen   *xproto.ScreenInfo
	xinerama bool
	opts     Options
	mu       sync.Mutex
}

// NewX11Backend connects to the X server. Returns an error when no server
// is reachable; callers should fall back to another backend.
func NewX11Backend(opts Options) (*X11Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	b := &X11Backend{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
		opts:   opts,
	}

	log := logger.WithComponent("x11-backend")
	if err := xinerama.Init(conn); err != nil {
		log.Warn().
			Err(err).
			Msg("Xinerama extension not available - treating the desktop as a single screen")
	} else {
		b.xinerama = true
	}

	return b, nil
}

// Close releases the X connection.
func (b *X11Backend) Close() error {
	b.conn.Close()
	return nil
}

// Name returns the backend name.
func (b *X11Backend) Name() string {
	return "x11"
}

// IsAvailable checks if X11 capture is available.
func (b *X11Backend) IsAvailable() bool {
	return b.conn != nil
}

// CaptureScreens grabs each monitor of the virtual desktop as a separate
// image. Monitor geometry comes from Xinerama when present; otherwise the
// whole root window is returned as one screen.
func (b *X11Backend) CaptureScreens() ([]canvas.ScreenImage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regions, err := b.screenRegions()
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("x11-backend")
	screens := make([]canvas.ScreenImage, 0, len(regions))
	for i, region := range regions {
		img, err := b.captureRegion(region)
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen %d: %w", i, err)
		}

		name := fmt.Sprintf("screen-%d", i)
		dpr := b.opts.dprFor(name)
		rect := geometry.FromImageRect(region)
		if dpr != 1.0 {
			rect.W = float64(region.Dx()) / dpr
			rect.H = float64(region.Dy()) / dpr
		}

		log.Debug().
			Str("screen", name).
			Str("region", region.String()).
			Float64("dpr", dpr).
			Msg("Captured screen")

		screens = append(screens, canvas.ScreenImage{
			Name:  name,
			Image: img,
			Rect:  rect,
			DPR:   dpr,
		})
	}
	return screens, nil
}

// screenRegions returns the monitor rectangles in root window coordinates.
func (b *X11Backend) screenRegions() ([]image.Rectangle, error) {
	if b.xinerama {
		reply, err := xinerama.QueryScreens(b.conn).Reply()
		if err == nil && len(reply.ScreenInfo) > 0 {
			regions := make([]image.Rectangle, 0, len(reply.ScreenInfo))
			for _, info := range reply.ScreenInfo {
				x, y := int(info.XOrg), int(info.YOrg)
				regions = append(regions, image.Rect(x, y, x+int(info.Width), y+int(info.Height)))
			}
			return regions, nil
		}
		if err != nil {
			logger.WithComponent("x11-backend").Warn().
				Err(err).
				Msg("Xinerama query failed, falling back to root geometry")
		}
	}
	return []image.Rectangle{
		image.Rect(0, 0, int(b.screen.WidthInPixels), int(b.screen.HeightInPixels)),
	}, nil
}

// captureRegion reads a rectangle of the root window.
func (b *X11Backend) captureRegion(region image.Rectangle) (*image.RGBA, error) {
	reply, err := xproto.GetImage(
		b.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(b.root),
		int16(region.Min.X), int16(region.Min.Y),
		uint16(region.Dx()), uint16(region.Dy()),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return b.convertImageData(reply.Data, region.Dx(), region.Dy()), nil
}

// convertImageData converts X11 ZPixmap data to RGBA.
func (b *X11Backend) convertImageData(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	depth := int(b.screen.RootDepth)

	if depth == 24 || depth == 32 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := (y*width + x) * 4
				if i+3 < len(data) {
					// BGRA to RGBA
					img.Set(x, y, color.RGBA{
						R: data[i+2],
						G: data[i+1],
						B: data[i],
						A: 255,
					})
				}
			}
		}
	}

	return img
}
