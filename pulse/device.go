package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrAdapterUnavailable = errors.New("no suitable gpu adapter available")
	ErrDeviceUnavailable  = errors.New("gpu device unavailable")
	ErrSurfaceCreation    = errors.New("create surface")
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	runtime.LockOSThread()

	if level, ok := parseLogLevel(os.Getenv("WGPU_LOG_LEVEL")); ok {
		wgpu.SetLogLevel(level)
	}
}

func parseLogLevel(value string) (wgpu.LogLevel, bool) {
	switch strings.ToUpper(value) {
	case "OFF":
		return wgpu.LogLevelOff, true
	case "ERROR":
		return wgpu.LogLevelError, true
	case "WARN":
		return wgpu.LogLevelWarn, true
	case "INFO":
		return wgpu.LogLevelInfo, true
	case "DEBUG":
		return wgpu.LogLevelDebug, true
	case "TRACE":
		return wgpu.LogLevelTrace, true
	}

	return 0, false
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Surface and active Adapter
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
}

// deviceLimits starts with the webgpu default limits and restricts the
// number of bind groups to one, the minimum every backend supports.
func deviceLimits() wgpu.Limits {
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = 1
	return limits
}

func New(sd *wgpu.SurfaceDescriptor) (st *Context, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// create a Surface based on the window
	st.Surface = instance.CreateSurface(sd)
	if st.Surface == nil {
		return st, ErrSurfaceCreation
	}

	// create a high performance adapter that can render to the Surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrAdapterUnavailable, err)
	}

	slog.Info("Adapter acquired", slog.Bool("fallback", forceFallbackAdapter))

	st.Device, err = st.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "GlyphDepth",
		RequiredLimits: &wgpu.RequiredLimits{Limits: deviceLimits()},
	})

	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	st.Queue = st.Device.GetQueue()

	return st, nil
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
