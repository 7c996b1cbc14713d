// Command vkdraw opens a window and draws a textured, spinning quad with
// Vulkan, keeping two frames in flight.
package main

//go:generate glslc ../../shaders/shader.vert -o ../../shaders/shader.vert.spv
//go:generate glslc ../../shaders/shader.frag -o ../../shaders/shader.frag.spv

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/loov/hrtime"
	"github.com/vkngwrapper/vkdraw/internal/assets"
	"github.com/vkngwrapper/vkdraw/internal/config"
	"github.com/vkngwrapper/vkdraw/internal/frame"
	"github.com/vkngwrapper/vkdraw/internal/render"
	"github.com/vkngwrapper/vkdraw/internal/window"
)

func init() {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func run(ctx context.Context, args []string) error {
	for idx, arg := range args {
		fmt.Printf("arg[%d] = %s\n", idx, arg)
	}

	cfg, err := config.FromEnv(config.Default(), os.LookupEnv)
	if err != nil {
		return err
	}

	loaded, err := assets.Load(ctx, cfg)
	if err != nil {
		return err
	}

	win, err := window.Open(cfg)
	if err != nil {
		return err
	}
	defer win.Close()

	renderer, err := render.New(cfg, win, loaded)
	if err != nil {
		return err
	}
	defer renderer.Close()

	swapchains := renderer.Swapchains()
	driver := &frame.Driver{
		Window:  win,
		Loop:    frame.NewLoop(renderer, swapchains, cfg.FramesInFlight),
		Resizer: swapchains,
		Stats:   frame.NewStats(cfg.Title, hrtime.Now()),
		Clock:   hrtime.Now,
	}

	return driver.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unhandled exception: %+v\n", err)
		os.Exit(1)
	}
}
