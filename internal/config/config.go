// Package config holds the fixed application settings and the few
// environment overrides vkdraw honors. Command line arguments are not parsed.
package config

import (
	"strconv"

	"github.com/vkngwrapper/vkdraw/internal/failure"
)

const (
	// MaxFramesInFlight is the number of frames the CPU may record ahead of
	// the GPU.
	MaxFramesInFlight = 2

	DefaultTitle  = "VkDraw"
	DefaultWidth  = 1280
	DefaultHeight = 720

	VertexShaderPath   = "shaders/shader.vert.spv"
	FragmentShaderPath = "shaders/shader.frag.spv"
)

var ValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}

type Config struct {
	Title     string
	Width     int
	Height    int
	Resizable bool

	Validation bool

	VertexShader   string
	FragmentShader string
	// Texture is an image file; empty selects the texture built into the
	// binary.
	Texture string
	// Mesh is an optional OBJ file; empty selects the built-in quad.
	Mesh string
	// PipelineCache is where the pipeline cache is persisted between runs;
	// empty disables persistence.
	PipelineCache string

	FramesInFlight int
}

func Default() Config {
	return Config{
		Title:          DefaultTitle,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Resizable:      true,
		Validation:     true,
		VertexShader:   VertexShaderPath,
		FragmentShader: FragmentShaderPath,
		PipelineCache:  "pipeline_cache.bin",
		FramesInFlight: MaxFramesInFlight,
	}
}

// FromEnv applies VKDRAW_* overrides to cfg. lookup has the signature of
// os.LookupEnv.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup("VKDRAW_WIDTH"); ok {
		w, err := strconv.Atoi(v)
		if err != nil {
			return cfg, failure.Wrap(failure.KindConfig, "parse VKDRAW_WIDTH", err)
		}
		cfg.Width = w
	}
	if v, ok := lookup("VKDRAW_HEIGHT"); ok {
		h, err := strconv.Atoi(v)
		if err != nil {
			return cfg, failure.Wrap(failure.KindConfig, "parse VKDRAW_HEIGHT", err)
		}
		cfg.Height = h
	}
	if v, ok := lookup("VKDRAW_VALIDATION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, failure.Wrap(failure.KindConfig, "parse VKDRAW_VALIDATION", err)
		}
		cfg.Validation = b
	}
	if v, ok := lookup("VKDRAW_TEXTURE"); ok {
		cfg.Texture = v
	}
	if v, ok := lookup("VKDRAW_MESH"); ok {
		cfg.Mesh = v
	}
	if v, ok := lookup("VKDRAW_PIPELINE_CACHE"); ok {
		cfg.PipelineCache = v
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return failure.New(failure.KindConfig, "validate", "window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		return failure.New(failure.KindConfig, "validate", "shader paths must be set")
	}
	if c.FramesInFlight < 1 {
		return failure.New(failure.KindConfig, "validate", "frames in flight must be at least 1, got %d", c.FramesInFlight)
	}
	return nil
}
