// Package assets loads everything the renderer reads from disk: SPIR-V
// shaders, the texture and the mesh.
package assets

import (
	"context"

	"github.com/vkngwrapper/vkdraw/internal/config"
	"golang.org/x/sync/errgroup"
)

type Assets struct {
	VertexShader   []uint32
	FragmentShader []uint32
	Texture        Texture
	Mesh           Mesh
}

// Load reads all assets concurrently and returns the first failure.
func Load(ctx context.Context, cfg config.Config) (*Assets, error) {
	var a Assets
	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		a.VertexShader, err = LoadShader(cfg.VertexShader)
		return err
	})
	group.Go(func() error {
		var err error
		a.FragmentShader, err = LoadShader(cfg.FragmentShader)
		return err
	})
	group.Go(func() error {
		var err error
		a.Texture, err = LoadTexture(cfg.Texture)
		return err
	})
	group.Go(func() error {
		if cfg.Mesh == "" {
			a.Mesh = Quad()
			return nil
		}
		var err error
		a.Mesh, err = LoadOBJ(cfg.Mesh)
		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return &a, nil
}
