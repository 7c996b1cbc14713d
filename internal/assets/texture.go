package assets

import (
	"embed"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/vkngwrapper/vkdraw/internal/failure"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const BytesPerPixel = 4

const defaultTexture = "textures/default.png"

//go:embed textures
var fileSystem embed.FS

// Texture is tightly packed RGBA8, row major, top row first.
type Texture struct {
	Width  int
	Height int
	Pixels []byte
}

func (t Texture) Size() int {
	return len(t.Pixels)
}

// LoadTexture decodes the image at path. An empty path selects the texture
// built into the binary.
func LoadTexture(path string) (Texture, error) {
	if path == "" {
		data, err := fileSystem.Open(defaultTexture)
		if err != nil {
			return Texture{}, failure.Wrap(failure.KindAsset, "open default texture", err)
		}
		defer data.Close()

		return DecodeTexture(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return Texture{}, failure.Wrap(failure.KindAsset, "open texture", err)
	}
	defer f.Close()

	return DecodeTexture(f)
}

func DecodeTexture(r io.Reader) (Texture, error) {
	decoded, _, err := image.Decode(r)
	if err != nil {
		return Texture{}, failure.Wrap(failure.KindAsset, "decode texture", err)
	}

	bounds := decoded.Bounds()
	if bounds.Empty() {
		return Texture{}, failure.New(failure.KindAsset, "decode texture", "texture has no pixels")
	}

	rgba, ok := decoded.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*BytesPerPixel || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)
	}

	tex := Texture{Width: bounds.Dx(), Height: bounds.Dy(), Pixels: rgba.Pix}
	if len(tex.Pixels) != tex.Width*tex.Height*BytesPerPixel {
		return Texture{}, failure.New(failure.KindAsset, "decode texture", "expected %d bytes of pixel data, got %d", tex.Width*tex.Height*BytesPerPixel, len(tex.Pixels))
	}

	return tex, nil
}
