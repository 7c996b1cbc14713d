package assets

import (
	"io"
	"os"
	"strings"

	"github.com/g3n/engine/loader/obj"
	vkngmath "github.com/vkngwrapper/math"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

type Vertex struct {
	Position vkngmath.Vec2[float32]
	Color    vkngmath.Vec3[float32]
	TexCoord vkngmath.Vec2[float32]
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quad is the built-in geometry: a unit square in the XY plane with one
// color per corner.
func Quad() Mesh {
	return Mesh{
		Vertices: []Vertex{
			{Position: vkngmath.Vec2[float32]{X: -0.5, Y: -0.5}, Color: vkngmath.Vec3[float32]{X: 1, Y: 0, Z: 0}, TexCoord: vkngmath.Vec2[float32]{X: 1, Y: 0}},
			{Position: vkngmath.Vec2[float32]{X: 0.5, Y: -0.5}, Color: vkngmath.Vec3[float32]{X: 0, Y: 1, Z: 0}, TexCoord: vkngmath.Vec2[float32]{X: 0, Y: 0}},
			{Position: vkngmath.Vec2[float32]{X: 0.5, Y: 0.5}, Color: vkngmath.Vec3[float32]{X: 0, Y: 0, Z: 1}, TexCoord: vkngmath.Vec2[float32]{X: 0, Y: 1}},
			{Position: vkngmath.Vec2[float32]{X: -0.5, Y: 0.5}, Color: vkngmath.Vec3[float32]{X: 1, Y: 1, Z: 0}, TexCoord: vkngmath.Vec2[float32]{X: 1, Y: 1}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

// LoadOBJ reads a Wavefront OBJ file, using the .mtl next to it when there is
// one. Faces are fanned into triangles and vertices shared by position.
// Only X and Y of each position are kept.
func LoadOBJ(path string) (Mesh, error) {
	meshFile, err := os.Open(path)
	if err != nil {
		return Mesh{}, failure.Wrap(failure.KindAsset, "open mesh", err)
	}
	defer meshFile.Close()

	var matReader io.Reader = strings.NewReader("")
	matFile, err := os.Open(strings.TrimSuffix(path, ".obj") + ".mtl")
	if err == nil {
		defer matFile.Close()
		matReader = matFile
	}

	return decodeOBJ(meshFile, matReader)
}

func decodeOBJ(meshReader, matReader io.Reader) (Mesh, error) {
	decoder, err := obj.DecodeReader(meshReader, matReader)
	if err != nil {
		return Mesh{}, failure.Wrap(failure.KindAsset, "decode mesh", err)
	}

	var mesh Mesh
	uniqueVertices := make(map[int]uint32)

	for _, decodedObj := range decoder.Objects {
		for _, face := range decodedObj.Faces {
			for i := 2; i < len(face.Vertices); i++ {
				mesh.addVertex(decoder, uniqueVertices, face, 0)
				mesh.addVertex(decoder, uniqueVertices, face, i-1)
				mesh.addVertex(decoder, uniqueVertices, face, i)
			}
		}
	}

	if len(mesh.Indices) == 0 {
		return Mesh{}, failure.New(failure.KindAsset, "decode mesh", "mesh has no faces")
	}

	return mesh, nil
}

func (m *Mesh) addVertex(decoder *obj.Decoder, uniqueVertices map[int]uint32, face obj.Face, faceIndex int) {
	vertInd := face.Vertices[faceIndex]
	index, vertexExists := uniqueVertices[vertInd]

	if !vertexExists {
		vert := Vertex{
			Position: vkngmath.Vec2[float32]{X: decoder.Vertices[vertInd*3], Y: decoder.Vertices[vertInd*3+1]},
			Color:    vkngmath.Vec3[float32]{X: 1, Y: 1, Z: 1},
		}

		if faceIndex < len(face.Uvs) {
			uvInd := face.Uvs[faceIndex]
			vert.TexCoord = vkngmath.Vec2[float32]{
				X: decoder.Uvs[uvInd*2],
				Y: 1.0 - decoder.Uvs[uvInd*2+1],
			}
		}

		index = uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, vert)
		uniqueVertices[vertInd] = index
	}

	m.Indices = append(m.Indices, index)
}
