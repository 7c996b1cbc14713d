package assets

import (
	"log"
	"os"

	"github.com/vkngwrapper/vkdraw/internal/failure"
)

// LoadShader reads a SPIR-V blob whole. The contents are handed to the
// driver as-is.
func LoadShader(path string) ([]uint32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Wrap(failure.KindAsset, "load shader", err)
	}

	log.Printf("loaded %d bytes from %q", len(b), path)
	return BytesToBytecode(b), nil
}

func BytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}
