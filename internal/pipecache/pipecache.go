// Package pipecache persists the driver's pipeline cache between runs and
// refuses data written by a different device or driver.
package pipecache

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

// HeaderVersionOne is VK_PIPELINE_CACHE_HEADER_VERSION_ONE.
const HeaderVersionOne uint32 = 1

// HeaderSize is the length of a version one header.
const HeaderSize = 16 + len(uuid.UUID{})

// Header is the fixed prefix of every pipeline cache blob. All fields are
// little endian.
type Header struct {
	Length    uint32
	Version   uint32
	VendorID  uint32
	DeviceID  uint32
	CacheUUID uuid.UUID
}

// Identity is what the running device expects in a header.
type Identity struct {
	VendorID  uint32
	DeviceID  uint32
	CacheUUID uuid.UUID
}

func ParseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, errors.Newf("pipeline cache is %d bytes, shorter than its header", len(data))
	}

	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h)
	return h, err
}

// Check returns why h cannot be fed to the device described by id, or nil.
func (h Header) Check(id Identity) error {
	switch {
	case h.Length < uint32(HeaderSize):
		return errors.Newf("bad header length 0x%x", h.Length)
	case h.Version != HeaderVersionOne:
		return errors.Newf("unsupported cache header version 0x%x", h.Version)
	case h.VendorID != id.VendorID:
		return errors.Newf("vendor ID mismatch: cache 0x%x, driver 0x%x", h.VendorID, id.VendorID)
	case h.DeviceID != id.DeviceID:
		return errors.Newf("device ID mismatch: cache 0x%x, driver 0x%x", h.DeviceID, id.DeviceID)
	case h.CacheUUID != id.CacheUUID:
		return errors.Newf("UUID mismatch: cache %s, driver %s", h.CacheUUID, id.CacheUUID)
	}
	return nil
}

// Load returns the cache data at path if it was written for id. A stale or
// corrupt file is deleted so the next run repopulates it; a missing one is
// not an error.
func Load(path string, id Identity) []byte {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	header, err := ParseHeader(data)
	if err == nil {
		err = header.Check(id)
	}
	if err != nil {
		log.Printf("pipeline cache %s rejected: %v", path, err)
		_ = os.Remove(path)
		return nil
	}

	return data
}

func Save(path string, data []byte) error {
	if path == "" || len(data) == 0 {
		return nil
	}
	err := os.WriteFile(path, data, 0o644)
	return failure.Wrap(failure.KindAsset, "save pipeline cache", err)
}
