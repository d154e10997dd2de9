package embcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Entry layout: one version byte, the dimension as uint16, then the
// float32 components in little-endian order.
const (
	entryVersion    = 1
	entryHeaderSize = 3
	maxEntryDim     = math.MaxUint16
)

var errEntryVersion = errors.New("unsupported cache entry version")

func encodeEntry(v []float32) ([]byte, error) {
	if len(v) == 0 || len(v) > maxEntryDim {
		return nil, fmt.Errorf("cannot cache a %d-dimensional vector", len(v))
	}
	buf := make([]byte, entryHeaderSize+4*len(v))
	buf[0] = entryVersion
	binary.LittleEndian.PutUint16(buf[1:], uint16(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[entryHeaderSize+4*i:], math.Float32bits(f))
	}
	return buf, nil
}

// decodeEntry parses an entry and checks it against the configured
// dimension. want <= 0 accepts any dimension.
func decodeEntry(data []byte, want int) ([]float32, error) {
	if len(data) < entryHeaderSize {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	if data[0] != entryVersion {
		return nil, fmt.Errorf("%w: %d", errEntryVersion, data[0])
	}
	dim := int(binary.LittleEndian.Uint16(data[1:]))
	if len(data) != entryHeaderSize+4*dim {
		return nil, fmt.Errorf("cache entry declares %d dims but holds %d bytes", dim, len(data)-entryHeaderSize)
	}
	if want > 0 && dim != want {
		return nil, fmt.Errorf("cache entry has %d dims, want %d", dim, want)
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[entryHeaderSize+4*i:]))
	}
	return v, nil
}
