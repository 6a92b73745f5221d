package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/klauspost/compress/zstd"
)

// ErrInvalidRaw is returned for streams that are not raw frame dumps
var ErrInvalidRaw = errors.New("invalid raw frame")

// rawMagic starts every raw frame dump, ahead of the version and size
var rawMagic = [4]byte{'W', 'R', 'A', 'W'}

const (
	rawVersion = 1
	// maxRawPixels bounds the frame size accepted from a dump header
	maxRawPixels = 1 << 28
)

// WriteRaw writes the unclamped frame as a zstd stream: magic, version,
// width and height as little-endian uint32, then float64 RGB per pixel in
// row-major order.
func WriteRaw(w io.Writer, frame *renderer.Frame) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(enc)
	var header [16]byte
	copy(header[:4], rawMagic[:])
	binary.LittleEndian.PutUint32(header[4:], rawVersion)
	binary.LittleEndian.PutUint32(header[8:], uint32(frame.Width))
	binary.LittleEndian.PutUint32(header[12:], uint32(frame.Height))
	if _, err := out.Write(header[:]); err != nil {
		enc.Close()
		return err
	}

	var buf [24]byte
	for _, c := range frame.Pixels() {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(c.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(c.Y))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(c.Z))
		if _, err := out.Write(buf[:]); err != nil {
			enc.Close()
			return err
		}
	}

	if err := out.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadRaw reads a frame written by WriteRaw
func ReadRaw(r io.Reader) (*renderer.Frame, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	in := bufio.NewReader(dec)
	var header [16]byte
	if _, err := io.ReadFull(in, header[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", errors.Join(ErrInvalidRaw, err))
	}
	if [4]byte(header[:4]) != rawMagic {
		return nil, fmt.Errorf("bad magic %q: %w", header[:4], ErrInvalidRaw)
	}
	if v := binary.LittleEndian.Uint32(header[4:]); v != rawVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", v, ErrInvalidRaw)
	}

	w := binary.LittleEndian.Uint32(header[8:])
	h := binary.LittleEndian.Uint32(header[12:])
	if uint64(w)*uint64(h) > maxRawPixels {
		return nil, fmt.Errorf("frame of %dx%d too large: %w", w, h, ErrInvalidRaw)
	}
	width, height := int(w), int(h)

	pixels := make([]core.Vec3, width*height)
	var buf [24]byte
	for i := range pixels {
		if _, err := io.ReadFull(in, buf[:]); err != nil {
			return nil, fmt.Errorf("pixel %d of %d: %w", i, len(pixels), errors.Join(ErrInvalidRaw, err))
		}
		pixels[i] = core.NewVec3(
			math.Float64frombits(binary.LittleEndian.Uint64(buf[0:])),
			math.Float64frombits(binary.LittleEndian.Uint64(buf[8:])),
			math.Float64frombits(binary.LittleEndian.Uint64(buf[16:])),
		)
	}
	return renderer.NewFrameFromPixels(width, height, pixels), nil
}
