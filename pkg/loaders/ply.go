package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

var logger = log.New("loaders")

// ErrInvalidPLY is wrapped by every PLY parse error
var ErrInvalidPLY = errors.New("invalid PLY data")

// PLYProperty is a property definition from the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type, or the item type of a list
	IsList   bool
	ListType string // Type of a list's count
}

// plyElement is an element definition and its properties
type plyElement struct {
	name       string
	count      int
	properties []PLYProperty
}

// PLYHeader is the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	elements []plyElement
}

// PLYData holds the polygon mesh read from a PLY file
type PLYData struct {
	Vertices []core.Vec3
	Faces    [][]int // Vertex indices of each polygon
}

// LoadPLY reads a polygon mesh from a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Infof("loaded %s: %d vertices, %d faces", filename, len(data.Vertices), len(data.Faces))
	return data, nil
}

// ReadPLY reads a polygon mesh from PLY data. Vertex positions come from the
// x, y and z properties; faces from the vertex_indices (or vertex_index) list.
// Every other element and property is skipped.
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	var body plyBody
	switch header.Format {
	case "ascii":
		body = &asciiBody{reader: br}
	case "binary_little_endian":
		body = &binaryBody{reader: br, order: binary.LittleEndian}
	case "binary_big_endian":
		body = &binaryBody{reader: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported format %q: %w", header.Format, ErrInvalidPLY)
	}

	data := &PLYData{}
	for _, el := range header.elements {
		if err := readElement(body, el, data); err != nil {
			return nil, err
		}
	}

	for i, face := range data.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(data.Vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d: %w", i, idx, len(data.Vertices), ErrInvalidPLY)
			}
		}
	}
	return data, nil
}

// parsePLYHeader reads the header up to and including end_header
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	magic, err := r.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic: %w", ErrInvalidPLY)
	}

	header := &PLYHeader{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended without end_header: %w", ErrInvalidPLY)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("header has no format line: %w", ErrInvalidPLY)
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q: %w", strings.TrimSpace(line), ErrInvalidPLY)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q: %w", strings.TrimSpace(line), ErrInvalidPLY)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count %q: %w", parts[2], ErrInvalidPLY)
			}
			header.elements = append(header.elements, plyElement{name: parts[1], count: count})
		case "property":
			if len(header.elements) == 0 {
				return nil, fmt.Errorf("property before any element: %w", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			el := &header.elements[len(header.elements)-1]
			el.properties = append(el.properties, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q: %w", parts[0], ErrInvalidPLY)
		}
	}
}

// parsePLYProperty parses the fields of a property line after the keyword
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		prop := PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}
		if scalarSize(prop.ListType) == 0 || scalarSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("unknown list types %s %s: %w", prop.ListType, prop.Type, ErrInvalidPLY)
		}
		return prop, nil
	}
	if len(parts) == 2 && scalarSize(parts[0]) > 0 {
		return PLYProperty{Type: parts[0], Name: parts[1]}, nil
	}
	return PLYProperty{}, fmt.Errorf("invalid property definition %q: %w", strings.Join(parts, " "), ErrInvalidPLY)
}

// scalarSize returns the byte size of a PLY scalar type, or 0 if unknown
func scalarSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

func readElement(body plyBody, el plyElement, data *PLYData) error {
	for i := 0; i < el.count; i++ {
		if err := body.startRecord(); err != nil {
			return fmt.Errorf("%s %d: %w", el.name, i, err)
		}

		var pos [3]float64
		var face []int
		for _, prop := range el.properties {
			if prop.IsList {
				n, err := body.scalar(prop.ListType)
				if err != nil {
					return fmt.Errorf("%s %d %s: %w", el.name, i, prop.Name, err)
				}
				if n < 0 || n != math.Trunc(n) {
					return fmt.Errorf("%s %d: invalid list length %g: %w", el.name, i, n, ErrInvalidPLY)
				}
				items := make([]int, int(n))
				for k := range items {
					v, err := body.scalar(prop.Type)
					if err != nil {
						return fmt.Errorf("%s %d %s: %w", el.name, i, prop.Name, err)
					}
					items[k] = int(v)
				}
				if prop.Name == "vertex_indices" || prop.Name == "vertex_index" {
					face = items
				}
				continue
			}

			v, err := body.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("%s %d %s: %w", el.name, i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				pos[0] = v
			case "y":
				pos[1] = v
			case "z":
				pos[2] = v
			}
		}

		switch el.name {
		case "vertex":
			data.Vertices = append(data.Vertices, core.NewVec3(pos[0], pos[1], pos[2]))
		case "face":
			data.Faces = append(data.Faces, face)
		}
	}
	return nil
}

// plyBody reads property values in file order
type plyBody interface {
	startRecord() error
	scalar(typ string) (float64, error)
}

// asciiBody reads one record per line
type asciiBody struct {
	reader *bufio.Reader
	fields []string
}

func (b *asciiBody) startRecord() error {
	if len(b.fields) > 0 {
		return fmt.Errorf("%d unread values on previous line: %w", len(b.fields), ErrInvalidPLY)
	}
	for {
		line, err := b.reader.ReadString('\n')
		b.fields = strings.Fields(line)
		if len(b.fields) > 0 {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unexpected end of data: %w", ErrInvalidPLY)
		}
	}
}

func (b *asciiBody) scalar(typ string) (float64, error) {
	if len(b.fields) == 0 {
		return 0, fmt.Errorf("record too short: %w", ErrInvalidPLY)
	}
	field := b.fields[0]
	b.fields = b.fields[1:]

	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", typ, field, ErrInvalidPLY)
	}
	return v, nil
}

// binaryBody reads packed values in the given byte order
type binaryBody struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryBody) startRecord() error {
	return nil
}

func (b *binaryBody) scalar(typ string) (float64, error) {
	size := scalarSize(typ)
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.reader, buf); err != nil {
		return 0, fmt.Errorf("unexpected end of data: %w", ErrInvalidPLY)
	}

	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}
