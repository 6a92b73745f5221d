package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// Info describes a built-in scene
type Info struct {
	Name        string
	Description string
	build       func() (*Scene, error)
}

var builtins = []Info{
	{"default", "spheres, a cube and a mesh over a textured floor", NewDefaultScene},
	{"mirrors", "two facing mirrors with spheres between them", NewMirrorsScene},
	{"glass", "refractive sphere and slab over a checker floor", NewGlassScene},
	{"boxes", "20x20 grid of spheres and boxes", func() (*Scene, error) { return NewBoxesScene(20) }},
}

// List returns the built-in scenes in display order
func List() []Info {
	return append([]Info(nil), builtins...)
}

// Load builds the named built-in scene
func Load(name string) (*Scene, error) {
	for _, info := range builtins {
		if info.Name == name {
			return info.build()
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
}
