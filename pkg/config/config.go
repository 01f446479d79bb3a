// Package config loads the landmark table, grid geometry and camera
// intrinsics that parameterize the filter, grounded on the pack's
// yaml.v3-based configuration documents. Default returns the exact
// constants of §3 so the filter runs without a config file;
// Load overrides them from a YAML document.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/itohio/posebayes/pkg/core/geometry"
	"github.com/itohio/posebayes/pkg/core/grid3"
	"github.com/itohio/posebayes/pkg/core/landmark"
)

// LandmarkConfig is one entry of the YAML landmark table. Facing selects
// which world axis the landmark's face spans: "x" for a face spanning Y
// at constant X (landmark.NewFacingX), "y" for a face spanning X at
// constant Y (landmark.NewFacingY). Defaults to "x" when empty.
type LandmarkConfig struct {
	Label     string  `yaml:"label"`
	CentreX   float32 `yaml:"centre_x"`
	CentreY   float32 `yaml:"centre_y"`
	CentreZ   float32 `yaml:"centre_z"`
	HalfWidth float32 `yaml:"half_width"`
	BottomZ   float32 `yaml:"bottom_z"`
	TopZ      float32 `yaml:"top_z"`
	Facing    string  `yaml:"facing"`
}

// Config is the full externalizable configuration: grid geometry, camera
// intrinsics, robot height and the landmark table.
type Config struct {
	Grid struct {
		H           int     `yaml:"h"`
		W           int     `yaml:"w"`
		Theta       int     `yaml:"theta"`
		WorldLength float32 `yaml:"world_grid_length"`
		OriginX     float32 `yaml:"origin_x"`
		OriginY     float32 `yaml:"origin_y"`
	} `yaml:"grid"`
	Camera struct {
		Fx float32 `yaml:"fx"`
		Fy float32 `yaml:"fy"`
		Cx float32 `yaml:"cx"`
		Cy float32 `yaml:"cy"`
	} `yaml:"camera"`
	RobotZ    float32          `yaml:"robot_z"`
	Landmarks []LandmarkConfig `yaml:"landmarks"`
}

// Default returns the exact constants of §3 Data Model: a 101x101x128
// grid over a 3m arena, the camera intrinsics, and the dog/cat landmarks
// of the worked examples in §8, built via the rectangle-from-centre
// convention recovered from original_source/nav/nav.py (SUPPLEMENTED
// FEATURES #1). The dog's face spans Y at constant X (NewFacingX); the
// cat's spans X at constant Y (NewFacingY) — the two landmarks face
// perpendicular walls, not copies of the same facing.
func Default() Config {
	var c Config
	c.Grid.H, c.Grid.W, c.Grid.Theta = 101, 101, 128
	c.Grid.WorldLength = 3.0
	c.Grid.OriginX, c.Grid.OriginY = -1.5, -1.5
	c.Camera.Fx, c.Camera.Fy = 494, 294
	c.Camera.Cx, c.Camera.Cy = 160, 120
	c.RobotZ = 0.24
	c.Landmarks = []LandmarkConfig{
		{Label: "dog", CentreX: 1.5, CentreY: 0.0, CentreZ: 0.27, HalfWidth: 0.11, BottomZ: 0.02, TopZ: 0.52, Facing: "x"},
		{Label: "cat", CentreX: 0.5, CentreY: -1.5, CentreZ: 0.27, HalfWidth: 0.11, BottomZ: 0.02, TopZ: 0.52, Facing: "y"},
	}
	return c
}

// Load reads a YAML document at path and decodes it over Default(): fields
// the document sets replace the defaults, fields it omits keep their
// default values, and a landmarks list in the document replaces the
// default landmark table as a whole.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Geometry builds the grid3.Geometry described by c.
func (c Config) Geometry() grid3.Geometry {
	return grid3.Geometry{
		H:           c.Grid.H,
		W:           c.Grid.W,
		Theta:       c.Grid.Theta,
		CellSize:    c.Grid.WorldLength / float32(c.Grid.H),
		OriginX:     c.Grid.OriginX,
		OriginY:     c.Grid.OriginY,
		WorldLength: c.Grid.WorldLength,
	}
}

// Intrinsics builds the camera intrinsics described by c.
func (c Config) Intrinsics() geometry.Intrinsics {
	return geometry.Intrinsics{
		Fx: c.Camera.Fx, Fy: c.Camera.Fy,
		Cx: c.Camera.Cx, Cy: c.Camera.Cy,
	}
}

// WorldObjects builds the landmark.WorldObject table described by c,
// dispatching each entry to NewFacingX or NewFacingY per its Facing field.
func (c Config) WorldObjects() []landmark.WorldObject {
	out := make([]landmark.WorldObject, len(c.Landmarks))
	for i, lc := range c.Landmarks {
		centre := geometry.Point{X: lc.CentreX, Y: lc.CentreY, Z: lc.CentreZ}
		if lc.Facing == "y" {
			out[i] = landmark.NewFacingY(lc.Label, centre, lc.HalfWidth, lc.BottomZ, lc.TopZ)
		} else {
			out[i] = landmark.NewFacingX(lc.Label, centre, lc.HalfWidth, lc.BottomZ, lc.TopZ)
		}
	}
	return out
}
