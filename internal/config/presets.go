package config

import "sort"

func off() *bool {
	b := false
	return &b
}

func preset(name string, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Duration = duration
	return cfg
}

// tank is the 1 x 1 x 0.3 pool half full, surface at y = -0.5.
func tank() PoolConfig {
	return PoolConfig{ID: "tank", Min: Vec{-0.5, -1, -0.15}, Max: Vec{0.5, 0, 0.15}, Volume: 0.15}
}

// harbour is the 2 x 1 x 1 pool with its surface near y = -0.7.
func harbour() PoolConfig {
	return PoolConfig{ID: "harbour", Min: Vec{-1, -1, -0.5}, Max: Vec{1, 0, 0.5}, Volume: 0.6}
}

func dinghy(y, volume, mass float64, movable *bool) BoatConfig {
	return BoatConfig{
		ID: "dinghy", Pool: "harbour",
		Size: Vec{0.4, 0.2, 0.3}, Thickness: 0.02, Mass: mass,
		Position: Vec{0, y, 0}, Volume: volume, Movable: movable,
	}
}

var Presets = map[string]*Config{
	"cube": func() *Config {
		c := preset("cube", 20)
		c.Pools = []PoolConfig{tank()}
		c.Masses = []MassConfig{{ID: "cube", Shape: "cube", Size: Vec{0.1}, Density: 500, Position: Vec{0, -0.3, 0}}}
		return c
	}(),
	"cone": func() *Config {
		c := preset("cone", 20)
		c.Pools = []PoolConfig{tank()}
		c.Masses = []MassConfig{
			{ID: "down", Shape: "cone", Radius: 0.08, Height: 0.2, Density: 400, Position: Vec{-0.2, -0.3, 0}},
			{ID: "up", Shape: "cone", Radius: 0.08, Height: 0.2, VertexUp: true, Density: 400, Position: Vec{0.2, -0.3, 0}},
		}
		return c
	}(),
	"overflow": func() *Config {
		c := preset("overflow", 5)
		c.Pools = []PoolConfig{{ID: "tank", Min: Vec{-0.5, -0.5, -0.15}, Max: Vec{0.5, 0, 0.15}, Volume: 0.15}}
		c.Masses = []MassConfig{{ID: "anchor", Shape: "box", Size: Vec{0.2, 0.25, 0.2}, Mass: 30, Position: Vec{0, -0.2, 0}}}
		return c
	}(),
	"boat-fill": func() *Config {
		c := preset("boat-fill", 20)
		c.Pools = []PoolConfig{harbour()}
		c.Boats = []BoatConfig{dinghy(-0.55, 0, 20, nil)}
		return c
	}(),
	"boat-spill": func() *Config {
		c := preset("boat-spill", 5)
		c.Pools = []PoolConfig{harbour()}
		c.Boats = []BoatConfig{dinghy(-0.605, 0.01, 2, off())}
		return c
	}(),
	"duck": func() *Config {
		c := preset("duck", 20)
		c.Pools = []PoolConfig{harbour()}
		c.Boats = []BoatConfig{dinghy(-0.7, 0.008, 2, off())}
		c.Masses = []MassConfig{{ID: "duck", Shape: "duck", Size: Vec{0.1, 0.08, 0.1}, Density: 500, Position: Vec{0, -0.62, 0}}}
		return c
	}(),
	"bottle": func() *Config {
		c := preset("bottle", 20)
		c.Pools = []PoolConfig{tank()}
		c.Masses = []MassConfig{{ID: "bottle", Shape: "bottle", Radius: 0.05, Height: 0.25, Density: 700, Position: Vec{0, -0.3, 0}}}
		return c
	}(),
	"mixed": func() *Config {
		c := preset("mixed", 30)
		c.Pools = []PoolConfig{{ID: "lagoon", Min: Vec{-2, -1, -0.5}, Max: Vec{2, 0, 0.5}, Volume: 2}}
		c.Boats = []BoatConfig{{
			ID: "punt", Pool: "lagoon", Size: Vec{0.4, 0.2, 0.3}, Thickness: 0.02, Mass: 2,
			Position: Vec{1.4, -0.45, 0},
		}}
		c.Masses = []MassConfig{
			{ID: "cube", Shape: "cube", Size: Vec{0.1}, Density: 500, Position: Vec{-1.6, -0.3, 0}},
			{ID: "brick", Shape: "box", Size: Vec{0.2, 0.05, 0.1}, Density: 2000, Position: Vec{-1.2, -0.3, 0}},
			{ID: "cone-down", Shape: "cone", Radius: 0.08, Height: 0.2, Density: 400, Position: Vec{-0.8, -0.3, 0}},
			{ID: "cone-up", Shape: "cone", Radius: 0.08, Height: 0.2, VertexUp: true, Density: 400, Position: Vec{-0.4, -0.3, 0}},
			{ID: "ball", Shape: "ellipsoid", Size: Vec{0.15, 0.15, 0.15}, Density: 300, Position: Vec{0, -0.3, 0}},
			{ID: "bottle", Shape: "bottle", Radius: 0.05, Height: 0.25, Density: 700, Position: Vec{0.4, -0.3, 0}},
			{ID: "duck", Shape: "duck", Size: Vec{0.1, 0.08, 0.1}, Density: 500, Position: Vec{1.4, -0.2, 0}},
			{ID: "ghost", Shape: "cube", Size: Vec{0.1}, Density: 500, Position: Vec{0.8, -0.3, 0}, Visible: off()},
		}
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
