package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"collage/layout"
)

// Manifest records a finished layout so the collage can be rendered again
// without repeating the search.
type Manifest struct {
	Meta struct {
		Version   string `json:"version" yaml:"version"`
		Timestamp string `json:"timestamp" yaml:"timestamp"`
	} `json:"meta" yaml:"meta"`
	Canvas struct {
		W int `json:"w" yaml:"w"`
		H int `json:"h" yaml:"h"`
	} `json:"canvas" yaml:"canvas"`
	Background string `json:"background" yaml:"background"`
	Strategy   string `json:"strategy" yaml:"strategy"`
	Style      string `json:"style,omitempty" yaml:"style,omitempty"`
	Seed       uint64 `json:"seed" yaml:"seed"`
	Score      int    `json:"score" yaml:"score"`
	Rows       int    `json:"rows,omitempty" yaml:"rows,omitempty"`
	// Files are the source image paths, relative to the manifest when possible.
	// Placement.Index refers to this list.
	Files      []string           `json:"files" yaml:"files"`
	Placements []layout.Placement `json:"placements" yaml:"placements"`
	Degraded   []layout.Degraded  `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// newManifest builds the manifest for res as it will be written to path.
func newManifest(path string, cfg *layout.Config, res *layout.Result, sources []Source) *Manifest {
	m := &Manifest{}
	m.Meta.Version = VERSION
	m.Meta.Timestamp = time.Now().Format(time.RFC3339)
	m.Canvas.W, m.Canvas.H = cfg.Width, cfg.Height
	m.Background = formatColor(cfg.Background)
	m.Strategy = res.Strategy.String()
	if res.Strategy == layout.Organic {
		m.Style = cfg.Style.String()
	}
	m.Seed = res.Seed
	m.Score = res.Score
	m.Rows = res.Rows
	m.Placements = res.Placements
	m.Degraded = res.Degraded

	base := filepath.Dir(path)
	m.Files = make([]string, len(sources))
	for i, s := range sources {
		m.Files[i] = s.Path
		if abs, err := filepath.Abs(s.Path); err == nil {
			if absBase, err := filepath.Abs(base); err == nil {
				if rel, err := filepath.Rel(absBase, abs); err == nil {
					m.Files[i] = filepath.ToSlash(rel)
				}
			}
		}
	}
	return m
}

// writeManifest encodes m as YAML for .yaml/.yml paths and as JSON otherwise.
func writeManifest(m *Manifest, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(m)
	} else {
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// readManifest loads a manifest and checks that it is self-consistent.
func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, m)
	} else {
		err = json.Unmarshal(data, m)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Canvas.W <= 0 || m.Canvas.H <= 0 {
		return nil, fmt.Errorf("manifest %s: canvas %dx%d: %w", path, m.Canvas.W, m.Canvas.H, layout.ErrInvalidConfig)
	}
	for _, p := range m.Placements {
		if p.Index < 0 || p.Index >= len(m.Files) {
			return nil, fmt.Errorf("manifest %s: placement %s refers to file %d of %d", path, p.ID, p.Index, len(m.Files))
		}
	}
	return m, nil
}

// sourcePaths resolves the manifest's file list against the manifest location.
func (m *Manifest) sourcePaths(manifestPath string) []string {
	base := filepath.Dir(manifestPath)
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		f = filepath.FromSlash(f)
		if !filepath.IsAbs(f) {
			f = filepath.Join(base, f)
		}
		paths[i] = f
	}
	return paths
}
