// Package geomap renders interactive Leaflet maps as standalone HTML files.
// It covers the small feature set the occurrence maps need: pin and circle
// markers with popups, marker clustering, a density heat layer, switchable
// tile layers, and a fixed legend box.
package geomap

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Marker is a pin marker with an optional glyph and folium-style color name
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
	Color   string  `json:"color,omitempty"`
	Icon    string  `json:"icon,omitempty"` // "star", "globe", "warning", "info"
}

// CircleMarker is a fixed-radius circle marker
type CircleMarker struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	Popup       string  `json:"popup,omitempty"`
	Tooltip     string  `json:"tooltip,omitempty"`
	Color       string  `json:"color,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
}

// HeatPoint is one input point of the density heat layer
type HeatPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TileLayer is a switchable base tile layer
type TileLayer struct {
	Name        string
	URLTemplate string
	Attribution string
}

// Map accumulates layers and renders to a standalone HTML document
type Map struct {
	title      string
	centerLat  float64
	centerLon  float64
	zoom       int
	tiles      []TileLayer
	markers    []Marker
	circles    []CircleMarker
	heat       []HeatPoint
	cluster    bool
	legendHTML template.HTML
}

// osmTiles is the default base layer
var osmTiles = TileLayer{
	Name:        "OpenStreetMap",
	URLTemplate: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
}

// New creates a map centered on the given coordinates
func New(title string, centerLat, centerLon float64, zoom int) *Map {
	return &Map{
		title:     title,
		centerLat: centerLat,
		centerLon: centerLon,
		zoom:      zoom,
		tiles:     []TileLayer{osmTiles},
	}
}

// AddTileLayer registers an additional switchable base layer
func (m *Map) AddTileLayer(layer TileLayer) {
	m.tiles = append(m.tiles, layer)
}

// AddMarker adds a pin marker
func (m *Map) AddMarker(marker Marker) {
	m.markers = append(m.markers, marker)
}

// AddCircleMarker adds a circle marker
func (m *Map) AddCircleMarker(c CircleMarker) {
	m.circles = append(m.circles, c)
}

// AddHeatPoints adds points to the density heat layer
func (m *Map) AddHeatPoints(points []HeatPoint) {
	m.heat = append(m.heat, points...)
}

// EnableClustering groups pin markers into zoom-dependent clusters
func (m *Map) EnableClustering() {
	m.cluster = true
}

// SetLegend installs the fixed legend box. The HTML is trusted; callers build
// it with the Legend helper, never from remote data.
func (m *Map) SetLegend(html string) {
	m.legendHTML = template.HTML(html)
}

// Save renders the map to an HTML file, creating parent directories as needed
func (m *Map) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	if err := m.Render(f); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}
