package geomap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RenderMarkers(t *testing.T) {
	m := New("Frog Species Map", -33.8, 151.2, 6)
	m.AddMarker(Marker{
		Lat:     -33.8,
		Lon:     151.2,
		Popup:   "<b>Scientific Name:</b> Litoria caerulea",
		Tooltip: "Litoria caerulea",
		Color:   "green",
		Icon:    "info",
	})

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "<title>Frog Species Map</title>")
	assert.Contains(t, out, "leaflet@1.9.4")
	assert.Contains(t, out, "Litoria caerulea")
	assert.Contains(t, out, `"color":"green"`)
	// No clustering requested, so the plugin stays out of the page
	assert.NotContains(t, out, "markercluster")
	assert.NotContains(t, out, "leaflet-heat")
}

func TestMap_RenderCluster(t *testing.T) {
	m := New("clustered", 0, 0, 3)
	m.EnableClustering()
	m.AddMarker(Marker{Lat: 1, Lon: 2})

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))

	assert.Contains(t, buf.String(), "leaflet.markercluster")
	assert.Contains(t, buf.String(), "L.markerClusterGroup()")
}

func TestMap_RenderHeat(t *testing.T) {
	m := New("heat", 0, 0, 3)
	m.AddHeatPoints([]HeatPoint{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))

	assert.Contains(t, buf.String(), "leaflet-heat")
	assert.Contains(t, buf.String(), "L.heatLayer")
}

func TestMap_TileLayerControl(t *testing.T) {
	m := New("tiles", 54.5, -3.5, 5)
	m.AddTileLayer(TileLayer{
		Name:        "CartoDB Positron",
		URLTemplate: "https://basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png",
		Attribution: "CartoDB",
	})

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))

	assert.Contains(t, buf.String(), "L.control.layers")
	assert.Contains(t, buf.String(), "CartoDB Positron")
}

func TestMap_CircleMarkerAndLegend(t *testing.T) {
	m := New("seasonal", -30, 150, 6)
	m.AddCircleMarker(CircleMarker{Lat: -30, Lon: 150, Radius: 5, Color: "blue", FillOpacity: 0.7})
	m.SetLegend(NewLegend("Seasons").AddSwatch("blue", "Winter (Jun-Aug)").HTML())

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf))

	assert.Contains(t, buf.String(), "L.circleMarker")
	assert.Contains(t, buf.String(), "<b>Seasons</b>")
	assert.Contains(t, buf.String(), "Winter (Jun-Aug)")
}

func TestMap_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "map.html")

	m := New("saved", 0, 0, 2)
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestLegend_Golden(t *testing.T) {
	out := NewLegend("Frog Calling Seasons").
		AddText("Markers colored by peak calling season:").
		AddSwatch("red", "Summer (Dec-Feb)").
		HTML()

	g := goldie.New(t)
	g.Assert(t, "legend_seasons", []byte(out))
}

func TestLegend_EscapesText(t *testing.T) {
	out := NewLegend("T").AddText(`<script>alert("x")</script>`).HTML()
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}
