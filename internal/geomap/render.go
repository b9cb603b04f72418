package geomap

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// pageData is the template input for a rendered map document
type pageData struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	Tiles       []TileLayer
	MarkersJSON template.JS
	CirclesJSON template.JS
	HeatJSON    template.JS
	Cluster     bool
	HasHeat     bool
	HasControl  bool
	Legend      template.HTML
}

// Render writes the map as a standalone HTML document
func (m *Map) Render(w io.Writer) error {
	markersJSON, err := json.Marshal(m.markers)
	if err != nil {
		return fmt.Errorf("marshal markers: %w", err)
	}
	circlesJSON, err := json.Marshal(m.circles)
	if err != nil {
		return fmt.Errorf("marshal circle markers: %w", err)
	}
	heatJSON, err := json.Marshal(m.heat)
	if err != nil {
		return fmt.Errorf("marshal heat points: %w", err)
	}

	data := pageData{
		Title:       m.title,
		CenterLat:   m.centerLat,
		CenterLon:   m.centerLon,
		Zoom:        m.zoom,
		Tiles:       m.tiles,
		MarkersJSON: template.JS(markersJSON),
		CirclesJSON: template.JS(circlesJSON),
		HeatJSON:    template.JS(heatJSON),
		Cluster:     m.cluster,
		HasHeat:     len(m.heat) > 0,
		HasControl:  len(m.tiles) > 1,
		Legend:      m.legendHTML,
	}

	return pageTemplate.Execute(w, data)
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
{{- if .Cluster}}
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
{{- end}}
{{- if .HasHeat}}
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
{{- end}}
<style>
html, body { height: 100%; margin: 0; }
#map { height: 100%; }
.geomap-pin { border-radius: 50% 50% 50% 0; transform: rotate(-45deg); width: 22px; height: 22px; border: 1px solid rgba(0,0,0,0.4); }
.geomap-pin span { display: block; transform: rotate(45deg); text-align: center; color: white; font-size: 12px; line-height: 22px; }
</style>
</head>
<body>
<div id="map"></div>
{{.Legend}}
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});

var baseLayers = {};
{{- range $i, $t := .Tiles}}
var tile{{$i}} = L.tileLayer({{$t.URLTemplate}}, {attribution: {{$t.Attribution}}});
baseLayers[{{$t.Name}}] = tile{{$i}};
{{- if eq $i 0}}
tile{{$i}}.addTo(map);
{{- end}}
{{- end}}
{{- if .HasControl}}
L.control.layers(baseLayers).addTo(map);
{{- end}}

var glyphs = {star: "★", globe: "🌐", warning: "⚠", info: "ℹ"};

function pinIcon(color, icon) {
  var glyph = glyphs[icon] || "";
  return L.divIcon({
    className: "",
    html: '<div class="geomap-pin" style="background:' + (color || "#2A81CB") + '"><span>' + glyph + '</span></div>',
    iconSize: [22, 22],
    iconAnchor: [11, 22]
  });
}

var markers = {{.MarkersJSON}};
{{- if .Cluster}}
var markerLayer = L.markerClusterGroup();
{{- else}}
var markerLayer = L.layerGroup();
{{- end}}
markers.forEach(function (m) {
  var marker = L.marker([m.lat, m.lon], {icon: pinIcon(m.color, m.icon)});
  if (m.popup) { marker.bindPopup(m.popup, {maxWidth: 300}); }
  if (m.tooltip) { marker.bindTooltip(m.tooltip); }
  markerLayer.addLayer(marker);
});
markerLayer.addTo(map);

var circles = {{.CirclesJSON}};
circles.forEach(function (c) {
  var circle = L.circleMarker([c.lat, c.lon], {
    radius: c.radius,
    color: c.color || "gray",
    fillColor: c.color || "gray",
    fillOpacity: c.fillOpacity
  });
  if (c.popup) { circle.bindPopup(c.popup, {maxWidth: 300}); }
  if (c.tooltip) { circle.bindTooltip(c.tooltip); }
  circle.addTo(map);
});

{{- if .HasHeat}}
var heatPoints = {{.HeatJSON}};
L.heatLayer(heatPoints.map(function (p) { return [p.lat, p.lon]; })).addTo(map);
{{- end}}
</script>
</body>
</html>
`))
