package mapview

import "github.com/smartbus/routeplanner/pkg/util"

const (
	OpenStreetMapURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	OpenStreetMapAttribution = "&copy; OpenStreetMap contributors"
)

// TileLayer is handed to whatever draws the map, nothing here reads tiles
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	APIKey      string `json:"apiKey,omitempty"`
}

func DefaultTileLayer() TileLayer {
	env := util.GetEnvironmentVariables()

	return TileLayer{
		URL:         OpenStreetMapURL,
		Attribution: OpenStreetMapAttribution,
		APIKey:      env["SMARTBUS_MAPS_API_KEY"],
	}
}
