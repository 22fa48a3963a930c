package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/smartbus/routeplanner/pkg/ctdf"
)

// Stop is a row of a GTFS stops.txt
type Stop struct {
	ID           string  `csv:"stop_id"`
	Code         string  `csv:"stop_code"`
	Name         string  `csv:"stop_name"`
	Description  string  `csv:"stop_desc"`
	Latitude     float64 `csv:"stop_lat"`
	Longitude    float64 `csv:"stop_lon"`
	ZoneID       string  `csv:"zone_id"`
	URL          string  `csv:"stop_url"`
	Type         string  `csv:"location_type"`
	Parent       string  `csv:"parent_station"`
	Timezone     string  `csv:"stop_timezone"`
	Wheelchair   string  `csv:"wheelchair_boarding"`
	PlatformCode string  `csv:"platform_code"`
}

// Boardable is true for plain stops and platforms, stations and entrances are skipped
func (s Stop) Boardable() bool {
	return s.Type == "" || s.Type == "0"
}

func (s Stop) ToCTDF(datasource *ctdf.DataSource, now time.Time) *ctdf.Stop {
	stop := &ctdf.Stop{
		PrimaryIdentifier: fmt.Sprintf("gtfs-stop-%s", s.ID),
		OtherIdentifiers: map[string]string{
			"GTFS-StopID": s.ID,
		},
		CreationDateTime:     now,
		ModificationDateTime: now,
		DataSource:           datasource,
		PrimaryName:          strings.TrimSpace(s.Name),
		Location: ctdf.NewLocation(ctdf.Coordinate{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		}),
	}

	if s.Code != "" {
		stop.OtherIdentifiers["GTFS-StopCode"] = s.Code
	}

	return stop
}

func ParseStops(reader io.Reader) ([]Stop, error) {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		return r
	})

	var stops []Stop
	if err := gocsv.Unmarshal(reader, &stops); err != nil {
		return nil, err
	}

	return stops, nil
}

// ReadStopsFile reads either a bare stops.txt or the one inside a GTFS zip
func ReadStopsFile(path string) ([]Stop, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		archive, err := zip.OpenReader(path)
		if err != nil {
			return nil, err
		}
		defer archive.Close()

		for _, zipFile := range archive.File {
			if zipFile.Name != "stops.txt" {
				continue
			}

			file, err := zipFile.Open()
			if err != nil {
				return nil, err
			}
			defer file.Close()

			return ParseStops(file)
		}

		return nil, errors.New("GTFS archive has no stops.txt")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseStops(file)
}
