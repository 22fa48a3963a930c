package geocoding

import (
	"bytes"
	_ "embed"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/smartbus/routeplanner/pkg/util"
	"gopkg.in/yaml.v3"
)

//go:embed region.yaml
var defaultRegionYaml []byte

// Region is the area searches are restricted to
type Region struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`

	Endpoint    string `yaml:"endpoint"`
	UserAgent   string `yaml:"useragent"`
	CountryCode string `yaml:"countrycode"`
	ResultLimit int    `yaml:"resultlimit"`

	// Any one of these must appear in a result display name
	CityNames []string `yaml:"citynames"`

	DefaultCenter regionCenter `yaml:"defaultcenter"`
}

type regionCenter struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

func (r *Region) Center() ctdf.Coordinate {
	return ctdf.Coordinate{
		Latitude:  r.DefaultCenter.Latitude,
		Longitude: r.DefaultCenter.Longitude,
	}
}

func DefaultRegion() *Region {
	region, err := decodeRegion(defaultRegionYaml)
	if err != nil {
		log.Fatal().Err(err).Msg("Embedded region config is invalid")
	}

	return region
}

// LoadRegion reads a region yaml file, an empty path gives the default region
func LoadRegion(path string) (*Region, error) {
	if path == "" {
		return DefaultRegion(), nil
	}

	regionYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("Loading region config")

	return decodeRegion(regionYaml)
}

func decodeRegion(regionYaml []byte) (*Region, error) {
	region := &Region{
		ResultLimit: 10,
		UserAgent:   "SmartBusRoutePlanner/1.0",
	}

	decoder := yaml.NewDecoder(bytes.NewReader(regionYaml))
	if err := decoder.Decode(region); err != nil {
		return nil, err
	}

	if region.Endpoint == "" {
		return nil, errors.New("region endpoint must be set")
	}
	if region.CountryCode == "" {
		return nil, errors.New("region country code must be set")
	}
	if !region.Center().Valid() {
		return nil, errors.New("region default center is not a valid coordinate")
	}

	return region, nil
}

// RegionFromEnvironment loads SMARTBUS_REGION_CONFIG when set
func RegionFromEnvironment() (*Region, error) {
	env := util.GetEnvironmentVariables()

	return LoadRegion(env["SMARTBUS_REGION_CONFIG"])
}
