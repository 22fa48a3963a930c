package gtfs

import (
	"strings"
	"testing"
	"time"

	"github.com/smartbus/routeplanner/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

const stopsTxt = `stop_id,stop_code,stop_name,stop_lat,stop_lon,location_type,parent_station
1001,AD1,Al Wahda Mall ,24.4701,54.3720,0,
1002,,Corniche Hospital,24.4810,54.3581,,
STN1,,Main Bus Station,24.4680,54.3790,1,
1003,,Broken Row,not-a-number,54.3
1004,,Short Row
`

func TestParseStops(t *testing.T) {
	stops, err := ParseStops(strings.NewReader(stopsTxt[:strings.Index(stopsTxt, "1003")]))
	require.NoError(t, err)
	require.Len(t, stops, 3)

	assert.Equal(t, "1001", stops[0].ID)
	assert.Equal(t, "AD1", stops[0].Code)
	assert.Equal(t, 24.4701, stops[0].Latitude)
	assert.True(t, stops[0].Boardable())
	assert.True(t, stops[1].Boardable())
	assert.False(t, stops[2].Boardable())
}

func TestParseStopsMalformed(t *testing.T) {
	_, err := ParseStops(strings.NewReader(stopsTxt))
	assert.Error(t, err)
}

func TestToCTDF(t *testing.T) {
	now := time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	datasource := &ctdf.DataSource{OriginalFormat: "GTFS", Dataset: "ae-abu-dhabi-stops"}

	stop := Stop{ID: "1001", Code: "AD1", Name: " Al Wahda Mall ", Latitude: 24.4701, Longitude: 54.3720}.ToCTDF(datasource, now)

	assert.Equal(t, "gtfs-stop-1001", stop.PrimaryIdentifier)
	assert.Equal(t, "Al Wahda Mall", stop.PrimaryName)
	assert.Equal(t, map[string]string{"GTFS-StopID": "1001", "GTFS-StopCode": "AD1"}, stop.OtherIdentifiers)
	assert.Equal(t, []float64{54.3720, 24.4701}, stop.Location.Coordinates)
	assert.Equal(t, now, stop.CreationDateTime)
	assert.Same(t, datasource, stop.DataSource)
}

func TestStopOperations(t *testing.T) {
	operations := StopOperations([]Stop{
		{ID: "1", Latitude: 24.47, Longitude: 54.37},
		{ID: "2", Latitude: 24.48, Longitude: 54.35, Type: "0"},
		{ID: "station", Latitude: 24.46, Longitude: 54.37, Type: "1"},
		{ID: "bad", Latitude: 124, Longitude: 54.37},
	}, &ctdf.DataSource{})

	require.Len(t, operations, 2)
	for _, operation := range operations {
		_, ok := operation.(*mongo.ReplaceOneModel)
		assert.True(t, ok)
	}
}
