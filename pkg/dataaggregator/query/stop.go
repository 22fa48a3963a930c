package query

import (
	"github.com/smartbus/routeplanner/pkg/ctdf"
	"go.mongodb.org/mongo-driver/bson"
)

type Stop struct {
	PrimaryIdentifier string
}

func (s *Stop) ToBson() bson.M {
	if s.PrimaryIdentifier != "" {
		return bson.M{"primaryidentifier": s.PrimaryIdentifier}
	}

	return nil
}

type StopsInBounds struct {
	SouthWest ctdf.Coordinate
	NorthEast ctdf.Coordinate
	Limit     int64
}

func (s *StopsInBounds) ToBson() bson.M {
	return bson.M{
		"location.coordinates": bson.M{
			"$geoWithin": bson.M{
				"$box": bson.A{
					bson.A{s.SouthWest.Longitude, s.SouthWest.Latitude},
					bson.A{s.NorthEast.Longitude, s.NorthEast.Latitude},
				},
			},
		},
	}
}
