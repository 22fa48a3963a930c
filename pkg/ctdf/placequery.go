package ctdf

// PlaceQuery is the text a user typed for a place and, once a suggestion was
// picked, what it resolved to.
type PlaceQuery struct {
	Text        string      `json:"text"`
	Coordinate  *Coordinate `json:"coordinate,omitempty"`
	FullAddress string      `json:"fullAddress,omitempty"`
}

func (p PlaceQuery) Resolved() bool {
	return p.Coordinate != nil && p.Coordinate.Valid()
}
