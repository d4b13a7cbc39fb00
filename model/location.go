package model

// GeoLocation is a geographic observer position used by the house layer.
// Longitude is positive east, latitude positive north, both in degrees.
type GeoLocation struct {
	LatitudeDeg  float64 `json:"LatitudeDeg"`
	LongitudeDeg float64 `json:"LongitudeDeg"`
}
