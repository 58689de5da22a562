package domain

// Position is a [longitude, latitude] pair.
type Position [2]float64

// Geometry is a GeoJSON Point or LineString.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features; a nil slice encodes as [].
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func pointGeometry(p Position) Geometry {
	return Geometry{Type: "Point", Coordinates: p}
}

func lineGeometry(points ...Position) Geometry {
	return Geometry{Type: "LineString", Coordinates: points}
}

// Feature renders the record as a point at its true farm coordinate.
func (r Record) Feature() Feature {
	return Feature{
		Type:     "Feature",
		Geometry: pointGeometry(Position{r.Lng, r.Lat}),
		Properties: map[string]any{
			"id":            r.ID,
			"timestamp":     r.Timestamp,
			"email":         r.Email,
			"uploader":      r.Uploader,
			"originCountry": r.OriginCountry,
			"originRegion":  r.OriginRegion,
			"farmName":      r.FarmName,
			"process":       r.Process,
			"process_norm":  string(r.ProcessNorm),
			"brewMethod":    r.BrewMethod,
			"whereConsumed": r.WhereConsumed,
			"cafeName":      r.CafeName,
			"cafeUrl":       r.CafeURL,
			"consumedCity":  r.ConsumedCity,
			"consumedAddr":  r.ConsumedAddr,
			"recipe":        r.Recipe,
			"roasterName":   r.RoasterName,
			"roasterCity":   r.RoasterCity,
			"photoUrl":      r.PhotoURL,
			"matchedName":   r.MatchedName,
			"countryIso2":   r.CountryISO2,
			"flagEmoji":     r.FlagEmoji,
			"farmLng5":      r.FarmLng5,
			"farmLat5":      r.FarmLat5,
		},
	}
}

// PointFeatures renders one point feature per record.
func PointFeatures(records []Record) FeatureCollection {
	features := make([]Feature, 0, len(records))
	for _, r := range records {
		features = append(features, r.Feature())
	}
	return NewFeatureCollection(features)
}
