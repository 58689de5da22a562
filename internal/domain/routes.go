package domain

// RouteKind tags a line feature.
type RouteKind string

const (
	RouteFarmToRoaster     RouteKind = "farm_to_roaster"
	RouteRoasterToConsumed RouteKind = "roaster_to_consumed"
)

// Route is one leg of a coffee's journey. Identity holds the rounded
// endpoint coordinates used for exact-match highlighting.
type Route struct {
	Kind     RouteKind
	From     Position
	To       Position
	Identity map[string]float64
}

// Feature renders the route as a LineString feature.
func (r Route) Feature() Feature {
	props := make(map[string]any, len(r.Identity)+1)
	props["kind"] = string(r.Kind)
	for k, v := range r.Identity {
		props[k] = v
	}
	return Feature{
		Type:       "Feature",
		Geometry:   lineGeometry(r.From, r.To),
		Properties: props,
	}
}

// BuildRoutes derives up to two routes per record: farm to roaster when the
// roaster city resolves, and roaster to place of consumption when the
// consumption city resolves too.
func BuildRoutes(records []Record, cities CityMap) []Route {
	var routes []Route
	for _, rec := range records {
		roaster, ok := cities.Lookup(rec.RoasterCity)
		if !ok {
			continue
		}
		rLng5, rLat5 := Round5(roaster.Lng), Round5(roaster.Lat)
		routes = append(routes, Route{
			Kind: RouteFarmToRoaster,
			From: Position{rec.Lng, rec.Lat},
			To:   roaster.Position(),
			Identity: map[string]float64{
				"farmLng5":    rec.FarmLng5,
				"farmLat5":    rec.FarmLat5,
				"roasterLng5": rLng5,
				"roasterLat5": rLat5,
			},
		})

		consumed, ok := cities.Lookup(rec.ConsumedCity)
		if !ok {
			continue
		}
		routes = append(routes, Route{
			Kind: RouteRoasterToConsumed,
			From: roaster.Position(),
			To:   consumed.Position(),
			Identity: map[string]float64{
				"roasterLng5":  rLng5,
				"roasterLat5":  rLat5,
				"consumedLng5": Round5(consumed.Lng),
				"consumedLat5": Round5(consumed.Lat),
			},
		})
	}
	return routes
}

// RouteFeatures renders routes as a feature collection.
func RouteFeatures(routes []Route) FeatureCollection {
	features := make([]Feature, 0, len(routes))
	for _, r := range routes {
		features = append(features, r.Feature())
	}
	return NewFeatureCollection(features)
}

// matchNothing is a filter that no route satisfies.
var matchNothing = []any{"==", []any{"get", "kind"}, "___nope___"}

// RouteHighlightFilter returns a map-engine filter selecting exactly the
// routes of one record, matched by kind and rounded endpoints. Records with
// no resolvable route get a filter that matches nothing.
func RouteHighlightFilter(rec Record, cities CityMap) []any {
	filters := []any{"any"}
	for _, r := range BuildRoutes([]Record{rec}, cities) {
		clause := []any{"all", []any{"==", []any{"get", "kind"}, string(r.Kind)}}
		for _, key := range identityKeys(r.Kind) {
			clause = append(clause, []any{"==", []any{"get", key}, r.Identity[key]})
		}
		filters = append(filters, clause)
	}
	if len(filters) == 1 {
		return matchNothing
	}
	return filters
}

func identityKeys(kind RouteKind) []string {
	if kind == RouteFarmToRoaster {
		return []string{"farmLng5", "farmLat5", "roasterLng5", "roasterLat5"}
	}
	return []string{"roasterLng5", "roasterLat5", "consumedLng5", "consumedLat5"}
}
