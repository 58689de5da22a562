package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one accepted tasting. Records are built once per load and never
// mutated.
type Record struct {
	ID            string  `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Email         string  `json:"email"`
	Uploader      string  `json:"uploader"`
	OriginCountry string  `json:"originCountry"`
	OriginRegion  string  `json:"originRegion"`
	FarmName      string  `json:"farmName"`
	Process       string  `json:"process"`
	ProcessNorm   Process `json:"process_norm"`
	BrewMethod    string  `json:"brewMethod"`
	WhereConsumed string  `json:"whereConsumed"`
	CafeName      string  `json:"cafeName"`
	CafeURL       string  `json:"cafeUrl"`
	ConsumedCity  string  `json:"consumedCity"`
	ConsumedAddr  string  `json:"consumedAddr"`
	Recipe        string  `json:"recipe"`
	RoasterName   string  `json:"roasterName"`
	RoasterCity   string  `json:"roasterCity"`
	PhotoURL      string  `json:"photoUrl"`
	MatchedName   string  `json:"matchedName"`
	CountryISO2   string  `json:"countryIso2"`
	FlagEmoji     string  `json:"flagEmoji"`

	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	FarmLng5 float64 `json:"farmLng5"`
	FarmLat5 float64 `json:"farmLat5"`
}

// MapRow converts a row into a Record. It reports false when latitude or
// longitude is missing or not a finite number.
func MapRow(row Row) (Record, bool) {
	lat, ok := ParseCoordinate(row.Pick(HeaderLat))
	if !ok {
		return Record{}, false
	}
	lng, ok := ParseCoordinate(row.Pick(HeaderLng))
	if !ok {
		return Record{}, false
	}

	photo := row.Pick(HeaderPhotoURL)
	if photo == "" {
		photo = row.Pick(HeaderFileUpload)
	}

	processRaw := row.Pick(HeaderProcess)
	rec := Record{
		Timestamp:     row.Pick(HeaderTimestamp),
		Email:         row.Pick(HeaderEmail),
		Uploader:      row.Pick(HeaderUploader),
		OriginCountry: row.Pick(HeaderOriginCountry),
		OriginRegion:  row.Pick(HeaderOriginRegion),
		FarmName:      row.Pick(HeaderFarmName),
		Process:       processRaw,
		ProcessNorm:   NormalizeProcess(processRaw),
		BrewMethod:    row.Pick(HeaderBrewMethod),
		WhereConsumed: row.Pick(HeaderWhereConsumed),
		CafeName:      row.Pick(HeaderCafeName),
		CafeURL:       row.Pick(HeaderCafeURL),
		ConsumedCity:  row.Pick(HeaderConsumedCity),
		ConsumedAddr:  row.Pick(HeaderConsumedAddr),
		Recipe:        row.Pick(HeaderRecipe),
		RoasterName:   row.Pick(HeaderRoasterName),
		RoasterCity:   row.Pick(HeaderRoasterCity),
		PhotoURL:      photo,
		MatchedName:   row.Pick(HeaderMatchedName),
		CountryISO2:   row.Pick(HeaderCountryISO2),
		FlagEmoji:     row.Pick(HeaderFlagEmoji),
		Lng:           lng,
		Lat:           lat,
		FarmLng5:      Round5(lng),
		FarmLat5:      Round5(lat),
	}
	rec.ID = generateID(rec.Timestamp, rec.Uploader, rec.FarmLng5, rec.FarmLat5)
	return rec, true
}

// MapRows maps every row and returns the accepted records in input order
// along with the number of dropped rows.
func MapRows(rows []Row) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		rec, ok := MapRow(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// numberPrefixRe matches the longest leading decimal number, mirroring how
// spreadsheet exports are read by lenient parsers ("41.7 N" reads as 41.7).
var numberPrefixRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseCoordinate parses a coordinate cell. The first comma is read as a
// decimal point. Non-finite results are rejected.
func ParseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		prefix := numberPrefixRe.FindString(s)
		if prefix == "" {
			return 0, false
		}
		v, err = strconv.ParseFloat(prefix, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Round5 rounds to 5 decimal places. Exact ties round away from zero, as the
// map page's toFixed does, so keys built here and in the browser agree.
func Round5(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scaled := new(big.Rat).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, big.NewRat(100000, 1))
	n, rem := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	if rem.Lsh(rem, 1).Cmp(scaled.Denom()) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	out, _ := new(big.Rat).SetFrac(n, big.NewInt(100000)).Float64()
	return math.Copysign(out, v)
}

// NormalizeName collapses runs of whitespace and trims.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalKey is the single normalization used for every city, header,
// cafe and roaster key: whitespace collapsed, trimmed and lower-cased.
func CanonicalKey(s string) string {
	return strings.ToLower(NormalizeName(s))
}

// generateID returns a stable identifier for a tasting so republishing a
// sheet produces the same message keys.
func generateID(timestamp, uploader string, lng5, lat5 float64) string {
	raw := fmt.Sprintf("%s|%s|%.5f|%.5f", timestamp, uploader, lng5, lat5)
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:16])
}

// Owner returns the primary uploader (the first one seen) and a display
// label that counts the other uploaders, e.g. "anna +2".
func Owner(records []Record) (name, label string) {
	seen := make(map[string]struct{})
	var uploaders []string
	for _, r := range records {
		u := strings.TrimSpace(r.Uploader)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		uploaders = append(uploaders, u)
	}
	if len(uploaders) == 0 {
		return "", ""
	}
	name = uploaders[0]
	if len(uploaders) > 1 {
		return name, fmt.Sprintf("%s +%d", name, len(uploaders)-1)
	}
	return name, name
}

// Dataset is the full result of one load: every accepted record and the
// resolved city coordinates.
type Dataset struct {
	Records    []Record  `json:"records"`
	Cities     CityMap   `json:"cities"`
	Owner      string    `json:"owner"`
	OwnerLabel string    `json:"ownerLabel"`
	Dropped    int       `json:"dropped"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// NewDataset stamps a dataset with the current time and derives its owner.
func NewDataset(records []Record, cities CityMap, dropped int) Dataset {
	if cities == nil {
		cities = CityMap{}
	}
	owner, label := Owner(records)
	return Dataset{
		Records:    records,
		Cities:     cities,
		Owner:      owner,
		OwnerLabel: label,
		Dropped:    dropped,
		LoadedAt:   clock.Now().UTC(),
	}
}

// CityNames returns the distinct trimmed roaster and consumption city names
// in first-seen order.
func CityNames(records []Record) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}
	for _, r := range records {
		add(r.RoasterCity)
		add(r.ConsumedCity)
	}
	return names
}
