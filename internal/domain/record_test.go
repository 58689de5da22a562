package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sheetHeader = []string{
	"Timestamp", "Uploader", "Origin country", "Process", "Brew method",
	"Where consumed", "Consumed city", "Roaster name", "Roaster city",
	"Photo (URL)", "File upload", "Latitude (lat)", "Longitude (lng)", "Country ISO2",
}

func sheetRow(cells ...string) Row {
	return NewRow(sheetHeader, cells)
}

func TestMapRows_DropsUnparseableCoordinates(t *testing.T) {
	rows := []Row{
		sheetRow("1/1/2024", "anna", "Ethiopia", "Washed", "V60", "Cafe", "Tbilisi", "Stamba", "Tbilisi", "", "", "6.8", "38.4", "ET"),
		sheetRow("1/2/2024", "anna", "Kenya", "Natural", "Espresso", "Home", "Tbilisi", "Stamba", "Tbilisi", "", "", "abc", "37.1", "KE"),
		sheetRow("1/3/2024", "anna", "Colombia", "Honey", "Aeropress", "Cafe", "Berlin", "Bonanza", "Berlin", "", "", "4,5", "-75.6", "CO"),
	}

	records, dropped := MapRows(rows)
	require.Len(t, records, 2)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "Ethiopia", records[0].OriginCountry)
	assert.Equal(t, "Colombia", records[1].OriginCountry)
	assert.InDelta(t, 4.5, records[1].Lat, 1e-9)

	fc := PointFeatures(records)
	assert.Len(t, fc.Features, 2)
}

func TestMapRow_Fields(t *testing.T) {
	rec, ok := MapRow(sheetRow(
		"1/1/2024", "anna", "Ethiopia", "Double Fermentation Anaerobic", "V60",
		"Home", "Tbilisi", "Stamba", "Tbilisi", "", "https://drive.google.com/open?id=1AbCdEfGhIjKlMnOpQrStUvWxYz",
		"6.123456", "38.654321", "ET",
	))
	require.True(t, ok)

	assert.Equal(t, ProcessAnaerobic, rec.ProcessNorm)
	assert.Equal(t, "Double Fermentation Anaerobic", rec.Process)
	assert.Equal(t, "https://drive.google.com/open?id=1AbCdEfGhIjKlMnOpQrStUvWxYz", rec.PhotoURL)
	assert.InDelta(t, 6.12346, rec.FarmLat5, 1e-9)
	assert.InDelta(t, 38.65432, rec.FarmLng5, 1e-9)
	assert.Len(t, rec.ID, 32)
}

func TestMapRow_PhotoPrefersURLColumn(t *testing.T) {
	rec, ok := MapRow(sheetRow(
		"", "", "", "", "", "", "", "", "", "https://example.com/a.jpg", "https://example.com/b.jpg", "1", "2", "",
	))
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.jpg", rec.PhotoURL)
}

func TestMapRow_MissingCoordinates(t *testing.T) {
	_, ok := MapRow(sheetRow("ts", "anna", "", "", "", "", "", "", "", "", "", "", "38.4", ""))
	assert.False(t, ok)

	_, ok = MapRow(sheetRow("ts", "anna", "", "", "", "", "", "", "", "", "", "6.8", "NaN", ""))
	assert.False(t, ok)
}

func TestMapRow_StableID(t *testing.T) {
	row := sheetRow("1/1/2024", "anna", "", "", "", "", "", "", "", "", "", "6.8", "38.4", "")
	a, _ := MapRow(row)
	b, _ := MapRow(row)
	assert.Equal(t, a.ID, b.ID)

	other, _ := MapRow(sheetRow("1/1/2024", "boris", "", "", "", "", "", "", "", "", "", "6.8", "38.4", ""))
	assert.NotEqual(t, a.ID, other.ID)
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"41.7", 41.7, true},
		{" -75.6 ", -75.6, true},
		{"41,7", 41.7, true},
		{"41.7 N", 41.7, true},
		{"1e2", 100, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCoordinate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestRound5(t *testing.T) {
	assert.InDelta(t, 38.65432, Round5(38.654321), 1e-12)
	assert.InDelta(t, -38.65432, Round5(-38.654321), 1e-12)
	assert.Equal(t, Round5(1.000004), Round5(Round5(1.000004)))
	assert.Equal(t, Round5(-0.123456), -Round5(0.123456))
	assert.True(t, math.IsInf(Round5(math.Inf(1)), 1))
	assert.True(t, math.IsNaN(Round5(math.NaN())))
}

func TestRound5_TiesAwayFromZero(t *testing.T) {
	// 1/64 and 5/64 are exact binary values sitting on a 5th-decimal tie.
	assert.Equal(t, 0.01563, Round5(0.015625))
	assert.Equal(t, -0.01563, Round5(-0.015625))
	assert.Equal(t, 0.07813, Round5(0.078125))
	assert.Equal(t, 0.0, Round5(0.000004))
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "tbilisi", CanonicalKey("  Tbilisi "))
	assert.Equal(t, "new york", CanonicalKey("New\tYork"))
	assert.Equal(t, "", CanonicalKey("   "))
}

func TestOwner(t *testing.T) {
	tests := []struct {
		name      string
		uploaders []string
		wantName  string
		wantLabel string
	}{
		{"none", nil, "", ""},
		{"single", []string{"anna", "anna"}, "anna", "anna"},
		{"several", []string{"", "anna", "boris", "anna", "vera"}, "anna", "anna +2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Record, 0, len(tt.uploaders))
			for _, u := range tt.uploaders {
				records = append(records, Record{Uploader: u})
			}
			name, label := Owner(records)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestNewDataset(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(clockwork.NewRealClock()) })

	ds := NewDataset([]Record{{Uploader: "anna"}}, nil, 3)
	assert.True(t, fixed.Equal(ds.LoadedAt))
	assert.Equal(t, "anna", ds.Owner)
	assert.Equal(t, 3, ds.Dropped)
	assert.NotNil(t, ds.Cities)
}

func TestCityNames(t *testing.T) {
	records := []Record{
		{RoasterCity: "Tbilisi", ConsumedCity: "Berlin"},
		{RoasterCity: " Tbilisi ", ConsumedCity: ""},
		{RoasterCity: "Rome", ConsumedCity: "Berlin"},
	}
	assert.Equal(t, []string{"Tbilisi", "Berlin", "Rome"}, CityNames(records))
}

func TestCityMap_Lookup(t *testing.T) {
	m := CityMap{}
	m.Add(" Tbilisi ", CityPoint{Lng: 44.8, Lat: 41.7})

	for _, name := range []string{"Tbilisi", "tbilisi ", "TBILISI", "  tbilisi"} {
		pt, ok := m.Lookup(name)
		require.True(t, ok, name)
		assert.InDelta(t, 44.8, pt.Lng, 1e-9)
	}

	_, ok := m.Lookup("Batumi")
	assert.False(t, ok)
	_, ok = m.Lookup("  ")
	assert.False(t, ok)
}

func TestStaticCity(t *testing.T) {
	pt, ok := StaticCity("Москва")
	require.True(t, ok)
	assert.Equal(t, "RU", pt.CountryCode)

	_, ok = StaticCity("Atlantis")
	assert.False(t, ok)
}

func TestPhotoCandidates(t *testing.T) {
	const id = "1AbCdEfGhIjKlMnOpQrStUvWxYz"

	assert.Nil(t, PhotoCandidates("  "))
	assert.Equal(t, []string{"https://example.com/a.jpg"}, PhotoCandidates("https://example.com/a.jpg"))

	thumb := "https://drive.google.com/thumbnail?id=" + id + "&sz=w400"
	assert.Equal(t, []string{thumb}, PhotoCandidates(thumb))

	got := PhotoCandidates("https://drive.google.com/file/d/" + id + "/view")
	require.Len(t, got, 4)
	assert.Equal(t, "https://drive.google.com/thumbnail?id="+id+"&sz=w1600", got[0])
	assert.Equal(t, "https://drive.google.com/uc?export=download&id="+id, got[3])

	assert.Equal(t, id, DriveID("https://drive.google.com/open?id="+id))
	assert.Empty(t, DriveID("https://drive.google.com/open?id=short"))
}
