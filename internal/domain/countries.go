package domain

import (
	"regexp"
	"strings"
)

type isoSet map[string]struct{}

func newISOSet(groups ...[]string) isoSet {
	s := make(isoSet)
	for _, g := range groups {
		for _, code := range g {
			s[code] = struct{}{}
		}
	}
	return s
}

func (s isoSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

// Specialty coffee producers grouped by geography.
var (
	africaCodes        = []string{"BI", "CM", "CD", "ET", "KE", "MG", "MW", "MZ", "RW", "SS", "TZ", "UG", "ZM", "ZW", "ST"}
	asiaCodes          = []string{"CN", "ID", "IN", "LA", "MM", "MY", "NP", "PH", "LK", "TH", "TL", "TW", "VN", "YE"}
	southAmericaCodes  = []string{"BO", "BR", "CO", "EC", "PE", "VE"}
	centralAmericaCode = []string{"CR", "GT", "HN", "MX", "NI", "PA", "SV"}
	caribbeanCodes     = []string{"CU", "DO", "HT", "JM", "PR"}
	oceaniaCodes       = []string{"FJ", "NC", "PG", "SB", "VU"}
	islandCodes        = []string{"CU", "DO", "HT", "ID", "JM", "KM", "MG", "NC", "PG", "PR", "RE", "SB", "ST", "TW", "VU", "FJ"}

	africaISO       = newISOSet(africaCodes)
	asiaISO         = newISOSet(asiaCodes)
	southAmericaISO = newISOSet(southAmericaCodes)
	northAmericaISO = newISOSet([]string{"US"}, centralAmericaCode, caribbeanCodes)
	oceaniaISO      = newISOSet(oceaniaCodes)
	latinISO        = newISOSet(southAmericaCodes, centralAmericaCode, caribbeanCodes)
	islandISO       = newISOSet(islandCodes)
)

// Continent names used by the coffee-continent checks.
const (
	ContinentAfrica       = "Africa"
	ContinentAsia         = "Asia"
	ContinentNorthAmerica = "North America"
	ContinentSouthAmerica = "South America"
	ContinentOceania      = "Oceania"
)

// CoffeeContinents are the continents where coffee is grown.
var CoffeeContinents = []string{
	ContinentAfrica, ContinentAsia, ContinentNorthAmerica, ContinentSouthAmerica, ContinentOceania,
}

var continentTable = []struct {
	name  string
	codes isoSet
}{
	{ContinentAfrica, africaISO},
	{ContinentAsia, asiaISO},
	{ContinentSouthAmerica, southAmericaISO},
	{ContinentNorthAmerica, northAmericaISO},
	{ContinentOceania, oceaniaISO},
}

// ContinentOf returns the coffee continent of an ISO2 code, or "" when the
// code is not a known producer.
func ContinentOf(iso2 string) string {
	code := strings.ToUpper(strings.TrimSpace(iso2))
	for _, c := range continentTable {
		if c.codes.has(code) {
			return c.name
		}
	}
	return ""
}

// IsAfrican, IsAsian, IsLatinAmerican and IsIsland report membership in the
// producer groups used by achievements.
func IsAfrican(iso2 string) bool       { return africaISO.has(iso2) }
func IsAsian(iso2 string) bool         { return asiaISO.has(iso2) }
func IsLatinAmerican(iso2 string) bool { return latinISO.has(iso2) }
func IsIsland(iso2 string) bool        { return islandISO.has(iso2) }

var iso2Re = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeISO2 upper-cases and trims a country code, returning "" unless
// the result is two ASCII letters.
func NormalizeISO2(s string) string {
	code := strings.ToUpper(strings.TrimSpace(s))
	if !iso2Re.MatchString(code) {
		return ""
	}
	return code
}

// countryMatchers detect a producing country in free text; first match wins.
var countryMatchers = []rule[string]{
	{regexp.MustCompile(`(?i)brazil|бразил`), "Brazil"},
	{regexp.MustCompile(`(?i)colomb|колумб`), "Colombia"},
	{regexp.MustCompile(`(?i)costa\s*rica|коста\s*рика`), "Costa Rica"},
	{regexp.MustCompile(`(?i)el\s*salvador|сальвадор`), "El Salvador"},
	{regexp.MustCompile(`(?i)ethiop|эфиоп`), "Ethiopia"},
	{regexp.MustCompile(`(?i)guatemal|гватемал`), "Guatemala"},
	{regexp.MustCompile(`(?i)hondur|гондурас`), "Honduras"},
	{regexp.MustCompile(`(?i)kenya|кени[яи]`), "Kenya"},
	{regexp.MustCompile(`(?i)nicaragua|никараг`), "Nicaragua"},
	{regexp.MustCompile(`(?i)panama|панам`), "Panama"},
	{regexp.MustCompile(`(?i)peru|перу`), "Peru"},
	{regexp.MustCompile(`(?i)rwanda|руанд`), "Rwanda"},
	{regexp.MustCompile(`(?i)tanzan|танзани`), "Tanzania"},
	{regexp.MustCompile(`(?i)uganda|уганда`), "Uganda"},
	{regexp.MustCompile(`(?i)burundi|бурунд`), "Burundi"},
	{regexp.MustCompile(`(?i)mexic|мексик`), "Mexico"},
	{regexp.MustCompile(`(?i)yemen|йемен`), "Yemen"},
	{regexp.MustCompile(`(?i)indones|индонез`), "Indonesia"},
	{regexp.MustCompile(`(?i)sumatr|суматр`), "Sumatra"},
	{regexp.MustCompile(`(?i)papua|папуа|png`), "Papua New Guinea"},
	{regexp.MustCompile(`(?i)china|китай`), "China"},
	{regexp.MustCompile(`(?i)india|индия`), "India"},
	{regexp.MustCompile(`(?i)vietnam|вьетнам`), "Vietnam"},
	{regexp.MustCompile(`(?i)thailand|таиланд`), "Thailand"},
	{regexp.MustCompile(`(?i)laos|лаос`), "Laos"},
	{regexp.MustCompile(`(?i)myanmar|бирма|мьянма`), "Myanmar"},
	{regexp.MustCompile(`(?i)dominican|доминикан`), "Dominican Republic"},
	{regexp.MustCompile(`(?i)jamaic|ямайк`), "Jamaica"},
	{regexp.MustCompile(`(?i)cuba|куба`), "Cuba"},
	{regexp.MustCompile(`(?i)haiti|гаити`), "Haiti"},
	{regexp.MustCompile(`(?i)ecuador|эквадор`), "Ecuador"},
	{regexp.MustCompile(`(?i)bolivi|боливи`), "Bolivia"},
	{regexp.MustCompile(`(?i)guinea|гвиней`), "Guinea"},
	{regexp.MustCompile(`(?i)cameroon|камерун`), "Cameroon"},
	{regexp.MustCompile(`(?i)congo|конго|rdc|drc`), "Democratic Republic of the Congo"},
	{regexp.MustCompile(`(?i)zambi|замби`), "Zambia"},
	{regexp.MustCompile(`(?i)zimbabw|зимбаб`), "Zimbabwe"},
	{regexp.MustCompile(`(?i)malawi|малави`), "Malawi"},
	{regexp.MustCompile(`(?i)timor|тимор`), "Timor-Leste"},
	{regexp.MustCompile(`(?i)taiwan|тайван`), "Taiwan"},
	{regexp.MustCompile(`(?i)philippin|филиппин`), "Philippines"},
}

// DetectCountryName returns the first producing country mentioned in the
// text, or "".
func DetectCountryName(text string) string {
	if text == "" {
		return ""
	}
	return classify(countryMatchers, text, "")
}
