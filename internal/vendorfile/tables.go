package vendorfile

import "strings"

// countryNames translates the ISO-style country codes found in Vanguard
// exports into the full names Betashares uses, so look-through country
// rankings aggregate across both vendors. Unmapped codes pass through
// unchanged.
var countryNames = map[string]string{
	"US": "United States",
	"AU": "Australia",
	"GB": "United Kingdom",
	"JP": "Japan",
	"CN": "China",
	"HK": "Hong Kong",
	"TW": "Taiwan",
	"KR": "South Korea",
	"IN": "India",
	"SG": "Singapore",
	"ID": "Indonesia",
	"MY": "Malaysia",
	"TH": "Thailand",
	"PH": "Philippines",
	"NZ": "New Zealand",
	"CA": "Canada",
	"MX": "Mexico",
	"BR": "Brazil",
	"CL": "Chile",
	"DE": "Germany",
	"FR": "France",
	"NL": "Netherlands",
	"CH": "Switzerland",
	"IT": "Italy",
	"ES": "Spain",
	"PT": "Portugal",
	"BE": "Belgium",
	"AT": "Austria",
	"IE": "Ireland",
	"LU": "Luxembourg",
	"SE": "Sweden",
	"DK": "Denmark",
	"FI": "Finland",
	"NO": "Norway",
	"PL": "Poland",
	"GR": "Greece",
	"TR": "Turkey",
	"IL": "Israel",
	"SA": "Saudi Arabia",
	"AE": "United Arab Emirates",
	"QA": "Qatar",
	"KW": "Kuwait",
	"ZA": "South Africa",
	"EG": "Egypt",
	"KY": "Cayman Islands",
	"BM": "Bermuda",
	"JE": "Jersey",
}

// sectorNames folds Vanguard's ICB-flavoured sector labels onto the
// categories Betashares reports, again so the two vendors aggregate into
// one sector ranking. Unmapped labels pass through unchanged.
var sectorNames = map[string]string{
	"Information Technology":     "Technology",
	"Telecommunications":         "Communication Services",
	"Telecommunication Services": "Communication Services",
	"Media":                      "Communication Services",
	"Health Care":                "Healthcare",
	"Financials":                 "Financial Services",
	"Banks":                      "Financial Services",
	"Oil & Gas":                  "Energy",
	"Basic Materials":            "Materials",
	"Consumer Services":          "Consumer Discretionary",
	"Consumer Goods":             "Consumer Staples",
	"Personal & Household Goods": "Consumer Staples",
}

func translateCountry(code string) string {
	code = strings.TrimSpace(code)
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

func translateSector(sector string) string {
	sector = strings.TrimSpace(sector)
	if name, ok := sectorNames[sector]; ok {
		return name
	}
	return sector
}
