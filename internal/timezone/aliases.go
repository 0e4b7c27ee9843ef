package timezone

// Static alias tables. These mirror the common ways users refer to a zone:
// country names, three-letter abbreviations, flag emoji and phone-code
// prefixes. Countries spanning several zones map to their most populous one.

var countryAliases = map[string]string{
	"afghanistan":    "Asia/Kabul",
	"argentina":      "America/Argentina/Buenos_Aires",
	"australia":      "Australia/Sydney",
	"austria":        "Europe/Vienna",
	"bangladesh":     "Asia/Dhaka",
	"belgium":        "Europe/Brussels",
	"bolivia":        "America/La_Paz",
	"brazil":         "America/Sao_Paulo",
	"bulgaria":       "Europe/Sofia",
	"canada":         "America/Toronto",
	"chile":          "America/Santiago",
	"china":          "Asia/Shanghai",
	"colombia":       "America/Bogota",
	"croatia":        "Europe/Zagreb",
	"cuba":           "America/Havana",
	"czechia":        "Europe/Prague",
	"denmark":        "Europe/Copenhagen",
	"ecuador":        "America/Guayaquil",
	"egypt":          "Africa/Cairo",
	"estonia":        "Europe/Tallinn",
	"finland":        "Europe/Helsinki",
	"france":         "Europe/Paris",
	"germany":        "Europe/Berlin",
	"greece":         "Europe/Athens",
	"hungary":        "Europe/Budapest",
	"iceland":        "Atlantic/Reykjavik",
	"india":          "Asia/Kolkata",
	"indonesia":      "Asia/Jakarta",
	"iran":           "Asia/Tehran",
	"ireland":        "Europe/Dublin",
	"israel":         "Asia/Jerusalem",
	"italy":          "Europe/Rome",
	"japan":          "Asia/Tokyo",
	"kenya":          "Africa/Nairobi",
	"latvia":         "Europe/Riga",
	"lithuania":      "Europe/Vilnius",
	"malaysia":       "Asia/Kuala_Lumpur",
	"mexico":         "America/Mexico_City",
	"morocco":        "Africa/Casablanca",
	"nepal":          "Asia/Kathmandu",
	"netherlands":    "Europe/Amsterdam",
	"new zealand":    "Pacific/Auckland",
	"nigeria":        "Africa/Lagos",
	"norway":         "Europe/Oslo",
	"pakistan":       "Asia/Karachi",
	"peru":           "America/Lima",
	"philippines":    "Asia/Manila",
	"poland":         "Europe/Warsaw",
	"portugal":       "Europe/Lisbon",
	"romania":        "Europe/Bucharest",
	"russia":         "Europe/Moscow",
	"saudi arabia":   "Asia/Riyadh",
	"serbia":         "Europe/Belgrade",
	"singapore":      "Asia/Singapore",
	"slovakia":       "Europe/Bratislava",
	"slovenia":       "Europe/Ljubljana",
	"south africa":   "Africa/Johannesburg",
	"south korea":    "Asia/Seoul",
	"spain":          "Europe/Madrid",
	"sri lanka":      "Asia/Colombo",
	"sweden":         "Europe/Stockholm",
	"switzerland":    "Europe/Zurich",
	"thailand":       "Asia/Bangkok",
	"turkey":         "Europe/Istanbul",
	"ukraine":        "Europe/Kyiv",
	"united kingdom": "Europe/London",
	"uk":             "Europe/London",
	"united states":  "America/New_York",
	"usa":            "America/New_York",
	"uruguay":        "America/Montevideo",
	"venezuela":      "America/Caracas",
	"vietnam":        "Asia/Ho_Chi_Minh",
}

// Three-letter codes resolve to representative IANA zones, the way users
// expect them rather than the way the tz database defines them (IST is
// India, not Ireland).
var codeAliases = map[string]string{
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"GMT": "Etc/GMT",
	"UTC": "Etc/UTC",
	"BST": "Europe/London",
	"CET": "Europe/Paris",
	"EET": "Europe/Athens",
	"MSK": "Europe/Moscow",
	"IST": "Asia/Kolkata",
	"JST": "Asia/Tokyo",
	"KST": "Asia/Seoul",
	"AEST": "Australia/Sydney",
	"ACST": "Australia/Adelaide",
	"AWST": "Australia/Perth",
	"NZST": "Pacific/Auckland",
	"HST": "Pacific/Honolulu",
	"AKST": "America/Anchorage",
	"SGT": "Asia/Singapore",
	"ICT": "Asia/Bangkok",
	"WIB": "Asia/Jakarta",
}

// ISO country code → zone, used by both flag emoji and phone codes.
var isoCountryZones = map[string]string{
	"AR": "America/Argentina/Buenos_Aires",
	"AU": "Australia/Sydney",
	"AT": "Europe/Vienna",
	"BD": "Asia/Dhaka",
	"BE": "Europe/Brussels",
	"BO": "America/La_Paz",
	"BR": "America/Sao_Paulo",
	"CA": "America/Toronto",
	"CH": "Europe/Zurich",
	"CL": "America/Santiago",
	"CN": "Asia/Shanghai",
	"CO": "America/Bogota",
	"CZ": "Europe/Prague",
	"DE": "Europe/Berlin",
	"DK": "Europe/Copenhagen",
	"EC": "America/Guayaquil",
	"EG": "Africa/Cairo",
	"ES": "Europe/Madrid",
	"FI": "Europe/Helsinki",
	"FR": "Europe/Paris",
	"GB": "Europe/London",
	"GR": "Europe/Athens",
	"HU": "Europe/Budapest",
	"ID": "Asia/Jakarta",
	"IE": "Europe/Dublin",
	"IL": "Asia/Jerusalem",
	"IN": "Asia/Kolkata",
	"IR": "Asia/Tehran",
	"IS": "Atlantic/Reykjavik",
	"IT": "Europe/Rome",
	"JP": "Asia/Tokyo",
	"KE": "Africa/Nairobi",
	"KR": "Asia/Seoul",
	"LK": "Asia/Colombo",
	"MX": "America/Mexico_City",
	"MY": "Asia/Kuala_Lumpur",
	"NG": "Africa/Lagos",
	"NL": "Europe/Amsterdam",
	"NO": "Europe/Oslo",
	"NP": "Asia/Kathmandu",
	"NZ": "Pacific/Auckland",
	"PE": "America/Lima",
	"PH": "Asia/Manila",
	"PK": "Asia/Karachi",
	"PL": "Europe/Warsaw",
	"PT": "Europe/Lisbon",
	"RO": "Europe/Bucharest",
	"RS": "Europe/Belgrade",
	"RU": "Europe/Moscow",
	"SA": "Asia/Riyadh",
	"SE": "Europe/Stockholm",
	"SG": "Asia/Singapore",
	"TH": "Asia/Bangkok",
	"TR": "Europe/Istanbul",
	"UA": "Europe/Kyiv",
	"US": "America/New_York",
	"UY": "America/Montevideo",
	"VE": "America/Caracas",
	"VN": "Asia/Ho_Chi_Minh",
	"ZA": "Africa/Johannesburg",
}

var phoneCodeCountries = map[string]string{
	"+1":   "US",
	"+7":   "RU",
	"+20":  "EG",
	"+27":  "ZA",
	"+30":  "GR",
	"+31":  "NL",
	"+32":  "BE",
	"+33":  "FR",
	"+34":  "ES",
	"+36":  "HU",
	"+39":  "IT",
	"+40":  "RO",
	"+41":  "CH",
	"+43":  "AT",
	"+44":  "GB",
	"+45":  "DK",
	"+46":  "SE",
	"+47":  "NO",
	"+48":  "PL",
	"+49":  "DE",
	"+51":  "PE",
	"+52":  "MX",
	"+54":  "AR",
	"+55":  "BR",
	"+56":  "CL",
	"+57":  "CO",
	"+58":  "VE",
	"+60":  "MY",
	"+61":  "AU",
	"+62":  "ID",
	"+63":  "PH",
	"+64":  "NZ",
	"+65":  "SG",
	"+66":  "TH",
	"+81":  "JP",
	"+82":  "KR",
	"+84":  "VN",
	"+86":  "CN",
	"+90":  "TR",
	"+91":  "IN",
	"+92":  "PK",
	"+94":  "LK",
	"+98":  "IR",
	"+351": "PT",
	"+353": "IE",
	"+354": "IS",
	"+358": "FI",
	"+380": "UA",
	"+420": "CZ",
	"+591": "BO",
	"+593": "EC",
	"+598": "UY",
	"+880": "BD",
	"+966": "SA",
	"+972": "IL",
	"+977": "NP",
}

const (
	regionalIndicatorBase = 0x1F1E6
	regionalIndicatorMax  = 0x1F1FF
)

// flagToCountry decodes a two-rune regional-indicator sequence ("🇧🇴") into
// its ISO country code ("BO").
func flagToCountry(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) != 2 {
		return "", false
	}
	var code [2]byte
	for i, r := range runes {
		if r < regionalIndicatorBase || r > regionalIndicatorMax {
			return "", false
		}
		code[i] = byte('A' + (r - regionalIndicatorBase))
	}
	return string(code[:]), true
}
