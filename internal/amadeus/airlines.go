package amadeus

// airlineNames maps IATA carrier codes to display names. Codes missing from
// the table pass through unchanged.
var airlineNames = map[string]string{
	"AA": "American Airlines",
	"AC": "Air Canada",
	"AF": "Air France",
	"AS": "Alaska Airlines",
	"AY": "Finnair",
	"AZ": "ITA Airways",
	"B6": "JetBlue Airways",
	"BA": "British Airways",
	"CX": "Cathay Pacific",
	"DL": "Delta Air Lines",
	"EK": "Emirates",
	"GA": "Garuda Indonesia",
	"IB": "Iberia",
	"JL": "Japan Airlines",
	"KL": "KLM Royal Dutch Airlines",
	"LH": "Lufthansa",
	"LX": "Swiss International Air Lines",
	"NH": "All Nippon Airways",
	"NK": "Spirit Airlines",
	"QF": "Qantas",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"TK": "Turkish Airlines",
	"UA": "United Airlines",
	"VS": "Virgin Atlantic",
	"WN": "Southwest Airlines",
	"WS": "WestJet",
}

func airlineName(code string) string {
	if name, ok := airlineNames[code]; ok {
		return name
	}
	return code
}
