// =============================================================================
// INFRA3 Curator - Lookup Tables
// =============================================================================
//
// Static control data used to rename categorical source values into the
// INFRA3 vocabulary. The maps are package-private and never mutated; callers
// go through the lookup functions, which share one contract:
//   - blank input (including NaN-style placeholders) returns ""
//   - a value that is not in the table is returned unchanged (trimmed)
//
// Keys are matched case-insensitively after trimming.
//
// =============================================================================

package lookup

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/infra3-curator/internal/normalize"
)

// =============================================================================
// TRANSACTION STATUS
// =============================================================================

var statuses = fold(map[string]string{
	"Announced":              "Announced",
	"Pre-Qualification":      "Request for Qualifications",
	"Prequalification":       "Request for Qualifications",
	"RFQ":                    "Request for Qualifications",
	"RFP":                    "Request for Proposals",
	"Bidding":                "Request for Proposals",
	"Preferred Bidder":       "Preferred Bidder",
	"Preferred Proponent":    "Preferred Bidder",
	"Shortlist":              "Shortlisted",
	"Shortlisted":            "Shortlisted",
	"Financial Close":        "Financial Close",
	"Financial close":        "Financial Close",
	"Closed":                 "Financial Close",
	"Construction":           "Financial Close",
	"Operational":            "Financial Close",
	"Refinanced":             "Financial Close",
	"On Hold":                "On Hold",
	"Suspended":              "On Hold",
	"Cancelled":              "Cancelled",
	"Canceled":               "Cancelled",
	"Withdrawn":              "Cancelled",
	"Early Stage":            "Pipeline",
	"Pipeline":               "Pipeline",
	"Under Study":            "Pipeline",
	"Feasibility":            "Pipeline",
	"Tender Launched":        "Announced",
	"Expression of Interest": "Expression of Interest",
})

// Status maps a source transaction status to the INFRA3 status.
func Status(value string) string { return find(statuses, value) }

// =============================================================================
// TRANSACTION TYPE
// =============================================================================

var transactionTypes = fold(map[string]string{
	"Primary Financing":    "Primary Financing",
	"Primary":              "Primary Financing",
	"Greenfield":           "Primary Financing",
	"Brownfield":           "Primary Financing",
	"Refinancing":          "Refinancing",
	"Refinance":            "Refinancing",
	"Additional Financing": "Additional Financing",
	"Acquisition":          "M&A",
	"M&A":                  "M&A",
	"Merger":               "M&A",
	"Privatisation":        "Privatisation",
	"Privatization":        "Privatisation",
	"Portfolio Financing":  "Portfolio Financing",
	"Recapitalisation":     "Recapitalisation",
	"Recapitalization":     "Recapitalisation",
})

// TransactionType maps a source deal type to the INFRA3 transaction type.
func TransactionType(value string) string { return find(transactionTypes, value) }

// =============================================================================
// COUNTRY
// =============================================================================
// Overrides win over title-casing. Source files carry a mix of ALL-CAPS
// names, abbreviations and territory names.

var countryOverrides = fold(map[string]string{
	"USA":                         "United States",
	"US":                          "United States",
	"UNITED STATES OF AMERICA":    "United States",
	"UK":                          "United Kingdom",
	"GREAT BRITAIN":               "United Kingdom",
	"UAE":                         "United Arab Emirates",
	"KOREA (SOUTH)":               "South Korea",
	"SOUTH KOREA":                 "South Korea",
	"REPUBLIC OF KOREA":           "South Korea",
	"KOREA (NORTH)":               "North Korea",
	"HONG KONG":                   "Hong Kong SAR",
	"MACAU":                       "Macao SAR",
	"MACAO":                       "Macao SAR",
	"PUERTO RICO":                 "Puerto Rico (US)",
	"GUAM":                        "Guam (US)",
	"US VIRGIN ISLANDS":           "US Virgin Islands",
	"BRITISH VIRGIN ISLANDS":      "British Virgin Islands (UK)",
	"CAYMAN ISLANDS":              "Cayman Islands (UK)",
	"GIBRALTAR":                   "Gibraltar (UK)",
	"GREENLAND":                   "Greenland (Denmark)",
	"NEW CALEDONIA":               "New Caledonia (France)",
	"FRENCH POLYNESIA":            "French Polynesia (France)",
	"REUNION":                     "Reunion (France)",
	"CURACAO":                     "Curacao (Netherlands)",
	"IVORY COAST":                 "Cote d'Ivoire",
	"COTE D'IVOIRE":               "Cote d'Ivoire",
	"CZECH REPUBLIC":              "Czechia",
	"DRC":                         "Democratic Republic of the Congo",
	"CONGO (DRC)":                 "Democratic Republic of the Congo",
	"CONGO (REPUBLIC)":            "Republic of the Congo",
	"TURKEY":                      "Turkiye",
	"VIETNAM":                     "Viet Nam",
	"LAOS":                        "Lao PDR",
	"RUSSIA":                      "Russian Federation",
	"BOSNIA-HERZEGOVINA":          "Bosnia and Herzegovina",
	"TRINIDAD & TOBAGO":           "Trinidad and Tobago",
	"ANTIGUA & BARBUDA":           "Antigua and Barbuda",
	"ST LUCIA":                    "Saint Lucia",
	"ST KITTS & NEVIS":            "Saint Kitts and Nevis",
	"ST VINCENT & THE GRENADINES": "Saint Vincent and the Grenadines",
})

// minorWords stay lower case inside a title-cased country name.
var minorWords = map[string]bool{
	"and": true, "of": true, "the": true, "da": true, "de": true, "del": true,
}

// Country normalises a source geography into an INFRA3 country name.
// ALL-CAPS names are title-cased; mixed-case names pass through.
func Country(value string) string {
	v := clean(value)
	if v == "" {
		return ""
	}
	if mapped, ok := countryOverrides[strings.ToLower(v)]; ok {
		return mapped
	}
	if v != strings.ToUpper(v) {
		return v
	}

	caser := cases.Title(language.English)
	words := strings.Fields(strings.ToLower(v))
	for i, w := range words {
		if i > 0 && minorWords[w] {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// =============================================================================
// CONTRACT
// =============================================================================
// Delivery-model codes. Partial codes produced by truncated exports carry no
// usable information and map to "".

var contracts = fold(map[string]string{
	"DBFOM":                                 "DBFOM",
	"DBFO":                                  "DBFO",
	"DBFM":                                  "DBFM",
	"DBOM":                                  "DBOM",
	"DBO":                                   "DBO",
	"DBB":                                   "DBB",
	"DB":                                    "DB",
	"BOT":                                   "BOT",
	"BOOT":                                  "BOOT",
	"BOO":                                   "BOO",
	"BTO":                                   "BTO",
	"BLT":                                   "BLT",
	"ROT":                                   "ROT",
	"O&M":                                   "O&M",
	"Design-Build-Finance-Operate-Maintain": "DBFOM",
	"Design Build Finance Operate Maintain": "DBFOM",
	"Design-Build-Finance-Operate":          "DBFO",
	"Design-Build-Finance-Maintain":         "DBFM",
	"Build-Operate-Transfer":                "BOT",
	"Build-Own-Operate":                     "BOO",
	"Build-Own-Operate-Transfer":            "BOOT",
	"Concession":                            "Concession",
	"Availability Payment":                  "Availability Payment",
	"Lease":                                 "Lease",
	"D":                                     "",
	"DBF":                                   "",
	"BF":                                    "",
	"FO":                                    "",
	"FOM":                                   "",
	"OM":                                    "",
	"DBFO-":                                 "",
	"-FOM":                                  "",
	"N/A":                                   "",
	"Other":                                 "",
})

// Contract maps a source delivery model onto an INFRA3 contract code.
func Contract(value string) string { return find(contracts, value) }

// =============================================================================
// SECTOR TAXONOMY
// =============================================================================

// SectorPair is a canonical two-level sector classification.
type SectorPair struct {
	Sector    string
	SubSector string
}

var sectorNames = fold(map[string]string{
	"Transport":          "Transportation",
	"Transportation":     "Transportation",
	"Power":              "Energy",
	"Energy":             "Energy",
	"Renewables":         "Renewable Energy",
	"Renewable Energy":   "Renewable Energy",
	"Oil & Gas":          "Oil & Gas",
	"Oil and Gas":        "Oil & Gas",
	"Water":              "Water & Waste",
	"Water & Sewerage":   "Water & Waste",
	"Waste":              "Water & Waste",
	"Social":             "Social Infrastructure",
	"Social & Defence":   "Social Infrastructure",
	"Social & Defense":   "Social Infrastructure",
	"Telecoms":           "Digital Infrastructure",
	"Telecommunications": "Digital Infrastructure",
	"Digital":            "Digital Infrastructure",
	"Mining":             "Mining",
	"Petrochemicals":     "Oil & Gas",
})

var subSectors = foldPairs(map[string]SectorPair{
	"Road":             {"Transportation", "Roads"},
	"Roads":            {"Transportation", "Roads"},
	"Toll Road":        {"Transportation", "Roads"},
	"Bridge":           {"Transportation", "Bridges & Tunnels"},
	"Tunnel":           {"Transportation", "Bridges & Tunnels"},
	"Rail":             {"Transportation", "Rail"},
	"Light Rail":       {"Transportation", "Rail"},
	"Metro":            {"Transportation", "Rail"},
	"Airport":          {"Transportation", "Airports"},
	"Airports":         {"Transportation", "Airports"},
	"Port":             {"Transportation", "Ports"},
	"Ports":            {"Transportation", "Ports"},
	"Solar PV":         {"Renewable Energy", "Solar"},
	"Solar":            {"Renewable Energy", "Solar"},
	"CSP":              {"Renewable Energy", "Solar"},
	"Onshore Wind":     {"Renewable Energy", "Wind"},
	"Offshore Wind":    {"Renewable Energy", "Wind"},
	"Wind":             {"Renewable Energy", "Wind"},
	"Hydro":            {"Renewable Energy", "Hydro"},
	"Geothermal":       {"Renewable Energy", "Geothermal"},
	"Biomass":          {"Renewable Energy", "Bioenergy"},
	"Battery Storage":  {"Energy", "Energy Storage"},
	"Energy Storage":   {"Energy", "Energy Storage"},
	"CCGT":             {"Energy", "Conventional Power"},
	"Gas-fired":        {"Energy", "Conventional Power"},
	"Coal-fired":       {"Energy", "Conventional Power"},
	"Transmission":     {"Energy", "Transmission & Distribution"},
	"Distribution":     {"Energy", "Transmission & Distribution"},
	"LNG":              {"Oil & Gas", "LNG"},
	"Pipeline":         {"Oil & Gas", "Midstream"},
	"Refinery":         {"Oil & Gas", "Downstream"},
	"Desalination":     {"Water & Waste", "Water Treatment"},
	"Water Treatment":  {"Water & Waste", "Water Treatment"},
	"Wastewater":       {"Water & Waste", "Wastewater"},
	"Waste-to-Energy":  {"Water & Waste", "Waste Management"},
	"Waste Management": {"Water & Waste", "Waste Management"},
	"Healthcare":       {"Social Infrastructure", "Healthcare"},
	"Hospital":         {"Social Infrastructure", "Healthcare"},
	"Education":        {"Social Infrastructure", "Education"},
	"School":           {"Social Infrastructure", "Education"},
	"Accommodation":    {"Social Infrastructure", "Accommodation"},
	"Defence":          {"Social Infrastructure", "Defence"},
	"Justice":          {"Social Infrastructure", "Justice"},
	"Fibre Optic":      {"Digital Infrastructure", "Fibre"},
	"Fiber Optic":      {"Digital Infrastructure", "Fibre"},
	"Data Centre":      {"Digital Infrastructure", "Data Centres"},
	"Data Center":      {"Digital Infrastructure", "Data Centres"},
	"Telecom Towers":   {"Digital Infrastructure", "Towers"},
})

// Sectors maps a source sector and sub-sector onto the INFRA3 taxonomy.
// A known sub-sector decides both levels; otherwise the sector is renamed and
// the sub-sector passes through.
func Sectors(sector, subSector string) SectorPair {
	sub := clean(subSector)
	if pair, ok := subSectors[strings.ToLower(sub)]; ok {
		return pair
	}
	return SectorPair{Sector: find(sectorNames, sector), SubSector: sub}
}

// =============================================================================
// EVENT TYPE
// =============================================================================

var eventTypes = fold(map[string]string{
	"Financial close":            "Financial Close",
	"Financial Close":            "Financial Close",
	"Announced":                  "Announced",
	"Request for Proposals":      "Request for Proposal",
	"Request for Qualifications": "Request for Qualification",
	"Preferred Bidder":           "Preferred Bidder Appointed",
	"Expression of Interest":     "Expressions of Interest",
	"Shortlist":                  "Shortlisted",
	"Shortlisted":                "Shortlisted",
	"Pre-Qualification":          "Request for Qualification",
	"Cancelled":                  "Cancelled",
	"Canceled":                   "Cancelled",
	"On Hold":                    "On Hold",
	"Operational":                "Commercial Operation",
	"Construction":               "Construction Start",
})

// EventType relabels an event label to the INFRA3 event type.
func EventType(value string) string { return find(eventTypes, value) }

// =============================================================================
// TRANCHE TERTIARY TYPE
// =============================================================================
// Placeholder types map to "" so the owning loan slot is dropped.

var trancheTypes = fold(map[string]string{
	"Term Loan":                     "Term Loan",
	"Senior Debt":                   "Senior Loan",
	"Senior Loan":                   "Senior Loan",
	"Senior Secured":                "Senior Loan",
	"Mezzanine":                     "Mezzanine Loan",
	"Mezzanine Debt":                "Mezzanine Loan",
	"Subordinated Debt":             "Subordinated Loan",
	"Junior Debt":                   "Subordinated Loan",
	"Islamic Finance":               "Islamic Loan",
	"Islamic Facility":              "Islamic Loan",
	"Ijara":                         "Islamic Loan",
	"Murabaha":                      "Islamic Loan",
	"Bridge Loan":                   "Bridge Loan",
	"Equity Bridge Loan":            "Equity Bridge Loan",
	"EBL":                           "Equity Bridge Loan",
	"Revolving Credit Facility":     "Revolving Credit Facility",
	"RCF":                           "Revolving Credit Facility",
	"VAT Facility":                  "VAT Facility",
	"Letter of Credit":              "Letter of Credit",
	"LC Facility":                   "Letter of Credit",
	"Working Capital Facility":      "Working Capital Facility",
	"DSRF":                          "Debt Service Reserve Facility",
	"Debt Service Reserve Facility": "Debt Service Reserve Facility",
	"Guarantee":                     "Guarantee Facility",
	"Standby Facility":              "Standby Facility",
	"Capex Facility":                "Capex Facility",
	"ECA Covered":                   "ECA Loan",
	"ECA Direct":                    "ECA Loan",
	"Multilateral":                  "Multilateral Loan",
	"Other":                         "",
	"N/A":                           "",
	"Unknown":                       "",
	"-":                             "",
})

// TrancheType relabels a loan tranche type to the INFRA3 tertiary type.
func TrancheType(value string) string { return find(trancheTypes, value) }

// =============================================================================
// HELPERS
// =============================================================================

func clean(value string) string {
	if normalize.IsBlank(value) {
		return ""
	}
	return strings.TrimSpace(value)
}

func find(table map[string]string, value string) string {
	v := clean(value)
	if v == "" {
		return ""
	}
	if mapped, ok := table[strings.ToLower(v)]; ok {
		return mapped
	}
	return v
}

func fold(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func foldPairs(m map[string]SectorPair) map[string]SectorPair {
	out := make(map[string]SectorPair, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
