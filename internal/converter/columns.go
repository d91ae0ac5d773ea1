package converter

import (
	"fmt"

	"github.com/ginjaninja78/infra3-curator/internal/validation"
)

// =============================================================================
// OUTPUT SHEETS
// =============================================================================

// Sheet names of the INFRA3 upload workbook, in workbook order.
const (
	SheetTransaction     = "Transaction"
	SheetUnderlyingAsset = "Underlying_Asset"
	SheetEvents          = "Events"
	SheetBidders         = "Bidders_Any"
	SheetTranches        = "Tranches"
	SheetTranchePricings = "Tranche_Pricings"
	SheetTrancheRoles    = "Tranche_Roles_Any"
)

// Output column names shared by several sheets.
const (
	ColTransactionID = validation.IdentifierColumn
	ColTrancheID     = "Tranche Upload ID"
	ColCompany       = "Company"
	ColValue         = "Value"
	ColPercentage    = "Percentage"
)

// TransactionColumns is the header of the Transaction sheet.
var TransactionColumns = []string{
	ColTransactionID,
	"Transaction Name",
	"Transaction Asset Class",
	"Transaction Status",
	"Finance Type",
	"Transaction Type",
	"Unknown Asset",
	"Underlying Asset Configuration",
	"Transaction Local Currency",
	"Transaction Value (Local Currency)",
	"Transaction Debt (Local Currency)",
	"Transaction Equity (Local Currency)",
	"Debt/Equity Ratio",
	"Underlying Number of Assets",
	"Region - Country",
	"Region - State",
	"Region - City",
	"Any Level Sectors",
	"PPP",
	"Concession Period",
	"Contract",
	"SPV",
	"Active",
}

// UnderlyingAssetColumns is the header of the empty Underlying_Asset sheet.
var UnderlyingAssetColumns = []string{
	ColTransactionID,
	"Underlying Asset Upload ID",
	"Asset Name",
	"Asset Country",
	"Asset Sector",
}

// EventColumns is the header of the Events sheet.
var EventColumns = []string{
	ColTransactionID,
	"Event Date",
	"Event Type",
	"Event Title",
}

// BidderColumns is the header of the Bidders_Any sheet.
var BidderColumns = []string{
	ColTransactionID,
	"Role Type",
	"Role Subtype",
	ColCompany,
	"Fund",
	"Bidder Status",
	"Client Counterparty",
	"Client Company Name",
	"Fund Name",
}

// TrancheColumns is the header of the Tranches sheet.
var TrancheColumns = []string{
	ColTransactionID,
	ColTrancheID,
	"Tranche Primary Type",
	"Tranche Secondary Type",
	"Tranche Tertiary Type",
	ColValue,
	"Maturity Start Date",
	"Maturity End Date",
	"Tenor",
	"Tranche ESG Type",
}

// TranchePricingColumns is the header of the empty Tranche_Pricings sheet.
var TranchePricingColumns = []string{
	ColTrancheID,
	"Pricing Type",
	"Basis",
	"Margin (bps)",
	"Start Date",
	"End Date",
}

// TrancheRoleColumns is the header of the Tranche_Roles_Any sheet.
var TrancheRoleColumns = []string{
	ColTransactionID,
	ColTrancheID,
	"Tranche Role Type",
	ColCompany,
	"Fund",
	ColValue,
	ColPercentage,
	"Comment",
}

// NumericColumns lists output columns the workbook writer stores as numbers
// when the cell parses.
var NumericColumns = map[string]bool{
	"Transaction Value (Local Currency)": true,
	"Concession Period":                  true,
	ColValue:                             true,
	"Tenor":                              true,
	ColPercentage:                        true,
}

// =============================================================================
// SOURCE COLUMNS
// =============================================================================

const (
	srcName           = "Transaction Name"
	srcStatus         = "Current Status"
	srcStatusAlt      = "Current status"
	srcFinanceType    = "Finance Type"
	srcType           = "Type"
	srcCurrency       = "Transaction Currency"
	srcSizeLocal      = "Transaction size (m)"
	srcSizeUSD        = "Transaction size USD(m)"
	srcGeography      = "Geography"
	srcSector         = "Sector"
	srcSubSector      = "Sub-Sector"
	srcPPP            = "PPP"
	srcDuration       = "Duration"
	srcDeliveryModel  = "Delivery Model"
	srcSPV            = "SPV"
	srcEquityProvider = "Equity Providers at FC"
	srcEquityUSD      = "Equity at FC USD (m)"
)

func srcLoanType(i int) string    { return fmt.Sprintf("Loan Debt Tranche %d Type", i) }
func srcLoanTenor(i int) string   { return fmt.Sprintf("Tranche %d Tenor", i) }
func srcLoanVolume(i int) string  { return fmt.Sprintf("Tranche %d Volume USD (m)", i) }
func srcLoanLenders(i int) string { return fmt.Sprintf("Tranche %d Lenders", i) }

func srcCMVolume(i int) string       { return fmt.Sprintf("Capital Market Debt %d Volume USD (m)", i) }
func srcCMTenor(i int) string        { return fmt.Sprintf("Capital Market Debt %d Tenor", i) }
func srcCMUnderwriters(i int) string { return fmt.Sprintf("Capital Market Debt %d Underwriters", i) }
