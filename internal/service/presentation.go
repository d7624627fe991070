package service

import "time"

// Display colors shared by the row and warning classifiers. The alpha-suffixed
// values match what the frontend expects verbatim.
const (
	colorGreen      = "#00ff00aa"
	colorOrange     = "#ff9800aa"
	colorDarkOrange = "#ff8c00aa"
	colorRed        = "#ff0000aa"
	colorGrey       = "grey"
)

// RowColor classifies an item by how long ago it was last checked, using the
// whole-day distance between now and lastChecked:
//
//	< 1 day        green
//	1 to < 4 days  orange
//	4 to 8 days    dark orange
//	> 8 days       red
//
// A nil timestamp is grey.
func RowColor(now time.Time, lastChecked *time.Time) string {
	if lastChecked == nil {
		return colorGrey
	}
	days := int(now.Sub(*lastChecked).Hours() / 24)
	switch {
	case days < 1:
		return colorGreen
	case days < 4:
		return colorOrange
	case days <= 8:
		return colorDarkOrange
	default:
		return colorRed
	}
}

// WarningColor classifies stock level against the alert threshold: orange at
// exactly the threshold, red below it, green above it. Grey when either value
// is missing.
func WarningColor(quantity, alertQuantity *int) string {
	if quantity == nil || alertQuantity == nil {
		return colorGrey
	}
	diff := *quantity - *alertQuantity
	switch {
	case diff == 0:
		return colorOrange
	case diff < 0:
		return colorRed
	default:
		return colorGreen
	}
}
