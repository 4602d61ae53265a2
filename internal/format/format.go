// Package format renders prices, areas and counts for display.
//
// Vietnamese grouping is used throughout ("5.500.000.000"); USD amounts
// follow en-US ("$950,000.00"). Formatting is presentation only: nothing
// here feeds back into stored values.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/homelist/internal/domain"
)

// NBSP separates an amount from its currency symbol, matching browser output.
const NBSP = "\u00a0"

// Printers are created per call; message.Printer is not safe for concurrent use.
func vi() *message.Printer { return message.NewPrinter(language.Vietnamese) }
func en() *message.Printer { return message.NewPrinter(language.AmericanEnglish) }

// Currency formats amount in the given price unit.
//
//	VND      5.500.000.000 ₫
//	USD      $950,000.00
//	/tháng   35.000.000 VNĐ/tháng
//
// Any other unit is appended verbatim after the raw amount.
func Currency(amount int64, unit string) string {
	switch unit {
	case domain.UnitVND, "":
		return vi().Sprintf("%d", amount) + NBSP + "₫"
	case domain.UnitUSD:
		return "$" + en().Sprintf("%.2f", float64(amount))
	case domain.UnitPerMonth:
		return vi().Sprintf("%d", amount) + " VNĐ/tháng"
	default:
		return strconv.FormatInt(amount, 10) + " " + unit
	}
}

// Area formats square metres, e.g. "80 m²" or "80,5 m²".
// NaN and infinities format as "".
func Area(area float64) string {
	s := Number(area)
	if s == "" {
		return ""
	}
	return s + " m²"
}

// Number formats n with Vietnamese grouping and at most three decimals.
func Number(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	return vi().Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

// PriceLine returns the price line of l as shown on a listing card.
func PriceLine(l domain.Listing) string {
	return Currency(l.Price, l.PriceUnit)
}
