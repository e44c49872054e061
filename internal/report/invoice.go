// Package report implements the monthly financial aggregation and reporting
// engine: invoice period resolution, month summaries, month-over-month
// comparison, financial scoring, period statistics and insights.
package report

import "time"

// ResolveInvoicePeriod maps a credit-card purchase date to the year and month
// of the invoice it belongs to, given the card's due day (1-31).
//
// Purchases made on or after the due day fall into the invoice that closes in
// the following calendar month; December rolls the year over. The comparison
// uses UTC date components so a purchase near midnight is not shifted into the
// wrong invoice by the local timezone.
//
// Only credit-card transactions go through this mapping; debit and cash
// movements always count in their own calendar month.
func ResolveInvoicePeriod(date time.Time, dueDay int) (year int, month time.Month) {
	d := date.UTC()
	year, month = d.Year(), d.Month()
	if d.Day() >= dueDay {
		if month == time.December {
			return year + 1, time.January
		}
		return year, month + 1
	}
	return year, month
}
