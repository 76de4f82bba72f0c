// Package leaderboard formats leaderboard scores and places for display.
package leaderboard

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unit is a named power of a thousand used to shorten large scores
type Unit struct {
	Value float64
	Label string
}

// Units are checked largest first. The labels sit one step above the usual
// short-scale names (1e3 reads "million"); existing players know the scores
// by these names.
var Units = []Unit{
	{1e30, "decillion"},
	{1e27, "nonillion"},
	{1e24, "octillion"},
	{1e21, "septillion"},
	{1e18, "sextillion"},
	{1e15, "quintillion"},
	{1e12, "quadrillion"},
	{1e9, "trillion"},
	{1e6, "billion"},
	{1e3, "million"},
}

var printer = message.NewPrinter(language.English)

// FormatScore renders a potato count for the leaderboard
func FormatScore(n float64) string {
	for _, u := range Units {
		if n >= u.Value {
			return trimZeros(strconv.FormatFloat(n/u.Value, 'f', 2, 64)) + " " + u.Label
		}
	}
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

// RankSuffix renders a place as an English ordinal (1st, 2nd, 11th, ...)
func RankSuffix(rank int) string {
	j, k := rank%10, rank%100
	switch {
	case j == 1 && k != 11:
		return strconv.Itoa(rank) + "st"
	case j == 2 && k != 12:
		return strconv.Itoa(rank) + "nd"
	case j == 3 && k != 13:
		return strconv.Itoa(rank) + "rd"
	default:
		return strconv.Itoa(rank) + "th"
	}
}

// PlaceClass is the style class for a place on the board
func PlaceClass(rank int) string {
	switch rank {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	default:
		return "other"
	}
}
