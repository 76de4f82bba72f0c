package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{999, "999"},
		{999.5, "999.5"},
		{1000, "1 million"},
		{1500, "1.5 million"},
		{1234, "1.23 million"},
		{10000, "10 million"},
		{999999, "1000 million"},
		{1e6, "1 billion"},
		{2.5e9, "2.5 trillion"},
		{1e12, "1 quadrillion"},
		{1e15, "1 quintillion"},
		{1e18, "1 sextillion"},
		{1e21, "1 septillion"},
		{1e24, "1 octillion"},
		{1e27, "1 nonillion"},
		{1e30, "1 decillion"},
		{4.2e33, "4200 decillion"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatScore(tc.in), "FormatScore(%v)", tc.in)
	}
}

func TestFormatScoreGroupsSmallNegatives(t *testing.T) {
	assert.Equal(t, "-5,000", FormatScore(-5000))
}

func TestRankSuffix(t *testing.T) {
	cases := map[int]string{
		1:   "1st",
		2:   "2nd",
		3:   "3rd",
		4:   "4th",
		10:  "10th",
		11:  "11th",
		12:  "12th",
		13:  "13th",
		21:  "21st",
		22:  "22nd",
		23:  "23rd",
		101: "101st",
		111: "111th",
		112: "112th",
	}
	for in, want := range cases {
		assert.Equal(t, want, RankSuffix(in))
	}
}

func TestPlaceClass(t *testing.T) {
	assert.Equal(t, "first", PlaceClass(1))
	assert.Equal(t, "second", PlaceClass(2))
	assert.Equal(t, "third", PlaceClass(3))
	assert.Equal(t, "other", PlaceClass(4))
}
