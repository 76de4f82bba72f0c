package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mcoot/potatofarm/internal/api/response"
	"github.com/mcoot/potatofarm/internal/leaderboard"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/account"
	"github.com/mcoot/potatofarm/internal/services/reconciler"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case ProfileResult:
		o.printProfile(v)
	case StatusResult:
		o.printStatus(v)
	case GameResult:
		o.printGame(v)
	case FarmResult:
		o.printProfile(v.Profile)
		o.printGame(v.Game)
	case model.Leaderboard:
		o.printLeaderboard(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ProfileResult is the signed-in identity as shown to the user
type ProfileResult struct {
	DisplayName string `json:"display_name"`
	FarmName    string `json:"farm_name"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	SignedIn    bool   `json:"signed_in"`
}

// StatusResult is the outcome of login or signup
type StatusResult struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Profile *ProfileResult `json:"profile,omitempty"`
}

// GameResult is the loaded game state
type GameResult struct {
	Potatoes        float64 `json:"potatoes"`
	AllTimePotatoes float64 `json:"allTimePotatoes"`
	Buildings       int     `json:"buildings"`
	Upgrades        int     `json:"upgrades"`
	Skins           int     `json:"skins"`
}

// FarmResult combines identity and game state
type FarmResult struct {
	Profile ProfileResult `json:"profile"`
	Game    GameResult    `json:"game"`
}

func profileResult(p account.Profile) ProfileResult {
	return ProfileResult{
		DisplayName: p.DisplayName,
		FarmName:    p.FarmName,
		Username:    p.Username,
		Email:       p.Email,
		SignedIn:    p.SignedIn,
	}
}

func statusResult(s account.Status) StatusResult {
	res := StatusResult{Message: s.Message, Success: s.Success}
	if s.Profile != nil {
		p := profileResult(*s.Profile)
		res.Profile = &p
	}
	return res
}

func gameResult(save model.GameSave) GameResult {
	return GameResult{
		Potatoes:        save.Potatoes,
		AllTimePotatoes: save.AllTimePotatoes,
		Buildings:       len(save.Buildings),
		Upgrades:        len(save.Upgrades),
		Skins:           len(save.Skins),
	}
}

func (o *Output) printProfile(p ProfileResult) {
	_, _ = fmt.Fprintf(o.w, "Player: %s\n", p.DisplayName)
	_, _ = fmt.Fprintf(o.w, "Farm: %s\n", p.FarmName)
	if p.Email != "" {
		_, _ = fmt.Fprintf(o.w, "Email: %s\n", p.Email)
	}
}

func (o *Output) printStatus(s StatusResult) {
	_, _ = fmt.Fprintln(o.w, s.Message)
	if s.Profile != nil {
		o.printProfile(*s.Profile)
	}
}

func (o *Output) printGame(g GameResult) {
	_, _ = fmt.Fprintf(o.w, "Potatoes: %s\n", reconciler.FormatAllTime(g.Potatoes))
	_, _ = fmt.Fprintf(o.w, "All-time potatoes: %s\n", reconciler.FormatAllTime(g.AllTimePotatoes))
	_, _ = fmt.Fprintf(o.w, "Buildings: %d  Upgrades: %d  Skins: %d\n", g.Buildings, g.Upgrades, g.Skins)
}

func (o *Output) printLeaderboard(b model.Leaderboard) {
	if len(b.TopPlayers) == 0 {
		_, _ = fmt.Fprintln(o.w, "No players yet")
		return
	}

	// Places follow list order, as served
	for i, e := range b.TopPlayers {
		_, _ = fmt.Fprintf(o.w, "%5s  %-20s %s potatoes\n",
			leaderboard.RankSuffix(i+1), e.Username, leaderboard.FormatScore(e.AllTimePotatoes))
	}
	if b.UserRank != nil {
		_, _ = fmt.Fprintf(o.w, "\n%5s  %-20s %s potatoes\n",
			leaderboard.RankSuffix(b.UserRank.Rank), b.UserRank.Username+" (You)", leaderboard.FormatScore(b.UserRank.AllTimePotatoes))
	}
}

func (o *Output) printHealth(h response.Health) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
