// Package templates holds the HTML components of the leaderboard page.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/potatofarm/internal/leaderboard"
	"github.com/mcoot/potatofarm/internal/model"
)

// PageData is the data for a full leaderboard page
type PageData struct {
	Title string
	Board model.Leaderboard
	// Viewer is the signed-in username, empty for guests
	Viewer string
}

// Page renders a complete HTML document around the board
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(data.Title)+`</title></head><body><h1>`+
			templ.EscapeString(data.Title)+`</h1>`); err != nil {
			return err
		}
		if data.Viewer != "" {
			if _, err := io.WriteString(w, `<p class="viewer">Signed in as `+templ.EscapeString(data.Viewer)+`</p>`); err != nil {
				return err
			}
		}
		if err := Board(data.Board).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Board renders the leaderboard container: one row per top player and a
// highlighted row for the caller's own rank.
func Board(board model.Leaderboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="leaderboard">`); err != nil {
			return err
		}

		if len(board.TopPlayers) == 0 {
			if err := Empty().Render(ctx, w); err != nil {
				return err
			}
		} else {
			// Places come from list position, matching the order served
			for i, entry := range board.TopPlayers {
				if err := Row(i+1, entry.Username, entry.AllTimePotatoes, false).Render(ctx, w); err != nil {
					return err
				}
			}
			if board.UserRank != nil {
				if err := Row(board.UserRank.Rank, board.UserRank.Username, board.UserRank.AllTimePotatoes, true).Render(ctx, w); err != nil {
					return err
				}
			}
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// Row renders one place on the board
func Row(rank int, username string, score float64, you bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := leaderboard.PlaceClass(rank)
		name := username
		if you {
			class = "other you"
			name += " (You)"
		}
		_, err := io.WriteString(w, `<div class="`+class+`">`+
			`<div class="place">`+leaderboard.RankSuffix(rank)+`</div>`+
			`<div class="username">`+templ.EscapeString(name)+`</div>`+
			`<div class="score">`+templ.EscapeString(leaderboard.FormatScore(score))+` potatoes</div>`+
			`</div>`)
		return err
	})
}

// Empty renders the placeholder row for a board with no players
func Empty() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="other"><div class="place">—</div>`+
			`<div class="username">No players yet</div><div class="score">0 potatoes</div></div>`)
		return err
	})
}

// ErrorPage renders the page shown when a request fails unexpectedly
func ErrorPage() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<title>Error</title></head><body><h1>Internal Server Error</h1>`+
			`<p class="error">The potato farm could not be shown right now.</p>`+
			`<p><a href="/leaderboard">Try the leaderboard again</a></p></body></html>`)
		return err
	})
}
