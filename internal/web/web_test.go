package web_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/potatofarm/internal/factory"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/web"
	"github.com/mcoot/potatofarm/internal/web/middleware"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	token   string
	players int
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	router := web.NewRouter(web.RouterConfig{
		Logger:      app.Logger,
		AuthService: app.AuthService,
		SaveService: app.SaveService,
		StaticDir:   "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
	}
}

// get makes a GET request, carrying the signed-in player's cookie if any
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if ts.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: ts.token})
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// addPlayer creates an account with the given all-time score and returns its token
func (ts *webTestServer) addPlayer(username string, allTime float64) string {
	ts.t.Helper()
	ctx := ts.t.Context()

	ts.players++
	email := fmt.Sprintf("player%d@example.com", ts.players)
	session, err := ts.app.AuthService.Signup(ctx, username, email, "password123")
	require.NoError(ts.t, err)

	save := model.NewGameSave()
	save.AllTimePotatoes = allTime
	require.NoError(ts.t, ts.app.SaveService.Put(ctx, session.Account.ID, save))
	return session.Token
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

func TestRootRedirectsToLeaderboard(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/leaderboard", rr.Header().Get("Location"))
}

func TestLeaderboardEmpty(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/leaderboard")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "title", "Potato Farm Leaderboard")
	assertContainsElement(t, doc, "div.leaderboard")
	assertContainsText(t, doc, ".leaderboard .username", "No players yet")
	assertContainsText(t, doc, ".leaderboard .place", "—")
	assertContainsText(t, doc, ".leaderboard .score", "0 potatoes")
	assertNotContainsElement(t, doc, ".first")
	assertNotContainsElement(t, doc, ".viewer")
}

func TestLeaderboardOrdersPlayers(t *testing.T) {
	ts := newWebTestServer(t)
	ts.addPlayer("alice", 1500)
	ts.addPlayer("bob", 300)
	ts.addPlayer("carol", 2e6)
	ts.addPlayer("dave", 10)

	doc := parseHTML(ts.get("/leaderboard").Body)

	assertContainsText(t, doc, ".leaderboard .first .username", "carol")
	assertContainsText(t, doc, ".leaderboard .first .place", "1st")
	assertContainsText(t, doc, ".leaderboard .first .score", "2 billion potatoes")
	assertContainsText(t, doc, ".leaderboard .second .username", "alice")
	assertContainsText(t, doc, ".leaderboard .second .score", "1.5 million potatoes")
	assertContainsText(t, doc, ".leaderboard .third .username", "bob")
	assertContainsText(t, doc, ".leaderboard .other .username", "dave")
	assertContainsText(t, doc, ".leaderboard .other .place", "4th")
	assertNotContainsElement(t, doc, ".you")
}

func TestLeaderboardHighlightsViewer(t *testing.T) {
	ts := newWebTestServer(t)
	ts.addPlayer("alice", 500)
	ts.token = ts.addPlayer("bob", 100)

	doc := parseHTML(ts.get("/leaderboard").Body)

	assertContainsText(t, doc, ".viewer", "Signed in as bob")
	assertContainsText(t, doc, ".leaderboard .you .username", "bob (You)")
	assertContainsText(t, doc, ".leaderboard .you .place", "2nd")
	// The viewer also appears in the top list
	assertContainsText(t, doc, ".leaderboard .second .username", "bob")
}

func TestLeaderboardAcceptsBearerToken(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.addPlayer("alice", 500)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".leaderboard .you .username", "alice (You)")
}

func TestLeaderboardIgnoresInvalidToken(t *testing.T) {
	ts := newWebTestServer(t)
	ts.addPlayer("alice", 500)
	ts.token = "not-a-token"

	rr := ts.get("/leaderboard")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertNotContainsElement(t, doc, ".you")
	assertNotContainsElement(t, doc, ".viewer")
	assertContainsText(t, doc, ".leaderboard .first .username", "alice")
}

func TestLeaderboardEscapesUsernames(t *testing.T) {
	ts := newWebTestServer(t)
	ts.addPlayer("<b>mallory</b>", 50)

	rr := ts.get("/leaderboard")
	assert.NotContains(t, rr.Body.String(), "<b>mallory</b>")

	doc := parseHTML(strings.NewReader(rr.Body.String()))
	assertNotContainsElement(t, doc, ".leaderboard b")
	assertContainsText(t, doc, ".leaderboard .first .username", "<b>mallory</b>")
}

func TestLeaderboardFragment(t *testing.T) {
	ts := newWebTestServer(t)
	ts.addPlayer("alice", 500)

	rr := ts.get("/leaderboard/fragment")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<html")

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".leaderboard .first .username", "alice")
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
