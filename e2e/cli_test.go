package e2e_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/potatofarm/internal/api"
	"github.com/mcoot/potatofarm/internal/factory"
)

// cliRunner manages CLI binary execution for one device
type cliRunner struct {
	binaryPath string
	serverURL  string
	dataDir    string
}

func buildCLI(t *testing.T) string {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "potato-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/potato")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return binaryPath
}

func newCLIRunner(t *testing.T, binaryPath, serverURL string) *cliRunner {
	t.Helper()

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		dataDir:    t.TempDir(),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--data-dir", r.dataDir,
		"--config", filepath.Join(r.dataDir, "none.yaml"),
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "POTATO_LOCAL_REDIS_URL=", "POTATO_OTEL_ENDPOINT=")
	output, err := cmd.Output()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	server := api.NewServer(app.Handler(""), api.DefaultServerConfig(), app.Logger)

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type profileResponse struct {
	DisplayName string `json:"display_name"`
	FarmName    string `json:"farm_name"`
	Username    string `json:"username"`
	SignedIn    bool   `json:"signed_in"`
}

type statusResponse struct {
	Message string           `json:"message"`
	Success bool             `json:"success"`
	Profile *profileResponse `json:"profile"`
}

type gameResponse struct {
	Potatoes        float64 `json:"potatoes"`
	AllTimePotatoes float64 `json:"allTimePotatoes"`
}

type farmResponse struct {
	Profile profileResponse `json:"profile"`
	Game    gameResponse    `json:"game"`
}

type leaderboardResponse struct {
	TopPlayers []struct {
		Rank            int     `json:"rank"`
		Username        string  `json:"username"`
		AllTimePotatoes float64 `json:"all_time_potatoes"`
	} `json:"topPlayers"`
	UserRank *struct {
		Rank     int    `json:"rank"`
		Username string `json:"username"`
	} `json:"userRank"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, buildCLI(t), ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_GuestThenSignup(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, buildCLI(t), ts.addr)

	// Play as a guest
	output, err := cli.run("harvest", "250")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, float64(250), game.AllTimePotatoes)

	output, err = cli.run("whoami")
	require.NoError(t, err, "output: %s", output)
	var guest profileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &guest))
	assert.False(t, guest.SignedIn)
	assert.Equal(t, "Not signed in", guest.DisplayName)

	// Sign up; guest progress carries over
	output, err = cli.run("signup", "--user", "alice", "--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Success)
	assert.Equal(t, "Account created successfully!", status.Message)
	require.NotNil(t, status.Profile)
	assert.Equal(t, "alice's Potato Farm", status.Profile.FarmName)

	output, err = cli.run("save")
	require.NoError(t, err, "output: %s", output)

	// The server now ranks alice
	output, err = cli.run("leaderboard")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	require.Len(t, board.TopPlayers, 1)
	assert.Equal(t, "alice", board.TopPlayers[0].Username)
	assert.Equal(t, float64(250), board.TopPlayers[0].AllTimePotatoes)
	require.NotNil(t, board.UserRank)
	assert.Equal(t, 1, board.UserRank.Rank)
}

func TestCLI_TwoDevices(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	binary := buildCLI(t)
	laptop := newCLIRunner(t, binary, ts.addr)
	phone := newCLIRunner(t, binary, ts.addr)

	output, err := laptop.run("signup", "--user", "alice", "--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
	output, err = laptop.run("harvest", "1000")
	require.NoError(t, err, "output: %s", output)

	output, err = phone.run("login", "--user", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	output, err = phone.run("status")
	require.NoError(t, err, "output: %s", output)

	var farm farmResponse
	require.NoError(t, json.Unmarshal([]byte(output), &farm))
	assert.True(t, farm.Profile.SignedIn)
	assert.Equal(t, "alice", farm.Profile.Username)
	assert.Equal(t, float64(1000), farm.Game.Potatoes)
	assert.Equal(t, float64(1000), farm.Game.AllTimePotatoes)

	// Logging out on the phone leaves the laptop signed in
	output, err = phone.run("logout")
	require.NoError(t, err, "output: %s", output)
	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.False(t, profile.SignedIn)

	output, err = laptop.run("whoami")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.True(t, profile.SignedIn)
}

func TestCLI_LoginFailure(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, buildCLI(t), ts.addr)

	output, err := cli.run("login", "--user", "nobody", "--pass", "secret123")
	require.Error(t, err)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.False(t, status.Success)
	assert.Equal(t, "Username/email not found.", status.Message)
}

func TestCLI_OfflineFallsBackToDevice(t *testing.T) {
	ts := startTestServer(t)

	cli := newCLIRunner(t, buildCLI(t), ts.addr)
	output, err := cli.run("signup", "--user", "alice", "--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	ts.shutdown()

	output, err = cli.run("harvest", "40")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("load")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, float64(40), game.AllTimePotatoes)
}
