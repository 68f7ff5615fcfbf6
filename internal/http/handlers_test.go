package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/swiss-tribble/internal/config"
	"github.com/mauv0809/swiss-tribble/internal/database"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/notifier"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/round"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T, notifier notifier.Notifier, slackSigningSecret string) (*Server, *pubsub.Mock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := tournament.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock()
	rounds := round.New(store, swiss.NewEngine(swiss.LowestRankSelector{}), ps, metricsSvc)
	server := NewServer(store, rounds, metricsSvc, metricsHandler, cfg, notifier, ps)

	return server, ps, dbTeardown
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

// createPushRequest wraps a msgpack payload the way a Pub/Sub push subscription does.
func createPushRequest(t *testing.T, targetURL string, event any) *http.Request {
	t.Helper()

	data, err := msgpack.Marshal(event)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"subscription": "projects/test/subscriptions/test",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data)},
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(body))
	require.NoError(t, err)
	return req
}

func doJSON(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

// seedTournament creates a tournament with new players and returns their ids.
func seedTournament(t *testing.T, server *Server, names ...string) (tournament.Tournament, []swiss.PlayerID) {
	t.Helper()

	rr := doJSON(t, server, "POST", "/tournaments", createTournamentRequest{Name: "Spring Open"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tr tournament.Tournament
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tr))

	ids := make([]swiss.PlayerID, 0, len(names))
	for _, name := range names {
		rr := doJSON(t, server, "POST", fmt.Sprintf("/tournaments/%d/players", tr.ID), registerPlayerRequest{Name: name})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var resp registerPlayerResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		ids = append(ids, resp.PlayerID)
	}
	return tr, ids
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestMetricsEndpoint(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	tr, _ := seedTournament(t, server, "Ada", "Bob")
	rr := doJSON(t, server, "GET", fmt.Sprintf("/tournaments/%d/standings", tr.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swiss_standings_computed_total 1")
}

func TestTournamentLifecycle(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	tr, ids := seedTournament(t, server, "Ada", "Bob", "Cid")
	base := fmt.Sprintf("/tournaments/%d", tr.ID)

	t.Run("lists tournaments", func(t *testing.T) {
		rr := doJSON(t, server, "GET", "/tournaments", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var tournaments []tournament.Tournament
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tournaments))
		require.Len(t, tournaments, 1)
		assert.Equal(t, "Spring Open", tournaments[0].Name)
	})

	t.Run("counts players", func(t *testing.T) {
		rr := doJSON(t, server, "GET", base+"/players/count", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var resp countPlayersResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("dry run round records nothing", func(t *testing.T) {
		rr := doJSON(t, server, "POST", base+"/rounds?dry_run=true", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var rnd round.Round
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rnd))
		assert.True(t, rnd.DryRun)
		assert.Equal(t, 1, rnd.Number)
		assert.Empty(t, ps.Published())
	})

	t.Run("first round gives the bye to the lowest ranked player", func(t *testing.T) {
		rr := doJSON(t, server, "POST", base+"/rounds", nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var rnd round.Round
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rnd))
		require.Len(t, rnd.Pairings, 2)
		assert.Equal(t, swiss.Pairing{A: swiss.Player{ID: ids[2], Name: "Cid"}, B: swiss.Bye}, rnd.Pairings[0])
		assert.Equal(t, swiss.Pairing{A: swiss.Player{ID: ids[0], Name: "Ada"}, B: swiss.Player{ID: ids[1], Name: "Bob"}}, rnd.Pairings[1])

		events := ps.RoundsPaired()
		require.Len(t, events, 1)
		assert.Equal(t, 1, events[0].Round)
		assert.Equal(t, rnd.Pairings, events[0].Pairings)
	})

	t.Run("reports a match", func(t *testing.T) {
		rr := doJSON(t, server, "POST", base+"/matches", reportMatchRequest{Winner: ids[0], Loser: ids[1]})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		events := ps.MatchesReported()
		require.Len(t, events, 1)
		assert.Equal(t, ids[0], events[0].Winner)
	})

	t.Run("standings include the bye", func(t *testing.T) {
		rr := doJSON(t, server, "GET", base+"/standings", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var standings []swiss.Standing
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
		require.Len(t, standings, 3)
		assert.Equal(t, []swiss.PlayerID{ids[0], ids[2], ids[1]}, []swiss.PlayerID{standings[0].PlayerID, standings[1].PlayerID, standings[2].PlayerID})
		assert.True(t, standings[1].HadBye)
	})

	t.Run("pairings preview skips players who already had a bye", func(t *testing.T) {
		rr := doJSON(t, server, "GET", "/tournaments/latest/pairings", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var pairings []swiss.Pairing
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pairings))
		require.Len(t, pairings, 2)
		assert.True(t, pairings[0].IsBye())
		assert.Equal(t, ids[1], pairings[0].A.ID)
	})

	t.Run("reset", func(t *testing.T) {
		rr := doJSON(t, server, "DELETE", "/tournaments/all/matches", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		rr = doJSON(t, server, "DELETE", base+"/players", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = doJSON(t, server, "GET", base+"/players/count", nil)
		var resp countPlayersResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
	})
}

func TestErrorStatusCodes(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	tr, ids := seedTournament(t, server, "Ada", "Bob")
	base := fmt.Sprintf("/tournaments/%d", tr.ID)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"unknown tournament", "GET", "/tournaments/99/standings", nil, http.StatusNotFound},
		{"malformed id", "GET", "/tournaments/abc/standings", nil, http.StatusBadRequest},
		{"all is not a single tournament", "GET", "/tournaments/all/pairings", nil, http.StatusBadRequest},
		{"empty tournament name", "POST", "/tournaments", createTournamentRequest{Name: " "}, http.StatusBadRequest},
		{"unknown player", "POST", base + "/players", registerPlayerRequest{PlayerID: 42}, http.StatusNotFound},
		{"duplicate registration", "POST", base + "/players", registerPlayerRequest{PlayerID: ids[0]}, http.StatusConflict},
		{"self match", "POST", base + "/matches", reportMatchRequest{Winner: ids[0], Loser: ids[0]}, http.StatusBadRequest},
		{"unregistered opponent", "POST", base + "/matches", reportMatchRequest{Winner: ids[0], Loser: 42}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, server, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/tournaments", strings.NewReader("{"))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestNoByeEligiblePlayerIsConflict(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	tr, _ := seedTournament(t, server, "Ada")
	base := fmt.Sprintf("/tournaments/%d", tr.ID)

	rr := doJSON(t, server, "POST", base+"/rounds", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(t, server, "POST", base+"/rounds", nil)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
}

func TestSlackCommands(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatStandingsResponseFunc = func(t tournament.Tournament, standings []swiss.Standing) (any, error) {
		return slack.Message{}, nil
	}
	mockNotifier.FormatPairingsResponseFunc = func(t tournament.Tournament, pairings []swiss.Pairing) (any, error) {
		return slack.Message{}, nil
	}
	mockNotifier.FormatErrorResponseFunc = func(text string) (any, error) {
		return slack.Message{}, nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier, testSlackSigningSecret)
	defer teardown()

	tr, _ := seedTournament(t, server, "Ada", "Bob", "Cid")

	t.Run("standings for the latest tournament", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/standings", url.Values{}, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("pairings by tournament id", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", strconv.FormatInt(int64(tr.ID), 10))
		req := createSlackCommandRequest(t, "/slack/command/pairings", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("unknown tournament answers with an error message", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "99")
		req := createSlackCommandRequest(t, "/slack/command/standings", form, testSlackSigningSecret)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, mockNotifier.FormatErrorResponseCalls, 1)
		assert.Contains(t, mockNotifier.FormatErrorResponseCalls[0], "tournament not found")
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/standings", url.Values{}, "wrong-secret")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestPushHandlers(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier, "")
	defer teardown()

	tr, ids := seedTournament(t, server, "Ada", "Bob")

	t.Run("round-paired posts the pairings", func(t *testing.T) {
		pairings := []swiss.Pairing{{A: swiss.Player{ID: ids[0], Name: "Ada"}, B: swiss.Player{ID: ids[1], Name: "Bob"}}}
		event := pubsub.RoundPairedEvent{EventID: "e1", TournamentID: tr.ID, TournamentName: tr.Name, Round: 1, Pairings: pairings}

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createPushRequest(t, "/pubsub/round-paired?dry_run=true", event))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		calls := mockNotifier.PairingsCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, tr.Name, calls[0].Tournament.Name)
		assert.Equal(t, 1, calls[0].Round)
		assert.Equal(t, pairings, calls[0].Pairings)
		assert.True(t, calls[0].DryRun)
	})

	t.Run("match-reported posts the standings", func(t *testing.T) {
		event := pubsub.MatchReportedEvent{EventID: "e2", TournamentID: tr.ID, Winner: ids[0], Loser: ids[1]}

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createPushRequest(t, "/pubsub/match-reported", event))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, 1, mockNotifier.StandingsCallCount())
	})

	t.Run("rejects a malformed envelope", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/pubsub/round-paired", strings.NewReader(`{"message":{"data":"%%%"}}`))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOversizedBodiesAreRejected(t *testing.T) {
	huge := strings.Repeat("x", maxBodyBytes+1)

	t.Run("push message", func(t *testing.T) {
		server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()
		body := `{"message":{"data":"` + huge + `"}}`
		req, err := http.NewRequest("POST", "/pubsub/match-reported", strings.NewReader(body))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("signed slack command", func(t *testing.T) {
		server, _, teardown := setupTestServer(t, notifier.NewMock(), testSlackSigningSecret)
		defer teardown()
		form := url.Values{}
		form.Set("text", huge)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/standings", form, testSlackSigningSecret))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("unsigned slack command", func(t *testing.T) {
		server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()
		form := url.Values{}
		form.Set("text", huge)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, createSlackCommandRequest(t, "/slack/command/pairings", form, ""))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("json request", func(t *testing.T) {
		server, _, teardown := setupTestServer(t, notifier.NewMock(), "")
		defer teardown()
		rr := doJSON(t, server, "POST", "/tournaments", createTournamentRequest{Name: huge})
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

		rr = doJSON(t, server, "POST", "/tournaments", createTournamentRequest{Name: "Small"})
		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}
