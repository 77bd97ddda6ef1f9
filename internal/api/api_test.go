package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kickoff/internal/api/apierr"
	"github.com/mcoot/kickoff/internal/api/response"
	"github.com/mcoot/kickoff/internal/factory"
	"github.com/mcoot/kickoff/internal/model"
)

type APISuite struct {
	suite.Suite
	app     *factory.TestApp
	handler http.Handler
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.handler = s.app.Router(nil)
}

func (s *APISuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *APISuite) decode(rr *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func (s *APISuite) requireErrorCode(rr *httptest.ResponseRecorder, status int, code string) {
	s.Require().Equal(status, rr.Code, rr.Body.String())
	var resp apierr.ErrorResponse
	s.decode(rr, &resp)
	s.Equal(code, resp.Error.Code)
	s.NotEmpty(resp.Error.Message)
}

func (s *APISuite) register(name, clientID string) response.PlayerResponse {
	body := map[string]string{"name": name}
	if clientID != "" {
		body["clientId"] = clientID
	}
	rr := s.request(http.MethodPost, "/api/players", body)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var player response.PlayerResponse
	s.decode(rr, &player)
	return player
}

func (s *APISuite) listPlayers() []response.PlayerResponse {
	rr := s.request(http.MethodGet, "/api/players", nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	var players []response.PlayerResponse
	s.decode(rr, &players)
	return players
}

func (s *APISuite) playerByID(id string) response.PlayerResponse {
	for _, p := range s.listPlayers() {
		if p.ID == id {
			return p
		}
	}
	s.FailNow("player not found", id)
	return response.PlayerResponse{}
}

// Registration

func (s *APISuite) TestRegisterPlayer() {
	s.app.MockRandom.QueueID("p1")

	player := s.register("Alice", "device-1")

	s.Equal("p1", player.ID)
	s.Equal("Alice", player.Name)
	s.False(player.HasPaid)
	s.Nil(player.Team)
	s.Equal("device-1", player.ClientID)
	s.True(s.app.MockClock.Now().Equal(player.CreatedAt))
}

func (s *APISuite) TestRegisterResponseShape() {
	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": "Alice"})
	s.Require().Equal(http.StatusCreated, rr.Code)

	var raw map[string]any
	s.decode(rr, &raw)
	s.Contains(raw, "team")
	s.Nil(raw["team"])
	s.NotContains(raw, "clientId")
	s.Equal(false, raw["hasPaid"])
}

func (s *APISuite) TestListPlayersEmpty() {
	rr := s.request(http.MethodGet, "/api/players", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *APISuite) TestListPlayersNewestFirst() {
	s.register("Alice", "")
	s.app.MockClock.Advance(time.Minute)
	s.register("Bob", "")
	s.app.MockClock.Advance(time.Minute)
	s.register("Chi", "")

	players := s.listPlayers()
	s.Require().Len(players, 3)
	s.Equal("Chi", players[0].Name)
	s.Equal("Bob", players[1].Name)
	s.Equal("Alice", players[2].Name)
}

func (s *APISuite) TestDuplicateNameRejected() {
	s.register("Alice", "")

	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": "Alice"})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeNameTaken)

	s.Len(s.listPlayers(), 1)
}

func (s *APISuite) TestEmptyNameRejected() {
	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": ""})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeNameRequired)

	rr = s.request(http.MethodPost, "/api/players", nil)
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeNameRequired)

	s.Empty(s.listPlayers())
}

func (s *APISuite) TestNameLengthLimit() {
	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": strings.Repeat("a", 26)})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeNameTooLong)

	s.register(strings.Repeat("a", 25), "")

	// counted in characters, not bytes
	s.register(strings.Repeat("ồ", 25), "")
}

func (s *APISuite) TestDuplicateDeviceRejected() {
	s.register("Alice", "device-1")

	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": "Bob", "clientId": "device-1"})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeDeviceRegistered)

	s.Len(s.listPlayers(), 1)
}

func (s *APISuite) TestNameErrorWinsOverDeviceError() {
	s.register("Alice", "device-1")

	rr := s.request(http.MethodPost, "/api/players", map[string]string{"name": "Alice", "clientId": "device-1"})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeNameTaken)
}

func (s *APISuite) TestMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/players", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

// Device status and self-service unregistration

func (s *APISuite) TestCheckStatus() {
	s.register("Alice", "device-1")

	var status response.StatusResponse
	rr := s.request(http.MethodGet, "/api/players/check-status?clientId=device-1", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &status)
	s.True(status.HasVoted)

	rr = s.request(http.MethodGet, "/api/players/check-status?clientId=device-2", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &status)
	s.False(status.HasVoted)
}

func (s *APISuite) TestCheckStatusWithoutClientID() {
	s.register("Alice", "")

	rr := s.request(http.MethodGet, "/api/players/check-status", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"hasVoted":false}`, rr.Body.String())
}

func (s *APISuite) TestUnvote() {
	s.register("Alice", "device-1")
	s.register("Bob", "device-2")

	rr := s.request(http.MethodPost, "/api/players/unvote", map[string]string{"clientId": "device-1"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp response.MessageResponse
	s.decode(rr, &resp)
	s.True(resp.Success)

	players := s.listPlayers()
	s.Require().Len(players, 1)
	s.Equal("Bob", players[0].Name)

	// the name is free again
	s.register("Alice", "device-3")
}

func (s *APISuite) TestUnvoteUnknownDevice() {
	s.register("Alice", "device-1")

	rr := s.request(http.MethodPost, "/api/players/unvote", map[string]string{"clientId": "device-9"})
	s.requireErrorCode(rr, http.StatusNotFound, apierr.CodeNotRegistered)

	s.Len(s.listPlayers(), 1)
}

func (s *APISuite) TestUnvoteRequiresClientID() {
	rr := s.request(http.MethodPost, "/api/players/unvote", map[string]string{})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeClientIDRequired)
}

// Admin: payment

func (s *APISuite) TestTogglePaidTwiceRestores() {
	s.app.MockRandom.QueueID("p1")
	s.register("Alice", "")

	body := map[string]string{"adminPass": factory.TestAdminPassword}

	rr := s.request(http.MethodPut, "/api/players/p1/pay", body)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var player response.PlayerResponse
	s.decode(rr, &player)
	s.True(player.HasPaid)

	rr = s.request(http.MethodPut, "/api/players/p1/pay", body)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &player)
	s.False(player.HasPaid)

	s.False(s.playerByID("p1").HasPaid)
}

func (s *APISuite) TestTogglePaidWrongPassword() {
	s.app.MockRandom.QueueID("p1")
	s.register("Alice", "")

	rr := s.request(http.MethodPut, "/api/players/p1/pay", map[string]string{"adminPass": "wrong"})
	s.requireErrorCode(rr, http.StatusForbidden, apierr.CodeInvalidAdminPassword)

	s.False(s.playerByID("p1").HasPaid)
	s.Equal(1, s.app.MockMetrics.AdminAuthFailures("pay"))
}

func (s *APISuite) TestTogglePaidUnknownPlayer() {
	rr := s.request(http.MethodPut, "/api/players/missing/pay", map[string]string{"adminPass": factory.TestAdminPassword})
	s.requireErrorCode(rr, http.StatusNotFound, apierr.CodePlayerNotFound)
}

// Admin: delete

func (s *APISuite) TestDeletePlayer() {
	s.app.MockRandom.QueueID("p1", "p2")
	s.register("Alice", "")
	s.register("Bob", "")

	rr := s.request(http.MethodDelete, "/api/players/p1", map[string]string{"adminPass": factory.TestAdminPassword})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	players := s.listPlayers()
	s.Require().Len(players, 1)
	s.Equal("p2", players[0].ID)
}

func (s *APISuite) TestDeleteUnknownPlayerSucceeds() {
	rr := s.request(http.MethodDelete, "/api/players/missing", map[string]string{"adminPass": factory.TestAdminPassword})
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp response.MessageResponse
	s.decode(rr, &resp)
	s.True(resp.Success)
}

func (s *APISuite) TestDeleteWrongPassword() {
	s.app.MockRandom.QueueID("p1")
	s.register("Alice", "")

	rr := s.request(http.MethodDelete, "/api/players/p1", map[string]string{"adminPass": "wrong"})
	s.requireErrorCode(rr, http.StatusForbidden, apierr.CodeInvalidAdminPassword)

	rr = s.request(http.MethodDelete, "/api/players/p1", nil)
	s.requireErrorCode(rr, http.StatusForbidden, apierr.CodeInvalidAdminPassword)

	s.Len(s.listPlayers(), 1)
}

// Admin: team split

func (s *APISuite) TestSplitTeams() {
	s.app.MockRandom.QueueID("p1", "p2", "p3")
	s.register("Alice", "")
	s.register("Bob", "")
	s.register("Chi", "")

	rr := s.request(http.MethodPut, "/api/players/split", map[string]any{
		"adminPass": factory.TestAdminPassword,
		"teamA_Ids": []string{"p1"},
		"teamB_Ids": []string{"p2"},
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.JSONEq(`{"success":true}`, rr.Body.String())

	s.Require().NotNil(s.playerByID("p1").Team)
	s.Equal("A", *s.playerByID("p1").Team)
	s.Require().NotNil(s.playerByID("p2").Team)
	s.Equal("B", *s.playerByID("p2").Team)
	s.Nil(s.playerByID("p3").Team)
}

func (s *APISuite) TestSplitTeamsOverlapGoesToB() {
	s.app.MockRandom.QueueID("p1")
	s.register("Alice", "")

	rr := s.request(http.MethodPut, "/api/players/split", map[string]any{
		"adminPass": factory.TestAdminPassword,
		"teamA_Ids": []string{"p1"},
		"teamB_Ids": []string{"p1"},
	})
	s.Require().Equal(http.StatusOK, rr.Code)

	s.Require().NotNil(s.playerByID("p1").Team)
	s.Equal("B", *s.playerByID("p1").Team)
}

func (s *APISuite) TestSplitTeamsResetsPreviousAssignment() {
	s.app.MockRandom.QueueID("p1", "p2")
	s.register("Alice", "")
	s.register("Bob", "")

	split := func(a, b []string) {
		rr := s.request(http.MethodPut, "/api/players/split", map[string]any{
			"adminPass": factory.TestAdminPassword,
			"teamA_Ids": a,
			"teamB_Ids": b,
		})
		s.Require().Equal(http.StatusOK, rr.Code)
	}

	split([]string{"p1"}, []string{"p2"})
	split([]string{"p2"}, nil)

	s.Nil(s.playerByID("p1").Team)
	s.Equal("A", *s.playerByID("p2").Team)
}

func (s *APISuite) TestSplitTeamsWrongPassword() {
	s.app.MockRandom.QueueID("p1")
	s.register("Alice", "")

	rr := s.request(http.MethodPut, "/api/players/split", map[string]any{
		"adminPass": "wrong",
		"teamA_Ids": []string{"p1"},
	})
	s.requireErrorCode(rr, http.StatusUnauthorized, apierr.CodeInvalidAdminPassword)

	s.Nil(s.playerByID("p1").Team)
}

// Admin: login

func (s *APISuite) TestLogin() {
	rr := s.request(http.MethodPost, "/api/login", map[string]string{"adminPass": factory.TestAdminPassword})
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp response.LoginResponse
	s.decode(rr, &resp)
	s.True(resp.Success)
	s.NotEmpty(resp.Message)
	s.Nil(resp.Error)
}

func (s *APISuite) TestLoginWrongPassword() {
	rr := s.request(http.MethodPost, "/api/login", map[string]string{"adminPass": "wrong"})
	s.Require().Equal(http.StatusUnauthorized, rr.Code)

	var resp response.LoginResponse
	s.decode(rr, &resp)
	s.False(resp.Success)
	s.Require().NotNil(resp.Error)
	s.Equal(apierr.CodeInvalidAdminPassword, resp.Error.Code)
}

// Match

func (s *APISuite) TestGetMatchDefault() {
	rr := s.request(http.MethodGet, "/api/match", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"location":"","time":null}`, rr.Body.String())
}

func (s *APISuite) TestUpsertMatch() {
	rr := s.request(http.MethodPost, "/api/match", map[string]any{
		"location": "Riverside Pitch 2",
		"time":     "2024-01-05T19:00:00Z",
	})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var upserted response.UpsertMatchResponse
	s.decode(rr, &upserted)
	s.True(upserted.Success)
	s.Equal("Riverside Pitch 2", upserted.Match.Location)

	rr = s.request(http.MethodGet, "/api/match", nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	var match response.MatchResponse
	s.decode(rr, &match)
	s.Equal("Riverside Pitch 2", match.Location)
	s.Require().NotNil(match.Time)
	s.True(match.Time.Equal(time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC)))
}

func (s *APISuite) TestUpsertMatchOverwrites() {
	rr := s.request(http.MethodPost, "/api/match", map[string]any{
		"location": "Riverside Pitch 2",
		"time":     "2024-01-05T19:00",
	})
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodPost, "/api/match", map[string]any{
		"location": "Hall B",
		"time":     nil,
	})
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.request(http.MethodGet, "/api/match", nil)
	s.JSONEq(`{"location":"Hall B","time":null}`, rr.Body.String())
	s.Equal(2, s.app.MockMetrics.MatchUpdates())
}

func (s *APISuite) TestUpsertMatchInvalidTime() {
	rr := s.request(http.MethodPost, "/api/match", map[string]any{
		"location": "Hall B",
		"time":     "next friday",
	})
	s.requireErrorCode(rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	_, err := s.app.MemoryStorage.GetMatch(context.Background())
	s.ErrorIs(err, model.ErrMatchNotFound)
}

// Health, metrics and CORS

func (s *APISuite) TestHealth() {
	rr := s.request(http.MethodGet, "/api/health", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"status":"ok"}`, rr.Body.String())
}

func (s *APISuite) TestRequestsAreMeasured() {
	s.request(http.MethodGet, "/api/players", nil)
	s.request(http.MethodPut, "/api/players/p1/pay", map[string]string{"adminPass": "wrong"})

	requests := s.app.MockMetrics.Requests()
	s.Require().Len(requests, 2)
	s.Equal("/api/players", requests[0].Route)
	s.Equal(http.StatusOK, requests[0].Status)
	s.Equal("/api/players/{id}/pay", requests[1].Route)
	s.Equal(http.StatusForbidden, requests[1].Status)
}

func (s *APISuite) TestRequestIDHeader() {
	rr := s.request(http.MethodGet, "/api/players", nil)
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
}

func (s *APISuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/players/p1/pay", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	s.Equal(http.StatusNoContent, rr.Code)
	s.Equal("http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rr.Header().Get("Access-Control-Allow-Credentials"))
	s.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func (s *APISuite) TestCORSUnknownOrigin() {
	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.Header.Set("Origin", "https://evil.example")

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	s.Equal(http.StatusOK, rr.Code)
	s.Empty(rr.Header().Get("Access-Control-Allow-Origin"))
}

func (s *APISuite) TestUnknownRoute() {
	rr := s.request(http.MethodGet, "/api/nope", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}
