package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
	logs   *bytes.Buffer
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger, s.logs = testutil.CaptureLogger()
}

func (s *MiddlewareSuite) TestLoggingSetsRequestID() {
	var seen string
	handler := Logging(s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/players", nil))

	s.NotEmpty(seen)
	s.Equal(seen, rec.Header().Get(RequestIDHeader))
	s.Contains(s.logs.String(), `"request_id":"`+seen+`"`)
}

func (s *MiddlewareSuite) TestLoggingKeepsIncomingRequestID() {
	handler := Logging(s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	s.Equal("abc-123", rec.Header().Get(RequestIDHeader))
}

func (s *MiddlewareSuite) TestLoggingLevelFollowsStatus() {
	handler := Logging(s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	s.Contains(s.logs.String(), `"level":"ERROR"`)
	s.Contains(s.logs.String(), `"status":500`)
}

func (s *MiddlewareSuite) TestRecoveryCallsPanicHandler() {
	var recovered any
	handler := Recovery(s.logger, func(w http.ResponseWriter, r *http.Request, err any) {
		recovered = err
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal("boom", recovered)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(s.logs.String(), "panic recovered")
}

func (s *MiddlewareSuite) TestRecoveryRepanicsAbortHandler() {
	handler := Recovery(s.logger, func(w http.ResponseWriter, r *http.Request, err any) {
		s.Fail("panic handler should not run")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	s.PanicsWithValue(http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	s.NotContains(s.logs.String(), "panic recovered")
}

func (s *MiddlewareSuite) TestMetricsUsesRouteTemplate() {
	m := metrics.NewMock()
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/players/{id}/pay", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}).Methods(http.MethodPut)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/players/p1/pay", nil))

	s.Equal([]metrics.RequestObservation{
		{Method: http.MethodPut, Route: "/api/players/{id}/pay", Status: http.StatusForbidden},
	}, m.Requests())
}
