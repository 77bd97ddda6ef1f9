package admin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/testutil"
)

type GateSuite struct {
	suite.Suite
	metrics *metrics.Mock
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.metrics = metrics.NewMock()
}

func (s *GateSuite) newGate(cfg Config) *Gate {
	gate, err := New(cfg, s.metrics, testutil.NopLogger())
	s.Require().NoError(err)
	return gate
}

func (s *GateSuite) TestCorrectPasswordIsAccepted() {
	gate := s.newGate(Config{Password: "secret", Cost: bcrypt.MinCost})

	s.NoError(gate.Verify(ActionLogin, "secret"))
	s.Equal(0, s.metrics.AdminAuthFailures(ActionLogin))
}

func (s *GateSuite) TestWrongPasswordIsRejected() {
	gate := s.newGate(Config{Password: "secret", Cost: bcrypt.MinCost})

	s.ErrorIs(gate.Verify(ActionTogglePaid, "wrong"), ErrInvalidAdminPassword)
	s.Equal(1, s.metrics.AdminAuthFailures(ActionTogglePaid))
}

func (s *GateSuite) TestRejectionIsLogged() {
	logger, logs := testutil.CaptureLogger()
	gate, err := New(Config{Password: "secret", Cost: bcrypt.MinCost}, s.metrics, logger)
	s.Require().NoError(err)

	s.Error(gate.Verify(ActionSplit, "wrong"))

	s.Contains(logs.String(), `"msg":"admin password rejected"`)
	s.Contains(logs.String(), `"action":"split"`)
	s.NotContains(logs.String(), "wrong")
}

func (s *GateSuite) TestComparisonIsCaseSensitive() {
	gate := s.newGate(Config{Password: "secret", Cost: bcrypt.MinCost})

	s.ErrorIs(gate.Verify(ActionLogin, "SECRET"), ErrInvalidAdminPassword)
}

func (s *GateSuite) TestEmptySuppliedPasswordIsRejected() {
	gate := s.newGate(Config{Password: "secret", Cost: bcrypt.MinCost})

	s.ErrorIs(gate.Verify(ActionSplit, ""), ErrInvalidAdminPassword)
}

func (s *GateSuite) TestNoConfiguredPasswordRejectsEverything() {
	gate := s.newGate(Config{})

	s.False(gate.Enabled())
	s.ErrorIs(gate.Verify(ActionDelete, ""), ErrInvalidAdminPassword)
	s.ErrorIs(gate.Verify(ActionDelete, "anything"), ErrInvalidAdminPassword)
	s.Equal(2, s.metrics.AdminAuthFailures(ActionDelete))
}

func (s *GateSuite) TestPrecomputedHash() {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	s.Require().NoError(err)

	gate := s.newGate(Config{PasswordHash: string(hash)})

	s.True(gate.Enabled())
	s.NoError(gate.Verify(ActionLogin, "hunter2"))
	s.ErrorIs(gate.Verify(ActionLogin, "secret"), ErrInvalidAdminPassword)
}

func (s *GateSuite) TestHashTakesPrecedenceOverPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	s.Require().NoError(err)

	gate := s.newGate(Config{Password: "from-plain", PasswordHash: string(hash), Cost: bcrypt.MinCost})

	s.NoError(gate.Verify(ActionLogin, "from-hash"))
	s.Error(gate.Verify(ActionLogin, "from-plain"))
}

func (s *GateSuite) TestMalformedHashFailsConstruction() {
	_, err := New(Config{PasswordHash: "not-a-bcrypt-hash"}, s.metrics, testutil.NopLogger())
	s.Error(err)
}

func (s *GateSuite) TestLongPasswordIsAccepted() {
	password := strings.Repeat("a", 73)
	gate := s.newGate(Config{Password: password, Cost: bcrypt.MinCost})

	s.NoError(gate.Verify(ActionLogin, password))
	s.ErrorIs(gate.Verify(ActionLogin, password[:72]), ErrInvalidAdminPassword)
}

func (s *GateSuite) TestTrailingBytesAreRejected() {
	password := strings.Repeat("b", 72)
	gate := s.newGate(Config{Password: password, Cost: bcrypt.MinCost})

	s.NoError(gate.Verify(ActionLogin, password))
	s.ErrorIs(gate.Verify(ActionLogin, password+"EXTRA"), ErrInvalidAdminPassword)
	s.Equal(1, s.metrics.AdminAuthFailures(ActionLogin))
}

func (s *GateSuite) TestPrecomputedHashRejectsTrailingBytes() {
	password := strings.Repeat("c", 72)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)

	gate := s.newGate(Config{PasswordHash: string(hash)})

	s.NoError(gate.Verify(ActionLogin, password))
	s.ErrorIs(gate.Verify(ActionLogin, password+"EXTRA"), ErrInvalidAdminPassword)
}
