package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/kickoff/internal/dependencies/mocks"
	"github.com/mcoot/kickoff/internal/metrics"
	"github.com/mcoot/kickoff/internal/services/admin"
	"github.com/mcoot/kickoff/internal/storage/memory"
	"github.com/mcoot/kickoff/internal/testutil"
)

// TestAdminPassword is the admin secret every TestApp is configured with
const TestAdminPassword = "test-admin-pass"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MemoryStorage *memory.Storage
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockMetrics   *metrics.Mock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockMetrics := metrics.NewMock()
	logger := testutil.NopLogger()

	gate, err := admin.New(admin.Config{Password: TestAdminPassword, Cost: bcrypt.MinCost}, mockMetrics, logger)
	if err != nil {
		panic("test admin gate: " + err.Error())
	}

	app := newWithDependencies(store, mockClock, mockRandom, mockMetrics, gate, logger)

	return &TestApp{
		App:           app,
		MemoryStorage: store,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockMetrics:   mockMetrics,
	}
}
