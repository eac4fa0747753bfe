package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/handlers"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/SscSPs/school_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "school-ledger-test"
	schoolA    = "school-a"
	schoolB    = "school-b"
)

// HandlerTestSuite drives the full /api/v1 router with mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	accountSvc   *MockAccountService
	periodSvc    *MockFiscalPeriodService
	journalSvc   *MockJournalService
	reportingSvc *MockReportingService
	accountant   domain.Caller
	operator     domain.Caller
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.accountSvc = new(MockAccountService)
	suite.periodSvc = new(MockFiscalPeriodService)
	suite.journalSvc = new(MockJournalService)
	suite.reportingSvc = new(MockReportingService)
	suite.accountant = domain.Caller{UserID: "user-accountant", TenantID: schoolA, Role: domain.RoleAccountant}
	suite.operator = domain.Caller{UserID: "user-operator", Role: domain.RoleSuperAdmin}

	suite.router = gin.New()
	cfg := &config.Config{
		JWTSecret:    testSecret,
		JWTIssuer:    testIssuer,
		RateLimit:    "1000-S",
		IsProduction: true,
	}
	err := handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:      suite.accountSvc,
		FiscalPeriod: suite.periodSvc,
		Journal:      suite.journalSvc,
		Reporting:    suite.reportingSvc,
	}, nil)
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.accountSvc.AssertExpectations(suite.T())
	suite.periodSvc.AssertExpectations(suite.T())
	suite.journalSvc.AssertExpectations(suite.T())
	suite.reportingSvc.AssertExpectations(suite.T())
}

// generateTestToken signs a token the way the identity provider does.
func (suite *HandlerTestSuite) generateTestToken(caller domain.Caller, ttl time.Duration) string {
	claims := middleware.LedgerClaims{
		TenantID: caller.TenantID,
		Role:     caller.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   caller.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) request(method, path string, body any, caller domain.Caller) *httptest.ResponseRecorder {
	return suite.requestWithToken(method, path, body, suite.generateTestToken(caller, time.Hour))
}

func (suite *HandlerTestSuite) requestWithToken(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, dest any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func (suite *HandlerTestSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.decode(w, &body)
	return body["error"]
}

// anyCtx matches the request context carried through the middleware chain.
var anyCtx = mock.Anything
