package webhook_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smileworthy/benefix/auth"
	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/webhook"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testClientSecret = "super-secret-key-of-sufficient-length"
const testStoreHash = "abc123"

type fakeSDF struct {
	generations int
}

func (f *fakeSDF) GenerateSDF(ctx context.Context, now time.Time) (string, error) {
	f.generations++
	return "staged.txt", nil
}

func newTestHandler(t *testing.T, f *routerFixture) http.Handler {
	authManager, err := auth.New(auth.Options{
		Logger:       zap.NewNop(),
		ClientSecret: testClientSecret,
		StoreHash:    testStoreHash,
	})
	require.NoError(t, err)

	commerceClient, err := commerce.NewClient(commerce.ClientOptions{
		APIBaseURL:  "https://api.invalid/stores",
		StoreHash:   testStoreHash,
		AccessToken: "token",
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	service, err := webhook.NewService(webhook.ServiceOptions{
		Auth:        authManager,
		Router:      f.router,
		Ledger:      f.ledger,
		Extracts:    f.extracts,
		SDFExtracts: &fakeSDF{},
		Commerce:    commerceClient,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	return service.Router()
}

func signedToken(t *testing.T, storeHash string) string {
	claims := &auth.Claims{
		StoreHash: storeHash,
		UserEmail: "admin@example.com",
	}
	claims.ExpiresAt = time.Now().Add(time.Minute).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testClientSecret))
	require.NoError(t, err)
	return token
}

func TestReceiveEvent(t *testing.T) {
	f := newRouterFixture(t, "")
	f.orders.orders["1042"] = subscriptionOrder("1042", "jane.doe@example.com")
	handler := newTestHandler(t, f)

	body := `{"topic":"order.created","createdOn":1736467200,"data":{"orderId":"1042"}}`
	req := httptest.NewRequest("POST", "/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Created")
	assert.NotNil(t, f.ledger.Get(context.Background(), "jane.doe@example.com"))
}

func TestReceiveEventInvalidJson(t *testing.T) {
	handler := newTestHandler(t, newRouterFixture(t, ""))

	req := httptest.NewRequest("POST", "/events", strings.NewReader("{"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiveEventMissingFields(t *testing.T) {
	handler := newTestHandler(t, newRouterFixture(t, ""))

	req := httptest.NewRequest("POST", "/events", strings.NewReader(`{"topic":"order.created"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiveEventLookupFailure(t *testing.T) {
	f := newRouterFixture(t, "")
	handler := newTestHandler(t, f)

	// no order registered upstream
	body := `{"topic":"order.created","data":{"orderId":"404"}}`
	req := httptest.NewRequest("POST", "/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminRequiresBearer(t *testing.T) {
	handler := newTestHandler(t, newRouterFixture(t, ""))

	req := httptest.NewRequest("GET", "/admin/members", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRejectsWrongStore(t *testing.T) {
	handler := newTestHandler(t, newRouterFixture(t, ""))

	req := httptest.NewRequest("GET", "/admin/members", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-store"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListMembers(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture(t, "")
	f.orders.orders["1042"] = subscriptionOrder("1042", "jane.doe@example.com")
	handler := newTestHandler(t, f)

	_, err := f.router.Route(ctx, &webhook.Event{
		Topic: webhook.TopicOrderCreated,
		Data:  webhook.EventData{OrderID: "1042"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/members", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testStoreHash))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane.doe@example.com")
}

func TestAdminForceEligibility(t *testing.T) {
	f := newRouterFixture(t, "")
	handler := newTestHandler(t, f)

	req := httptest.NewRequest("POST", "/admin/extracts/eligibility", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testStoreHash))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.extracts.generations)
}
