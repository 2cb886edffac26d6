package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/constant"
	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/entity"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/pkg/mailer"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/repository/memory"
	"howdy-portal-be/internal/service"
	"howdy-portal-be/pkg/events"
	"howdy-portal-be/pkg/navigation"

	"github.com/gofiber/fiber/v2"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "controller-test"
	testServerKey = "SB-Mid-server-test"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) {}

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, prompt, _ string) string {
	return "echo: " + prompt
}

type okSnap struct{}

func (okSnap) CreateTransaction(*snap.Request) (*snap.Response, *midtrans.Error) {
	return &snap.Response{Token: "tok", RedirectURL: "https://example.test/snap"}, nil
}

type testApp struct {
	app    *fiber.App
	orders *memory.OrderRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.NewNopLogger()
	sessions := memory.NewSessionRepository(time.Hour)
	orders := memory.NewOrderRepository()
	pub := nopPublisher{}

	portalSvc := service.NewPortalService(sessions, pub, navigation.Taxonomy(), navigation.Synonyms())
	authSvc := service.NewAuthService(sessions, pub, config.AuthConfig{JwtSecret: testSecret, TokenExpiry: time.Hour})
	chatSvc := service.NewChatService(sessions, echoCompleter{}, nil, pub, log)
	newsSvc := service.NewNewsService(sessions, echoCompleter{}, pub)
	paymentSvc := service.NewPaymentService(sessions, orders, okSnap{}, pub, mailer.NewLogOnlyEmailService(log), log, config.MidtransConfig{
		ServerKey:    testServerKey,
		TuitionItem:  "Pay Bill",
		TuitionPrice: 1500000,
	}, "http://localhost:5173")

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	api := app.Group("/api")
	authMw := serverutils.JwtMiddleware(testSecret, portalSvc)

	NewAuthController(authSvc).RegisterRoutes(api, authMw)
	NewPortalController(portalSvc).RegisterRoutes(api, authMw)
	NewChatController(chatSvc).RegisterRoutes(api, authMw)
	NewNewsController(newsSvc).RegisterRoutes(api, authMw)
	NewPaymentController(paymentSvc, log).RegisterRoutes(api, authMw)

	return &testApp{app: app, orders: orders}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, serverutils.Response[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.Response[json.RawMessage]
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func (a *testApp) login(t *testing.T) (string, dto.LoginResponse) {
	t.Helper()
	code, out := a.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Username: "reveille", Password: "x"})
	require.Equal(t, 200, code)
	var res dto.LoginResponse
	require.NoError(t, json.Unmarshal(out.Data, &res))
	return res.AccessToken, res
}

func decodeData[T any](t *testing.T, out serverutils.Response[json.RawMessage]) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(out.Data, &v))
	return v
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)
	token, res := a.login(t)
	assert.True(t, res.State.LoggedIn)

	code, _ := a.do(t, "GET", "/api/portal/state", token, nil)
	assert.Equal(t, 200, code)

	code, out := a.do(t, "POST", "/api/auth/logout", token, nil)
	require.Equal(t, 200, code)
	state := decodeData[dto.PortalStateResponse](t, out)
	assert.False(t, state.LoggedIn)

	code, _ = a.do(t, "GET", "/api/portal/state", token, nil)
	assert.Equal(t, 401, code)
}

func TestPortalRoutes_RequireToken(t *testing.T) {
	a := newTestApp(t)
	code, out := a.do(t, "GET", "/api/portal/dashboard", "", nil)
	assert.Equal(t, 401, code)
	assert.False(t, out.Success)
}

func TestSearchAndSelect(t *testing.T) {
	a := newTestApp(t)
	token, _ := a.login(t)

	code, out := a.do(t, "POST", "/api/portal/search", token, dto.SearchRequest{Query: "lib"})
	require.Equal(t, 200, code)
	search := decodeData[dto.SearchResponse](t, out)
	require.NotEmpty(t, search.Results)
	assert.Equal(t, "Library", search.Results[0].Title)
	assert.Equal(t, "service", search.Results[0].Kind)

	code, out = a.do(t, "POST", "/api/portal/search/select", token, dto.SelectResultRequest{Title: "Library"})
	require.Equal(t, 200, code)
	state := decodeData[dto.PortalStateResponse](t, out)
	assert.Equal(t, "Resources", state.ActiveCategory)
	assert.True(t, state.ExpandedMenu["Resources"])

	code, _ = a.do(t, "POST", "/api/portal/search/select", token, dto.SelectResultRequest{Title: "Library"})
	assert.Equal(t, 404, code)
}

func TestViewRoutes(t *testing.T) {
	a := newTestApp(t)
	token, _ := a.login(t)

	code, out := a.do(t, "POST", "/api/portal/menu/"+url.PathEscape("Finance & Tuition")+"/toggle", token, nil)
	require.Equal(t, 200, code)
	assert.True(t, decodeData[dto.PortalStateResponse](t, out).ExpandedMenu["Finance & Tuition"])

	code, _ = a.do(t, "POST", "/api/portal/menu/Quidditch/toggle", token, nil)
	assert.Equal(t, 400, code)

	code, out = a.do(t, "PUT", "/api/portal/theme", token, dto.SetThemeRequest{Theme: "light"})
	require.Equal(t, 200, code)
	assert.Equal(t, "light", decodeData[dto.PortalStateResponse](t, out).Theme)

	code, out = a.do(t, "PUT", "/api/portal/theme", token, dto.SetThemeRequest{Theme: "neon"})
	assert.Equal(t, 400, code)
	assert.Contains(t, out.Message, "theme must be one of")

	code, _ = a.do(t, "POST", "/api/portal/modal/payment/open", token, nil)
	assert.Equal(t, 200, code)
	code, out = a.do(t, "POST", "/api/portal/modal/close", token, nil)
	require.Equal(t, 200, code)
	assert.Empty(t, decodeData[dto.PortalStateResponse](t, out).Modal)

	code, out = a.do(t, "POST", "/api/portal/navigate", token, dto.NavigateRequest{Category: "Home"})
	require.Equal(t, 200, code)
	assert.Equal(t, "Home", decodeData[dto.PortalStateResponse](t, out).ActiveCategory)
}

func TestChatRoutes(t *testing.T) {
	a := newTestApp(t)
	token, _ := a.login(t)

	code, out := a.do(t, "POST", "/api/chat/messages", token, dto.SendChatRequest{Chat: "howdy"})
	require.Equal(t, 200, code)
	res := decodeData[dto.SendChatResponse](t, out)
	require.NotNil(t, res.Reply)
	assert.Equal(t, "echo: howdy", res.Reply.Text)
	assert.Equal(t, constant.ChatGreeting, res.Transcript[0].Text)

	code, _ = a.do(t, "POST", "/api/chat/messages", token, dto.SendChatRequest{Chat: ""})
	assert.Equal(t, 400, code)
}

func TestNewsBriefRoute(t *testing.T) {
	a := newTestApp(t)
	token, _ := a.login(t)

	code, out := a.do(t, "POST", "/api/news/0/brief", token, nil)
	require.Equal(t, 200, code)
	assert.True(t, decodeData[dto.BriefResponse](t, out).Shown)

	code, _ = a.do(t, "POST", "/api/news/42/brief", token, nil)
	assert.Equal(t, 404, code)

	code, _ = a.do(t, "POST", "/api/news/first/brief", token, nil)
	assert.Equal(t, 400, code)
}

func TestPaymentRoutes(t *testing.T) {
	a := newTestApp(t)
	token, _ := a.login(t)

	code, out := a.do(t, "POST", "/api/payment/checkout", token, dto.CheckoutRequest{
		FirstName: "Sully", Email: "sully@tamu.edu",
	})
	require.Equal(t, 200, code)
	checkout := decodeData[dto.CheckoutResponse](t, out)
	assert.Equal(t, "tok", checkout.SnapToken)

	notif := dto.MidtransWebhookRequest{
		OrderId:           checkout.OrderId,
		StatusCode:        "200",
		GrossAmount:       "1500000.00",
		TransactionStatus: "settlement",
	}
	notif.SignatureKey = "forged"
	code, _ = a.do(t, "POST", "/api/payment/midtrans/notification", "", notif)
	assert.Equal(t, http.StatusForbidden, code)

	notif.SignatureKey = service.Signature(notif.OrderId, notif.StatusCode, notif.GrossAmount, testServerKey)
	code, _ = a.do(t, "POST", "/api/payment/midtrans/notification", "", notif)
	assert.Equal(t, http.StatusOK, code)

	code, out = a.do(t, "GET", "/api/payment/orders/"+checkout.OrderId, token, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, string(entity.PaymentStatusPaid), decodeData[dto.OrderStatusResponse](t, out).Status)

	code, _ = a.do(t, "POST", "/api/payment/checkout", token, dto.CheckoutRequest{FirstName: "Sully", Email: "not-an-email"})
	assert.Equal(t, 400, code)
}
