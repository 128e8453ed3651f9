package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Protagonistst/serenity-spa/config"
	"github.com/Protagonistst/serenity-spa/internal/service"
	"github.com/Protagonistst/serenity-spa/pkg/mailchimp"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
	"github.com/Protagonistst/serenity-spa/pkg/recaptcha"
)

type fakeNotifier struct {
	mu    sync.Mutex
	sends int
}

func (f *fakeNotifier) record() mailer.SendResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	return mailer.SendResult{Success: true, MessageID: "test-msg"}
}

func (f *fakeNotifier) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends
}

func (f *fakeNotifier) SendBookingConfirmation(context.Context, string, mailer.BookingEmailData) mailer.SendResult {
	return f.record()
}
func (f *fakeNotifier) SendBookingAlert(context.Context, mailer.BookingEmailData) mailer.SendResult {
	return f.record()
}
func (f *fakeNotifier) SendContactAutoReply(context.Context, string, mailer.ContactEmailData) mailer.SendResult {
	return f.record()
}
func (f *fakeNotifier) SendContactAlert(context.Context, mailer.ContactEmailData) mailer.SendResult {
	return f.record()
}
func (f *fakeNotifier) SendNewsletterWelcome(context.Context, string, mailer.WelcomeEmailData) mailer.SendResult {
	return f.record()
}

type fakeListProvider struct {
	subscribeErr   error
	unsubscribeErr error
	getErr         error
	calls          int
}

func (f *fakeListProvider) Subscribe(_ context.Context, params mailchimp.SubscribeParams) (*mailchimp.Member, error) {
	f.calls++
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return &mailchimp.Member{ID: "abc123", Email: params.Email, Status: "subscribed"}, nil
}

func (f *fakeListProvider) Unsubscribe(_ context.Context, email string) (*mailchimp.Member, error) {
	f.calls++
	if f.unsubscribeErr != nil {
		return nil, f.unsubscribeErr
	}
	return &mailchimp.Member{Email: email, Status: "unsubscribed"}, nil
}

func (f *fakeListProvider) GetMember(_ context.Context, email string) (*mailchimp.Member, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &mailchimp.Member{Email: email, Status: "subscribed"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Window: time.Minute},
		Recaptcha: config.RecaptchaConfig{MinScore: 0.5},
	}
}

// newTestRouter builds the full route tree on top of fakes. The recaptcha
// secret stays unset, so the verification gate runs in development mode.
func newTestRouter(notifier *fakeNotifier, list *fakeListProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	bookingHandler := NewBookingHandler(service.NewBookingService(notifier))
	contactHandler := NewContactHandler(service.NewContactService(notifier))
	newsletterHandler := NewNewsletterHandler(service.NewNewsletterService(list, notifier))

	return InitRoutes(testConfig(), bookingHandler, contactHandler, newsletterHandler, recaptcha.NewClient(""))
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func validBookingBody() map[string]interface{} {
	return map[string]interface{}{
		"selectedService": map[string]string{
			"title":    "Swedish Massage",
			"duration": "60 min",
			"price":    "$120",
		},
		"selectedDate": tomorrow(),
		"selectedTime": "10:00",
		"personalInfo": map[string]string{
			"firstName": "Jane",
			"lastName":  "Doe",
			"email":     "jane@example.com",
			"phone":     "555-0100",
		},
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestCreateBooking(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	w := doJSON(router, http.MethodPost, "/api/booking", validBookingBody())
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^SPA-\d+-[A-Z0-9]{5}$`, body["bookingReference"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, true, data["emailSent"])

	// customer confirmation + operator alert
	assert.Equal(t, 2, notifier.sendCount())
}

func TestCreateBookingPastDate(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	req := validBookingBody()
	req["selectedDate"] = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	w := doJSON(router, http.MethodPost, "/api/booking", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Invalid date", body["error"])
	// rejected before any email send was attempted
	assert.Equal(t, 0, notifier.sendCount())
}

func TestCreateBookingBadEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	for _, email := range []string{"not-an-email", "a@b"} {
		req := validBookingBody()
		req["personalInfo"].(map[string]string)["email"] = email

		w := doJSON(router, http.MethodPost, "/api/booking", req)
		require.Equal(t, http.StatusBadRequest, w.Code, "email %q", email)
		assert.Equal(t, "Invalid email", decode(t, w)["error"])
	}
	assert.Equal(t, 0, notifier.sendCount())
}

func TestBookingLookupPlaceholder(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/booking/SPA-123-ABCDE", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "SPA-123-ABCDE", body["reference"])
}

func TestAvailability(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	// next Saturday
	date := time.Now()
	for date.Weekday() != time.Saturday {
		date = date.AddDate(0, 0, 1)
	}

	w := doJSON(router, http.MethodGet, "/api/booking/availability/"+date.Format("2006-01-02"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, []interface{}{"10:00", "15:00"}, body["bookedSlots"])

	available := body["availableSlots"].([]interface{})
	assert.Len(t, available, 6)
	assert.NotContains(t, available, "10:00")
	assert.NotContains(t, available, "15:00")
	assert.Equal(t, "6 time slots available", body["message"])
}

func TestAvailabilityPastDate(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/booking/availability/2020-01-01", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date", decode(t, w)["error"])
}

func TestSubmitContact(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	w := doJSON(router, http.MethodPost, "/api/contact", map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "Jane@Example.com",
		"subject":   "general-inquiry",
		"message":   "I would like to know more about your massages.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", data["name"])
	assert.Equal(t, "jane@example.com", data["email"])
	assert.Equal(t, true, data["autoReplySent"])
	assert.Equal(t, 2, notifier.sendCount())
}

func TestSubmitContactShortMessage(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	w := doJSON(router, http.MethodPost, "/api/contact", map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"subject":   "feedback",
		"message":   "123456789", // exactly 9 characters
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Message too short", decode(t, w)["error"])
	assert.Equal(t, 0, notifier.sendCount())
}

func TestContactSubjectsIdempotent(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	first := doJSON(router, http.MethodGet, "/api/contact/subjects", nil)
	second := doJSON(router, http.MethodGet, "/api/contact/subjects", nil)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	body := decode(t, first)
	assert.Len(t, body["data"], 12)
}

func TestContactHoursStaticPortion(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	first := decode(t, doJSON(router, http.MethodGet, "/api/contact/hours", nil))
	second := decode(t, doJSON(router, http.MethodGet, "/api/contact/hours", nil))

	// the static portion is byte-for-byte stable, only currentStatus may
	// vary with the wall clock
	d1 := first["data"].(map[string]interface{})
	d2 := second["data"].(map[string]interface{})
	assert.NotNil(t, d1["currentStatus"])
	delete(d1, "currentStatus")
	delete(d2, "currentStatus")
	assert.Equal(t, d1, d2)

	hours := d1["businessHours"].(map[string]interface{})
	friday := hours["friday"].(map[string]interface{})
	assert.Equal(t, "21:00", friday["close"])
}

func TestNewsletterSubscribe(t *testing.T) {
	notifier := &fakeNotifier{}
	router := newTestRouter(notifier, &fakeListProvider{})

	w := doJSON(router, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email":     "jane@example.com",
		"firstName": "Jane",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "subscribed", data["status"])
	assert.Equal(t, true, data["welcomeEmailSent"])
	assert.Len(t, data["benefits"], 4)
}

func TestNewsletterSubscribeAlreadySubscribed(t *testing.T) {
	list := &fakeListProvider{subscribeErr: mailchimp.ErrMemberExists}
	router := newTestRouter(&fakeNotifier{}, list)

	w := doJSON(router, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Already subscribed", body["error"])
	assert.NotEmpty(t, body["suggestion"])
}

func TestNewsletterSubscribeProviderRejectsEmail(t *testing.T) {
	list := &fakeListProvider{subscribeErr: mailchimp.ErrInvalidEmail}
	router := newTestRouter(&fakeNotifier{}, list)

	w := doJSON(router, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email", decode(t, w)["error"])
}

func TestNewsletterSubscribeBadEmailNeverReachesProvider(t *testing.T) {
	list := &fakeListProvider{}
	router := newTestRouter(&fakeNotifier{}, list)

	w := doJSON(router, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, list.calls)
}

func TestNewsletterUnsubscribeNotFound(t *testing.T) {
	list := &fakeListProvider{unsubscribeErr: mailchimp.ErrNotFound}
	router := newTestRouter(&fakeNotifier{}, list)

	w := doJSON(router, http.MethodPost, "/api/newsletter/unsubscribe", map[string]string{
		"email": "ghost@example.com",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Email not found", decode(t, w)["error"])
}

func TestNewsletterStatus(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/newsletter/status/jane@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["subscribed"])
}

func TestNewsletterStatusNotFound(t *testing.T) {
	list := &fakeListProvider{getErr: mailchimp.ErrNotFound}
	router := newTestRouter(&fakeNotifier{}, list)

	w := doJSON(router, http.MethodGet, "/api/newsletter/status/ghost@example.com", nil)
	// an unknown address is not an error
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["subscribed"])
}

func TestNewsletterPreferences(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	first := doJSON(router, http.MethodGet, "/api/newsletter/preferences", nil)
	second := doJSON(router, http.MethodGet, "/api/newsletter/preferences", nil)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	data := decode(t, first)["data"].(map[string]interface{})
	assert.Len(t, data["frequency"], 3)
	assert.Len(t, data["content"], 5)
}

func TestNewsletterFeedback(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodPost, "/api/newsletter/feedback", map[string]interface{}{
		"email":  "jane@example.com",
		"rating": 4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/newsletter/feedback", map[string]interface{}{
		"email":  "jane@example.com",
		"rating": 6,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid rating", decode(t, w)["error"])
}

func TestUnmatchedAPIRoute(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/nonexistent", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "API endpoint not found", body["message"])
}

// With no recaptcha secret configured, protected POST endpoints behave
// identically with and without a token.
func TestRecaptchaUnconfiguredIsNoOp(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	withoutToken := doJSON(router, http.MethodPost, "/api/booking", validBookingBody())
	require.Equal(t, http.StatusCreated, withoutToken.Code)

	withToken := validBookingBody()
	withToken["recaptchaToken"] = "some-token"
	w := doJSON(router, http.MethodPost, "/api/booking", withToken)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Requests: 3, Window: time.Minute}

	notifier := &fakeNotifier{}
	bookingHandler := NewBookingHandler(service.NewBookingService(notifier))
	contactHandler := NewContactHandler(service.NewContactService(notifier))
	newsletterHandler := NewNewsletterHandler(service.NewNewsletterService(&fakeListProvider{}, notifier))
	router := InitRoutes(cfg, bookingHandler, contactHandler, newsletterHandler, recaptcha.NewClient(""))

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = doJSON(router, http.MethodGet, "/api/health", nil)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "Too many requests")
}

func TestSubjectsListIsStable(t *testing.T) {
	router := newTestRouter(&fakeNotifier{}, &fakeListProvider{})

	w := doJSON(router, http.MethodGet, "/api/contact/subjects", nil)
	body := decode(t, w)

	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	assert.Equal(t, "general-inquiry", first["value"])
	last := data[len(data)-1].(map[string]interface{})
	assert.Equal(t, "other", last["value"])
}
