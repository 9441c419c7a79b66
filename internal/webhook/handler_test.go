package webhook_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gh-telegram-relay/internal/model"
	"gh-telegram-relay/internal/router"
	"gh-telegram-relay/internal/webhook"
)

const testSecret = "s3cr3t"

type handlerFixture struct {
	engine   *gin.Engine
	router   *mockRouter
	parser   *countingParser
	observer *mockObserver
}

func newFixture(out router.RouteOutput, opts ...webhook.Option) *handlerFixture {
	gin.SetMode(gin.TestMode)

	l := &mockLogger{}
	f := &handlerFixture{
		router:   &mockRouter{output: out},
		parser:   &countingParser{inner: webhook.NewGitHubParser(l)},
		observer: &mockObserver{},
	}

	opts = append([]webhook.Option{webhook.WithParser(f.parser), webhook.WithObserver(f.observer)}, opts...)
	h := webhook.NewHandler(f.router, webhook.SecurityConfig{Secret: testSecret}, l, opts...)

	f.engine = gin.New()
	f.engine.POST("/webhook/github", h.HandleGitHubWebhook)
	return f
}

func (f *handlerFixture) post(body, kind, signature, delivery string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if kind != "" {
		req.Header.Set(webhook.HeaderEvent, kind)
	}
	if signature != "" {
		req.Header.Set(webhook.HeaderSignature, signature)
	}
	if delivery != "" {
		req.Header.Set(webhook.HeaderDelivery, delivery)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func signed(body string) string {
	return "sha256=" + sign(testSecret, []byte(body))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestHandleGitHubWebhook_Unauthorized(t *testing.T) {
	tests := []struct {
		name      string
		signature string
	}{
		{name: "missing signature", signature: ""},
		{name: "wrong prefix", signature: "sha1=" + sign(testSecret, []byte(pullRequestOpened))},
		{name: "wrong secret", signature: "sha256=" + sign("other", []byte(pullRequestOpened))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(router.RouteOutput{})
			w := f.post(pullRequestOpened, model.KindPullRequest, tt.signature, "d-1")

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if f.parser.calls != 0 {
				t.Errorf("parser must not run before authentication, ran %d times", f.parser.calls)
			}
			if len(f.router.events) != 0 {
				t.Errorf("router must not run, got %d events", len(f.router.events))
			}
			if got := f.observer.outcomes; len(got) != 1 || got[0] != "unknown/unauthorized" {
				t.Errorf("unexpected outcomes %v", got)
			}
		})
	}
}

func TestHandleGitHubWebhook_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := &mockRouter{}
	p := &countingParser{inner: webhook.NewGitHubParser(&mockLogger{})}
	h := webhook.NewHandler(r, webhook.SecurityConfig{Secret: testSecret, AllowedIPs: []string{"10.1.1.1"}}, &mockLogger{}, webhook.WithParser(p))

	engine := gin.New()
	engine.POST("/webhook/github", h.HandleGitHubWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(pullRequestOpened))
	req.Header.Set(webhook.HeaderSignature, signed(pullRequestOpened))
	req.Header.Set(webhook.HeaderEvent, model.KindPullRequest)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if p.calls != 0 || len(r.events) != 0 {
		t.Error("rejected request must not be parsed or routed")
	}
}

func TestHandleGitHubWebhook_MalformedBody(t *testing.T) {
	f := newFixture(router.RouteOutput{})
	body := "definitely not json"
	w := f.post(body, model.KindPush, signed(body), "d-1")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(f.router.events) != 0 {
		t.Error("malformed body must not be routed")
	}
	if got := f.observer.outcomes; len(got) != 1 || got[0] != "push/malformed" {
		t.Errorf("unexpected outcomes %v", got)
	}
}

func TestHandleGitHubWebhook_Delivered(t *testing.T) {
	f := newFixture(router.RouteOutput{Matched: 2, Delivered: 2})
	w := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(f.router.events) != 1 {
		t.Fatalf("expected one routed event, got %d", len(f.router.events))
	}
	if _, ok := f.router.events[0].Detail.(model.PullRequest); !ok {
		t.Errorf("expected PullRequest detail, got %T", f.router.events[0].Detail)
	}
	if f.router.ctxErr != nil {
		t.Errorf("routing context should be live, got %v", f.router.ctxErr)
	}

	data := decode(t, w)["data"].(map[string]any)
	if data["status"] != webhook.OutcomeDelivered {
		t.Errorf("expected status delivered, got %v", data["status"])
	}
	if data["event"] != "pull_request.opened" {
		t.Errorf("expected event key pull_request.opened, got %v", data["event"])
	}
	if data["matched"] != float64(2) || data["delivered"] != float64(2) || data["failed"] != float64(0) {
		t.Errorf("unexpected counters %v", data)
	}
}

func TestHandleGitHubWebhook_NoRoute(t *testing.T) {
	f := newFixture(router.RouteOutput{})
	body := `{"zen":"Design for failure."}`
	w := f.post(body, "", signed(body), "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if f.router.events[0].Kind != model.KindUnknown {
		t.Errorf("expected missing kind header to become %q, got %q", model.KindUnknown, f.router.events[0].Kind)
	}
	if data := decode(t, w)["data"].(map[string]any); data["status"] != webhook.OutcomeNoRoute {
		t.Errorf("expected status no_route, got %v", data["status"])
	}
}

func TestHandleGitHubWebhook_PartialFailure(t *testing.T) {
	f := newFixture(router.RouteOutput{Matched: 2, Delivered: 1, Failed: 1})
	w := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on partial delivery, got %d", w.Code)
	}
	if data := decode(t, w)["data"].(map[string]any); data["status"] != webhook.OutcomePartial {
		t.Errorf("expected status partial, got %v", data["status"])
	}
}

func TestHandleGitHubWebhook_AllDeliveriesFailed(t *testing.T) {
	f := newFixture(router.RouteOutput{Matched: 2, Failed: 2}, webhook.WithReplayGuard(webhook.ReplayConfig{Size: 10}))
	w := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if resp := decode(t, w); resp["errors"] != router.ErrAllDeliveriesFailed.Error() {
		t.Errorf("unexpected errors field %v", resp["errors"])
	}

	// A failed delivery is not remembered, so GitHub's redelivery is relayed again.
	f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")
	if len(f.router.events) != 2 {
		t.Errorf("expected redelivery to be routed again, got %d routes", len(f.router.events))
	}
}

func TestHandleGitHubWebhook_Redelivery(t *testing.T) {
	t.Run("Duplicate delivery id is skipped", func(t *testing.T) {
		f := newFixture(router.RouteOutput{Matched: 1, Delivered: 1}, webhook.WithReplayGuard(webhook.ReplayConfig{Size: 10}))

		first := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")
		second := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")

		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Fatalf("expected 200 twice, got %d and %d", first.Code, second.Code)
		}
		if len(f.router.events) != 1 {
			t.Errorf("expected a single route, got %d", len(f.router.events))
		}
		if data := decode(t, second)["data"].(map[string]any); data["status"] != webhook.OutcomeDuplicate {
			t.Errorf("expected duplicate status, got %v", data["status"])
		}
		if f.parser.calls != 1 {
			t.Errorf("duplicate must not be parsed, parser ran %d times", f.parser.calls)
		}
	})

	t.Run("Distinct ids are both routed", func(t *testing.T) {
		f := newFixture(router.RouteOutput{Matched: 1, Delivered: 1}, webhook.WithReplayGuard(webhook.ReplayConfig{Size: 10}))

		f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")
		f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-2")

		if len(f.router.events) != 2 {
			t.Errorf("expected two routes, got %d", len(f.router.events))
		}
	})

	t.Run("Malformed body does not hold the delivery id", func(t *testing.T) {
		f := newFixture(router.RouteOutput{Matched: 1, Delivered: 1}, webhook.WithReplayGuard(webhook.ReplayConfig{Size: 10}))

		bad := "not json"
		if w := f.post(bad, model.KindPullRequest, signed(bad), "d-1"); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if w := f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1"); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if len(f.router.events) != 1 {
			t.Errorf("expected the corrected delivery to be routed, got %d routes", len(f.router.events))
		}
	})

	t.Run("Without guard every delivery is routed", func(t *testing.T) {
		f := newFixture(router.RouteOutput{Matched: 1, Delivered: 1})

		f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")
		f.post(pullRequestOpened, model.KindPullRequest, signed(pullRequestOpened), "d-1")

		if len(f.router.events) != 2 {
			t.Errorf("expected two routes, got %d", len(f.router.events))
		}
	})
}
