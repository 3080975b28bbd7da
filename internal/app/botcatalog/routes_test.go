package botcatalog

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/botcatalog/internal/cache"
	"github.com/magabrotheeeer/botcatalog/internal/lib/gate"
	"github.com/magabrotheeeer/botcatalog/internal/lib/jwt"
	"github.com/magabrotheeeer/botcatalog/internal/lib/secret"
	"github.com/magabrotheeeer/botcatalog/internal/lib/statestore"
	"github.com/magabrotheeeer/botcatalog/internal/livelog"
	"github.com/magabrotheeeer/botcatalog/internal/services/catalog"
	"github.com/magabrotheeeer/botcatalog/internal/services/flow"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
	"github.com/magabrotheeeer/botcatalog/internal/services/telegram"
	"github.com/magabrotheeeer/botcatalog/internal/storage"
)

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type testAPI struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := statestore.New(storage.NewMemory(), cache.Noop{}, time.Hour, logger)
	key, err := secret.GenerateKey()
	require.NoError(t, err)
	sealer, err := secret.NewSealer(key)
	require.NoError(t, err)

	cat := catalog.New()
	sim := livelog.NewSimulator(cat.IDs(), 10, time.Second, logger)
	sim.Tick()

	srv := httptest.NewServer(NewRouter(Deps{
		Logger:    logger,
		Tokens:    jwt.NewJWTMaker("test-secret", time.Hour),
		Catalog:   cat,
		Plans:     plan.NewService(store, cat, gate.DefaultPolicy(), logger),
		Telegram:  telegram.NewConfigService(store, sealer, logger),
		Flows:     flow.NewService(store, logger),
		Logs:      sim,
		RateLimit: 1000,
		RateBurst: 1000,
	}))
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv}
}

func (a *testAPI) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, r)
	require.NoError(a.t, err)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (a *testAPI) login() {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/session", map[string]string{"name": "test"})
	require.Equal(a.t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	a.token = data.Token
}

func TestRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, "/api/v1/plan", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Error", env.Status)
}

func TestRoutes_PlanLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	code, env := api.do(http.MethodGet, "/api/v1/plan/bots/crm/access", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"reason":"trial"`)

	code, _ = api.do(http.MethodGet, "/api/v1/bots/crm/logs", nil)
	assert.Equal(t, http.StatusOK, code, "logs are visible during the trial")

	code, _ = api.do(http.MethodPost, "/api/v1/plan/bots/nope/purchase", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(http.MethodPost, "/api/v1/plan/bots/crm/purchase", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"active_plans":["crm"]`)

	code, _ = api.do(http.MethodPost, "/api/v1/plan/subscription", map[string]int{"days": 45})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = api.do(http.MethodPost, "/api/v1/plan/subscription", map[string]int{"days": 60})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"type":"60d"`)
	assert.Contains(t, string(env.Data), `"trial_ended":true`)

	code, env = api.do(http.MethodPost, "/api/v1/plan/bots/giveaway/use", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"reason":"subscription"`)

	code, env = api.do(http.MethodGet, "/api/v1/plan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"subscription_active":true`)

	code, env = api.do(http.MethodDelete, "/api/v1/plan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"deleted":true`)

	code, env = api.do(http.MethodGet, "/api/v1/plan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"active_plans":[]`)
}

func TestRoutes_TelegramConfig(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	code, env := api.do(http.MethodGet, "/api/v1/telegram/config", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"is_configured":false`)

	code, _ = api.do(http.MethodPut, "/api/v1/telegram/config", map[string]any{"api_id": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = api.do(http.MethodPut, "/api/v1/telegram/config", map[string]any{
		"api_id":       12345,
		"api_hash":     "0123456789abcdef0123456789abcdef",
		"phone_number": "+79991234567",
	})
	require.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodGet, "/api/v1/telegram/config", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"is_configured":true`)
	assert.NotContains(t, string(env.Data), "0123456789abcdef0123456789abcdef")

	code, env = api.do(http.MethodGet, "/api/v1/telegram/config?reveal=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "0123456789abcdef0123456789abcdef")

	code, env = api.do(http.MethodDelete, "/api/v1/telegram/config", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"deleted":true`)
}

func TestRoutes_FlowEditor(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	code, env := api.do(http.MethodPost, "/api/v1/flows", map[string]string{"name": "welcome"})
	require.Equal(t, http.StatusCreated, code)
	var g struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &g))
	base := "/api/v1/flows/" + g.ID

	var trigger, message struct {
		ID string `json:"id"`
	}
	code, env = api.do(http.MethodPost, base+"/nodes", map[string]any{"type": "trigger", "position": map[string]float64{"x": 0, "y": 0}})
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, json.Unmarshal(env.Data, &trigger))

	code, env = api.do(http.MethodPost, base+"/nodes", map[string]any{"type": "message", "label": "Привет"})
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, json.Unmarshal(env.Data, &message))

	code, _ = api.do(http.MethodPost, base+"/nodes", map[string]any{"type": "webhook"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = api.do(http.MethodPost, base+"/edges", map[string]string{"source": trigger.ID, "target": message.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"id":"e-`+trigger.ID+`-`+message.ID+`"`)

	code, _ = api.do(http.MethodPatch, base+"/nodes/"+message.ID, map[string]any{"config": map[string]any{"text": "Добро пожаловать"}})
	assert.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPatch, base+"/nodes/"+message.ID, map[string]any{"config": map[string]any{"duration": 5}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = api.do(http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"saved_at"`)

	code, _ = api.do(http.MethodDelete, base+"/nodes/"+trigger.ID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = api.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"edges":[]`)

	code, env = api.do(http.MethodGet, "/api/v1/flows", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":1`)

	code, _ = api.do(http.MethodGet, "/api/v1/flows/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoutes_Health(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", env.Status)
}
