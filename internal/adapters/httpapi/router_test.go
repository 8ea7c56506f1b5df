package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growcore/internal/adapters/guides"
	"growcore/internal/blob"
	"growcore/internal/core"
	"growcore/internal/education"
	"growcore/internal/mailer"
)

var fixedNow = time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)

const educationPage = `<html><body>
<article class="education-article" id="lighting">
  <h2>Lighting Basics</h2>
  <span class="badge">Beginner</span>
  <div class="article-content">LED fixtures run cool.</div>
</article>
</body></html>`

const completeSelections = `{
	"experience": "beginner",
	"tentSize": "3x3",
	"medium": "soil",
	"potType": "fabric",
	"potSize": 3,
	"plantCount": 3,
	"nutrients": {"line": "general-hydroponics"},
	"plantType": "photo",
	"strainType": "hybrid"
}`

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fixture struct {
	handler http.Handler
	mail    *fakeMailer
	exports *guides.Worker
}

func newFixture(t *testing.T, apiKey string) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	prom, err := core.NewPrometheusRecorder(reg)
	require.NoError(t, err)
	svc := core.NewInMemoryService(
		core.WithClock(func() time.Time { return fixedNow }),
		core.WithMetricsRecorder(prom),
	)

	mail := &fakeMailer{}
	relay := mailer.NewRelay(mailer.Config{APIKey: apiKey, ToEmail: "grow@example.com"},
		mailer.WithMailerFactory(func(string) mailer.Mailer { return mail }))

	exports := guides.NewWorker(blob.NewMemory(), guides.WithClock(func() time.Time { return fixedNow }))
	exports.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = exports.Stop(ctx)
	})

	page := filepath.Join(t.TempDir(), "education.html")
	require.NoError(t, os.WriteFile(page, []byte(educationPage), 0o644))
	lib, err := education.Open(page, nil)
	require.NoError(t, err)

	return &fixture{
		handler: NewRouter(Dependencies{
			Service:   svc,
			Relay:     relay,
			Exports:   exports,
			Education: lib,
			Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Location:  time.UTC,
		}),
		mail:    mail,
		exports: exports,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, "key")
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	f.do(t, http.MethodGet, "/api/v1/tracker/due", "")
	rec = f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `operation="due_tasks"`)
}

func TestBuilderRoutes(t *testing.T) {
	f := newFixture(t, "key")

	rec := f.do(t, http.MethodGet, "/api/v1/builder/schema?experience=beginner", "")
	require.Equal(t, http.StatusOK, rec.Code)
	schema := decodeBody(t, rec)
	assert.EqualValues(t, 8, schema["totalSteps"])
	assert.Len(t, schema["steps"], 8)

	rec = f.do(t, http.MethodPost, "/api/v1/builder/next", `{"step":1,"selections":{}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{"experience"}, body["missing"])

	rec = f.do(t, http.MethodPost, "/api/v1/builder/select",
		`{"state":{"step":1,"selections":{}},"field":"experience","value":"beginner"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody(t, rec)["state"].(map[string]any)
	assert.Equal(t, "beginner", state["selections"].(map[string]any)["experience"])

	rec = f.do(t, http.MethodPost, "/api/v1/builder/next", `{"step":1,"selections":{"experience":"beginner"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody(t, rec)["state"].(map[string]any)["step"])

	rec = f.do(t, http.MethodPost, "/api/v1/builder/back", `{"step":1,"selections":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/builder/select",
		`{"state":{"step":2,"selections":{}},"field":"tentSize","value":"9x9"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/builder/next", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetAndSummary(t *testing.T) {
	f := newFixture(t, "key")
	sel := `{"selections":{"tentSize":"4x4","medium":"coco","plantCount":4}}`

	rec := f.do(t, http.MethodPost, "/api/v1/builder/budget", sel)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "$620 - $1400", body["label"])
	assert.Len(t, body["lines"], 5)

	rec = f.do(t, http.MethodPost, "/api/v1/builder/summary", sel)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "$620 - $1400", decodeBody(t, rec)["budgetLabel"])

	rec = f.do(t, http.MethodPost, "/api/v1/builder/budget", `{"selections":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderGuide(t *testing.T) {
	f := newFixture(t, "key")
	rec := f.do(t, http.MethodPost, "/api/v1/guides/render", `{"selections":`+completeSelections+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "borough-botanicals-grow-guide.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = f.do(t, http.MethodPost, "/api/v1/guides/render?format=json", `{"selections":`+completeSelections+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PRO TIPS FOR BEGINNER GROWERS", decodeBody(t, rec)["tipsHeading"])

	rec = f.do(t, http.MethodPost, "/api/v1/guides/render?format=docx", `{"selections":`+completeSelections+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/guides/render", `{"selections":{"tentSize":"3x3"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuideExports(t *testing.T) {
	f := newFixture(t, "key")
	rec := f.do(t, http.MethodPost, "/api/v1/guides/exports",
		`{"selections":`+completeSelections+`,"formats":["json","xlsx"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)
	assert.Equal(t, "/api/v1/guides/exports/"+id, rec.Header().Get("Location"))

	require.Eventually(t, func() bool {
		rec := f.do(t, http.MethodGet, "/api/v1/guides/exports/"+id, "")
		return rec.Code == http.StatusOK && decodeBody(t, rec)["status"] == string(guides.ExportStatusSucceeded)
	}, 5*time.Second, 10*time.Millisecond)

	rec = f.do(t, http.MethodGet, "/api/v1/guides/exports/"+id+"/artifacts/json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "beginner", decodeBody(t, rec)["experience"])

	rec = f.do(t, http.MethodGet, "/api/v1/guides/exports/"+id+"/artifacts/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/v1/guides/exports/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJournalRoutes(t *testing.T) {
	f := newFixture(t, "key")

	rec := f.do(t, http.MethodGet, "/api/v1/journal/classic/conditions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody(t, rec)["conditions"])

	rec = f.do(t, http.MethodPut, "/api/v1/journal/classic/conditions", `{"temp":78,"rh":"55"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["saved"])

	rec = f.do(t, http.MethodGet, "/api/v1/journal/classic/conditions", "")
	cond := decodeBody(t, rec)["conditions"].(map[string]any)
	assert.Equal(t, "78", cond["temp"])

	rec = f.do(t, http.MethodPost, "/api/v1/journal/redesign/notes", `{"text":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/v1/journal/redesign/notes", `{"text":"second"}`)
	notes := decodeBody(t, rec)["notes"].([]any)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].(map[string]any)["text"])

	rec = f.do(t, http.MethodGet, "/api/v1/journal/classic/notes", "")
	assert.Empty(t, decodeBody(t, rec)["notes"])

	rec = f.do(t, http.MethodGet, "/api/v1/journal/legacy/notes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackerRoutes(t *testing.T) {
	f := newFixture(t, "key")

	rec := f.do(t, http.MethodPost, "/api/v1/tracker/plants/tent-a/actions",
		`{"type":"water","at":"2024-06-28T09:00","amount":"1L"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "3 days ago", decodeBody(t, rec)["care"].(map[string]any)["watered"])

	rec = f.do(t, http.MethodGet, "/api/v1/tracker/due", "")
	require.Equal(t, http.StatusOK, rec.Code)
	watering := decodeBody(t, rec)["watering"].([]any)
	require.Len(t, watering, 1)
	assert.Equal(t, "tent-a", watering[0].(map[string]any)["id"])
	assert.EqualValues(t, 3, watering[0].(map[string]any)["days"])

	rec = f.do(t, http.MethodGet, "/api/v1/tracker/plants/tent-a/timeline?type=feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["entries"])
	rec = f.do(t, http.MethodGet, "/api/v1/tracker/plants/tent-a/timeline", "")
	assert.Len(t, decodeBody(t, rec)["entries"], 1)

	rec = f.do(t, http.MethodPost, "/api/v1/tracker/plants/tent-a/actions", `{"type":"mist"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/v1/tracker/plants/tent-a/actions", `{"type":"water","at":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/v1/tracker/plants/ghost/timeline", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEducationSearch(t *testing.T) {
	f := newFixture(t, "key")
	rec := f.do(t, http.MethodGet, "/api/v1/education/search?q=led", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "1 result", body["count"])

	rec = f.do(t, http.MethodGet, "/api/v1/education/search?q=l", "")
	assert.Empty(t, decodeBody(t, rec)["items"])
}

func TestContactRelay(t *testing.T) {
	f := newFixture(t, "key")
	rec := f.do(t, http.MethodPost, "/api/contact", `{"name":"Sam","message":"hi\nthere"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "Website contact from Sam", f.mail.sent[0].Subject)

	f.mail.err = errors.New("rate limited")
	rec = f.do(t, http.MethodPost, "/.netlify/functions/send", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"rate limited"}`, rec.Body.String())

	missing := newFixture(t, "")
	rec = missing.do(t, http.MethodPost, "/api/contact", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Missing SENDGRID_API_KEY in environment"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, "key")
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://boroughbotanicals.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
