package webform_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-personform/components/countries"
	"github.com/goliatone/go-personform/pkg/orchestrator"
	"github.com/goliatone/go-personform/pkg/personform"
	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/renderers/vanilla"
	"github.com/goliatone/go-personform/pkg/testsupport"
	"github.com/goliatone/go-personform/pkg/webform"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

type snapshotDoc struct {
	personform.Snapshot
	Hidden []render.HiddenField `json:"hidden"`
}

func (d snapshotDoc) field(t *testing.T, field personform.Field) personform.FieldView {
	t.Helper()
	view, ok := d.Field(field)
	if !ok {
		t.Fatalf("field %s missing from snapshot", field)
	}
	return view
}

type testClient struct {
	t      *testing.T
	server http.Handler
	cookie *http.Cookie
	csrf   string
}

func newServer(t *testing.T, fns ...webform.OptionFn) http.Handler {
	t.Helper()
	lookup := countries.New(countries.WithSource(countries.EmbeddedSource()))
	orch := orchestrator.New(
		orchestrator.WithFetcher(lookup),
		orchestrator.WithFormOptions(personform.WithClock(testsupport.FixedClock(fixedNow))),
	)
	opts := append([]webform.OptionFn{
		webform.WithLookup(lookup),
		webform.WithOrchestrator(orch),
	}, fns...)
	srv, err := webform.New(opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

// newClient opens a session and reads its token from the JSON snapshot.
func newClient(t *testing.T, server http.Handler) *testClient {
	t.Helper()
	c := &testClient{t: t, server: server}
	rec := c.do(http.MethodGet, "/api/form", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("open session: status %d", rec.Code)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == webform.DefaultCookieName {
			c.cookie = cookie
		}
	}
	if c.cookie == nil {
		t.Fatalf("expected session cookie")
	}
	doc := decodeSnapshot(t, rec)
	for _, hidden := range doc.Hidden {
		if hidden.Name == render.CSRFFieldName {
			c.csrf = hidden.Value
		}
	}
	if c.csrf == "" {
		t.Fatalf("expected csrf token in snapshot")
	}
	return c
}

func (c *testClient) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.server.ServeHTTP(rec, req)
	return rec
}

func (c *testClient) api(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(webform.CSRFHeader, c.csrf)
	return c.do(method, target, body, header)
}

func (c *testClient) post(target string, values url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(http.MethodPost, target, values.Encode(), header)
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) snapshotDoc {
	t.Helper()
	var doc snapshotDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, rec.Body.String())
	}
	return doc
}

func validValues(token string) url.Values {
	return url.Values{
		render.CSRFFieldName: {token},
		"anrede":             {"Herr"},
		"vorname":            {"Max"},
		"nachname":           {"Mustermann"},
		"geburtsdatum":       {"1990-01-31"},
		"adresse":            {"Hauptstraße 1"},
		"plz":                {"10115"},
		"ort":                {"Berlin"},
		"land":               {"DE"},
	}
}

func TestServer_Health(t *testing.T) {
	rec := (&testClient{t: t, server: newServer(t)}).do(http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_PageRendersForm(t *testing.T) {
	c := &testClient{t: t, server: newServer(t)}
	rec := c.do(http.MethodGet, "/", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, fragment := range []string{`name="_csrf"`, `<option value="DE">Deutschland</option>`, `data-field="land"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in page", fragment)
		}
	}
	if strings.Contains(body, `class="pf-error"`) {
		t.Fatalf("fresh page must not show errors")
	}
}

func TestServer_PageNegotiatesJSON(t *testing.T) {
	c := &testClient{t: t, server: newServer(t)}
	rec := c.do(http.MethodGet, "/", "", http.Header{"Accept": {"application/json"}})
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if doc := decodeSnapshot(t, rec); doc.State != "ready" {
		t.Fatalf("unexpected state %q", doc.State)
	}
}

func TestServer_PageSubmitRequiresToken(t *testing.T) {
	c := newClient(t, newServer(t))
	values := validValues("wrong")
	if rec := c.post("/", values); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestServer_PageSubmitInvalid(t *testing.T) {
	c := newClient(t, newServer(t))
	values := validValues(c.csrf)
	values.Set("plz", "1011")
	values.Set("geburtsdatum", "2024-06-15")
	values.Del("ort")

	rec := c.post("/", values)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, message := range []string{
		personform.MessagePostalCode,
		personform.MessageFutureDate,
		personform.MessageRequired,
	} {
		if !strings.Contains(body, message) {
			t.Fatalf("expected %q in page", message)
		}
	}
	if !strings.Contains(body, `value="1011"`) {
		t.Fatalf("expected submitted value to be kept")
	}
}

func TestServer_PageSubmitValidThenReset(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.post("/", validValues(c.csrf))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Daten erfolgreich übermittelt") || !strings.Contains(body, "<dd>Deutschland</dd>") {
		t.Fatalf("expected record page:\n%s", body)
	}

	again := c.do(http.MethodGet, "/", "", nil).Body.String()
	if strings.Contains(again, "Daten erfolgreich übermittelt") {
		t.Fatalf("success signal must be shown once")
	}
	if !strings.Contains(again, "<dd>Mustermann</dd>") {
		t.Fatalf("record must stay visible until reset")
	}

	reset := c.post("/reset", url.Values{render.CSRFFieldName: {c.csrf}})
	if reset.Code != http.StatusSeeOther || reset.Header().Get("Location") != "/" {
		t.Fatalf("unexpected reset response %d %q", reset.Code, reset.Header().Get("Location"))
	}

	doc := decodeSnapshot(t, c.do(http.MethodGet, "/api/form", "", nil))
	if doc.State != "ready" || doc.Record != nil || doc.Submitted {
		t.Fatalf("expected fresh form after reset: %+v", doc.Snapshot)
	}
}

func TestServer_APIFieldVisibility(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.api(http.MethodPut, "/api/form/fields/plz", `{"value":"abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if view := decodeSnapshot(t, rec).field(t, personform.FieldPostalCode); view.Invalid {
		t.Fatalf("untouched field must not be invalid")
	}

	rec = c.api(http.MethodPut, "/api/form/fields/plz", `{"touched":true}`)
	view := decodeSnapshot(t, rec).field(t, personform.FieldPostalCode)
	want := personform.FieldView{
		Name:    personform.FieldPostalCode,
		Label:   "PLZ",
		Value:   "abc",
		Touched: true,
		Invalid: true,
		Error:   personform.MessagePostalCode,
		Tooltip: "Postleitzahl (genau 5 Ziffern)",
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("field view mismatch (-want +got):\n%s", diff)
	}

	rec = c.api(http.MethodPut, "/api/form/fields/plz", `{"value":"12345","touched":true}`)
	view = decodeSnapshot(t, rec).field(t, personform.FieldPostalCode)
	if view.Invalid || !view.Valid || view.Error != "" {
		t.Fatalf("expected valid field, got %+v", view)
	}
}

func TestServer_APIRejectsBadRequests(t *testing.T) {
	c := newClient(t, newServer(t))

	cases := []struct {
		name   string
		method string
		target string
		body   string
		token  string
		want   int
	}{
		{"unknown field", http.MethodPut, "/api/form/fields/email", `{"value":"x"}`, c.csrf, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/api/form/fields/ort", `{"value":`, c.csrf, http.StatusBadRequest},
		{"unknown key", http.MethodPut, "/api/form/fields/ort", `{"wert":"x"}`, c.csrf, http.StatusBadRequest},
		{"empty payload", http.MethodPut, "/api/form/fields/ort", `{}`, c.csrf, http.StatusBadRequest},
		{"tooltip without flag", http.MethodPut, "/api/form/tooltips/ort", `{}`, c.csrf, http.StatusBadRequest},
		{"missing token", http.MethodPost, "/api/form/submit", "", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			header.Set(webform.CSRFHeader, tc.token)
			rec := c.do(tc.method, tc.target, tc.body, header)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestServer_APITooltip(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.api(http.MethodPut, "/api/form/tooltips/geburtsdatum", `{"visible":true}`)
	view := decodeSnapshot(t, rec).field(t, personform.FieldBirthDate)
	if !view.TooltipVisible || view.Tooltip != "Wählen Sie Ihr Geburtsdatum aus dem Kalender" {
		t.Fatalf("unexpected tooltip state %+v", view)
	}

	rec = c.api(http.MethodPut, "/api/form/tooltips/geburtsdatum", `{"visible":false}`)
	if decodeSnapshot(t, rec).field(t, personform.FieldBirthDate).TooltipVisible {
		t.Fatalf("expected tooltip hidden")
	}
}

func TestServer_APISubmitAndReset(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.api(http.MethodPost, "/api/form/submit", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	doc := decodeSnapshot(t, rec)
	if !doc.Submitted || doc.State != "ready" {
		t.Fatalf("unexpected state after failed submit %+v", doc.Snapshot)
	}
	for _, view := range doc.Fields {
		if !view.Touched || !view.Invalid || view.Error != personform.MessageRequired {
			t.Fatalf("expected %s touched with required error, got %+v", view.Name, view)
		}
	}

	for field, value := range map[string]string{
		"anrede": "Divers", "vorname": "Kim", "nachname": "Lee", "geburtsdatum": "2000-02-29",
		"adresse": "Ring 2", "plz": "80331", "ort": "München", "land": "AT",
	} {
		body, _ := json.Marshal(map[string]string{"value": value})
		if rec := c.api(http.MethodPut, "/api/form/fields/"+field, string(body)); rec.Code != http.StatusOK {
			t.Fatalf("set %s: %d", field, rec.Code)
		}
	}

	rec = c.api(http.MethodPost, "/api/form/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc = decodeSnapshot(t, rec)
	if doc.State != "submitted" || !doc.Success || doc.CountryName != "Österreich" {
		t.Fatalf("unexpected submitted snapshot %+v", doc.Snapshot)
	}
	if doc.Record["geburtsdatum"] != "2000-02-29" || doc.Record["land"] != "AT" {
		t.Fatalf("unexpected record %v", doc.Record)
	}

	doc = decodeSnapshot(t, c.api(http.MethodPost, "/api/form/reset", ""))
	if doc.State != "ready" || doc.Submitted || doc.Record != nil || len(doc.Countries) == 0 {
		t.Fatalf("unexpected snapshot after reset %+v", doc.Snapshot)
	}
	for _, view := range doc.Fields {
		if view.Value != "" || view.Touched || view.Invalid {
			t.Fatalf("expected cleared field, got %+v", view)
		}
	}
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	server := newServer(t)
	first := newClient(t, server)
	second := newClient(t, server)

	first.api(http.MethodPut, "/api/form/fields/ort", `{"value":"Hamburg"}`)

	doc := decodeSnapshot(t, second.do(http.MethodGet, "/api/form", "", nil))
	if view := doc.field(t, personform.FieldCity); view.Value != "" {
		t.Fatalf("session leaked value %q", view.Value)
	}
	if rec := second.do(http.MethodPost, "/api/form/submit", "", http.Header{webform.CSRFHeader: {first.csrf}}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected foreign token to be rejected, got %d", rec.Code)
	}
}

func TestServer_SessionExpires(t *testing.T) {
	var mu sync.Mutex
	now := fixedNow
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	server := newServer(t, webform.WithNow(clock), webform.WithSessionTTL(time.Minute))
	c := newClient(t, server)
	c.api(http.MethodPut, "/api/form/fields/ort", `{"value":"Bremen"}`)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	rec := c.do(http.MethodGet, "/api/form", "", nil)
	if len(rec.Result().Cookies()) == 0 {
		t.Fatalf("expected a new session cookie")
	}
	if view := decodeSnapshot(t, rec).field(t, personform.FieldCity); view.Value != "" {
		t.Fatalf("expired session must not be reused")
	}
}

func TestServer_ConcurrentUpdates(t *testing.T) {
	c := newClient(t, newServer(t))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.api(http.MethodPut, "/api/form/fields/ort", `{"value":"Kiel","touched":true}`)
		}()
	}
	wg.Wait()

	doc := decodeSnapshot(t, c.do(http.MethodGet, "/api/form", "", nil))
	if view := doc.field(t, personform.FieldCity); view.Value != "Kiel" || !view.Valid {
		t.Fatalf("unexpected field after concurrent updates %+v", view)
	}
}

func TestServer_CountriesAndAssets(t *testing.T) {
	c := &testClient{t: t, server: newServer(t, webform.WithAssets(vanilla.AssetsFS()))}

	rec := c.do(http.MethodGet, "/api/countries?q="+url.QueryEscape("deutsch"), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected countries status %d", rec.Code)
	}
	var payload struct {
		Data []countries.Option `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode countries: %v", err)
	}
	if diff := cmp.Diff([]countries.Option{{Value: "DE", Label: "Deutschland"}}, payload.Data); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}

	asset := c.do(http.MethodGet, "/assets/"+vanilla.ScriptName, "", nil)
	if asset.Code != http.StatusOK || !strings.Contains(asset.Body.String(), "focusout") {
		t.Fatalf("unexpected asset response %d", asset.Code)
	}
}

func TestServer_LoadErrorNotice(t *testing.T) {
	lookup := countries.New(countries.WithSource(countries.SourceFromFile("testdata/missing.csv")))
	srv, err := webform.New(
		webform.WithLookup(lookup),
		webform.WithOrchestrator(orchestrator.New(orchestrator.WithFetcher(lookup))),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	c := &testClient{t: t, server: srv}

	body := c.do(http.MethodGet, "/", "", nil).Body.String()
	if !strings.Contains(body, "Die Länderliste konnte nicht geladen werden.") {
		t.Fatalf("expected load error notice")
	}

	rec := c.do(http.MethodGet, "/api/countries", "", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 from countries endpoint, got %d", rec.Code)
	}
}

func TestServer_RegistersJSONRendererWhenMissing(t *testing.T) {
	html, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla renderer: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)

	lookup := countries.New(countries.WithSource(countries.EmbeddedSource()))
	orch := orchestrator.New(
		orchestrator.WithFetcher(lookup),
		orchestrator.WithRegistry(registry),
	)
	srv, err := webform.New(webform.WithLookup(lookup), webform.WithOrchestrator(orch))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}

	c := newClient(t, srv)
	rec := c.api(http.MethodPut, "/api/form/fields/ort", `{"value":"Bremen"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	page := (&testClient{t: t, server: srv}).do(http.MethodGet, "/", "", nil)
	if ct := page.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("html must stay the fallback renderer, got %q", ct)
	}
}
