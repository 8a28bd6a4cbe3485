package api

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/TWRT/company-portal/internal/config"
	"github.com/TWRT/company-portal/internal/repository"
	"github.com/TWRT/company-portal/internal/session"
)

var testPDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")

// fakeBackend stands in for the portal API. It records every call as
// "METHOD /path" and keeps the last body sent to each.
type fakeBackend struct {
	srv *httptest.Server

	mu          sync.Mutex
	calls       []string
	bodies      map[string][]byte
	fail        map[string]int
	pdfFilename string
	emailStatus string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		bodies:      map[string][]byte{},
		fail:        map[string]int{},
		emailStatus: "preview",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/hello", b.json(`{"message":"Hello from FastAPI"}`))
	mux.HandleFunc("GET /api/home/overview", b.json(`{
		"my_clients":[{"id":1,"name":"Acme Corp","owner":"demo","created_at":"2025-01-02 10:00:00"}],
		"awaiting_clients":[{"id":1,"name":"Acme Corp","owner":"demo","created_at":"2025-01-02 10:00:00"}],
		"stats":{"my_clients_count":1,"awaiting_tasks_count":2}}`))
	mux.HandleFunc("GET /api/home/my-assignees", b.json(`[
		{"id":3,"name":"Jane Roe","email":null,"created_at":"2025-01-02 10:00:00","client":{"name":"Acme Corp","owner":"demo"}}]`))
	mux.HandleFunc("GET /api/clients/search", b.json(`[
		{"id":1,"name":"Acme Corp","owner":"demo","created_at":"2025-01-02 10:00:00"},
		{"id":2,"name":"Globex","owner":"","created_at":"2025-01-03 10:00:00"}]`))
	mux.HandleFunc("POST /api/clients/{id}/assign", b.json(`{"status":"ok"}`))
	mux.HandleFunc("GET /api/ideas", b.json(`[
		{"id":1,"title":"Automate intake","description":"urgent **risk**","score":10,"created_at":"2025-01-02T10:00:00"},
		{"id":2,"title":"Tidy docs","description":"","score":2,"created_at":"2025-01-03T10:00:00"}]`))
	mux.HandleFunc("POST /api/ideas", b.json(`{"id":5,"title":"New","description":"","score":0,"created_at":"2025-01-04T10:00:00"}`))
	mux.HandleFunc("DELETE /api/ideas/{id}", b.json(`{"status":"deleted"}`))
	mux.HandleFunc("POST /api/tools/cover-letter", b.json(`{"content":"Dear Hiring Manager"}`))
	mux.HandleFunc("POST /api/tools/pdf-fill", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		filename := b.pdfFilename
		b.mu.Unlock()
		body := `{"content_b64":"` + base64.StdEncoding.EncodeToString(testPDF) + `","filename":"` + filename + `"}`
		b.json(body)(w, r)
	})
	mux.HandleFunc("POST /api/tools/send-email", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		status := b.emailStatus
		b.mu.Unlock()
		body := `{"status":"` + status + `"}`
		b.json(body)(w, r)
	})
	mux.HandleFunc("GET /api/assignees/{id}", b.json(`{"id":3,"name":"Jane Roe","email":"jane@example.com","created_at":"2025-01-02 10:00:00","client":{"name":"Acme Corp","owner":"demo"}}`))
	mux.HandleFunc("GET /api/assignees/{id}/overview", b.json(`{
		"income_total":1500,"deductions_total":500,"taxable_income":1000,"estimated_tax":250,
		"inputs":{"income":{"salary":1000,"bonus":500},"deductions":{"retirement":500}}}`))
	mux.HandleFunc("GET /api/assignees/{id}/calc/{kind}", b.json(`{"data":{"salary":1000,"bonus":"n/a"}}`))
	mux.HandleFunc("PUT /api/assignees/{id}/calc/{kind}", b.json(`{"status":"ok"}`))

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.calls = append(b.calls, key)
		b.bodies[key] = body
		status, failing := b.fail[key]
		b.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"detail":"Backend exploded"}`))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) json(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func (b *fakeBackend) failWith(key string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[key] = status
}

func (b *fakeBackend) callsTo(prefix string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) body(key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

// portal drives the router in-process and carries the session cookie
// between requests like a browser would.
type portal struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newPortal(t *testing.T) (*portal, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(t)
	return newPortalFor(t, backend.srv.URL), backend
}

func newPortalFor(t *testing.T, target string) *portal {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ProxyTarget = target
	cfg.DBPath = filepath.Join(t.TempDir(), "portal.db")
	cfg.BackendTimeout = 2 * time.Second

	db, err := repository.InitDB(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler, err := SetupRouter(db, cfg, zap.NewNop())
	require.NoError(t, err)
	return &portal{t: t, handler: handler}
}

func (p *portal) do(req *http.Request) *httptest.ResponseRecorder {
	p.t.Helper()
	if p.cookie != nil {
		req.AddCookie(p.cookie)
	}
	rec := httptest.NewRecorder()
	p.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			p.cookie = c
		}
	}
	return rec
}

func (p *portal) get(path string) *httptest.ResponseRecorder {
	return p.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (p *portal) post(path string, form url.Values, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return p.do(req)
}

// follow loads the page a 303 points at.
func (p *portal) follow(rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	p.t.Helper()
	require.Equal(p.t, http.StatusSeeOther, rec.Code)
	return p.get(rec.Header().Get("Location"))
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// find returns every element below n for which match is true.
func find(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byID(n *html.Node, id string) *html.Node {
	found := find(n, func(n *html.Node) bool {
		v, _ := attr(n, "id")
		return v == id
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func byAttr(n *html.Node, key, val string) []*html.Node {
	return find(n, func(n *html.Node) bool {
		v, ok := attr(n, key)
		return ok && v == val
	})
}

func byTag(n *html.Node, tag string) []*html.Node {
	return find(n, func(n *html.Node) bool { return n.Data == tag })
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func flashes(doc *html.Node) []string {
	var out []string
	for _, n := range byAttr(doc, "role", "status") {
		out = append(out, text(n))
	}
	return out
}
