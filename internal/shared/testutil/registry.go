package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"fedlease/internal/config"
)

// PublicationEntry is one entry served by the fake publication listing
type PublicationEntry struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
}

// RecordedRequest is a request seen by the fake registry
type RecordedRequest struct {
	Path    string
	Query   url.Values
	Referer string
}

// FakeRegistry is an in-memory fedresurs.ru backend. Publications are keyed by
// company token and by the startDate query value.
type FakeRegistry struct {
	mu           sync.Mutex
	companies    map[string]string
	publications map[string]map[string][]PublicationEntry
	messages     map[string]string
	requests     []RecordedRequest
	failStatus   int

	server *httptest.Server
}

// NewFakeRegistry starts a fake registry closed at test cleanup
func NewFakeRegistry(t *testing.T) *FakeRegistry {
	t.Helper()

	f := &FakeRegistry{
		companies:    make(map[string]string),
		publications: make(map[string]map[string][]PublicationEntry),
		messages:     make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Get("/backend/companies", f.searchCompanies)
	r.Get("/backend/companies/{guid}/publications", f.listPublications)
	r.Get("/backend/sfactmessages/{guid}", f.getMessage)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL of the fake registry
func (f *FakeRegistry) URL() string {
	return f.server.URL
}

// Close stops the server; later calls fail to connect
func (f *FakeRegistry) Close() {
	f.server.Close()
}

// AddCompany registers an active company
func (f *FakeRegistry) AddCompany(inn, guid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companies[inn] = guid
}

// AddPublications appends entries to the listing of company on day
// (YYYY-MM-DD)
func (f *FakeRegistry) AddPublications(company, day string, entries ...PublicationEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDay, ok := f.publications[company]
	if !ok {
		byDay = make(map[string][]PublicationEntry)
		f.publications[company] = byDay
	}
	byDay[day] = append(byDay[day], entries...)
}

// FillPublications appends n entries with the given title and generated GUIDs
func (f *FakeRegistry) FillPublications(company, day string, n int, title string) {
	entries := make([]PublicationEntry, n)
	for i := range entries {
		entries[i] = PublicationEntry{GUID: fmt.Sprintf("%s-%s-%03d", company, day, i), Title: title}
	}
	f.AddPublications(company, day, entries...)
}

// AddMessage registers a raw message detail body
func (f *FakeRegistry) AddMessage(guid, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[guid] = body
}

// FailWith makes every following request answer with status
func (f *FakeRegistry) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

// Requests returns the recorded requests whose path has the given prefix
func (f *FakeRegistry) Requests(prefix string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []RecordedRequest
	for _, r := range f.requests {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// PublicationRequests returns the recorded listing requests
func (f *FakeRegistry) PublicationRequests() []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests("/backend/companies/") {
		if strings.HasSuffix(r.Path, "/publications") {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeRegistry) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Path:    r.URL.Path,
			Query:   r.URL.Query(),
			Referer: r.Header.Get("Referer"),
		})
		status := f.failStatus
		f.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeRegistry) searchCompanies(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	guid, ok := f.companies[r.URL.Query().Get("code")]
	f.mu.Unlock()

	type hit struct {
		GUID string `json:"guid"`
	}
	page := struct {
		PageData []hit `json:"pageData"`
		Found    int   `json:"found"`
	}{PageData: []hit{}}
	if ok {
		page.PageData = append(page.PageData, hit{GUID: guid})
		page.Found = 1
	}
	writeJSON(w, page)
}

func (f *FakeRegistry) listPublications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	day, _, _ := strings.Cut(q.Get("startDate"), "T")

	f.mu.Lock()
	all := f.publications[chi.URLParam(r, "guid")][day]
	f.mu.Unlock()

	page := []PublicationEntry{}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page = all[offset:end]
	}
	writeJSON(w, map[string]any{"pageData": page, "found": len(all)})
}

func (f *FakeRegistry) getMessage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body, ok := f.messages[chi.URLParam(r, "guid")]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// LeaseNotice is a listing entry with the lease-notice title
func LeaseNotice(guid string) PublicationEntry {
	return PublicationEntry{GUID: guid, Title: config.LeaseNoticeTitle}
}
