package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoJSON struct {
	Name          string `json:"name"`
	CloneURL      string `json:"clone_url"`
	Fork          bool   `json:"fork"`
	DefaultBranch string `json:"default_branch,omitempty"`
}

// fakeAPI emulates GET /{users|orgs}/{entity}/repos with page/per_page paging.
type fakeAPI struct {
	users map[string][]repoJSON
	orgs  map[string][]repoJSON

	// raw overrides the body for a namespace/entity pair, e.g. "users/alice"
	raw map[string]string
	// status overrides the status code for a namespace/entity pair
	status map[string]int

	mu       sync.Mutex
	requests []string
	headers  []http.Header
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "repos" {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		return
	}

	key := parts[0] + "/" + parts[1]

	if code, ok := f.status[key]; ok {
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(code)})
		return
	}

	if body, ok := f.raw[key]; ok {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
		return
	}

	var (
		repos []repoJSON
		found bool
	)

	switch parts[0] {
	case "users":
		repos, found = f.users[parts[1]]
	case "orgs":
		repos, found = f.orgs[parts[1]]
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	start := min((page-1)*perPage, len(repos))
	end := min(start+perPage, len(repos))

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(repos[start:end])
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.requests)
}

func makeRepos(entity string, n int, forkEvery int) []repoJSON {
	repos := make([]repoJSON, 0, n)
	for i := range n {
		name := fmt.Sprintf("repo-%03d", i)
		repos = append(repos, repoJSON{
			Name:          name,
			CloneURL:      fmt.Sprintf("https://github.com/%s/%s.git", entity, name),
			Fork:          forkEvery > 0 && i%forkEvery == 0,
			DefaultBranch: "main",
		})
	}

	return repos
}

func newTestClient(t *testing.T, api *fakeAPI, opts Options) *Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	opts.BaseURL = server.URL
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := NewClient(opts)
	require.NoError(t, err)

	return client
}

func TestDiscover_User(t *testing.T) {
	api := &fakeAPI{users: map[string][]repoJSON{"octocat": makeRepos("octocat", 3, 0)}}
	client := newTestClient(t, api, Options{})

	repos, err := client.Discover(context.Background(), "octocat", false)
	require.NoError(t, err)
	require.Len(t, repos, 3)

	for _, r := range repos {
		assert.NotEmpty(t, r.Name)
		assert.Contains(t, r.CloneURL, "octocat")
		assert.Contains(t, r.CloneURL, r.Name)
		assert.True(t, strings.HasSuffix(r.CloneURL, ".git"))
		assert.Equal(t, "main", r.DefaultBranch)
	}

	assert.Equal(t, 1, api.requestCount())
	assert.Equal(t, "orgclone", api.headers[0].Get("User-Agent"))
	assert.Contains(t, api.requests[0], "/users/octocat/repos")
	assert.Contains(t, api.requests[0], "per_page=100")
	assert.Contains(t, api.requests[0], "page=1")
}

func TestDiscover_FallsBackToOrg(t *testing.T) {
	api := &fakeAPI{orgs: map[string][]repoJSON{"kubernetes": makeRepos("kubernetes", 5, 0)}}
	client := newTestClient(t, api, Options{})

	repos, err := client.Discover(context.Background(), "kubernetes", false)
	require.NoError(t, err)
	assert.Len(t, repos, 5)

	require.Equal(t, 2, api.requestCount())
	assert.Contains(t, api.requests[0], "/users/kubernetes/repos")
	assert.Contains(t, api.requests[1], "/orgs/kubernetes/repos")
}

func TestDiscover_FallsBackOnAnyUserFailure(t *testing.T) {
	api := &fakeAPI{
		orgs:   map[string][]repoJSON{"acme": makeRepos("acme", 2, 0)},
		status: map[string]int{"users/acme": http.StatusInternalServerError},
	}
	client := newTestClient(t, api, Options{})

	repos, err := client.Discover(context.Background(), "acme", false)
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}

func TestDiscover_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		requests int
	}{
		{"single short page", 42, 1},
		{"more than one page", 250, 3},
		{"exact multiple needs an empty page", 200, 3},
		{"empty account", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{users: map[string][]repoJSON{"big": makeRepos("big", tt.count, 0)}}
			client := newTestClient(t, api, Options{})

			repos, err := client.Discover(context.Background(), "big", false)
			require.NoError(t, err)
			require.Len(t, repos, tt.count)
			assert.Equal(t, tt.requests, api.requestCount())

			for i, r := range repos {
				assert.Equal(t, fmt.Sprintf("repo-%03d", i), r.Name, "discovery order must be preserved")
			}
		})
	}
}

func TestDiscover_PaginationExceedsOnePage(t *testing.T) {
	api := &fakeAPI{orgs: map[string][]repoJSON{"kubernetes": makeRepos("kubernetes", 130, 0)}}
	client := newTestClient(t, api, Options{})

	repos, err := client.Discover(context.Background(), "kubernetes", false)
	require.NoError(t, err)
	assert.Greater(t, len(repos), DefaultPerPage)
}

func TestDiscover_ForkFilter(t *testing.T) {
	api := &fakeAPI{users: map[string][]repoJSON{"daniel": makeRepos("daniel", 150, 3)}}
	client := newTestClient(t, api, Options{})

	all, err := client.Discover(context.Background(), "daniel", false)
	require.NoError(t, err)
	assert.Len(t, all, 150)

	forks := 0
	for _, r := range all {
		if r.IsFork {
			forks++
		}
	}
	require.Positive(t, forks)

	filtered, err := client.Discover(context.Background(), "daniel", true)
	require.NoError(t, err)
	assert.Len(t, filtered, 150-forks)

	for _, r := range filtered {
		assert.False(t, r.IsFork)
	}

	// Filtering must not change how many pages are requested.
	assert.Equal(t, 4, api.requestCount())
}

func TestDiscover_InvalidEntity(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api, Options{})

	_, err := client.Discover(context.Background(), "abnkklvmdlkdklvvfdslkjdsfjldfslkdsalksadmlk", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEntity)
	assert.Contains(t, err.Error(), "entity is not valid")

	var de *DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindInvalidEntity, de.Kind)
	assert.Equal(t, "orgs", de.Namespace)
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
	assert.Equal(t, 2, api.requestCount())
}

func TestDiscover_LastFailureDecidesKind(t *testing.T) {
	api := &fakeAPI{status: map[string]int{"orgs/ghost": http.StatusInternalServerError}}
	client := newTestClient(t, api, Options{})

	_, err := client.Discover(context.Background(), "ghost", false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidEntity)

	var de *DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindStatus, de.Kind)
	assert.Equal(t, http.StatusInternalServerError, de.StatusCode)
}

func TestDiscover_DecodeError(t *testing.T) {
	api := &fakeAPI{raw: map[string]string{"users/broken": `{"not": "a list"}`}}
	client := newTestClient(t, api, Options{Namespaces: []Namespace{Users}})

	_, err := client.Discover(context.Background(), "broken", false)
	require.Error(t, err)

	var de *DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindDecode, de.Kind)
}

func TestDiscover_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Options{
		BaseURL:    baseURL,
		Namespaces: []Namespace{Users},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = client.Discover(context.Background(), "octocat", false)
	require.Error(t, err)

	var de *DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindNetwork, de.Kind)
}

func TestDiscover_Cancelled(t *testing.T) {
	api := &fakeAPI{users: map[string][]repoJSON{"octocat": makeRepos("octocat", 3, 0)}}
	client := newTestClient(t, api, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Discover(ctx, "octocat", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, api.requestCount())
}

func TestDiscover_DropsUnusableEntries(t *testing.T) {
	repos := makeRepos("octocat", 2, 0)
	repos = append(repos,
		repoJSON{Name: "", CloneURL: "https://github.com/octocat/x.git"},
		repoJSON{Name: "svn-only", CloneURL: "https://github.com/octocat/svn-only"},
	)

	api := &fakeAPI{users: map[string][]repoJSON{"octocat": repos}}
	client := newTestClient(t, api, Options{})

	got, err := client.Discover(context.Background(), "octocat", false)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDiscover_SendsToken(t *testing.T) {
	api := &fakeAPI{users: map[string][]repoJSON{"octocat": makeRepos("octocat", 1, 0)}}
	client := newTestClient(t, api, Options{Token: "s3cret"})

	_, err := client.Discover(context.Background(), "octocat", false)
	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", api.headers[0].Get("Authorization"))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "://bad"})
	assert.Error(t, err)
}

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown error"},
		{KindInvalidEntity, "invalid entity"},
		{KindNetwork, "network error"},
		{KindDecode, "decode error"},
		{KindStatus, "unexpected status"},
		{ErrorKind(42), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}
