package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// WikipediaOptions configures the Wikipedia summary client
type WikipediaOptions struct {
	Language  string
	BaseURL   string // overrides https://<lang>.wikipedia.org
	Sentences int
	UserAgent string
	Timeout   time.Duration
	Transport http.RoundTripper
	Limiter   Waiter
}

// Wikipedia fetches article intros through the MediaWiki action API.
// Queries are matched as exact titles; server-side redirects are followed.
type Wikipedia struct {
	endpoint   string
	sentences  int
	userAgent  string
	httpClient *http.Client
	limiter    Waiter
}

type wikiResponse struct {
	Query struct {
		Pages []wikiPage `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

type wikiPage struct {
	Title     string                     `json:"title"`
	Extract   string                     `json:"extract"`
	FullURL   string                     `json:"fullurl"`
	Missing   bool                       `json:"missing"`
	Invalid   bool                       `json:"invalid"`
	PageProps map[string]json.RawMessage `json:"pageprops"`
}

// NewWikipedia creates a new Wikipedia source
func NewWikipedia(opts WikipediaOptions) *Wikipedia {
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	base := opts.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org", lang)
	}
	sentences := opts.Sentences
	if sentences <= 0 {
		sentences = 2
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Wikipedia{
		endpoint:  strings.TrimSuffix(base, "/") + "/w/api.php",
		sentences: sentences,
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		limiter: opts.Limiter,
	}
}

// Endpoint returns the action API URL
func (w *Wikipedia) Endpoint() string {
	return w.endpoint
}

// Name returns the source name
func (w *Wikipedia) Name() string {
	return "wikipedia"
}

// Lookup returns the first sentences of the article titled query
func (w *Wikipedia) Lookup(ctx context.Context, query string) (*model.Fact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &LookupError{Source: w.Name(), Query: query, Err: ErrNotFound}
	}

	page, err := w.fetchPage(ctx, query)
	if err != nil {
		return nil, &LookupError{Source: w.Name(), Query: query, Err: err}
	}

	switch {
	case page.Missing || page.Invalid:
		return nil, &LookupError{Source: w.Name(), Query: query, Err: ErrNotFound}
	case isDisambiguation(page):
		return nil, &LookupError{Source: w.Name(), Query: query, Err: ErrDisambiguation}
	}

	extract := strings.Join(strings.Fields(page.Extract), " ")
	if extract == "" {
		return nil, &LookupError{Source: w.Name(), Query: query, Err: ErrNotFound}
	}

	return &model.Fact{
		Text:   extract,
		Title:  page.Title,
		URL:    page.FullURL,
		Query:  query,
		Source: w.Name(),
	}, nil
}

func (w *Wikipedia) fetchPage(ctx context.Context, title string) (*wikiPage, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops|info")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exsentences", strconv.Itoa(w.sentences))
	params.Set("redirects", "1")
	params.Set("inprop", "url")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("titles", title)

	reqURL := w.endpoint + "?" + params.Encode()

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var parsed wikiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error %s: %s", parsed.Error.Code, parsed.Error.Info)
	}
	if len(parsed.Query.Pages) == 0 {
		return &wikiPage{Missing: true}, nil
	}

	return &parsed.Query.Pages[0], nil
}

func isDisambiguation(page *wikiPage) bool {
	if _, ok := page.PageProps["disambiguation"]; ok {
		return true
	}
	// Some wikis omit the page prop; the intro still gives it away
	return strings.Contains(page.Extract, "may refer to:")
}
