package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/preston-bernstein/roster-stats-service/internal/logging"
	"github.com/preston-bernstein/roster-stats-service/internal/metrics"
	"github.com/preston-bernstein/roster-stats-service/internal/providers"
)

const (
	defaultBaseURL    = "http://127.0.0.1:8017/api/biolab"
	defaultTemplate   = "/hitters/{id}/summary"
	defaultSearchPath = "/hitters/search"
	maxDocumentBytes  = 8 << 20
	noMatchReason     = "no hitter summary route matched"
)

// Fetcher issues GETs through the resilient client.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error)
}

// Config locates the summary API.
type Config struct {
	BaseURL         string
	SummaryTemplate string
	SearchPath      string
}

// Result is a validated summary document.
type Result struct {
	Document []byte
	URL      string
	Strategy StrategyKind
	Attempts []Attempt
}

// NoMatchError is returned when every candidate failed.
type NoMatchError struct {
	Name     string
	Reason   string
	Attempts []Attempt
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s for %q after %d attempts", e.Reason, e.Name, len(e.Attempts))
}

// Resolver finds the summary endpoint that serves a player's document.
type Resolver struct {
	baseURL    string
	template   string
	searchPath string
	fetcher    Fetcher
	plan       []strategy
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewResolver builds a resolver. Empty config fields use defaults.
func NewResolver(cfg Config, fetcher Fetcher, logger *slog.Logger, recorder *metrics.Recorder) *Resolver {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	template := cfg.SummaryTemplate
	if template == "" {
		template = defaultTemplate
	}
	searchPath := cfg.SearchPath
	if searchPath == "" {
		searchPath = defaultSearchPath
	}
	return &Resolver{
		baseURL:    base,
		template:   template,
		searchPath: searchPath,
		fetcher:    fetcher,
		plan:       planStrategies(template),
		logger:     logger,
		metrics:    recorder,
	}
}

// Strategies lists the candidate strategies in the order they are tried.
func (r *Resolver) Strategies() []StrategyKind {
	out := make([]StrategyKind, len(r.plan))
	for i, s := range r.plan {
		out[i] = s.kind
	}
	return out
}

// Resolve tries each strategy in order and returns the first summary document
// that is JSON and not spray-shaped. query is forwarded to every candidate.
func (r *Resolver) Resolve(ctx context.Context, name string, query url.Values) (Result, error) {
	name = strings.TrimSpace(name)
	log := &AttemptLog{}
	req := request{name: name, query: query}
	logger := logging.FromContext(ctx, r.logger)

	for _, s := range r.plan {
		before := log.Len()
		res, err := s.run(ctx, r, req, log)
		if err != nil {
			return Result{}, err
		}
		ok := res != nil
		r.metrics.RecordDiscoveryAttempt(string(s.kind), ok)
		if ok {
			res.Attempts = log.Entries()
			logging.Info(logger, "summary endpoint resolved",
				"strategy", string(s.kind),
				logging.FieldURL, res.URL,
				"failed_attempts", len(res.Attempts),
			)
			return *res, nil
		}
		logging.Warn(logger, "summary strategy exhausted",
			"strategy", string(s.kind),
			"attempts", log.Len()-before,
		)
	}

	return Result{}, &NoMatchError{Name: name, Reason: noMatchReason, Attempts: log.Entries()}
}

// tryDocument fetches a candidate and validates its shape. A nil result with
// a nil error means the candidate failed and was logged.
func (r *Resolver) tryDocument(ctx context.Context, rawURL string, kind StrategyKind, log *AttemptLog) (*Result, error) {
	doc, status, err := r.fetchJSON(ctx, rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.add(Attempt{URL: rawURL, Status: status, Note: err.Error()})
		return nil, nil
	}
	if LooksLikeSpray(doc) {
		log.add(Attempt{URL: rawURL, Status: status, Note: "spray-shaped payload"})
		return nil, nil
	}
	return &Result{Document: doc, URL: rawURL, Strategy: kind}, nil
}

// fetchJSON returns the body of a 2xx JSON response. Non-JSON content types
// and unparseable bodies are reported as ShapeMismatchError.
func (r *Resolver) fetchJSON(ctx context.Context, rawURL string) ([]byte, int, error) {
	resp, err := r.fetcher.Get(ctx, rawURL, http.Header{"Accept": {"application/json"}})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, providers.StatusOf(err), err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, resp.StatusCode, &providers.UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return nil, resp.StatusCode, &providers.ShapeMismatchError{URL: rawURL, StatusCode: resp.StatusCode, Reason: "non-json content type"}
	}
	if !gjson.ValidBytes(body) {
		return nil, resp.StatusCode, &providers.ShapeMismatchError{URL: rawURL, StatusCode: resp.StatusCode, Reason: "invalid json body"}
	}
	return body, resp.StatusCode, nil
}

func isJSONContentType(value string) bool {
	if value == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.Contains(strings.ToLower(value), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
