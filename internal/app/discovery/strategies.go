package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/preston-bernstein/roster-stats-service/internal/domain/players"
)

const (
	namePlaceholder = "{name}"
	idPlaceholder   = "{id}"
	noIDNote        = "no id in search results"
)

// StrategyKind names one way of reaching a summary endpoint.
type StrategyKind string

const (
	StrategyNameTemplated  StrategyKind = "name-templated"
	StrategyIDViaSearch    StrategyKind = "id-via-search"
	StrategyDualQueryParam StrategyKind = "dual-query-param"
)

var (
	searchNameFields = []string{"full_name", "fullName", "name"}
	searchIDFields   = []string{"mlbam", "mlbam_id", "mlb_id", "id", "player_id", "playerid", "playerId", "playerID"}
	dualParamNames   = []string{"name", "player"}
)

// strategy tries one candidate family and reports the first valid document.
type strategy struct {
	kind StrategyKind
	run  func(ctx context.Context, r *Resolver, req request, log *AttemptLog) (*Result, error)
}

type request struct {
	name  string
	query url.Values
}

// planStrategies derives the ordered candidate list from the summary template.
func planStrategies(template string) []strategy {
	hasName := strings.Contains(template, namePlaceholder)
	hasID := strings.Contains(template, idPlaceholder)

	var plan []strategy
	if hasName {
		plan = append(plan, strategy{kind: StrategyNameTemplated, run: runNameTemplated})
	}
	if hasID {
		plan = append(plan, strategy{kind: StrategyIDViaSearch, run: runIDViaSearch})
	}
	if !hasName && !hasID {
		plan = append(plan, strategy{kind: StrategyDualQueryParam, run: runDualQueryParam})
	}
	return plan
}

func runNameTemplated(ctx context.Context, r *Resolver, req request, log *AttemptLog) (*Result, error) {
	path := strings.ReplaceAll(r.template, namePlaceholder, url.PathEscape(req.name))
	return r.tryDocument(ctx, withQuery(r.baseURL+path, req.query), StrategyNameTemplated, log)
}

func runIDViaSearch(ctx context.Context, r *Resolver, req request, log *AttemptLog) (*Result, error) {
	searchURL := r.baseURL + r.searchPath + "?" + url.Values{"q": {req.name}}.Encode()
	doc, status, err := r.fetchJSON(ctx, searchURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.add(Attempt{URL: searchURL, Status: status, Note: err.Error()})
		return nil, nil
	}

	id := searchResultID(doc, req.name)
	if id == "" {
		log.add(Attempt{URL: searchURL, Status: status, Note: noIDNote})
		return nil, nil
	}
	path := strings.ReplaceAll(r.template, idPlaceholder, url.PathEscape(id))
	path = strings.ReplaceAll(path, namePlaceholder, url.PathEscape(req.name))
	return r.tryDocument(ctx, withQuery(r.baseURL+path, req.query), StrategyIDViaSearch, log)
}

func runDualQueryParam(ctx context.Context, r *Resolver, req request, log *AttemptLog) (*Result, error) {
	for _, param := range dualParamNames {
		q := cloneValues(req.query)
		q.Set(param, req.name)
		res, err := r.tryDocument(ctx, r.baseURL+r.template+"?"+q.Encode(), StrategyDualQueryParam, log)
		if err != nil || res != nil {
			return res, err
		}
	}
	return nil, nil
}

// searchResultID picks the entry whose normalized name equals name, else the
// first entry, and returns its id from the prioritized field list.
func searchResultID(doc []byte, name string) string {
	root := gjson.ParseBytes(doc)
	list := root
	if !list.IsArray() {
		list = root.Get("data")
	}
	if !list.IsArray() {
		return ""
	}
	entries := list.Array()
	if len(entries) == 0 {
		return ""
	}

	target := players.NormalizeName(name)
	match := entries[0]
	for _, entry := range entries {
		if players.NormalizeName(firstString(entry, searchNameFields)) == target {
			match = entry
			break
		}
	}
	return firstString(match, searchIDFields)
}

func firstString(entry gjson.Result, fields []string) string {
	for _, f := range fields {
		v := entry.Get(f)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

func withQuery(rawURL string, q url.Values) string {
	if len(q) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q.Encode()
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q)+1)
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
