// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

/*
client.go - e-Stat API client

Client wraps the e-Stat REST API v3.0 JSON endpoints:

  - getStatsList: SearchStats, Ping
  - getMetaInfo:  GetMeta
  - getStatsData: GetData, GetAllData
  - postDataset:  RegisterDataset

Every request passes through the client's own RateLimiter and is decoded by
the normalizer in normalize.go. Arguments are validated before any request
is sent. Settings are resolved once in NewClient and never change.

Related Files:
  - request.go: request building, HTTP round trip, status mapping
  - paginate.go: multi-page retrieval shared with the decorators
  - circuit_breaker.go, retry.go, cached.go: StatsClient decorators
*/

//nolint:staticcheck // File documentation, not package doc
package estat

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync/atomic"

	"github.com/tomtom215/estat-mcp/internal/config"
	"github.com/tomtom215/estat-mcp/internal/models"
	"github.com/tomtom215/estat-mcp/internal/validation"
	"github.com/tomtom215/estat-mcp/internal/version"
)

// AppIDEnvVar is read by NewClient when the configuration carries no
// application ID.
const AppIDEnvVar = "ESTAT_APP_ID"

// StatsClient is the surface shared by Client and its decorators.
type StatsClient interface {
	SearchStats(ctx context.Context, q models.SearchQuery) ([]models.StatsTable, error)
	GetMeta(ctx context.Context, statsID string) (*models.StatsMeta, error)
	GetData(ctx context.Context, q models.DataQuery) (*models.StatsData, error)
	// GetAllData fetches up to maxPages consecutive pages. maxPages == 0
	// selects the client's configured default.
	GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error)
	RegisterDataset(ctx context.Context, req models.DatasetRequest) (*models.DataSet, error)
	Ping(ctx context.Context) error
	Close() error
}

// Client talks to e-Stat. It is safe for concurrent use.
type Client struct {
	baseURL   string
	appID     string
	userAgent string
	maxPages  int

	http      *http.Client
	transport *http.Transport
	limiter   *RateLimiter

	closed atomic.Bool
}

var _ StatsClient = (*Client)(nil)

// NewClient builds a client from cfg. An empty AppID falls back to
// ESTAT_APP_ID; a client without either still constructs, and every call
// then fails with an AuthenticationError.
func NewClient(cfg *config.EstatConfig) *Client {
	appID := strings.TrimSpace(cfg.AppID)
	if appID == "" {
		appID = strings.TrimSpace(os.Getenv(AppIDEnvVar))
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = models.DefaultMaxPages
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		baseURL:   baseURL,
		appID:     appID,
		userAgent: userAgent,
		maxPages:  maxPages,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		transport: transport,
		limiter:   NewRateLimiter(cfg.RateLimit),
	}
}

// HasAppID reports whether an application ID was resolved.
func (c *Client) HasAppID() bool { return c.appID != "" }

// MaxPages returns the page cap GetAllData uses when given 0.
func (c *Client) MaxPages() int { return c.maxPages }

// Limiter exposes the client's rate limiter.
func (c *Client) Limiter() *RateLimiter { return c.limiter }

// SearchStats searches the table catalogue. It returns at most q.Limit
// tables; an empty slice means nothing matched.
func (c *Client) SearchStats(ctx context.Context, q models.SearchQuery) ([]models.StatsTable, error) {
	const op = "search_stats"
	if err := validate(op, q); err != nil {
		return nil, err
	}
	q = q.WithDefaults()

	req := newAPIRequest(op, endpointStatsList).
		addParam("searchWord", q.Keyword).
		addParam("surveyYears", q.SurveyYears).
		addParam("openYears", q.OpenYears).
		addParam("statsField", q.StatsField).
		addParam("statsCode", q.StatsCode).
		addIntParam("limit", q.Limit)
	req.target = q.Keyword
	req.emptyOK = true

	resp, err := executeAPIRequest(ctx, c, req, func(r *statsListResponse) *resultInf {
		return &r.GetStatsList.Result
	})
	if err != nil {
		return nil, err
	}

	tables := normalizeTables(resp.GetStatsList.DatalistInf.TableInf)
	if len(tables) > q.Limit {
		tables = tables[:q.Limit]
	}
	return tables, nil
}

// GetMeta returns the axes and codes of one table.
func (c *Client) GetMeta(ctx context.Context, statsID string) (*models.StatsMeta, error) {
	const op = "get_meta"
	statsID = strings.TrimSpace(statsID)
	if err := validateStatsID(op, statsID); err != nil {
		return nil, err
	}

	req := newAPIRequest(op, endpointMetaInfo).addParam("statsDataId", statsID)
	req.target = statsID

	resp, err := executeAPIRequest(ctx, c, req, func(r *metaInfoResponse) *resultInf {
		return &r.GetMetaInfo.Result
	})
	if err != nil {
		return nil, err
	}

	inf := &resp.GetMetaInfo.MetadataInf
	return normalizeMeta(statsID, &inf.TableInf, inf.ClassInf.ClassObj), nil
}

// GetData fetches exactly one page of cells.
func (c *Client) GetData(ctx context.Context, q models.DataQuery) (*models.StatsData, error) {
	const op = "get_data"
	if err := validate(op, q); err != nil {
		return nil, err
	}
	q = q.WithDefaults()

	req := newAPIRequest(op, endpointStatsData).
		addDataFilters(&q).
		addIntParam("startPosition", q.StartPosition).
		addIntParam("limit", q.Limit).
		addParam("metaGetFlg", "N").
		addParam("cntGetFlg", "N")
	req.target = q.Target()

	resp, err := executeAPIRequest(ctx, c, req, func(r *statsDataResponse) *resultInf {
		return &r.GetStatsData.Result
	})
	if err != nil {
		return nil, err
	}
	return normalizePage(q, resp), nil
}

// GetAllData fetches consecutive pages starting at q.StartPosition. See
// Paginate for the stopping rules.
func (c *Client) GetAllData(ctx context.Context, q models.DataQuery, maxPages int) (*models.StatsData, error) {
	if maxPages == 0 {
		maxPages = c.maxPages
	}
	return Paginate(ctx, c.GetData, q, maxPages)
}

// RegisterDataset stores a named filter over a table on the e-Stat side.
// The returned DataSet.ID can be used as DataQuery.DatasetID.
func (c *Client) RegisterDataset(ctx context.Context, ds models.DatasetRequest) (*models.DataSet, error) {
	const op = "register_dataset"
	if err := validate(op, ds); err != nil {
		return nil, err
	}
	filters := ds.Filters
	filters.StatsID = ds.StatsID
	filters.DatasetID = ""
	if err := validate(op, filters); err != nil {
		return nil, err
	}

	req := newAPIRequest(op, endpointPostDatset).
		addDataFilters(&filters).
		addParam("dataSetName", ds.Name).
		addParam("processMode", "E")
	req.method = http.MethodPost
	req.target = ds.StatsID

	resp, err := executeAPIRequest(ctx, c, req, func(r *postDatasetResponse) *resultInf {
		return &r.PostDataset.Result
	})
	if err != nil {
		return nil, err
	}

	id := resp.PostDataset.DatasetID.String()
	if id == "" {
		return nil, &ServiceError{Op: op, Message: "response carried no DATASET_ID"}
	}
	return &models.DataSet{ID: id, StatsID: ds.StatsID, Name: ds.Name}, nil
}

// Ping sends a one-result search to check connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	req := newAPIRequest("ping", endpointStatsList).
		addParam("searchWord", "人口").
		addIntParam("limit", 1)
	req.emptyOK = true

	_, err := executeAPIRequest(ctx, c, req, func(r *statsListResponse) *resultInf {
		return &r.GetStatsList.Result
	})
	return err
}

// Close releases pooled connections. Calls made afterwards fail with a
// NetworkError wrapping ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.transport.CloseIdleConnections()
	}
	return nil
}

// validate runs struct tags and converts the first failure.
func validate(op string, v any) error {
	err := validation.ValidateStruct(v)
	if err == nil {
		return nil
	}
	var reqErr *validation.RequestError
	if errors.As(err, &reqErr) && len(reqErr.Fields) > 0 {
		fe := reqErr.First()
		return &ValidationError{Op: op, Field: fe.Field, Value: fe.Value, Reason: fe.Message}
	}
	return &ValidationError{Op: op, Field: "request", Reason: err.Error()}
}

type statsIDArg struct {
	StatsID string `json:"stats_id" validate:"required,statsid"`
}

func validateStatsID(op, statsID string) error {
	return validate(op, statsIDArg{StatsID: statsID})
}
