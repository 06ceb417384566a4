package nyt

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"xwscraper/pkg/errors"
	"xwscraper/pkg/logger"
)

// Options configures a Client
type Options struct {
	// BaseURL defaults to DefaultBaseURL
	BaseURL string
	// Token is sent as the NYT-S session cookie
	Token     string
	UserAgent string
	// Timeout bounds each request; zero means no timeout
	Timeout time.Duration
	// HTTPClient carries the transport, e.g. one wrapped by hostlimit
	HTTPClient *http.Client
	// BlankFill overrides the values emitted for blank board cells
	BlankFill *BlankFill
	Logger    logger.Logger
}

// Client talks to the crossword service on behalf of one subscriber.
// It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	fill   *BlankFill
	logger logger.Logger
}

// NewClient creates a new crossword service client
func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Token != "" {
		client.SetCookie(&http.Cookie{Name: CookieName, Value: opts.Token})
	}

	c := &Client{
		http:   client,
		fill:   opts.BlankFill,
		logger: log,
	}
	client.OnAfterResponse(c.onAfterResponse)
	client.OnError(c.onError)
	return c
}

func (c *Client) onAfterResponse(_ *resty.Client, resp *resty.Response) error {
	logger.LogRequest(c.logger, resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
	return nil
}

func (c *Client) onError(req *resty.Request, err error) {
	c.logger.WithError(err).DebugWithFields("HTTP request failed", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL,
	})
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// get performs a GET request and decodes the JSON body into target.
// A nil target only checks the status.
func (c *Client) get(ctx context.Context, path string, query map[string]string, target any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeNetwork, err, "GET %s", path)
	}
	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}
	if target == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		bodyPreview := resp.String()
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          resp.Request.URL,
			"status":       resp.StatusCode(),
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: "failed to parse JSON: " + err.Error(),
			Code:    resp.StatusCode(),
			Err:     err,
		}
	}
	return nil
}

// checkResponseStatus turns a non-2xx response into a typed error
func (c *Client) checkResponseStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	fields := map[string]interface{}{
		"status": status,
		"url":    resp.Request.URL,
	}

	var message string
	switch errors.TypeForStatus(status) {
	case errors.ErrorTypeAuth:
		c.logger.WarnWithFields("authentication error", fields)
		message = "session cookie rejected"
	case errors.ErrorTypeNotFound:
		c.logger.WarnWithFields("resource not found", fields)
		message = "resource not found"
	case errors.ErrorTypeRateLimit:
		c.logger.WarnWithFields("rate limit exceeded", fields)
		message = "rate limit exceeded"
	case errors.ErrorTypeServerError:
		c.logger.ErrorWithFields("server error", fields)
		message = "server error"
	default:
		c.logger.ErrorWithFields("unexpected API error", fields)
		message = "unexpected status " + resp.Status()
	}

	return errors.New(errors.TypeForStatus(status), status, "%s: %s", message, resp.Request.URL)
}

// Ping fetches a known puzzle to confirm the session cookie is accepted
func (c *Client) Ping(ctx context.Context) error {
	err := c.get(ctx, PingPath(), nil, nil)
	if err == nil {
		return nil
	}
	if errors.IsType(err, errors.ErrorTypeNetwork) {
		return err
	}
	return errors.Wrap(errors.ErrorTypeAuth, err, "liveness check failed, the NYT-S token is invalid or expired")
}

// FetchPuzzles lists the puzzles of one type published inside the window,
// oldest first
func (c *Client) FetchPuzzles(ctx context.Context, pt PuzzleType, w Window) ([]PuzzleRecord, error) {
	var list listResponse
	if err := c.get(ctx, PuzzleListEndpoint, PuzzleListParams(pt, w), &list); err != nil {
		return nil, err
	}
	if list.Results == nil {
		return []PuzzleRecord{}, nil
	}
	return list.Results, nil
}

// FetchPuzzleDetail fetches the solve state of the puzzle named by rec and
// merges it into rec, detail fields winning. A "board" field is replaced by
// its flattened board.guess and board.timestamp columns.
func (c *Client) FetchPuzzleDetail(ctx context.Context, rec PuzzleRecord) (PuzzleRecord, error) {
	id, ok := rec.ID()
	if !ok {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "puzzle summary has no puzzle_id")
	}

	var detail map[string]any
	if err := c.get(ctx, PuzzleDetailPath(id), nil, &detail); err != nil {
		return nil, err
	}

	if raw, ok := detail["board"]; ok {
		cells, err := DecodeBoard(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrorTypeParsing, err, "puzzle %s", id)
		}
		delete(detail, "board")
		maps.Copy(detail, NormalizeBoard(cells, c.fill).Fields())
	}

	maps.Copy(rec, detail)
	return rec, nil
}
