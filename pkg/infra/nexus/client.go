package nexus

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

// DefaultBaseURL is the staging API root of the OSSRH s01 instance
const DefaultBaseURL = "https://s01.oss.sonatype.org/service/local/staging/"

// Logical request names, used in error messages
const (
	RequestProfileRepositories = "profile_repositories"
	RequestRepository          = "repository"
	RequestFinish              = "finish"
	RequestPromote             = "promote"
	RequestDrop                = "drop"
)

type client struct {
	httpClient *http.Client
	baseURL    *url.URL
	username   string
	password   string
}

// Option is a functional option for the staging client
type Option func(*client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a staging API client authenticating every request with
// HTTP basic auth. baseURL must point to the staging root
// (".../service/local/staging/"); an empty value selects DefaultBaseURL.
func NewClient(baseURL, username, password string, opts ...Option) (interfaces.StagingClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse staging base URL", goerr.V("base_url", baseURL))
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("staging base URL must be absolute", goerr.V("base_url", baseURL))
	}
	// Relative references resolve under the last slash only
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}

	c := &client{
		httpClient: http.DefaultClient,
		baseURL:    u,
		username:   username,
		password:   password,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListProfileRepositories fetches the staging repositories of every profile
func (c *client) ListProfileRepositories(ctx context.Context) (*model.StagingRepositoryList, error) {
	var list model.StagingRepositoryList
	if err := c.do(ctx, RequestProfileRepositories, http.MethodGet, "profile_repositories", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRepository fetches a single staging repository
func (c *client) GetRepository(ctx context.Context, repositoryID string) (*model.StagingRepository, error) {
	var repo model.StagingRepository
	path := "repository/" + url.PathEscape(repositoryID)
	if err := c.do(ctx, RequestRepository, http.MethodGet, path, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Finish closes a staging repository
func (c *client) Finish(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error {
	return c.profileAction(ctx, RequestFinish, profile, req)
}

// Promote releases a closed staging repository
func (c *client) Promote(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error {
	return c.profileAction(ctx, RequestPromote, profile, req)
}

// Drop deletes a staging repository
func (c *client) Drop(ctx context.Context, profile model.StagingProfile, req *model.PromoteRequest) error {
	return c.profileAction(ctx, RequestDrop, profile, req)
}

func (c *client) profileAction(ctx context.Context, action string, profile model.StagingProfile, req *model.PromoteRequest) error {
	body, err := xml.Marshal(req)
	if err != nil {
		return goerr.Wrap(err, "failed to encode promote request", goerr.V("action", action))
	}
	path := "profiles/" + url.PathEscape(profile.ID) + "/" + action
	return c.do(ctx, action, http.MethodPost, path, body, nil)
}

// do sends one request. Any status outside [200, 300) is reported as a
// model.RemoteCallError carrying the logical request name.
func (c *client) do(ctx context.Context, name, method, path string, body []byte, out any) error {
	logger := ctxlog.From(ctx)

	ref, err := url.Parse(path)
	if err != nil {
		return goerr.Wrap(err, "failed to build request URL", goerr.V("path", path))
	}
	endpoint := c.baseURL.ResolveReference(ref).String()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("request", name), goerr.V("url", endpoint))
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	logger.Debug("Sending staging request",
		"request", name,
		"method", method,
		"url", endpoint,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("request", name), goerr.V("url", endpoint))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.Wrap(&model.RemoteCallError{Request: name, StatusCode: resp.StatusCode},
			"staging request failed",
			goerr.V("url", endpoint),
		)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("request", name), goerr.V("url", endpoint))
	}

	return nil
}
