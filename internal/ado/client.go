// Package ado is a minimal Azure DevOps git REST client covering what the
// publishing flow needs: repository lookup and creation, branch tips, file
// pushes and pull requests.
package ado

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiVersion = "7.0"
	// zeroObjectID is the magic base object id for the first commit in an
	// empty repository.
	zeroObjectID = "0000000000000000000000000000000000000000"
)

// Client talks to one Azure DevOps organization.
type Client struct {
	baseURL string
	org     string
	auth    string
	http    *http.Client
}

// Option adjusts a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the organization authenticating with a personal
// access token.
func New(org, pat string, opts ...Option) *Client {
	c := &Client{
		baseURL: "https://dev.azure.com",
		org:     org,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+pat)),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Projects lists project names in the organization.
func (c *Client) Projects(ctx context.Context) ([]string, error) {
	var out struct {
		Value []struct {
			Name string `json:"name"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, c.orgPath("_apis/projects"), nil, &out); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make([]string, 0, len(out.Value))
	for _, p := range out.Value {
		names = append(names, p.Name)
	}
	return names, nil
}

// Repositories returns repository name to id for a project.
func (c *Client) Repositories(ctx context.Context, project string) (map[string]string, error) {
	var out struct {
		Value []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, c.projectPath(project, "_apis/git/repositories"), nil, &out); err != nil {
		return nil, fmt.Errorf("list repositories in %q: %w", project, err)
	}
	repos := make(map[string]string, len(out.Value))
	for _, r := range out.Value {
		repos[r.Name] = r.ID
	}
	return repos, nil
}

// CreateRepository creates a repository and returns its id.
func (c *Client) CreateRepository(ctx context.Context, project, name string) (string, error) {
	body := map[string]string{"name": name}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.projectPath(project, "_apis/git/repositories"), body, &out); err != nil {
		return "", fmt.Errorf("create repository %q: %w", name, err)
	}
	return out.ID, nil
}

// DefaultBranch returns the repository default branch name, falling back to
// main when the service reports none.
func (c *Client) DefaultBranch(ctx context.Context, project, repoID string) (string, error) {
	var out struct {
		DefaultBranch string `json:"defaultBranch"`
	}
	path := c.projectPath(project, "_apis/git/repositories/"+url.PathEscape(repoID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("repository metadata: %w", err)
	}
	ref := out.DefaultBranch
	if ref == "" {
		return "main", nil
	}
	return shortRef(ref), nil
}

// BranchTip returns the commit id at the head of a branch, or empty when
// the branch does not exist.
func (c *Client) BranchTip(ctx context.Context, project, repoID, branch string) (string, error) {
	var out struct {
		Value []struct {
			ObjectID string `json:"objectId"`
		} `json:"value"`
	}
	path := c.projectPath(project, "_apis/git/repositories/"+url.PathEscape(repoID)+"/refs")
	path += "&filter=" + url.QueryEscape("heads/"+branch)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("branch tip %q: %w", branch, err)
	}
	if len(out.Value) == 0 {
		return "", nil
	}
	return out.Value[0].ObjectID, nil
}

// PushMode reports how PushFile landed the content.
type PushMode string

const (
	// PushModeBranch means the repository had commits and a feature branch
	// was created from the base tip.
	PushModeBranch PushMode = "branch"
	// PushModeInitialized means the repository was empty and the base
	// branch was created with a first commit; a pull request makes no sense
	// yet in that case.
	PushModeInitialized PushMode = "initialized"
)

// PushResult describes a completed push.
type PushResult struct {
	Mode       PushMode
	BaseBranch string
}

// PushFile adds one file as a new commit. On a repository with commits the
// commit lands on newBranch forked from the tip of baseBranch (or of the
// default branch when baseBranch does not exist). On an empty repository
// the commit initializes baseBranch instead.
func (c *Client) PushFile(ctx context.Context, project, repoID, filePath, content, baseBranch, newBranch, comment string) (PushResult, error) {
	tip, err := c.BranchTip(ctx, project, repoID, baseBranch)
	if err != nil {
		return PushResult{}, err
	}
	if tip == "" {
		def, err := c.DefaultBranch(ctx, project, repoID)
		if err != nil {
			return PushResult{}, err
		}
		if def != baseBranch {
			baseBranch = def
			tip, err = c.BranchTip(ctx, project, repoID, baseBranch)
			if err != nil {
				return PushResult{}, err
			}
		}
	}

	refName := "refs/heads/" + newBranch
	oldID := tip
	mode := PushModeBranch
	if tip == "" {
		refName = "refs/heads/" + baseBranch
		oldID = zeroObjectID
		mode = PushModeInitialized
	}

	body := pushPayload{
		RefUpdates: []refUpdate{{Name: refName, OldObjectID: oldID}},
		Commits: []commit{{
			Comment: comment,
			Changes: []change{{
				ChangeType: "add",
				Item:       item{Path: filePath},
				NewContent: newContent{Content: content, ContentType: "rawText"},
			}},
		}},
	}
	path := c.projectPath(project, "_apis/git/repositories/"+url.PathEscape(repoID)+"/pushes")
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return PushResult{}, fmt.Errorf("push %q: %w", filePath, err)
	}
	return PushResult{Mode: mode, BaseBranch: baseBranch}, nil
}

// OpenPullRequest opens a pull request from source to target branch and
// returns its id.
func (c *Client) OpenPullRequest(ctx context.Context, project, repoID, source, target, title, description string) (int, error) {
	body := map[string]string{
		"sourceRefName": "refs/heads/" + source,
		"targetRefName": "refs/heads/" + target,
		"title":         title,
		"description":   description,
	}
	var out struct {
		PullRequestID int `json:"pullRequestId"`
	}
	path := c.projectPath(project, "_apis/git/repositories/"+url.PathEscape(repoID)+"/pullrequests")
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return 0, fmt.Errorf("open pull request: %w", err)
	}
	return out.PullRequestID, nil
}

type pushPayload struct {
	RefUpdates []refUpdate `json:"refUpdates"`
	Commits    []commit    `json:"commits"`
}

type refUpdate struct {
	Name        string `json:"name"`
	OldObjectID string `json:"oldObjectId"`
}

type commit struct {
	Comment string   `json:"comment"`
	Changes []change `json:"changes"`
}

type change struct {
	ChangeType string     `json:"changeType"`
	Item       item       `json:"item"`
	NewContent newContent `json:"newContent"`
}

type item struct {
	Path string `json:"path"`
}

type newContent struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

func (c *Client) orgPath(p string) string {
	return fmt.Sprintf("%s/%s/%s?api-version=%s", c.baseURL, url.PathEscape(c.org), p, apiVersion)
}

func (c *Client) projectPath(project, p string) string {
	return fmt.Sprintf("%s/%s/%s/%s?api-version=%s", c.baseURL, url.PathEscape(c.org), url.PathEscape(project), p, apiVersion)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, resp.Request.URL.Path, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// shortRef strips the refs/heads/ prefix. Branch names may themselves
// contain slashes (release/1.0), so only the fixed prefix comes off.
func shortRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
