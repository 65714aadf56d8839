/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/session"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Client talks to a Conduit backend over HTTP.
type Client struct {
	// BaseURL is the API root without a trailing slash.
	BaseURL string

	// HTTP is the client for requests.  NewClient gives it a
	// cookie jar.
	HTTP *http.Client

	Verbose bool
}

// NewClient makes a Client for the given API root.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.Verbose {
		log.Printf("api.Client "+format, args...)
	}
}

// do makes the request and parses a successful response into out
// (if out isn't nil).
//
// op only labels the request in metrics.
func (c *Client) do(ctx context.Context, op, method, path string, viewer *session.Viewer, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		js, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(js)
	}

	u := c.BaseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if viewer != nil && viewer.Token != "" {
		req.Header.Set("Authorization", "Token "+viewer.Token)
	}
	rid := uuid.NewString()
	req.Header.Set("X-Request-Id", rid)

	c.logf("%s %s %s", rid, method, u)

	began := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, op, "error", began)
		c.logf("%s error %v", rid, err)
		return &Errors{
			Messages: []string{err.Error()},
		}
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(method, op, strconv.Itoa(resp.StatusCode), began)

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Errors{
			StatusCode: resp.StatusCode,
			Messages:   []string{err.Error()},
		}
	}

	c.logf("%s %s %s", rid, resp.Status, bs)

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return responseErrors(resp, bs)
	}

	if out == nil || len(bytes.TrimSpace(bs)) == 0 {
		return nil
	}
	if err = json.Unmarshal(bs, out); err != nil {
		return &Errors{
			StatusCode: resp.StatusCode,
			Messages:   []string{fmt.Sprintf("bad response: %v", err)},
		}
	}
	return nil
}

// responseErrors decodes an error body.  Without a usable body, the
// status line is the message.
func responseErrors(resp *http.Response, bs []byte) *Errors {
	var root errorsRoot
	if err := json.Unmarshal(bs, &root); err == nil && 0 < len(root.Errors) {
		return &Errors{
			StatusCode: resp.StatusCode,
			Messages:   FieldErrors(root.Errors),
		}
	}
	return &Errors{
		StatusCode: resp.StatusCode,
		Messages:   []string{resp.Status},
	}
}

// ordered encodes entries as a JSON object with keys in entry order.
type ordered []form.Entry

func (o ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if 0 < i {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func userBody(entries []form.Entry) interface{} {
	return map[string]interface{}{
		"user": ordered(entries),
	}
}

func (c *Client) Login(ctx context.Context, entries []form.Entry) (*session.Viewer, error) {
	var root userRoot
	if err := c.do(ctx, "login", "POST", "users/login", nil, userBody(entries), &root); err != nil {
		return nil, err
	}
	return root.User.Viewer(), nil
}

func (c *Client) Register(ctx context.Context, entries []form.Entry) (*session.Viewer, error) {
	var root userRoot
	if err := c.do(ctx, "register", "POST", "users", nil, userBody(entries), &root); err != nil {
		return nil, err
	}
	return root.User.Viewer(), nil
}

func (c *Client) LoadSettings(ctx context.Context, viewer *session.Viewer) (User, error) {
	var root userRoot
	err := c.do(ctx, "user", "GET", "user", viewer, nil, &root)
	return root.User, err
}

// UpdateSettings saves the settings.  An empty password isn't sent,
// so the current one is kept.
func (c *Client) UpdateSettings(ctx context.Context, viewer *session.Viewer, entries []form.Entry) (*session.Viewer, error) {
	acc := make([]form.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Key == "password" && e.Value == "" {
			continue
		}
		acc = append(acc, e)
	}
	var root userRoot
	if err := c.do(ctx, "updateUser", "PUT", "user", viewer, userBody(acc), &root); err != nil {
		return nil, err
	}
	return root.User.Viewer(), nil
}

func (c *Client) LoadTags(ctx context.Context) ([]entity.Tag, error) {
	var root tagsRoot
	if err := c.do(ctx, "tags", "GET", "tags", nil, nil, &root); err != nil {
		return nil, err
	}
	tags := make([]entity.Tag, 0, len(root.Tags))
	for _, t := range root.Tags {
		tags = append(tags, entity.Tag(t))
	}
	return tags, nil
}

func (c *Client) LoadFeed(ctx context.Context, viewer *session.Viewer, q FeedQuery) (entity.PaginatedList[entity.Article], error) {
	var root articlesRoot
	if err := c.do(ctx, "feed", "GET", q.Path(), viewer, nil, &root); err != nil {
		return entity.PaginatedList[entity.Article]{}, err
	}
	return root.paginated(viewer), nil
}

func articlePath(slug entity.Slug, more ...string) string {
	return strings.Join(append([]string{"articles", url.PathEscape(string(slug))}, more...), "/")
}

func (c *Client) article(ctx context.Context, op, method, path string, viewer *session.Viewer, in interface{}) (entity.Article, error) {
	var root articleRoot
	if err := c.do(ctx, op, method, path, viewer, in, &root); err != nil {
		return entity.Article{}, err
	}
	return root.Article.article(viewer), nil
}

func (c *Client) LoadArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error) {
	return c.article(ctx, "article", "GET", articlePath(slug), viewer, nil)
}

// articleBody encodes editor entries.  Tags are separated by
// whitespace in the form and become a list.
func articleBody(entries []form.Entry) interface{} {
	a := map[string]interface{}{}
	for _, e := range entries {
		switch e.Key {
		case "tags":
			tags := strings.Fields(e.Value)
			if tags == nil {
				tags = []string{}
			}
			a["tagList"] = tags
		default:
			a[e.Key] = e.Value
		}
	}
	return map[string]interface{}{
		"article": a,
	}
}

func (c *Client) CreateArticle(ctx context.Context, viewer *session.Viewer, entries []form.Entry) (entity.Article, error) {
	return c.article(ctx, "createArticle", "POST", "articles", viewer, articleBody(entries))
}

func (c *Client) UpdateArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug, entries []form.Entry) (entity.Article, error) {
	return c.article(ctx, "updateArticle", "PUT", articlePath(slug), viewer, articleBody(entries))
}

func (c *Client) DeleteArticle(ctx context.Context, viewer *session.Viewer, slug entity.Slug) error {
	return c.do(ctx, "deleteArticle", "DELETE", articlePath(slug), viewer, nil, nil)
}

func (c *Client) Favorite(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error) {
	return c.article(ctx, "favorite", "POST", articlePath(slug, "favorite"), viewer, nil)
}

func (c *Client) Unfavorite(ctx context.Context, viewer *session.Viewer, slug entity.Slug) (entity.Article, error) {
	return c.article(ctx, "unfavorite", "DELETE", articlePath(slug, "favorite"), viewer, nil)
}

func (c *Client) profile(ctx context.Context, op, method string, viewer *session.Viewer, username entity.Username, more ...string) (entity.Author, error) {
	path := strings.Join(append([]string{"profiles", url.PathEscape(string(username))}, more...), "/")
	var root profileRoot
	if err := c.do(ctx, op, method, path, viewer, nil, &root); err != nil {
		return entity.Author{}, err
	}
	return root.Profile.author(viewer), nil
}

func (c *Client) LoadAuthor(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error) {
	return c.profile(ctx, "profile", "GET", viewer, username)
}

func (c *Client) Follow(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error) {
	return c.profile(ctx, "follow", "POST", viewer, username, "follow")
}

func (c *Client) Unfollow(ctx context.Context, viewer *session.Viewer, username entity.Username) (entity.Author, error) {
	return c.profile(ctx, "unfollow", "DELETE", viewer, username, "follow")
}

func (c *Client) LoadComments(ctx context.Context, viewer *session.Viewer, slug entity.Slug) ([]entity.Comment, error) {
	var root commentsRoot
	if err := c.do(ctx, "comments", "GET", articlePath(slug, "comments"), viewer, nil, &root); err != nil {
		return nil, err
	}
	acc := make([]entity.Comment, 0, len(root.Comments))
	for _, x := range root.Comments {
		acc = append(acc, x.comment(viewer))
	}
	return acc, nil
}

func (c *Client) PostComment(ctx context.Context, viewer *session.Viewer, slug entity.Slug, body string) (entity.Comment, error) {
	in := map[string]interface{}{
		"comment": map[string]string{
			"body": body,
		},
	}
	var root commentRoot
	if err := c.do(ctx, "postComment", "POST", articlePath(slug, "comments"), viewer, in, &root); err != nil {
		return entity.Comment{}, err
	}
	return root.Comment.comment(viewer), nil
}

func (c *Client) DeleteComment(ctx context.Context, viewer *session.Viewer, slug entity.Slug, id entity.CommentID) error {
	return c.do(ctx, "deleteComment", "DELETE", articlePath(slug, "comments", url.PathEscape(string(id))), viewer, nil, nil)
}
