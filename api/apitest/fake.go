// Package apitest has a scriptable api.Conduit for tests.
package apitest

import (
	"context"
	"sync"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	"github.com/Comcast/conduit/session"
)

// NotScripted is returned by a Fake method without a handler.
var NotScripted = api.NewErrors("not scripted")

// Fake implements api.Conduit with optional per-method functions.
// Every call is recorded by name.
type Fake struct {
	LoginF          func([]form.Entry) (*session.Viewer, error)
	RegisterF       func([]form.Entry) (*session.Viewer, error)
	LoadSettingsF   func(*session.Viewer) (api.User, error)
	UpdateSettingsF func(*session.Viewer, []form.Entry) (*session.Viewer, error)
	LoadTagsF       func() ([]entity.Tag, error)
	LoadFeedF       func(*session.Viewer, api.FeedQuery) (entity.PaginatedList[entity.Article], error)
	LoadArticleF    func(*session.Viewer, entity.Slug) (entity.Article, error)
	CreateArticleF  func(*session.Viewer, []form.Entry) (entity.Article, error)
	UpdateArticleF  func(*session.Viewer, entity.Slug, []form.Entry) (entity.Article, error)
	DeleteArticleF  func(*session.Viewer, entity.Slug) error
	FavoriteF       func(*session.Viewer, entity.Slug) (entity.Article, error)
	UnfavoriteF     func(*session.Viewer, entity.Slug) (entity.Article, error)
	LoadAuthorF     func(*session.Viewer, entity.Username) (entity.Author, error)
	FollowF         func(*session.Viewer, entity.Username) (entity.Author, error)
	UnfollowF       func(*session.Viewer, entity.Username) (entity.Author, error)
	LoadCommentsF   func(*session.Viewer, entity.Slug) ([]entity.Comment, error)
	PostCommentF    func(*session.Viewer, entity.Slug, string) (entity.Comment, error)
	DeleteCommentF  func(*session.Viewer, entity.Slug, entity.CommentID) error

	sync.Mutex
	calls []string
}

func (f *Fake) called(name string) {
	f.Lock()
	f.calls = append(f.calls, name)
	f.Unlock()
}

// Calls returns the names of the methods called so far.
func (f *Fake) Calls() []string {
	f.Lock()
	defer f.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Login(ctx context.Context, es []form.Entry) (*session.Viewer, error) {
	f.called("Login")
	if f.LoginF == nil {
		return nil, NotScripted
	}
	return f.LoginF(es)
}

func (f *Fake) Register(ctx context.Context, es []form.Entry) (*session.Viewer, error) {
	f.called("Register")
	if f.RegisterF == nil {
		return nil, NotScripted
	}
	return f.RegisterF(es)
}

func (f *Fake) LoadSettings(ctx context.Context, v *session.Viewer) (api.User, error) {
	f.called("LoadSettings")
	if f.LoadSettingsF == nil {
		return api.User{}, NotScripted
	}
	return f.LoadSettingsF(v)
}

func (f *Fake) UpdateSettings(ctx context.Context, v *session.Viewer, es []form.Entry) (*session.Viewer, error) {
	f.called("UpdateSettings")
	if f.UpdateSettingsF == nil {
		return nil, NotScripted
	}
	return f.UpdateSettingsF(v, es)
}

func (f *Fake) LoadTags(ctx context.Context) ([]entity.Tag, error) {
	f.called("LoadTags")
	if f.LoadTagsF == nil {
		return nil, NotScripted
	}
	return f.LoadTagsF()
}

func (f *Fake) LoadFeed(ctx context.Context, v *session.Viewer, q api.FeedQuery) (entity.PaginatedList[entity.Article], error) {
	f.called("LoadFeed")
	if f.LoadFeedF == nil {
		return entity.PaginatedList[entity.Article]{}, NotScripted
	}
	return f.LoadFeedF(v, q)
}

func (f *Fake) LoadArticle(ctx context.Context, v *session.Viewer, s entity.Slug) (entity.Article, error) {
	f.called("LoadArticle")
	if f.LoadArticleF == nil {
		return entity.Article{}, NotScripted
	}
	return f.LoadArticleF(v, s)
}

func (f *Fake) CreateArticle(ctx context.Context, v *session.Viewer, es []form.Entry) (entity.Article, error) {
	f.called("CreateArticle")
	if f.CreateArticleF == nil {
		return entity.Article{}, NotScripted
	}
	return f.CreateArticleF(v, es)
}

func (f *Fake) UpdateArticle(ctx context.Context, v *session.Viewer, s entity.Slug, es []form.Entry) (entity.Article, error) {
	f.called("UpdateArticle")
	if f.UpdateArticleF == nil {
		return entity.Article{}, NotScripted
	}
	return f.UpdateArticleF(v, s, es)
}

func (f *Fake) DeleteArticle(ctx context.Context, v *session.Viewer, s entity.Slug) error {
	f.called("DeleteArticle")
	if f.DeleteArticleF == nil {
		return NotScripted
	}
	return f.DeleteArticleF(v, s)
}

func (f *Fake) Favorite(ctx context.Context, v *session.Viewer, s entity.Slug) (entity.Article, error) {
	f.called("Favorite")
	if f.FavoriteF == nil {
		return entity.Article{}, NotScripted
	}
	return f.FavoriteF(v, s)
}

func (f *Fake) Unfavorite(ctx context.Context, v *session.Viewer, s entity.Slug) (entity.Article, error) {
	f.called("Unfavorite")
	if f.UnfavoriteF == nil {
		return entity.Article{}, NotScripted
	}
	return f.UnfavoriteF(v, s)
}

func (f *Fake) LoadAuthor(ctx context.Context, v *session.Viewer, u entity.Username) (entity.Author, error) {
	f.called("LoadAuthor")
	if f.LoadAuthorF == nil {
		return entity.Author{}, NotScripted
	}
	return f.LoadAuthorF(v, u)
}

func (f *Fake) Follow(ctx context.Context, v *session.Viewer, u entity.Username) (entity.Author, error) {
	f.called("Follow")
	if f.FollowF == nil {
		return entity.Author{}, NotScripted
	}
	return f.FollowF(v, u)
}

func (f *Fake) Unfollow(ctx context.Context, v *session.Viewer, u entity.Username) (entity.Author, error) {
	f.called("Unfollow")
	if f.UnfollowF == nil {
		return entity.Author{}, NotScripted
	}
	return f.UnfollowF(v, u)
}

func (f *Fake) LoadComments(ctx context.Context, v *session.Viewer, s entity.Slug) ([]entity.Comment, error) {
	f.called("LoadComments")
	if f.LoadCommentsF == nil {
		return nil, NotScripted
	}
	return f.LoadCommentsF(v, s)
}

func (f *Fake) PostComment(ctx context.Context, v *session.Viewer, s entity.Slug, body string) (entity.Comment, error) {
	f.called("PostComment")
	if f.PostCommentF == nil {
		return entity.Comment{}, NotScripted
	}
	return f.PostCommentF(v, s, body)
}

func (f *Fake) DeleteComment(ctx context.Context, v *session.Viewer, s entity.Slug, id entity.CommentID) error {
	f.called("DeleteComment")
	if f.DeleteCommentF == nil {
		return NotScripted
	}
	return f.DeleteCommentF(v, s, id)
}

var _ api.Conduit = &Fake{}
