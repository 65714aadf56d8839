package article

import (
	"context"
	"testing"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/api/apitest"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homer = &session.Viewer{Token: "t", Username: "homer"}

func author(u entity.Username) entity.Author {
	return entity.Author{Profile: entity.Profile{Username: u}}
}

func newFake() *apitest.Fake {
	return &apitest.Fake{
		LoadArticleF: func(v *session.Viewer, s entity.Slug) (entity.Article, error) {
			return entity.Article{Slug: s, Title: "Dragons", Body: "*Fire*", Author: author("marge")}, nil
		},
		LoadCommentsF: func(v *session.Viewer, s entity.Slug) ([]entity.Comment, error) {
			return []entity.Comment{
				{ID: "1", Body: "first", Author: author("homer")},
				{ID: "2", Body: "second", Author: author("marge")},
			}, nil
		},
		FavoriteF: func(v *session.Viewer, s entity.Slug) (entity.Article, error) {
			return entity.Article{Slug: s, Title: "Dragons", Favorited: true, FavoritesCount: 1, Author: author("marge")}, nil
		},
		FollowF: func(v *session.Viewer, u entity.Username) (entity.Author, error) {
			a := author(u)
			a.Relation = entity.Following
			return a, nil
		},
		PostCommentF: func(v *session.Viewer, s entity.Slug, body string) (entity.Comment, error) {
			return entity.Comment{ID: "3", Body: entity.Markdown(body), Author: author(v.Username)}, nil
		},
		DeleteCommentF: func(v *session.Viewer, s entity.Slug, id entity.CommentID) error {
			return nil
		},
		DeleteArticleF: func(v *session.Viewer, s entity.Slug) error {
			return nil
		},
	}
}

func deliver(m *Model, r *orders.Recorder[Msg], c api.Conduit) {
	for _, msg := range r.Run(context.Background(), c) {
		m.Update(msg, r)
	}
}

func loaded(t *testing.T, s session.Session) (*Model, *orders.Recorder[Msg], *apitest.Fake) {
	r := &orders.Recorder[Msg]{}
	c := newFake()
	m := Init(s, "dragons", r)
	assert.Equal(t, "Article - Conduit", m.Title())
	deliver(m, r, c)
	require.Equal(t, status.Loaded, m.Article().Phase())
	require.Equal(t, status.Loaded, m.Comments().Phase())
	return m, r, c
}

func TestLoad(t *testing.T) {
	m, _, _ := loaded(t, session.LoggedIn(homer))
	assert.Equal(t, "Dragons - Conduit", m.Title())

	s := m.Snapshot().(Snapshot)
	a, ok := s.Article.Value()
	require.True(t, ok)
	assert.Contains(t, a.BodyHTML, "<em>Fire</em>")
	assert.False(t, a.CanModify)

	cs, ok := s.Comments.Value()
	require.True(t, ok)
	require.Len(t, cs, 2)
	assert.True(t, cs[0].CanDelete)
	assert.False(t, cs[1].CanDelete)
}

func TestFavoriteAndFollow(t *testing.T) {
	m, r, c := loaded(t, session.LoggedIn(homer))

	m.Update(FavoriteClicked{}, r)
	m.Update(FollowClicked{}, r)
	deliver(m, r, c)

	a, _ := m.Article().Value()
	assert.True(t, a.Favorited)
	assert.Equal(t, 1, a.FavoritesCount)
	assert.Equal(t, entity.Following, a.Author.Relation)
	assert.Equal(t, []string{"LoadArticle", "LoadComments", "Favorite", "Follow"}, c.Calls())
}

func TestComments(t *testing.T) {
	m, r, c := loaded(t, session.LoggedIn(homer))

	m.Update(CommentChanged{Text: "   "}, r)
	m.Update(PostCommentClicked{}, r)
	assert.Empty(t, r.Cmds)
	assert.Equal(t, []string{"body can't be blank"}, m.Errors())
	m.Update(DismissErrorsClicked{}, r)

	m.Update(CommentChanged{Text: " third "}, r)
	m.Update(PostCommentClicked{}, r)
	deliver(m, r, c)
	assert.Equal(t, "", m.CommentText())

	m.Update(DeleteCommentClicked{ID: "1"}, r)
	deliver(m, r, c)

	cs, _ := m.Comments().Value()
	var ids []entity.CommentID
	for _, x := range cs {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []entity.CommentID{"3", "2"}, ids)
	assert.Equal(t, entity.Markdown("third"), cs[0].Body)
}

func TestGuestCantAct(t *testing.T) {
	m, r, _ := loaded(t, session.Guest())
	m.Update(FavoriteClicked{}, r)
	m.Update(FollowClicked{}, r)
	m.Update(CommentChanged{Text: "hi"}, r)
	m.Update(PostCommentClicked{}, r)
	m.Update(DeleteArticleClicked{}, r)
	assert.Empty(t, r.Cmds)
}

func TestDeleteArticle(t *testing.T) {
	m, r, c := loaded(t, session.LoggedIn(homer))
	m.Update(DeleteArticleClicked{}, r)
	deliver(m, r, c)
	assert.Equal(t, []string{"/"}, r.URLs)
	assert.Equal(t, []orders.GMsg{orders.RoutePushed{Route: route.ToHome()}}, r.Globals)
}

func TestFailures(t *testing.T) {
	var r orders.Recorder[Msg]
	m := Init(session.Guest(), "gone", &r)
	for _, d := range r.Later {
		m.Update(d.Msg, &r)
	}
	assert.Equal(t, status.LoadingSlowly, m.Article().Phase())
	assert.Equal(t, status.LoadingSlowly, m.Comments().Phase())

	deliver(m, &r, &apitest.Fake{})
	assert.Equal(t, status.Failed, m.Article().Phase())
	assert.Equal(t, status.Failed, m.Comments().Phase())
	assert.Equal(t, []string{"not scripted"}, m.Errors())
	assert.Equal(t, "Article - Conduit", m.Title())
}
