package sio

import (
	"testing"

	"github.com/Comcast/conduit/app"
	loginform "github.com/Comcast/conduit/form/login"
	"github.com/Comcast/conduit/page/article"
	"github.com/Comcast/conduit/page/feed"
	"github.com/Comcast/conduit/page/home"
	"github.com/Comcast/conduit/page/login"
	"github.com/Comcast/conduit/page/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		in   Input
		want app.Msg
	}{
		{Input{URL: "/login", Page: "ignored"}, app.URLChanged{URL: "/login"}},
		{
			Input{Page: "login", Event: "field", Field: "email", Value: "a@b.c"},
			app.LoginMsg{Msg: login.FieldChanged{Field: loginform.Field{Kind: loginform.Email, Val: "a@b.c"}}},
		},
		{Input{Page: "login", Event: "submit"}, app.LoginMsg{Msg: login.Submitted{}}},
		{Input{Page: "home", Event: "tag", Value: "dragons"}, app.HomeMsg{Msg: home.TagClicked{Tag: "dragons"}}},
		{
			Input{Page: "home", Event: "tab", Value: "global"},
			app.HomeMsg{Msg: home.TabClicked{Feed: home.SelectedFeed{Kind: home.Global}}},
		},
		{Input{Page: "home", Event: "feedPage", N: 2}, app.HomeMsg{Msg: home.FeedPageClicked{Page: 2}}},
		{
			Input{Page: "home", Event: "favorite", Slug: "s"},
			app.HomeMsg{Msg: home.FeedMsg{Msg: feed.FavoriteClicked{Slug: "s"}}},
		},
		{
			Input{Page: "profile", Event: "tab", Value: "favoritedArticles"},
			app.ProfileMsg{Msg: profile.TabClicked{Tab: profile.FavoritedArticles}},
		},
		{
			Input{Page: "profile", Event: "unfavorite", Slug: "s"},
			app.ProfileMsg{Msg: profile.FeedMsg{Msg: feed.UnfavoriteClicked{Slug: "s"}}},
		},
		{Input{Page: "profile", Event: "follow"}, app.ProfileMsg{Msg: profile.FollowClicked{}}},
		{Input{Page: "article", Event: "comment", Value: "hi"}, app.ArticleMsg{Msg: article.CommentChanged{Text: "hi"}}},
		{Input{Page: "article", Event: "deleteComment", ID: "7"}, app.ArticleMsg{Msg: article.DeleteCommentClicked{ID: "7"}}},
	} {
		got, err := Decode(c.in)
		require.NoError(t, err, "%+v", c.in)
		assert.Equal(t, c.want, got, "%+v", c.in)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, in := range []Input{
		{},
		{Page: "nowhere", Event: "submit"},
		{Page: "login", Event: "field", Field: "username"},
		{Page: "login", Event: "dance"},
		{Page: "home", Event: "tab", Value: "mine"},
		{Page: "article", Event: "deleteComment"},
	} {
		_, err := Decode(in)
		var e *InputError
		require.ErrorAs(t, err, &e, "%+v", in)
		assert.Equal(t, in, e.Input)
	}
}
