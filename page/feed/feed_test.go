package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Comcast/conduit/api/apitest"
	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homer = &session.Viewer{Token: "t", Username: "homer"}

func list() entity.PaginatedList[entity.Article] {
	return entity.PaginatedList[entity.Article]{
		Items: []entity.Article{
			{Slug: "a", Title: "A"},
			{Slug: "b", Title: "B"},
		},
		PerPage: 10,
		Total:   2,
	}
}

func TestFavorite(t *testing.T) {
	m := Init(list())
	var r orders.Recorder[Msg]

	m.Update(homer, FavoriteClicked{Slug: "b"}, &r)
	require.Len(t, r.Cmds, 1)

	fake := &apitest.Fake{
		FavoriteF: func(v *session.Viewer, s entity.Slug) (entity.Article, error) {
			assert.Equal(t, homer, v)
			return entity.Article{Slug: s, Title: "B", Favorited: true, FavoritesCount: 1}, nil
		},
	}
	msgs := r.Run(context.Background(), fake)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"Favorite"}, fake.Calls())

	m.Update(homer, msgs[0], &r)
	assert.True(t, m.Articles().Items[1].Favorited)
	assert.False(t, m.Articles().Items[0].Favorited)
}

func TestUnfavoriteFails(t *testing.T) {
	m := Init(list())
	var r orders.Recorder[Msg]

	m.Update(homer, UnfavoriteClicked{Slug: "a"}, &r)
	fake := &apitest.Fake{}
	msgs := r.Run(context.Background(), fake)
	assert.Equal(t, []string{"Unfavorite"}, fake.Calls())

	m.Update(homer, msgs[0], &r)
	assert.Equal(t, []string{"not scripted"}, m.Errors())

	m.Update(homer, DismissErrorsClicked{}, &r)
	assert.Empty(t, m.Errors())
}

func TestGuestCantFavorite(t *testing.T) {
	m := Init(list())
	var r orders.Recorder[Msg]
	m.Update(nil, FavoriteClicked{Slug: "a"}, &r)
	assert.Empty(t, r.Cmds)
}

func TestPlainError(t *testing.T) {
	m := Init(list())
	var r orders.Recorder[Msg]
	m.Update(homer, FavoriteCompleted{Err: errors.New("offline")}, &r)
	assert.Equal(t, []string{"offline"}, m.Errors())
}

func TestSnapshot(t *testing.T) {
	js, err := json.Marshal(Init(list()))
	require.NoError(t, err)
	var s Snapshot
	require.NoError(t, json.Unmarshal(js, &s))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.TotalPages)
	require.Len(t, s.Articles, 2)
	assert.Equal(t, entity.DefaultAvatar, s.Articles[0].Author.Image)
}
