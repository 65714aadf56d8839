// Package page holds what the page models share.
//
// Every page model is a pointer to a struct with the same shape:
//
//	Init(session, ..., orders) *Model
//	(*Model).Update(msg, orders)
//	(*Model).Sink(gmsg, orders)
//	(*Model).Session() session.Session
//	(*Model).Title() string
//	(*Model).Snapshot() interface{}
//
// Update handles the page's own messages.  Sink handles global
// messages.  Session hands the page's session back to the
// application when the page is replaced.
package page

import (
	"strings"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"
	"github.com/Comcast/conduit/util"
)

// AppName is appended to page titles.
const AppName = "Conduit"

// Title makes a document title from a page's title prefix.
func Title(prefix string) string {
	if prefix == "" || prefix == AppName {
		return AppName
	}
	return prefix + " - " + AppName
}

// LogErrors logs the messages of a failed request made by the named
// page.
func LogErrors(page string, msgs []string) {
	util.LogErrors(page, msgs)
}

// AuthorJSON is how an author appears in snapshots.
type AuthorJSON struct {
	Username entity.Username `json:"username"`
	Image    string          `json:"image"`
	Bio      string          `json:"bio,omitempty"`
	Relation entity.Relation `json:"relation"`
}

func Author(a entity.Author) AuthorJSON {
	return AuthorJSON{
		Username: a.Profile.Username,
		Image:    a.Profile.Avatar.Src(),
		Bio:      a.Profile.Bio,
		Relation: a.Relation,
	}
}

// ArticlePreviewJSON is an article in a list.
type ArticlePreviewJSON struct {
	Slug           entity.Slug  `json:"slug"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	TagList        []entity.Tag `json:"tagList"`
	CreatedAt      string       `json:"createdAt"`
	Favorited      bool         `json:"favorited"`
	FavoritesCount int          `json:"favoritesCount"`
	Author         AuthorJSON   `json:"author"`
}

func ArticlePreview(a entity.Article) ArticlePreviewJSON {
	return ArticlePreviewJSON{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		TagList:        a.TagList,
		CreatedAt:      entity.Timestamp(a.CreatedAt),
		Favorited:      a.Favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         Author(a.Author),
	}
}

// Empty is the snapshot of a page that shows nothing of its own.
type Empty struct{}

// FieldJSON is a form field as snapshots show it.
type FieldJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields lists a form's fields in order.  Password values are
// masked with one '*' per grapheme.
func Fields[F form.Field[F]](f form.Form[F]) []FieldJSON {
	acc := make([]FieldJSON, 0, f.Len())
	for _, x := range f.Fields() {
		v := x.Value()
		if x.Key() == "password" {
			v = strings.Repeat("*", form.GraphemeCount(v))
		}
		acc = append(acc, FieldJSON{Key: x.Key(), Value: v})
	}
	return acc
}
