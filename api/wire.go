package api

import (
	"encoding/json"
	"time"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/session"
	"github.com/Comcast/conduit/util"
)

// Types that mirror the backend's JSON.

type profileJSON struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type articleJSON struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	TagList        []string    `json:"tagList"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int         `json:"favoritesCount"`
	Author         profileJSON `json:"author"`
}

type commentJSON struct {
	ID        json.Number `json:"id"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Author    profileJSON `json:"author"`
}

type userRoot struct {
	User User `json:"user"`
}

type articleRoot struct {
	Article articleJSON `json:"article"`
}

type articlesRoot struct {
	Articles      []articleJSON `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

type profileRoot struct {
	Profile profileJSON `json:"profile"`
}

type commentRoot struct {
	Comment commentJSON `json:"comment"`
}

type commentsRoot struct {
	Comments []commentJSON `json:"comments"`
}

type tagsRoot struct {
	Tags []string `json:"tags"`
}

type errorsRoot struct {
	Errors map[string][]string `json:"errors"`
}

func (p profileJSON) author(viewer *session.Viewer) entity.Author {
	prof := entity.Profile{
		Username: entity.Username(p.Username),
	}
	if p.Bio != nil {
		prof.Bio = *p.Bio
	}
	if p.Image != nil {
		prof.Avatar = entity.Avatar(*p.Image)
	}
	rel := entity.NotFollowing
	switch {
	case viewer != nil && viewer.Username == prof.Username:
		rel = entity.IsViewer
	case p.Following:
		rel = entity.Following
	}
	return entity.Author{
		Relation: rel,
		Profile:  prof,
	}
}

func (a articleJSON) article(viewer *session.Viewer) entity.Article {
	tags := make([]entity.Tag, 0, len(a.TagList))
	for _, t := range a.TagList {
		tags = append(tags, entity.Tag(t))
	}
	return entity.Article{
		Slug:           entity.Slug(a.Slug),
		Title:          a.Title,
		Description:    a.Description,
		Body:           entity.Markdown(a.Body),
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      a.Favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         a.Author.author(viewer),
	}
}

func (c commentJSON) comment(viewer *session.Viewer) entity.Comment {
	return entity.Comment{
		ID:        entity.CommentID(c.ID.String()),
		Body:      entity.Markdown(c.Body),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    c.Author.author(viewer),
	}
}

// paginated keeps the articles that can be shown and logs the rest.
func (r articlesRoot) paginated(viewer *session.Viewer) entity.PaginatedList[entity.Article] {
	items := make([]entity.Article, 0, len(r.Articles))
	for _, a := range r.Articles {
		if a.Slug == "" || a.Author.Username == "" {
			util.Errorf("api: skipping article without slug or author: %s", util.JS(a))
			continue
		}
		items = append(items, a.article(viewer))
	}
	return entity.PaginatedList[entity.Article]{
		Items:   items,
		PerPage: entity.ArticlesPerPage,
		Total:   r.ArticlesCount,
	}
}
