package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core/post"
)

type postApi struct {
	svc post.Service
}

func registerPostAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc post.Service) {
	api := postApi{svc: svc}

	pg := g.Group("/posts")

	// public endpoints
	pg.GET("/published", api.queryPublished)
	pg.GET("/published/:slug", api.retrievePublished)

	// editor endpoints
	eg := pg.Group("", jwt, editorMiddleware())
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

func (api *postApi) create(ctx echo.Context) error {
	var data post.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	p, err := api.svc.Create(data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *postApi) query(ctx echo.Context) error {
	filter := new(post.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []post.Post{})
	}
	filter.Clean()

	var posts []post.Post
	var err error
	if filter.IsEmpty() {
		posts, err = api.svc.QueryAll()
	} else {
		posts, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *postApi) queryPublished(ctx echo.Context) error {
	filter := post.QueryFilter{
		Kind:   ctx.QueryParam("kind"),
		Status: post.StatusPublished,
	}
	filter.Clean()

	posts, err := api.svc.Filter(filter)
	if err != nil {
		return errors.Wrap(err, "querying published posts")
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *postApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *postApi) retrievePublished(ctx echo.Context) error {
	p, err := api.svc.GetPublishedBySlug(ctx.Param("slug"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *postApi) update(ctx echo.Context) error {
	p, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data post.UpdatePost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePost")
	}
	if err := data.Validate(p, api.svc); err != nil {
		return err
	}

	p, err = api.svc.Update(p.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *postApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
