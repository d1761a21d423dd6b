package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core/team"
)

const defaultSuggestLimit = 5

type teamApi struct {
	svc team.Service
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc team.Service) {
	api := teamApi{svc: svc}

	tg := g.Group("/teams")

	// public endpoints
	tg.GET("", api.query)
	tg.GET("/suggest", api.suggest)
	tg.GET("/:id", api.retrieve)

	// admin endpoints
	ag := tg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	t, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) query(ctx echo.Context) error {
	filter := new(team.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []team.Team{})
	}
	filter.Clean()

	var teams []team.Team
	var err error
	if filter.IsEmpty() {
		teams, err = api.svc.QueryAll()
	} else {
		teams, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

// suggest powers the result entry form type-ahead.
func (api *teamApi) suggest(ctx echo.Context) error {
	q := ctx.QueryParam("q")
	limit := defaultSuggestLimit
	if val := ctx.QueryParam("limit"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			limit = n
		}
	}

	teams, err := api.svc.Suggest(q, limit)
	if err != nil {
		return errors.Wrap(err, "suggesting teams")
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) update(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}

	var data team.UpdateTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeam")
	}
	if err := data.Validate(t, api.svc); err != nil {
		return err
	}

	t, err = api.svc.Update(t.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating team")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return ctx.NoContent(http.StatusNoContent)
}
