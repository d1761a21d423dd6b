package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core/result"
)

type resultApi struct {
	svc result.Service
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc result.Service) {
	api := resultApi{svc: svc}

	rg := g.Group("/results")

	// public endpoints
	rg.GET("", api.query)
	rg.GET("/:id", api.retrieve)

	// admin endpoints; results are immutable, there is no update route
	ag := rg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.DELETE("/:id", api.destroy)
}

func (api *resultApi) create(ctx echo.Context) error {
	var data result.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	res, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resultApi) query(ctx echo.Context) error {
	filter := new(result.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []result.Result{})
	}
	filter.Clean()

	var results []result.Result
	var err error
	if filter.IsEmpty() {
		results, err = api.svc.QueryAll()
	} else {
		results, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []result.Result{}
	}

	ordering := new(Ordering)
	ordering.Bind(ctx)
	orderResults(results, ordering)

	return ctx.JSON(http.StatusOK, results)
}

// orderResults applies the requested orderings on the played_at and
// created_at fields; unknown fields are ignored.
func orderResults(results []result.Result, ordering *Ordering) {
	for i := len(ordering.Orderings) - 1; i >= 0; i-- {
		ord := ordering.Orderings[i]
		switch ord.Field {
		case "played_at":
			sort.SliceStable(results, func(i, j int) bool {
				if ord.Ascending {
					return results[i].PlayedAt.Before(results[j].PlayedAt)
				}
				return results[i].PlayedAt.After(results[j].PlayedAt)
			})
		case "created_at":
			sort.SliceStable(results, func(i, j int) bool {
				if ord.Ascending {
					return results[i].CreatedAt.Before(results[j].CreatedAt)
				}
				return results[i].CreatedAt.After(results[j].CreatedAt)
			})
		}
	}
}

func (api *resultApi) retrieve(ctx echo.Context) error {
	res, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}
