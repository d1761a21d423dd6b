package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/ligi/core/standings"
)

type standingsApi struct {
	svc standings.Service
}

func registerStandingsAPI(g *echo.Group, svc standings.Service) {
	api := standingsApi{svc: svc}

	// the whole point of the site: public, no auth
	g.GET("/standings", api.retrieve)
}

func (api *standingsApi) retrieve(ctx echo.Context) error {
	snap, err := api.svc.Standings()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}
