package newscards

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"github.com/eringen/newscards/views"
)

func (a *App) handleHome(c echo.Context) error {
	cards, err := a.LoadCards(c.Request().Context())
	if err != nil {
		return err
	}
	site := a.Config.viewConfig()
	return Render(c, a.Views.Home(views.HomePage{
		Site:   site,
		Cards:  cards,
		JSONLD: views.WebsiteJsonLD(site, cards),
	}))
}

func (a *App) handlePostsAPI(c echo.Context) error {
	cards, err := a.LoadCards(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (a *App) handleFeed(c echo.Context) error {
	cards, err := a.LoadCards(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, cards)
}

func (a *App) handleFavicon(c echo.Context) error {
	b, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", b)
}

// handleRobots generates robots.txt using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// client went away mid-load
		a.Log.Debug().Err(err).Str("uri", c.Request().RequestURI).Msg("request canceled")
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
