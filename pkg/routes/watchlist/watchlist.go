package watchlist

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/juniper/internal/repositories/watchlistentity"
	"github.com/Ramsey-B/juniper/pkg/tracing"
)

// Register registers watchlist routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/:id", Get)
	g.GET("/code/:code", GetByCode)
}

// List returns stored watchlist entities, newest first
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "watchlist_handler.List")
	defer span.End()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*watchlistentity.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	entities, err := repo.List(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": entities,
		"count": len(entities),
	})
}

// Get returns a single watchlist entity by ID
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "watchlist_handler.Get")
	defer span.End()

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*watchlistentity.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	entity, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entity)
}

// GetByCode returns the entity stored under an exact Densus code
func GetByCode(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "watchlist_handler.GetByCode")
	defer span.End()

	code := c.Param("code")
	if code == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	ctx, repo, err := ectoinject.GetContext[*watchlistentity.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	entity, err := repo.GetByDensusCode(ctx, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entity)
}
