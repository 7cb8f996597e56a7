package httpserver

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/util"
)

// pathID reads the :id parameter. A value that is not a uuid cannot name a
// row, so it is reported as not found.
func pathID(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, service.NewError(service.ErrNotFound, notFound)
	}
	return id, nil
}

func listParams(c echo.Context) (page, limit int, search string) {
	page = util.ParseIntDefault(c.QueryParam("page"), util.DefaultPage)
	limit = util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	return page, limit, c.QueryParam("search")
}
