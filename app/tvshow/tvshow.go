// Package tvshow contains the catalog search and lookup endpoints
package tvshow

import (
	"bitwise74/tracker-api/app/respond"
	"bitwise74/tracker-api/internal"
	"bitwise74/tracker-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxPages = 20

var (
	defaultPageStart = 1
	defaultPageEnd   = 10
)

func Query(c *gin.Context, d *internal.Deps) {
	pageStart, err := validators.NumberParam("pageStart", c.Query("pageStart"), &defaultPageStart)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	pageEnd, err := validators.NumberParam("pageEnd", c.Query("pageEnd"), &defaultPageEnd)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if pageStart < 1 {
		respond.Fail(c, http.StatusBadRequest, "pageStart must be at least 1")
		return
	}

	if pageEnd-pageStart >= maxPages {
		respond.Fail(c, http.StatusBadRequest, "Can't query more than 20 pages at once")
		return
	}

	shows, err := d.Shows.QueryShows(c.Request.Context(), pageStart, pageEnd, c.Query("query"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, "Shows were successfully queried!", gin.H{
		"queriedShows": shows,
	})
}

func Get(c *gin.Context, d *internal.Deps) {
	id, err := validators.NumberParam("id", c.Param("id"), nil)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	show, err := d.Shows.GetShow(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, "Show was successfully retrieved!", gin.H{
		"show": show,
	})
}
