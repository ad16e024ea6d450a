// Package subscription contains the endpoints managing the shows a user
// follows
package subscription

import (
	"bitwise74/tracker-api/app/respond"
	"bitwise74/tracker-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

type subscriptionBody struct {
	TmdbID *int `json:"tmdbID"`
}

func bindShowID(c *gin.Context) (int, bool) {
	var data subscriptionBody
	if err := c.ShouldBindJSON(&data); err != nil || data.TmdbID == nil {
		respond.Fail(c, http.StatusBadRequest, "tmdbID must be a valid number")
		return 0, false
	}

	return *data.TmdbID, true
}

func Add(c *gin.Context, d *internal.Deps) {
	tmdbID, ok := bindShowID(c)
	if !ok {
		return
	}

	if err := d.Subscriptions.Add(c.Request.Context(), c.GetString("userID"), tmdbID); err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, "Subscription was successfully added!", nil)
}

func Remove(c *gin.Context, d *internal.Deps) {
	tmdbID, ok := bindShowID(c)
	if !ok {
		return
	}

	if err := d.Subscriptions.Remove(c.Request.Context(), c.GetString("userID"), tmdbID); err != nil {
		respond.Error(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, "Subscription was successfully removed!", nil)
}

func List(c *gin.Context, d *internal.Deps) {
	subs, err := d.Subscriptions.GetAll(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	msg := "Subscriptions were successfully retrieved!"
	if len(subs) == 0 {
		msg = "No subscriptions were found"
	}

	respond.JSON(c, http.StatusOK, msg, gin.H{
		"subs": subs,
	})
}
