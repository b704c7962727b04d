package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func (a *API) UserLogout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
	c.SetCookie("logged_in", "", -1, "/", "", viper.GetBool("host.ssl.enabled"), false)

	c.Status(http.StatusOK)
}
