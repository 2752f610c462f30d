package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loykin/petfriends/internal/constants"
)

const pageTemplate = `<!doctype html>
<html lang=en>
<title>%d %s</title>
<h1>%s</h1>
<p>%s</p>
`

// page answers with the small HTML error page the real service renders.
// detail is inserted verbatim and must not carry user input.
func page(c *gin.Context, status int, detail string) {
	title := http.StatusText(status)
	body := fmt.Sprintf(pageTemplate, status, title, title, detail)
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}

func userNotFound(c *gin.Context) {
	page(c, http.StatusForbidden, constants.MsgUserNotFound)
}

func provideAuthKey(c *gin.Context) {
	page(c, http.StatusForbidden, constants.MsgProvideAuthKey)
	c.Abort()
}

func badRequest(c *gin.Context, detail string) {
	page(c, http.StatusBadRequest, "The browser (or proxy) sent a request that this server could not understand. "+detail)
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	page(c, http.StatusInternalServerError, "The server encountered an internal error and was unable to complete your request.")
}
