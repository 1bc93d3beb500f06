package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type postBody struct {
	Post     string    `json:"post"`
	DateTime time.Time `json:"dateTime"`
}

type replyBody struct {
	PostID   string    `json:"postId"`
	Post     string    `json:"post"`
	DateTime time.Time `json:"dateTime"`
}

func (a *API) GetPosts(c *gin.Context) {
	tree, err := a.posts.GetPosts(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (a *API) AddPost(c *gin.Context) {
	var data postBody
	if err := c.ShouldBindJSON(&data); err != nil {
		a.badRequest(c, err)
		return
	}

	post, err := a.posts.AddPost(c.Request.Context(), c.GetString(userIDKey), data.Post, data.DateTime)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *API) AddSubPost(c *gin.Context) {
	var data replyBody
	if err := c.ShouldBindJSON(&data); err != nil {
		a.badRequest(c, err)
		return
	}

	sp, err := a.posts.AddSubPost(c.Request.Context(), c.GetString(userIDKey), data.PostID, data.Post, data.DateTime)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sp)
}
