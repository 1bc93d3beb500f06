package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/cryptown/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signupBody struct {
	Email           string `json:"email"`
	UserName        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileBody struct {
	UserName        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (a *API) Signup(c *gin.Context) {
	var data signupBody
	if err := c.ShouldBindJSON(&data); err != nil {
		a.badRequest(c, err)
		return
	}

	user, err := a.users.Signup(c.Request.Context(), data.Email, data.UserName, data.Password, data.ConfirmPassword)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and, on success, issues a session token.
func (a *API) Login(c *gin.Context) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		a.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.Login(ctx, data.Email, data.Password, services.LoginMeta{
		ClientIP:  c.ClientIP(),
		RequestID: c.GetString(requestIDKey),
	})
	if err != nil {
		a.writeError(c, err)
		return
	}

	token, err := a.users.IssueSession(ctx, user.ID)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (a *API) Profile(c *gin.Context) {
	user, err := a.users.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *API) UpdateProfile(c *gin.Context) {
	var data updateProfileBody
	if err := c.ShouldBindJSON(&data); err != nil {
		a.badRequest(c, err)
		return
	}

	user, err := a.users.UpdateProfile(c.Request.Context(), c.GetString(userIDKey),
		data.UserName, data.Password, data.ConfirmPassword)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout revokes the token the request was authenticated with.
func (a *API) Logout(c *gin.Context) {
	if err := a.users.Logout(c.Request.Context(), c.GetString(userIDKey), c.GetString(tokenKey)); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
