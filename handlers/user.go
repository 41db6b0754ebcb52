package handlers

import (
	"net/http"

	"attendance/auth"
	"attendance/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, success := models.UserLogin(postReq.Username, postReq.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"error": "", "username": user.Username})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
