package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/middleware"
	"route_scheduler/internal/services"
)

type adminSendCodeInput struct {
	Email string `json:"email" binding:"required,email"`
}

type adminVerifyCodeInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// AdminSendCode handles adminAuth.sendCode.
func AdminSendCode(c *gin.Context) {
	var input adminSendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := deps.LoginCodes.RequestAdminCode(input.Email, requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// AdminVerifyCode handles adminAuth.verifyCode. On success it issues a
// session, sets the admin cookie and returns the token for non-cookie
// clients.
func AdminVerifyCode(c *gin.Context) {
	var input adminVerifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := deps.LoginCodes.VerifyAdminCode(input.Email, input.Code, requestMeta(c)); err != nil {
		respondError(c, err)
		return
	}

	session, err := deps.Sessions.IssueAdmin(input.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, middleware.AdminSessionCookie, session.Token, int(services.AdminSessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"token": session.Token,
		"admin": gin.H{"email": input.Email},
	})
}

// AdminMe handles adminAuth.me.
func AdminMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{"email": c.GetString("admin_email")},
	})
}

// AdminLogout handles adminAuth.logout. Revocation is idempotent, so an
// already-dead token still logs out cleanly.
func AdminLogout(c *gin.Context) {
	if err := deps.Sessions.Revoke(middleware.AdminToken(c)); err != nil {
		respondError(c, err)
		return
	}

	clearSessionCookie(c, middleware.AdminSessionCookie)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func setSessionCookie(c *gin.Context, name, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, maxAge, "/", "", true, true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", true, true)
}
