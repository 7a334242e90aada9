package handler

import (
	"net/http"

	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdateAccount overwrites the current user's name and email.
func UpdateAccount(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Fail(c, util.Unauthorized("Unauthorized request"))
			return
		}

		var req updateAccountReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, util.BadRequest("Full name and email are required"))
			return
		}

		updated, err := users.UpdateProfile(user.ID, req.FullName, req.Email)
		if err != nil {
			util.Fail(c, err)
			return
		}

		util.JSON(c, http.StatusOK, updated, "Account details updated successfully")
	}
}

// ChangePassword re-hashes and stores a new password after verifying the
// old one.
func ChangePassword(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Fail(c, util.Unauthorized("Unauthorized request"))
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, util.BadRequest("Old and new passwords are required"))
			return
		}

		if err := users.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
			util.Fail(c, err)
			return
		}

		util.JSON(c, http.StatusOK, gin.H{}, "Password changed successfully")
	}
}
