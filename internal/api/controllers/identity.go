package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"modelflow/pkg/utils"
)

// callerIdentity pulls the authenticated account out of the context set by
// the JWT middleware. A false return means the response has been written.
func callerIdentity(c *gin.Context) (uuid.UUID, string, bool) {
	accountID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid session")
		c.Abort()
		return uuid.Nil, "", false
	}
	return accountID, c.GetString("user_email"), true
}
