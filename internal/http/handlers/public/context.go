package public

import (
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func getUserRole(c *gin.Context) string {
	return handlershared.GetContextString(c, "user_role")
}
