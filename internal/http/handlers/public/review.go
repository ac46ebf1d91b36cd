package public

import (
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// AddReviewRequest 提交评价请求
type AddReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// AddReview 对商品提交评分评论，每个用户每件商品只能评一次
func (h *Handler) AddReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	review, err := h.ReviewService.Add(service.AddReviewInput{
		ProductID: req.ProductID,
		UserID:    uid,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "评价提交失败")
		return
	}
	response.Success(c, review)
}
