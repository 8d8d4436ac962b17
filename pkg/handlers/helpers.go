package handlers

import (
	"net/http"

	"coal-market-api/pkg/models"
	"coal-market-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// filterQuery 絞り込み条件のクエリパラメータ
type filterQuery struct {
	Location string `form:"location"`
	Type     string `form:"type"`
	Start    string `form:"start"`
	End      string `form:"end"`
}

// bindFilter はクエリから絞り込み条件を組み立てます。日付が不正なら 400 を返して false。
func bindFilter(c *gin.Context, engine *services.MarketAnalyticsService) (models.FilterCriteria, filterQuery, bool) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return models.FilterCriteria{}, q, false
	}

	start, err := services.ParseDate(q.Start, engine.Location())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return models.FilterCriteria{}, q, false
	}
	end, err := services.ParseDate(q.End, engine.Location())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return models.FilterCriteria{}, q, false
	}

	return models.FilterCriteria{
		Location: q.Location,
		Type:     q.Type,
		Start:    start,
		End:      end,
	}, q, true
}

// respondOK 成功レスポンス
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError エラーレスポンス
func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
