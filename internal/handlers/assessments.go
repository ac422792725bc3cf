package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ipsstrack/api/internal/middleware"
	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/scoring"
)

func userIDOrAbort(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

type submitAssessmentRequest struct {
	Q1    *int    `json:"q1"`
	Q2    *int    `json:"q2"`
	Q3    *int    `json:"q3"`
	Q4    *int    `json:"q4"`
	Q5    *int    `json:"q5"`
	Q6    *int    `json:"q6"`
	Q7    *int    `json:"q7"`
	QoL   *int    `json:"qol"`
	Notes *string `json:"notes"`
}

func (r submitAssessmentRequest) submission() scoring.Submission {
	return scoring.Submission{
		Items: [scoring.NumItems]*int{r.Q1, r.Q2, r.Q3, r.Q4, r.Q5, r.Q6, r.Q7},
		QoL:   r.QoL,
	}
}

func (h HandlerSet) SubmitAssessment(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var req submitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.assessments.Submit(c.Request.Context(), userID, req.submission(), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessmentId": result.ID,
		"totalScore":   result.TotalScore,
		"category":     result.Category,
	})
}

type assessmentResponse struct {
	ID         string    `json:"id"`
	Q1         int       `json:"q1"`
	Q2         int       `json:"q2"`
	Q3         int       `json:"q3"`
	Q4         int       `json:"q4"`
	Q5         int       `json:"q5"`
	Q6         int       `json:"q6"`
	Q7         int       `json:"q7"`
	QoL        int       `json:"qol"`
	TotalScore int       `json:"totalScore"`
	Category   string    `json:"category"`
	Notes      *string   `json:"notes"`
	Date       time.Time `json:"date"`
}

func toAssessmentResponse(a models.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:         a.ID,
		Q1:         a.Items[0],
		Q2:         a.Items[1],
		Q3:         a.Items[2],
		Q4:         a.Items[3],
		Q5:         a.Items[4],
		Q6:         a.Items[5],
		Q7:         a.Items[6],
		QoL:        a.QoL,
		TotalScore: a.TotalScore,
		Category:   string(a.Category),
		Notes:      a.Notes,
		Date:       a.Date,
	}
}

func (h HandlerSet) ListAssessments(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	assessments, err := h.assessments.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]assessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		resp = append(resp, toAssessmentResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{"assessments": resp})
}
