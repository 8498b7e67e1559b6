package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// milestoneHandler handles HTTP requests for the milestone lifecycle.
type milestoneHandler struct {
	milestoneService portssvc.MilestoneSvcFacade
}

// newMilestoneHandler creates a new milestoneHandler.
func newMilestoneHandler(ms portssvc.MilestoneSvcFacade) *milestoneHandler {
	return &milestoneHandler{
		milestoneService: ms,
	}
}

// registerMilestoneRoutes registers the milestone lifecycle routes.
func registerMilestoneRoutes(rg *gin.RouterGroup, milestoneService portssvc.MilestoneSvcFacade) {
	h := newMilestoneHandler(milestoneService)

	milestones := rg.Group("/milestones/:milestone_id")
	{
		milestones.GET("", h.getMilestone)
		milestones.POST("/start", h.startMilestone)
		milestones.POST("/submit", h.submitWork)
		milestones.POST("/approve", h.approveMilestone)
		milestones.POST("/revision", h.requestRevision)
		milestones.POST("/dispute", h.markDisputed)
		milestones.POST("/cancel", h.markCancelled)
	}
}

func (h *milestoneHandler) getMilestone(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	milestone, err := h.milestoneService.GetMilestone(c.Request.Context(), actor, c.Param("milestone_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMilestoneResponse(milestone))
}

// startMilestone moves a NOT_STARTED milestone to IN_PROGRESS. Freelancer only.
func (h *milestoneHandler) startMilestone(c *gin.Context) {
	h.transition(c, func(actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
		return h.milestoneService.StartMilestone(c.Request.Context(), actor, milestoneID)
	})
}

// submitWork hands over artifacts for client review. Freelancer only.
func (h *milestoneHandler) submitWork(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitWork", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.transition(c, func(actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
		return h.milestoneService.SubmitWork(c.Request.Context(), actor, milestoneID, req)
	})
}

// approveMilestone accepts submitted work and triggers escrow release. Client only.
// A release failure after a successful approval is reported as 502 so the
// client retries the approve call, which falls through to release recovery.
func (h *milestoneHandler) approveMilestone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveMilestoneRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ApproveMilestone", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	milestoneID := c.Param("milestone_id")
	milestone, err := h.milestoneService.ApproveMilestone(c.Request.Context(), actor, milestoneID, req.Feedback)
	if err != nil {
		// A non-nil milestone alongside an error means the approval committed
		// but the release did not.
		if milestone != nil {
			logger.Error("Milestone approved but release failed", slog.String("milestone_id", milestoneID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "milestone approved but payment release failed, retry approval",
				"milestone": dto.ToMilestoneResponse(milestone),
			})
			return
		}
		respondWithError(c, err)
		return
	}

	logger.Info("Milestone approved", slog.String("milestone_id", milestoneID))
	c.JSON(http.StatusOK, dto.ToMilestoneResponse(milestone))
}

// requestRevision sends submitted work back for another iteration. Client only.
func (h *milestoneHandler) requestRevision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestRevision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.transition(c, func(actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
		return h.milestoneService.RequestRevision(c.Request.Context(), actor, milestoneID, req.Reason)
	})
}

func (h *milestoneHandler) markDisputed(c *gin.Context) {
	h.transition(c, func(actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
		return h.milestoneService.MarkDisputed(c.Request.Context(), actor, milestoneID)
	})
}

func (h *milestoneHandler) markCancelled(c *gin.Context) {
	h.transition(c, func(actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
		return h.milestoneService.MarkCancelled(c.Request.Context(), actor, milestoneID)
	})
}

// transition runs one lifecycle operation with the shared auth and error plumbing.
func (h *milestoneHandler) transition(c *gin.Context, op func(domain.ActorContext, string) (*domain.Milestone, error)) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	milestone, err := op(actor, c.Param("milestone_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMilestoneResponse(milestone))
}
