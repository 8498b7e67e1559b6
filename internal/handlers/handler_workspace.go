package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workspaceHandler handles HTTP requests related to workspaces.
type workspaceHandler struct {
	workspaceService portssvc.WorkspaceSvcFacade
}

// newWorkspaceHandler creates a new workspaceHandler.
func newWorkspaceHandler(ws portssvc.WorkspaceSvcFacade) *workspaceHandler {
	return &workspaceHandler{
		workspaceService: ws,
	}
}

// registerWorkspaceRoutes registers routes related to workspaces.
func registerWorkspaceRoutes(rg *gin.RouterGroup, workspaceService portssvc.WorkspaceSvcFacade) {
	h := newWorkspaceHandler(workspaceService)

	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.createWorkspace)
		workspaces.GET("/:workspace_id", h.getWorkspace)
		workspaces.GET("/:workspace_id/milestones", h.listMilestones)
	}
}

// createWorkspace establishes a workspace and its milestone plan once a
// contract is accepted. The caller becomes the client.
func (h *workspaceHandler) createWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorkspace", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), actor, req)
	if err != nil {
		logger.Error("Failed to create workspace", slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	logger.Info("Workspace created", slog.String("workspace_id", workspace.WorkspaceID))
	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(workspace))
}

// getWorkspace returns the workspace with freshly derived progress and its milestones.
func (h *workspaceHandler) getWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspace_id")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workspace, milestones, err := h.workspaceService.GetWorkspace(c.Request.Context(), actor, workspaceID)
	if err != nil {
		logger.Warn("Failed to get workspace", slog.String("workspace_id", workspaceID), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GetWorkspaceResponse{
		Workspace:  dto.ToWorkspaceResponse(workspace),
		Milestones: dto.ToMilestoneResponses(milestones),
	})
}

// listMilestones returns the workspace's milestone plan ordered by phase.
func (h *workspaceHandler) listMilestones(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workspaceID := c.Param("workspace_id")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	_, milestones, err := h.workspaceService.GetWorkspace(c.Request.Context(), actor, workspaceID)
	if err != nil {
		logger.Warn("Failed to list milestones", slog.String("workspace_id", workspaceID), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": dto.ToMilestoneResponses(milestones)})
}
