package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/NomadCrew/feedback-board/errors"
	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/services"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/gin-gonic/gin"
)

// Messages for storage faults, one per operation.
const (
	msgFetchFailed  = "Failed to fetch feedback"
	msgSubmitFailed = "Failed to submit feedback"
	msgUpdateFailed = "Failed to update feedback"
	msgDeleteFailed = "Failed to delete feedback"
)

// FeedbackHandler serves the /api/feedback resource.
type FeedbackHandler struct {
	service           FeedbackServiceInterface
	legacyErrorStatus bool
}

// NewFeedbackHandler creates a new FeedbackHandler. With legacyErrorStatus set,
// missing entries are reported as a generic 500 instead of 404.
func NewFeedbackHandler(service FeedbackServiceInterface, legacyErrorStatus bool) *FeedbackHandler {
	return &FeedbackHandler{service: service, legacyErrorStatus: legacyErrorStatus}
}

// bindJSONOrError binds the JSON body into obj. Malformed bodies are reported
// the same way as missing fields.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed(services.MsgMissingFields, err.Error()))
		return false
	}
	return true
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Returns every feedback entry, newest first
// @Tags         feedback
// @Produce      json
// @Success      200  {array}   types.Feedback
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	feedback, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "", msgFetchFailed)
		return
	}
	if feedback == nil {
		feedback = []*types.Feedback{}
	}
	c.JSON(http.StatusOK, feedback)
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Stores a new feedback entry with a generated id and creation time
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackCreate  true  "Feedback payload"
// @Success      201   {object}  types.Feedback
// @Failure      400   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "", msgSubmitFailed)
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// UpdateFeedback godoc
// @Summary      Edit feedback
// @Description  Replaces name and message of an entry. When version is sent the edit only applies if it still matches.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackUpdate  true  "Edited entry"
// @Success      200   {object}  types.Feedback
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Failure      409   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /api/feedback [patch]
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	var req types.FeedbackUpdate
	if !bindJSONOrError(c, &req) {
		return
	}

	fb, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, req.ID, msgUpdateFailed)
		return
	}

	c.JSON(http.StatusOK, fb)
}

// DeleteFeedback godoc
// @Summary      Delete feedback
// @Description  Removes an entry and returns its last state
// @Tags         feedback
// @Produce      json
// @Param        id   query     string  true  "Feedback ID"
// @Success      200  {object}  types.Feedback
// @Failure      400  {object}  types.ErrorResponse
// @Failure      404  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/feedback [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	id := c.Query("id")

	fb, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, id, msgDeleteFailed)
		return
	}

	c.JSON(http.StatusOK, fb)
}

// handleError converts service and store errors into AppErrors for the
// error middleware. failMsg is shown for storage faults.
func (h *FeedbackHandler) handleError(c *gin.Context, err error, id string, failMsg string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		_ = c.Error(appErr)
	case errors.Is(err, store.ErrNotFound):
		if h.legacyErrorStatus {
			logger.GetLogger().Infow("Feedback not found, reporting legacy status", "feedbackID", id)
			_ = c.Error(apperrors.NewDatabaseError(err, failMsg))
			return
		}
		notFound := apperrors.NotFound("Feedback", id)
		notFound.Raw = err
		_ = c.Error(notFound)
	case errors.Is(err, store.ErrConflict):
		conflict := apperrors.NewConflictError("Feedback was changed by someone else", "reload the entry and try again")
		conflict.Raw = err
		_ = c.Error(conflict)
	default:
		_ = c.Error(apperrors.NewDatabaseError(err, failMsg))
	}
}
