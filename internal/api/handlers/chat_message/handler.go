package chat_message

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	chatBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/chat_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionUnavailable = "диалог временно недоступен, попробуйте позже"
)

type Handler struct {
	useCase ChatUseCase
	logger  Logger
}

func NewHandler(useCase ChatUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/chat/{conversationId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	var req MessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /chat/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /chat/{id}/messages - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &chatBooking.Request{
		ConversationID: conversationID,
		Text:           req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, chatBooking.ErrInvalidInput):
			h.logger.Warn("POST /chat/{id}/messages - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, chatBooking.ErrSession):
			h.logger.Error("POST /chat/{id}/messages - Session store failed: conversation=%s, error=%v", conversationID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgSessionUnavailable)

		default:
			h.logger.Error("POST /chat/{id}/messages - Failed to handle message: conversation=%s, error=%v", conversationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /chat/{id}/messages - Message handled: conversation=%s, state=%s", conversationID, result.State)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
