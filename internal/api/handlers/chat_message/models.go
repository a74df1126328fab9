package chat_message

import (
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	chatBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/chat_booking"
)

// MessageRequest HTTP request model
type MessageRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// MessageResponse HTTP response model
type MessageResponse struct {
	ConversationID string                                `json:"conversationId"`
	State          string                                `json:"state"`
	Reply          string                                `json:"reply"`
	Options        []string                              `json:"options,omitempty"`
	Appointment    *createBookingHandler.BookingResponse `json:"appointment,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *chatBooking.Response) *MessageResponse {
	result := &MessageResponse{
		ConversationID: resp.ConversationID,
		State:          string(resp.State),
		Reply:          resp.Reply,
		Options:        resp.Options,
	}
	if resp.Appointment != nil {
		result.Appointment = createBookingHandler.FromUseCaseResponse(resp.Appointment)
	}
	return result
}
