package chat_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/session"
	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
)

// UseCase диалоговая запись: конечный автомат поверх use case'ов бронирования.
// Каждое сообщение загружает сессию, выполняет один переход и сохраняет ее
type UseCase struct {
	sessions     SessionStore
	services     ServiceCatalog
	booker       BookingCreator
	slots        SlotFinder
	staff        StaffFinder
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessions SessionStore,
	services ServiceCatalog,
	booker BookingCreator,
	slots SlotFinder,
	staff StaffFinder,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = domain.DefaultPhoneRegion
	}
	if cfg.MaxOptions <= 0 {
		cfg.MaxOptions = 8
	}
	return &UseCase{
		sessions:     sessions,
		services:     services,
		booker:       booker,
		slots:        slots,
		staff:        staff,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute обрабатывает одно сообщение диалога
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracing.Start(ctx, "chat_booking.Execute",
		attribute.String("chat.conversation_id", req.ConversationID),
	)
	defer func() { tracing.End(span, err) }()

	text := strings.TrimSpace(req.Text)
	if req.ConversationID == "" || len(req.ConversationID) > maxConversationIDLength {
		return nil, fmt.Errorf("%w: conversationId must be 1..%d characters", ErrInvalidInput, maxConversationIDLength)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}

	// 1. Загружаем сессию или начинаем новый диалог
	sess, err := uc.sessions.Load(ctx, req.ConversationID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			uc.logger.Error("ChatBooking: failed to load session %s: %v", req.ConversationID, err)
			return nil, fmt.Errorf("%w: load: %v", ErrSession, err)
		}
		sess = &session.Session{ConversationID: req.ConversationID, State: string(StateStart)}
	}

	from := State(sess.State)
	if isRestart(text) {
		resetSession(sess)
	}

	// 2. Один переход автомата
	t, err := uc.step(ctx, sess, text)
	if err != nil {
		uc.logger.Error("ChatBooking: conversation %s, state %s: %v", req.ConversationID, sess.State, err)
		return nil, err
	}

	// 3. Сохраняем состояние
	sess.UpdatedAt = uc.timeProvider.Now()
	if err := uc.sessions.Save(ctx, sess); err != nil {
		uc.logger.Error("ChatBooking: failed to save session %s: %v", req.ConversationID, err)
		return nil, fmt.Errorf("%w: save: %v", ErrSession, err)
	}

	uc.logger.Info("ChatBooking: conversation %s: %s -> %s", req.ConversationID, from, sess.State)

	return &Response{
		ConversationID: sess.ConversationID,
		State:          State(sess.State),
		Reply:          t.reply,
		Options:        t.options,
		Appointment:    t.appointment,
	}, nil
}

func isRestart(text string) bool {
	switch strings.ToLower(text) {
	case "restart", "/start", "start over", "cancel":
		return true
	}
	return false
}

func resetSession(sess *session.Session) {
	sess.State = string(StateStart)
	sess.Data = nil
}
