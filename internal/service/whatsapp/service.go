package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/config"
	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/service/commands"
	"github.com/mamadbah2/feedplanner/internal/service/planner"
	client "github.com/mamadbah2/feedplanner/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	sessions   *SessionManager
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, sessions *SessionManager, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		sessions:   sessions,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.sessions == nil {
		svc.sessions = NewSessionManager(time.Hour)
	}
	return svc
}

var (
	replyInvalidArguments = models.AutomationReply{
		Title:   "Could not read that command",
		Message: commands.HelpText,
	}
	replyUnsupported = models.AutomationReply{
		Title:   "Command Help",
		Message: "Unknown command.\n" + commands.HelpText,
	}
	replyUnknownPhase = models.AutomationReply{
		Title:   "Unknown Phase",
		Message: "That bird type or phase is not in the table. Send /phases for the list.",
	}
	replyFailure = models.AutomationReply{
		Title:   "Feed Planner",
		Message: "Something went wrong while preparing your answer. Please try again.",
	}
)

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every inbound message in the payload. It returns the
// first internal failure; command mistakes are answered and not reported.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, msg := range payload.Messages() {
		if err := s.handleInboundMessage(ctx, msg, payload.ContactName(msg.From)); err != nil {
			s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage, senderName string) error {
	text := msg.Body()
	if text == "" {
		return errors.New("empty message body")
	}

	cmd := s.withSession(msg.From, models.ParseCommand(text))

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("name", senderName),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	body, dispatchErr := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if dispatchErr != nil {
		body = replyFor(dispatchErr).Text()
	} else if cmd.Type == models.CommandPlan {
		s.remember(msg.From, cmd.Args)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.From,
		Body:       body,
		PreviewURL: false,
	})
	if err != nil {
		return err
	}

	if dispatchErr != nil && !isUserError(dispatchErr) {
		return dispatchErr
	}
	return nil
}

// withSession fills a bare /optimize with the sender's last plan selection.
func (s *MetaWhatsAppService) withSession(sender string, cmd models.Command) models.Command {
	if cmd.Type != models.CommandOptimize || len(cmd.Args) > 0 {
		return cmd
	}
	state, ok := s.sessions.GetSession(sender)
	if !ok {
		return cmd
	}
	args := []string{state.BirdType, state.Phase}
	args = append(args, strings.Fields(strings.Join(state.Ingredients, ", "))...)
	cmd.Args = args
	return cmd
}

func (s *MetaWhatsAppService) remember(sender string, args []string) {
	if len(args) < 3 {
		return
	}
	var ingredients []string
	for _, part := range strings.Split(strings.Join(args[3:], " "), ",") {
		if name := strings.TrimSpace(part); name != "" {
			ingredients = append(ingredients, name)
		}
	}
	s.sessions.UpdateSession(sender, Session{BirdType: args[0], Phase: args[1], Ingredients: ingredients})
}

func isUserError(err error) bool {
	return errors.Is(err, commands.ErrInvalidArguments) ||
		errors.Is(err, commands.ErrUnsupportedCommand) ||
		errors.Is(err, planner.ErrUnknownPhase)
}

func replyFor(err error) models.AutomationReply {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return replyInvalidArguments
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return replyUnsupported
	case errors.Is(err, planner.ErrUnknownPhase):
		return replyUnknownPhase
	}
	return replyFailure
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}
