package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sms-gateway/internal/config"
	"sms-gateway/internal/db"
	"sms-gateway/internal/events"
	"sms-gateway/internal/ipauth"
	"sms-gateway/internal/logging"
	"sms-gateway/internal/models"
	"sms-gateway/internal/store"
)

// Sender delivers one message body to one destination phone number.
type Sender interface {
	Send(ctx context.Context, phoneNumber, body string) error
}

// Service runs a send request through validation, authorization and dispatch.
// db and producer are optional; when nil, receipts and events are skipped.
type Service struct {
	store    store.UserStore
	sender   Sender
	db       *db.DB
	producer *events.Producer
	logger   *logging.Logger
	config   config.Config
}

// New constructs the send Service.
func New(st store.UserStore, sender Sender, dbConn *db.DB, producer *events.Producer, logger *logging.Logger, cfg config.Config) *Service {
	return &Service{
		store:    st,
		sender:   sender,
		db:       dbConn,
		producer: producer,
		logger:   logger,
		config:   cfg,
	}
}

// Handle processes one send request from a caller at clientIP. The returned
// error classifies the outcome: *ValidationError covers format and lookup
// rejections, ErrNotAuthorized an allowlist miss, anything else is internal.
// A nil return means every recipient was sent to.
func (s *Service) Handle(ctx context.Context, clientIP string, req models.SendRequest) error {
	requestID := uuid.New()

	// Format checks run before any external call is made.
	if err := validate(req, s.config.SMS.AllowedPrefixes); err != nil {
		return err
	}

	rec, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return &ValidationError{Kind: UserNotFound}
		}
		return fmt.Errorf("user record lookup failed: %w", err)
	}

	matcher, err := ipauth.NewMatcher(rec.AllowedIPs)
	if err != nil {
		return fmt.Errorf("allowlist for user %s is unusable: %w", req.UserID, err)
	}
	if !matcher.Contains(clientIP) {
		s.logger.Warnf("request %s: source %s not in allowlist for user %s", requestID, clientIP, req.UserID)
		return ErrNotAuthorized
	}

	recipients := req.PhoneNumbers
	if len(recipients) == 0 {
		recipients = rec.PhoneNumbers
	}
	if len(recipients) == 0 {
		return &ValidationError{Kind: NoRecipients}
	}

	// The tag is joined with a single space however the operator wrote it.
	body := strings.TrimRight(s.config.SMS.MessageTag, " ") + " " + req.Message

	// Sends run one at a time. The first failure aborts the rest of the
	// batch; earlier deliveries stand and their receipts record that.
	var sendErr error
	for _, number := range recipients {
		err := s.sender.Send(ctx, number, body)
		s.recordReceipt(ctx, requestID, req.UserID, number, err)
		if err != nil {
			sendErr = fmt.Errorf("send to %s failed: %w", number, err)
			break
		}
		s.logger.Infof("request %s: sent to %s", requestID, number)
	}

	status := models.DeliverySent
	if sendErr != nil {
		status = models.DeliveryFailed
	}
	s.publishEvent(ctx, requestID, req.UserID, recipients, status)

	return sendErr
}

// recordReceipt writes one delivery receipt, best-effort. A receipt failure
// never changes the request outcome.
func (s *Service) recordReceipt(ctx context.Context, requestID uuid.UUID, userID, recipient string, sendErr error) {
	if s.db == nil {
		return
	}
	r := models.DeliveryReceipt{
		ID:        uuid.New(),
		RequestID: requestID,
		UserID:    userID,
		Recipient: recipient,
		Status:    models.DeliverySent,
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		r.Status = models.DeliveryFailed
		r.Error = sendErr.Error()
	}
	if err := s.db.CreateReceipt(ctx, r); err != nil {
		s.logger.Errorf("request %s: receipt write failed: %v", requestID, err)
	}
}

// publishEvent emits one dispatch event, best-effort.
func (s *Service) publishEvent(ctx context.Context, requestID uuid.UUID, userID string, recipients []string, status string) {
	if s.producer == nil {
		return
	}
	ev := events.DispatchEvent{
		RequestID:  requestID.String(),
		UserID:     userID,
		Recipients: recipients,
		Status:     status,
		At:         time.Now(),
	}
	if err := s.producer.Publish(ctx, ev); err != nil {
		s.logger.Errorf("request %s: event publish failed: %v", requestID, err)
	}
}
