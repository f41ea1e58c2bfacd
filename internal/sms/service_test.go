package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-gateway/internal/config"
	"sms-gateway/internal/logging"
	"sms-gateway/internal/models"
	"sms-gateway/internal/store"
)

type mockStore struct {
	records map[string]models.UserRecord
	err     error
	calls   int
}

func (m *mockStore) GetUser(ctx context.Context, userID string) (models.UserRecord, error) {
	m.calls++
	if m.err != nil {
		return models.UserRecord{}, m.err
	}
	rec, ok := m.records[userID]
	if !ok {
		return models.UserRecord{}, store.ErrUserNotFound
	}
	return rec, nil
}

type sentMessage struct {
	To   string
	Body string
}

type mockSender struct {
	sent   []sentMessage
	failOn string // recipient whose send fails
}

func (m *mockSender) Send(ctx context.Context, phoneNumber, body string) error {
	if phoneNumber == m.failOn {
		return errors.New("delivery refused")
	}
	m.sent = append(m.sent, sentMessage{To: phoneNumber, Body: body})
	return nil
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.SMS.MessageTag = "[Navi.AI]"
	cfg.SMS.AllowedPrefixes = []string{"+8210", "+82010"}
	return cfg
}

func newTestService(t *testing.T, st store.UserStore, sender Sender) *Service {
	t.Helper()
	logger, err := logging.New(t.TempDir(), "error")
	require.NoError(t, err)
	return New(st, sender, nil, nil, logger, testConfig())
}

func storeWith(rec models.UserRecord) *mockStore {
	return &mockStore{records: map[string]models.UserRecord{"123456789": rec}}
}

func TestHandleSuccess(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"10.0.0.0/8"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	err := svc.Handle(context.Background(), "10.1.2.3", req)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+821012345678", sender.sent[0].To)
	assert.Equal(t, "[Navi.AI] hello", sender.sent[0].Body)
	assert.Equal(t, 1, st.calls, "record fetched exactly once")
}

func TestHandleTagJoinedWithSingleSpace(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"10.0.0.0/8"}})
	sender := &mockSender{}

	logger, err := logging.New(t.TempDir(), "error")
	require.NoError(t, err)
	cfg := testConfig()
	cfg.SMS.MessageTag = "[Navi.AI] " // operator wrote the separator themselves
	svc := New(st, sender, nil, nil, logger, cfg)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	require.NoError(t, svc.Handle(context.Background(), "10.1.2.3", req))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "[Navi.AI] hello", sender.sent[0].Body)
}

func TestHandleFallbackRecipients(t *testing.T) {
	st := storeWith(models.UserRecord{
		AllowedIPs:   []string{"10.0.0.0/8"},
		PhoneNumbers: []string{"+821099999999"},
	})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{UserID: "123456789", Message: "hello"}
	err := svc.Handle(context.Background(), "10.1.2.3", req)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+821099999999", sender.sent[0].To)
}

func TestHandleExplicitRecipientsWinOverDefaults(t *testing.T) {
	st := storeWith(models.UserRecord{
		AllowedIPs:   []string{"10.0.0.0/8"},
		PhoneNumbers: []string{"+821099999999"},
	})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821011112222"},
	}
	require.NoError(t, svc.Handle(context.Background(), "10.1.2.3", req))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+821011112222", sender.sent[0].To)
}

func TestHandleNoRecipients(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"10.0.0.0/8"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{UserID: "123456789", Message: "hello"}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NoRecipients, verr.Kind)
	assert.Empty(t, sender.sent)
}

func TestHandleUserNotFound(t *testing.T) {
	st := &mockStore{records: map[string]models.UserRecord{}}
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{UserID: "123456789", Message: "hello"}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UserNotFound, verr.Kind)
	assert.Empty(t, sender.sent)
}

func TestHandleStoreError(t *testing.T) {
	st := &mockStore{err: errors.New("connection reset")}
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{UserID: "123456789", Message: "hello"}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "store failures are internal, not validation")
	assert.NotErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, sender.sent)
}

func TestHandleIPDenied(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"192.168.0.0/16"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, sender.sent, "no send happens for a denied caller")
}

func TestHandleIPAllowedBySecondRange(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"192.168.0.0/16", "10.0.0.0/8"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	assert.NoError(t, svc.Handle(context.Background(), "10.1.2.3", req))
}

func TestHandleBadAllowlistIsInternal(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"not-a-cidr"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, sender.sent)
}

func TestHandleSendFailureAbortsBatch(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"10.0.0.0/8"}})
	sender := &mockSender{failOn: "+821022222222"}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821011111111", "+821022222222", "+821033333333"},
	}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	require.Error(t, err)
	// The first delivery already happened and stands; the third never ran.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+821011111111", sender.sent[0].To)
}

func TestHandleValidationBeforeLookup(t *testing.T) {
	st := &mockStore{records: map[string]models.UserRecord{}}
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{UserID: "bad", Message: "hello"}
	err := svc.Handle(context.Background(), "10.1.2.3", req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, InvalidUserID, verr.Kind)
	assert.Zero(t, st.calls, "no lookup before validation passes")
}

// Re-running the same request against the same record classifies the same
// way each time.
func TestHandleClassificationIsStable(t *testing.T) {
	st := storeWith(models.UserRecord{AllowedIPs: []string{"192.168.0.0/16"}})
	sender := &mockSender{}
	svc := newTestService(t, st, sender)

	req := models.SendRequest{
		UserID:       "123456789",
		Message:      "hello",
		PhoneNumbers: []string{"+821012345678"},
	}
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, svc.Handle(context.Background(), "10.1.2.3", req), ErrNotAuthorized)
	}
}
