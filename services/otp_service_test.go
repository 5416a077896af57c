package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
)

type memChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*models.EmailOTP
}

func newMemChallengeStore() *memChallengeStore {
	return &memChallengeStore{challenges: make(map[string]*models.EmailOTP)}
}

func (s *memChallengeStore) Put(ctx context.Context, otp *models.EmailOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *otp
	s.challenges[otp.Email] = &cp
	return nil
}

func (s *memChallengeStore) Get(ctx context.Context, email string) (*models.EmailOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp, ok := s.challenges[email]
	if !ok {
		return nil, repositories.ErrOTPNotFound
	}
	cp := *otp
	return &cp, nil
}

func (s *memChallengeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}

func (s *memChallengeStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for email, otp := range s.challenges {
		if now.After(otp.ExpiresAt) {
			delete(s.challenges, email)
			n++
		}
	}
	return n, nil
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []string // codes in dispatch order
	err  error
}

func (d *recordingDispatcher) SendSignupOTP(email, name, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, otp)
	return nil
}

func signupReq() *models.SignupRequest {
	return &models.SignupRequest{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "pw123",
	}
}

func TestIssueStoresAndDispatches(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	otp, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	assert.Len(t, otp.OTP, 6)
	assert.True(t, otp.ExpiresAt.After(time.Now()))
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, otp.OTP, dispatcher.sent[0])

	stored, err := store.Get(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, otp.OTP, stored.OTP)
	require.NotNil(t, stored.SignupData)
	assert.Equal(t, "Ann", stored.SignupData.Name)
}

func TestIssueDispatchFailureRemovesChallenge(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{err: errors.New("smtp down")}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	_, err := svc.Issue(context.Background(), signupReq())
	require.Error(t, err)

	_, err = store.Get(context.Background(), "ann@x.com")
	assert.Equal(t, repositories.ErrOTPNotFound, err)
}

func TestIssueReplacesPriorChallenge(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	first, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	second, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	// The first code is dead as soon as the second is issued
	if first.OTP != second.OTP {
		_, err = svc.Verify(context.Background(), "ann@x.com", first.OTP)
		assert.Equal(t, repositories.ErrOTPInvalid, err)
	}

	payload, err := svc.Verify(context.Background(), "ann@x.com", second.OTP)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", payload.Email)
}

func TestVerifySuccessConsumesChallenge(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	otp, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	payload, err := svc.Verify(context.Background(), "ann@x.com", otp.OTP)
	require.NoError(t, err)
	assert.Equal(t, "Ann", payload.Name)
	assert.Equal(t, "pw123", payload.Password)

	// The same code can never validate twice
	_, err = svc.Verify(context.Background(), "ann@x.com", otp.OTP)
	assert.Equal(t, repositories.ErrOTPNotFound, err)
}

func TestVerifyMismatchKeepsChallenge(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	otp, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "ann@x.com", "000000")
	assert.Equal(t, repositories.ErrOTPInvalid, err)

	// Retry with the right code still works
	_, err = svc.Verify(context.Background(), "ann@x.com", otp.OTP)
	assert.NoError(t, err)
}

func TestVerifyExpiredDeletesChallenge(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, -1*time.Minute)

	otp, err := svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "ann@x.com", otp.OTP)
	assert.Equal(t, repositories.ErrOTPExpired, err)

	// Deleted on the expiry path, so a later attempt sees no challenge
	_, err = svc.Verify(context.Background(), "ann@x.com", otp.OTP)
	assert.Equal(t, repositories.ErrOTPNotFound, err)
}

func TestVerifyUnknownEmail(t *testing.T) {
	svc := NewOTPService(newMemChallengeStore(), &recordingDispatcher{}, nil, 10*time.Minute)

	_, err := svc.Verify(context.Background(), "nobody@x.com", "123456")
	assert.Equal(t, repositories.ErrOTPNotFound, err)
}

func TestReissue(t *testing.T) {
	store := newMemChallengeStore()
	dispatcher := &recordingDispatcher{}
	svc := NewOTPService(store, dispatcher, nil, 10*time.Minute)

	_, err := svc.Reissue(context.Background(), "ann@x.com")
	assert.Equal(t, repositories.ErrOTPNotFound, err)

	_, err = svc.Issue(context.Background(), signupReq())
	require.NoError(t, err)

	reissued, err := svc.Reissue(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, reissued.SignupData)
	assert.Equal(t, "Ann", reissued.SignupData.Name)
	assert.Len(t, dispatcher.sent, 2)
}
