package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
)

// In-memory stand-ins for the Mongo repositories. They mirror the index
// behavior the real stores rely on: duplicate email/phone and duplicate vote
// come back as the domain conflict errors.

type fakeCredentialStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{users: make(map[string]*models.User)}
}

func (s *fakeCredentialStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return repositories.ErrEmailExists
	}
	if user.Phone != "" {
		for _, existing := range s.users {
			if existing.Phone == user.Phone {
				return repositories.ErrPhoneExists
			}
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

func (s *fakeCredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *fakeCredentialStore) MarkVerified(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsVerified = true
	user.OTPInfo = nil
	return nil
}

type fakeChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*models.EmailOTP
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: make(map[string]*models.EmailOTP)}
}

func (s *fakeChallengeStore) Put(ctx context.Context, otp *models.EmailOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *otp
	s.challenges[otp.Email] = &cp
	return nil
}

func (s *fakeChallengeStore) Get(ctx context.Context, email string) (*models.EmailOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp, ok := s.challenges[email]
	if !ok {
		return nil, repositories.ErrOTPNotFound
	}
	cp := *otp
	return &cp, nil
}

func (s *fakeChallengeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}

func (s *fakeChallengeStore) DeleteExpired(ctx context.Context) (int64, error) {
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

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (d *fakeDispatcher) SendSignupOTP(email, name, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, otp)
	return nil
}

func (d *fakeDispatcher) lastCode() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return ""
	}
	return d.sent[len(d.sent)-1]
}

type fakeBallotLedger struct {
	mu         sync.Mutex
	votes      map[string]*models.Vote
	candidates []models.Candidate
}

func newFakeBallotLedger(candidates ...models.Candidate) *fakeBallotLedger {
	return &fakeBallotLedger{
		votes:      make(map[string]*models.Vote),
		candidates: candidates,
	}
}

func (l *fakeBallotLedger) CastVote(ctx context.Context, vote *models.Vote) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, cand := range l.candidates {
		if cand.EnrollmentNum == vote.EnrollmentNum {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repositories.ErrUnknownCandidate
	}

	if _, ok := l.votes[vote.Email]; ok {
		return repositories.ErrAlreadyVoted
	}

	vote.CastAt = time.Now()
	cp := *vote
	l.votes[vote.Email] = &cp
	l.candidates[idx].Votes++
	return nil
}

func (l *fakeBallotLedger) HasVoted(ctx context.Context, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.votes[email]
	return ok, nil
}

func (l *fakeBallotLedger) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Candidate, len(l.candidates))
	copy(out, l.candidates)
	return out, nil
}

func (l *fakeBallotLedger) TopCandidates(ctx context.Context, n int) ([]models.Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Candidate, len(l.candidates))
	copy(out, l.candidates)

	// Stable sort keeps insertion order for equal tallies
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Votes > out[j-1].Votes; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func (l *fakeBallotLedger) tally(enrollment string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, cand := range l.candidates {
		if cand.EnrollmentNum == enrollment {
			return cand.Votes
		}
	}
	return -1
}

// request helpers

func doJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return resp
}
