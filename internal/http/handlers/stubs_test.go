package handlers

import (
	"context"
	"sync"
	"time"

	"campusconnect/internal/accounts"
	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

// visitRepoStub backs a real visits.Service in handler tests.
type visitRepoStub struct {
	mu       sync.Mutex
	recorded []domain.VisitEvent
	days     []string
	counts   []domain.DailyVisitCount
	readErr  error
	writeErr error
	from, to string
}

func (s *visitRepoStub) RecordVisit(_ context.Context, e domain.VisitEvent, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.recorded = append(s.recorded, e)
	s.days = append(s.days, day)
	return int64(len(s.recorded)), nil
}

func (s *visitRepoStub) DailyCounts(_ context.Context, from, to string) ([]domain.DailyVisitCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.from, s.to = from, to
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.counts, nil
}

func (s *visitRepoStub) PurgeBefore(context.Context, time.Time, string) (domain.PurgeResult, error) {
	return domain.PurgeResult{}, nil
}

type accountStub struct {
	registered  []accounts.SignUp
	registerErr error
	session     *accounts.Session
	loginErr    error
	loggedOut   []*auth.Claims
	user        *domain.User
	admin       *domain.Admin
	lastUpdate  domain.ProfileUpdate
	counts      accounts.Counts
	countErr    error
	lastPage    domain.Page
	users       []domain.User
	admins      []domain.Admin
}

func (s *accountStub) Register(_ context.Context, in accounts.SignUp) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = append(s.registered, in)
	return &domain.User{ID: "u-1", Name: in.Name, Email: in.Email}, nil
}

func (s *accountStub) Login(_ context.Context, _, _ string) (*accounts.Session, error) {
	return s.session, s.loginErr
}

func (s *accountStub) AdminLogin(_ context.Context, _, _ string) (*accounts.Session, error) {
	return s.session, s.loginErr
}

func (s *accountStub) Logout(_ context.Context, c *auth.Claims) error {
	s.loggedOut = append(s.loggedOut, c)
	return nil
}

func (s *accountStub) Profile(context.Context, string) (*domain.User, error) {
	if s.user == nil {
		return nil, domain.ErrNotFound
	}
	return s.user, nil
}

func (s *accountStub) UpdateProfile(_ context.Context, _ string, up domain.ProfileUpdate) (*domain.User, error) {
	s.lastUpdate = up
	return s.user, nil
}

func (s *accountStub) AdminProfile(context.Context, string) (*domain.Admin, error) {
	if s.admin == nil {
		return nil, domain.ErrNotFound
	}
	return s.admin, nil
}

func (s *accountStub) UpdateAdminProfile(_ context.Context, _ string, up domain.ProfileUpdate) (*domain.Admin, error) {
	s.lastUpdate = up
	return s.admin, nil
}

func (s *accountStub) Counts(context.Context) (accounts.Counts, error) {
	return s.counts, s.countErr
}

func (s *accountStub) ListUsers(_ context.Context, p domain.Page) (accounts.Listing[domain.User], error) {
	p = accounts.ClampPage(p)
	s.lastPage = p
	return accounts.Listing[domain.User]{Items: s.users, Page: p, Total: int64(len(s.users)), TotalPages: p.TotalPages(int64(len(s.users)))}, nil
}

func (s *accountStub) ListAdmins(_ context.Context, p domain.Page) (accounts.Listing[domain.Admin], error) {
	p = accounts.ClampPage(p)
	s.lastPage = p
	return accounts.Listing[domain.Admin]{Items: s.admins, Page: p, Total: int64(len(s.admins)), TotalPages: p.TotalPages(int64(len(s.admins)))}, nil
}

type resetStub struct {
	requested  []string
	confirmErr error
}

func (s *resetStub) Request(_ context.Context, email, locale string) error {
	s.requested = append(s.requested, email+"|"+locale)
	return nil
}

func (s *resetStub) Confirm(context.Context, string, string, string) error {
	return s.confirmErr
}
