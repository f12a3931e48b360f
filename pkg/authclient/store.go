package authclient

import (
	"net/http"
	"sync"
	"time"

	"github.com/mkravets/agency_crm/pkg/cookies"
)

// TokenStore abstracts where the session token lives so callers can swap
// the cookie-backed store for an in-memory one in tests. Clear is always
// safe to call, token or not.
type TokenStore interface {
	Get() string
	Set(token string, exp time.Time)
	Clear()
}

type MemoryStore struct {
	mu    sync.Mutex
	token string
	exp   time.Time
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || (!s.exp.IsZero() && time.Now().After(s.exp)) {
		return ""
	}
	return s.token
}

func (s *MemoryStore) Set(token string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.exp = exp
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.exp = time.Time{}
}

// CookieStore persists the token in the session cookie of one in-flight
// request/response pair, for handlers rendering on behalf of a browser.
type CookieStore struct {
	Req    *http.Request
	Res    http.ResponseWriter
	Secure bool
}

func NewCookieStore(res http.ResponseWriter, req *http.Request, secure bool) *CookieStore {
	return &CookieStore{Req: req, Res: res, Secure: secure}
}

func (s *CookieStore) Get() string {
	ck, err := s.Req.Cookie(cookies.SessionCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}

func (s *CookieStore) Set(token string, exp time.Time) {
	http.SetCookie(s.Res, cookies.CreateSession(token, exp, s.Secure))
}

func (s *CookieStore) Clear() {
	http.SetCookie(s.Res, cookies.DeleteSession(s.Secure))
}
