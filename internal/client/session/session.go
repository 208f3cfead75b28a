// Package session holds the state of an interactive client session.
package session

import (
	"io"

	"latrones/internal/client/api"
	"latrones/internal/core"
)

type Session struct {
	APIBaseURL       string
	CurrentGame      string
	CurrentUser      string
	AuthToken        string
	Username         string
	LastActionCount  int
	CurrentGameState *core.GameResponse
	Client           *api.Client
	Verbose          bool
	Out              io.Writer
}

func (s *Session) GetAPIBaseURL() string    { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(url string) { s.APIBaseURL = url }

func (s *Session) GetCurrentGame() string { return s.CurrentGame }

// SetCurrentGame switches games and forgets the cached state of the old one
func (s *Session) SetCurrentGame(id string) {
	if id != s.CurrentGame {
		s.CurrentGameState = nil
		s.LastActionCount = 0
	}
	s.CurrentGame = id
}

func (s *Session) GetCurrentUser() string   { return s.CurrentUser }
func (s *Session) SetCurrentUser(id string) { s.CurrentUser = id }

func (s *Session) GetAuthToken() string      { return s.AuthToken }
func (s *Session) SetAuthToken(token string) { s.AuthToken = token }

func (s *Session) GetUsername() string         { return s.Username }
func (s *Session) SetUsername(username string) { s.Username = username }

func (s *Session) GetLastActionCount() int      { return s.LastActionCount }
func (s *Session) SetLastActionCount(count int) { s.LastActionCount = count }

func (s *Session) GetClient() *api.Client { return s.Client }
func (s *Session) IsVerbose() bool        { return s.Verbose }

func (s *Session) GetGameState() *core.GameResponse { return s.CurrentGameState }

// SetGameState caches the latest game response and its action count
func (s *Session) SetGameState(state *core.GameResponse) {
	s.CurrentGameState = state
	if state != nil {
		s.LastActionCount = state.ActionCount
	}
}

func (s *Session) Output() io.Writer { return s.Out }
