package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
	"github.com/Dosada05/lamasia-league/state"
	"github.com/jonboulle/clockwork"
)

// memStore backs every fake repository and doubles as an always-synced
// state.Reader.
type memStore struct {
	mu            sync.Mutex
	nextID        int
	teams         map[int]models.Team
	rounds        map[int]models.Round
	players       map[int]models.Player
	matches       map[int]models.Match
	users         map[int]models.User
	identities    map[int]models.Identity
	notifications map[int]models.Notification
	version       uint64
}

func newMemStore() *memStore {
	return &memStore{
		teams:         make(map[int]models.Team),
		rounds:        make(map[int]models.Round),
		players:       make(map[int]models.Player),
		matches:       make(map[int]models.Match),
		users:         make(map[int]models.User),
		identities:    make(map[int]models.Identity),
		notifications: make(map[int]models.Notification),
	}
}

func (s *memStore) id() int {
	s.nextID++
	s.version++
	return s.nextID
}

func (s *memStore) Snapshot() state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := state.Snapshot{Version: s.version}
	for _, t := range s.teams {
		snap.Teams = append(snap.Teams, t)
	}
	sort.Slice(snap.Teams, func(i, j int) bool { return snap.Teams[i].ID < snap.Teams[j].ID })
	for _, r := range s.rounds {
		snap.Rounds = append(snap.Rounds, r)
	}
	sort.Slice(snap.Rounds, func(i, j int) bool { return snap.Rounds[i].ID < snap.Rounds[j].ID })
	for _, p := range s.players {
		snap.Players = append(snap.Players, p)
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })
	for _, m := range s.matches {
		snap.Matches = append(snap.Matches, m)
	}
	sort.Slice(snap.Matches, func(i, j int) bool { return snap.Matches[i].ID < snap.Matches[j].ID })
	for _, u := range s.users {
		snap.Users = append(snap.Users, u)
	}
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	for _, n := range s.notifications {
		snap.Notifications = append(snap.Notifications, n)
	}
	sort.Slice(snap.Notifications, func(i, j int) bool { return snap.Notifications[i].ID < snap.Notifications[j].ID })
	return snap
}

func (s *memStore) notificationList() []models.Notification {
	return s.Snapshot().Notifications
}

// --- teams

type fakeTeamRepo struct{ s *memStore }

func (r fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.teams {
		if t.Category == team.Category && t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.s.id()
	r.s.teams[team.ID] = *team
	return nil
}

func (r fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (r fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	return r.s.Snapshot().Teams, nil
}

func (r fakeTeamRepo) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	r.s.version++
	return nil
}

// --- rounds

type fakeRoundRepo struct{ s *memStore }

func (r fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.Round) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	round.ID = r.s.id()
	r.s.rounds[round.ID] = *round
	return nil
}

func (r fakeRoundRepo) GetByID(ctx context.Context, id int) (*models.Round, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	round, ok := r.s.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	return &round, nil
}

func (r fakeRoundRepo) List(ctx context.Context) ([]models.Round, error) {
	return r.s.Snapshot().Rounds, nil
}

func (r fakeRoundRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rounds[id]; !ok {
		return repositories.ErrRoundNotFound
	}
	delete(r.s.rounds, id)
	r.s.version++
	return nil
}

// --- matches

type fakeMatchRepo struct{ s *memStore }

func (r fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match.ID = r.s.id()
	r.s.matches[match.ID] = *match
	return nil
}

func (r fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r fakeMatchRepo) List(ctx context.Context, filter repositories.MatchFilter) ([]models.Match, error) {
	out := make([]models.Match, 0)
	for _, m := range r.s.Snapshot().Matches {
		if filter.Category != nil && m.Category != *filter.Category {
			continue
		}
		if filter.RoundID != nil && m.RoundID != *filter.RoundID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r fakeMatchRepo) UpdateStats(ctx context.Context, exec repositories.SQLExecutor, id int, stats models.MatchStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Stats = stats
	r.s.matches[id] = m
	r.s.version++
	return nil
}

func (r fakeMatchRepo) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.s.matches, id)
	r.s.version++
	return nil
}

func (r fakeMatchRepo) DeleteByRound(ctx context.Context, exec repositories.SQLExecutor, roundID int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.matches {
		if m.RoundID == roundID {
			delete(r.s.matches, id)
			n++
		}
	}
	r.s.version++
	return n, nil
}

// --- players

type fakePlayerRepo struct{ s *memStore }

func (r fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	player.ID = r.s.id()
	r.s.players[player.ID] = *player
	return nil
}

func (r fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r fakePlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	return r.s.Snapshot().Players, nil
}

func (r fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	out := make([]models.Player, 0)
	for _, p := range r.s.Snapshot().Players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakePlayerRepo) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.s.players, id)
	r.s.version++
	return nil
}

func (r fakePlayerRepo) SyncGoals(ctx context.Context, exec repositories.SQLExecutor, playerIDs []int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range playerIDs {
		p, ok := r.s.players[id]
		if !ok {
			continue
		}
		p.Goals = 0
		for _, m := range r.s.matches {
			if !m.Stats.IsPlayed {
				continue
			}
			for _, sc := range m.Stats.Scorers {
				if sc.PlayerID == id {
					p.Goals += sc.Count
				}
			}
		}
		r.s.players[id] = p
	}
	return nil
}

// --- users and identities

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[user.ID]; exists {
		return nil
	}
	r.s.users[user.ID] = *user
	r.s.version++
	return nil
}

func (r fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	return r.s.Snapshot().Users, nil
}

func (r fakeUserRepo) UpdateRole(ctx context.Context, id int, role models.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	r.s.users[id] = u
	return nil
}

func (r fakeUserRepo) UpdateRoleAndTeam(ctx context.Context, id int, role models.Role, teamID *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Role = role
	u.TeamID = teamID
	r.s.users[id] = u
	return nil
}

type fakeIdentityRepo struct{ s *memStore }

func (r fakeIdentityRepo) Create(ctx context.Context, exec repositories.SQLExecutor, identity *models.Identity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.identities {
		if strings.EqualFold(existing.Email, identity.Email) {
			return repositories.ErrIdentityEmailConflict
		}
	}
	identity.ID = r.s.id()
	r.s.identities[identity.ID] = *identity
	return nil
}

func (r fakeIdentityRepo) GetByID(ctx context.Context, id int) (*models.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	identity, ok := r.s.identities[id]
	if !ok {
		return nil, repositories.ErrIdentityNotFound
	}
	return &identity, nil
}

func (r fakeIdentityRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, identity := range r.s.identities {
		if strings.EqualFold(identity.Email, email) {
			found := identity
			return &found, nil
		}
	}
	return nil, repositories.ErrIdentityNotFound
}

// --- notifications

type fakeNotificationRepo struct{ s *memStore }

func (r fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.id()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r fakeNotificationRepo) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	return &n, nil
}

func (r fakeNotificationRepo) List(ctx context.Context) ([]models.Notification, error) {
	return r.s.Snapshot().Notifications, nil
}

func (r fakeNotificationRepo) MarkRead(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

// --- collaborators

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type recordingPopups struct {
	mu     sync.Mutex
	pushed []models.Notification
}

func (p *recordingPopups) PushPopup(n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, n)
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendNotificationEmail(to, subject, message string) error {
	m.sent = append(m.sent, to+"|"+subject)
	return m.err
}

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// env wires every service against one memStore.
type env struct {
	store  *memStore
	tx     *fakeTx
	clock  *clockwork.FakeClock
	popups *recordingPopups

	notifications NotificationService
	teams         TeamService
	rounds        RoundService
	matches       MatchService
	players       PlayerService
	users         UserService
	auth          AuthService
	queries       QueryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := newMemStore()
	tx := &fakeTx{}
	clock := clockwork.NewFakeClockAt(testNow)
	popups := &recordingPopups{}
	logger := testLogger()

	teamRepo := fakeTeamRepo{store}
	roundRepo := fakeRoundRepo{store}
	matchRepo := fakeMatchRepo{store}
	playerRepo := fakePlayerRepo{store}
	userRepo := fakeUserRepo{store}

	notifications := NewNotificationService(fakeNotificationRepo{store}, userRepo, store, popups, nil, clock, logger)
	auth := NewAuthService(tx, fakeIdentityRepo{store}, userRepo, notifications, logger).(*authService)
	auth.cost = 4 // bcrypt.MinCost

	return &env{
		store:         store,
		tx:            tx,
		clock:         clock,
		popups:        popups,
		notifications: notifications,
		teams:         NewTeamService(teamRepo, notifications, logger),
		rounds:        NewRoundService(tx, roundRepo, matchRepo, teamRepo, notifications, logger),
		matches:       NewMatchService(tx, matchRepo, roundRepo, teamRepo, playerRepo, notifications, logger),
		players:       NewPlayerService(playerRepo, teamRepo, logger),
		users:         NewUserService(userRepo, teamRepo, store, notifications, logger),
		auth:          auth,
		queries:       NewQueryService(store),
	}
}

func (e *env) addUser(role models.Role, teamID *int) *models.User {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	u := models.User{ID: e.store.id(), Email: string(role) + "@lamasia.test", Name: string(role), Role: role, TeamID: teamID}
	e.store.users[u.ID] = u
	return &u
}

func (e *env) addTeam(name string, c models.Category) models.Team {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	t := models.Team{ID: e.store.id(), Name: name, Category: c, Color: models.TeamColors[0]}
	e.store.teams[t.ID] = t
	return t
}

func (e *env) addRound(name string) models.Round {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	r := models.Round{ID: e.store.id(), Name: name}
	e.store.rounds[r.ID] = r
	return r
}

func (e *env) addPlayer(name string, teamID int) models.Player {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	p := models.Player{ID: e.store.id(), Name: name, TeamID: teamID}
	e.store.players[p.ID] = p
	return p
}

func (e *env) addMatch(roundID int, c models.Category, home, away int) models.Match {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	m := models.Match{ID: e.store.id(), RoundID: roundID, Category: c, Date: testNow, HomeTeamID: home, AwayTeamID: away,
		Stats: models.MatchStats{Scorers: []models.ScorerEntry{}}}
	e.store.matches[m.ID] = m
	return m
}

func intPtr(v int) *int { return &v }
