package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scerios/quiz/domain"
)

// Store is the slice of the persistence gateway the coordinator needs. Every
// call may fail independently; a failure suppresses the outbound message it
// was feeding and is logged, never crashing the event loop.
type Store interface {
	ClearPlayerByConnection(ctx context.Context, connectionID string) error
	SetPlayerStatusAndConnection(ctx context.Context, id int64, loggedIn bool, connectionID string) error
	GetPlayerByID(ctx context.Context, id int64) (domain.Player, error)
	SetCategoryQuestionIndex(ctx context.Context, categoryID int64, index int) error
	NextTwoQuestions(ctx context.Context, categoryID int64, index int) ([]domain.Question, error)
	SetCategoryLimit(ctx context.Context, limit int) error
	AdjustPlayerPoint(ctx context.Context, id int64, delta int) error
	ListLoggedInPlayers(ctx context.Context) ([]domain.Player, error)
	SetPlayerStatus(ctx context.Context, id int64, loggedIn bool) error
}

// PeriodicTickerCreator lets tests substitute the ping ticker.
type PeriodicTickerCreator interface {
	Create(d time.Duration) <-chan time.Time
}

type TickerGen struct{}

func (TickerGen) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

func NewTickerGen() TickerGen {
	return TickerGen{}
}

type inboundEvent struct {
	from *client
	env  Envelope
}

type joinRequest struct {
	client *client
	done   chan struct{}
}

// Coordinator is the session's event-routing state machine. One goroutine
// (Run) owns the registry, the round state and the admin registration; all
// inbound events funnel through its inbox, which makes the doubler claim a
// plain check-and-set and keeps every handler free of locking.
type Coordinator struct {
	store   Store
	reg     *registry
	round   roundState
	emit    emitter
	tickers PeriodicTickerCreator
	log     zerolog.Logger

	inbox  chan inboundEvent
	joins  chan joinRequest
	leaves chan *client

	storeTimeout time.Duration
}

const (
	pingPeriod          = 30 * time.Second
	defaultStoreTimeout = 5 * time.Second
)

func NewCoordinator(store Store, tickers PeriodicTickerCreator, log zerolog.Logger) *Coordinator {
	reg := newRegistry()
	return &Coordinator{
		store:        store,
		reg:          reg,
		emit:         emitter{reg: reg, log: log},
		tickers:      tickers,
		log:          log,
		inbox:        make(chan inboundEvent, 256),
		joins:        make(chan joinRequest),
		leaves:       make(chan *client, 32),
		storeTimeout: defaultStoreTimeout,
	}
}

// Join registers a fresh connection as live and returns once the event loop
// has recorded it, so events read after Join can never race the
// registration. No persistence side effect.
func (s *Coordinator) Join(c *client) {
	req := joinRequest{client: c, done: make(chan struct{})}
	s.joins <- req
	<-req.done
}

// Leave requests removal of a connection. Called by the read pump when the
// socket dies.
func (s *Coordinator) Leave(c *client) {
	s.leaves <- c
}

// Deliver hands an inbound envelope to the event loop.
func (s *Coordinator) Deliver(from *client, env Envelope) {
	s.inbox <- inboundEvent{from: from, env: env}
}

// Run is the event loop. It closes started once it is consuming, and runs for
// the life of the process; the session is a process-wide singleton.
func (s *Coordinator) Run(started chan struct{}) {
	pings := s.tickers.Create(pingPeriod)
	close(started)

	for {
		select {
		case req := <-s.joins:
			s.reg.add(req.client)
			s.log.Debug().Str("conn", req.client.id).Msg("connected")
			close(req.done)

		case c := <-s.leaves:
			s.handleDisconnect(c)

		case <-pings:
			s.pingClients()

		case ev := <-s.inbox:
			if err := s.dispatch(ev); err != nil {
				s.log.Error().Err(err).
					Str("event", ev.env.Event).
					Str("conn", ev.from.id).
					Msg("event handling failed")
			}
		}
	}
}

func (s *Coordinator) dispatch(ev inboundEvent) error {
	if !s.reg.contains(ev.from) {
		return ErrUnknownConnection
	}

	switch ev.env.Event {
	case EventPostAdminSocketID:
		s.reg.setAdmin(ev.from)
		return nil
	case EventSignUpForGame:
		return s.handleSignUp(ev.from, ev.env.Data)
	case EventPickQuestion:
		return s.handlePickQuestion(ev.env.Data)
	case EventRaiseCategoryLimit:
		return s.handleRaiseCategoryLimit(ev.env.Data)
	case EventCollectAnswers:
		s.emit.broadcast(MsgForcePostAnswer, nil)
		return nil
	case EventPostAnswer:
		return s.handlePostAnswer(ev.from, ev.env.Data)
	case EventFinishQuestion:
		return s.handleFinishQuestion(ev.env.Data)
	case EventLogoutEveryone:
		return s.handleLogoutEveryone()
	case EventTakeChances:
		s.handleTakeChances(ev.from)
		return nil
	case EventAuthorizePlayer:
		return s.handleAuthorizePlayer(ev.env.Data)
	case EventChooseCategory:
		return s.handleChooseCategory(ev.env.Data)
	default:
		s.log.Debug().Str("event", ev.env.Event).Msg("ignoring unknown event")
		return nil
	}
}

func (s *Coordinator) storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.storeTimeout)
}

// handleDisconnect removes the connection, best-effort marks the associated
// player logged out, and tells the admin who left. The removal is never
// rolled back on persistence failure.
func (s *Coordinator) handleDisconnect(c *client) {
	if !s.reg.contains(c) {
		return
	}

	s.reg.remove(c)
	close(c.outbox)
	close(c.pings)
	s.log.Debug().Str("conn", c.id).Msg("disconnected")

	ctx, cancel := s.storeCtx()
	defer cancel()

	if err := s.store.ClearPlayerByConnection(ctx, c.id); err != nil {
		s.log.Error().Err(err).Str("conn", c.id).Msg("disconnect cleanup failed")
		return
	}

	s.emit.toAdmin(MsgPlayerLeft, playerLeftMsg{PlayerSocketID: c.id})
}

// handleSignUp binds a player identity to the sender's connection and shows
// the player to the admin. On any persistence failure the event is dropped so
// the admin never sees a partial record.
func (s *Coordinator) handleSignUp(from *client, data json.RawMessage) error {
	var payload signUpData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	ctx, cancel := s.storeCtx()
	defer cancel()

	if err := s.store.SetPlayerStatusAndConnection(ctx, payload.PlayerID, true, from.id); err != nil {
		return fmt.Errorf("bind player %d: %w", payload.PlayerID, err)
	}
	s.reg.bindPlayer(payload.PlayerID, from)

	player, err := s.store.GetPlayerByID(ctx, payload.PlayerID)
	if err != nil {
		return fmt.Errorf("fetch player %d: %w", payload.PlayerID, err)
	}

	s.emit.toAdmin(MsgShowPlayer, showPlayerMsg{Player: newPlayerView(player)})
	return nil
}

// handlePickQuestion starts a new round: resets the doubler, persists the
// category's question index, then fans out the stripped question to players
// and the full current-plus-lookahead pair to the admin. A persistence
// failure suppresses both sends.
func (s *Coordinator) handlePickQuestion(data json.RawMessage) error {
	var payload pickQuestionData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	s.round.reset()

	ctx, cancel := s.storeCtx()
	defer cancel()

	if err := s.store.SetCategoryQuestionIndex(ctx, payload.CategoryID, payload.Index); err != nil {
		return fmt.Errorf("persist question index: %w", err)
	}

	questions, err := s.store.NextTwoQuestions(ctx, payload.CategoryID, payload.Index)
	if err != nil {
		return fmt.Errorf("fetch questions: %w", err)
	}

	current := questions[0]

	s.emit.broadcast(MsgGetNextQuestion, nextQuestionMsg{
		Question: current.Text,
		Category: categoryRef{ID: current.CategoryID, Name: current.CategoryName},
		Timer:    payload.Timer,
	})

	adminMsg := adminQuestionMsg{Question: newQuestionView(current)}
	if len(questions) > 1 {
		lookahead := newQuestionView(questions[1])
		adminMsg.NextQuestion = &lookahead
	}
	s.emit.toAdmin(MsgGetQuestion, adminMsg)

	return nil
}

func (s *Coordinator) handleRaiseCategoryLimit(data json.RawMessage) error {
	var payload raiseLimitData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	ctx, cancel := s.storeCtx()
	defer cancel()

	// Fire-and-forget: the admin UI tracks the new limit on its own.
	return s.store.SetCategoryLimit(ctx, payload.Index)
}

// handlePostAnswer relays a submission, stamped with the sender's connection
// id, to the admin only. Answers are never echoed to other players.
func (s *Coordinator) handlePostAnswer(from *client, data json.RawMessage) error {
	var payload postAnswerData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	s.emit.toAdmin(MsgGetAnswer, getAnswerMsg{Player: answeredPlayer{
		ID:        payload.Player.ID,
		SocketID:  from.id,
		Name:      payload.Player.Name,
		TimeLeft:  payload.Player.TimeLeft,
		Answer:    payload.Player.Answer,
		IsDoubled: payload.Player.IsDoubled,
	}})
	return nil
}

// handleFinishQuestion scores the round. Entries are independent: one failed
// write is logged and skipped without blocking the rest. The point sent back
// is computed from the caller-supplied value, not re-read after the write.
func (s *Coordinator) handleFinishQuestion(data json.RawMessage) error {
	var payload finishQuestionData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	for _, entry := range payload.Correct {
		s.scoreEntry(entry, entry.ChangeValue)
	}
	for _, entry := range payload.Incorrect {
		s.scoreEntry(entry, -entry.ChangeValue)
	}
	return nil
}

func (s *Coordinator) scoreEntry(entry scoreEntry, delta int) {
	ctx, cancel := s.storeCtx()
	defer cancel()

	if err := s.store.AdjustPlayerPoint(ctx, entry.ID, delta); err != nil {
		s.log.Error().Err(err).
			Int64("playerId", entry.ID).
			Int("delta", delta).
			Msg("score update failed")
		return
	}

	if ok := s.emit.toID(entry.SocketID, MsgUpdatePoint, updatePointMsg{Point: entry.Point + delta}); !ok {
		s.log.Debug().Str("conn", entry.SocketID).Msg("scored player no longer connected")
	}
}

// handleLogoutEveryone marks every logged-in player logged out. Batch,
// fire-and-forget, no outbound messages.
func (s *Coordinator) handleLogoutEveryone() error {
	ctx, cancel := s.storeCtx()
	defer cancel()

	players, err := s.store.ListLoggedInPlayers(ctx)
	if err != nil {
		return fmt.Errorf("list logged-in players: %w", err)
	}

	for _, p := range players {
		if err := s.store.SetPlayerStatus(ctx, p.ID, false); err != nil {
			s.log.Error().Err(err).Int64("playerId", p.ID).Msg("logout failed")
		}
	}
	return nil
}

// handleTakeChances resolves the doubler claim: the first caller of the round
// wins and everyone else gets the power-up disabled; later callers only get
// a personal rejection.
func (s *Coordinator) handleTakeChances(from *client) {
	if !s.round.claimDoubler() {
		s.emit.toConn(from, MsgDoublerClicked, doublerClickedMsg{IsClicked: false})
		return
	}

	s.emit.toConn(from, MsgDoublerClicked, doublerClickedMsg{IsClicked: true})
	s.emit.broadcastExcept(from, MsgDoublerDisabled, nil)
}

func (s *Coordinator) handleAuthorizePlayer(data json.RawMessage) error {
	var payload authorizePlayerData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	if ok := s.emit.toID(payload.PlayerSocketID, MsgAuthorizeCategoryPick, nil); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, payload.PlayerSocketID)
	}
	return nil
}

func (s *Coordinator) handleChooseCategory(data json.RawMessage) error {
	var payload chooseCategoryData
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	s.emit.toAdmin(MsgChosenCategory, chosenCategoryMsg{CategoryID: payload.CategoryID})
	return nil
}

func (s *Coordinator) pingClients() {
	for _, c := range s.reg.clients {
		select {
		case c.pings <- struct{}{}:
		default:
		}
	}
}
