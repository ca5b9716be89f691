package combat

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/duelworks/duel-server-go/internal/cards"
	"go.uber.org/zap"
)

// Config holds the combat tunables of one session.
type Config struct {
	InitialHandSize    int
	MaxHandSize        int
	CritChance         float64
	CritMultiplier     float64
	ResponderPlayDelay time.Duration
}

// DefaultConfig returns the stock combat configuration.
func DefaultConfig() Config {
	return Config{
		InitialHandSize:    5,
		MaxHandSize:        10,
		CritChance:         0.1,
		CritMultiplier:     1.5,
		ResponderPlayDelay: 750 * time.Millisecond,
	}
}

// lockedRand makes one seeded *rand.Rand safe for use from concurrent fights.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRand returns a concurrency-safe Rand seeded with seed. Sessions default
// to a crypto-entropy seed; tests pass a fixed one for determinism.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func entropySeed() int64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// Session is the authoritative container for one combat phase: the round
// counter, the fight registry, and the turn orchestration over every active
// fight. All mutations of fight and entity state flow through it.
//
// Concurrency model: the server is single-writer per fight. Remote intents
// for one fight are serialized through the fight's mutex; independent fights
// progress in parallel. Cross-fight round bookkeeping is serialized through
// roundMu, which decides "all fights reached round end" exactly once per
// round.
type Session struct {
	logger   *zap.Logger
	catalog  cards.Catalog
	registry *Registry
	notifier Notifier
	clock    Clock
	rng      Rand
	resolver *Resolver
	cfg      Config
	auth     Authority

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	roundMu sync.Mutex
	round   int
	started bool
}

// NewSession constructs a combat session. Multiple sessions can coexist;
// there is no ambient global state.
func NewSession(catalog cards.Catalog, registry *Registry, notifier Notifier, cfg Config, logger *zap.Logger) *Session {
	if notifier == nil {
		notifier = NewNullNotifier(logger)
	}
	s := &Session{
		logger:   logger,
		catalog:  catalog,
		registry: registry,
		notifier: notifier,
		clock:    NewRealClock(),
		rng:      NewRand(entropySeed()),
		cfg:      cfg,
		auth:     ServerAuthority(),
	}
	s.resolver = NewResolver(s.rng, cfg.CritChance, cfg.CritMultiplier, logger)
	return s
}

// SetNotifier replaces the observer notifier. Call before Start; the
// transport layer binds itself here once it is constructed.
func (s *Session) SetNotifier(notifier Notifier) {
	if notifier != nil {
		s.notifier = notifier
	}
}

// SetClock replaces the pacing clock. Call before Start.
func (s *Session) SetClock(clock Clock) {
	s.clock = clock
}

// SetRand replaces the randomness source. Call before Start.
func (s *Session) SetRand(rng Rand) {
	s.rng = rng
	s.resolver.rng = rng
}

// Registry returns the session's fight registry.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Round returns the current round number (0 before the session starts).
func (s *Session) Round() int {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()
	return s.round
}

// Start validates the session's collaborators and begins round 1 for every
// registered fight. Missing collaborators are fatal configuration errors:
// combat refuses to start rather than run inconsistently.
func (s *Session) Start(ctx context.Context) error {
	if s.catalog == nil {
		return errors.New("combat session requires a card catalog")
	}
	if s.registry == nil {
		return errors.New("combat session requires a fight registry")
	}

	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	if s.started {
		return errors.New("combat session already started")
	}
	if s.registry.Len() == 0 {
		return errors.New("no fights registered")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.startRoundLocked()

	if s.logger != nil {
		s.logger.Info("combat session started",
			zap.Int("fights", s.registry.Len()),
		)
	}
	return nil
}

// Started reports whether Start has been called.
func (s *Session) Started() bool {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()
	return s.started
}

// StartFight brings a fight registered after Start into the session at the
// current round.
func (s *Session) StartFight(fight *Fight) error {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	if !s.started {
		return errors.New("combat session not started")
	}
	if fight == nil {
		return ErrInvalidReference
	}
	s.beginRoundForFight(fight)
	return nil
}

// Close cancels all automated turns and waits for them to finish.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// startRoundLocked increments the round counter and begins the round for
// every fight still active. Caller holds roundMu.
func (s *Session) startRoundLocked() {
	s.round++
	s.notifier.RoundStarted(s.round)

	for _, fight := range s.registry.ActiveFights() {
		if fight.Concluded() {
			continue
		}
		s.beginRoundForFight(fight)
	}

	if s.logger != nil {
		s.logger.Info("round started", zap.Int("round", s.round))
	}
}

// beginRoundForFight replenishes energy, shuffles, draws the opening hands,
// and hands the turn to the initiator.
func (s *Session) beginRoundForFight(fight *Fight) {
	for _, entity := range []*Entity{fight.Initiator, fight.Responder} {
		if err := entity.ReplenishEnergy(s.auth); err != nil {
			continue
		}
		entity.Shuffle(s.rng)
		draw := s.cfg.InitialHandSize
		if room := s.cfg.MaxHandSize - entity.HandSize(); draw > room {
			draw = room
		}
		entity.DrawN(s.rng, draw)
	}

	fight.setState(TurnInitiator)
	s.notifier.TurnChanged(fight.ID, fight.Initiator.ID, TurnInitiator)
	if fight.ConnID != "" {
		s.notifier.Message(fight.ConnID, "Your turn")
	}
}

// PlayCard handles a remote play-card intent. Valid only during the caller's
// own initiator turn; the card must be in hand, resolve in the catalog, and
// be affordable. A failed validation returns the typed error to the caller
// and mutates nothing. Playing a card does not end the turn.
func (s *Session) PlayCard(connID, cardID string) error {
	fight, ok := s.registry.GetFightByConnection(connID)
	if !ok {
		return ErrFightNotFound
	}

	fight.mu.Lock()
	if fight.state != TurnInitiator {
		fight.mu.Unlock()
		return ErrNotYourTurn
	}

	caster := fight.Initiator
	if !caster.HandContains(cardID) {
		fight.mu.Unlock()
		return ErrCardNotInHand
	}

	def, err := s.catalog.GetCardByID(cardID)
	if err != nil {
		fight.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}

	if caster.Energy() < def.Cost {
		fight.mu.Unlock()
		return ErrInsufficientEnergy
	}

	target := effectTarget(fight, caster, def)
	if err := caster.ChangeEnergy(s.auth, -def.Cost); err != nil {
		fight.mu.Unlock()
		return err
	}
	if err := s.resolver.ApplyEffect(s.auth, caster, target, def); err != nil {
		// Roll the energy back: a failed effect must not be partially applied.
		_ = caster.ChangeEnergy(s.auth, def.Cost)
		fight.mu.Unlock()
		return err
	}
	if err := caster.DiscardOne(cardID); err != nil {
		fight.mu.Unlock()
		return err
	}

	outcome, concluded := s.concludeLocked(fight)
	fight.mu.Unlock()

	s.notifier.CardPlayed(fight.ID, caster.ID, target.ID, cardID)
	if s.logger != nil {
		s.logger.Debug("card played",
			zap.String("fight_id", fight.ID),
			zap.String("caster_id", caster.ID),
			zap.String("card_id", cardID),
		)
	}

	if concluded {
		s.finishFight(fight, outcome)
	}
	return nil
}

// EndTurn handles a remote end-turn intent: the initiator's hand is
// discarded, the fight moves to the responder turn, and the automated
// responder plays out in the background.
func (s *Session) EndTurn(connID string) error {
	fight, ok := s.registry.GetFightByConnection(connID)
	if !ok {
		return ErrFightNotFound
	}

	fight.mu.Lock()
	if fight.state != TurnInitiator {
		fight.mu.Unlock()
		return ErrNotYourTurn
	}
	fight.state = TurnResponder
	fight.Initiator.DiscardAll()
	fight.mu.Unlock()

	s.notifier.TurnChanged(fight.ID, fight.Responder.ID, TurnResponder)

	s.wg.Add(1)
	go s.runResponderTurn(fight)
	return nil
}

// runResponderTurn plays the automated side's turn: each card currently in
// the responder's hand is played in order if affordable at the time of play,
// with a pacing delay between plays. The task stops early if the fight
// concludes or the session shuts down.
func (s *Session) runResponderTurn(fight *Fight) {
	defer s.wg.Done()

	responder := fight.Responder
	played := 0

	for _, cardID := range responder.Hand() {
		if s.ctx.Err() != nil {
			return
		}
		if fight.Concluded() {
			break
		}

		def, err := s.catalog.GetCardByID(cardID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("responder holds unknown card",
					zap.String("fight_id", fight.ID),
					zap.String("card_id", cardID),
				)
			}
			continue
		}

		// Energy is spent as cards are played, so affordability is checked
		// against current energy, not the turn-start value.
		if responder.Energy() < def.Cost {
			continue
		}

		if played > 0 {
			if err := s.clock.Sleep(s.ctx, s.cfg.ResponderPlayDelay); err != nil {
				return
			}
		}

		if !s.playResponderCard(fight, cardID, def) {
			break
		}
		played++
	}

	responder.DiscardAll()

	fight.mu.Lock()
	outcome, concluded := s.concludeLocked(fight)
	endedEarlier := !concluded && fight.state == TurnConcluded
	if !concluded && !endedEarlier {
		fight.state = TurnNone
	}
	fight.mu.Unlock()

	if concluded {
		s.finishFight(fight, outcome)
		return
	}
	if endedEarlier {
		// The concluding play already emitted fight-ended; no turn
		// notification follows a concluded fight.
		return
	}

	s.notifier.TurnChanged(fight.ID, fight.Initiator.ID, TurnNone)
	s.maybeAdvanceRound()
}

// playResponderCard applies one automated play under the fight lock.
// Returns false when the turn should stop (fight no longer in responder
// turn, or the play concluded the fight).
func (s *Session) playResponderCard(fight *Fight, cardID string, def *cards.Definition) bool {
	responder := fight.Responder

	fight.mu.Lock()
	if fight.state != TurnResponder {
		fight.mu.Unlock()
		return false
	}

	target := effectTarget(fight, responder, def)
	if err := responder.ChangeEnergy(s.auth, -def.Cost); err != nil {
		fight.mu.Unlock()
		return false
	}
	if err := s.resolver.ApplyEffect(s.auth, responder, target, def); err != nil {
		_ = responder.ChangeEnergy(s.auth, def.Cost)
		fight.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("responder effect failed",
				zap.String("fight_id", fight.ID),
				zap.String("card_id", cardID),
				zap.Error(err),
			)
		}
		return true
	}
	_ = responder.DiscardOne(cardID)

	outcome, concluded := s.concludeLocked(fight)
	fight.mu.Unlock()

	s.notifier.CardPlayed(fight.ID, responder.ID, target.ID, cardID)

	if concluded {
		s.finishFight(fight, outcome)
		return false
	}
	return true
}

// concludeLocked transitions the fight to Concluded if either side is
// defeated. Caller holds fight.mu. The state guard makes the transition,
// and therefore the fight-ended notification, fire exactly once.
func (s *Session) concludeLocked(fight *Fight) (Outcome, bool) {
	if fight.state == TurnConcluded {
		return Outcome{}, false
	}
	switch {
	case fight.Initiator.Defeated():
		fight.state = TurnConcluded
		return Outcome{WinnerID: fight.Responder.ID, LoserID: fight.Initiator.ID}, true
	case fight.Responder.Defeated():
		fight.state = TurnConcluded
		return Outcome{WinnerID: fight.Initiator.ID, LoserID: fight.Responder.ID}, true
	default:
		return Outcome{}, false
	}
}

// finishFight emits the fight-ended event and re-checks round completion.
func (s *Session) finishFight(fight *Fight, outcome Outcome) {
	s.notifier.FightEnded(fight.ID, outcome)
	if s.logger != nil {
		s.logger.Info("fight concluded",
			zap.String("fight_id", fight.ID),
			zap.String("winner_id", outcome.WinnerID),
			zap.String("loser_id", outcome.LoserID),
		)
	}
	s.maybeAdvanceRound()
}

// maybeAdvanceRound starts the next round once every fight has reached
// round-end (TurnNone) or Concluded. roundMu makes the decision exactly once
// per round: after the round starts, fights are back in InitiatorTurn, so a
// racing second check bails out at the mid-round case.
func (s *Session) maybeAdvanceRound() {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	if !s.started {
		return
	}

	waiting := 0
	for _, fight := range s.registry.ActiveFights() {
		switch fight.State() {
		case TurnConcluded:
			// done for good
		case TurnNone:
			waiting++
		default:
			return // some fight is still mid-round
		}
	}

	if waiting == 0 {
		if s.logger != nil {
			s.logger.Info("all fights concluded", zap.Int("rounds", s.round))
		}
		return
	}

	s.startRoundLocked()
}

// FightView returns a snapshot of the fight owned by connID.
func (s *Session) FightView(connID string) (FightView, error) {
	fight, ok := s.registry.GetFightByConnection(connID)
	if !ok {
		return FightView{}, ErrFightNotFound
	}
	return fight.Snapshot(s.Round()), nil
}

// effectTarget selects which side an effect lands on: offensive effects hit
// the caster's opponent, supportive effects land on the caster itself.
func effectTarget(fight *Fight, caster *Entity, def *cards.Definition) *Entity {
	switch def.Effect {
	case cards.EffectDamage, cards.EffectDebuffStats:
		return fight.Opponent(caster.ID)
	default:
		return caster
	}
}
