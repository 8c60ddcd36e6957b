// README: Dialogue orchestrator; one total-precedence transition function per turn.
package dialogue

import (
	"context"
	"errors"
	"log"

	"tripcover/internal/config"
	"tripcover/internal/modules/extract"
	"tripcover/internal/modules/handoff"
	"tripcover/internal/modules/intent"
)

var (
	ErrBadSession      = errors.New("invalid session id")
	ErrSessionNotFound = errors.New("session not found")
)

// Store is the durable session checkpoint. Load returns ErrSessionNotFound on
// a miss; Save must make the state survive a process restart.
type Store interface {
	Load(ctx context.Context, sessionID string) (*ConversationState, error)
	Save(ctx context.Context, state *ConversationState) error
}

// Locker is an optional Store capability: turns for one session are
// serialized through it while distinct sessions proceed independently.
type Locker interface {
	Lock(ctx context.Context, sessionID string) (release func(), err error)
}

// Classifier resolves the coarse intent of a message.
type Classifier interface {
	Classify(ctx context.Context, message string, history []string) (intent.Intent, float64)
}

// Extractor produces a partial field update from a message.
type Extractor interface {
	Extract(ctx context.Context, message string, current extract.Field, known extract.Known) extract.Update
}

// Boundary is the downstream quoting stage.
type Boundary interface {
	Submit(ctx context.Context, p handoff.Payload) error
}

// Archiver persists completed sessions out of the hot store. Optional.
type Archiver interface {
	Archive(ctx context.Context, state *ConversationState) error
}

// TurnResult is what the single turn-processing entry point returns.
type TurnResult struct {
	Reply         string             `json:"reply"`
	RequiresHuman bool               `json:"requires_human"`
	State         *ConversationState `json:"state"`
}

type Deps struct {
	Store      Store
	Classifier Classifier
	Extractor  Extractor
	Questions  *QuestionGenerator
	Boundary   Boundary
	Archiver   Archiver // optional
}

type Service struct {
	store      Store
	classifier Classifier
	extractor  Extractor
	questions  *QuestionGenerator
	boundary   Boundary
	archiver   Archiver
	cfg        config.DialogueConfig
}

func NewService(deps Deps, cfg config.DialogueConfig) *Service {
	if cfg.LoopBound <= 0 {
		cfg.LoopBound = 30
	}
	if cfg.MaxFailedExtractions <= 0 {
		cfg.MaxFailedExtractions = 3
	}
	return &Service{
		store:      deps.Store,
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		questions:  deps.Questions,
		boundary:   deps.Boundary,
		archiver:   deps.Archiver,
		cfg:        cfg,
	}
}

// HandleTurn processes one user message for a session and returns the reply,
// whether a human must take over, and a snapshot of the updated state. State
// is loaded and saved exactly once; the only returned errors are ErrBadSession
// (rejected before any load) and handoff.ErrRejected (retryable, state kept).
func (s *Service) HandleTurn(ctx context.Context, sessionID, userID, message string) (*TurnResult, error) {
	if !isValidSessionID(sessionID) {
		return nil, ErrBadSession
	}
	if l, ok := s.store.(Locker); ok {
		release, err := l.Lock(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	st, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		st = NewConversationState(sessionID, userID)
	} else if err != nil {
		return nil, err
	}

	st.LoopCount++
	st.AppendMessage("user", message)

	it, conf := s.classifier.Classify(ctx, message, st.RecentHistory(6))
	st.CurrentIntent = it

	upd := s.extractForIntent(ctx, st, message, it)
	reply, requiresHuman, advErr := s.advance(ctx, st, message, upd, conf)

	if reply != "" {
		st.AppendMessage("system", reply)
	}
	if saveErr := s.store.Save(ctx, st); saveErr != nil {
		return nil, saveErr
	}
	if advErr != nil {
		return nil, advErr
	}
	if st.HandoffComplete && s.archiver != nil {
		if err := s.archiver.Archive(ctx, st); err != nil {
			log.Printf("dialogue: archive of session %s failed: %v", sessionID, err)
		}
	}
	return &TurnResult{Reply: reply, RequiresHuman: requiresHuman, State: st}, nil
}

// HandleDocument injects pre-extracted candidates (OCR, itinerary parsing)
// into the same merge path as a synthetic turn.
func (s *Service) HandleDocument(ctx context.Context, sessionID, userID string, upd extract.Update) (*TurnResult, error) {
	if !isValidSessionID(sessionID) {
		return nil, ErrBadSession
	}
	if l, ok := s.store.(Locker); ok {
		release, err := l.Lock(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	st, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		st = NewConversationState(sessionID, userID)
	} else if err != nil {
		return nil, err
	}

	st.LoopCount++
	st.CurrentIntent = intent.IntentDocumentUpload

	reply, requiresHuman, advErr := s.advance(ctx, st, "", upd, 1.0)
	if reply != "" {
		st.AppendMessage("system", reply)
	}
	if saveErr := s.store.Save(ctx, st); saveErr != nil {
		return nil, saveErr
	}
	if advErr != nil {
		return nil, advErr
	}
	return &TurnResult{Reply: reply, RequiresHuman: requiresHuman, State: st}, nil
}

// GetState returns the current checkpoint for a session.
func (s *Service) GetState(ctx context.Context, sessionID string) (*ConversationState, error) {
	if !isValidSessionID(sessionID) {
		return nil, ErrBadSession
	}
	return s.store.Load(ctx, sessionID)
}

// extractForIntent runs the slot extractor for turns that are part of quote
// collection. Other modes never mutate trip fields.
func (s *Service) extractForIntent(ctx context.Context, st *ConversationState, message string, it intent.Intent) extract.Update {
	switch it {
	case intent.IntentQuote, intent.IntentPurchase, intent.IntentGeneral, intent.IntentDocumentUpload:
		return s.extractor.Extract(ctx, message, st.CurrentQuestion, st.Known())
	default:
		return extract.Update{}
	}
}

// advance is the transition function. The checks form a single ranked list
// evaluated top to bottom; the ordering is a hard contract. In particular
// the optional adventure-sports question must get its chance before the
// finalization default, and finalization must never outrank it when both
// conditions hold on the same turn.
func (s *Service) advance(ctx context.Context, st *ConversationState, message string, upd extract.Update, conf float64) (reply string, requiresHuman bool, err error) {
	// Rank 1: termination backstop.
	if st.EscalatedToHuman || st.LoopCount > s.cfg.LoopBound {
		st.EscalatedToHuman = true
		return "I'm connecting you with one of our agents who can take it from here.", true, nil
	}

	// Rank 2: a completed handoff is terminal; collection never resumes.
	if st.HandoffComplete {
		return "Your details are already with our quoting team, they'll be in touch shortly.", false, nil
	}

	// Rank 3: conversational modes outside quote collection.
	switch st.CurrentIntent {
	case intent.IntentHumanHandoff:
		st.EscalatedToHuman = true
		return "Of course, I'm handing you over to a human agent now.", true, nil
	case intent.IntentClaims:
		return "For claims, a member of our claims team will help you directly. Connecting you now.", true, nil
	case intent.IntentPolicyQuestion:
		reply := "Our policy team can answer coverage questions in detail; I've flagged yours for them."
		if st.CurrentQuestion != extract.FieldNone {
			reply += " Meanwhile, " + lowerFirst(s.questions.Question(ctx, st.CurrentQuestion, st))
		}
		return reply, false, nil
	case intent.IntentDocumentUpload:
		if upd.Empty() {
			return "Sure, send over your itinerary or booking document and I'll pull the trip details from it.", false, nil
		}
	case intent.IntentGeneral:
		if !st.Started() && upd.Empty() {
			st.CurrentQuestion = extract.FieldDestination
			return "Hi! I can put together a travel insurance quote for you. " +
				s.questions.Question(ctx, extract.FieldDestination, st), false, nil
		}
	}

	// Rank 4: merge extractor output. A populated field is never cleared and
	// re-supplying the same value changes nothing.
	changed := st.Merge(upd)
	switch {
	case !upd.Empty():
		st.FailedExtractions = 0
	case st.CurrentQuestion != extract.FieldNone:
		st.FailedExtractions++
	}
	if st.FailedExtractions >= s.cfg.MaxFailedExtractions && conf < s.cfg.ConfidenceThreshold {
		st.EscalatedToHuman = true
		return "I'm having trouble following, so let me bring in a colleague to help.", true, nil
	}

	// Rank 5: a pending (previously rejected) handoff retries before anything else.
	if st.ReadyForHandoff {
		return s.submit(ctx, st)
	}

	// Rank 6: confirmation. A correction re-summarizes before re-confirming;
	// an affirmative releases the handoff.
	if st.AwaitingConfirmation {
		switch {
		case changed:
			return "Updated. " + Summary(st), false, nil
		case extract.IsAffirmative(message):
			st.ConfirmationReceived = true
			st.AwaitingConfirmation = false
			st.ReadyForHandoff = true
			return s.submit(ctx, st)
		case extract.IsNegative(message):
			return "No problem. What should I change?", false, nil
		default:
			return "Just to check we have it right: " + Summary(st), false, nil
		}
	}

	// Rank 7: any missing required field is asked for next, in fixed order.
	if missing := st.MissingRequired(); len(missing) > 0 {
		st.CurrentQuestion = missing[0]
		return acknowledgement(changed) + s.questions.Question(ctx, missing[0], st), false, nil
	}

	// Rank 8: the optional preference is asked exactly once before any
	// default may apply.
	if st.AdventureSports == extract.TriUnknown && !st.AdventureSportsAsked {
		st.AdventureSportsAsked = true
		st.CurrentQuestion = extract.FieldAdventureSports
		return acknowledgement(changed) + s.questions.Question(ctx, extract.FieldAdventureSports, st), false, nil
	}

	// Rank 9: finalization, the only place the Unknown->No default applies.
	st.ApplyAdventureDefault()
	st.CurrentQuestion = extract.FieldNone
	st.AwaitingConfirmation = true
	return Summary(st), false, nil
}

// submit forwards the finalized set downstream. The session is marked handed
// off only once the boundary acknowledges receipt; a rejection keeps the
// session pending and surfaces a retryable failure.
func (s *Service) submit(ctx context.Context, st *ConversationState) (string, bool, error) {
	st.ReadyForHandoff = true
	adventure := st.AdventureSports == extract.TriYes
	p := handoff.Payload{
		SessionID:       st.SessionID,
		UserID:          st.UserID,
		Destination:     st.Trip.Destination,
		TravelerAges:    st.TravelerAges,
		AdventureSports: adventure,
	}
	if st.Trip.DepartureDate != nil {
		p.DepartureDate = *st.Trip.DepartureDate
	}
	if st.Trip.ReturnDate != nil {
		p.ReturnDate = *st.Trip.ReturnDate
	}
	if err := s.boundary.Submit(ctx, p); err != nil {
		return "", false, err
	}
	st.HandoffComplete = true
	return "All set! I've sent your details to our quoting team. Your quote is on its way.", false, nil
}

func acknowledgement(changed bool) string {
	if changed {
		return "Got it. "
	}
	return ""
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}

// isValidSessionID accepts the IDs our stores generate and nothing exotic; it
// runs before any state load so malformed input has no side effects.
func isValidSessionID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
