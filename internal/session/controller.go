package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/events"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/gateway"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/llm"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/pricing"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/widget"
)

var (
	// ErrBusy rejects a mutating intent while another one is in flight.
	ErrBusy = errors.New("session: another operation is in progress")
	// ErrWrongMode rejects an intent that does not exist in the current mode.
	ErrWrongMode = errors.New("session: operation not available in this mode")
	// ErrNoUpload rejects intents that need a source image first.
	ErrNoUpload = errors.New("session: upload an image first")
	// ErrNoGeneratedImage rejects intents that need a generated design first.
	ErrNoGeneratedImage = errors.New("session: no generated design yet")
	// ErrNoChat rejects chat messages before any style was applied.
	ErrNoChat = errors.New("session: no active design chat")
	// ErrRoomRequired rejects style application before a room was picked.
	ErrRoomRequired = errors.New("session: select a room first")
	// ErrUnknownRoom rejects a room that floor plan analysis did not find.
	ErrUnknownRoom = errors.New("session: room not found in floor plan")
	// ErrUnknownStyle rejects a style name outside the catalog.
	ErrUnknownStyle = errors.New("session: unknown style")
	// ErrNoPalette rejects palette intents before a palette exists.
	ErrNoPalette = errors.New("session: no palette extracted yet")
	// ErrDuplicateWishlistItem rejects re-adding an identical item.
	ErrDuplicateWishlistItem = errors.New("session: item already in wishlist")
	// ErrWishlistItemNotFound rejects removal of an unknown wishlist entry.
	ErrWishlistItemNotFound = errors.New("session: wishlist item not found")
)

// replyImageUpdated is what the assistant says after an in-chat image edit.
const replyImageUpdated = "Here's the updated design."

// msgInvalidCredential replaces the raw model error when the API key is bad.
const msgInvalidCredential = "Your API key is invalid. Please provide a new one."

// AI is the slice of the gateway the controller drives. *gateway.Gateway
// satisfies it; tests substitute a stub.
type AI interface {
	GenerateImage(ctx context.Context, src imaging.Image, prompt string) (imaging.Image, error)
	EditImage(ctx context.Context, current imaging.Image, instruction string) (imaging.Image, error)
	StartChat(systemInstruction string) *gateway.ChatSession
	SendChat(ctx context.Context, session *gateway.ChatSession, text string, history []llm.ChatMessage) (string, error)
	AnalyzeFloorPlan(ctx context.Context, plan imaging.Image) ([]string, error)
	GeneratePalette(ctx context.Context, img imaging.Image) (gateway.Palette, error)
	GenerateComplementaryPalette(ctx context.Context, seedColor string) (gateway.Palette, error)
	AnalyzePrices(ctx context.Context, img imaging.Image, location string) ([]gateway.PriceItem, error)
	GenerateTrendReport(ctx context.Context, country string) (gateway.TrendReport, error)
	GenerateVideo(ctx context.Context, start imaging.Image, userPrompt, aspect string) (gateway.VideoResult, error)
	ReplaceCredential(apiKey string)
}

// Controller sequences user intents against the AI gateway and owns every
// session state transition. At most one gateway call per session is in
// flight; a second mutating intent is rejected with ErrBusy instead of
// being queued.
type Controller struct {
	store  Store
	ai     AI
	broker *events.Broker
	log    zerolog.Logger

	credMu        sync.Mutex
	hasCredential bool
}

// NewController wires a controller over the given store and gateway.
func NewController(store Store, ai AI, broker *events.Broker, log zerolog.Logger) *Controller {
	return &Controller{
		store:  store,
		ai:     ai,
		broker: broker,
		log:    log.With().Str("component", "session").Logger(),
	}
}

// Create starts a new session in the given mode.
func (c *Controller) Create(mode Mode) (*Session, error) {
	return c.store.Create(mode)
}

// Get returns the session for id.
func (c *Controller) Get(id string) (*Session, error) {
	return c.store.Get(id)
}

// Delete drops the session for id.
func (c *Controller) Delete(id string) error {
	return c.store.Delete(id)
}

// ReplaceCredential installs a new API key on the gateway and marks the
// credential as usable again.
func (c *Controller) ReplaceCredential(apiKey string) {
	c.ai.ReplaceCredential(apiKey)
	c.credMu.Lock()
	c.hasCredential = apiKey != ""
	c.credMu.Unlock()
	c.log.Info().Msg("credential replaced")
}

// HasCredential reports whether a usable API key is installed.
func (c *Controller) HasCredential() bool {
	c.credMu.Lock()
	defer c.credMu.Unlock()
	return c.hasCredential
}

func (c *Controller) dropCredential() {
	c.credMu.Lock()
	c.hasCredential = false
	c.credMu.Unlock()
}

// SwitchMode moves the session into a new workflow, clearing all derived
// state so nothing from the previous mode leaks through.
func (c *Controller) SwitchMode(id string, mode Mode) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Busy {
		return nil, ErrBusy
	}
	s.Mode = mode
	s.resetDerived()
	s.LastError = ""
	s.touch()
	return s, nil
}

// UploadImage installs a new source image and resets everything derived from
// the previous one. Depending on the mode it also kicks off floor plan room
// extraction or palette extraction; in singleRoom mode it arms the
// onboarding tour instead.
func (c *Controller) UploadImage(ctx context.Context, id string, data []byte, mimeHint string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	img, err := imaging.FromBytes(data, mimeHint)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	// An applied palette survives new uploads; only a mode switch drops it.
	applied := s.AppliedPalette
	s.resetDerived()
	s.AppliedPalette = applied
	s.LastError = ""
	s.Original = img
	if s.Mode == ModeSingleRoom {
		tour := widget.NewTour(widget.DefaultTourSteps, nil)
		tour.Start()
		s.Tour = tour
	}
	s.touch()
	mode := s.Mode
	if mode == ModeFloorPlan || mode == ModePalette {
		s.beginOp()
	}
	s.mu.Unlock()

	switch mode {
	case ModeFloorPlan:
		err = c.run(ctx, s, "analyzeFloorPlan", events.PhaseAnalyzing, prompts.LoadingTextsImage, func(ctx context.Context) error {
			rooms, err := c.ai.AnalyzeFloorPlan(ctx, img)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.Rooms = rooms
			s.mu.Unlock()
			return nil
		})
	case ModePalette:
		err = c.run(ctx, s, "generatePalette", events.PhaseAnalyzing, prompts.LoadingTextsImage, func(ctx context.Context) error {
			palette, err := c.ai.GeneratePalette(ctx, img)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.Palette = &palette
			s.mu.Unlock()
			return nil
		})
	}
	if err != nil {
		return s, err
	}
	return s, nil
}

// SelectRoom picks the room to restyle in floorPlan mode. The room must be
// one of the extracted names. When extraction found nothing any label is
// accepted, covering the general-visualization fallback.
func (c *Controller) SelectRoom(id, room string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Busy {
		return nil, ErrBusy
	}
	if s.Mode != ModeFloorPlan {
		return nil, ErrWrongMode
	}
	if s.Original.IsZero() {
		return nil, ErrNoUpload
	}
	if len(s.Rooms) > 0 {
		found := false
		for _, r := range s.Rooms {
			if r == room {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownRoom
		}
	}
	s.SelectedRoom = room
	s.touch()
	return s, nil
}

// SetChatMode flips between edit-the-image and ask-the-designer chat.
func (c *Controller) SetChatMode(id string, mode ChatMode) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != ChatModeEdit && mode != ChatModeChat {
		return nil, fmt.Errorf("session: unknown chat mode %q", mode)
	}
	s.ChatMode = mode
	s.touch()
	return s, nil
}

// SetAgentInstruction overrides the system instruction used for the next
// chat session. The running chat keeps its original instruction.
func (c *Controller) SetAgentInstruction(id, instruction string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.AgentInstruction = strings.TrimSpace(instruction)
	s.touch()
	return s, nil
}

// ApplyStyle generates a redesign of the uploaded image in the given style.
// customPrompt builds an ad hoc "Custom" style instead of a catalog lookup.
// On success the chat history is cleared, a fresh chat session starts and
// the comparator snaps back to the middle.
func (c *Controller) ApplyStyle(ctx context.Context, id, styleName, customPrompt string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	var style prompts.Style
	if customPrompt != "" {
		style = prompts.CustomStyle(customPrompt)
	} else {
		var ok bool
		style, ok = prompts.FindStyle(styleName)
		if !ok {
			return nil, ErrUnknownStyle
		}
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Mode != ModeSingleRoom && s.Mode != ModeFloorPlan {
		s.mu.Unlock()
		return nil, ErrWrongMode
	}
	if s.Original.IsZero() {
		s.mu.Unlock()
		return nil, ErrNoUpload
	}
	if s.Mode == ModeFloorPlan && len(s.Rooms) > 0 && s.SelectedRoom == "" {
		s.mu.Unlock()
		return nil, ErrRoomRequired
	}
	room := ""
	if s.Mode == ModeFloorPlan {
		room = s.SelectedRoom
	}
	prompt := prompts.Restyle(style, room, s.AppliedPalette)
	src := s.Original
	instruction := s.AgentInstruction
	if instruction == "" {
		instruction = prompts.DefaultAgentInstruction
	}
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "applyStyle", events.PhaseGenerating, prompts.LoadingTextsImage, func(ctx context.Context) error {
		img, err := c.ai.GenerateImage(ctx, src, prompt)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.Generated = img
		s.SelectedStyle = &style
		s.ChatHistory = nil
		s.Chat = c.ai.StartChat(instruction)
		s.Comparator.Reset()
		s.Video = nil
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// SendChat appends the user's message and asks the assistant for a reply.
// In edit mode the message is an image edit instruction: the generated image
// is replaced and the reply is a fixed confirmation. The user turn is
// committed before the model call and stays even if the call fails.
func (c *Controller) SendChat(ctx context.Context, id, message string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("session: empty message")
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Chat == nil {
		s.mu.Unlock()
		return nil, ErrNoChat
	}
	prior := chatMessages(s.ChatHistory)
	s.ChatHistory = append(s.ChatHistory, ChatTurn{Speaker: SpeakerUser, Text: message})
	editing := s.ChatMode == ChatModeEdit && !s.Generated.IsZero()
	current := s.Generated
	chat := s.Chat
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "sendChat", events.PhaseChatting, nil, func(ctx context.Context) error {
		var reply string
		if editing {
			img, err := c.ai.EditImage(ctx, current, message)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.Generated = img
			s.mu.Unlock()
			reply = replyImageUpdated
		} else {
			var err error
			reply, err = c.ai.SendChat(ctx, chat, message, prior)
			if err != nil {
				return err
			}
		}
		s.mu.Lock()
		s.ChatHistory = append(s.ChatHistory, ChatTurn{Speaker: SpeakerAssistant, Text: reply})
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// SelectCountry fetches the trend report for a country. The report is
// replaced per country without resetting anything else.
func (c *Controller) SelectCountry(ctx context.Context, id, country string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("session: country is required")
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Mode != ModeTrends {
		s.mu.Unlock()
		return nil, ErrWrongMode
	}
	s.SelectedCountry = country
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "trendReport", events.PhaseGenerating, prompts.LoadingTextsImage, func(ctx context.Context) error {
		report, err := c.ai.GenerateTrendReport(ctx, country)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.TrendReport = &report
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// LockColor marks one palette color as the seed for a complementary request.
func (c *Controller) LockColor(id, color string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Mode != ModePalette {
		return nil, ErrWrongMode
	}
	if s.Palette == nil {
		return nil, ErrNoPalette
	}
	s.LockedColor = color
	s.touch()
	return s, nil
}

// ComplementaryPalette replaces the palette with one built around the seed
// color. An empty seed falls back to the locked color.
func (c *Controller) ComplementaryPalette(ctx context.Context, id, seed string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Mode != ModePalette {
		s.mu.Unlock()
		return nil, ErrWrongMode
	}
	if s.Palette == nil {
		s.mu.Unlock()
		return nil, ErrNoPalette
	}
	if seed == "" {
		seed = s.LockedColor
	}
	if seed == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("session: seed color is required")
	}
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "complementaryPalette", events.PhaseGenerating, prompts.LoadingTextsImage, func(ctx context.Context) error {
		palette, err := c.ai.GenerateComplementaryPalette(ctx, seed)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.Palette = &palette
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// ApplyPalette switches the session into singleRoom mode so the user can
// redesign with the discovered colors. Derived state is reset as on any mode
// switch, but the palette colors carry over and constrain every style prompt
// until the next reset.
func (c *Controller) ApplyPalette(id string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Busy {
		return nil, ErrBusy
	}
	if s.Mode != ModePalette {
		return nil, ErrWrongMode
	}
	if s.Palette == nil {
		return nil, ErrNoPalette
	}
	colors := append([]string(nil), s.Palette.Colors...)
	s.Mode = ModeSingleRoom
	s.resetDerived()
	s.AppliedPalette = colors
	s.LastError = ""
	s.touch()
	return s, nil
}

// AnalyzePrices estimates shopping prices for the generated design. Without
// a generated image it fails fast: no state change and no gateway call.
func (c *Controller) AnalyzePrices(ctx context.Context, id, location string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("session: location is required")
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Generated.IsZero() {
		s.mu.Unlock()
		return nil, ErrNoGeneratedImage
	}
	img := s.Generated
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "analyzePrices", events.PhaseAnalyzing, prompts.LoadingTextsPrice, func(ctx context.Context) error {
		items, err := c.ai.AnalyzePrices(ctx, img, location)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.PriceReport = items
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// AddWishlistItem saves a price report entry. Adding an entry whose item
// name and description are already on the list is rejected.
func (c *Controller) AddWishlistItem(id string, item gateway.PriceItem) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Wishlist {
		if existing.Item == item.Item && existing.Description == item.Description {
			return nil, ErrDuplicateWishlistItem
		}
	}
	s.Wishlist = append(s.Wishlist, WishlistItem{
		PriceItem: item,
		ID:        uuid.NewString(),
		AddedAt:   time.Now(),
	})
	s.touch()
	return s, nil
}

// RemoveWishlistItem drops exactly the entry with the given id.
func (c *Controller) RemoveWishlistItem(id, itemID string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.Wishlist {
		if existing.ID == itemID {
			s.Wishlist = append(s.Wishlist[:i], s.Wishlist[i+1:]...)
			s.touch()
			return s, nil
		}
	}
	return nil, ErrWishlistItemNotFound
}

// WishlistTotal sums the price ranges of every saved item. Entries whose
// range text cannot be parsed contribute nothing.
func (c *Controller) WishlistTotal(id string) (pricing.Range, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return pricing.Range{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ranges := make([]string, 0, len(s.Wishlist))
	for _, item := range s.Wishlist {
		ranges = append(ranges, item.PriceRange)
	}
	return pricing.SumRanges(ranges), nil
}

// GenerateVideo animates the generated design into a short walkthrough clip.
func (c *Controller) GenerateVideo(ctx context.Context, id, prompt, aspect string) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.Busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.Generated.IsZero() {
		s.mu.Unlock()
		return nil, ErrNoGeneratedImage
	}
	img := s.Generated
	s.beginOp()
	s.mu.Unlock()

	err = c.run(ctx, s, "generateVideo", events.PhaseGenerating, prompts.LoadingTextsImage, func(ctx context.Context) error {
		video, err := c.ai.GenerateVideo(ctx, img, prompt, aspect)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.Video = &video
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, nil
}

// SetComparator moves the before/after divider. The value is clamped; drags
// are allowed even mid-operation since they touch no AI state.
func (c *Controller) SetComparator(id string, position float64) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Comparator.Set(position)
	s.touch()
	return s, nil
}

// DragComparator moves the divider to a pointer position inside the
// comparator container. Same rules as SetComparator.
func (c *Controller) DragComparator(id string, pointerX, containerWidth float64) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Comparator.Drag(pointerX, containerWidth)
	s.touch()
	return s, nil
}

// TourNext advances the onboarding tour one step.
func (c *Controller) TourNext(id string) (*Session, error) {
	return c.tourIntent(id, func(t *widget.Tour) { t.Next() })
}

// TourBack steps the onboarding tour back, if it can.
func (c *Controller) TourBack(id string) (*Session, error) {
	return c.tourIntent(id, func(t *widget.Tour) { t.Back() })
}

// TourDismiss ends the tour early.
func (c *Controller) TourDismiss(id string) (*Session, error) {
	return c.tourIntent(id, func(t *widget.Tour) { t.Dismiss() })
}

func (c *Controller) tourIntent(id string, fn func(*widget.Tour)) (*Session, error) {
	s, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Tour == nil {
		return nil, fmt.Errorf("session: no tour running")
	}
	fn(s.Tour)
	s.touch()
	return s, nil
}

// run executes one gateway-backed operation. The caller has already marked
// the session busy (beginOp) in the same critical section as its validation
// and pre-commits; run executes fn and releases the flag. Errors are recorded
// as the session's single current error (last one wins). An invalid
// credential additionally drops the stored key and surfaces a
// credential-specific message.
func (c *Controller) run(ctx context.Context, s *Session, op string, phase events.Phase, texts []string, fn func(context.Context) error) error {
	c.publish(s.ID, phase, op, firstText(texts))

	err := fn(ctx)

	s.mu.Lock()
	s.Busy = false
	s.touch()
	if err != nil {
		msg := err.Error()
		if gateway.IsInvalidCredential(err) {
			msg = msgInvalidCredential
			c.dropCredential()
		}
		s.LastError = msg
	}
	s.mu.Unlock()

	if err != nil {
		c.log.Error().Err(err).Str("session", s.ID).Str("op", op).Msg("operation failed")
		c.publish(s.ID, events.PhaseError, op, errText(s))
		return err
	}
	c.publish(s.ID, events.PhaseDone, op, "")
	return nil
}

func (c *Controller) publish(sessionID string, phase events.Phase, op, text string) {
	if c.broker == nil {
		return
	}
	c.broker.Publish(events.Event{
		SessionID: sessionID,
		Phase:     phase,
		Operation: op,
		Text:      text,
	})
}

func firstText(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}

func errText(s *Session) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastError
}

// chatMessages converts session chat turns into the wire history format.
func chatMessages(history []ChatTurn) []llm.ChatMessage {
	msgs := make([]llm.ChatMessage, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Speaker == SpeakerAssistant {
			role = "assistant"
		}
		msgs = append(msgs, llm.ChatMessage{Role: role, Content: turn.Text})
	}
	return msgs
}
