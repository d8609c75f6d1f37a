package session

import (
	"sync"
	"time"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/gateway"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/widget"
)

// Mode selects which workflow the session is in. Switching modes wipes all
// derived state so nothing leaks between workflows.
type Mode string

const (
	ModeSingleRoom Mode = "singleRoom"
	ModeFloorPlan  Mode = "floorPlan"
	ModeTrends     Mode = "trends"
	ModePalette    Mode = "palette"
)

// ParseMode maps a raw string onto a known mode.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeSingleRoom, ModeFloorPlan, ModeTrends, ModePalette:
		return Mode(raw), true
	}
	return "", false
}

// Speaker identifies who wrote a chat turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "bot"
)

// ChatMode decides whether a chat message edits the generated image or asks
// the design assistant a question.
type ChatMode string

const (
	ChatModeEdit ChatMode = "edit"
	ChatModeChat ChatMode = "chat"
)

// ChatTurn is one entry in the session's design conversation.
type ChatTurn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// WishlistItem is a saved price report entry. The id identifies the entry for
// removal; uniqueness in the wishlist is keyed on (Item, Description) instead.
type WishlistItem struct {
	gateway.PriceItem
	ID      string    `json:"id"`
	AddedAt time.Time `json:"added_at"`
}

// Session holds the complete state of one consultation.
type Session struct {
	mu sync.Mutex

	ID        string    `json:"id"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Original  imaging.Image `json:"-"`
	Generated imaging.Image `json:"-"`

	SelectedStyle    *prompts.Style          `json:"selected_style,omitempty"`
	Chat             *gateway.ChatSession    `json:"-"`
	ChatHistory      []ChatTurn              `json:"chat_history,omitempty"`
	ChatMode         ChatMode                `json:"chat_mode"`
	AgentInstruction string                  `json:"-"`

	Rooms        []string `json:"rooms,omitempty"`
	SelectedRoom string   `json:"selected_room,omitempty"`

	SelectedCountry string               `json:"selected_country,omitempty"`
	TrendReport     *gateway.TrendReport `json:"-"`

	Palette        *gateway.Palette `json:"palette,omitempty"`
	LockedColor    string           `json:"locked_color,omitempty"`
	AppliedPalette []string         `json:"applied_palette,omitempty"`

	PriceReport []gateway.PriceItem `json:"price_report,omitempty"`
	Wishlist    []WishlistItem      `json:"wishlist,omitempty"`

	Video *gateway.VideoResult `json:"-"`

	Comparator widget.Comparator `json:"comparator"`
	Tour       *widget.Tour      `json:"-"`

	Busy      bool   `json:"busy"`
	LastError string `json:"last_error,omitempty"`
}

// resetDerived wipes everything produced from the current upload or mode.
// The uploaded source image itself survives; a new upload replaces it anyway.
// Caller holds s.mu.
func (s *Session) resetDerived() {
	s.Generated = imaging.Image{}
	s.SelectedStyle = nil
	s.Chat = nil
	s.ChatHistory = nil
	s.Rooms = nil
	s.SelectedRoom = ""
	s.TrendReport = nil
	s.SelectedCountry = ""
	s.Palette = nil
	s.LockedColor = ""
	s.AppliedPalette = nil
	s.PriceReport = nil
	s.Wishlist = nil
	s.Video = nil
	s.Tour = nil
	s.Comparator.Reset()
}

// touch bumps the modification timestamp. Caller holds s.mu.
func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// beginOp marks the session busy for one gateway-backed operation. The caller
// holds s.mu and has already rejected a busy session, so validation and the
// busy acquisition form a single critical section; run releases the flag.
func (s *Session) beginOp() {
	s.Busy = true
	s.LastError = ""
}
