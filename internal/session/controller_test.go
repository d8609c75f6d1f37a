package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/events"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/gateway"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/llm"
)

// stubAI scripts gateway responses so controller transitions can be tested
// without any network.
type stubAI struct {
	mu sync.Mutex

	generateImageFn func(prompt string) (imaging.Image, error)
	editImageFn     func(instruction string) (imaging.Image, error)
	sendChatFn      func(text string, history []llm.ChatMessage) (string, error)
	rooms           []string
	roomsErr        error
	palette         gateway.Palette
	paletteErr      error
	prices          []gateway.PriceItem
	pricesErr       error
	trendReport     gateway.TrendReport
	trendErr        error
	video           gateway.VideoResult
	videoErr        error

	calls       []string
	credentials []string
}

func (a *stubAI) record(call string) {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	a.mu.Unlock()
}

func (a *stubAI) GenerateImage(_ context.Context, _ imaging.Image, prompt string) (imaging.Image, error) {
	a.record("generateImage")
	if a.generateImageFn != nil {
		return a.generateImageFn(prompt)
	}
	return imaging.Image{Data: "Z2VuZXJhdGVk", MIME: "image/png"}, nil
}

func (a *stubAI) EditImage(_ context.Context, _ imaging.Image, instruction string) (imaging.Image, error) {
	a.record("editImage")
	if a.editImageFn != nil {
		return a.editImageFn(instruction)
	}
	return imaging.Image{Data: "ZWRpdGVk", MIME: "image/png"}, nil
}

func (a *stubAI) StartChat(systemInstruction string) *gateway.ChatSession {
	a.record("startChat")
	return &gateway.ChatSession{ID: "chat-1", SystemInstruction: systemInstruction}
}

func (a *stubAI) SendChat(_ context.Context, _ *gateway.ChatSession, text string, history []llm.ChatMessage) (string, error) {
	a.record("sendChat")
	if a.sendChatFn != nil {
		return a.sendChatFn(text, history)
	}
	return "Happy to help.", nil
}

func (a *stubAI) AnalyzeFloorPlan(_ context.Context, _ imaging.Image) ([]string, error) {
	a.record("analyzeFloorPlan")
	return a.rooms, a.roomsErr
}

func (a *stubAI) GeneratePalette(_ context.Context, _ imaging.Image) (gateway.Palette, error) {
	a.record("generatePalette")
	return a.palette, a.paletteErr
}

func (a *stubAI) GenerateComplementaryPalette(_ context.Context, seed string) (gateway.Palette, error) {
	a.record("complementaryPalette")
	if a.paletteErr != nil {
		return gateway.Palette{}, a.paletteErr
	}
	p := a.palette
	if len(p.Colors) > 0 {
		p.Colors[0] = seed
	}
	return p, nil
}

func (a *stubAI) AnalyzePrices(_ context.Context, _ imaging.Image, _ string) ([]gateway.PriceItem, error) {
	a.record("analyzePrices")
	return a.prices, a.pricesErr
}

func (a *stubAI) GenerateTrendReport(_ context.Context, _ string) (gateway.TrendReport, error) {
	a.record("trendReport")
	return a.trendReport, a.trendErr
}

func (a *stubAI) GenerateVideo(_ context.Context, _ imaging.Image, _, _ string) (gateway.VideoResult, error) {
	a.record("generateVideo")
	return a.video, a.videoErr
}

func (a *stubAI) ReplaceCredential(apiKey string) {
	a.mu.Lock()
	a.credentials = append(a.credentials, apiKey)
	a.mu.Unlock()
}

func newTestController(ai *stubAI) *Controller {
	return NewController(NewInMemoryStore(), ai, events.NewBroker(), zerolog.Nop())
}

func pngUpload() []byte {
	return []byte("\x89PNG\r\n\x1a\nfakeimagedata")
}

func TestUploadResetsDerivedState(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Scandinavian", "")
	require.NoError(t, err)
	_, err = c.SendChat(context.Background(), s.ID, "make it warmer")
	require.NoError(t, err)

	require.False(t, s.Generated.IsZero())
	require.NotEmpty(t, s.ChatHistory)

	// A fresh upload clears everything derived from the previous one.
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	assert.True(t, s.Generated.IsZero())
	assert.Empty(t, s.ChatHistory)
	assert.Nil(t, s.Chat)
	assert.Nil(t, s.SelectedStyle)
	assert.False(t, s.Original.IsZero())
	// singleRoom uploads arm the onboarding tour.
	assert.NotNil(t, s.Tour)
}

func TestSwitchModeFullReset(t *testing.T) {
	ai := &stubAI{prices: []gateway.PriceItem{{Item: "Sofa", Description: "Velvet", PriceRange: "$100 - $200"}}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Bohemian", "")
	require.NoError(t, err)
	_, err = c.AnalyzePrices(context.Background(), s.ID, "Austin, TX")
	require.NoError(t, err)
	_, err = c.AddWishlistItem(s.ID, ai.prices[0])
	require.NoError(t, err)

	_, err = c.SwitchMode(s.ID, ModeTrends)
	require.NoError(t, err)
	assert.Equal(t, ModeTrends, s.Mode)
	assert.True(t, s.Generated.IsZero())
	assert.Empty(t, s.ChatHistory)
	assert.Empty(t, s.PriceReport)
	assert.Empty(t, s.Wishlist)
	assert.Empty(t, s.Rooms)
	assert.Nil(t, s.Palette)
	assert.Nil(t, s.TrendReport)
}

func TestApplyStyleStartsFreshChat(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Minimalist", "")
	require.NoError(t, err)
	_, err = c.SendChat(context.Background(), s.ID, "add a rug")
	require.NoError(t, err)
	require.Len(t, s.ChatHistory, 2)

	firstChat := s.Chat
	_, err = c.ApplyStyle(context.Background(), s.ID, "Coastal", "")
	require.NoError(t, err)

	assert.Empty(t, s.ChatHistory)
	assert.NotSame(t, firstChat, s.Chat)
	assert.Equal(t, "Coastal", s.SelectedStyle.Name)
	assert.Equal(t, 50.0, s.Comparator.Position)
}

func TestApplyStyleValidation(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	// No upload yet.
	_, err = c.ApplyStyle(context.Background(), s.ID, "Minimalist", "")
	assert.ErrorIs(t, err, ErrNoUpload)
	assert.Empty(t, ai.calls)

	// Unknown catalog name.
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Brutalist", "")
	assert.ErrorIs(t, err, ErrUnknownStyle)

	// A custom prompt builds the sentinel style instead.
	_, err = c.ApplyStyle(context.Background(), s.ID, "", "all chrome and neon")
	require.NoError(t, err)
	assert.Equal(t, "Custom", s.SelectedStyle.Name)
}

func TestFloorPlanRoomSelection(t *testing.T) {
	ai := &stubAI{rooms: []string{"Kitchen", "Living Room"}}
	c := newTestController(ai)
	s, err := c.Create(ModeFloorPlan)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	require.Equal(t, []string{"Kitchen", "Living Room"}, s.Rooms)

	// Styling before a room is picked is rejected.
	_, err = c.ApplyStyle(context.Background(), s.ID, "Scandinavian", "")
	assert.ErrorIs(t, err, ErrRoomRequired)

	// Only extracted rooms are selectable.
	_, err = c.SelectRoom(s.ID, "Garage")
	assert.ErrorIs(t, err, ErrUnknownRoom)

	_, err = c.SelectRoom(s.ID, "Kitchen")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Scandinavian", "")
	require.NoError(t, err)
	assert.False(t, s.Generated.IsZero())
}

func TestFloorPlanZeroRoomsStillStyles(t *testing.T) {
	ai := &stubAI{rooms: []string{}}
	c := newTestController(ai)
	s, err := c.Create(ModeFloorPlan)
	require.NoError(t, err)

	// Empty extraction is a valid state, not an error.
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	assert.Empty(t, s.Rooms)

	// General visualization proceeds without a room selection.
	_, err = c.ApplyStyle(context.Background(), s.ID, "Industrial", "")
	require.NoError(t, err)
}

func TestSendChatEditModeReplacesImage(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Modern", "")
	require.NoError(t, err)

	before := s.Generated.Data
	_, err = c.SendChat(context.Background(), s.ID, "swap the sofa for a sectional")
	require.NoError(t, err)

	assert.NotEqual(t, before, s.Generated.Data)
	require.Len(t, s.ChatHistory, 2)
	assert.Equal(t, SpeakerUser, s.ChatHistory[0].Speaker)
	assert.Equal(t, replyImageUpdated, s.ChatHistory[1].Text)
}

func TestSendChatQuestionMode(t *testing.T) {
	ai := &stubAI{sendChatFn: func(text string, history []llm.ChatMessage) (string, error) {
		return "Try a wool rug.", nil
	}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Modern", "")
	require.NoError(t, err)
	_, err = c.SetChatMode(s.ID, ChatModeChat)
	require.NoError(t, err)

	before := s.Generated.Data
	_, err = c.SendChat(context.Background(), s.ID, "what rug would fit?")
	require.NoError(t, err)

	assert.Equal(t, before, s.Generated.Data)
	assert.Equal(t, "Try a wool rug.", s.ChatHistory[1].Text)
}

func TestSendChatFailureKeepsUserTurn(t *testing.T) {
	ai := &stubAI{editImageFn: func(string) (imaging.Image, error) {
		return imaging.Image{}, errors.New("model overloaded")
	}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Modern", "")
	require.NoError(t, err)

	_, err = c.SendChat(context.Background(), s.ID, "add plants")
	require.Error(t, err)

	// The user turn stays committed; only the reply is missing.
	require.Len(t, s.ChatHistory, 1)
	assert.Equal(t, SpeakerUser, s.ChatHistory[0].Speaker)
	assert.Equal(t, "model overloaded", s.LastError)
	assert.False(t, s.Busy)
}

func TestSendChatWithoutStyle(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.SendChat(context.Background(), s.ID, "hello")
	assert.ErrorIs(t, err, ErrNoChat)
}

func TestBusyRejectsSecondIntent(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	ai := &stubAI{generateImageFn: func(string) (imaging.Image, error) {
		close(entered)
		<-release
		return imaging.Image{Data: "c2xvdw==", MIME: "image/png"}, nil
	}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.ApplyStyle(context.Background(), s.ID, "Coastal", "")
		done <- err
	}()
	<-entered

	_, err = c.ApplyStyle(context.Background(), s.ID, "Bohemian", "")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = c.SendChat(context.Background(), s.ID, "too slow")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy)
}

func TestTrendsReportPerCountry(t *testing.T) {
	ai := &stubAI{trendReport: gateway.TrendReport{
		Text:  "# Japan\nWabi-sabi minimalism.",
		Image: imaging.Image{Data: "Ym9hcmQ=", MIME: "image/png"},
	}}
	c := newTestController(ai)
	s, err := c.Create(ModeTrends)
	require.NoError(t, err)

	_, err = c.SelectCountry(context.Background(), s.ID, "Japan")
	require.NoError(t, err)
	require.NotNil(t, s.TrendReport)
	assert.Equal(t, "Japan", s.SelectedCountry)

	// A second country replaces the report without resetting anything else.
	_, err = c.SelectCountry(context.Background(), s.ID, "Italy")
	require.NoError(t, err)
	assert.Equal(t, "Italy", s.SelectedCountry)
}

func TestPaletteFlow(t *testing.T) {
	ai := &stubAI{palette: gateway.Palette{
		Name:   "Desert Dawn",
		Colors: []string{"#C19A6B", "#E97451", "#FFF8DC", "#8B4513", "#2F4F4F"},
	}}
	c := newTestController(ai)
	s, err := c.Create(ModePalette)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	require.NotNil(t, s.Palette)

	_, err = c.LockColor(s.ID, "#E97451")
	require.NoError(t, err)

	// Complementary palette is seeded by the locked color.
	_, err = c.ComplementaryPalette(context.Background(), s.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "#E97451", s.Palette.Colors[0])
}

func TestApplyPaletteRetainsColors(t *testing.T) {
	colors := []string{"#111111", "#222222", "#333333", "#444444", "#555555"}
	ai := &stubAI{palette: gateway.Palette{Name: "Mono", Colors: colors}}
	c := newTestController(ai)
	s, err := c.Create(ModePalette)
	require.NoError(t, err)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyPalette(s.ID)
	require.NoError(t, err)

	assert.Equal(t, ModeSingleRoom, s.Mode)
	assert.Nil(t, s.Palette)
	assert.Equal(t, colors, s.AppliedPalette)

	// The carried palette constrains the next style prompt.
	var gotPrompt string
	ai.generateImageFn = func(prompt string) (imaging.Image, error) {
		gotPrompt = prompt
		return imaging.Image{Data: "aW1n", MIME: "image/png"}, nil
	}
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	assert.Equal(t, colors, s.AppliedPalette, "upload keeps the applied palette until the next mode switch")
	_, err = c.ApplyStyle(context.Background(), s.ID, "Minimalist", "")
	require.NoError(t, err)
	for _, color := range colors {
		assert.Contains(t, gotPrompt, color)
	}
}

func TestAnalyzePricesRequiresGeneratedImage(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)

	// Fail fast: no state change, no gateway call.
	_, err = c.AnalyzePrices(context.Background(), s.ID, "Portland, OR")
	assert.ErrorIs(t, err, ErrNoGeneratedImage)
	assert.NotContains(t, ai.calls, "analyzePrices")
	assert.Empty(t, s.LastError)
	assert.False(t, s.Busy)
}

func TestWishlistUniquenessAndRemoval(t *testing.T) {
	ai := &stubAI{}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	sofa := gateway.PriceItem{Item: "Sofa", Description: "Velvet three-seater", PriceRange: "$800 - $1,200"}
	lamp := gateway.PriceItem{Item: "Lamp", Description: "Brass floor lamp", PriceRange: "$90 - $150"}

	_, err = c.AddWishlistItem(s.ID, sofa)
	require.NoError(t, err)
	_, err = c.AddWishlistItem(s.ID, lamp)
	require.NoError(t, err)

	// Same (item, description) pair is a conflict even though ids differ.
	_, err = c.AddWishlistItem(s.ID, sofa)
	assert.ErrorIs(t, err, ErrDuplicateWishlistItem)
	require.Len(t, s.Wishlist, 2)
	assert.NotEqual(t, s.Wishlist[0].ID, s.Wishlist[1].ID)

	// Same item name with a different description is a new entry.
	_, err = c.AddWishlistItem(s.ID, gateway.PriceItem{Item: "Sofa", Description: "Leather two-seater", PriceRange: "$600 - $900"})
	require.NoError(t, err)

	total, err := c.WishlistTotal(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1490.0, total.Low)
	assert.Equal(t, 2250.0, total.High)

	// Removal is by id and drops exactly one entry.
	_, err = c.RemoveWishlistItem(s.ID, s.Wishlist[0].ID)
	require.NoError(t, err)
	assert.Len(t, s.Wishlist, 2)
	_, err = c.RemoveWishlistItem(s.ID, "nope")
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}

func TestInvalidCredentialDropsKey(t *testing.T) {
	ai := &stubAI{generateImageFn: func(string) (imaging.Image, error) {
		return imaging.Image{}, errors.New("gemini: Requested entity was not found.")
	}}
	c := newTestController(ai)
	c.ReplaceCredential("key-1")
	require.True(t, c.HasCredential())

	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)

	_, err = c.ApplyStyle(context.Background(), s.ID, "Coastal", "")
	require.Error(t, err)

	assert.False(t, c.HasCredential())
	assert.Equal(t, msgInvalidCredential, s.LastError)
	assert.False(t, s.Busy)
}

func TestErrorPolicyLastWins(t *testing.T) {
	ai := &stubAI{trendErr: errors.New("first failure")}
	c := newTestController(ai)
	s, err := c.Create(ModeTrends)
	require.NoError(t, err)

	_, err = c.SelectCountry(context.Background(), s.ID, "Japan")
	require.Error(t, err)
	assert.Equal(t, "first failure", s.LastError)

	ai.trendErr = errors.New("second failure")
	_, err = c.SelectCountry(context.Background(), s.ID, "Italy")
	require.Error(t, err)
	assert.Equal(t, "second failure", s.LastError)

	// A success clears the current error.
	ai.trendErr = nil
	ai.trendReport = gateway.TrendReport{Text: "ok", Image: imaging.Image{Data: "eA==", MIME: "image/png"}}
	_, err = c.SelectCountry(context.Background(), s.ID, "France")
	require.NoError(t, err)
	assert.Empty(t, s.LastError)
}

func TestGenerateVideoRequiresDesign(t *testing.T) {
	ai := &stubAI{video: gateway.VideoResult{URI: "https://example.com/clip.mp4"}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.GenerateVideo(context.Background(), s.ID, "slow pan", "16:9")
	assert.ErrorIs(t, err, ErrNoGeneratedImage)

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Coastal", "")
	require.NoError(t, err)
	_, err = c.GenerateVideo(context.Background(), s.ID, "slow pan", "16:9")
	require.NoError(t, err)
	require.NotNil(t, s.Video)
	assert.Equal(t, "https://example.com/clip.mp4", s.Video.URI)
}

func TestComparatorClamped(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.SetComparator(s.ID, 130)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.Comparator.Position)
	_, err = c.SetComparator(s.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Comparator.Position)
}

func TestTourLifecycle(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.TourNext(s.ID)
	require.Error(t, err, "no tour before an upload")

	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	require.NotNil(t, s.Tour)
	require.True(t, s.Tour.Active)

	_, err = c.TourNext(s.ID)
	require.NoError(t, err)
	_, err = c.TourBack(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Tour.Index)

	_, err = c.TourDismiss(s.ID)
	require.NoError(t, err)
	assert.False(t, s.Tour.Active)
}

func TestSnapshotCopiesTourState(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.Tour)
	assert.True(t, snap.Tour.Active)
	assert.Equal(t, 0, snap.Tour.Index)
	require.NotNil(t, snap.Tour.Step)
	assert.Equal(t, "styleCarousel", snap.Tour.Step.Target)

	// Advancing the live tour must not show through an already-taken view.
	_, err = c.TourNext(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Tour.Index)
	assert.Equal(t, "styleCarousel", snap.Tour.Step.Target)

	// Encoding views stays safe while tour intents mutate the session.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_, _ = json.Marshal(s.Snapshot())
		}
	}()
	for i := 0; i < 200; i++ {
		_, _ = c.TourNext(s.ID)
		_, _ = c.TourBack(s.ID)
	}
	<-done
}

func TestBusyRejectedChatCommitsNoTurn(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	ai := &stubAI{sendChatFn: func(string, []llm.ChatMessage) (string, error) {
		close(entered)
		<-release
		return "Of course.", nil
	}}
	c := newTestController(ai)
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)
	_, err = c.UploadImage(context.Background(), s.ID, pngUpload(), "image/png")
	require.NoError(t, err)
	_, err = c.ApplyStyle(context.Background(), s.ID, "Modern", "")
	require.NoError(t, err)
	_, err = c.SetChatMode(s.ID, ChatModeChat)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.SendChat(context.Background(), s.ID, "first question")
		done <- err
	}()
	<-entered

	// The rejected message must leave no trace in the history.
	_, err = c.SendChat(context.Background(), s.ID, "second question")
	assert.ErrorIs(t, err, ErrBusy)

	s.mu.Lock()
	var userTurns []string
	for _, turn := range s.ChatHistory {
		if turn.Speaker == SpeakerUser {
			userTurns = append(userTurns, turn.Text)
		}
	}
	s.mu.Unlock()
	assert.Equal(t, []string{"first question"}, userTurns)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy)
}

func TestComparatorDrag(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.DragComparator(s.ID, 250, 1000)
	require.NoError(t, err)
	assert.Equal(t, 25.0, s.Comparator.Position)

	// A degenerate container leaves the divider where it was.
	_, err = c.DragComparator(s.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 25.0, s.Comparator.Position)
}

func TestTrendsWrongMode(t *testing.T) {
	c := newTestController(&stubAI{})
	s, err := c.Create(ModeSingleRoom)
	require.NoError(t, err)

	_, err = c.SelectCountry(context.Background(), s.ID, "Japan")
	assert.ErrorIs(t, err, ErrWrongMode)
	_, err = c.LockColor(s.ID, "#FFFFFF")
	assert.ErrorIs(t, err, ErrWrongMode)
}
