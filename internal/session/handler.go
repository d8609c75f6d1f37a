package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/events"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/gateway"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/media"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/widget"
)

// Handler bundles dependencies for the session endpoints.
type Handler struct {
	Controller *Controller
	Uploader   media.Uploader
	Broker     *events.Broker
	Log        zerolog.Logger

	validate *validator.Validate
}

// NewHandler wires the handler with a fresh validator.
func NewHandler(c *Controller, uploader media.Uploader, broker *events.Broker, log zerolog.Logger) Handler {
	return Handler{
		Controller: c,
		Uploader:   uploader,
		Broker:     broker,
		Log:        log.With().Str("component", "api").Logger(),
		validate:   validator.New(),
	}
}

// View is the JSON shape of a session returned to clients. Images travel as
// data URIs so the frontend can render them directly.
type View struct {
	ID        string `json:"id"`
	Mode      Mode   `json:"mode"`
	Busy      bool   `json:"busy"`
	LastError string `json:"last_error,omitempty"`

	OriginalImage  string `json:"original_image,omitempty"`
	GeneratedImage string `json:"generated_image,omitempty"`

	SelectedStyle *prompts.Style `json:"selected_style,omitempty"`
	ChatMode      ChatMode       `json:"chat_mode"`
	ChatHistory   []ChatTurn     `json:"chat_history,omitempty"`

	Rooms        []string `json:"rooms,omitempty"`
	SelectedRoom string   `json:"selected_room,omitempty"`

	SelectedCountry string `json:"selected_country,omitempty"`
	TrendText       string `json:"trend_text,omitempty"`
	TrendImage      string `json:"trend_image,omitempty"`

	Palette        *gateway.Palette `json:"palette,omitempty"`
	LockedColor    string           `json:"locked_color,omitempty"`
	AppliedPalette []string         `json:"applied_palette,omitempty"`

	PriceReport []gateway.PriceItem `json:"price_report,omitempty"`
	Wishlist    []WishlistItem      `json:"wishlist,omitempty"`

	VideoURI string `json:"video_uri,omitempty"`

	Comparator widget.Comparator `json:"comparator"`
	Tour       *TourView         `json:"tour,omitempty"`
}

// TourView is the client-facing slice of the onboarding tour, copied out of
// the session while its lock is held. Mutating the live tour afterwards does
// not show through an already-taken view.
type TourView struct {
	Active    bool             `json:"active"`
	Index     int              `json:"index"`
	Step      *widget.TourStep `json:"step,omitempty"`
	CanGoBack bool             `json:"can_go_back"`
}

// Snapshot renders a consistent view of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:              s.ID,
		Mode:            s.Mode,
		Busy:            s.Busy,
		LastError:       s.LastError,
		OriginalImage:   s.Original.DataURI(),
		GeneratedImage:  s.Generated.DataURI(),
		SelectedStyle:   s.SelectedStyle,
		ChatMode:        s.ChatMode,
		ChatHistory:     append([]ChatTurn(nil), s.ChatHistory...),
		Rooms:           append([]string(nil), s.Rooms...),
		SelectedRoom:    s.SelectedRoom,
		SelectedCountry: s.SelectedCountry,
		Palette:         s.Palette,
		LockedColor:     s.LockedColor,
		AppliedPalette:  append([]string(nil), s.AppliedPalette...),
		PriceReport:     append([]gateway.PriceItem(nil), s.PriceReport...),
		Wishlist:        append([]WishlistItem(nil), s.Wishlist...),
		Comparator:      s.Comparator,
	}
	if s.Tour != nil {
		tour := &TourView{
			Active:    s.Tour.Active,
			Index:     s.Tour.Index,
			CanGoBack: s.Tour.CanGoBack(),
		}
		if step, ok := s.Tour.Current(); ok {
			tour.Step = &step
		}
		v.Tour = tour
	}
	if s.TrendReport != nil {
		v.TrendText = s.TrendReport.Text
		v.TrendImage = s.TrendReport.Image.DataURI()
	}
	if s.Video != nil {
		v.VideoURI = s.Video.URI
	}
	return v
}

type createSessionRequest struct {
	Mode string `json:"mode"`
}

// Create handles POST /api/sessions.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	mode := ModeSingleRoom
	if req.Mode != "" {
		parsed, ok := ParseMode(req.Mode)
		if !ok {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
			return
		}
		mode = parsed
	}

	s, err := h.Controller.Create(mode)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.Snapshot())
}

// Get handles GET /api/sessions/{id}.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// Delete handles DELETE /api/sessions/{id}.
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.Delete(chi.URLParam(r, "id")); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type switchModeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

// SwitchMode handles POST /api/sessions/{id}/mode.
func (h Handler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req switchModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	mode, ok := ParseMode(req.Mode)
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}
	s, err := h.Controller.SwitchMode(chi.URLParam(r, "id"), mode)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type uploadImageRequest struct {
	DataURI string `json:"data_uri" validate:"required"`
}

// UploadImage handles POST /api/sessions/{id}/image. Accepts multipart form
// data with a "photo" file, or a JSON body with a data URI.
func (h Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	var (
		data     []byte
		mimeHint string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		payload, contentType, err := parsePhotoUpload(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, mimeHint = payload, contentType
	} else {
		var req uploadImageRequest
		if !h.decode(w, r, &req) {
			return
		}
		img, err := imaging.ParseDataURI(req.DataURI)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		raw, err := img.Bytes()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, mimeHint = raw, img.MIME
	}

	s, err := h.Controller.UploadImage(r.Context(), chi.URLParam(r, "id"), data, mimeHint)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type selectRoomRequest struct {
	Room string `json:"room" validate:"required"`
}

// SelectRoom handles POST /api/sessions/{id}/room.
func (h Handler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	var req selectRoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.SelectRoom(chi.URLParam(r, "id"), req.Room)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type applyStyleRequest struct {
	Name         string `json:"name"`
	CustomPrompt string `json:"custom_prompt"`
}

// ApplyStyle handles POST /api/sessions/{id}/style.
func (h Handler) ApplyStyle(w http.ResponseWriter, r *http.Request) {
	var req applyStyleRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" && req.CustomPrompt == "" {
		respondError(w, http.StatusBadRequest, "name or custom_prompt is required")
		return
	}
	s, err := h.Controller.ApplyStyle(r.Context(), chi.URLParam(r, "id"), req.Name, req.CustomPrompt)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type sendChatRequest struct {
	Message string `json:"message" validate:"required"`
	Mode    string `json:"mode"`
}

// SendChat handles POST /api/sessions/{id}/chat.
func (h Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	var req sendChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if req.Mode != "" {
		if _, err := h.Controller.SetChatMode(id, ChatMode(req.Mode)); err != nil {
			h.respondFailure(w, err)
			return
		}
	}
	s, err := h.Controller.SendChat(r.Context(), id, req.Message)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type agentInstructionRequest struct {
	Instruction string `json:"instruction" validate:"required"`
}

// SetAgentInstruction handles POST /api/sessions/{id}/agent.
func (h Handler) SetAgentInstruction(w http.ResponseWriter, r *http.Request) {
	var req agentInstructionRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.SetAgentInstruction(chi.URLParam(r, "id"), req.Instruction)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type selectCountryRequest struct {
	Country string `json:"country" validate:"required"`
}

// SelectCountry handles POST /api/sessions/{id}/country.
func (h Handler) SelectCountry(w http.ResponseWriter, r *http.Request) {
	var req selectCountryRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.SelectCountry(r.Context(), chi.URLParam(r, "id"), req.Country)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type lockColorRequest struct {
	Color string `json:"color" validate:"required"`
}

// LockColor handles POST /api/sessions/{id}/palette/lock.
func (h Handler) LockColor(w http.ResponseWriter, r *http.Request) {
	var req lockColorRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.LockColor(chi.URLParam(r, "id"), req.Color)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type complementaryRequest struct {
	Seed string `json:"seed"`
}

// ComplementaryPalette handles POST /api/sessions/{id}/palette/complementary.
func (h Handler) ComplementaryPalette(w http.ResponseWriter, r *http.Request) {
	var req complementaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.ComplementaryPalette(r.Context(), chi.URLParam(r, "id"), req.Seed)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// ApplyPalette handles POST /api/sessions/{id}/palette/apply.
func (h Handler) ApplyPalette(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.ApplyPalette(chi.URLParam(r, "id"))
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type analyzePricesRequest struct {
	Location string `json:"location" validate:"required"`
}

// AnalyzePrices handles POST /api/sessions/{id}/price.
func (h Handler) AnalyzePrices(w http.ResponseWriter, r *http.Request) {
	var req analyzePricesRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.AnalyzePrices(r.Context(), chi.URLParam(r, "id"), req.Location)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type wishlistAddRequest struct {
	Item        string `json:"item" validate:"required"`
	Description string `json:"description"`
	PriceRange  string `json:"priceRange" validate:"required"`
}

// AddWishlistItem handles POST /api/sessions/{id}/wishlist.
func (h Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistAddRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Controller.AddWishlistItem(chi.URLParam(r, "id"), gateway.PriceItem{
		Item:        req.Item,
		Description: req.Description,
		PriceRange:  req.PriceRange,
	})
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// RemoveWishlistItem handles DELETE /api/sessions/{id}/wishlist/{itemID}.
func (h Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.RemoveWishlistItem(chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// WishlistTotal handles GET /api/sessions/{id}/wishlist/total.
func (h Handler) WishlistTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Controller.WishlistTotal(chi.URLParam(r, "id"))
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"low":       total.Low,
		"high":      total.High,
		"formatted": total.Format(),
	})
}

type generateVideoRequest struct {
	Prompt string `json:"prompt"`
	Aspect string `json:"aspect"`
}

// GenerateVideo handles POST /api/sessions/{id}/video.
func (h Handler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req generateVideoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Aspect == "" {
		req.Aspect = "16:9"
	}
	s, err := h.Controller.GenerateVideo(r.Context(), chi.URLParam(r, "id"), req.Prompt, req.Aspect)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type comparatorRequest struct {
	Position       float64 `json:"position"`
	PointerX       float64 `json:"pointer_x"`
	ContainerWidth float64 `json:"container_width"`
}

// SetComparator handles POST /api/sessions/{id}/comparator. Clients send
// either an absolute percentage or the raw pointer position plus container
// width from a drag.
func (h Handler) SetComparator(w http.ResponseWriter, r *http.Request) {
	var req comparatorRequest
	if !h.decode(w, r, &req) {
		return
	}
	var (
		s   *Session
		err error
	)
	if req.ContainerWidth > 0 {
		s, err = h.Controller.DragComparator(chi.URLParam(r, "id"), req.PointerX, req.ContainerWidth)
	} else {
		s, err = h.Controller.SetComparator(chi.URLParam(r, "id"), req.Position)
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Snapshot())
}

type tourRequest struct {
	Action string `json:"action" validate:"required,oneof=next back dismiss"`

	// Optional geometry for resolving which side the tooltip should render
	// on: the target's screen rectangle and the viewport height.
	Target         *widget.Rect `json:"target,omitempty"`
	ViewportHeight float64      `json:"viewport_height,omitempty"`
}

type tourResponse struct {
	View
	TooltipSide widget.Side `json:"tooltip_side,omitempty"`
}

// Tour handles POST /api/sessions/{id}/tour.
func (h Handler) Tour(w http.ResponseWriter, r *http.Request) {
	var req tourRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	var (
		s   *Session
		err error
	)
	switch req.Action {
	case "next":
		s, err = h.Controller.TourNext(id)
	case "back":
		s, err = h.Controller.TourBack(id)
	case "dismiss":
		s, err = h.Controller.TourDismiss(id)
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	resp := tourResponse{View: s.Snapshot()}
	if resp.Tour != nil && resp.Tour.Step != nil && req.Target != nil && req.ViewportHeight > 0 {
		resp.TooltipSide = widget.Placement(resp.Tour.Step.Side, *req.Target, req.ViewportHeight)
	}
	respondJSON(w, http.StatusOK, resp)
}

type tiltRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Leave  bool    `json:"leave"`
}

// Tilt handles POST /api/sessions/{id}/tilt: the immersive-preview transform
// for a pointer position over the generated design card. A leave event resets
// to the neutral transform.
func (h Handler) Tilt(w http.ResponseWriter, r *http.Request) {
	var req tiltRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, err := h.Controller.Get(chi.URLParam(r, "id")); err != nil {
		h.respondFailure(w, err)
		return
	}
	if req.Leave {
		respondJSON(w, http.StatusOK, widget.NeutralTilt())
		return
	}
	respondJSON(w, http.StatusOK, widget.TiltAt(req.X, req.Y, req.Width, req.Height))
}

// Export handles POST /api/sessions/{id}/export: it pushes the generated
// image to the configured media store and returns its URL.
func (h Handler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	s.mu.Lock()
	img := s.Generated
	s.mu.Unlock()
	if img.IsZero() {
		h.respondFailure(w, ErrNoGeneratedImage)
		return
	}

	raw, err := img.Bytes()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not decode generated image")
		return
	}

	ext := ".png"
	if img.MIME == "image/jpeg" {
		ext = ".jpg"
	}
	result, err := h.Uploader.Upload(r.Context(), media.UploadInput{
		Filename:    "design" + ext,
		ContentType: img.MIME,
		Body:        bytes.NewReader(raw),
		Size:        int64(len(raw)),
	})
	if err != nil {
		if errors.Is(err, media.ErrUploaderDisabled) {
			respondError(w, http.StatusBadRequest, "image export is not configured")
			return
		}
		h.Log.Error().Err(err).Msg("export upload failed")
		respondError(w, http.StatusInternalServerError, "could not store image")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type credentialRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// ReplaceCredential handles POST /api/credential.
func (h Handler) ReplaceCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.Controller.ReplaceCredential(req.APIKey)
	respondJSON(w, http.StatusOK, map[string]bool{"has_credential": h.Controller.HasCredential()})
}

// Styles handles GET /api/styles.
func (h Handler) Styles(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, prompts.Styles)
}

// Countries handles GET /api/countries.
func (h Handler) Countries(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, prompts.Countries)
}

// StreamEvents handles GET /api/events with server-sent progress events.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Broker.Subscribe()
	defer h.Broker.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// decode parses and validates a JSON request body.
func (h Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// respondFailure maps domain errors onto HTTP status codes.
func (h Handler) respondFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrWishlistItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBusy), errors.Is(err, ErrDuplicateWishlistItem):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStoreFull):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrWrongMode),
		errors.Is(err, ErrNoUpload),
		errors.Is(err, ErrNoGeneratedImage),
		errors.Is(err, ErrNoChat),
		errors.Is(err, ErrRoomRequired),
		errors.Is(err, ErrUnknownRoom),
		errors.Is(err, ErrUnknownStyle),
		errors.Is(err, ErrNoPalette):
		respondError(w, http.StatusBadRequest, err.Error())
	case gateway.IsInvalidCredential(err):
		respondError(w, http.StatusUnauthorized, msgInvalidCredential)
	default:
		h.Log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusBadGateway, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// parsePhotoUpload reads the "photo" part of a multipart request.
func parsePhotoUpload(r *http.Request) ([]byte, string, error) {
	const maxFormMemory = imaging.MaxImageBytes + (1 << 20)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, "", fmt.Errorf("invalid multipart payload: %w", err)
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil, "", fmt.Errorf("could not read image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > imaging.MaxImageBytes {
		return nil, "", fmt.Errorf("image is too large (max %d MB)", imaging.MaxImageBytes/(1024*1024))
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image upload")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
