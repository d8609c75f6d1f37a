package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/llm"
)

// ChatSession is a local handle for one conversation with the design
// assistant. It carries the system instruction; the transcript itself lives
// with the caller and is replayed on every turn.
type ChatSession struct {
	ID                string    `json:"id"`
	SystemInstruction string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// StartChat creates a session handle. It never touches the network and
// therefore cannot fail.
func (g *Gateway) StartChat(systemInstruction string) *ChatSession {
	return &ChatSession{
		ID:                uuid.NewString(),
		SystemInstruction: systemInstruction,
		CreatedAt:         time.Now(),
	}
}

// SendChat submits a user message with the prior transcript and returns the
// assistant's reply text. Transport errors propagate unchanged.
func (g *Gateway) SendChat(ctx context.Context, session *ChatSession, text string, history []llm.ChatMessage) (string, error) {
	if session == nil {
		return "", fmt.Errorf("gateway: no chat session")
	}
	if g.chat == nil {
		return "", fmt.Errorf("gateway: chat client not configured")
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: session.SystemInstruction})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: text})

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	reply, err := g.chat.ChatCompletion(llm.WithModel(opCtx, g.textModel), messages, 0.7)
	if err != nil {
		return "", err
	}
	return reply, nil
}
