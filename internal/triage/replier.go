package triage

import (
	"context"
	"strings"
)

// Replier generates a supportive reply for a chat prompt. The real
// implementation sits behind an external AI capability; it is injected
// explicitly rather than configured through package globals.
type Replier interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// EscalationNotice is appended to a reply when Escalate fires.
const EscalationNotice = "I'm concerned about what you're sharing. Please consider booking a session with one of our counselors who can provide professional support."

// SystemPrompt frames every generated reply.
const SystemPrompt = "You are Mello, a supportive assistant for college students' mental health. " +
	"Provide empathetic, concise responses for stress, anxiety, sleep issues, and academic pressure. " +
	"If someone mentions severe issues, recommend seeking professional help immediately."

// StaticReplier answers from a fixed per-category script. Used when no
// AI backend is configured and as the test double.
type StaticReplier struct{}

var staticReplies = map[string]string{
	"stress":        "It sounds like you're under a lot of pressure. Try breaking tasks into smaller steps and taking short breaks.",
	"sleep":         "Sleep troubles are hard. A consistent wind-down routine and limiting screens before bed can help.",
	"anxiety":       "Feeling anxious is exhausting. Slow breathing exercises can help settle your body in the moment.",
	"depression":    "I'm sorry you're feeling this way. Talking to someone you trust can make a real difference.",
	CategoryGeneral: "Thank you for sharing. I'm here to listen. Can you tell me more about what's on your mind?",
}

func (StaticReplier) GenerateReply(_ context.Context, prompt string) (string, error) {
	return staticReplies[Categorize(studentTurn(prompt))], nil
}

// studentTurn extracts the student's message from a framed prompt.
// The framing text mentions stress and pressure itself, so the script
// has to be picked from the message alone.
func studentTurn(prompt string) string {
	s := prompt

	if i := strings.LastIndex(s, "Student:"); i >= 0 {
		s = s[i+len("Student:"):]
	}
	if i := strings.LastIndex(s, "Mello:"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
