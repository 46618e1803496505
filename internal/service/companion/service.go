// Package companion builds persona prompts, forwards them to the text
// generator and substitutes canned replies when generation fails.
package companion

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/moodsync-server/internal/genai"
)

// Generation outcomes reported to the Observer.
const (
	OutcomeGenerated = "generated"
	OutcomeEmpty     = "empty"
	OutcomeFallback  = "fallback"
)

// Observer receives one call per persona request.
type Observer interface {
	GenerationObserved(persona Persona, op, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) GenerationObserved(Persona, string, string, time.Duration) {}

// Option customizes a Service.
type Option func(*Service)

// WithObserver attaches an instrumentation hook.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithPicker overrides how a fallback is chosen from a pool.
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

// Service answers persona requests. Its methods never fail: collaborator
// errors are logged and replaced by a fallback reply.
type Service struct {
	gen      genai.Generator
	log      *zerolog.Logger
	observer Observer
	pick     func(n int) int
}

// NewService creates a companion service on top of gen.
func NewService(gen genai.Generator, logger *zerolog.Logger, opts ...Option) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &Service{
		gen:      gen,
		log:      logger,
		observer: nopObserver{},
		pick:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type MotivationalRequest struct {
	Context     string `json:"context"`
	Mood        string `json:"mood"`
	Achievement string `json:"achievement"`
}

type GreetingRequest struct {
	TimeOfDay  string `json:"timeOfDay"`
	UserName   string `json:"userName"`
	StreakDays int    `json:"streakDays"`
}

type TaskCompletionRequest struct {
	TaskName   string `json:"taskName"`
	Difficulty string `json:"difficulty"`
	TimeSpent  string `json:"timeSpent"`
}

type AllTasksCompletedRequest struct {
	TotalTasks int `json:"totalTasks"`
	StreakDays int `json:"streakDays"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	Mood    string `json:"mood"`
	Context string `json:"context"`
}

type AdviceRequest struct {
	Query   string `json:"query" binding:"required"`
	Context string `json:"context"`
	Urgency string `json:"urgency"`
}

type MoodSupportRequest struct {
	Message   string `json:"message" binding:"required"`
	Mood      string `json:"mood"`
	Intensity string `json:"intensity"`
	Context   string `json:"context"`
}

// Motivational celebrates progress on a wellness task.
func (s *Service) Motivational(ctx context.Context, req MotivationalRequest) string {
	prompt := fmt.Sprintf(`%s
Context: %s
Current mood: %s
Achievement: %s

Give them a loving, encouraging message that celebrates their progress and motivates them to continue.`,
		partnerPrompt,
		or(req.Context, "Your partner completed a wellness task"),
		or(req.Mood, "neutral"),
		or(req.Achievement, "general wellness activity"),
	)
	return s.reply(ctx, PersonaPartner, "motivational", prompt,
		"You're doing amazing, babe! I'm so proud of how you're taking care of yourself! 💖",
		motivationalFallbacks...)
}

// Greeting welcomes the user when they open the app.
func (s *Service) Greeting(ctx context.Context, req GreetingRequest) string {
	prompt := fmt.Sprintf(`%s
Time of day: %s
Partner's name: %s
Wellness streak: %d days

Your partner just opened their wellness app. Give them a warm, loving greeting that acknowledges the time of day and encourages them to tackle their daily wellness missions.`,
		partnerPrompt,
		or(req.TimeOfDay, "morning"),
		or(req.UserName, "love"),
		req.StreakDays,
	)
	return s.reply(ctx, PersonaPartner, "greeting", prompt,
		"Hi gorgeous! 💕 Ready to conquer today's wellness missions together?",
		greetingFallbacks...)
}

// TaskCompletion congratulates the user on one finished task.
func (s *Service) TaskCompletion(ctx context.Context, req TaskCompletionRequest) string {
	prompt := fmt.Sprintf(`%s
Your partner just completed: %q
Task difficulty: %s
Time spent: %s

Give them a loving, enthusiastic congratulatory message that acknowledges their specific achievement.`,
		partnerPrompt,
		or(req.TaskName, "a wellness task"),
		or(req.Difficulty, "normal"),
		or(req.TimeSpent, "some time"),
	)
	task := or(req.TaskName, "that task")
	return s.reply(ctx, PersonaPartner, "task-completion", prompt,
		fmt.Sprintf("Yay! You completed %s! 🎉 I'm so proud of you, honey! 💕", task),
		fmt.Sprintf("Amazing job on completing %s, babe! 🎉 You're absolutely crushing it! 💖", task))
}

// AllTasksCompleted celebrates finishing the whole daily list.
func (s *Service) AllTasksCompleted(ctx context.Context, req AllTasksCompletedRequest) string {
	total := "their"
	if req.TotalTasks > 0 {
		total = strconv.Itoa(req.TotalTasks)
	}
	prompt := fmt.Sprintf(`%s
Your partner just completed ALL %s wellness tasks for today!
Current streak: %d days
This is a huge achievement that deserves celebration.

Give them an extremely enthusiastic, loving celebration message that shows how proud you are.`,
		partnerPrompt, total, req.StreakDays,
	)
	return s.reply(ctx, PersonaPartner, "all-tasks-completed", prompt,
		"OMG babe! You did it! All tasks completed! 🎉💖 I'm bursting with pride! You're absolutely amazing! 🌟",
		"INCREDIBLE! You completed everything, sweetheart! 🎉✨ I'm so incredibly proud of you! You're my wellness champion! 💖👑")
}

// Chat answers a free-form message in the partner voice.
func (s *Service) Chat(ctx context.Context, req ChatRequest) string {
	prompt := fmt.Sprintf(`%s
Your partner said: %q
Their current mood: %s
Context: %s

Respond as Luna, their loving and supportive AI girlfriend. Be conversational, caring, and encouraging about their wellness journey. Show genuine interest in what they're sharing.`,
		partnerPrompt,
		req.Message,
		or(req.Mood, "not specified"),
		or(req.Context, "casual conversation"),
	)
	return s.reply(ctx, PersonaPartner, "chat", prompt,
		"I love talking with you, honey! 💕 How can I support you today?",
		"I'm always here for you, babe! 💖 Tell me more about how you're feeling!")
}

// Advice answers a wellness question in the coach voice.
func (s *Service) Advice(ctx context.Context, req AdviceRequest) string {
	prompt := fmt.Sprintf(`%s
User query: %q
Context: %s
Urgency level: %s

Provide helpful, actionable wellness advice that addresses their specific concern.`,
		coachPrompt,
		req.Query,
		or(req.Context, "general wellness inquiry"),
		or(req.Urgency, "normal"),
	)
	return s.reply(ctx, PersonaCoach, "advice", prompt,
		"I'm here to support your wellness journey. What specific area would you like guidance on?",
		"I'm here to help with your wellness journey. Please try asking your question again, and I'll provide you with helpful, evidence-based guidance.")
}

// MoodSupport validates feelings in the listener voice.
func (s *Service) MoodSupport(ctx context.Context, req MoodSupportRequest) string {
	prompt := fmt.Sprintf(`%s
User's message: %q
Current mood: %s
Intensity level: %s
Additional context: %s

Provide empathetic mood support that validates their feelings and offers gentle guidance.`,
		echoPrompt,
		req.Message,
		or(req.Mood, "not specified"),
		or(req.Intensity, "moderate"),
		or(req.Context, "none provided"),
	)
	return s.reply(ctx, PersonaEcho, "support", prompt,
		"I understand you're going through something right now. Your feelings are completely valid, and I'm here to listen. How can I best support you?",
		"I'm here to listen and support you through whatever you're feeling. Your emotions are important and valid, and you don't have to go through this alone.")
}

// reply runs prompt through the generator. An empty result yields
// emptyDefault; an error yields a random entry of fallbacks.
func (s *Service) reply(ctx context.Context, persona Persona, op, prompt, emptyDefault string, fallbacks ...string) string {
	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		ev := s.log.Warn()
		if errors.Is(err, genai.ErrNotConfigured) || errors.Is(err, genai.ErrUnavailable) {
			ev = s.log.Debug()
		}
		ev.Err(err).Str("persona", string(persona)).Str("op", op).Msg("generation failed, using fallback")
		s.observer.GenerationObserved(persona, op, OutcomeFallback, elapsed)
		return fallbacks[s.pick(len(fallbacks))]
	case text == "":
		s.observer.GenerationObserved(persona, op, OutcomeEmpty, elapsed)
		return emptyDefault
	default:
		s.observer.GenerationObserved(persona, op, OutcomeGenerated, elapsed)
		return text
	}
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
