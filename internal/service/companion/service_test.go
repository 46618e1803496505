package companion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/moodsync-server/internal/genai"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type recordingObserver struct {
	outcomes []string
}

func (r *recordingObserver) GenerationObserved(persona Persona, op, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, string(persona)+"/"+op+"/"+outcome)
}

func TestReplyUsesGeneratedText(t *testing.T) {
	gen := &fakeGenerator{text: "You rock"}
	obs := &recordingObserver{}
	svc := NewService(gen, nil, WithObserver(obs))

	got := svc.Chat(context.Background(), ChatRequest{Message: "I went for a run", Mood: "proud"})
	assert.Equal(t, "You rock", got)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "You are Luna")
	assert.Contains(t, gen.prompts[0], `Your partner said: "I went for a run"`)
	assert.Contains(t, gen.prompts[0], "Their current mood: proud")
	assert.Contains(t, gen.prompts[0], "Context: casual conversation")
	assert.Equal(t, []string{"partner/chat/generated"}, obs.outcomes)
}

func TestReplyEmptyUsesDefault(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewService(&fakeGenerator{}, nil, WithObserver(obs))

	got := svc.TaskCompletion(context.Background(), TaskCompletionRequest{TaskName: "drink water"})
	assert.Equal(t, "Yay! You completed drink water! 🎉 I'm so proud of you, honey! 💕", got)
	assert.Equal(t, []string{"partner/task-completion/empty"}, obs.outcomes)
}

func TestReplyErrorUsesFallbackPool(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	obs := &recordingObserver{}
	svc := NewService(gen, nil, WithObserver(obs), WithPicker(func(n int) int { return n - 1 }))

	got := svc.Motivational(context.Background(), MotivationalRequest{})
	assert.Equal(t, motivationalFallbacks[len(motivationalFallbacks)-1], got)
	assert.Contains(t, gen.prompts[0], "Context: Your partner completed a wellness task")
	assert.Contains(t, gen.prompts[0], "Achievement: general wellness activity")

	got = svc.Greeting(context.Background(), GreetingRequest{UserName: "Sam", StreakDays: 4})
	assert.Equal(t, greetingFallbacks[len(greetingFallbacks)-1], got)
	assert.Contains(t, gen.prompts[1], "Partner's name: Sam")
	assert.Contains(t, gen.prompts[1], "Wellness streak: 4 days")

	assert.Equal(t, []string{"partner/motivational/fallback", "partner/greeting/fallback"}, obs.outcomes)
}

func TestPersonaFallbacks(t *testing.T) {
	svc := NewService(&fakeGenerator{err: genai.ErrNotConfigured}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "task completion without a name",
			got:  svc.TaskCompletion(ctx, TaskCompletionRequest{}),
			want: "Amazing job on completing that task, babe! 🎉 You're absolutely crushing it! 💖",
		},
		{
			name: "all tasks",
			got:  svc.AllTasksCompleted(ctx, AllTasksCompletedRequest{TotalTasks: 5}),
			want: "INCREDIBLE! You completed everything, sweetheart! 🎉✨ I'm so incredibly proud of you! You're my wellness champion! 💖👑",
		},
		{
			name: "chat",
			got:  svc.Chat(ctx, ChatRequest{Message: "hi"}),
			want: "I'm always here for you, babe! 💖 Tell me more about how you're feeling!",
		},
		{
			name: "coach",
			got:  svc.Advice(ctx, AdviceRequest{Query: "sleep?"}),
			want: "I'm here to help with your wellness journey. Please try asking your question again, and I'll provide you with helpful, evidence-based guidance.",
		},
		{
			name: "echo",
			got:  svc.MoodSupport(ctx, MoodSupportRequest{Message: "rough day"}),
			want: "I'm here to listen and support you through whatever you're feeling. Your emotions are important and valid, and you don't have to go through this alone.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestPromptsCarryPersonaAndDefaults(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	svc := NewService(gen, nil)
	ctx := context.Background()

	svc.Advice(ctx, AdviceRequest{Query: "How do I relax?"})
	svc.MoodSupport(ctx, MoodSupportRequest{Message: "anxious", Intensity: "high"})
	svc.AllTasksCompleted(ctx, AllTasksCompletedRequest{})

	require.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[0], "You are Dr. Wellness")
	assert.Contains(t, gen.prompts[0], "Urgency level: normal")
	assert.Contains(t, gen.prompts[1], "You are Echo")
	assert.Contains(t, gen.prompts[1], "Intensity level: high")
	assert.Contains(t, gen.prompts[1], "Additional context: none provided")
	assert.Contains(t, gen.prompts[2], "completed ALL their wellness tasks")
}
