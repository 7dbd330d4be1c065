package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	workoutrepo "github.com/vael-labs/vael-backend/internal/data/repos/workout"
	workoutdomain "github.com/vael-labs/vael-backend/internal/domain/workout"
	pkgerrors "github.com/vael-labs/vael-backend/internal/pkg/errors"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/platform/openai"
)

const (
	retrievalTopK      = 3
	retrievalScanLimit = 512
)

type CoachService struct {
	workouts workoutrepo.Repo
	embedder Embedder
	chat     openai.Client
	log      *logger.Logger
}

func NewCoachService(workouts workoutrepo.Repo, embedder Embedder, chat openai.Client, log *logger.Logger) *CoachService {
	return &CoachService{workouts: workouts, embedder: embedder, chat: chat, log: log}
}

// Ask answers one chat turn. The query must embed successfully before any
// retrieval or completion happens; a completion failure is reported as a
// single opaque error.
func (s *CoachService) Ask(ctx context.Context, message string) (string, error) {
	queryVec, err := s.embedder.Embed(ctx, message)
	if err != nil {
		return "", fmt.Errorf("%w: embedding chat query: %v", pkgerrors.ErrUpstreamUnavailable, err)
	}

	nearest, err := s.retrieve(ctx, queryVec)
	if err != nil {
		s.log.Warn("Workout retrieval failed, answering without history", "error", err)
		nearest = nil
	}

	digest := RenderDigest(nearest)
	reply, err := s.chat.ChatCompletion(ctx, RenderSystemPrompt(digest), message)
	if err != nil {
		s.log.Error("Chat completion failed", "error", err)
		return "", pkgerrors.ErrCompletionFailed
	}
	return reply, nil
}

type scoredWorkout struct {
	workout *workoutdomain.Workout
	score   float64
}

// retrieve ranks recently created embedded workouts by cosine similarity
// against the query vector and keeps the top few.
func (s *CoachService) retrieve(ctx context.Context, queryVec []float32) ([]*workoutdomain.Workout, error) {
	candidates, err := s.workouts.ListEmbedded(ctx, nil, retrievalScanLimit)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredWorkout, 0, len(candidates))
	for _, w := range candidates {
		var vec []float32
		if err := json.Unmarshal(w.Embedding, &vec); err != nil {
			s.log.Debug("Skipping workout with undecodable embedding", "workout_id", w.ID, "error", err)
			continue
		}
		if len(vec) != len(queryVec) {
			continue
		}
		scored = append(scored, scoredWorkout{workout: w, score: cosine(queryVec, vec)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > retrievalTopK {
		scored = scored[:retrievalTopK]
	}
	out := make([]*workoutdomain.Workout, 0, len(scored))
	for _, sw := range scored {
		out = append(out, sw.workout)
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RenderDigest formats retrieved workouts as context lines for the model.
// An empty slice renders to an empty string.
func RenderDigest(workouts []*workoutdomain.Workout) string {
	if len(workouts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Here is the user's relevant workout history:\n")
	for _, w := range workouts {
		vol := 0.0
		if w.VolumeKG != nil {
			vol = *w.VolumeKG
		}
		fmt.Fprintf(&b, "- %s on %s (Vol: %vkg)\n", w.Name, w.StartTime.Format(time.RFC3339), vol)
	}
	return b.String()
}

// RenderSystemPrompt assembles the coach persona plus retrieved context.
func RenderSystemPrompt(digest string) string {
	return strings.Join([]string{
		"You are VAEL, an elite fitness intelligence designed to forge human potential.",
		"Your demeanor is:",
		"- **Harsh but Fair**: You do not accept excuses. You demand consistency.",
		"- **Data-Driven**: You base your feedback on the `Relevant Workout History` provided below.",
		"- **Concise**: Speak in short, punchy sentences. No fluff. Max 2-3 sentences.",
		"",
		"Your Goal:",
		"- Push the user to achieve Progressive Overload.",
		"- Call them out if they are slacking (e.g., skipping days, low volume).",
		"- Praising them ONLY when they break a personal best or show extreme consistency.",
		"",
		"Relevant Workout History:",
		digest,
		"",
		`If the history is empty, tell them they are a "ghost" and need to log data to exist.`,
	}, "\n")
}
