// Package variation selects conversational phrasing for a situation and
// role. Responses stay fresh across turns while the informational content
// of each situation stays fixed: the pool carries the contract, the pick
// is uniform random. The random source is injectable so tests can pin
// exact selections with a seed.
package variation

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"eduvane/internal/types"
)

// Situation tags the conversational moment a phrase is needed for.
type Situation int

const (
	// Greeting is the self-introduction, including the role question
	// when the role is still unknown.
	Greeting Situation = iota
	// Continuity acknowledges a turn after the introduction has
	// already happened.
	Continuity
	// FollowUpAnalysis trails a completed grading pipeline.
	FollowUpAnalysis
	// FollowUpTask trails a completed generation task.
	FollowUpTask
)

// Context carries the role and optional first name the phrasing should
// be tailored to.
type Context struct {
	Role types.UserRole
	Name string
}

// namePlaceholder is replaced with ", <name>" or removed.
const namePlaceholder = "{name}"

type poolKey struct {
	situation Situation
	role      types.UserRole
}

var pools = map[poolKey][]string{
	{Greeting, types.RoleTeacher}: {
		"Hello{name}. As a teacher, I can help you grade efficiently, identify class-wide learning gaps, and generate targeted assessments.\n\nUpload a student submission to begin, or describe a topic you need questions for.",
		"Welcome{name}. My goal is to streamline your grading and provide insight into student needs.\n\nTo begin, you can upload a student's work or describe a topic for new questions.",
		"Good to see you{name}. You can use me to analyze student performance or generate targeted practice materials.\n\nI'm ready when you are—just upload a file or ask for a specific resource.",
		"Hi{name}. I'm here to handle the grading details so you can focus on teaching.\n\nUpload a submission or let me know what quiz you need generated today.",
	},
	{Greeting, types.RoleStudent}: {
		"Hi{name}. I'm here to help you strengthen your understanding. I can check your work for gaps or create practice questions for you.\n\nUpload your work whenever you're ready.",
		"Hello{name}. Let's focus on improving your grasp of the material. I can analyze your answers or set up a practice session.\n\nFeel free to upload an image or ask a question.",
		"Welcome{name}. I can act as your study partner—reviewing your solutions or generating new problems to solve.\n\nYou can start by sharing your work, and we'll take it from there.",
		"Hey{name}. Ready to work on this?\n\nYou can upload a problem you're stuck on, or I can give you some practice questions.",
	},
	{Greeting, types.RoleUnknown}: {
		"Nice to meet you{name}. I'm Eduvane — a smart classroom feedback engine.\n\nTo help me align my feedback, are you a Teacher or a Student?",
		"Hello{name}. I am Eduvane. I provide feedback and insights for the classroom.\n\nTo give you the right support, I need to know: are you a Teacher or a Student?",
		"Hi{name}. I'm Eduvane. My purpose is to turn student work into learning intelligence.\n\nAre you using this as a Teacher or a Student?",
		"Greetings{name}. I analyze academic work and generate learning materials.\n\nAre you a Teacher managing a class, or a Student looking for help?",
	},
	{Continuity, types.RoleUnknown}: {
		"I'm listening{name}. What would you like to work on?",
		"I'm ready{name}. You can upload an answer or tell me what you need.",
		"I'm here{name}. How can I support your learning right now?",
		"Go ahead{name}. I'm ready to analyze work or generate questions.",
		"What's next{name}? I can review another file or start a practice session.",
		"Standing by. Do you have more work to upload, or a question to ask?",
	},
	{FollowUpAnalysis, types.RoleTeacher}: {
		"Analysis complete. I've highlighted the student's key gaps.\n\nWould you like to generate a practice set based on these errors?",
		"I've finished the diagnosis. You can see the specific feedback above.\n\nShould we create some targeted questions to address these issues?",
		"The assessment is ready. I've noted the main areas for improvement.\n\nWould you like to generate follow-up exercises for this student?",
		"Review complete. The feedback above details the logic gaps.\n\nI can generate a remedial quiz for this topic if you'd like.",
	},
	{FollowUpAnalysis, types.RoleStudent}: {
		"I've analyzed your work. Check the feedback for tips.\n\nWant to try a few practice questions to improve this score?",
		"I've looked through your solution. The feedback above details where you stand.\n\nShall we try some practice problems to reinforce this?",
		"Analysis done. I've pointed out a few things to watch for.\n\nWould you like to generate a quick quiz to practice these concepts?",
		"That's done. I found a few spots where the logic drifted.\n\nReady to try a similar problem to lock this in?",
	},
	{FollowUpAnalysis, types.RoleUnknown}: {
		"Analysis complete. You can upload another answer for review,\nor I can generate practice questions focused on the areas identified.",
		"I've completed the review. Feel free to upload more work, or ask me to create a practice set.",
		"The feedback is ready. We can move on to a new upload, or I can generate questions based on this topic.",
		"Result generated. Let me know if you want to practice this topic further.",
	},
	{FollowUpTask, types.RoleTeacher}: {
		"You can copy these for your class. Would you like me to create an answer key?",
		"Here is the practice material. I can also generate the solutions if you need them.",
		"Questions generated. Let me know if you need an answer key or more variations.",
		"Here is the set. Shall I generate the corresponding detailed solutions?",
	},
	{FollowUpTask, types.RoleUnknown}: {
		"Try solving these. You can upload your answers here for me to check.",
		"Here are some practice problems. When you're done, upload a photo and I'll review it.",
		"Give these a try. I can grade your work whenever you're ready to upload it.",
		"See how you do with these. I'm ready to review your answers whenever you upload them.",
	},
}

// Selector picks phrases from the pools. Safe for use from a single
// session goroutine; the mutex only guards the shared rand source.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Selector using the given random source. Pass nil for a
// time-seeded source.
func New(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Pick returns one phrase for the situation and context, chosen
// uniformly at random from the matching pool. Unknown roles fall back
// to the role-neutral pool; continuity is role-neutral by design, and
// students share the neutral post-task pool.
func (s *Selector) Pick(situation Situation, ctx Context) string {
	pool := poolFor(situation, ctx.Role)
	if len(pool) == 0 {
		return ""
	}

	s.mu.Lock()
	phrase := pool[s.rng.Intn(len(pool))]
	s.mu.Unlock()

	return applyName(phrase, ctx.Name)
}

// poolFor resolves the pool for a situation×role pair, falling back to
// the role-neutral pool when no role-specific one exists.
func poolFor(situation Situation, role types.UserRole) []string {
	if p, ok := pools[poolKey{situation, role}]; ok {
		return p
	}
	return pools[poolKey{situation, types.RoleUnknown}]
}

func applyName(phrase, name string) string {
	if name == "" {
		return strings.ReplaceAll(phrase, namePlaceholder, "")
	}
	return strings.ReplaceAll(phrase, namePlaceholder, ", "+name)
}
