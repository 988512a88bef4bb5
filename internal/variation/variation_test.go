package variation

import (
	"math/rand"
	"strings"
	"testing"

	"eduvane/internal/types"
)

func TestPick_SeededDeterminism(t *testing.T) {
	a := New(rand.New(rand.NewSource(42)))
	b := New(rand.New(rand.NewSource(42)))

	ctx := Context{Role: types.RoleTeacher, Name: "Priya"}
	for i := 0; i < 20; i++ {
		pa := a.Pick(Greeting, ctx)
		pb := b.Pick(Greeting, ctx)
		if pa != pb {
			t.Fatalf("pick %d diverged under same seed:\n%q\n%q", i, pa, pb)
		}
	}
}

func TestPick_ExactSelectionWithSeed(t *testing.T) {
	// Pin the first pick for a known seed so pool ordering changes are
	// caught deliberately.
	s := New(rand.New(rand.NewSource(1)))
	pool := pools[poolKey{Greeting, types.RoleUnknown}]
	want := applyName(pool[rand.New(rand.NewSource(1)).Intn(len(pool))], "")

	got := s.Pick(Greeting, Context{Role: types.RoleUnknown})
	if got != want {
		t.Errorf("seeded pick mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestPick_MembershipAndNameSuffix(t *testing.T) {
	s := New(rand.New(rand.NewSource(7)))

	situations := []Situation{Greeting, Continuity, FollowUpAnalysis, FollowUpTask}
	roles := []types.UserRole{types.RoleTeacher, types.RoleStudent, types.RoleUnknown}

	for _, sit := range situations {
		for _, role := range roles {
			pool := poolFor(sit, role)
			if len(pool) == 0 {
				t.Fatalf("empty pool for situation=%d role=%s", sit, role)
			}

			got := s.Pick(sit, Context{Role: role, Name: "Alex"})
			if got == "" {
				t.Fatalf("empty pick for situation=%d role=%s", sit, role)
			}
			if strings.Contains(got, namePlaceholder) {
				t.Errorf("placeholder left in %q", got)
			}

			found := false
			for _, phrase := range pool {
				if applyName(phrase, "Alex") == got {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("pick not drawn from pool: situation=%d role=%s got %q", sit, role, got)
			}
		}
	}
}

func TestApplyName(t *testing.T) {
	phrase := "Hello{name}. Ready?"
	if got := applyName(phrase, "Priya"); got != "Hello, Priya. Ready?" {
		t.Errorf("with name: got %q", got)
	}
	if got := applyName(phrase, ""); got != "Hello. Ready?" {
		t.Errorf("without name: got %q", got)
	}
	// Phrases without a placeholder pass through untouched.
	if got := applyName("Standing by.", "Priya"); got != "Standing by." {
		t.Errorf("no placeholder: got %q", got)
	}
}

func TestRoleFallback(t *testing.T) {
	// Students have no dedicated post-task pool; they share the neutral one.
	got := poolFor(FollowUpTask, types.RoleStudent)
	want := pools[poolKey{FollowUpTask, types.RoleUnknown}]
	if len(got) != len(want) || got[0] != want[0] {
		t.Error("student post-task pool must fall back to the neutral pool")
	}
}

func TestNew_NilSource(t *testing.T) {
	s := New(nil)
	if got := s.Pick(Continuity, Context{}); got == "" {
		t.Error("time-seeded selector must still produce a phrase")
	}
}
