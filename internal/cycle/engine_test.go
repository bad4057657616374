package cycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bccsg/obs/internal/profile"
)

const testWindow = 600 * time.Millisecond

// fakeSelector records scene selections and can simulate host failures.
type fakeSelector struct {
	selected []string
	err      error
}

func (f *fakeSelector) SelectScene(_ context.Context, scene string) error {
	if f.err != nil {
		return f.err
	}
	f.selected = append(f.selected, scene)
	return nil
}

type fakePersister struct {
	calls int
}

func (f *fakePersister) Persist(context.Context) error {
	f.calls++
	return nil
}

type fakeRecorder struct {
	scenes   []string
	recalled []bool
}

func (f *fakeRecorder) RecordSelection(_, scene string, _ int, _ string, recalled bool) {
	f.scenes = append(f.scenes, scene)
	f.recalled = append(f.recalled, recalled)
}

// setupEngine builds a store with one profile holding the given scenes and
// an engine over it. Returns the profile ID for tapping.
func setupEngine(t *testing.T, scenes []string) (*Engine, *profile.Store, *fakeSelector, string) {
	t.Helper()

	store := profile.NewStore("Default")
	for _, scene := range scenes {
		if err := store.AddScene("Default", scene); err != nil {
			t.Fatalf("AddScene(%q) error = %v", scene, err)
		}
	}
	selector := &fakeSelector{}
	engine := NewEngine(store, selector, Config{TapWindow: testWindow})
	return engine, store, selector, store.Active().ID
}

func tap(t *testing.T, e *Engine, id string, dir profile.Direction, now time.Time) *Selection {
	t.Helper()
	sel, err := e.Advance(context.Background(), id, dir, now)
	if err != nil {
		t.Fatalf("Advance(%s) error = %v", dir, err)
	}
	return sel
}

func TestFirstTapRecalls(t *testing.T) {
	engine, store, _, id := setupEngine(t, []string{"A", "B", "C"})
	_ = store.CommitSelection(id, 2)

	sel := tap(t, engine, id, profile.DirectionNext, time.Now())

	if sel.Scene != "B" || sel.Index != 2 {
		t.Errorf("first tap = %q index %d, want B index 2", sel.Scene, sel.Index)
	}
	if !sel.Recalled {
		t.Error("first tap should recall, not advance")
	}
}

func TestFirstTapDefaultsToFirstScene(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"A", "B", "C"})

	sel := tap(t, engine, id, profile.DirectionNext, time.Now())

	if sel.Scene != "A" || sel.Index != 1 {
		t.Errorf("tap with no committed index = %q index %d, want A index 1",
			sel.Scene, sel.Index)
	}
}

func TestTapSequence_RecallThenAdvance(t *testing.T) {
	engine, store, selector, id := setupEngine(t, []string{"A", "B", "C"})
	_ = store.CommitSelection(id, 2)
	now := time.Now()

	// Tap 1: recall B. Tap 2 inside the window: advance to C.
	tap(t, engine, id, profile.DirectionNext, now)
	tap(t, engine, id, profile.DirectionNext, now.Add(200*time.Millisecond))

	// Pause past the window. With selection persistence off the advance to
	// C never moved the recall point, so the sequence restarts at B.
	later := now.Add(200*time.Millisecond + testWindow + time.Millisecond)
	sel := tap(t, engine, id, profile.DirectionNext, later)
	if !sel.Recalled || sel.Scene != "B" {
		t.Errorf("post-pause tap = %q recalled %v, want B recalled", sel.Scene, sel.Recalled)
	}
	sel = tap(t, engine, id, profile.DirectionNext, later.Add(100*time.Millisecond))
	if sel.Recalled || sel.Scene != "C" {
		t.Errorf("follow-up tap = %q recalled %v, want C advanced", sel.Scene, sel.Recalled)
	}

	want := []string{"B", "C", "B", "C"}
	if len(selector.selected) != len(want) {
		t.Fatalf("selections = %v, want %v", selector.selected, want)
	}
	for i := range want {
		if selector.selected[i] != want[i] {
			t.Fatalf("selections = %v, want %v", selector.selected, want)
		}
	}
}

func TestTapSequence_PersistedCommitsMoveRecall(t *testing.T) {
	engine, store, selector, id := setupEngine(t, []string{"A", "B", "C"})
	engine.cfg.PersistSelections = true
	_ = store.CommitSelection(id, 2)
	now := time.Now()

	tap(t, engine, id, profile.DirectionNext, now)
	tap(t, engine, id, profile.DirectionNext, now.Add(200*time.Millisecond))

	// Each tap committed its index, so after the pause recall lands on the
	// C the user last saw, and the next tap wraps to A.
	later := now.Add(200*time.Millisecond + testWindow + time.Millisecond)
	sel := tap(t, engine, id, profile.DirectionNext, later)
	if !sel.Recalled || sel.Scene != "C" {
		t.Errorf("post-pause tap = %q recalled %v, want C recalled", sel.Scene, sel.Recalled)
	}
	sel = tap(t, engine, id, profile.DirectionNext, later.Add(100*time.Millisecond))
	if sel.Recalled || sel.Scene != "A" {
		t.Errorf("wrap tap = %q recalled %v, want A advanced", sel.Scene, sel.Recalled)
	}

	want := []string{"B", "C", "C", "A"}
	for i := range want {
		if selector.selected[i] != want[i] {
			t.Fatalf("selections = %v, want %v", selector.selected, want)
		}
	}
}

func TestEachTapExtendsWindow(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"A", "B", "C"})
	now := time.Now()

	// Taps spaced just under the window apart stay one sequence even
	// though the total span exceeds a single window.
	tap(t, engine, id, profile.DirectionNext, now)
	step := testWindow - 50*time.Millisecond
	sel := tap(t, engine, id, profile.DirectionNext, now.Add(step))
	if sel.Recalled {
		t.Fatal("second tap inside window should advance")
	}
	sel = tap(t, engine, id, profile.DirectionNext, now.Add(2*step))
	if sel.Recalled || sel.Scene != "C" {
		t.Errorf("third tap = %q recalled %v, want C advanced", sel.Scene, sel.Recalled)
	}
}

func TestTapOnDeadlineInstantAdvances(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"A", "B", "C"})
	now := time.Now()

	tap(t, engine, id, profile.DirectionNext, now)

	// A tap landing exactly on the deadline is still inside the session;
	// only a strictly later tap restarts with a recall.
	sel := tap(t, engine, id, profile.DirectionNext, now.Add(testWindow))
	if sel.Recalled || sel.Scene != "B" {
		t.Errorf("deadline-instant tap = %q recalled %v, want B advanced",
			sel.Scene, sel.Recalled)
	}

	sel = tap(t, engine, id, profile.DirectionNext, now.Add(2*testWindow+time.Nanosecond))
	if !sel.Recalled {
		t.Error("tap past the deadline should recall")
	}
}

func TestRestoredNegativeIndexRecallsSafely(t *testing.T) {
	store := profile.NewStore("Default")
	store.Restore(profile.Snapshot{
		Profiles: []profile.Profile{
			{ID: "p1", Name: "Streaming", Scenes: []string{"A", "B"}, LastSelected: -3},
		},
		ActiveID: "p1",
	})
	selector := &fakeSelector{}
	engine := NewEngine(store, selector, Config{TapWindow: testWindow})

	// The restore clamps the corrupt index to absent, so the first tap
	// anchors at position 1 instead of indexing off the list.
	sel := tap(t, engine, "p1", profile.DirectionNext, time.Now())
	if !sel.Recalled || sel.Scene != "A" || sel.Index != 1 {
		t.Errorf("tap = %q index %d recalled %v, want A index 1 recalled",
			sel.Scene, sel.Index, sel.Recalled)
	}
}

func TestPrevDirection(t *testing.T) {
	engine, store, _, id := setupEngine(t, []string{"A", "B", "C"})
	_ = store.CommitSelection(id, 1)
	now := time.Now()

	// Recall A, then step backward: wraps to C, then B.
	tap(t, engine, id, profile.DirectionPrev, now)
	sel := tap(t, engine, id, profile.DirectionPrev, now.Add(100*time.Millisecond))
	if sel.Scene != "C" || sel.Index != 3 {
		t.Errorf("prev from 1 = %q index %d, want C index 3", sel.Scene, sel.Index)
	}
	sel = tap(t, engine, id, profile.DirectionPrev, now.Add(200*time.Millisecond))
	if sel.Scene != "B" || sel.Index != 2 {
		t.Errorf("prev from 3 = %q index %d, want B index 2", sel.Scene, sel.Index)
	}
}

func TestDirectionsAreIndependent(t *testing.T) {
	engine, store, _, id := setupEngine(t, []string{"A", "B", "C"})
	_ = store.CommitSelection(id, 2)
	now := time.Now()

	// Build a live next-session sitting on C.
	tap(t, engine, id, profile.DirectionNext, now)
	tap(t, engine, id, profile.DirectionNext, now.Add(100*time.Millisecond))

	// A prev tap has no prev-session, so it recalls the committed scene
	// rather than stepping back from the next-session's position.
	sel := tap(t, engine, id, profile.DirectionPrev, now.Add(200*time.Millisecond))
	if !sel.Recalled || sel.Scene != "B" {
		t.Errorf("prev tap = %q recalled %v, want B recalled", sel.Scene, sel.Recalled)
	}

	// And the next-session is still live: the next tap advances from C.
	sel = tap(t, engine, id, profile.DirectionNext, now.Add(300*time.Millisecond))
	if sel.Recalled || sel.Scene != "A" {
		t.Errorf("next tap = %q recalled %v, want A advanced", sel.Scene, sel.Recalled)
	}
}

func TestSingleSceneWraps(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"Only"})
	now := time.Now()

	for i := 0; i < 3; i++ {
		sel := tap(t, engine, id, profile.DirectionNext,
			now.Add(time.Duration(i)*100*time.Millisecond))
		if sel.Scene != "Only" || sel.Index != 1 {
			t.Fatalf("tap %d = %q index %d, want Only index 1", i+1, sel.Scene, sel.Index)
		}
	}
}

func TestEmptyProfileIsNoOp(t *testing.T) {
	engine, _, selector, id := setupEngine(t, nil)

	sel, err := engine.Advance(context.Background(), id, profile.DirectionNext, time.Now())
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if sel != nil {
		t.Errorf("Advance() on empty profile = %+v, want nil", sel)
	}
	if len(selector.selected) != 0 {
		t.Errorf("selections = %v, want none", selector.selected)
	}
}

func TestShrinkMidSequence(t *testing.T) {
	engine, store, _, id := setupEngine(t, []string{"A", "B", "C"})
	now := time.Now()

	// Walk the session onto index 3: recall A, advance B, advance C.
	tap(t, engine, id, profile.DirectionNext, now)
	tap(t, engine, id, profile.DirectionNext, now.Add(50*time.Millisecond))
	tap(t, engine, id, profile.DirectionNext, now.Add(100*time.Millisecond))

	// The list shrinks under the live session. The session index is not
	// rewritten; the next modular step lands back in range.
	if err := store.RemoveScene("Default", "C"); err != nil {
		t.Fatalf("RemoveScene() error = %v", err)
	}

	sel := tap(t, engine, id, profile.DirectionNext, now.Add(150*time.Millisecond))
	if sel.Scene != "B" || sel.Index != 2 {
		t.Errorf("tap after shrink = %q index %d, want B index 2", sel.Scene, sel.Index)
	}
}

func TestSelectorFailureLeavesStateUntouched(t *testing.T) {
	engine, store, selector, id := setupEngine(t, []string{"A", "B"})
	engine.cfg.PersistSelections = true
	selector.err = errors.New("broker gone")

	_, err := engine.Advance(context.Background(), id, profile.DirectionNext, time.Now())
	if err == nil {
		t.Fatal("Advance() error = nil, want selection failure")
	}

	if _, ok := store.Session(id, profile.DirectionNext); ok {
		t.Error("failed tap left a live session")
	}
	p, _ := store.GetByID(id)
	if p.LastSelected != 0 {
		t.Errorf("LastSelected = %d, want 0 after failed tap", p.LastSelected)
	}
}

func TestInvalidDirection(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"A"})

	_, err := engine.Advance(context.Background(), id, profile.Direction("sideways"), time.Now())
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Advance(invalid direction) error = %v, want ErrInvalidDirection", err)
	}
}

func TestUnknownProfile(t *testing.T) {
	engine, _, _, _ := setupEngine(t, []string{"A"})

	_, err := engine.Advance(context.Background(), "missing", profile.DirectionNext, time.Now())
	if !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Advance(unknown profile) error = %v, want profile.ErrNotFound", err)
	}
}

func TestPersistSelections(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		engine, _, _, id := setupEngine(t, []string{"A", "B"})
		engine.cfg.PersistSelections = true
		persister := &fakePersister{}
		engine.SetPersister(persister)

		tap(t, engine, id, profile.DirectionNext, time.Now())
		if persister.calls != 1 {
			t.Errorf("Persist() calls = %d, want 1", persister.calls)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		engine, store, _, id := setupEngine(t, []string{"A", "B"})
		persister := &fakePersister{}
		engine.SetPersister(persister)

		tap(t, engine, id, profile.DirectionNext, time.Now())
		if persister.calls != 0 {
			t.Errorf("Persist() calls = %d, want 0", persister.calls)
		}

		// The recall point is untouched as well.
		p, _ := store.GetByID(id)
		if p.LastSelected != 0 {
			t.Errorf("LastSelected = %d, want 0", p.LastSelected)
		}
	})
}

func TestRecorderReceivesSelections(t *testing.T) {
	engine, _, _, id := setupEngine(t, []string{"A", "B"})
	recorder := &fakeRecorder{}
	engine.SetRecorder(recorder)
	now := time.Now()

	tap(t, engine, id, profile.DirectionNext, now)
	tap(t, engine, id, profile.DirectionNext, now.Add(100*time.Millisecond))

	if len(recorder.scenes) != 2 {
		t.Fatalf("recorded %d selections, want 2", len(recorder.scenes))
	}
	if recorder.scenes[0] != "A" || recorder.scenes[1] != "B" {
		t.Errorf("recorded scenes = %v, want [A B]", recorder.scenes)
	}
	if !recorder.recalled[0] || recorder.recalled[1] {
		t.Errorf("recorded recalled flags = %v, want [true false]", recorder.recalled)
	}
}
