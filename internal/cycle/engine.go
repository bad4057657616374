package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bccsg/obs/internal/profile"
)

// ErrInvalidDirection is returned when a tap carries an unknown direction.
var ErrInvalidDirection = errors.New("cycle: invalid direction")

// SceneSelector sends a scene selection to the host application.
type SceneSelector interface {
	SelectScene(ctx context.Context, scene string) error
}

// Recorder receives selection events for history recording.
// Implementations must not block; failures are the recorder's problem.
type Recorder interface {
	RecordSelection(profileName, scene string, index int, direction string, recalled bool)
}

// Persister writes the profile store's state to durable storage.
type Persister interface {
	Persist(ctx context.Context) error
}

// Logger interface for engine logging.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// Selection describes the outcome of one accepted tap.
type Selection struct {
	ProfileID   string
	ProfileName string
	Scene       string
	Index       int // 1-based position within the profile's scene list
	Direction   profile.Direction

	// Recalled is true when the tap re-selected the committed scene
	// (first tap of a sequence) rather than advancing from it.
	Recalled bool
}

// Config holds the engine's tuning knobs.
type Config struct {
	// TapWindow is how long after a tap the session stays live. A follow-up
	// tap inside the window advances; outside it, the sequence restarts
	// with a recall.
	TapWindow time.Duration

	// PersistSelections controls whether each selection is committed as
	// the profile's recall index and written through to storage. When
	// false, the committed index is left untouched: sessions advance
	// transiently, but recall keeps returning to the last loaded value.
	PersistSelections bool
}

// Engine implements recall-then-advance tap cycling over profile scene
// lists.
//
// The first tap in a direction re-selects the profile's committed scene
// without advancing, giving the user a visual anchor. Taps that follow
// within the tap window step through the list, one scene per tap, wrapping
// modularly at either end. The two directions of a profile run independent
// sessions.
type Engine struct {
	store    *profile.Store
	selector SceneSelector
	cfg      Config

	recorder Recorder
	persist  Persister
	logger   Logger
}

// NewEngine creates a tap-cycle engine over the given store and selector.
func NewEngine(store *profile.Store, selector SceneSelector, cfg Config) *Engine {
	return &Engine{
		store:    store,
		selector: selector,
		cfg:      cfg,
		logger:   noopLogger{},
	}
}

// SetRecorder sets an optional selection history recorder.
func (e *Engine) SetRecorder(r Recorder) {
	e.recorder = r
}

// SetPersister sets an optional write-through persister, invoked after each
// committed selection when Config.PersistSelections is enabled.
func (e *Engine) SetPersister(p Persister) {
	e.persist = p
}

// SetLogger sets the logger for engine operations.
func (e *Engine) SetLogger(logger Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Tap handles a hotkey press at the current wall-clock time.
func (e *Engine) Tap(ctx context.Context, profileID string, dir profile.Direction) (*Selection, error) {
	return e.Advance(ctx, profileID, dir, time.Now())
}

// Advance handles one tap for a (profile, direction) pair at the given
// instant.
//
// A tap with no live session recalls: it selects the profile's committed
// scene (position 1 when nothing was ever committed) and does not advance.
// A tap inside a live session steps one position in the tap's direction,
// wrapping 1-based modularly. Every accepted tap selects a scene on the
// host and restarts the tap window; when Config.PersistSelections is set
// the tap also commits its index as the profile's recall point.
//
// Tapping a profile with no scenes is a no-op and returns (nil, nil).
func (e *Engine) Advance(ctx context.Context, profileID string, dir profile.Direction, now time.Time) (*Selection, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	p, err := e.store.GetByID(profileID)
	if err != nil {
		return nil, err
	}

	n := len(p.Scenes)
	if n == 0 {
		e.logger.Debug("tap ignored, profile has no scenes",
			"profile", p.Name, "direction", string(dir))
		return nil, nil
	}

	// A session stays live through its deadline instant; only a tap
	// strictly after it restarts the sequence.
	sess, live := e.store.Session(profileID, dir)
	if live {
		live = sess.Active > 0 && !now.After(sess.Deadline)
	}

	var (
		index    int
		recalled bool
	)
	if !live {
		// Recall: re-select the committed scene, never advance. An absent
		// recall index anchors at position 1.
		index = p.LastSelected
		if index == 0 {
			index = 1
		}
		recalled = true
	} else {
		// The session's active index may point past the end of a list that
		// shrank mid-sequence; the modular step brings it back in range
		// without snapping the sequence position.
		switch dir {
		case profile.DirectionNext:
			index = (sess.Active % n) + 1
		case profile.DirectionPrev:
			index = ((sess.Active + n - 2) % n) + 1
		}
	}

	scene := p.Scenes[index-1]
	// A failed selection leaves no trace: the host never saw the scene, so
	// committing the index or extending the session would desynchronize
	// recall from what is actually on screen.
	if err := e.selector.SelectScene(ctx, scene); err != nil {
		return nil, fmt.Errorf("selecting scene %q: %w", scene, err)
	}

	e.store.SetSession(profileID, dir, profile.TapSession{
		Deadline: now.Add(e.cfg.TapWindow),
		Active:   index,
	})
	if e.cfg.PersistSelections {
		if err := e.store.CommitSelection(profileID, index); err != nil {
			return nil, err
		}
		if e.persist != nil {
			if err := e.persist.Persist(ctx); err != nil {
				// The selection already reached the host; losing the recall
				// index on restart is the lesser failure.
				e.logger.Warn("failed to persist selection",
					"profile", p.Name, "error", err)
			}
		}
	}

	if e.recorder != nil {
		e.recorder.RecordSelection(p.Name, scene, index, string(dir), recalled)
	}

	e.logger.Debug("scene selected",
		"profile", p.Name, "scene", scene, "index", index,
		"direction", string(dir), "recalled", recalled)

	return &Selection{
		ProfileID:   profileID,
		ProfileName: p.Name,
		Scene:       scene,
		Index:       index,
		Direction:   dir,
		Recalled:    recalled,
	}, nil
}
