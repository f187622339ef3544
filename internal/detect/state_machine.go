// Package detect implements the driving state machine: confidence
// filtering and debounce over the raw activity classifier stream.
package detect

import (
	"time"

	"github.com/vladgets/roadmate-backend-go/internal/models"
)

const (
	// MinConfidence is the classifier confidence (0-100) below which a
	// reading is discarded entirely
	MinConfidence = 60

	// DebounceCount is the number of consecutive qualifying in-vehicle
	// readings required before a Start is accepted
	DebounceCount = 2
)

// State is the ephemeral driving state. It is never persisted; only the
// trip events it produces are.
type State struct {
	IsDriving                  bool
	ConsecutiveVehicleReadings int
	RunStart                   time.Time // timestamp of the first reading in the current in-vehicle run
}

// Transition is an accepted start/park state change
type Transition struct {
	Kind models.EventKind // KindStart or KindPark
	At   time.Time        // anchored to the first qualifying signal, not debounce completion
}

// Next applies one classifier reading and returns the new state plus the
// transition it produced, if any.
func Next(state State, reading models.ActivityReading) (State, *Transition) {
	if reading.Confidence < MinConfidence {
		// Low-confidence readings neither advance nor reset the counter
		return state, nil
	}

	switch {
	case reading.Type == models.ActivityInVehicle:
		state.ConsecutiveVehicleReadings++
		if state.ConsecutiveVehicleReadings == 1 {
			state.RunStart = reading.At
		}
		if state.ConsecutiveVehicleReadings >= DebounceCount && !state.IsDriving {
			state.IsDriving = true
			return state, &Transition{Kind: models.KindStart, At: state.RunStart}
		}
		return state, nil

	case reading.Type.IsStationary():
		state.ConsecutiveVehicleReadings = 0
		state.RunStart = time.Time{}
		if state.IsDriving {
			state.IsDriving = false
			return state, &Transition{Kind: models.KindPark, At: reading.At}
		}
		return state, nil

	default:
		// running, cycling, tilting, unknown: no effect either way
		return state, nil
	}
}

// Force applies a manual/simulated transition at the given instant. It
// pins the debounce counter to the threshold so the resulting state is
// indistinguishable from one produced by the classifier path. Forcing a
// transition the machine is already in yields no event.
func Force(state State, kind models.EventKind, at time.Time) (State, *Transition) {
	switch kind {
	case models.KindStart:
		if state.IsDriving {
			return state, nil
		}
		state.IsDriving = true
		state.ConsecutiveVehicleReadings = DebounceCount
		state.RunStart = at
		return state, &Transition{Kind: models.KindStart, At: at}

	case models.KindPark:
		if !state.IsDriving {
			return state, nil
		}
		state.IsDriving = false
		state.ConsecutiveVehicleReadings = 0
		state.RunStart = time.Time{}
		return state, &Transition{Kind: models.KindPark, At: at}
	}
	return state, nil
}
