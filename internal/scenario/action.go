// Package scenario models behaviour-change actions and simulates their
// effect on a household footprint.
package scenario

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonlens/internal/carbon"
)

// ActionType identifies an Action variant. The string values are the wire names.
type ActionType string

const (
	// ActionReduceElectricity scales electricity use down by a percentage.
	ActionReduceElectricity ActionType = "reduce_electricity"
	// ActionChangeTransport replaces the transport mode.
	ActionChangeTransport ActionType = "change_transport"
	// ActionChangeDiet replaces the diet type.
	ActionChangeDiet ActionType = "change_diet"
)

// Valid reports whether t names a known variant.
func (t ActionType) Valid() bool {
	switch t {
	case ActionReduceElectricity, ActionChangeTransport, ActionChangeDiet:
		return true
	default:
		return false
	}
}

// Action is a single modification to a FootprintInput. Exactly one payload
// field is meaningful, selected by Type.
//
// Percent is not range checked and NewMode/NewDiet are not checked against
// the recognised enums: an out-of-range percent flows through to the
// calculator, and an unknown mode or diet fails there as ErrFactorNotFound.
type Action struct {
	Type    ActionType           `json:"type" yaml:"type"`
	Percent float64              `json:"percent,omitempty" yaml:"percent,omitempty"`
	NewMode carbon.TransportMode `json:"new_mode,omitempty" yaml:"new_mode,omitempty"`
	NewDiet carbon.DietType      `json:"new_diet,omitempty" yaml:"new_diet,omitempty"`
}

// ReduceElectricity returns an action that scales electricity_kwh by (100-percent)/100.
func ReduceElectricity(percent float64) Action {
	return Action{Type: ActionReduceElectricity, Percent: percent}
}

// ChangeTransportMode returns an action that replaces transport_mode.
func ChangeTransportMode(mode carbon.TransportMode) Action {
	return Action{Type: ActionChangeTransport, NewMode: mode}
}

// ChangeDiet returns an action that replaces diet_type.
func ChangeDiet(diet carbon.DietType) Action {
	return Action{Type: ActionChangeDiet, NewDiet: diet}
}

// NewAction builds an action from a wire tag and its parameters, failing
// with ErrInvalidAction for an unknown tag or a missing payload.
func NewAction(actionType ActionType, percent float64, mode carbon.TransportMode, diet carbon.DietType) (Action, error) {
	var a Action
	switch actionType {
	case ActionReduceElectricity:
		a = ReduceElectricity(percent)
	case ActionChangeTransport:
		a = ChangeTransportMode(mode)
	case ActionChangeDiet:
		a = ChangeDiet(diet)
	default:
		a = Action{Type: actionType}
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// Validate checks that the action is a recognised variant carrying its payload.
func (a Action) Validate() error {
	switch a.Type {
	case ActionReduceElectricity:
		return nil
	case ActionChangeTransport:
		if a.NewMode == "" {
			return fmt.Errorf("%w: %s requires new_mode", carbon.ErrInvalidAction, a.Type)
		}
		return nil
	case ActionChangeDiet:
		if a.NewDiet == "" {
			return fmt.Errorf("%w: %s requires new_diet", carbon.ErrInvalidAction, a.Type)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported action type %q", carbon.ErrInvalidAction, a.Type)
	}
}

// UnmarshalJSON decodes and validates an action, so an unknown tag is
// rejected while decoding rather than when the action is applied.
func (a *Action) UnmarshalJSON(data []byte) error {
	type rawAction Action
	var raw rawAction
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", carbon.ErrInvalidAction, err)
	}
	if err := Action(raw).Validate(); err != nil {
		return err
	}
	*a = Action(raw)
	return nil
}

// String returns a human-readable description of the action.
func (a Action) String() string {
	switch a.Type {
	case ActionReduceElectricity:
		return fmt.Sprintf("Reduce electricity use by %s%%", carbon.FormatQuantity(a.Percent))
	case ActionChangeTransport:
		return fmt.Sprintf("Switch transport to %s", humanize(string(a.NewMode)))
	case ActionChangeDiet:
		return fmt.Sprintf("Switch to a %s diet", dietLabel(a.NewDiet))
	default:
		return fmt.Sprintf("Unknown action %q", a.Type)
	}
}

func dietLabel(d carbon.DietType) string {
	switch d {
	case carbon.DietVeg:
		return "vegetarian"
	case carbon.DietNonVeg:
		return "non-vegetarian"
	default:
		return humanize(string(d))
	}
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// Apply returns a copy of input with the action applied. The argument is
// never modified. Unknown variants fail with ErrInvalidAction.
func Apply(input carbon.FootprintInput, action Action) (carbon.FootprintInput, error) {
	modified := input

	switch action.Type {
	case ActionReduceElectricity:
		modified.ElectricityKWh = modified.ElectricityKWh * (100 - action.Percent) / 100
	case ActionChangeTransport:
		modified.TransportMode = action.NewMode
	case ActionChangeDiet:
		modified.DietType = action.NewDiet
	default:
		return carbon.FootprintInput{}, fmt.Errorf("%w: unsupported action type %q", carbon.ErrInvalidAction, action.Type)
	}

	return modified, nil
}

// ApplyAll applies actions left to right. When two actions touch the same
// field the later one wins.
func ApplyAll(input carbon.FootprintInput, actions []Action) (carbon.FootprintInput, error) {
	modified := input
	for _, action := range actions {
		var err error
		if modified, err = Apply(modified, action); err != nil {
			return carbon.FootprintInput{}, err
		}
	}
	return modified, nil
}
