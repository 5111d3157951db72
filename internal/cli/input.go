package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/scenario"
)

// readInput decodes a FootprintInput from path ("-" for stdin). Files ending
// in .yaml or .yml are YAML; everything else is JSON. Unknown fields are rejected.
func readInput(path string, stdin io.Reader) (carbon.FootprintInput, error) {
	var input carbon.FootprintInput

	data, err := readSource(path, stdin)
	if err != nil {
		return input, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&input); err != nil {
			return input, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			return input, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := input.Validate(); err != nil {
		return input, err
	}
	return input, nil
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, errors.New("an input file is required (use --input, or - for stdin)")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

// parseActionSpec parses "type=value": reduce_electricity=<percent>,
// change_transport=<mode> or change_diet=<diet>.
func parseActionSpec(spec string) (scenario.Action, error) {
	name, value, ok := strings.Cut(spec, "=")
	if !ok {
		return scenario.Action{}, fmt.Errorf("%w: %q must be type=value", carbon.ErrInvalidAction, spec)
	}
	actionType := scenario.ActionType(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	switch actionType {
	case scenario.ActionReduceElectricity:
		percent, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return scenario.Action{}, fmt.Errorf("%w: invalid percent %q", carbon.ErrInvalidAction, value)
		}
		return scenario.NewAction(actionType, percent, "", "")
	case scenario.ActionChangeTransport:
		return scenario.NewAction(actionType, 0, carbon.TransportMode(value), "")
	case scenario.ActionChangeDiet:
		return scenario.NewAction(actionType, 0, "", carbon.DietType(value))
	default:
		return scenario.NewAction(actionType, 0, "", "")
	}
}
