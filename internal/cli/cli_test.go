package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/recommend"
	"github.com/rshade/carbonlens/internal/scenario"
)

const householdYAML = `electricity_kwh: 300
transport_mode: petrol
transport_km: 500
diet_type: mixed
meals_per_month: 90
waste_kg: 20
`

const householdJSON = `{"electricity_kwh":300,"transport_mode":"petrol","transport_km":500,"diet_type":"mixed","meals_per_month":90,"waste_kg":20}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCalculate_Text(t *testing.T) {
	out, _, err := execute(t, "", "calculate", "--input", writeFile(t, "household.yaml", householdYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "electricity")
	assert.Contains(t, out, "246.00")
	assert.Contains(t, out, "578.00")
	assert.Contains(t, out, "Equivalent to driving")
}

func TestCalculate_JSONFromStdin(t *testing.T) {
	out, _, err := execute(t, householdJSON, "calculate", "--input", "-", "--output", "json")
	require.NoError(t, err)

	var b carbon.EmissionBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.InDelta(t, 578, b.Total, 1e-9)
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing input", args: []string{"calculate"}, wantErr: "input file is required"},
		{name: "bad output", args: []string{"calculate", "--input", "-", "--output", "xml"}, wantErr: "unsupported output format"},
		{
			name:    "unknown yaml field",
			args:    []string{"calculate", "--input", writeFile(t, "bad.yaml", householdYAML+"solar: true\n")},
			wantErr: "parsing",
		},
		{
			name:    "negative quantity",
			args:    []string{"calculate", "--input", writeFile(t, "neg.json", strings.Replace(householdJSON, "300", "-3", 1))},
			wantErr: "electricity_kwh must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, householdJSON, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSimulate(t *testing.T) {
	path := writeFile(t, "household.yaml", householdYAML)

	out, _, err := execute(t, "", "simulate", "--input", path, "--action", "reduce_electricity=20")
	require.NoError(t, err)
	assert.Contains(t, out, "Reduce electricity use by 20%")
	assert.Contains(t, out, "Before: 578.00")
	assert.Contains(t, out, "After: 528.80")
	assert.Contains(t, out, "Reduction: 49.20")

	out, _, err = execute(t, "", "simulate", "--input", path,
		"--action", "change_transport=public_transport", "--action", "change_diet=veg", "--output", "json")
	require.NoError(t, err)
	var res scenario.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 152, res.Reduction, 1e-9)
}

func TestSimulate_InvalidAction(t *testing.T) {
	path := writeFile(t, "household.yaml", householdYAML)

	for _, spec := range []string{"plant_trees=3", "reduce_electricity=lots", "change_diet", "change_diet="} {
		t.Run(spec, func(t *testing.T) {
			_, _, err := execute(t, "", "simulate", "--input", path, "--action", spec)
			require.ErrorIs(t, err, carbon.ErrInvalidAction)
		})
	}
}

func TestRecommend(t *testing.T) {
	path := writeFile(t, "household.json", householdJSON)

	out, _, err := execute(t, "", "recommend", "--input", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Switch transport to public transport")
	assert.Contains(t, lines[2], "Switch to a vegetarian diet")

	out, _, err = execute(t, "", "recommend", "--input", path, "-o", "json")
	require.NoError(t, err)
	var recs []recommend.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 4)
	assert.InDelta(t, 80, recs[0].Reduction, 1e-9)
}

func TestFactors(t *testing.T) {
	out, _, err := execute(t, "", "factors")
	require.NoError(t, err)
	assert.Contains(t, out, "public_transport")
	assert.Contains(t, out, "0.82")

	custom := writeFile(t, "factors.csv", "category,sub_category,co2_per_unit,unit\nelectricity,grid,0.5,kWh\n")
	cfgPath := writeFile(t, "carbonlens.yaml", "factors:\n  file: "+custom+"\n")

	out, stderr, err := execute(t, "", "--config", cfgPath, "factors", "--output", "json")
	require.NoError(t, err)
	var rows []carbon.Factor
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.5, rows[0].CO2PerUnit, 1e-12)
	assert.Contains(t, stderr, "factor table is missing a required pair")
}

func TestConfigErrorsSurface(t *testing.T) {
	cfgPath := writeFile(t, "carbonlens.yaml", "storage:\n  driver: postgres\n")
	_, _, err := execute(t, "", "--config", cfgPath, "factors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestParseActionSpec(t *testing.T) {
	tests := []struct {
		spec string
		want scenario.Action
	}{
		{spec: "reduce_electricity=10", want: scenario.ReduceElectricity(10)},
		{spec: " change_transport = diesel ", want: scenario.ChangeTransportMode(carbon.TransportDiesel)},
		{spec: "change_diet=non_veg", want: scenario.ChangeDiet(carbon.DietNonVeg)},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseActionSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
