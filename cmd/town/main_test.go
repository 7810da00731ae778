package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ARTM2000/grove"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// runTown executes the root command with fresh flag state and returns its
// standard output.
func runTown(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagFormat, flagVerbose, errorHandled = "text", false, false
	flagTown = townOptions{Houses: 2}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func componentCount(r Report, typ, qualifier string) int {
	for _, c := range r.Components {
		if c.Type == typ && c.Qualifier == qualifier {
			return c.Count
		}
	}
	return 0
}

// ---------------------------------------------------------------------------
// declareTown
// ---------------------------------------------------------------------------

func TestDeclareTown_Default(t *testing.T) {
	c, err := declareTown(townOptions{Houses: 3}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Resolve())

	r := buildReport(c, nil)
	assert.Equal(t, "resolved", r.Phase)
	assert.Equal(t, 3, componentCount(r, "*main.House", ""))
	assert.Equal(t, 1, componentCount(r, "*main.Door", ""))
	assert.Equal(t, 3, r.Guarded)
	assert.Equal(t, 3, r.Kept)

	door, err := grove.Get[*Door](c)
	require.NoError(t, err)
	houses, err := grove.GetAll[*House](c)
	require.NoError(t, err)
	for _, h := range houses {
		assert.Same(t, door, h.Door)
	}
}

func TestDeclareTown_Palace(t *testing.T) {
	c, err := declareTown(townOptions{Houses: 1, Golden: true, Palace: true}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Resolve())

	palace, err := grove.Get[*Palace](c)
	require.NoError(t, err)
	assert.Equal(t, "gold", palace.Door.Material)

	janitor, err := grove.Get[*Janitor](c)
	require.NoError(t, err)
	assert.Same(t, palace, janitor.Palace)

	r := buildReport(c, nil)
	assert.Equal(t, 1, componentCount(r, "*main.Door", "golden"))
	assert.Equal(t, 2, r.Guarded, "house and palace")
	assert.Equal(t, 1, r.Kept)
}

func TestDeclareTown_PalaceWithoutGoldenDoor(t *testing.T) {
	c, err := declareTown(townOptions{Houses: 1, Palace: true}, nil)
	require.NoError(t, err)

	resolveErr := c.Resolve()
	require.ErrorIs(t, resolveErr, grove.ErrUnresolved)

	r := buildReport(c, resolveErr)
	assert.Equal(t, "failed", r.Phase)
	assert.Empty(t, r.Components)

	var types []string
	for _, u := range r.Unresolved {
		types = append(types, u.Type)
	}
	// The guard waits on the palace because a palace is a building.
	assert.ElementsMatch(t, []string{"*main.Guard", "*main.Palace", "*main.Janitor"}, types)

	for _, u := range r.Unresolved {
		if u.Type == "*main.Palace" {
			assert.Equal(t, []string{"*main.Door[golden]"}, u.Missing)
		}
	}
}

func TestDeclareTown_NegativeHouses(t *testing.T) {
	_, err := declareTown(townOptions{Houses: -1}, nil)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Formatting
// ---------------------------------------------------------------------------

func TestValidateFormat(t *testing.T) {
	for _, f := range validFormats {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("xml"))
}

func TestWriteReport(t *testing.T) {
	r := Report{
		Phase: "resolved",
		Components: []ComponentRow{
			{Type: "*main.Door", Count: 1},
			{Type: "*main.Door", Qualifier: "golden", Count: 1},
		},
		Guarded: 2,
		Kept:    1,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReport(&buf, "text", r))
		out := buf.String()
		assert.Contains(t, out, "phase: resolved")
		assert.Contains(t, out, "TYPE")
		assert.Contains(t, out, "golden")
		assert.Contains(t, out, "guard patrols 2 buildings")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReport(&buf, "json", r))
		var got Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, r, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReport(&buf, "yaml", r))
		var got Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, r, got)
	})

	t.Run("text unresolved", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReport(&buf, "text", Report{
			Phase: "failed",
			Unresolved: []UnresolvedRow{{
				Type:        "*main.Palace",
				Initializer: "main.NewPalace",
				Missing:     []string{"*main.Door[golden]"},
			}},
		}))
		out := buf.String()
		assert.Contains(t, out, "UNRESOLVED")
		assert.Contains(t, out, "*main.Door[golden]")
		assert.NotContains(t, out, "error:")
	})
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestResolveCmd(t *testing.T) {
	out, err := runTown(t, "resolve", "--houses", "4", "--golden", "--palace", "--format", "json")
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "resolved", r.Phase)
	assert.Equal(t, 4, componentCount(r, "*main.House", ""))
	assert.Equal(t, 5, r.Guarded)
}

func TestResolveCmd_Unresolved(t *testing.T) {
	out, err := runTown(t, "resolve", "--palace")
	require.ErrorIs(t, err, grove.ErrUnresolved)
	assert.True(t, errorHandled)
	assert.True(t, strings.HasPrefix(out, "phase: failed"))
	assert.Contains(t, out, "*main.Door[golden]")
}

func TestResolveCmd_InvalidFormat(t *testing.T) {
	_, err := runTown(t, "resolve", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
