package food

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# label=displayName,calories,recommendation
apple_pie=Apple Pie,237,Eat less
 fried_rice = Fried Rice , 333 , Share it

! legacy comment
broken line
sushi=Sushi,not-a-number,Eat
ramen=Ramen,436,Eat, slowly
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	pie := table.Lookup("apple_pie")
	assert.Equal(t, "Apple Pie", pie.DisplayName)
	assert.True(t, pie.Calories.Equal(decimal.NewFromInt(237)))
	assert.Equal(t, "Eat less", pie.Recommendation)

	rice := table.Lookup("fried_rice")
	assert.Equal(t, "Fried Rice", rice.DisplayName)
	assert.Equal(t, "Share it", rice.Recommendation)

	ramen := table.Lookup("ramen")
	assert.Equal(t, "Eat, slowly", ramen.Recommendation)
}

func TestLookupFallsBackForUnmappedLabel(t *testing.T) {
	table, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	got := table.Lookup("sushi")
	assert.Equal(t, "sushi", got.DisplayName)
	assert.Equal(t, "100", got.Calories.String())
	assert.Equal(t, "Eat", got.Recommendation)

	var empty *Table
	assert.Equal(t, "mystery", empty.Lookup("mystery").DisplayName)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food_mapping.txt")
	require.NoError(t, os.WriteFile(path, []byte("hot_dog=Hot Dog,290,Skip\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hot Dog", table.Lookup("hot_dog").DisplayName)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	table, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple_pie", "fried_rice", "ramen"}, table.Labels())
}

func TestParsePropertiesSyntax(t *testing.T) {
	const src = "Dim.Sum_HK : Dim Sum,250,Eat\n" +
		"egg_tart Egg Tart,190,Eat less\n" +
		"wonton_noodle=Wonton \\\n    Noodle,400,Eat\n"

	table, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	assert.Equal(t, "Dim Sum", table.Lookup("Dim.Sum_HK").DisplayName)
	assert.Equal(t, "dim.sum_hk", table.Lookup("dim.sum_hk").DisplayName)
	assert.Equal(t, "Egg Tart", table.Lookup("egg_tart").DisplayName)
	assert.Equal(t, "Wonton Noodle", table.Lookup("wonton_noodle").DisplayName)
}
