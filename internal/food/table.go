package food

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/shopspring/decimal"
)

// DefaultCalories is reported for labels missing from the table.
var DefaultCalories = decimal.NewFromInt(100)

const DefaultRecommendation = "Eat"

// Detail is what the bot says about a classified food label.
type Detail struct {
	DisplayName    string
	Calories       decimal.Decimal
	Recommendation string
}

// Table maps classifier labels to food details. It is read-only once loaded.
type Table struct {
	entries map[string]Detail
}

// LoadFile reads a table from a .properties file at path.
func LoadFile(path string) (*Table, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to load food mapping: %w", err)
	}
	return fromProperties(p), nil
}

// Parse reads label=displayName,calories,recommendation entries in
// .properties syntax. Entries whose value does not split into those three
// fields are logged and skipped.
func Parse(r io.Reader) (*Table, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read food mapping: %w", err)
	}
	p, err := properties.Load(buf, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse food mapping: %w", err)
	}
	return fromProperties(p), nil
}

func fromProperties(p *properties.Properties) *Table {
	t := &Table{entries: make(map[string]Detail, p.Len())}
	for _, label := range p.Keys() {
		value, _ := p.Get(label)
		detail, err := parseValue(value)
		if err != nil {
			log.Printf("food: skipping %q: %v", label, err)
			continue
		}
		t.entries[label] = detail
	}
	return t
}

func parseValue(value string) (Detail, error) {
	parts := strings.SplitN(value, ",", 3)
	if len(parts) != 3 {
		return Detail{}, fmt.Errorf("expected displayName,calories,recommendation, got %q", value)
	}
	calories, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return Detail{}, fmt.Errorf("invalid calories: %w", err)
	}
	return Detail{
		DisplayName:    strings.TrimSpace(parts[0]),
		Calories:       calories,
		Recommendation: strings.TrimSpace(parts[2]),
	}, nil
}

// Lookup returns the detail for label, falling back to the raw label with
// DefaultCalories and DefaultRecommendation.
func (t *Table) Lookup(label string) Detail {
	if t != nil {
		if d, ok := t.entries[label]; ok {
			return d
		}
	}
	return Detail{
		DisplayName:    label,
		Calories:       DefaultCalories,
		Recommendation: DefaultRecommendation,
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Labels returns the known labels in sorted order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, 0, len(t.entries))
	for label := range t.entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
