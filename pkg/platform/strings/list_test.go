package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays empty", []string{}, []string{}},
		{"trims entries", []string{" kafka-1:9092 ", "kafka-2:9092\t"}, []string{"kafka-1:9092", "kafka-2:9092"}},
		{"drops blanks", []string{"", "  ", "a"}, []string{"a"}},
		{"first occurrence wins", []string{"b", "a", "b", " a"}, []string{"b", "a"}},
		{"keeps case", []string{"Alice", "alice"}, []string{"Alice", "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanList(tt.input))
		})
	}
}

func TestCleanFoldList(t *testing.T) {
	got := CleanFoldList([]string{"Kafka-1:9092", " kafka-1:9092", "", "KAFKA-2:9092"})
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, got)
}
