package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestYOLOv2COCOClasses checks the table the decoder indexes into.
func TestYOLOv2COCOClasses(t *testing.T) {
	require.Equal(t, 80, YOLOv2COCOClasses.Len())
	assert.Equal(t, ModelFamilyCOCO, YOLOv2COCOClasses.Style)
	assert.Equal(t, "person", YOLOv2COCOClasses.Name(0))
	assert.Equal(t, "television", YOLOv2COCOClasses.Name(62))
	assert.Equal(t, "toothbrush", YOLOv2COCOClasses.Name(79))

	idx, err := YOLOv2COCOClasses.Index("dog")
	require.NoError(t, err)
	assert.Equal(t, 16, idx)
}

// TestOutputClassSetBounds verifies lookups outside the table fail softly.
func TestOutputClassSetBounds(t *testing.T) {
	assert.Equal(t, "", YOLOv2COCOClasses.Name(-1))
	assert.Equal(t, "", YOLOv2COCOClasses.Name(80))

	_, err := PascalVOCClasses.Index("television")
	assert.Error(t, err)
	assert.Equal(t, 20, PascalVOCClasses.Len())
}

// TestOutputClassSetNil verifies lookups on a missing table return zero values.
func TestOutputClassSetNil(t *testing.T) {
	var set *OutputClassSet
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, "", set.Name(0))

	_, err := set.Index("person")
	assert.Error(t, err)
}

// TestOutputClassSetCopies ensures callers cannot mutate a shared table.
func TestOutputClassSetCopies(t *testing.T) {
	names := []string{"a", "b"}
	set := NewOutputClassSet(ModelFamilyCOCO, names)
	names[0] = "z"
	assert.Equal(t, "a", set.Name(0))

	classes := set.Classes()
	classes[1].Name = "y"
	assert.Equal(t, "b", set.Name(1))
	assert.Equal(t, OutputClass{Index: 1, Name: "b"}, set.Classes()[1])
}
