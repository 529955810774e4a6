package yolov2

import (
	"testing"

	"github.com/nvr-ai/go-yolov2/images"
	"github.com/stretchr/testify/assert"
)

func TestRegionLabel(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		box  images.Rect
		want int
	}{
		{"centered", images.Rect{Left: 198, Top: 198, Right: 218, Bottom: 218}, 5},
		{"top left", images.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}, 1},
		{"top right", images.Rect{Left: 405, Top: 0, Right: 415, Bottom: 10}, 3},
		{"bottom left", images.Rect{Left: 0, Top: 405, Right: 10, Bottom: 415}, 7},
		{"bottom right", images.Rect{Left: 405, Top: 405, Right: 415, Bottom: 415}, 9},
		{"middle right", images.Rect{Left: 300, Top: 150, Right: 400, Bottom: 250}, 6},
		{"band boundary", images.Rect{Left: 138, Top: 0, Right: 138, Bottom: 0}, 2},
		{"just before boundary", images.Rect{Left: 137, Top: 0, Right: 138, Bottom: 0}, 1},
		{"whole frame", images.Rect{Left: 0, Top: 0, Right: 415, Bottom: 415}, 5},
		{"last pixel", images.Rect{Left: 415, Top: 415, Right: 415, Bottom: 415}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionLabel(tt.box, cfg))
		})
	}
}

func TestBand(t *testing.T) {
	assert.Equal(t, 0, band(0, 138))
	assert.Equal(t, 0, band(275, 138))
	assert.Equal(t, 1, band(276, 138))
	assert.Equal(t, 2, band(552, 138))
	assert.Equal(t, 2, band(830, 138), "clamped to the last band")
	assert.Equal(t, 0, band(-5, 138))
	assert.Equal(t, 0, band(100, 0))
}

func TestDescribe(t *testing.T) {
	cfg := DefaultConfig()
	center := images.Rect{Left: 198, Top: 198, Right: 218, Bottom: 218}
	corner := images.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", Describe(nil, cfg))
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		recs := []Recognition{
			{ID: 0, Name: "person", Confidence: 0.9, Box: center},
			{ID: 16, Name: "dog", Confidence: 0.3, Box: corner},
			{ID: 15, Name: "cat", Confidence: 0.29, Box: corner},
		}
		assert.Equal(t, "person 5    dog 1    ", Describe(recs, cfg))
	})

	t.Run("custom separator", func(t *testing.T) {
		c := *cfg
		c.Separator = ", "
		recs := []Recognition{
			{Name: "person", Confidence: 0.9, Box: center},
			{Name: "car", Confidence: 0.8, Box: corner},
		}
		assert.Equal(t, "person 5, car 1, ", Describe(recs, &c))
	})

	t.Run("capped at max results", func(t *testing.T) {
		c := *cfg
		c.MaxResults = 2
		recs := []Recognition{
			{Name: "a", Confidence: 0.9, Box: center},
			{Name: "b", Confidence: 0.1, Box: center},
			{Name: "c", Confidence: 0.8, Box: center},
			{Name: "d", Confidence: 0.7, Box: center},
		}
		assert.Equal(t, "a 5    c 5    ", Describe(recs, &c))
	})
}
