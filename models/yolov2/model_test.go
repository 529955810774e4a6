package yolov2

import (
	"testing"

	"github.com/nvr-ai/go-yolov2/models"
	"github.com/nvr-ai/go-yolov2/models/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m, err := NewModel(model.NewModelArgs{Path: "tiny-yolov2.onnx"}, nil)
	require.NoError(t, err)

	opts := m.Options()
	assert.Equal(t, model.ModelNameYOLOv2, opts.Name)
	assert.Equal(t, models.ModelFamilyCOCO, opts.Family)
	assert.Equal(t, []string{DefaultInputName}, opts.Inputs)
	assert.Equal(t, []string{DefaultOutputName}, opts.Outputs)
	assert.Equal(t, []int64{1, 416, 416, 3}, opts.InputShape)
	assert.Equal(t, []int64{1, 13, 13, 425}, opts.OutputShape)

	voc, err := NewModel(model.NewModelArgs{Name: model.ModelNameYOLOv2VOC, Outputs: []string{"out"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ModelFamilyVOC, voc.Options().Family)
	assert.Equal(t, []string{"out"}, voc.Options().Outputs)
	assert.Equal(t, []int64{1, 13, 13, 125}, voc.Options().OutputShape)

	_, err = NewModel(model.NewModelArgs{Name: "yolov9"}, nil)
	assert.Error(t, err)

	bad := DefaultConfig()
	bad.MaxResults = 0
	_, err = NewModel(model.NewModelArgs{}, bad)
	assert.Error(t, err)
}
