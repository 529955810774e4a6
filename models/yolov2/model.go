package yolov2

import (
	"github.com/nvr-ai/go-yolov2/models/model"
	"github.com/pkg/errors"
)

const (
	// DefaultInputName is the input tensor name of the exported tiny YOLOv2 graph.
	DefaultInputName = "image"
	// DefaultOutputName is the output tensor name of the exported tiny YOLOv2 graph.
	DefaultOutputName = "grid"
)

// YOLOv2 is the instance of a tiny YOLOv2 model.
type YOLOv2 struct {
	options model.BaseModel
	config  *Config
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model. Empty input or output
//     names fall back to DefaultInputName and DefaultOutputName.
//   - cfg: The decode configuration. Nil selects the configuration matching
//     args.Name.
//
// Returns:
//   - The model.
func NewModel(args model.NewModelArgs, cfg *Config) (*YOLOv2, error) {
	if cfg == nil {
		switch args.Name {
		case model.ModelNameYOLOv2VOC:
			cfg = VOCConfig()
		case model.ModelNameYOLOv2, "":
			cfg = DefaultConfig()
		default:
			return nil, errors.Errorf("unsupported model name: %s", args.Name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	name := args.Name
	if name == "" {
		name = model.ModelNameYOLOv2
	}
	inputs := args.Inputs
	if len(inputs) == 0 {
		inputs = []string{DefaultInputName}
	}
	outputs := args.Outputs
	if len(outputs) == 0 {
		outputs = []string{DefaultOutputName}
	}

	g := cfg.Geometry
	return &YOLOv2{
		options: model.BaseModel{
			Name:        name,
			Family:      cfg.Labels.Style,
			Path:        args.Path,
			Inputs:      inputs,
			Outputs:     outputs,
			InputShape:  []int64{1, int64(g.InputHeight), int64(g.InputWidth), 3},
			OutputShape: []int64{1, int64(g.GridHeight), int64(g.GridWidth), int64(g.Channels())},
		},
		config: cfg,
	}, nil
}

// Options returns the options for the YOLOv2 model.
func (m *YOLOv2) Options() model.BaseModel {
	return m.options
}

// Config returns the decode configuration of the model.
func (m *YOLOv2) Config() *Config {
	return m.config
}
