// Package model - Shared model identifiers and descriptors.
package model

import "github.com/nvr-ai/go-yolov2/models"

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv2 is tiny YOLOv2 trained on COCO.
	ModelNameYOLOv2 Name = "yolov2"
	// ModelNameYOLOv2VOC is tiny YOLOv2 trained on Pascal VOC.
	ModelNameYOLOv2VOC Name = "yolov2-voc"
)

// BaseModel describes how a model is loaded and what its tensors look like.
type BaseModel struct {
	Name        Name               `json:"name" yaml:"name"`
	Family      models.ModelFamily `json:"family" yaml:"family"`
	Path        string             `json:"path" yaml:"path"`
	Inputs      []string           `json:"inputs" yaml:"inputs"`
	Outputs     []string           `json:"outputs" yaml:"outputs"`
	InputShape  []int64            `json:"input_shape" yaml:"input_shape"`
	OutputShape []int64            `json:"output_shape" yaml:"output_shape"`
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name    Name     `json:"name" yaml:"name"`
	Path    string   `json:"path" yaml:"path"`
	Inputs  []string `json:"inputs" yaml:"inputs"`
	Outputs []string `json:"outputs" yaml:"outputs"`
}
