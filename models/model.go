// Package models - Definitions for model output class styles and sets.
package models

// ModelFamily is the dataset a label table was trained on.
type ModelFamily string

const (
	// ModelFamilyCOCO is the 80 COCO classes, zero-based, no background entry.
	ModelFamilyCOCO ModelFamily = "coco"
	// ModelFamilyVOC is the 20 Pascal VOC classes, zero-based, no background entry.
	ModelFamilyVOC ModelFamily = "voc"
)
