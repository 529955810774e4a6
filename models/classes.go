package models

import "github.com/pkg/errors"

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index returned by the model.
	Index int
	// The human-readable label.
	Name string
}

// OutputClassSet is an immutable label table. The zero-based position of a
// class in the table is the index the network predicts for it.
type OutputClassSet struct {
	// Class set identifier.
	Style ModelFamily
	// Classes that are supported and mappable.
	classes []OutputClass
	// nameToIdx for fast lookup by name.
	nameToIdx map[string]int
}

// NewOutputClassSet builds a label table from an ordered list of names.
//
// Arguments:
//   - style: The dataset the names belong to.
//   - names: Class names in model output order.
//
// Returns:
//   - *OutputClassSet: The table. The names slice is copied.
func NewOutputClassSet(style ModelFamily, names []string) *OutputClassSet {
	s := &OutputClassSet{
		Style:     style,
		classes:   make([]OutputClass, len(names)),
		nameToIdx: make(map[string]int, len(names)),
	}
	for i, name := range names {
		s.classes[i] = OutputClass{Index: i, Name: name}
		s.nameToIdx[name] = i
	}
	return s
}

// Len returns the number of classes in the table.
func (s *OutputClassSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.classes)
}

// Name returns the class name for an index. Out of range indices and a nil
// table return an empty string.
func (s *OutputClassSet) Name(idx int) string {
	if s == nil || idx < 0 || idx >= len(s.classes) {
		return ""
	}
	return s.classes[idx].Name
}

// Index returns the class index for a name.
func (s *OutputClassSet) Index(name string) (int, error) {
	if s == nil {
		return -1, errors.Errorf("name %q not found in an empty class set", name)
	}
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, errors.Errorf("name %q not found in style %q", name, s.Style)
	}
	return idx, nil
}

// Classes returns a copy of the table.
func (s *OutputClassSet) Classes() []OutputClass {
	out := make([]OutputClass, len(s.classes))
	copy(out, s.classes)
	return out
}

// YOLOv2COCOClasses is the 80 COCO labels in the order tiny YOLOv2 predicts them.
var YOLOv2COCOClasses = NewOutputClassSet(ModelFamilyCOCO, []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse",
	"sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie",
	"suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut",
	"cake", "chair", "couch", "potted plant", "bed", "dining table", "toilet", "television", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator", "book",
	"clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
})

// PascalVOCClasses is the 20 Pascal VOC labels used by tiny-yolo-voc.
var PascalVOCClasses = NewOutputClassSet(ModelFamilyVOC, []string{
	"aeroplane", "bicycle", "bird", "boat", "bottle", "bus", "car", "cat", "chair", "cow",
	"diningtable", "dog", "horse", "motorbike", "person", "pottedplant", "sheep", "sofa", "train", "tvmonitor",
})
