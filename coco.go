package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

type ImageInfo struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Annotation keeps every field as raw JSON so that anything we do not
// touch survives the round trip byte for byte. Only image_id is ever
// rewritten.
type Annotation map[string]json.RawMessage

func (a Annotation) ImageID() (int64, error) {
	raw, ok := a["image_id"]
	if !ok {
		return 0, errors.New("annotation has no image_id")
	}

	var id int64
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, errors.Wrap(err, "bad image_id")
	}

	return id, nil
}

// WithImageID returns a shallow copy with image_id overwritten.
func (a Annotation) WithImageID(id int64) Annotation {
	r := make(Annotation, len(a))
	for k, v := range a {
		r[k] = v
	}

	raw, _ := json.Marshal(id)
	r["image_id"] = raw
	return r
}

// Dataset holds a COCO annotation file. Top-level fields other than
// images and annotations (info, licenses, categories, ...) are carried
// in Extra and written back unchanged.
type Dataset struct {
	Images      []ImageInfo
	Annotations []Annotation
	Extra       map[string]json.RawMessage
}

func (d *Dataset) UnmarshalJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return err
	}

	if raw, ok := top["images"]; ok {
		if err := json.Unmarshal(raw, &d.Images); err != nil {
			return err
		}

		delete(top, "images")
	}

	if raw, ok := top["annotations"]; ok {
		if err := json.Unmarshal(raw, &d.Annotations); err != nil {
			return err
		}

		delete(top, "annotations")
	}

	d.Extra = top
	return nil
}

func (d *Dataset) MarshalJSON() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.Extra)+2)
	for k, v := range d.Extra {
		top[k] = v
	}

	var err error
	if top["images"], err = json.Marshal(d.Images); err != nil {
		return nil, err
	}

	if top["annotations"], err = json.Marshal(d.Annotations); err != nil {
		return nil, err
	}

	return json.Marshal(top)
}

func LoadDataset(path string) (ret *Dataset, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = json.Unmarshal(data, &ret)
	return
}

// Save writes the dataset as pretty-printed JSON, 4-space indent.
func (d *Dataset) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// BuildAnnotationIndex groups annotations by image_id, preserving their
// order within the full annotation sequence.
func BuildAnnotationIndex(anns []Annotation) (map[int64][]Annotation, error) {
	ret := make(map[int64][]Annotation)
	for _, a := range anns {
		id, err := a.ImageID()
		if err != nil {
			return nil, err
		}

		ret[id] = append(ret[id], a)
	}

	return ret, nil
}

// annotationFileName builds the file_name entry for an augmented image.
// Downstream tooling expects a Windows-style images\ prefix, while input
// resolution normalizes to forward slashes; the quirk lives here only.
func annotationFileName(base string) string {
	return `images\` + base
}
