package main

import (
	"encoding/json"
	"os"
)

type Annotation struct {
	ID    int64 `json:"id"`
	ImgID int64 `json:"image_id"`
}

type ImageInfo struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type AnnotationFile struct {
	Images      []ImageInfo   `json:"images"`
	Annotations []*Annotation `json:"annotations"`
}

func LoadAnnotationFile(path string) (ret *AnnotationFile, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = json.Unmarshal(data, &ret)
	return
}

func BuildImageIndex(imgs []ImageInfo) (ret map[int64]ImageInfo) {
	ret = make(map[int64]ImageInfo)
	for _, img := range imgs {
		ret[img.ID] = img
	}

	return
}
