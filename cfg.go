package main

import (
	"encoding/json"
	"os"
)

type Config struct {
	DatasetJSON string  `json:"dataset_json"`
	OutputDir   string  `json:"output_dir"`
	NoiseFactor float64 `json:"noise_factor"`
	Listen      string  `json:"listen"`
}

func LoadConfig(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	err = json.Unmarshal(data, &cfg)
	return
}
