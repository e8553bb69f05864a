package main

import (
	"flag"
	"log"
)

var (
	inputPath   = flag.String("input", "", "path to the source COCO annotation file")
	outputDir   = flag.String("output", "", "output directory for noisy images and the new annotation file")
	noiseFactor = flag.Float64("noise", 20, "standard deviation of the Gaussian pixel noise")
	serve       = flag.Bool("serve", false, "run the preview server instead of a batch run")
	listen      = flag.String("listen", "0.0.0.0:8093", "preview server listen address")
	confPath    = flag.String("conf", "", "optional JSON config file; flags take precedence")
)

func main() {
	flag.Parse()

	input := *inputPath
	output := *outputDir
	noise := *noiseFactor
	addr := *listen

	if *confPath != "" {
		cfg, err := LoadConfig(*confPath)
		if err != nil {
			log.Fatal(err)
		}

		if input == "" {
			input = cfg.DatasetJSON
		}

		if output == "" {
			output = cfg.OutputDir
		}

		if cfg.NoiseFactor > 0 && !flagSet("noise") {
			noise = cfg.NoiseFactor
		}

		if cfg.Listen != "" && !flagSet("listen") {
			addr = cfg.Listen
		}
	}

	if input == "" {
		log.Fatal("no input annotation file (use -input or -conf)")
	}

	if *serve {
		if err := runServer(addr, input); err != nil {
			log.Fatalf("%+v", err)
		}

		return
	}

	if output == "" {
		log.Fatal("no output directory (use -output or -conf)")
	}

	if err := AugmentDataset(input, output, noise); err != nil {
		log.Fatalf("%+v", err)
	}

	log.Printf("Done")
}

func flagSet(name string) (ok bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			ok = true
		}
	})

	return
}
