package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alvinashiatey/lowres/lowres"
)

func main() {
	var (
		input           = flag.String("input", "", "Input image path (jpg, png, etc.)")
		output          = flag.String("output", "", "Output image path (png recommended, e.g. out.png)")
		width           = flag.Int("width", 0, "Target width in pixels (resize mode)")
		height          = flag.Int("height", 0, "Target height in pixels (resize mode)")
		mode            = flag.String("mode", "auto", "Resize behavior: auto or exact (ignored if -block is set)")
		filter          = flag.String("filter", "nearest", "Resampling filter: nearest, triangle, catmullrom, gaussian or lanczos3")
		block           = flag.Int("block", 0, "Pixelation block size in source pixels; if set, pixelate and keep original WxH")
		pixelDownFilter = flag.String("pixel-down-filter", "triangle", "Declared downscale filter for pixelation (averaging ignores it)")
		dpi             = flag.Int("dpi", 300, "DPI to set in the output metadata")
		serve           = flag.Bool("serve", false, "Run the HTTP command server instead of converting")
		confPath        = flag.String("c", "config.json", "Configuration (server mode)")
	)
	flag.Parse()

	if *serve {
		conf, err := lowres.LoadServerConfig(*confPath)
		if err != nil {
			log.Println("Error:", err)
			os.Exit(1)
		}
		log.Fatal(lowres.NewServer(conf).Run())
	}

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "error: -input and -output are required")
		flag.Usage()
		os.Exit(1)
	}

	opts := lowres.Options{
		Mode:            lowres.ResizeMode(*mode),
		Filter:          lowres.Resample(*filter),
		PixelDownFilter: lowres.Resample(*pixelDownFilter),
		DPI:             *dpi,
	}
	if *width > 0 {
		opts.Width = width
	}
	if *height > 0 {
		opts.Height = height
	}
	if *block > 0 {
		opts.Block = block
	}

	res, err := lowres.ProcessFile(lowres.FileSource{}, *input, *output, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(res.Summary())
}
