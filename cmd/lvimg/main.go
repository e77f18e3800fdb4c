package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/lvimg"
	"github.com/bodgit/lvimg/lvbin"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newConverter(c *cli.Context) (*lvimg.LVImg, func(), error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	var db *lvimg.AssetDB
	closer := func() {}
	if file := c.String("db"); file != "" {
		var err error
		if db, err = lvimg.NewAssetDB(file); err != nil {
			return nil, nil, err
		}
		closer = func() { db.Close() }
	}

	return lvimg.New(db, logger), closer, nil
}

func analyze(c *cli.Context) error {
	file := c.Args().First()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h, candidates, err := lvbin.Analyze(bytes.NewReader(b))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Printf("%s: %s, always_zero=%d, reserved=%d, %d byte payload\n", filepath.Base(file), &h, h.AlwaysZero, h.Reserved, len(b)-lvbin.HeaderSize)

	if !h.Format.Known() {
		fmt.Printf("  color format code %d is not known\n", h.Format)
		return nil
	}

	if len(candidates) == 0 {
		fmt.Println("  payload matches no palette layout")
		return nil
	}

	for i, candidate := range candidates {
		if candidate.Layout == lvbin.LayoutDirectColor {
			fmt.Printf("  %d: %s, %d pixel bytes\n", i, candidate.Layout, len(candidate.Bitmap))
		} else {
			fmt.Printf("  %d: %s, %d palette bytes, %d bitmap bytes\n", i, candidate.Layout, len(candidate.Palette)*4, len(candidate.Bitmap))
		}

		if target := c.String("png"); target != "" {
			if err := os.MkdirAll(target, 0755); err != nil {
				return cli.NewExitError(err, 1)
			}

			m, err := candidate.Image()
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			out := filepath.Join(target, fmt.Sprintf("%s_%d.png", base, i))

			f, err := os.Create(out)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if err := lvimg.WritePNG(f, m, c.Int("scale")); err != nil {
				f.Close()
				return cli.NewExitError(err, 1)
			}
			f.Close()
		}
	}

	return nil
}

func encode(c *cli.Context) error {
	format, ok := lvbin.ParseFormat(c.String("format"))
	if !ok {
		return cli.NewExitError(fmt.Errorf("unknown color format %q", c.String("format")), 1)
	}

	in, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer in.Close()

	m, _, err := image.Decode(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	target := c.Args().Get(1)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return cli.NewExitError(err, 1)
	}

	out, err := os.Create(target)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer out.Close()

	if err := lvimg.EncodeImage(out, m, format); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "lvimg"
	app.Usage = "LVGL image asset conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"LVIMG_DB"},
			Usage:   "path to asset catalog database",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert C array images to binary containers",
			Description: "",
			ArgsUsage:   "SOURCE TARGET",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "png",
					Usage: "also write a PNG per image",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "nearest-neighbor PNG scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, closer, err := newConverter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closer()

				if err := l.Convert(c.Args().Get(0), c.Args().Get(1), c.Bool("png"), c.Int("scale")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "encode",
			Usage:       "Encode a PNG, GIF or JPEG as a binary container",
			Description: "",
			ArgsUsage:   "IMAGE TARGET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "format",
					Value: "RGB565",
					Usage: "target color format",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				return encode(c)
			},
		},
		{
			Name:        "analyze",
			Usage:       "Break down the structure of an existing binary container",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "png",
					Usage: "render every layout candidate as a PNG into this directory",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "nearest-neighbor PNG scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				return analyze(c)
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
