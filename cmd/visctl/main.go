// visctl is a thin operational entrypoint over the vista-sdk library
// packages: lookup a GMOD code, parse a path string, or convert a path
// between VIS versions, all against a directory of resource files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/333fps/vista-sdk/internal/logger"
	"github.com/333fps/vista-sdk/pkg/gmodpath"
	"github.com/333fps/vista-sdk/pkg/resource"
	"github.com/333fps/vista-sdk/pkg/versioning"
	"github.com/333fps/vista-sdk/pkg/vis"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "lookup":
		runLookup(args)
	case "parse":
		runParse(args)
	case "convert":
		runConvert(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: visctl <lookup|parse|convert> [flags]")
	fmt.Fprintln(os.Stderr, "  lookup  -version <vis> -code <code>")
	fmt.Fprintln(os.Stderr, "  parse   -version <vis> -path <path> [-full]")
	fmt.Fprintln(os.Stderr, "  convert -from <vis> -to <vis> -path <path>")
}

func newVIS(resourceDir string) *vis.VIS {
	log := logger.NewLogger(logger.Config{Level: "info"})
	source := resource.DirSource{Dir: resourceDir}
	return vis.New(source, vis.WithLogger(log))
}

func runLookup(args []string) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	resourceDir := fs.String("resources", "resources", "directory containing *.json.gz resource files")
	version := fs.String("version", "", "VIS version, e.g. 3-7a")
	code := fs.String("code", "", "GMOD code to look up")
	fs.Parse(args)

	if *version == "" || *code == "" {
		fmt.Fprintln(os.Stderr, "lookup requires -version and -code")
		os.Exit(2)
	}

	v := newVIS(*resourceDir)
	g, err := v.Gmod(versioning.VisVersion(*version))
	if err != nil {
		fatal(err)
	}

	node, ok := g.TryGetNode(*code)
	if !ok {
		fatal(fmt.Errorf("code %q not found in VIS %s", *code, *version))
	}

	fmt.Printf("%s\t%s\n", node.Code(), node.Metadata().Name)
}

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	resourceDir := fs.String("resources", "resources", "directory containing *.json.gz resource files")
	version := fs.String("version", "", "VIS version, e.g. 3-7a")
	path := fs.String("path", "", "path string to parse")
	full := fs.Bool("full", false, "parse as a full path (from the root) instead of a short path")
	fs.Parse(args)

	if *version == "" || *path == "" {
		fmt.Fprintln(os.Stderr, "parse requires -version and -path")
		os.Exit(2)
	}

	v := newVIS(*resourceDir)
	g, err := v.Gmod(versioning.VisVersion(*version))
	if err != nil {
		fatal(err)
	}
	locs, err := v.Locations(versioning.VisVersion(*version))
	if err != nil {
		fatal(err)
	}

	var p *gmodpath.Path
	if *full {
		p, err = gmodpath.ParseFullPath(*path, g, locs)
	} else {
		p, err = gmodpath.Parse(*path, g, locs)
	}
	if err != nil {
		fatal(err)
	}

	fmt.Println(p.FullPathString())
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	resourceDir := fs.String("resources", "resources", "directory containing *.json.gz resource files")
	from := fs.String("from", "", "source VIS version")
	to := fs.String("to", "", "target VIS version")
	path := fs.String("path", "", "path string to convert")
	fs.Parse(args)

	if *from == "" || *to == "" || *path == "" {
		fmt.Fprintln(os.Stderr, "convert requires -from, -to, and -path")
		os.Exit(2)
	}

	v := newVIS(*resourceDir)
	sourceVersion := versioning.VisVersion(*from)
	targetVersion := versioning.VisVersion(*to)

	srcGmod, err := v.Gmod(sourceVersion)
	if err != nil {
		fatal(err)
	}
	srcLocs, err := v.Locations(sourceVersion)
	if err != nil {
		fatal(err)
	}

	srcPath, err := gmodpath.ParseFullPath(*path, srcGmod, srcLocs)
	if err != nil {
		fatal(err)
	}

	gv, err := v.GmodVersioning()
	if err != nil {
		fatal(err)
	}

	converted, err := gv.ConvertPath(v, sourceVersion, srcPath, targetVersion)
	if err != nil {
		fatal(err)
	}

	fmt.Println(converted.FullPathString())
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "visctl:", err)
	os.Exit(1)
}
