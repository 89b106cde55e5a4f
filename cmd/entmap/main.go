// entmap - entity map CLI tool
//
// Usage:
//
//	entmap parse [file]                      Parse a map and print a summary
//	entmap fmt [file]                        Parse a map and print its canonical form
//	entmap pack <src> <dst>                  Pack a text map into a compressed container
//	entmap unpack <src> <dst>                Unpack a compressed container to text
//	entmap find <file> <dim> <token> [-p]    Query one index dimension (key, value,
//	                                         layer, class, inherit); -p for substring match
//	entmap near <file> <pos> <distance>      Find entities around "<x>x<y>x<z>"
//	entmap version                           Print version info
//
// If no file is given, parse and fmt read from stdin. Compressed input
// files are unpacked transparently.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/veldra/entmap/entmap"
	"github.com/veldra/entmap/index"
	"github.com/veldra/entmap/pack"
)

const version = "0.2.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "parse":
		cmdParse(os.Args[2:])
	case "fmt":
		cmdFmt(os.Args[2:])
	case "pack":
		cmdPack(os.Args[2:])
	case "unpack":
		cmdUnpack(os.Args[2:])
	case "find":
		cmdFind(os.Args[2:])
	case "near":
		cmdNear(os.Args[2:])
	case "version":
		fmt.Printf("entmap %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "entmap: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func cmdParse(args []string) {
	doc := loadDocument(args)
	fmt.Printf("version            %d\n", doc.Version)
	fmt.Printf("hierarchy version  %d\n", doc.HierarchyVersion)
	fmt.Printf("properties         %d\n", len(doc.Properties))
	fmt.Printf("entities           %d\n", len(doc.Entities))
	for _, entity := range doc.Entities {
		name, err := entmap.DefName(entity)
		if err != nil {
			fatal("%v", err)
		}
		line := name
		if class := entmap.Class(entity); class != "" {
			line += "  class=" + class
		}
		if inherit := entmap.Inherit(entity); inherit != "" {
			line += "  inherit=" + inherit
		}
		fmt.Println("  " + line)
	}
}

func cmdFmt(args []string) {
	doc := loadDocument(args)
	os.Stdout.WriteString(entmap.Write(doc))
}

func cmdPack(args []string) {
	if len(args) != 2 {
		fatal("pack: want <src> <dst>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal("read %s: %v", args[0], err)
	}
	if pack.IsCompressed(data) {
		fatal("%s is already compressed", args[0])
	}
	packed, err := pack.Compress(data)
	if err != nil {
		fatal("%v", err)
	}
	if err := os.WriteFile(args[1], packed, 0o644); err != nil {
		fatal("write %s: %v", args[1], err)
	}
	fmt.Fprintf(os.Stderr, "packed %s to %s (%d -> %d bytes)\n",
		args[0], args[1], len(data), len(packed))
}

func cmdUnpack(args []string) {
	if len(args) != 2 {
		fatal("unpack: want <src> <dst>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal("read %s: %v", args[0], err)
	}
	text, err := pack.Decompress(data)
	if err != nil {
		fatal("%v", err)
	}
	if err := os.WriteFile(args[1], text, 0o644); err != nil {
		fatal("write %s: %v", args[1], err)
	}
	fmt.Fprintf(os.Stderr, "unpacked %s to %s (%d -> %d bytes)\n",
		args[0], args[1], len(data), len(text))
}

func cmdFind(args []string) {
	partial := false
	rest := args[:0:0]
	for _, arg := range args {
		if arg == "-p" || arg == "--partial" {
			partial = true
			continue
		}
		rest = append(rest, arg)
	}
	if len(rest) != 3 {
		fatal("find: want <file> <dimension> <token>")
	}

	engine := buildIndex(rest[0])
	var names []string
	switch dim := rest[1]; dim {
	case "key":
		names = engine.FindKey(rest[2], partial)
	case "value":
		names = engine.FindValue(rest[2], partial)
	case "layer":
		names = engine.FindLayer(rest[2], partial)
	case "class":
		names = engine.FindClass(rest[2], partial)
	case "inherit":
		names = engine.FindInherit(rest[2], partial)
	default:
		fatal("find: unknown dimension %q (want key, value, layer, class or inherit)", dim)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdNear(args []string) {
	if len(args) != 3 {
		fatal("near: want <file> <position> <distance>")
	}
	distance, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fatal("near: invalid distance %q", args[2])
	}

	engine := buildIndex(args[0])
	names, err := engine.FindSurroundingSpawnPositions(args[1], distance)
	if err != nil {
		fatal("%v", err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func buildIndex(path string) *index.Engine {
	doc, err := entmap.ParseFile(path)
	if err != nil {
		fatal("%v", err)
	}
	keyed, err := doc.Keyed()
	if err != nil {
		fatal("%v", err)
	}
	return index.NewFromEntities(keyed)
}

func loadDocument(args []string) *entmap.Document {
	if len(args) > 0 && args[0] != "-" {
		doc, err := entmap.ParseFile(args[0])
		if err != nil {
			fatal("%v", err)
		}
		return doc
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("read stdin: %v", err)
	}
	if pack.IsCompressed(data) {
		data, err = pack.Decompress(data)
		if err != nil {
			fatal("%v", err)
		}
	}
	doc, err := entmap.ParseDocument(string(data))
	if err != nil {
		fatal("%v", err)
	}
	return doc
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "entmap: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `entmap - entity map tool

Usage:
  entmap parse [file]                      Parse a map and print a summary
  entmap fmt [file]                        Parse a map and print its canonical form
  entmap pack <src> <dst>                  Pack a text map into a compressed container
  entmap unpack <src> <dst>                Unpack a compressed container to text
  entmap find <file> <dim> <token> [-p]    Query one index dimension
  entmap near <file> <pos> <distance>      Find entities around "<x>x<y>x<z>"
  entmap version                           Print version info
`)
}
