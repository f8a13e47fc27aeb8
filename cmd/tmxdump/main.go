// Command tmxdump parses TMX map files and prints their structure.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	tiled "github.com/maximveligan/rs-tiled"
)

var verbose = flag.Bool("v", false, "also print map and layer properties")

func main() {
	log.SetFlags(0)
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: tmxdump [-v] map.tmx ...")
	}

	failed := false
	for _, name := range flag.Args() {
		m, err := tiled.ParseFile(name)
		if err != nil {
			log.Println(name+":", err)
			failed = true
			continue
		}
		dump(name, m)
	}
	if failed {
		os.Exit(1)
	}
}

func dump(name string, m *tiled.Map) {
	kind := "finite"
	if m.Infinite {
		kind = "infinite"
	}
	fmt.Printf("%s: %s %s map, %dx%d tiles of %dx%d px, version %s\n",
		name, kind, m.Orientation, m.Width, m.Height, m.TileWidth, m.TileHeight, m.Version)
	if m.BackgroundColor != nil {
		c := m.BackgroundColor
		fmt.Printf("  background #%02x%02x%02x\n", c.Red, c.Green, c.Blue)
	}
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		fmt.Printf("  tileset %q: firstgid %d, %dx%d px tiles, %d overrides\n",
			ts.Name, ts.FirstGID, ts.TileWidth, ts.TileHeight, len(ts.Tiles))
	}

	type layerLine struct {
		index int
		desc  string
	}
	lines := make([]layerLine, 0, len(m.Layers)+len(m.ImageLayers)+len(m.ObjectGroups))
	for _, l := range m.Layers {
		lines = append(lines, layerLine{l.LayerIndex, fmt.Sprintf("layer %q: %s", l.Name, describeData(l.Tiles))})
	}
	for _, il := range m.ImageLayers {
		src := "no image"
		if il.Image != nil {
			src = il.Image.Source
		}
		lines = append(lines, layerLine{il.LayerIndex, fmt.Sprintf("imagelayer %q: %s", il.Name, src)})
	}
	for _, g := range m.ObjectGroups {
		idx := -1
		if g.LayerIndex != nil {
			idx = *g.LayerIndex
		}
		lines = append(lines, layerLine{idx, fmt.Sprintf("objectgroup %q: %d objects", g.Name, len(g.Objects))})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].index < lines[j].index })
	for _, l := range lines {
		fmt.Printf("  [%d] %s\n", l.index, l.desc)
	}

	if *verbose {
		printProperties("map", m.Properties)
		for _, l := range m.Layers {
			printProperties("layer "+l.Name, l.Properties)
		}
	}
}

func describeData(d tiled.LayerData) string {
	switch t := d.(type) {
	case tiled.FiniteData:
		n := 0
		for _, row := range t {
			for _, tile := range row {
				if !tile.IsNil() {
					n++
				}
			}
		}
		return fmt.Sprintf("%d rows, %d tiles set", len(t), n)
	case tiled.InfiniteData:
		n := 0
		for _, c := range t {
			for _, row := range c.Tiles {
				for _, tile := range row {
					if !tile.IsNil() {
						n++
					}
				}
			}
		}
		return fmt.Sprintf("%d chunks, %d tiles set", len(t), n)
	}
	return "no data"
}

func printProperties(owner string, props tiled.Properties) {
	if len(props) == 0 {
		return
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("  properties of %s:\n", owner)
	for _, name := range names {
		fmt.Printf("    %s = %v\n", name, props[name])
	}
}
