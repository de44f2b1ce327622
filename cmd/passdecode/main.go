// Command passdecode reassembles a recorded telemetry stream into
// per-channel scanline imagery, optionally geolocates it against a two-line
// element set, and records the pass in the catalog. It does not encode
// images; decoded buffers are reported, not written.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/skyward-data/groundtrack/internal/ephem"
	"github.com/skyward-data/groundtrack/internal/geo"
	"github.com/skyward-data/groundtrack/internal/instrument"
	"github.com/skyward-data/groundtrack/internal/network"
	"github.com/skyward-data/groundtrack/internal/passdb"
	"github.com/skyward-data/groundtrack/internal/telemetry"
)

func main() {
	var (
		input    = flag.String("input", "", "space packet stream to decode")
		apid     = flag.Int("apid", -1, "only ingest packets with this APID (-1: all)")
		instName = flag.String("instrument", "mwts3", "instrument profile (mwts3)")
		tlePath  = flag.String("tle", "", "two-line element file for geolocation (optional)")
		dbPath   = flag.String("db", "", "pass catalog database (optional)")
		satName  = flag.String("satellite", "", "satellite name recorded with the pass")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	layout, err := profile(*instName)
	if err != nil {
		log.Fatalf("[passdecode] %v", err)
	}
	if err := layout.Validate(); err != nil {
		log.Fatalf("[passdecode] %v", err)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("[passdecode] %v", err)
	}
	defer f.Close()

	reassembler := instrument.NewReassembler(layout)
	ingested := 0
	err = network.ReadStream(bufio.NewReader(f), func(pkt telemetry.Packet) {
		if *apid >= 0 && pkt.APID != *apid {
			return
		}
		reassembler.Ingest(pkt)
		ingested++
	})
	if err != nil {
		log.Fatalf("[passdecode] %v", err)
	}

	lines := reassembler.Lines()
	log.Printf("[passdecode] %s: %d packets ingested, %d scanlines", layout.Name, ingested, lines)
	for c := 0; c < layout.Channels; c++ {
		img := reassembler.ChannelImage(c)
		log.Printf("[passdecode] channel %d: %dx%d", c+1, img.Width, img.Height)
	}

	if *tlePath != "" && lines > 0 {
		if err := geolocate(reassembler, *tlePath); err != nil {
			log.Fatalf("[passdecode] %v", err)
		}
	}

	if *dbPath != "" && lines > 0 {
		ts := reassembler.Timestamps()
		db, err := passdb.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("[passdecode] %v", err)
		}
		defer db.Close()

		id, err := db.RecordPass(passdb.Pass{
			Satellite:  *satName,
			Instrument: layout.Name,
			Lines:      lines,
			Channels:   layout.Channels,
			StartTime:  ts[0],
			EndTime:    ts[len(ts)-1],
		})
		if err != nil {
			log.Fatalf("[passdecode] %v", err)
		}
		log.Printf("[passdecode] pass recorded as %s", id)
	}
}

func profile(name string) (instrument.Layout, error) {
	switch strings.ToLower(name) {
	case "mwts3", "mwts-3":
		return instrument.MWTS3(), nil
	}
	return instrument.Layout{}, fmt.Errorf("unknown instrument %q", name)
}

// geolocate builds the scan projector for the pass and reports the ground
// coordinate under the center of the imagery as a sanity check.
func geolocate(r *instrument.Reassembler, tlePath string) error {
	line1, line2, err := readTLE(tlePath)
	if err != nil {
		return err
	}
	eph, err := ephem.NewSGP4(line1, line2)
	if err != nil {
		return err
	}

	settings := instrument.MWTS3Projection()
	projector, err := geo.NewScanProjector(settings, eph, r.Timestamps())
	if err != nil {
		return err
	}

	lat, lon, err := projector.Inverse(settings.ImageWidth/2, projector.Lines()/2, false)
	if err != nil {
		return fmt.Errorf("center pixel: %w", err)
	}
	log.Printf("[passdecode] mid-pass center pixel at %.4f°, %.4f° (corrected width %d)",
		lat, lon, projector.CorrectedWidth())
	return nil
}

func readTLE(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.HasPrefix(l, "1 ") || strings.HasPrefix(l, "2 ") {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return "", "", fmt.Errorf("no two-line element set in %s", path)
	}
	return lines[0], lines[1], nil
}
