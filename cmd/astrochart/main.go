package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/chart"
	"github.com/signalsfoundry/astrochart/houses"
	"github.com/signalsfoundry/astrochart/internal/logging"
	"github.com/signalsfoundry/astrochart/model"
)

func main() {
	when := flag.String("time", "", "chart instant as RFC 3339 (default: now)")
	lat := flag.Float64("lat", 0, "geographic latitude in degrees (needs -lon)")
	lon := flag.Float64("lon", 0, "geographic longitude in degrees, east positive")
	withHouses := flag.Bool("houses", false, "compute angles and house cusps for -lat/-lon")
	houseSystem := flag.String("house-system", "equal", "house system: equal or whole-sign")
	requestPath := flag.String("request", "", "path to a JSON chart request (overrides the other flags)")
	allAspects := flag.Bool("all-aspects", false, "consider every aspect type, not just the Ptolemaic majors")
	minStrength := flag.Float64("min-strength", 0, "drop aspects weaker than this strength (0..100)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	req, err := buildRequest(*requestPath, *when, *lat, *lon, *withHouses, *houseSystem, *allAspects, *minStrength)
	if err != nil {
		log.Error(ctx, "bad arguments", logging.Err(err))
		os.Exit(1)
	}

	svc := chart.NewService(log, nil)
	c, err := svc.Build(ctx, req)
	if err != nil {
		log.Error(ctx, "chart build failed", logging.Err(err))
		os.Exit(1)
	}

	printChart(c)
}

func buildRequest(requestPath, when string, lat, lon float64, withHouses bool, houseSystem string, allAspects bool, minStrength float64) (chart.Request, error) {
	if requestPath != "" {
		f, err := os.Open(requestPath)
		if err != nil {
			return chart.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		return chart.LoadRequest(f)
	}

	var req chart.Request
	if when != "" {
		at, err := time.Parse(time.RFC3339, when)
		if err != nil {
			return chart.Request{}, fmt.Errorf("bad -time %q: %w", when, err)
		}
		req.Time = at
	}
	if withHouses {
		req.Location = &model.GeoLocation{LatitudeDeg: lat, LongitudeDeg: lon}
		req.HouseSystem = houses.System(houseSystem)
	}
	if allAspects {
		req.Config.AllowedTypes = aspects.AllAspectTypes()
	}
	req.Config.MinimumStrength = minStrength
	return req, nil
}

func printChart(c *chart.Chart) {
	fmt.Printf("Chart %s at %s\n\n", c.ID, c.Time.Format(time.RFC3339))

	fmt.Println("Positions:")
	for _, b := range c.Bodies {
		line := fmt.Sprintf("  %-10s %7.2f°", b.Name, b.Longitude)
		if h, ok := c.Houses[b.Name]; ok {
			line += fmt.Sprintf("  house %d", h)
		}
		fmt.Println(line)
	}

	if c.Angles != nil {
		fmt.Printf("\nAngles (%s houses):\n", c.HouseSystem)
		fmt.Printf("  Ascendant  %7.2f°\n", c.Angles.Ascendant)
		fmt.Printf("  Midheaven  %7.2f°\n", c.Angles.Midheaven)
	}

	fmt.Printf("\nAspects (%d pairs checked):\n", c.PairsChecked)
	for _, a := range c.Aspects {
		fmt.Printf("  %s\n", aspects.FormatAspect(a))
	}

	if len(c.Patterns) > 0 {
		fmt.Println("\nPatterns:")
		for _, p := range c.Patterns {
			fmt.Printf("  %s\n", aspects.FormatPattern(p))
			fmt.Printf("    %s\n", p.Description)
		}
	}

	fmt.Println("\nSummary:")
	types := make([]string, 0, len(c.Summary))
	for t, n := range c.Summary {
		if n > 0 {
			types = append(types, fmt.Sprintf("  %-15s %d", t, n))
		}
	}
	sort.Strings(types)
	for _, line := range types {
		fmt.Println(line)
	}
}
