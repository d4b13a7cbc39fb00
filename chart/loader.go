package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/houses"
	"github.com/signalsfoundry/astrochart/model"
)

// internal JSON shapes – keep them unexported so we’re free to evolve them.
type requestJSON struct {
	Time        string        `json:"time"` // RFC 3339; empty means "now"
	Location    *locationJSON `json:"location"`
	HouseSystem string        `json:"house_system"` // "equal" | "whole-sign"

	Orbs             map[string]float64 `json:"orbs"`
	AspectTypes      []string           `json:"aspect_types"`
	MinimumStrength  float64            `json:"minimum_strength"`
	IncludeOutOfSign *bool              `json:"include_out_of_sign"` // optional; defaults to true

	ExtraBodies []bodyJSON `json:"extra_bodies"`
}

type locationJSON struct {
	LatitudeDeg  float64 `json:"latitude_deg"`
	LongitudeDeg float64 `json:"longitude_deg"`
}

type bodyJSON struct {
	Name           string   `json:"name"`
	Longitude      float64  `json:"longitude"`
	LongitudeSpeed *float64 `json:"longitude_speed"` // optional; nil means unknown motion
}

// LoadRequest reads a chart request from JSON. It fails on structural
// errors, unparseable times, and names that do not match a known aspect
// type; longitude validity is left to the scan itself.
func LoadRequest(r io.Reader) (Request, error) {
	var payload requestJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return Request{}, fmt.Errorf("LoadRequest: decode failed: %w", err)
	}

	var req Request

	if payload.Time != "" {
		at, err := time.Parse(time.RFC3339, payload.Time)
		if err != nil {
			return Request{}, fmt.Errorf("LoadRequest: bad time %q: %w", payload.Time, err)
		}
		req.Time = at
	}

	if payload.Location != nil {
		req.Location = &model.GeoLocation{
			LatitudeDeg:  payload.Location.LatitudeDeg,
			LongitudeDeg: payload.Location.LongitudeDeg,
		}
	}
	if payload.HouseSystem != "" {
		req.HouseSystem = houses.System(payload.HouseSystem)
	}

	if len(payload.Orbs) > 0 {
		orbs := make(map[aspects.AspectType]float64, len(payload.Orbs))
		for name, orb := range payload.Orbs {
			t, err := aspectTypeByName(name)
			if err != nil {
				return Request{}, fmt.Errorf("LoadRequest: orbs: %w", err)
			}
			orbs[t] = orb
		}
		req.Config.Orbs = orbs
	}

	if payload.AspectTypes != nil {
		types := make([]aspects.AspectType, 0, len(payload.AspectTypes))
		for _, name := range payload.AspectTypes {
			t, err := aspectTypeByName(name)
			if err != nil {
				return Request{}, fmt.Errorf("LoadRequest: aspect_types: %w", err)
			}
			types = append(types, t)
		}
		req.Config.AllowedTypes = types
	}

	req.Config.MinimumStrength = payload.MinimumStrength
	if payload.IncludeOutOfSign != nil {
		req.Config.DropOutOfSign = !*payload.IncludeOutOfSign
	}

	for _, b := range payload.ExtraBodies {
		if b.Name == "" {
			return Request{}, fmt.Errorf("LoadRequest: extra body with empty name")
		}
		req.ExtraBodies = append(req.ExtraBodies, model.Body{
			Name:           b.Name,
			Longitude:      b.Longitude,
			LongitudeSpeed: b.LongitudeSpeed,
		})
	}

	return req, nil
}

func aspectTypeByName(name string) (aspects.AspectType, error) {
	for _, t := range aspects.AllAspectTypes() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown aspect type %q", name)
}
