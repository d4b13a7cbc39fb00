package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/astrochart/model"
)

func TestSnapshot_AllBodiesPresent(t *testing.T) {
	bodies := Snapshot(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC))
	if len(bodies) != 12 {
		t.Fatalf("snapshot has %d bodies, want 12", len(bodies))
	}

	seen := make(map[string]bool)
	for _, b := range bodies {
		if seen[b.Name] {
			t.Errorf("duplicate body %q in snapshot", b.Name)
		}
		seen[b.Name] = true
		if b.Longitude < 0 || b.Longitude >= 360 {
			t.Errorf("%s longitude = %v outside [0, 360)", b.Name, b.Longitude)
		}
		if b.LongitudeSpeed == nil {
			t.Errorf("%s has no speed; the ephemeris always knows its rates", b.Name)
		}
	}
	for _, name := range []string{model.Sun, model.Moon, model.Pluto, model.NorthNode, model.Lilith} {
		if !seen[name] {
			t.Errorf("snapshot missing %s", name)
		}
	}
}

func TestSnapshot_EpochLongitudes(t *testing.T) {
	// At the J2000 epoch the mean longitudes equal their catalog values.
	bodies := Snapshot(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	for _, b := range bodies {
		switch b.Name {
		case model.Sun:
			if math.Abs(b.Longitude-280.460) > 1e-3 {
				t.Errorf("Sun at epoch = %v, want 280.460", b.Longitude)
			}
		case model.Moon:
			if math.Abs(b.Longitude-218.316) > 1e-3 {
				t.Errorf("Moon at epoch = %v, want 218.316", b.Longitude)
			}
		}
	}
}

func TestSnapshot_MotionRates(t *testing.T) {
	t1 := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	b1 := Snapshot(t1)
	b2 := Snapshot(t2)

	for i := range b1 {
		moved := math.Mod(b2[i].Longitude-b1[i].Longitude+540, 360) - 180
		if math.Abs(moved-*b1[i].LongitudeSpeed) > 1e-6 {
			t.Errorf("%s moved %v° in a day, want its rate %v",
				b1[i].Name, moved, *b1[i].LongitudeSpeed)
		}
	}
}

func TestSnapshot_NorthNodeRetrograde(t *testing.T) {
	bodies := Snapshot(time.Now().UTC())
	for _, b := range bodies {
		if b.Name == model.NorthNode {
			if *b.LongitudeSpeed >= 0 {
				t.Errorf("North Node rate = %v, want retrograde (negative)", *b.LongitudeSpeed)
			}
			return
		}
	}
	t.Fatalf("North Node not found in snapshot")
}

func TestModels_NamesMatchSnapshot(t *testing.T) {
	models := Models()
	at := time.Date(2010, 7, 4, 3, 30, 0, 0, time.UTC)
	for _, m := range models {
		b := m.At(at)
		if b.Name != m.Name() {
			t.Errorf("model %s produced body named %s", m.Name(), b.Name)
		}
	}
}
