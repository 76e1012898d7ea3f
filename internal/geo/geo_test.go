package geo

import (
	"math"
	"testing"

	"lifeline/internal/types"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 11.0168, Lng: 76.9558},
			b:         types.Point{Lat: 11.0168, Lng: 76.9558},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Coimbatore centre to airport (~10km)",
			a:         types.Point{Lat: 11.0168, Lng: 76.9558},
			b:         types.Point{Lat: 11.0300, Lng: 77.0434},
			wantKm:    9.7,
			tolerance: 1.0,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 11.0, Lng: 76.0}
	b := types.Point{Lat: 12.0, Lng: 77.0}
	d1 := DistanceKm(a, b)
	d2 := DistanceKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceKm_NonNegative(t *testing.T) {
	points := []types.Point{
		{Lat: 0, Lng: 0},
		{Lat: -90, Lng: -180},
		{Lat: 90, Lng: 180},
		{Lat: 11.0168, Lng: 76.9558},
	}
	for _, a := range points {
		for _, b := range points {
			if d := DistanceKm(a, b); d < 0 {
				t.Errorf("DistanceKm(%v, %v) = %f, want >= 0", a, b, d)
			}
		}
	}
}

func TestRoundKm(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.235, 1.24},
		{3944.178, 3944.18},
	}
	for _, tt := range tests {
		if got := RoundKm(tt.in); got != tt.want {
			t.Errorf("RoundKm(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
