package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kgToLb = 2.2046226218
	inToCm = 2.54
)

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "kg" && to == "lb" {
		return v * kgToLb
	}
	if from == "lb" && to == "kg" {
		return v / kgToLb
	}
	return v
}

// ConvertHeight converts a height value between "cm" and "in".
func ConvertHeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "in" && to == "cm" {
		return v * inToCm
	}
	if from == "cm" && to == "in" {
		return v / inToCm
	}
	return v
}

// ParseWeight reads a body weight such as "70", "70kg" or "154.3lb" and
// returns kilograms rounded to one decimal. A bare number is kilograms.
func ParseWeight(s string) (float64, error) {
	v, unit, err := splitUnit(s, "kg", "lb")
	if err != nil {
		return 0, fmt.Errorf("weight: %w", err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("weight: must be positive")
	}
	return round1(ConvertWeight(v, unit, "kg")), nil
}

// ParseHeight reads a height such as "170", "170cm" or "67in" and returns
// centimetres rounded to one decimal. A bare number is centimetres.
func ParseHeight(s string) (float64, error) {
	v, unit, err := splitUnit(s, "cm", "in")
	if err != nil {
		return 0, fmt.Errorf("height: %w", err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("height: must be positive")
	}
	return round1(ConvertHeight(v, unit, "cm")), nil
}

func splitUnit(s, metric, imperial string) (float64, string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	unit := metric
	switch {
	case strings.HasSuffix(s, imperial):
		unit = imperial
		s = strings.TrimSuffix(s, imperial)
	case strings.HasSuffix(s, metric):
		s = strings.TrimSuffix(s, metric)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid value %q", s)
	}
	return v, unit, nil
}
