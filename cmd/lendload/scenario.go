package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/circulib/lending-go/lending"
)

// Scenario describes one load run: the books to seed, the borrower pool,
// the command rate, and how the generated commands are weighted.
type Scenario struct {
	SeedBooks []SeedBook `yaml:"seed_books"`
	Borrowers int        `yaml:"borrowers"`
	Rate      int        `yaml:"rate"`
	Duration  string     `yaml:"duration"`
	Weights   Weights    `yaml:"weights"`
}

// SeedBook is one catalog entry created before the run starts.
type SeedBook struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Year     int    `yaml:"year"`
	Category string `yaml:"category"`
	Copies   int    `yaml:"copies"`
}

// Weights controls the relative frequency of generated commands.
type Weights struct {
	Borrow int `yaml:"borrow"`
	Return int `yaml:"return"`
	Query  int `yaml:"query"`
}

const (
	defaultBorrowers = 20
	defaultRate      = 30
	defaultDuration  = 30 * time.Second
)

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return Scenario{}, fmt.Errorf("reading scenario file: %w", readErr)
	}

	var scenario Scenario
	if unmarshalErr := yaml.Unmarshal(raw, &scenario); unmarshalErr != nil {
		return Scenario{}, fmt.Errorf("parsing scenario file: %w", unmarshalErr)
	}

	if scenario.Borrowers <= 0 {
		scenario.Borrowers = defaultBorrowers
	}

	if scenario.Rate <= 0 {
		scenario.Rate = defaultRate
	}

	if scenario.Weights == (Weights{}) {
		scenario.Weights = Weights{Borrow: 60, Return: 30, Query: 10}
	}

	if len(scenario.SeedBooks) == 0 {
		return Scenario{}, fmt.Errorf("scenario has no seed_books")
	}

	for i, book := range scenario.SeedBooks {
		if book.Copies < 1 {
			return Scenario{}, fmt.Errorf("seed_books[%d] (%q): copies must be positive", i, book.Title)
		}

		category := lending.Category(book.Category)
		if category != "" && !category.IsValid() {
			return Scenario{}, fmt.Errorf("seed_books[%d] (%q): unknown category %q", i, book.Title, book.Category)
		}
	}

	return scenario, nil
}

// RunDuration parses the scenario's duration, falling back to the default.
func (s Scenario) RunDuration() (time.Duration, error) {
	if s.Duration == "" {
		return defaultDuration, nil
	}

	duration, parseErr := time.ParseDuration(s.Duration)
	if parseErr != nil {
		return 0, fmt.Errorf("parsing scenario duration: %w", parseErr)
	}

	return duration, nil
}
