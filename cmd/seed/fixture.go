package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/lamasia-league/models"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML seed document. Entities reference each other by key.
type Fixture struct {
	Teams   []TeamFixture   `yaml:"teams"`
	Rounds  []RoundFixture  `yaml:"rounds"`
	Players []PlayerFixture `yaml:"players"`
	Matches []MatchFixture  `yaml:"matches"`
}

type TeamFixture struct {
	Key      string          `yaml:"key"`
	Name     string          `yaml:"name"`
	Category models.Category `yaml:"category"`
	Color    string          `yaml:"color"`
}

type RoundFixture struct {
	Key  string     `yaml:"key"`
	Name string     `yaml:"name"`
	Date *time.Time `yaml:"date"`
}

type PlayerFixture struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Number int    `yaml:"number"`
	Team   string `yaml:"team"`
}

type MatchFixture struct {
	Round    string          `yaml:"round"`
	Category models.Category `yaml:"category"`
	Date     time.Time       `yaml:"date"`
	Home     string          `yaml:"home"`
	Away     string          `yaml:"away"`
	Result   *ResultFixture  `yaml:"result"`
}

// ResultFixture marks the match as played.
type ResultFixture struct {
	Home    int             `yaml:"home"`
	Away    int             `yaml:"away"`
	Scorers []ScorerFixture `yaml:"scorers"`
	MVP     string          `yaml:"mvp"`
}

type ScorerFixture struct {
	Player string `yaml:"player"`
	Count  int    `yaml:"count"`
}

var errEmptyFixture = errors.New("fixture has no teams")

// ParseFixture decodes and validates a fixture; unknown YAML keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) Validate() error {
	if len(f.Teams) == 0 {
		return errEmptyFixture
	}

	teams := make(map[string]TeamFixture, len(f.Teams))
	for _, t := range f.Teams {
		if t.Key == "" || t.Name == "" {
			return fmt.Errorf("team %q: key and name are required", t.Key)
		}
		if !t.Category.Valid() {
			return fmt.Errorf("team %q: invalid category %q", t.Key, t.Category)
		}
		if _, dup := teams[t.Key]; dup {
			return fmt.Errorf("duplicate team key %q", t.Key)
		}
		teams[t.Key] = t
	}

	rounds := make(map[string]bool, len(f.Rounds))
	for _, r := range f.Rounds {
		if r.Key == "" || r.Name == "" {
			return fmt.Errorf("round %q: key and name are required", r.Key)
		}
		if rounds[r.Key] {
			return fmt.Errorf("duplicate round key %q", r.Key)
		}
		rounds[r.Key] = true
	}

	players := make(map[string]string, len(f.Players))
	for _, p := range f.Players {
		if p.Key == "" || p.Name == "" {
			return fmt.Errorf("player %q: key and name are required", p.Key)
		}
		if _, ok := teams[p.Team]; !ok {
			return fmt.Errorf("player %q: unknown team %q", p.Key, p.Team)
		}
		if _, dup := players[p.Key]; dup {
			return fmt.Errorf("duplicate player key %q", p.Key)
		}
		players[p.Key] = p.Team
	}

	for i, m := range f.Matches {
		if !rounds[m.Round] {
			return fmt.Errorf("match #%d: unknown round %q", i+1, m.Round)
		}
		home, okHome := teams[m.Home]
		away, okAway := teams[m.Away]
		if !okHome || !okAway {
			return fmt.Errorf("match #%d: unknown team %q or %q", i+1, m.Home, m.Away)
		}
		if m.Home == m.Away {
			return fmt.Errorf("match #%d: a team cannot play itself", i+1)
		}
		if home.Category != m.Category || away.Category != m.Category {
			return fmt.Errorf("match #%d: teams do not belong to category %q", i+1, m.Category)
		}
		if m.Result == nil {
			continue
		}
		if m.Result.Home < 0 || m.Result.Away < 0 {
			return fmt.Errorf("match #%d: negative score", i+1)
		}
		for _, s := range m.Result.Scorers {
			team, ok := players[s.Player]
			if !ok || (team != m.Home && team != m.Away) || s.Count <= 0 {
				return fmt.Errorf("match #%d: invalid scorer %q", i+1, s.Player)
			}
		}
		if m.Result.MVP != "" {
			if _, ok := players[m.Result.MVP]; !ok {
				return fmt.Errorf("match #%d: unknown mvp %q", i+1, m.Result.MVP)
			}
		}
	}
	return nil
}
