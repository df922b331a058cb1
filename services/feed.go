package services

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"reid-catalog/models"
)

// LoadObservations reads a JSONL handoff file written by the crawling
// collaborator, one observation per line. Blank lines are skipped; a
// malformed line is an error, not a silent drop.
func LoadObservations(path string) ([]*models.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	// raw HTML payloads can push a line into the megabytes
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var observations []*models.Observation
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		obs := &models.Observation{}
		if err := json.Unmarshal(line, obs); err != nil {
			return nil, fmt.Errorf("feed: %s line %d: %w", path, lineNo, err)
		}
		observations = append(observations, obs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("feed: read %s: %w", path, err)
	}
	return observations, nil
}
