package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
)

var (
	// ErrUnsupportedFile is returned for file types no parser handles.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrMalformed wraps every content error so callers can report bad input.
	ErrMalformed = errors.New("malformed results file")
)

type column int

const (
	colPlayerID column = iota
	colName
	colPlace
	colThrows
	colStatus
)

var headerAliases = map[string]column{
	"player_id": colPlayerID,
	"player id": colPlayerID,
	"pdga":      colPlayerID,
	"pdga #":    colPlayerID,
	"id":        colPlayerID,
	"name":      colName,
	"player":    colName,
	"place":     colPlace,
	"placement": colPlace,
	"position":  colPlace,
	"pos":       colPlace,
	"throws":    colThrows,
	"total":     colThrows,
	"strokes":   colThrows,
	"status":    colStatus,
	"started":   colStatus,
}

// parseRecords reads an optional course preamble (Course/Holes/Par rows),
// a header row naming the columns, and one row per player.
func parseRecords(records [][]string) (*scoringdomain.RoundResult, error) {
	result := &scoringdomain.RoundResult{}

	headerIdx := -1
	var cols map[column]int
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if m := mapHeader(rec); m != nil {
			headerIdx, cols = i, m
			break
		}
		if err := applyPreamble(result, rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, i+1, err)
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: no header row with player id and place columns", ErrMalformed)
	}

	seen := make(map[string]struct{})
	for i := headerIdx + 1; i < len(records); i++ {
		rec := records[i]
		playerID := cell(rec, cols, colPlayerID)
		if playerID == "" {
			continue
		}
		if _, dup := seen[playerID]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate player %q", ErrMalformed, i+1, playerID)
		}
		seen[playerID] = struct{}{}

		pr, err := parsePlayerRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, i+1, err)
		}
		result.Players = append(result.Players, pr)
	}

	if len(result.Players) == 0 {
		return nil, fmt.Errorf("%w: no player rows", ErrMalformed)
	}
	return result, nil
}

func mapHeader(rec []string) map[column]int {
	cols := make(map[column]int)
	for i, raw := range rec {
		if c, ok := headerAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
			if _, taken := cols[c]; !taken {
				cols[c] = i
			}
		}
	}
	_, hasID := cols[colPlayerID]
	_, hasPlace := cols[colPlace]
	if !hasID || !hasPlace {
		return nil
	}
	return cols
}

func applyPreamble(result *scoringdomain.RoundResult, rec []string) error {
	key := strings.ToLower(strings.TrimSpace(rec[0]))
	val := ""
	if len(rec) > 1 {
		val = strings.TrimSpace(rec[1])
	}
	switch key {
	case "course":
		result.CourseName = val
	case "holes":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid hole count %q", val)
		}
		result.Holes = n
	case "par":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid par %q", val)
		}
		result.Par = n
	}
	return nil
}

func parsePlayerRow(rec []string, cols map[column]int) (scoringdomain.PlayerResult, error) {
	pr := scoringdomain.PlayerResult{
		PlayerID: cell(rec, cols, colPlayerID),
		Name:     cell(rec, cols, colName),
		Started:  true,
	}

	status := strings.ToUpper(cell(rec, cols, colStatus))
	place := strings.ToUpper(cell(rec, cols, colPlace))

	switch {
	case status == "DNS" || place == "DNS" || status == "NO" || status == "FALSE":
		pr.Started = false
		return pr, nil
	case status == "DNF" || place == "DNF":
		// started but unplaced
	case place == "":
	default:
		n, err := strconv.Atoi(strings.TrimPrefix(place, "T"))
		if err != nil || n < 0 {
			return pr, fmt.Errorf("invalid place %q", place)
		}
		pr.Placement = n
	}

	if throws := cell(rec, cols, colThrows); throws != "" && throws != "-" {
		n, err := strconv.Atoi(throws)
		if err != nil || n < 0 {
			return pr, fmt.Errorf("invalid throws %q", throws)
		}
		pr.Throws = n
	}
	return pr, nil
}

func cell(rec []string, cols map[column]int, c column) string {
	idx, ok := cols[c]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
