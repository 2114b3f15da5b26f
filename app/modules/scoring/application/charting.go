package scoringservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoStandings is returned when a tournament has no members to chart.
var ErrNoStandings = errors.New("no standings to chart")

// ChartPalette holds the colors used for standings charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Leader     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is the dark forest theme used across the app.
var DefaultPalette = ChartPalette{
	Background: drawing.Color{R: 0x1b, G: 0x26, B: 0x1f, A: 0xff},
	Bar:        drawing.Color{R: 0x3f, G: 0x7d, B: 0x5a, A: 0xff},
	Leader:     drawing.Color{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff},
	Text:       drawing.Color{R: 0xe8, G: 0xe6, B: 0xe3, A: 0xff},
}

const (
	chartBarWidth   = 40
	chartBarSpacing = 20
)

// StandingsChart renders tournament standings as a PNG bar chart, best first.
func (s *ScoringService) StandingsChart(ctx context.Context, tournamentID uuid.UUID) ([]byte, error) {
	standings, err := s.ListStandings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	png, err := GenerateStandingsChart(standings, DefaultPalette)
	if err != nil {
		return nil, fmt.Errorf("StandingsChart: %w", err)
	}
	return png, nil
}

// GenerateStandingsChart draws one bar per standing. Standings arrive worst first
// and are drawn best first.
func GenerateStandingsChart(standings []scoringdomain.Standing, palette ChartPalette) ([]byte, error) {
	if len(standings) == 0 {
		return nil, ErrNoStandings
	}

	maxScore := 1
	bars := make([]chart.Value, 0, len(standings))
	for i := len(standings) - 1; i >= 0; i-- {
		st := standings[i]
		if st.Score > maxScore {
			maxScore = st.Score
		}
		color := palette.Bar
		if st.Rank == 1 {
			color = palette.Leader
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("#%d %s", st.Rank, st.DisplayName),
			Value: float64(st.Score),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Standings",
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Width:      160 + len(bars)*(chartBarWidth+chartBarSpacing),
		Height:     480,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Name: "Points",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxScore)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
