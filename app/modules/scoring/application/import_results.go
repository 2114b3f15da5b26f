package scoringservice

import (
	"context"
	"fmt"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/google/uuid"
)

// ImportRoundResults parses an uploaded CSV/XLSX file and scores it as one round.
// Imported files never finish a competition; only provider results carry the final flag.
func (s *ScoringService) ImportRoundResults(ctx context.Context, competitionID uuid.UUID, round int, division, filename string, data []byte) (*scoringdomain.RoundSummary, error) {
	parser, err := s.parsers.GetParser(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResultsFile, err)
	}

	parsed, err := parser.Parse(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected results file",
			attr.ExtractCorrelationID(ctx),
			attr.String("filename", filename),
			attr.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResultsFile, err)
	}
	parsed.Final = false

	s.logger.InfoContext(ctx, "Parsed results file",
		attr.ExtractCorrelationID(ctx),
		attr.String("filename", filename),
		attr.Int("players", len(parsed.Players)),
	)

	return s.ScoreRound(ctx, competitionID, round, division, *parsed)
}
