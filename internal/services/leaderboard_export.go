package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

const leaderboardSheet = "Leaderboard"

var leaderboardHeader = []string{"Rank", "Username", "Full name", "Courses completed", "Average score", "Student ID"}

type LeaderboardSource interface {
	Rank(ctx context.Context) ([]types.LeaderboardEntry, error)
}

type LeaderboardExportService interface {
	WriteXLSX(ctx context.Context, w io.Writer) (int, error)
}

type leaderboardExportService struct {
	log    *logger.Logger
	source LeaderboardSource
}

func NewLeaderboardExportService(baseLog *logger.Logger, source LeaderboardSource) LeaderboardExportService {
	return &leaderboardExportService{log: baseLog.With("service", "LeaderboardExportService"), source: source}
}

// WriteXLSX writes the current ranking as a single sheet and returns the
// number of ranked rows.
func (s *leaderboardExportService) WriteXLSX(ctx context.Context, w io.Writer) (int, error) {
	const op = "LeaderboardExport.WriteXLSX"
	entries, err := s.source.Rank(ctx)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		return 0, domainagg.NewError(domainagg.CodeInternal, op, "sheet setup failed", err)
	}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &leaderboardHeader); err != nil {
		return 0, domainagg.NewError(domainagg.CodeInternal, op, "header write failed", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, domainagg.NewError(domainagg.CodeInternal, op, "cell name failed", err)
		}
		row := []interface{}{e.RankPosition, e.Username, e.FullName, e.CoursesCompleted, e.AvgScore, e.StudentID.String()}
		if err := f.SetSheetRow(leaderboardSheet, cell, &row); err != nil {
			return 0, domainagg.NewError(domainagg.CodeInternal, op, fmt.Sprintf("row %d write failed", i+1), err)
		}
	}
	if err := f.SetPanes(leaderboardSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		s.log.Warn("leaderboard freeze pane failed (ignored)", "error", err)
	}
	if err := f.Write(w); err != nil {
		return 0, domainagg.NewError(domainagg.CodeInternal, op, "xlsx write failed", err)
	}
	s.log.Debug("leaderboard exported", "rows", len(entries))
	return len(entries), nil
}
