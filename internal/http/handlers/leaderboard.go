package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LeaderboardRanker interface {
	Rank(ctx context.Context) ([]types.LeaderboardEntry, error)
}

type LeaderboardHandler struct {
	log    *logger.Logger
	ranker LeaderboardRanker
	export services.LeaderboardExportService
	clock  clock.Clock
}

func NewLeaderboardHandler(log *logger.Logger, ranker LeaderboardRanker, export services.LeaderboardExportService, clk clock.Clock) *LeaderboardHandler {
	if clk == nil {
		clk = clock.System()
	}
	return &LeaderboardHandler{log: log.With("handler", "LeaderboardHandler"), ranker: ranker, export: export, clock: clk}
}

// GET /leaderboard
func (h *LeaderboardHandler) Get(c *gin.Context) {
	entries, err := h.ranker.Rank(c.Request.Context())
	if err != nil {
		h.log.Error("leaderboard rank failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": entries})
}

// GET /leaderboard/export.xlsx
func (h *LeaderboardHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := h.export.WriteXLSX(c.Request.Context(), &buf); err != nil {
		h.log.Error("leaderboard export failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	name := fmt.Sprintf("leaderboard-%s.xlsx", h.clock.Now().Format("20060102"))
	response.RespondAttachment(c, name, xlsxContentType, buf.Bytes())
}
