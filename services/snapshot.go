package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/match-score/storage"
)

func snapshotKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d.json", tournamentID)
}

// snapshotPublisher выгружает JSON-снимок турнира в объектное хранилище.
// Ошибки только логируются: снимок вторичен по отношению к базе.
type snapshotPublisher struct {
	views    *viewLoader
	uploader storage.Uploader
	logger   *slog.Logger
}

func (p *snapshotPublisher) publish(ctx context.Context, tournamentID int) {
	view, err := p.views.load(ctx, tournamentID)
	if err != nil {
		p.logger.WarnContext(ctx, "snapshot skipped: failed to load tournament",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	p.publishView(ctx, view)
}

func (p *snapshotPublisher) publishView(ctx context.Context, view *TournamentView) {
	body, err := json.Marshal(view)
	if err != nil {
		p.logger.ErrorContext(ctx, "snapshot skipped: failed to encode tournament",
			slog.Int("tournament_id", view.Tournament.ID), slog.Any("error", err))
		return
	}

	res, err := p.uploader.Upload(ctx, snapshotKey(view.Tournament.ID), "application/json", bytes.NewReader(body))
	if err != nil {
		p.logger.WarnContext(ctx, "failed to upload tournament snapshot",
			slog.Int("tournament_id", view.Tournament.ID), slog.Any("error", err))
		return
	}
	p.logger.DebugContext(ctx, "tournament snapshot uploaded",
		slog.Int("tournament_id", view.Tournament.ID), slog.String("location", res.Location))
}
