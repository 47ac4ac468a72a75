package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/game"
)

const levelSelect = `
SELECT l.id, l.mode_id, m.name AS mode_name, l.level_index, l.coin_reward, l.gem_reward, l.start_position
FROM game_level l
JOIN game_mode m ON m.id = l.mode_id`

type (
	modeSummaryRow struct {
		ID          int    `db:"id"`
		Name        string `db:"name"`
		TotalLevels int    `db:"total_levels"`
	}

	levelRow struct {
		ID            int      `db:"id"`
		ModeID        int      `db:"mode_id"`
		ModeName      string   `db:"mode_name"`
		LevelIndex    int      `db:"level_index"`
		CoinReward    null.Int `db:"coin_reward"`
		GemReward     null.Int `db:"gem_reward"`
		StartPosition int      `db:"start_position"`
	}

	detailRow struct {
		LevelID int `db:"level_id"`
		Cell    int `db:"cell"`
		TypeID  int `db:"type_id"`
	}

	profileRow struct {
		ID          int       `db:"id"`
		StudentID   int       `db:"student_id"`
		DisplayName string    `db:"display_name"`
		Coin        int       `db:"coin"`
		Gem         int       `db:"gem"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	playHistoryRow struct {
		ID         int       `db:"id"`
		StudentID  int       `db:"student_id"`
		ModeID     int       `db:"mode_id"`
		LevelIndex int       `db:"level_index"`
		StartTime  time.Time `db:"start_time"`
		FinishTime time.Time `db:"finish_time"`
		Duration   int       `db:"duration"`
	}
)

func (row levelRow) toLevel() game.Level {
	return game.Level{
		ID:            row.ID,
		ModeID:        row.ModeID,
		ModeName:      row.ModeName,
		LevelIndex:    row.LevelIndex,
		CoinReward:    row.CoinReward.Int,
		GemReward:     row.GemReward.Int,
		StartPosition: row.StartPosition,
		Details:       []game.LevelDetail{},
	}
}

func (row profileRow) toProfile() game.Profile {
	return game.Profile{
		ID:          row.ID,
		StudentID:   row.StudentID,
		DisplayName: row.DisplayName,
		Coin:        row.Coin,
		Gem:         row.Gem,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (row playHistoryRow) toPlayHistory() game.PlayHistory {
	return game.PlayHistory{
		ID:         row.ID,
		StudentID:  row.StudentID,
		ModeID:     row.ModeID,
		LevelIndex: row.LevelIndex,
		StartTime:  row.StartTime.UTC(),
		FinishTime: row.FinishTime.UTC(),
		Duration:   row.Duration,
	}
}

type gameRepository struct {
	exec core.DBExecutor
}

var _ game.Repository = (*gameRepository)(nil) // interface compliance check

func NewGameRepository(exec core.DBExecutor) *gameRepository {
	return &gameRepository{exec: exec}
}

func (repo gameRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps sql "no rows" err to the domain `notFound` err
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// mustAffect reports notFound when an update matched no row.
func mustAffect(res sql.Result, notFound error, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (repo gameRepository) QueryModes(ctx context.Context, exec ...core.DBExecutor) ([]game.ModeSummary, error) {
	ex := repo.getExec(exec)
	var rows []modeSummaryRow
	q := `
SELECT m.id, m.name, COUNT(l.id) AS total_levels
FROM game_mode m
LEFT JOIN game_level l ON l.mode_id = m.id AND l.level_index >= 0
GROUP BY m.id, m.name
ORDER BY m.id`
	if err := sqlx.SelectContext(ctx, ex, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting game modes")
	}

	modes := make([]game.ModeSummary, 0, len(rows))
	for _, row := range rows {
		modes = append(modes, game.ModeSummary(row))
	}
	return modes, nil
}

func (repo gameRepository) GetMode(ctx context.Context, id int, exec ...core.DBExecutor) (game.Mode, error) {
	ex := repo.getExec(exec)
	var mode struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	if err := sqlx.GetContext(ctx, ex, &mode, ex.Rebind(`SELECT id, name FROM game_mode WHERE id = ?`), id); err != nil {
		return game.Mode{}, trapNoRowsErr(err, game.ErrModeNotFound, "selecting game mode")
	}
	return game.Mode(mode), nil
}

// loadDetails attaches the detail cells to each level, in insertion order.
func (repo gameRepository) loadDetails(ctx context.Context, ex core.DBExecutor, levels []game.Level) error {
	if len(levels) == 0 {
		return nil
	}
	ids := make([]int, 0, len(levels))
	byID := make(map[int]*game.Level, len(levels))
	for i := range levels {
		ids = append(ids, levels[i].ID)
		byID[levels[i].ID] = &levels[i]
	}

	q, args, err := sqlx.In(`SELECT level_id, cell, type_id FROM game_level_detail WHERE level_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return errors.Wrap(err, "building details query")
	}
	var rows []detailRow
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "selecting game level details")
	}
	for _, row := range rows {
		lvl := byID[row.LevelID]
		lvl.Details = append(lvl.Details, game.LevelDetail{Position: row.Cell, TypeID: row.TypeID})
	}
	return nil
}

func (repo gameRepository) getLevel(ctx context.Context, ex core.DBExecutor, where string, args ...interface{}) (game.Level, error) {
	var row levelRow
	if err := sqlx.GetContext(ctx, ex, &row, ex.Rebind(levelSelect+" WHERE "+where), args...); err != nil {
		return game.Level{}, trapNoRowsErr(err, game.ErrLevelNotFound, "selecting game level")
	}
	levels := []game.Level{row.toLevel()}
	if err := repo.loadDetails(ctx, ex, levels); err != nil {
		return game.Level{}, err
	}
	return levels[0], nil
}

func (repo gameRepository) QueryLevelsByMode(ctx context.Context, modeID int, paging core.Paging, exec ...core.DBExecutor) ([]game.Level, int, error) {
	ex := repo.getExec(exec)

	var total int
	q := ex.Rebind(`SELECT COUNT(*) FROM game_level WHERE mode_id = ? AND level_index >= 0`)
	if err := sqlx.GetContext(ctx, ex, &total, q, modeID); err != nil {
		return nil, 0, errors.Wrap(err, "counting game levels")
	}

	var rows []levelRow
	q = ex.Rebind(levelSelect + " WHERE l.mode_id = ? AND l.level_index >= 0 ORDER BY l.level_index LIMIT ? OFFSET ?")
	if err := sqlx.SelectContext(ctx, ex, &rows, q, modeID, paging.Size, paging.Offset()); err != nil {
		return nil, 0, errors.Wrap(err, "selecting game levels")
	}

	levels := make([]game.Level, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, row.toLevel())
	}
	if err := repo.loadDetails(ctx, ex, levels); err != nil {
		return nil, 0, err
	}
	return levels, total, nil
}

func (repo gameRepository) GetLevelByID(ctx context.Context, id int, exec ...core.DBExecutor) (game.Level, error) {
	return repo.getLevel(ctx, repo.getExec(exec), "l.id = ?", id)
}

func (repo gameRepository) GetLevelByIndex(ctx context.Context, modeID, index int, exec ...core.DBExecutor) (game.Level, error) {
	return repo.getLevel(ctx, repo.getExec(exec), "l.mode_id = ? AND l.level_index = ?", modeID, index)
}

func (repo gameRepository) MaxLevelIndex(ctx context.Context, modeID int, exec ...core.DBExecutor) (int, error) {
	ex := repo.getExec(exec)
	var last int
	q := ex.Rebind(`SELECT COALESCE(MAX(level_index), -1) FROM game_level WHERE mode_id = ? AND level_index >= 0`)
	if err := sqlx.GetContext(ctx, ex, &last, q, modeID); err != nil {
		return 0, errors.Wrap(err, "selecting max level index")
	}
	return last, nil
}

func (repo gameRepository) ShiftLevelIndexes(ctx context.Context, modeID int, shift game.IndexShift, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
UPDATE game_level SET level_index = level_index + ?
WHERE mode_id = ? AND level_index >= 0 AND level_index BETWEEN ? AND ?`)
	if _, err := ex.ExecContext(ctx, q, shift.Delta, modeID, shift.From, shift.To); err != nil {
		return errors.Wrap(err, "shifting level indexes")
	}
	return nil
}

func (repo gameRepository) insertDetails(ctx context.Context, ex core.DBExecutor, levelID int, details []game.LevelDetail) error {
	q := ex.Rebind(`INSERT INTO game_level_detail (level_id, cell, type_id) VALUES (?, ?, ?)`)
	for _, det := range details {
		if _, err := ex.ExecContext(ctx, q, levelID, det.Position, det.TypeID); err != nil {
			return errors.Wrap(err, "inserting game level detail")
		}
	}
	return nil
}

func (repo gameRepository) CreateLevel(ctx context.Context, lvl game.Level, exec ...core.DBExecutor) (game.Level, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_level (mode_id, level_index, coin_reward, gem_reward, start_position)
VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := ex.QueryRowxContext(ctx, q, lvl.ModeID, lvl.LevelIndex, null.IntFrom(lvl.CoinReward), null.IntFrom(lvl.GemReward), lvl.StartPosition).
		Scan(&lvl.ID)
	if err != nil {
		return game.Level{}, errors.Wrap(err, "inserting game level")
	}
	if err := repo.insertDetails(ctx, ex, lvl.ID, lvl.Details); err != nil {
		return game.Level{}, err
	}
	return lvl, nil
}

func (repo gameRepository) UpdateLevel(ctx context.Context, lvl game.Level, exec ...core.DBExecutor) (game.Level, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
UPDATE game_level SET level_index = ?, coin_reward = ?, gem_reward = ?, start_position = ?
WHERE id = ?`)
	res, err := ex.ExecContext(ctx, q, lvl.LevelIndex, null.IntFrom(lvl.CoinReward), null.IntFrom(lvl.GemReward), lvl.StartPosition, lvl.ID)
	if err != nil {
		return game.Level{}, errors.Wrap(err, "updating game level")
	}
	if err := mustAffect(res, game.ErrLevelNotFound, "updating game level"); err != nil {
		return game.Level{}, err
	}

	if _, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM game_level_detail WHERE level_id = ?`), lvl.ID); err != nil {
		return game.Level{}, errors.Wrap(err, "deleting game level details")
	}
	if err := repo.insertDetails(ctx, ex, lvl.ID, lvl.Details); err != nil {
		return game.Level{}, err
	}
	return lvl, nil
}

func (repo gameRepository) SetLevelIndex(ctx context.Context, id, index int, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	res, err := ex.ExecContext(ctx, ex.Rebind(`UPDATE game_level SET level_index = ? WHERE id = ?`), index, id)
	if err != nil {
		return errors.Wrap(err, "updating level index")
	}
	return mustAffect(res, game.ErrLevelNotFound, "updating level index")
}

func (repo gameRepository) GetProfile(ctx context.Context, studentID int, exec ...core.DBExecutor) (game.Profile, error) {
	ex := repo.getExec(exec)
	var row profileRow
	q := ex.Rebind(`
SELECT id, student_id, display_name, coin, gem, created_at, updated_at
FROM game_user_profile WHERE student_id = ?`)
	if err := sqlx.GetContext(ctx, ex, &row, q, studentID); err != nil {
		return game.Profile{}, trapNoRowsErr(err, game.ErrProfileNotFound, "selecting game profile")
	}
	return row.toProfile(), nil
}

func (repo gameRepository) CreateProfile(ctx context.Context, prof game.Profile, exec ...core.DBExecutor) (game.Profile, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_user_profile (student_id, display_name, coin, gem, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := ex.QueryRowxContext(ctx, q, prof.StudentID, prof.DisplayName, prof.Coin, prof.Gem, prof.CreatedAt.UTC(), prof.UpdatedAt.UTC()).
		Scan(&prof.ID)
	if err != nil {
		return game.Profile{}, errors.Wrap(err, "inserting game profile")
	}
	return prof, nil
}

func (repo gameRepository) AddToWallet(ctx context.Context, studentID, coin, gem int, at time.Time, exec ...core.DBExecutor) (game.Profile, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
UPDATE game_user_profile SET coin = coin + ?, gem = gem + ?, updated_at = ?
WHERE student_id = ? AND coin + ? >= 0 AND gem + ? >= 0`)
	res, err := ex.ExecContext(ctx, q, coin, gem, at.UTC(), studentID, coin, gem)
	if err != nil {
		return game.Profile{}, errors.Wrap(err, "updating game wallet")
	}
	if err := mustAffect(res, game.ErrNotEnoughCoin, "updating game wallet"); err != nil {
		return game.Profile{}, err
	}
	return repo.GetProfile(ctx, studentID, ex)
}

func (repo gameRepository) MarkCompleted(ctx context.Context, studentID, modeID, index int, exec ...core.DBExecutor) (bool, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_level_completion (student_id, mode_id, level_index) VALUES (?, ?, ?)
ON CONFLICT (student_id, mode_id, level_index) DO NOTHING`)
	res, err := ex.ExecContext(ctx, q, studentID, modeID, index)
	if err != nil {
		return false, errors.Wrap(err, "inserting level completion")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "inserting level completion")
	}
	return n > 0, nil
}

func (repo gameRepository) CreatePlayHistory(ctx context.Context, hist game.PlayHistory, exec ...core.DBExecutor) (game.PlayHistory, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_play_history (student_id, mode_id, level_index, start_time, finish_time, duration)
VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := ex.QueryRowxContext(ctx, q, hist.StudentID, hist.ModeID, hist.LevelIndex, hist.StartTime.UTC(), hist.FinishTime.UTC(), hist.Duration).
		Scan(&hist.ID)
	if err != nil {
		return game.PlayHistory{}, errors.Wrap(err, "inserting play history")
	}
	return hist, nil
}

func (repo gameRepository) QueryPlayHistory(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]game.PlayHistory, error) {
	ex := repo.getExec(exec)
	var rows []playHistoryRow
	q := ex.Rebind(`
SELECT id, student_id, mode_id, level_index, start_time, finish_time, duration
FROM game_play_history WHERE student_id = ? ORDER BY finish_time, id`)
	if err := sqlx.SelectContext(ctx, ex, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting play history")
	}

	history := make([]game.PlayHistory, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.toPlayHistory())
	}
	return history, nil
}
