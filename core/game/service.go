package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core"
)

var (
	// errors
	ErrLevelNotFound   = core.NewNotFoundError("game level not found")
	ErrModeNotFound    = core.NewNotFoundError("game mode not found")
	ErrProfileNotFound = core.NewNotFoundError("game profile not found")
	ErrModeMismatch    = errors.New("game mode does not match")
	ErrSwapSameLevel   = errors.New("a level cannot be swapped with itself")
	ErrProfileExists   = errors.New("a game profile already exists for this student")
)

type (
	// Repository is the level store. Every method runs against the optional trailing executor
	// (a transaction) or the repository's own connection.
	Repository interface {
		QueryModes(ctx context.Context, exec ...core.DBExecutor) ([]ModeSummary, error)
		GetMode(ctx context.Context, id int, exec ...core.DBExecutor) (Mode, error)

		// QueryLevelsByMode returns one page of live levels ordered by index, and the number of live levels.
		QueryLevelsByMode(ctx context.Context, modeID int, paging core.Paging, exec ...core.DBExecutor) ([]Level, int, error)
		// GetLevelByID returns the level even when soft-deleted.
		GetLevelByID(ctx context.Context, id int, exec ...core.DBExecutor) (Level, error)
		GetLevelByIndex(ctx context.Context, modeID, index int, exec ...core.DBExecutor) (Level, error)
		// MaxLevelIndex returns the last live index of a mode, -1 when it has no level.
		MaxLevelIndex(ctx context.Context, modeID int, exec ...core.DBExecutor) (int, error)
		ShiftLevelIndexes(ctx context.Context, modeID int, shift IndexShift, exec ...core.DBExecutor) error
		CreateLevel(ctx context.Context, lvl Level, exec ...core.DBExecutor) (Level, error)
		// UpdateLevel saves every field but the mode and replaces the details.
		UpdateLevel(ctx context.Context, lvl Level, exec ...core.DBExecutor) (Level, error)
		SetLevelIndex(ctx context.Context, id, index int, exec ...core.DBExecutor) error

		GetProfile(ctx context.Context, studentID int, exec ...core.DBExecutor) (Profile, error)
		CreateProfile(ctx context.Context, prof Profile, exec ...core.DBExecutor) (Profile, error)
		// AddToWallet adds the (possibly negative) amounts to the profile's balances in place and
		// returns the updated profile. ErrNotEnoughCoin is returned when a balance would drop below 0.
		AddToWallet(ctx context.Context, studentID, coin, gem int, at time.Time, exec ...core.DBExecutor) (Profile, error)

		// MarkCompleted records the first completion of a level, reporting false when it was already recorded.
		MarkCompleted(ctx context.Context, studentID, modeID, index int, exec ...core.DBExecutor) (bool, error)
		CreatePlayHistory(ctx context.Context, hist PlayHistory, exec ...core.DBExecutor) (PlayHistory, error)
		QueryPlayHistory(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]PlayHistory, error)

		// QueryItems returns the items of a type ordered by rate. A zero paging returns them all.
		QueryItems(ctx context.Context, itemType int, paging core.Paging, exec ...core.DBExecutor) ([]Item, int, error)
		GetItem(ctx context.Context, id int, exec ...core.DBExecutor) (Item, error)
		CreateItem(ctx context.Context, item Item, exec ...core.DBExecutor) (Item, error)
		UpdateItem(ctx context.Context, item Item, exec ...core.DBExecutor) (Item, error)
		DeleteItem(ctx context.Context, id int, exec ...core.DBExecutor) error
		// AddOwnedItem reports false when the student already owns the item.
		AddOwnedItem(ctx context.Context, owned OwnedItem, exec ...core.DBExecutor) (bool, error)
		QueryOwnedItemIDs(ctx context.Context, studentID, itemType int, exec ...core.DBExecutor) ([]int, error)
	}

	Service interface {
		GetAllModes(ctx context.Context) ([]ModeSummary, error)
		GetLevelsByMode(ctx context.Context, modeID int, paging core.Paging) (LevelPage, error)
		GetLevelDataByID(ctx context.Context, id int) (Level, error)
		GetLevelInformation(ctx context.Context, modeID, index int) (LevelInformation, error)

		AddLevel(ctx context.Context, ml ModifiedLevel) (Level, error)
		UpdateLevel(ctx context.Context, ml ModifiedLevel) (Level, error)
		SwapIndex(ctx context.Context, idA, idB int) error
		SoftDelete(ctx context.Context, id int) error

		FinishLevel(ctx context.Context, fl FinishLevel) (UserData, error)
		GetUserProgress(ctx context.Context, studentID int) ([]ModeProgress, error)
		CreateProfile(ctx context.Context, np NewProfile) (Profile, error)

		GetItems(ctx context.Context, itemType int) ([]Item, error)
		GetItemsPage(ctx context.Context, itemType int, paging core.Paging) (ItemPage, error)
		GetOwnedShopItems(ctx context.Context, studentID int) ([]int, error)
		BuyItem(ctx context.Context, studentID, itemID int) (BuyResult, error)
		AddItem(ctx context.Context, mi ModifiedItem) (Item, error)
		UpdateItem(ctx context.Context, mi ModifiedItem) (Item, error)
		DeleteItem(ctx context.Context, id int) error
	}

	service struct {
		db     core.DB
		repo   Repository
		logger core.Logger
		locks  *modeLocks
	}
)

var _ Service = (*service)(nil) // interface compliance check

func NewService(db core.DB, repo Repository, logger core.Logger) Service {
	return &service{
		db:     db,
		repo:   repo,
		logger: logger,
		locks:  &modeLocks{locks: make(map[int]*sync.Mutex)},
	}
}

// modeLocks serialises level mutations of the same mode within this process.
type modeLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func (ml *modeLocks) lock(modeID int) (unlock func()) {
	ml.mu.Lock()
	lk, ok := ml.locks[modeID]
	if !ok {
		lk = new(sync.Mutex)
		ml.locks[modeID] = lk
	}
	ml.mu.Unlock()

	lk.Lock()
	return lk.Unlock
}

// runInTx runs fn in a transaction, committed when fn succeeds and rolled back otherwise.
func (svc *service) runInTx(ctx context.Context, op string, fn func(tx core.DBExecutor) error) error {
	tx, err := svc.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			svc.logger.Error(op+": rollback failed", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (svc *service) shiftIndexes(ctx context.Context, modeID int, shift IndexShift, tx core.DBExecutor) error {
	if shift.IsEmpty() {
		return nil
	}
	return svc.repo.ShiftLevelIndexes(ctx, modeID, shift, tx)
}

// getLiveLevel is GetLevelByID with soft-deleted levels reported as missing.
func (svc *service) getLiveLevel(ctx context.Context, id int, exec ...core.DBExecutor) (Level, error) {
	lvl, err := svc.repo.GetLevelByID(ctx, id, exec...)
	if err != nil {
		return Level{}, err
	}
	if lvl.IsDeleted() {
		return Level{}, ErrLevelNotFound
	}
	return lvl, nil
}

func (svc *service) GetAllModes(ctx context.Context) ([]ModeSummary, error) {
	return svc.repo.QueryModes(ctx)
}

func (svc *service) GetLevelsByMode(ctx context.Context, modeID int, paging core.Paging) (LevelPage, error) {
	paging.Clean()
	if _, err := svc.repo.GetMode(ctx, modeID); err != nil {
		return LevelPage{}, err
	}
	levels, total, err := svc.repo.QueryLevelsByMode(ctx, modeID, paging)
	if err != nil {
		return LevelPage{}, err
	}
	return LevelPage{
		Results:      levels,
		Page:         paging.Page,
		Size:         paging.Size,
		TotalRecords: total,
		TotalPages:   paging.TotalPages(total),
	}, nil
}

func (svc *service) GetLevelDataByID(ctx context.Context, id int) (Level, error) {
	return svc.repo.GetLevelByID(ctx, id)
}

func (svc *service) GetLevelInformation(ctx context.Context, modeID, index int) (LevelInformation, error) {
	if index < 0 {
		return LevelInformation{}, ErrLevelNotFound
	}
	lvl, err := svc.repo.GetLevelByIndex(ctx, modeID, index)
	if err != nil {
		return LevelInformation{}, err
	}
	return LevelInformation{
		CoinReward:    lvl.CoinReward,
		GemReward:     lvl.GemReward,
		StartPosition: lvl.StartPosition,
		Details:       lvl.Details,
	}, nil
}

// AddLevel inserts a level at the requested index, shifting the levels at and after it.
// An index past the end appends the level.
func (svc *service) AddLevel(ctx context.Context, ml ModifiedLevel) (Level, error) {
	if err := ValidateLayout(ml); err != nil {
		return Level{}, err
	}

	unlock := svc.locks.lock(ml.ModeID)
	defer unlock()

	var created Level
	err := svc.runInTx(ctx, "AddLevel", func(tx core.DBExecutor) error {
		mode, err := svc.repo.GetMode(ctx, ml.ModeID, tx)
		if err != nil {
			return err
		}
		last, err := svc.repo.MaxLevelIndex(ctx, ml.ModeID, tx)
		if err != nil {
			return err
		}

		index := ml.LevelIndex
		if index > last {
			index = last + 1
		} else if err := svc.shiftIndexes(ctx, ml.ModeID, insertShift(index, last), tx); err != nil {
			return err
		}

		created, err = svc.repo.CreateLevel(ctx, Level{
			ModeID:        ml.ModeID,
			LevelIndex:    index,
			CoinReward:    ml.CoinReward,
			GemReward:     ml.GemReward,
			StartPosition: ml.StartPosition,
			Details:       ml.Details,
		}, tx)
		created.ModeName = mode.Name
		return err
	})
	if err != nil {
		return Level{}, err
	}

	svc.logger.Info("game level added", map[string]interface{}{"id": created.ID, "mode": created.ModeID, "index": created.LevelIndex})
	return created, nil
}

// UpdateLevel saves a new layout for a live level and moves it to the requested index,
// clamped to the last index of its mode.
func (svc *service) UpdateLevel(ctx context.Context, ml ModifiedLevel) (Level, error) {
	if err := ValidateLayout(ml); err != nil {
		return Level{}, err
	}

	unlock := svc.locks.lock(ml.ModeID)
	defer unlock()

	var updated Level
	err := svc.runInTx(ctx, "UpdateLevel", func(tx core.DBExecutor) error {
		current, err := svc.getLiveLevel(ctx, ml.ID, tx)
		if err != nil {
			return err
		}
		if current.ModeID != ml.ModeID { // a level never changes mode
			return ErrLevelNotFound
		}
		last, err := svc.repo.MaxLevelIndex(ctx, ml.ModeID, tx)
		if err != nil {
			return err
		}

		index := ml.LevelIndex
		if index > last {
			index = last
		}
		if index != current.LevelIndex {
			if err := svc.shiftIndexes(ctx, ml.ModeID, moveShift(current.LevelIndex, index), tx); err != nil {
				return err
			}
		}

		updated, err = svc.repo.UpdateLevel(ctx, Level{
			ID:            current.ID,
			ModeID:        current.ModeID,
			ModeName:      current.ModeName,
			LevelIndex:    index,
			CoinReward:    ml.CoinReward,
			GemReward:     ml.GemReward,
			StartPosition: ml.StartPosition,
			Details:       ml.Details,
		}, tx)
		return err
	})
	if err != nil {
		return Level{}, err
	}

	svc.logger.Info("game level updated", map[string]interface{}{"id": updated.ID, "mode": updated.ModeID, "index": updated.LevelIndex})
	return updated, nil
}

// SwapIndex exchanges the indexes of two live levels of the same mode.
// Swapping a level with itself is rejected as a validation error, not reported as a missing level.
func (svc *service) SwapIndex(ctx context.Context, idA, idB int) error {
	if idA == idB {
		return core.NewValidationError(ErrSwapSameLevel)
	}
	lvlA, err := svc.getLiveLevel(ctx, idA)
	if err != nil {
		return err
	}

	unlock := svc.locks.lock(lvlA.ModeID)
	defer unlock()

	err = svc.runInTx(ctx, "SwapIndex", func(tx core.DBExecutor) error {
		a, err := svc.getLiveLevel(ctx, idA, tx)
		if err != nil {
			return err
		}
		b, err := svc.getLiveLevel(ctx, idB, tx)
		if err != nil {
			return err
		}
		if a.ModeID != b.ModeID {
			return core.NewValidationError(ErrModeMismatch)
		}

		if err := svc.repo.SetLevelIndex(ctx, a.ID, b.LevelIndex, tx); err != nil {
			return err
		}
		return svc.repo.SetLevelIndex(ctx, b.ID, a.LevelIndex, tx)
	})
	if err != nil {
		return err
	}

	svc.logger.Info("game levels swapped", map[string]interface{}{"a": idA, "b": idB})
	return nil
}

// SoftDelete closes the gap left by the level in its mode, then marks it with DeletedIndex.
func (svc *service) SoftDelete(ctx context.Context, id int) error {
	lvl, err := svc.getLiveLevel(ctx, id)
	if err != nil {
		return trapDeleteNotFound(err)
	}

	unlock := svc.locks.lock(lvl.ModeID)
	defer unlock()

	err = svc.runInTx(ctx, "SoftDelete", func(tx core.DBExecutor) error {
		lvl, err := svc.getLiveLevel(ctx, id, tx)
		if err != nil {
			return trapDeleteNotFound(err)
		}
		last, err := svc.repo.MaxLevelIndex(ctx, lvl.ModeID, tx)
		if err != nil {
			return err
		}
		if err := svc.shiftIndexes(ctx, lvl.ModeID, removeShift(lvl.LevelIndex, last), tx); err != nil {
			return err
		}
		return svc.repo.SetLevelIndex(ctx, lvl.ID, DeletedIndex, tx)
	})
	if err != nil {
		return err
	}

	svc.logger.Info("game level deleted", map[string]interface{}{"id": id, "mode": lvl.ModeID})
	return nil
}

// trapDeleteNotFound reports a missing level as a bad request on deletion.
func trapDeleteNotFound(err error) error {
	if err == ErrLevelNotFound {
		return core.NewValidationError(ErrLevelNotFound)
	}
	return err
}

// FinishLevel records a play of a level; rewards are credited on the first completion only.
// The first completion is claimed by a unique row and the wallet is credited in place, so
// concurrent finishes of one student neither lose nor double a reward.
func (svc *service) FinishLevel(ctx context.Context, fl FinishLevel) (UserData, error) {
	if fl.LevelIndex < 0 {
		return UserData{}, ErrLevelNotFound
	}

	var data UserData
	err := svc.runInTx(ctx, "FinishLevel", func(tx core.DBExecutor) error {
		lvl, err := svc.repo.GetLevelByIndex(ctx, fl.ModeID, fl.LevelIndex, tx)
		if err != nil {
			return err
		}
		prof, err := svc.repo.GetProfile(ctx, fl.StudentID, tx)
		if err != nil {
			return err
		}
		first, err := svc.repo.MarkCompleted(ctx, fl.StudentID, fl.ModeID, fl.LevelIndex, tx)
		if err != nil {
			return err
		}

		data = UserData{
			StudentID:   prof.StudentID,
			DisplayName: prof.DisplayName,
			OldCoin:     prof.Coin,
			OldGem:      prof.Gem,
			UserCoin:    prof.Coin,
			UserGem:     prof.Gem,
		}
		now := time.Now().UTC()
		if first {
			if prof, err = svc.repo.AddToWallet(ctx, fl.StudentID, lvl.CoinReward, lvl.GemReward, now, tx); err != nil {
				return err
			}
			data.OldCoin = prof.Coin - lvl.CoinReward
			data.OldGem = prof.Gem - lvl.GemReward
			data.UserCoin = prof.Coin
			data.UserGem = prof.Gem
		}

		start := fl.StartTime.UTC()
		duration := int(now.Sub(start).Minutes())
		if duration < 0 {
			duration = 0
		}
		_, err = svc.repo.CreatePlayHistory(ctx, PlayHistory{
			StudentID:  fl.StudentID,
			ModeID:     fl.ModeID,
			LevelIndex: fl.LevelIndex,
			StartTime:  start,
			FinishTime: now,
			Duration:   duration,
		}, tx)
		return err
	})
	if err != nil {
		return UserData{}, err
	}
	return data, nil
}

// GetUserProgress lists, for every mode, the distinct level indexes the student has finished.
func (svc *service) GetUserProgress(ctx context.Context, studentID int) ([]ModeProgress, error) {
	modes, err := svc.repo.QueryModes(ctx)
	if err != nil {
		return nil, err
	}
	history, err := svc.repo.QueryPlayHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}

	played := make(map[int]map[int]bool, len(modes))
	for _, hist := range history {
		if played[hist.ModeID] == nil {
			played[hist.ModeID] = make(map[int]bool)
		}
		played[hist.ModeID][hist.LevelIndex] = true
	}

	progress := make([]ModeProgress, 0, len(modes))
	for _, mode := range modes {
		indexes := make([]int, 0, len(played[mode.ID]))
		for idx := range played[mode.ID] {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)
		progress = append(progress, ModeProgress{ModeID: mode.ID, PlayedLevels: indexes})
	}
	return progress, nil
}

func (svc *service) CreateProfile(ctx context.Context, np NewProfile) (Profile, error) {
	_, err := svc.repo.GetProfile(ctx, np.StudentID)
	switch {
	case err == nil:
		return Profile{}, core.NewValidationError(ErrProfileExists, core.FieldError{Field: "student_id", Error: ErrProfileExists.Error()})
	case err != ErrProfileNotFound:
		return Profile{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateProfile(ctx, Profile{
		StudentID:   np.StudentID,
		DisplayName: core.CleanString(np.DisplayName),
		Coin:        np.Coin,
		Gem:         np.Gem,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
