package game

import (
	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/board"
)

// layout errors, in the order they are checked
var (
	ErrLevelIndexInvalid = errors.New("level index not valid")
	ErrDetailsEmpty      = errors.New("level details cannot be empty")
	ErrStartInvalid      = errors.New("player start position is not valid")
	ErrPositionInvalid   = errors.New("level details contain an invalid position")
	ErrTargetMissing     = errors.New("the game must have at least 1 target")
	ErrSingleTargetOnly  = errors.New("this mode can only have one target")
	ErrRockNotAllowed    = errors.New("this mode does not need rock")
	ErrRoadNotAllowed    = errors.New("this mode does not need road")
	ErrBoardInvalid      = errors.New("board not valid, there is something strange in there")
	ErrRoadNotConnected  = errors.New("road map not valid, start position must connect to target")
	ErrModeInvalid       = errors.New("game mode not valid")
)

type layout struct {
	start   int
	roads   []int
	targets []int
	rocks   []int
}

// ValidateLayout checks a level layout against the board rules of its mode.
// The first failing rule is returned as a *core.ValidationError.
func ValidateLayout(ml ModifiedLevel) error {
	if ml.LevelIndex < 0 {
		return core.NewValidationError(ErrLevelIndexInvalid)
	}
	if len(ml.Details) == 0 {
		return core.NewValidationError(ErrDetailsEmpty)
	}
	if !board.IsValidCell(ml.StartPosition) {
		return core.NewValidationError(ErrStartInvalid)
	}

	lay, ok := splitLayout(ml)
	if !ok {
		return core.NewValidationError(ErrPositionInvalid)
	}
	if len(lay.targets) == 0 {
		return core.NewValidationError(ErrTargetMissing)
	}

	if err := lay.checkMode(ml.ModeID); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

// splitLayout groups detail cells by role. Every cell holds at most one role and the start cell holds none.
func splitLayout(ml ModifiedLevel) (layout, bool) {
	lay := layout{start: ml.StartPosition}
	seen := map[int]bool{ml.StartPosition: true}

	for _, det := range ml.Details {
		if !board.IsValidCell(det.Position) || seen[det.Position] {
			return layout{}, false
		}
		seen[det.Position] = true

		switch det.TypeID {
		case PositionRoad:
			lay.roads = append(lay.roads, det.Position)
		case PositionTarget:
			lay.targets = append(lay.targets, det.Position)
		case PositionRock:
			lay.rocks = append(lay.rocks, det.Position)
		default:
			return layout{}, false
		}
	}
	return lay, true
}

func (lay layout) checkMode(modeID int) error {
	switch modeID {
	case ModeBasic:
		if len(lay.targets) > 1 {
			return ErrSingleTargetOnly
		}
		if len(lay.rocks) > 0 {
			return ErrRockNotAllowed
		}
		if !board.IsValidBoard(lay.start, lay.targets, lay.roads) {
			return ErrBoardInvalid
		}
		if !board.CheckConnect(lay.start, lay.targets[0], lay.roads) {
			return ErrRoadNotConnected
		}

	case ModeSequence, ModeCondition, ModeCustom:
		if len(lay.roads) > 0 {
			return ErrRoadNotAllowed
		}

	case ModeLoop, ModeFunction:
		if len(lay.rocks) > 0 {
			return ErrRockNotAllowed
		}
		if !board.IsValidBoard(lay.start, lay.targets, lay.roads) {
			return ErrBoardInvalid
		}
		if !board.CheckConnectAll(lay.start, lay.targets, lay.roads) {
			return ErrRoadNotConnected
		}

	default:
		return ErrModeInvalid
	}
	return nil
}
