package game

import "time"

// Game modes, seeded by the initial migration.
const (
	ModeBasic = iota + 1
	ModeSequence
	ModeLoop
	ModeFunction
	ModeCondition
	ModeCustom
)

// Position types of a level detail cell.
const (
	PositionRoad = iota + 1
	PositionTarget
	PositionRock
)

// DeletedIndex is the level index of a soft-deleted level.
const DeletedIndex = -1

type Mode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ModeSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TotalLevels int    `json:"total_levels"`
}

type LevelDetail struct {
	Position int `json:"position"`
	TypeID   int `json:"type_id" validate:"positiontype"`
}

// Level is a stored level. Live levels of a mode are indexed 0..N-1 without gaps.
type Level struct {
	ID            int           `json:"id"`
	ModeID        int           `json:"mode_id"`
	ModeName      string        `json:"mode_name,omitempty"`
	LevelIndex    int           `json:"level_index"`
	CoinReward    int           `json:"coin_reward"`
	GemReward     int           `json:"gem_reward"`
	StartPosition int           `json:"start_position"`
	Details       []LevelDetail `json:"details"`
}

func (lvl Level) IsDeleted() bool {
	return lvl.LevelIndex == DeletedIndex
}

// ModifiedLevel is the layout submitted by the level editor, for both creation and update.
// ID is ignored on creation.
type ModifiedLevel struct {
	ID            int           `json:"id"`
	ModeID        int           `json:"mode_id"`
	LevelIndex    int           `json:"level_index"`
	CoinReward    int           `json:"coin_reward" validate:"min=0"`
	GemReward     int           `json:"gem_reward" validate:"min=0"`
	StartPosition int           `json:"start_position"`
	Details       []LevelDetail `json:"details" validate:"dive"`
}

type LevelPage struct {
	Results      []Level `json:"results"`
	Page         int     `json:"page"`
	Size         int     `json:"size"`
	TotalRecords int     `json:"total_records"`
	TotalPages   int     `json:"total_pages"`
}

// LevelInformation is what a player needs to play a level.
type LevelInformation struct {
	CoinReward    int           `json:"coin_reward"`
	GemReward     int           `json:"gem_reward"`
	StartPosition int           `json:"start_position"`
	Details       []LevelDetail `json:"details"`
}

type Profile struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	DisplayName string    `json:"display_name"`
	Coin        int       `json:"coin"`
	Gem         int       `json:"gem"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewProfile contains information needed to create a game Profile.
type NewProfile struct {
	StudentID   int    `json:"student_id" validate:"required,min=1"`
	DisplayName string `json:"display_name" validate:"required,notblank"`
	Coin        int    `json:"coin" validate:"min=0"`
	Gem         int    `json:"gem" validate:"min=0"`
}

type PlayHistory struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	ModeID     int       `json:"mode_id"`
	LevelIndex int       `json:"level_index"`
	StartTime  time.Time `json:"start_time"`  // UTC
	FinishTime time.Time `json:"finish_time"` // UTC
	Duration   int       `json:"duration"`    // minutes
}

// FinishLevel is sent by a player completing a level. StudentID comes from the auth token.
type FinishLevel struct {
	StudentID  int       `json:"-"`
	ModeID     int       `json:"mode_id" validate:"required"`
	LevelIndex int       `json:"level_index" validate:"min=0"`
	StartTime  time.Time `json:"start_time" validate:"required"`
}

// UserData is the player's wallet before and after finishing a level.
type UserData struct {
	StudentID   int    `json:"student_id"`
	DisplayName string `json:"display_name"`
	OldCoin     int    `json:"old_coin"`
	OldGem      int    `json:"old_gem"`
	UserCoin    int    `json:"user_coin"`
	UserGem     int    `json:"user_gem"`
}

type ModeProgress struct {
	ModeID       int   `json:"mode"`
	PlayedLevels []int `json:"played_levels"`
}

// Item types.
const (
	ItemShop = iota + 1 // bought with coins
	ItemDrop            // earned in game
)

// Item rates, cheapest first. Default items are given to every player and are never sold.
const (
	RateDefault = iota + 1
	RateCommon
	RateRare
	RateEpic
	RateLegendary
)

type Item struct {
	ID         int    `json:"id"`
	Name       string `json:"item_name"`
	Details    string `json:"details"`
	SpritesURL string `json:"sprites_url"`
	RateType   int    `json:"item_rate_type"`
	ItemType   int    `json:"item_type"`
	Price      int    `json:"price"`
}

// ModifiedItem is an item submitted by an admin, for both creation and update.
// ID is ignored on creation.
type ModifiedItem struct {
	ID         int    `json:"id"`
	Name       string `json:"item_name" validate:"required,notblank"`
	Details    string `json:"details"`
	SpritesURL string `json:"sprites_url"`
	RateType   int    `json:"item_rate_type" validate:"required,min=1,max=5"`
	ItemType   int    `json:"item_type" validate:"required,min=1,max=2"`
	Price      int    `json:"price" validate:"min=0"`
}

type ItemPage struct {
	Results      []Item `json:"results"`
	Page         int    `json:"page"`
	Size         int    `json:"size"`
	TotalRecords int    `json:"total_records"`
	TotalPages   int    `json:"total_pages"`
}

type OwnedItem struct {
	ID          int    `json:"id"`
	StudentID   int    `json:"student_id"`
	ItemID      int    `json:"item_id"`
	DisplayName string `json:"display_name"`
	Quantity    int    `json:"quantity"`
}

// BuyResult is the player's wallet and shop items after a purchase.
type BuyResult struct {
	CurrentCoin int   `json:"current_coin"`
	CurrentGem  int   `json:"current_gem"`
	OwnedItems  []int `json:"owned_items"`
}
