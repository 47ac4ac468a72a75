package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core"
)

type (
	// LevelInformationQuery selects a level the way players address it: by mode and index.
	LevelInformationQuery struct {
		ModeID int `query:"id" json:"id" validate:"required"`
		Index  int `query:"index" json:"index" validate:"min=0"`
	}

	SwapIndexRequest struct {
		IDA int `json:"id_a" validate:"required"`
		IDB int `json:"id_b" validate:"required"`
	}

	BuyItemRequest struct {
		ItemID int `json:"item_id" validate:"required"`
	}
)

// bindPaging reads `page` and `size` from the query string, out of range values are clamped.
func bindPaging(ctx echo.Context) (core.Paging, error) {
	var paging core.Paging
	if err := ctx.Bind(&paging); err != nil {
		return core.Paging{}, errors.Wrap(err, "binding to Paging")
	}
	paging.Clean()
	return paging, nil
}
