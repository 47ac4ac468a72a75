package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core/game"
)

func (api *gameApi) queryItems(itemType int) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		items, err := api.svc.GetItems(ctx.Request().Context(), itemType)
		if err != nil {
			return errors.Wrap(err, "querying game items")
		}
		return ctx.JSON(http.StatusOK, items)
	}
}

func (api *gameApi) queryItemsPage(itemType int) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		paging, err := bindPaging(ctx)
		if err != nil {
			return err
		}
		page, err := api.svc.GetItemsPage(ctx.Request().Context(), itemType, paging)
		if err != nil {
			return errors.Wrap(err, "querying game items")
		}
		return ctx.JSON(http.StatusOK, page)
	}
}

func (api *gameApi) buyItem(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return err
	}

	var data BuyItemRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BuyItemRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.BuyItem(ctx.Request().Context(), studentID, data.ItemID)
	if err != nil {
		return errors.Wrap(err, "buying game item")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *gameApi) ownedItems(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	owned, err := api.svc.GetOwnedShopItems(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying owned items")
	}
	return ctx.JSON(http.StatusOK, owned)
}

func (api *gameApi) addItem(ctx echo.Context) error {
	var data game.ModifiedItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ModifiedItem")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	item, err := api.svc.AddItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding game item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *gameApi) updateItem(ctx echo.Context) error {
	var data game.ModifiedItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ModifiedItem")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	item, err := api.svc.UpdateItem(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating game item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *gameApi) deleteItem(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteItem(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting game item")
	}
	return ctx.NoContent(http.StatusNoContent)
}
