package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core/game"
)

type gameApi struct {
	svc      game.Service
	validate *validator.Validate
}

func registerGameAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc game.Service, validate *validator.Validate) {
	api := gameApi{
		svc:      svc,
		validate: validate,
	}

	gg := g.Group("/games")

	// un-authed endpoints
	gg.GET("/game-mode", api.queryModes)
	gg.GET("/game-mode/:modeId/game-level", api.queryLevels)
	gg.GET("/game-level/:id", api.retrieveLevel)
	gg.GET("/level-data", api.levelInformation)
	gg.GET("/shop-item", api.queryItems(game.ItemShop))
	gg.GET("/shop-item/pagination", api.queryItemsPage(game.ItemShop))
	gg.GET("/game-item", api.queryItems(game.ItemDrop))
	gg.GET("/game-item/pagination", api.queryItemsPage(game.ItemDrop))

	// authed endpoints
	ag := gg.Group("", jwt)
	ag.POST("/game-play-history", api.finishLevel)
	ag.GET("/user-process/:id", api.userProgress, ctxStudentOrAdminMiddleware())
	ag.POST("/game-item-owned", api.buyItem)
	ag.GET("/game-item-owned/:id", api.ownedItems, ctxStudentOrAdminMiddleware())

	// level editor
	ag.POST("/game-level", api.addLevel, adminMiddleware())
	ag.PUT("/game-level", api.updateLevel, adminMiddleware())
	ag.DELETE("/game-level/:id", api.deleteLevel, adminMiddleware())
	ag.PUT("/game-level-index", api.swapIndex, adminMiddleware())

	// item catalogue
	ag.POST("/game-item", api.addItem, adminMiddleware())
	ag.PUT("/game-item", api.updateItem, adminMiddleware())
	ag.DELETE("/game-item/:id", api.deleteItem, adminMiddleware())
}

// Handlers

func (api *gameApi) queryModes(ctx echo.Context) error {
	modes, err := api.svc.GetAllModes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying game modes")
	}
	return ctx.JSON(http.StatusOK, modes)
}

func (api *gameApi) queryLevels(ctx echo.Context) error {
	modeID, err := intParam(ctx, "modeId")
	if err != nil {
		return err
	}
	paging, err := bindPaging(ctx)
	if err != nil {
		return err
	}

	page, err := api.svc.GetLevelsByMode(ctx.Request().Context(), modeID, paging)
	if err != nil {
		return errors.Wrap(err, "querying game levels")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *gameApi) retrieveLevel(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	lvl, err := api.svc.GetLevelDataByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving game level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api *gameApi) levelInformation(ctx echo.Context) error {
	var query LevelInformationQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to LevelInformationQuery")
	}
	if err := api.validate.Struct(query); err != nil {
		return err
	}

	info, err := api.svc.GetLevelInformation(ctx.Request().Context(), query.ModeID, query.Index)
	if err != nil {
		return errors.Wrap(err, "retrieving level information")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *gameApi) finishLevel(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return err
	}

	var data game.FinishLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FinishLevel")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	data.StudentID = studentID

	userData, err := api.svc.FinishLevel(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "finishing level")
	}
	return ctx.JSON(http.StatusOK, userData)
}

func (api *gameApi) userProgress(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	progress, err := api.svc.GetUserProgress(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying user progress")
	}
	return ctx.JSON(http.StatusOK, progress)
}

func (api *gameApi) addLevel(ctx echo.Context) error {
	var data game.ModifiedLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ModifiedLevel")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	lvl, err := api.svc.AddLevel(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding game level")
	}
	return ctx.JSON(http.StatusCreated, lvl)
}

func (api *gameApi) updateLevel(ctx echo.Context) error {
	var data game.ModifiedLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ModifiedLevel")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	lvl, err := api.svc.UpdateLevel(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating game level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api *gameApi) deleteLevel(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.svc.SoftDelete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting game level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gameApi) swapIndex(ctx echo.Context) error {
	var data SwapIndexRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SwapIndexRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	if err := api.svc.SwapIndex(ctx.Request().Context(), data.IDA, data.IDB); err != nil {
		return errors.Wrap(err, "swapping level indexes")
	}
	return ctx.NoContent(http.StatusNoContent)
}
