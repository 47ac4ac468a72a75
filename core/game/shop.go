package game

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kidspro/kidspro/core"
)

var (
	// errors
	ErrItemNotFound    = core.NewNotFoundError("game item not found")
	ErrItemTypeInvalid = errors.New("item type not valid")
	ErrItemNotForSale  = errors.New("item bought not valid, must be a shop item")
	ErrDefaultItem     = errors.New("default item, cannot buy")
	ErrNotEnoughCoin   = errors.New("not enough coin to buy this item")
	ErrItemOwned       = errors.New("this item is already bought")
)

func checkItemType(itemType int) error {
	if itemType != ItemShop && itemType != ItemDrop {
		return core.NewValidationError(ErrItemTypeInvalid)
	}
	return nil
}

func (svc *service) GetItems(ctx context.Context, itemType int) ([]Item, error) {
	if err := checkItemType(itemType); err != nil {
		return nil, err
	}
	items, _, err := svc.repo.QueryItems(ctx, itemType, core.Paging{})
	return items, err
}

func (svc *service) GetItemsPage(ctx context.Context, itemType int, paging core.Paging) (ItemPage, error) {
	if err := checkItemType(itemType); err != nil {
		return ItemPage{}, err
	}
	paging.Clean()
	items, total, err := svc.repo.QueryItems(ctx, itemType, paging)
	if err != nil {
		return ItemPage{}, err
	}
	return ItemPage{
		Results:      items,
		Page:         paging.Page,
		Size:         paging.Size,
		TotalRecords: total,
		TotalPages:   paging.TotalPages(total),
	}, nil
}

// GetOwnedShopItems returns the ids of the shop items a student bought.
func (svc *service) GetOwnedShopItems(ctx context.Context, studentID int) ([]int, error) {
	if _, err := svc.repo.GetProfile(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryOwnedItemIDs(ctx, studentID, ItemShop)
}

// BuyItem pays a shop item with the student's coins. Ownership is claimed by a unique row and the
// coins are debited in place, so a racing purchase can neither buy twice nor overdraw the wallet.
func (svc *service) BuyItem(ctx context.Context, studentID, itemID int) (BuyResult, error) {
	var result BuyResult
	err := svc.runInTx(ctx, "BuyItem", func(tx core.DBExecutor) error {
		item, err := svc.repo.GetItem(ctx, itemID, tx)
		if err != nil {
			return err
		}
		if item.ItemType != ItemShop {
			return core.NewValidationError(ErrItemNotForSale)
		}
		if item.RateType == RateDefault {
			return core.NewValidationError(ErrDefaultItem)
		}

		prof, err := svc.repo.GetProfile(ctx, studentID, tx)
		if err != nil {
			return err
		}
		if prof.Coin < item.Price {
			return core.NewValidationError(ErrNotEnoughCoin)
		}

		added, err := svc.repo.AddOwnedItem(ctx, OwnedItem{
			StudentID:   studentID,
			ItemID:      item.ID,
			DisplayName: item.Name,
			Quantity:    1,
		}, tx)
		if err != nil {
			return err
		}
		if !added {
			return core.NewValidationError(ErrItemOwned)
		}

		prof, err = svc.repo.AddToWallet(ctx, studentID, -item.Price, 0, time.Now().UTC(), tx)
		if err == ErrNotEnoughCoin {
			return core.NewValidationError(ErrNotEnoughCoin)
		} else if err != nil {
			return err
		}

		owned, err := svc.repo.QueryOwnedItemIDs(ctx, studentID, ItemShop, tx)
		if err != nil {
			return err
		}
		result = BuyResult{CurrentCoin: prof.Coin, CurrentGem: prof.Gem, OwnedItems: owned}
		return nil
	})
	if err != nil {
		return BuyResult{}, err
	}

	svc.logger.Info("game item bought", map[string]interface{}{"student": studentID, "item": itemID})
	return result, nil
}

func (svc *service) AddItem(ctx context.Context, mi ModifiedItem) (Item, error) {
	if err := checkItemType(mi.ItemType); err != nil {
		return Item{}, err
	}
	item, err := svc.repo.CreateItem(ctx, mi.toItem())
	if err != nil {
		return Item{}, err
	}

	svc.logger.Info("game item added", map[string]interface{}{"id": item.ID, "type": item.ItemType})
	return item, nil
}

func (svc *service) UpdateItem(ctx context.Context, mi ModifiedItem) (Item, error) {
	if err := checkItemType(mi.ItemType); err != nil {
		return Item{}, err
	}
	item, err := svc.repo.UpdateItem(ctx, mi.toItem())
	if err != nil {
		return Item{}, err
	}

	svc.logger.Info("game item updated", map[string]interface{}{"id": item.ID, "type": item.ItemType})
	return item, nil
}

// DeleteItem removes an item along with every ownership of it. A missing item is a bad request.
func (svc *service) DeleteItem(ctx context.Context, id int) error {
	if err := svc.repo.DeleteItem(ctx, id); err != nil {
		if err == ErrItemNotFound {
			return core.NewValidationError(ErrItemNotFound)
		}
		return err
	}

	svc.logger.Info("game item deleted", map[string]interface{}{"id": id})
	return nil
}

func (mi ModifiedItem) toItem() Item {
	return Item{
		ID:         mi.ID,
		Name:       core.CleanString(mi.Name),
		Details:    mi.Details,
		SpritesURL: core.CleanString(mi.SpritesURL),
		RateType:   mi.RateType,
		ItemType:   mi.ItemType,
		Price:      mi.Price,
	}
}
