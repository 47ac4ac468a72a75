package game_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/game"
	"github.com/kidspro/kidspro/tests"
)

func shopItem(name string, rate, price int) game.ModifiedItem {
	return game.ModifiedItem{Name: name, RateType: rate, ItemType: game.ItemShop, Price: price}
}

func addItem(t *testing.T, svc game.Service, mi game.ModifiedItem) game.Item {
	item, err := svc.AddItem(context.Background(), mi)
	require.NoError(t, err)
	return item
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.svc.AddItem(ctx, game.ModifiedItem{
		Name: "  Red hat ", Details: "a hat", SpritesURL: "sprites/hat.png",
		RateType: game.RateRare, ItemType: game.ItemShop, Price: 40,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Red hat", item.Name)

	stored, err := env.repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, stored)

	t.Run("unknown type", func(t *testing.T) {
		mi := shopItem("Cape", game.RateRare, 10)
		mi.ItemType = 9
		_, err := env.svc.AddItem(ctx, mi)
		assertValidationErr(t, game.ErrItemTypeInvalid, err)
	})
}

func TestService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	item := addItem(t, env.svc, shopItem("Red hat", game.RateRare, 40))

	mi := shopItem("Blue hat", game.RateEpic, 80)
	mi.ID = item.ID
	updated, err := env.svc.UpdateItem(ctx, mi)
	require.NoError(t, err)

	stored, err := env.repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
	assert.Equal(t, "Blue hat", stored.Name)
	assert.Equal(t, 80, stored.Price)

	t.Run("missing item", func(t *testing.T) {
		mi.ID = 404
		_, err := env.svc.UpdateItem(ctx, mi)
		assert.Equal(t, game.ErrItemNotFound, err)
	})
}

func TestService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	item := addItem(t, env.svc, shopItem("Red hat", game.RateRare, 40))
	testutil.CreateProfile(t, env.repo, 7, "Ada", 100, 0)
	_, err := env.svc.BuyItem(ctx, 7, item.ID)
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteItem(ctx, item.ID))

	_, err = env.repo.GetItem(ctx, item.ID)
	assert.Equal(t, game.ErrItemNotFound, err)
	owned, err := env.svc.GetOwnedShopItems(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, owned)

	assertValidationErr(t, game.ErrItemNotFound, env.svc.DeleteItem(ctx, item.ID))
}

func TestService_GetItems(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	epic := addItem(t, env.svc, shopItem("Crown", game.RateEpic, 90))
	common := addItem(t, env.svc, shopItem("Scarf", game.RateCommon, 10))
	rare := addItem(t, env.svc, shopItem("Red hat", game.RateRare, 40))
	drop := addItem(t, env.svc, game.ModifiedItem{Name: "Gem shard", RateType: game.RateCommon, ItemType: game.ItemDrop})

	items, err := env.svc.GetItems(ctx, game.ItemShop)
	require.NoError(t, err)
	assert.Equal(t, []game.Item{common, rare, epic}, items)

	items, err = env.svc.GetItems(ctx, game.ItemDrop)
	require.NoError(t, err)
	assert.Equal(t, []game.Item{drop}, items)

	page, err := env.svc.GetItemsPage(ctx, game.ItemShop, core.Paging{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, game.ItemPage{Results: []game.Item{epic}, Page: 2, Size: 2, TotalRecords: 3, TotalPages: 2}, page)

	_, err = env.svc.GetItems(ctx, 0)
	assertValidationErr(t, game.ErrItemTypeInvalid, err)
}

func TestService_BuyItem(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	hat := addItem(t, env.svc, shopItem("Red hat", game.RateRare, 40))
	crown := addItem(t, env.svc, shopItem("Crown", game.RateEpic, 500))
	basic := addItem(t, env.svc, shopItem("Plain shirt", game.RateDefault, 0))
	drop := addItem(t, env.svc, game.ModifiedItem{Name: "Gem shard", RateType: game.RateCommon, ItemType: game.ItemDrop})
	testutil.CreateProfile(t, env.repo, 7, "Ada", 100, 3)

	res, err := env.svc.BuyItem(ctx, 7, hat.ID)
	require.NoError(t, err)
	assert.Equal(t, game.BuyResult{CurrentCoin: 60, CurrentGem: 3, OwnedItems: []int{hat.ID}}, res)

	tests := []struct {
		name      string
		studentID int
		itemID    int
		wantErr   error
		wantVErr  error
	}{
		{name: "already bought", studentID: 7, itemID: hat.ID, wantVErr: game.ErrItemOwned},
		{name: "not enough coin", studentID: 7, itemID: crown.ID, wantVErr: game.ErrNotEnoughCoin},
		{name: "default item", studentID: 7, itemID: basic.ID, wantVErr: game.ErrDefaultItem},
		{name: "not a shop item", studentID: 7, itemID: drop.ID, wantVErr: game.ErrItemNotForSale},
		{name: "missing item", studentID: 7, itemID: 404, wantErr: game.ErrItemNotFound},
		{name: "missing profile", studentID: 8, itemID: hat.ID, wantErr: game.ErrProfileNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.BuyItem(ctx, tc.studentID, tc.itemID)
			if tc.wantVErr != nil {
				assertValidationErr(t, tc.wantVErr, err)
			} else {
				assert.Equal(t, tc.wantErr, err)
			}

			prof, err := env.repo.GetProfile(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, 60, prof.Coin, "a failed purchase costs nothing")
		})
	}

	owned, err := env.svc.GetOwnedShopItems(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{hat.ID}, owned)
}

func TestService_ConcurrentBuy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	hat := addItem(t, env.svc, shopItem("Red hat", game.RateRare, 40))
	testutil.CreateProfile(t, env.repo, 7, "Ada", 100, 0)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		bought int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.BuyItem(ctx, 7, hat.ID); err == nil {
				mu.Lock()
				bought++
				mu.Unlock()
			} else {
				assertValidationErr(t, game.ErrItemOwned, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, bought)
	prof, err := env.repo.GetProfile(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 60, prof.Coin)
}

func TestService_GetOwnedShopItems(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	testutil.CreateProfile(t, env.repo, 7, "Ada", 0, 0)

	owned, err := env.svc.GetOwnedShopItems(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{}, owned)

	_, err = env.svc.GetOwnedShopItems(ctx, 8)
	assert.Equal(t, game.ErrProfileNotFound, err)
}
