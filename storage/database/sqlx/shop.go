package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/game"
)

const itemSelect = `
SELECT id, item_name, details, sprites_url, item_rate_type, item_type, price
FROM game_item`

type itemRow struct {
	ID         int         `db:"id"`
	Name       string      `db:"item_name"`
	Details    null.String `db:"details"`
	SpritesURL null.String `db:"sprites_url"`
	RateType   int         `db:"item_rate_type"`
	ItemType   int         `db:"item_type"`
	Price      int         `db:"price"`
}

func (row itemRow) toItem() game.Item {
	return game.Item{
		ID:         row.ID,
		Name:       row.Name,
		Details:    row.Details.String,
		SpritesURL: row.SpritesURL.String,
		RateType:   row.RateType,
		ItemType:   row.ItemType,
		Price:      row.Price,
	}
}

func (repo gameRepository) QueryItems(ctx context.Context, itemType int, paging core.Paging, exec ...core.DBExecutor) ([]game.Item, int, error) {
	ex := repo.getExec(exec)

	var total int
	q := ex.Rebind(`SELECT COUNT(*) FROM game_item WHERE item_type = ?`)
	if err := sqlx.GetContext(ctx, ex, &total, q, itemType); err != nil {
		return nil, 0, errors.Wrap(err, "counting game items")
	}

	q = itemSelect + " WHERE item_type = ? ORDER BY item_rate_type, id"
	args := []interface{}{itemType}
	if paging.Size > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, paging.Size, paging.Offset())
	}
	var rows []itemRow
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(q), args...); err != nil {
		return nil, 0, errors.Wrap(err, "selecting game items")
	}

	items := make([]game.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return items, total, nil
}

func (repo gameRepository) GetItem(ctx context.Context, id int, exec ...core.DBExecutor) (game.Item, error) {
	ex := repo.getExec(exec)
	var row itemRow
	if err := sqlx.GetContext(ctx, ex, &row, ex.Rebind(itemSelect+" WHERE id = ?"), id); err != nil {
		return game.Item{}, trapNoRowsErr(err, game.ErrItemNotFound, "selecting game item")
	}
	return row.toItem(), nil
}

func (repo gameRepository) CreateItem(ctx context.Context, item game.Item, exec ...core.DBExecutor) (game.Item, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_item (item_name, details, sprites_url, item_rate_type, item_type, price)
VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := ex.QueryRowxContext(ctx, q, item.Name, null.StringFrom(item.Details), null.StringFrom(item.SpritesURL),
		item.RateType, item.ItemType, item.Price).
		Scan(&item.ID)
	if err != nil {
		return game.Item{}, errors.Wrap(err, "inserting game item")
	}
	return item, nil
}

func (repo gameRepository) UpdateItem(ctx context.Context, item game.Item, exec ...core.DBExecutor) (game.Item, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
UPDATE game_item SET item_name = ?, details = ?, sprites_url = ?, item_rate_type = ?, item_type = ?, price = ?
WHERE id = ?`)
	res, err := ex.ExecContext(ctx, q, item.Name, null.StringFrom(item.Details), null.StringFrom(item.SpritesURL),
		item.RateType, item.ItemType, item.Price, item.ID)
	if err != nil {
		return game.Item{}, errors.Wrap(err, "updating game item")
	}
	if err := mustAffect(res, game.ErrItemNotFound, "updating game item"); err != nil {
		return game.Item{}, err
	}
	return item, nil
}

func (repo gameRepository) DeleteItem(ctx context.Context, id int, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)
	res, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM game_item WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting game item")
	}
	return mustAffect(res, game.ErrItemNotFound, "deleting game item")
}

func (repo gameRepository) AddOwnedItem(ctx context.Context, owned game.OwnedItem, exec ...core.DBExecutor) (bool, error) {
	ex := repo.getExec(exec)
	q := ex.Rebind(`
INSERT INTO game_item_owned (student_id, game_item_id, display_name, quantity) VALUES (?, ?, ?, ?)
ON CONFLICT (student_id, game_item_id) DO NOTHING`)
	res, err := ex.ExecContext(ctx, q, owned.StudentID, owned.ItemID, owned.DisplayName, owned.Quantity)
	if err != nil {
		return false, errors.Wrap(err, "inserting owned item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "inserting owned item")
	}
	return n > 0, nil
}

func (repo gameRepository) QueryOwnedItemIDs(ctx context.Context, studentID, itemType int, exec ...core.DBExecutor) ([]int, error) {
	ex := repo.getExec(exec)
	ids := make([]int, 0)
	q := ex.Rebind(`
SELECT o.game_item_id
FROM game_item_owned o
JOIN game_item i ON i.id = o.game_item_id
WHERE o.student_id = ? AND i.item_type = ?
ORDER BY o.game_item_id`)
	if err := sqlx.SelectContext(ctx, ex, &ids, q, studentID, itemType); err != nil {
		return nil, errors.Wrap(err, "selecting owned items")
	}
	return ids, nil
}
