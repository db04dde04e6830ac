package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/bettersale/bettersale-backend/pkg/db"
)

// ApplyDB inserts the demo dataset into the persistent store. Existing rows
// are left alone so re-running the seeder never clobbers live state.
func ApplyDB(ctx context.Context, client *db.Client) error {
	conn := client.DB().WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})

	for _, c := range Customers() {
		c := c
		if err := conn.Create(&c).Error; err != nil {
			return fmt.Errorf("seeding customer %s: %w", c.ID, err)
		}
	}
	for _, p := range Products() {
		p := p
		if err := conn.Create(&p).Error; err != nil {
			return fmt.Errorf("seeding product %s: %w", p.ID, err)
		}
	}
	for _, item := range CartItems() {
		item := item
		if err := conn.Create(&item).Error; err != nil {
			return fmt.Errorf("seeding cart item %s: %w", item.ProductID, err)
		}
	}
	for _, o := range Orders() {
		o := o
		if err := conn.Create(&o).Error; err != nil {
			return fmt.Errorf("seeding order %s: %w", o.ID, err)
		}
	}
	return nil
}
