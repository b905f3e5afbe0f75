package domain

// The menu catalog is managed elsewhere; the core only needs the "belongs
// to" links to resolve which restaurant governs a menu entity.

type Menu struct {
	ID           string `bson:"_id"`
	RestaurantID string `bson:"restaurant_id"`
}

type Category struct {
	ID     string `bson:"_id"`
	MenuID string `bson:"menu_id"`
}

type MenuItem struct {
	ID         string `bson:"_id"`
	MenuID     string `bson:"menu_id"`
	CategoryID string `bson:"category_id"`
}

type MenuItemVariant struct {
	ID         string `bson:"_id"`
	MenuItemID string `bson:"menu_item_id"`
}
