package api

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/infrastructure/db/memory"
	mongorepo "github.com/restobook/restaurant-api/internal/infrastructure/db/mongo"
)

// MemoryStores backs every port with one in-process store and local slot
// locks.
func MemoryStores() Stores {
	st := memory.NewStore()
	return Stores{
		Users:             st.Users(),
		Restaurants:       st.Restaurants(),
		Settings:          st.Settings(),
		Employees:         st.Employees(),
		Permissions:       st.Permissions(),
		Tables:            st.Tables(),
		Reservations:      st.Reservations(),
		TableReservations: st.TableReservations(),
		Menus:             st.Menus(),
		Locker:            memory.NewSlotLocker(),
	}
}

// MongoStores backs every port with db. locker must be shared by all
// replicas writing to db.
func MongoStores(db *mongo.Database, locker ports.SlotLocker) Stores {
	return Stores{
		Users:             mongorepo.NewAuthRepository(db),
		Restaurants:       mongorepo.NewRestaurantRepository(db),
		Settings:          mongorepo.NewSettingsRepository(db),
		Employees:         mongorepo.NewEmployeeRepository(db),
		Permissions:       mongorepo.NewPermissionRepository(db),
		Tables:            mongorepo.NewTableRepository(db),
		Reservations:      mongorepo.NewReservationRepository(db),
		TableReservations: mongorepo.NewTableReservationRepository(db),
		Menus:             mongorepo.NewMenuCatalog(db),
		Locker:            locker,
	}
}
