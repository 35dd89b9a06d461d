package migration

import (
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TicketClassModel{},
		&models.TicketModel{},
		&models.ScanLogModel{},
		&models.TalkEventModel{},
		&models.WorkshopModel{},
		&models.UserModel{},
	}
}
