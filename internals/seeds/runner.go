package seeds

import (
	registre "sirenecole_backend/internals/seeds/registre"

	"gorm.io/gorm"
)

// RunAllSeeds charge les donnees de demo. A n'utiliser qu'en dev.
func RunAllSeeds(db *gorm.DB) {
	registre.SeedRegistreFromJSON(db, "internals/seeds/registre/data_registre.json")
}
