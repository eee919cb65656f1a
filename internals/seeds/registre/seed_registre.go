package registre

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"sirenecole_backend/internals/features/registre/model"
)

type siteSeed struct {
	Nom     string `json:"nom"`
	Adresse string `json:"adresse"`
	Sirenes []struct {
		NumeroSerie string `json:"numero_serie"`
		Modele      string `json:"modele"`
	} `json:"sirenes"`
}

type ecoleSeed struct {
	Nom   string     `json:"nom"`
	Slug  string     `json:"slug"`
	Ville string     `json:"ville"`
	Pays  string     `json:"pays"`
	Sites []siteSeed `json:"sites"`
}

// SeedRegistreFromJSON cree ecoles, sites et sirenes de demo.
// Idempotent: une ecole dont le slug existe deja est sautee.
func SeedRegistreFromJSON(db *gorm.DB, filePath string) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[WARN] Seed registre: lecture %s impossible: %v", filePath, err)
		return
	}

	var ecoles []ecoleSeed
	if err := json.Unmarshal(file, &ecoles); err != nil {
		log.Fatalf("[ERROR] Seed registre: JSON invalide: %v", err)
	}

	for _, e := range ecoles {
		var existing model.EcoleModel
		if err := db.Where("ecole_slug = ?", e.Slug).First(&existing).Error; err == nil {
			log.Printf("[INFO] Ecole %s deja presente, saut", e.Slug)
			continue
		}

		ecole := model.EcoleModel{
			EcoleNom:   e.Nom,
			EcoleSlug:  e.Slug,
			EcoleVille: &e.Ville,
			EcolePays:  &e.Pays,
		}
		if err := db.Create(&ecole).Error; err != nil {
			log.Fatalf("[ERROR] Seed ecole %s: %v", e.Slug, err)
		}

		for _, s := range e.Sites {
			site := model.SiteModel{
				SiteEcoleID: ecole.EcoleID,
				SiteNom:     s.Nom,
				SiteAdresse: &s.Adresse,
			}
			if err := db.Create(&site).Error; err != nil {
				log.Fatalf("[ERROR] Seed site %s: %v", s.Nom, err)
			}

			for _, sir := range s.Sirenes {
				row := model.SireneModel{
					SireneSiteID:      site.SiteID,
					SireneNumeroSerie: sir.NumeroSerie,
					SireneModele:      &sir.Modele,
				}
				if err := db.Create(&row).Error; err != nil {
					log.Fatalf("[ERROR] Seed sirene %s: %v", sir.NumeroSerie, err)
				}
			}
		}
		log.Printf("[INFO] Ecole %s seedee", e.Slug)
	}
}
