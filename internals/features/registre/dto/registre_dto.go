package dto

type CreateEcoleRequest struct {
	Nom   string  `json:"nom" validate:"required,max=120"`
	Slug  string  `json:"slug" validate:"required,max=120,lowercase"`
	Ville *string `json:"ville" validate:"omitempty,max=120"`
	Pays  *string `json:"pays" validate:"omitempty,max=120"`
}

type CreateSiteRequest struct {
	EcoleID string  `json:"ecole_id" validate:"required,uuid4"`
	Nom     string  `json:"nom" validate:"required,max=120"`
	Adresse *string `json:"adresse"`
}

type CreateSireneRequest struct {
	SiteID      string  `json:"site_id" validate:"required,uuid4"`
	NumeroSerie string  `json:"numero_serie" validate:"required,max=64"`
	Modele      *string `json:"modele" validate:"omitempty,max=64"`

	// abonnement initial optionnel, cree en_attente avec la sirene
	Abonnement *AbonnementInitialRequest `json:"abonnement" validate:"omitempty"`
}

type AbonnementInitialRequest struct {
	DateDebut    string `json:"date_debut" validate:"required,datetime=2006-01-02"`
	DateFin      string `json:"date_fin" validate:"required,datetime=2006-01-02"`
	Montant      int    `json:"montant" validate:"required,gt=0"`
	Reconduction bool   `json:"reconduction"`
}
