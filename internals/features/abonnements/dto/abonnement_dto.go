package dto

type CreateAbonnementRequest struct {
	EcoleID  string `json:"ecole_id" validate:"required,uuid4"`
	SiteID   string `json:"site_id" validate:"required,uuid4"`
	SireneID string `json:"sirene_id" validate:"required,uuid4"`

	DateDebut string `json:"date_debut" validate:"required,datetime=2006-01-02"`
	DateFin   string `json:"date_fin" validate:"required,datetime=2006-01-02"`

	// centimes
	Montant      int  `json:"montant" validate:"required,gt=0"`
	Reconduction bool `json:"reconduction"`
}

type MotifRequest struct {
	Motif string `json:"motif" validate:"required,min=3"`
}
