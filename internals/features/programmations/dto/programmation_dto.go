package dto

import (
	"time"

	"github.com/google/uuid"

	"sirenecole_backend/internals/features/programmations/model"
	"sirenecole_backend/internals/features/programmations/service"
)

/* ===================== Requests ===================== */

type SonnerieRequest struct {
	Heure  int   `json:"heure" validate:"min=0,max=23"`
	Minute int   `json:"minute" validate:"min=0,max=59"`
	Jours  []int `json:"jours" validate:"required,min=1,dive,min=0,max=6"`
}

type CreateProgrammationRequest struct {
	AbonnementID string  `json:"abonnement_id" validate:"required,uuid4"`
	CalendrierID *string `json:"calendrier_id" validate:"omitempty,uuid4"`
	Nom          string  `json:"nom" validate:"required,max=120"`
	DateDebut    string  `json:"date_debut" validate:"required,datetime=2006-01-02"`
	DateFin      string  `json:"date_fin" validate:"required,datetime=2006-01-02"`

	JoursFeriesInclus bool                      `json:"jours_feries_inclus"`
	JoursFeries       []model.JourFerieOverride `json:"jours_feries" validate:"omitempty,dive"`

	Sonneries []SonnerieRequest `json:"sonneries" validate:"required,min=1,dive"`
}

type UpdateProgrammationRequest struct {
	Nom       *string `json:"nom" validate:"omitempty,max=120"`
	DateDebut *string `json:"date_debut" validate:"omitempty,datetime=2006-01-02"`
	DateFin   *string `json:"date_fin" validate:"omitempty,datetime=2006-01-02"`

	JoursFeriesInclus *bool                      `json:"jours_feries_inclus"`
	JoursFeries       *[]model.JourFerieOverride `json:"jours_feries" validate:"omitempty,dive"`

	Sonneries *[]SonnerieRequest `json:"sonneries" validate:"omitempty,min=1,dive"`
	Actif     *bool              `json:"actif"`
}

/* ===================== Conversions ===================== */

func (r *CreateProgrammationRequest) ToInput(creePar *uuid.UUID) (service.CreerProgrammationInput, error) {
	aboID, err := uuid.Parse(r.AbonnementID)
	if err != nil {
		return service.CreerProgrammationInput{}, err
	}
	var calID *uuid.UUID
	if r.CalendrierID != nil {
		id, err := uuid.Parse(*r.CalendrierID)
		if err != nil {
			return service.CreerProgrammationInput{}, err
		}
		calID = &id
	}
	debut, err := time.Parse("2006-01-02", r.DateDebut)
	if err != nil {
		return service.CreerProgrammationInput{}, err
	}
	fin, err := time.Parse("2006-01-02", r.DateFin)
	if err != nil {
		return service.CreerProgrammationInput{}, err
	}

	return service.CreerProgrammationInput{
		AbonnementID:      aboID,
		CalendrierID:      calID,
		Nom:               r.Nom,
		DateDebut:         debut,
		DateFin:           fin,
		JoursFeriesInclus: r.JoursFeriesInclus,
		JoursFeries:       r.JoursFeries,
		Sonneries:         ToSonneries(r.Sonneries),
		CreePar:           creePar,
	}, nil
}

func ToSonneries(reqs []SonnerieRequest) []service.Sonnerie {
	out := make([]service.Sonnerie, len(reqs))
	for i, r := range reqs {
		out[i] = service.Sonnerie{Heure: r.Heure, Minute: r.Minute, Jours: r.Jours}
	}
	return out
}
