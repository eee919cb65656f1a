package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	abonnementService "sirenecole_backend/internals/features/abonnements/service"
	"sirenecole_backend/internals/features/paiements/model"
	paiementService "sirenecole_backend/internals/features/paiements/service"
	helper "sirenecole_backend/internals/helpers"
)

type PaiementController struct {
	DB          *gorm.DB
	Abonnements *abonnementService.AbonnementService
}

func NewPaiementController(db *gorm.DB, abonnements *abonnementService.AbonnementService) *PaiementController {
	return &PaiementController{DB: db, Abonnements: abonnements}
}

/* ===================== Facture ===================== */

// POST /api/a/paiements/:abonnement_id/facture
// (Re)genere une facture Snap pour un abonnement en attente de paiement.
func (ctrl *PaiementController) CreateFacture(c *fiber.Ctx) error {
	abonnementID, err := uuid.Parse(c.Params("abonnement_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}

	var montant struct {
		Montant int     `json:"montant" validate:"required,gt=0"`
		Email   *string `json:"email" validate:"omitempty,email"`
		Nom     string  `json:"nom" validate:"required"`
	}
	if err := c.BodyParser(&montant); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Corps de requete invalide")
	}
	if err := helper.ValidateStruct(&montant); err != nil {
		return helper.ValidationError(c, err)
	}

	orderID := fmt.Sprintf("ABO-%d", time.Now().UnixNano())
	paiement := model.PaiementModel{
		PaiementAbonnementID: abonnementID,
		PaiementMontant:      montant.Montant,
		PaiementStatut:       model.PaiementStatutEnAttente,
		PaiementOrderID:      orderID,
		PaiementGateway:      "midtrans",
	}
	if err := ctrl.DB.Create(&paiement).Error; err != nil {
		log.Println("[ERROR] Creation paiement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation du paiement impossible")
	}

	email := ""
	if montant.Email != nil {
		email = *montant.Email
	}
	token, redirectURL, err := paiementService.GenerateSnapToken(orderID, montant.Montant, montant.Nom, email)
	if err != nil {
		log.Println("[ERROR] GenerateSnapToken:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Creation du token de paiement impossible")
	}

	paiement.PaiementToken = &token
	if err := ctrl.DB.Model(&paiement).Update("paiement_token", &token).Error; err != nil {
		log.Println("[ERROR] Sauvegarde token paiement:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Sauvegarde du token impossible")
	}

	return helper.JsonCreated(c, "Facture creee.", struct {
		OrderID     string `json:"order_id"`
		SnapToken   string `json:"snap_token"`
		RedirectURL string `json:"redirect_url"`
	}{
		OrderID:     orderID,
		SnapToken:   token,
		RedirectURL: redirectURL,
	})
}

/* ===================== Webhook ===================== */

// Map statut Midtrans → statut interne.
func mapMidtransStatus(txStatus, fraudStatus string) string {
	switch txStatus {
	case "capture", "settlement", "success":
		if txStatus == "capture" && fraudStatus == "challenge" {
			return model.PaiementStatutEnAttente
		}
		return model.PaiementStatutValide
	case "pending":
		return model.PaiementStatutEnAttente
	case "expire", "expired":
		return model.PaiementStatutExpire
	case "cancel", "canceled", "deny", "failure", "failed", "refund", "partial_refund":
		return model.PaiementStatutAnnule
	default:
		return ""
	}
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func parseMidtransTime(body map[string]interface{}) time.Time {
	const layout = "2006-01-02 15:04:05"
	if s := getString(body, "settlement_time"); s != "" {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	if s := getString(body, "transaction_time"); s != "" {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}

// traiterNotification met a jour le paiement sous verrou; si le paiement
// passe a valide, l'abonnement en attente est active (ce qui genere le
// token sirene).
func (ctrl *PaiementController) traiterNotification(body map[string]interface{}) error {
	orderID := getString(body, "order_id")
	txStatus := strings.ToLower(getString(body, "transaction_status"))
	if orderID == "" || txStatus == "" {
		return fmt.Errorf("payload invalide: order_id ou transaction_status absent")
	}

	nouveau := mapMidtransStatus(txStatus, strings.ToLower(getString(body, "fraud_status")))
	if nouveau == "" {
		log.Printf("[WARN] Statut Midtrans inconnu: %s (ignore)", txStatus)
		return nil
	}

	methode := strings.TrimSpace(getString(body, "payment_type"))

	var payeLe *time.Time
	if nouveau == model.PaiementStatutValide {
		t := parseMidtransTime(body)
		payeLe = &t
	}

	var abonnementAActiver *uuid.UUID

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var paiement model.PaiementModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("paiement_order_id = ?", orderID).
			First(&paiement).Error; err != nil {
			return fmt.Errorf("paiement introuvable pour order_id %s: %w", orderID, err)
		}

		dejaValide := paiement.PaiementStatut == model.PaiementStatutValide

		updates := map[string]interface{}{}
		if paiement.PaiementStatut != nouveau {
			updates["paiement_statut"] = nouveau
		}
		if methode != "" && (paiement.PaiementMethode == nil || *paiement.PaiementMethode != methode) {
			updates["paiement_methode"] = methode
		}
		if payeLe != nil && (paiement.PaiementPayeLe == nil || !paiement.PaiementPayeLe.Equal(*payeLe)) {
			updates["paiement_paye_le"] = *payeLe
		}
		if len(updates) > 0 {
			if err := tx.Model(&paiement).Updates(updates).Error; err != nil {
				return fmt.Errorf("mise a jour paiement %s: %w", orderID, err)
			}
		}

		if nouveau == model.PaiementStatutValide && !dejaValide {
			abonnementAActiver = &paiement.PaiementAbonnementID
		}
		return nil
	})
	if err != nil {
		return err
	}

	if abonnementAActiver != nil {
		if _, err := ctrl.Abonnements.Activer(ctrl.DB, *abonnementAActiver, nil); err != nil {
			// un abonnement deja actif (double notification) n'est pas une erreur
			if errors.Is(err, abonnementService.ErrTransitionInterdite) {
				log.Printf("[WARN] Activation ignoree pour %s: %v", abonnementAActiver, err)
				return nil
			}
			return fmt.Errorf("activation abonnement %s: %w", abonnementAActiver, err)
		}
		log.Printf("[INFO] Abonnement %s active suite au paiement %s", abonnementAActiver, orderID)
	}
	return nil
}

// POST /api/paiements/notification
func (ctrl *PaiementController) HandleMidtransNotification(c *fiber.Ctx) error {
	// parsing robuste: JSON puis fallback form-urlencoded (Midtrans envoie
	// les deux selon le canal)
	var body map[string]interface{}

	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.Contains(ct, "application/json") && len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			log.Println("[WARN] JSON parse failed:", err)
		}
	}
	if len(body) == 0 {
		form := map[string]interface{}{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			form[string(k)] = string(v)
		})
		if len(form) > 0 {
			body = form
		}
	}
	if len(body) == 0 {
		log.Printf("[ERROR] Webhook body vide. CT=%q", ct)
		// 200 pour eviter les retries en boucle cote Midtrans
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "empty body"})
	}

	if err := ctrl.traiterNotification(body); err != nil {
		log.Println("[ERROR] Webhook paiement:", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "processed with warning",
			"error":   err.Error(),
		})
	}

	return helper.JsonOK(c, "Notification traitee.", struct {
		OrderID string `json:"order_id"`
	}{OrderID: getString(body, "order_id")})
}
