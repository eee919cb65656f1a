package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"sirenecole_backend/internals/features/abonnements/service"
)

// StartExpirationScheduler lance le balayage periodique des abonnements
// echus. Le balayage est idempotent: le relancer ou le faire tourner en
// parallele du trafic sirene est sans danger.
func StartExpirationScheduler(db *gorm.DB, svc *service.AbonnementService) {
	go func() {
		intervalleHeures := 6
		if val := os.Getenv("ABONNEMENT_SWEEP_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalleHeures = parsed
			}
		}

		for {
			if _, err := svc.ExpirerEchus(db, time.Now().UTC()); err != nil {
				log.Printf("[SWEEP ERROR] Balayage abonnements: %v", err)
			}
			time.Sleep(time.Duration(intervalleHeures) * time.Hour)
		}
	}()
}
