package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/reconciling"
	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
)

// GetReconciliationReport returns the latest drift report, or an error before
// the first run has produced one.
func GetReconciliationReport(checker reconciling.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := checker.LatestReport()
		if report == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "No reconciliation report available yet", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

type watermarkResponse struct {
	FactTable string    `json:"fact_table"`
	Watermark time.Time `json:"watermark"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetWatermarks exposes the stored merge watermarks per fact table.
func GetWatermarks(watermarkRepo repository.WatermarkRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		watermarks, err := watermarkRepo.List(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to list watermarks")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list watermarks", nil)
			return
		}

		response := make([]watermarkResponse, 0, len(watermarks))
		for _, wm := range watermarks {
			response = append(response, watermarkResponse{
				FactTable: wm.FactTable,
				Watermark: wm.Watermark,
				UpdatedAt: wm.UpdatedAt,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
