package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/scheduler"
	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
)

// Pipeline job types accepted by the manual trigger route.
const (
	CronJobTypeCampaign       = "campaign"
	CronJobTypeOrders         = "orders"
	CronJobTypeAttribution    = "attribution"
	CronJobTypeReconciliation = "reconciliation"
	CronJobTypeCalendar       = "calendar"
	CronJobTypeAll            = "all"
)

// CronJobServices bundles the schedulers reachable from the ops API.
type CronJobServices struct {
	CampaignMergeSyncService  *scheduler.CampaignMergeSyncService
	OrderMergeSyncService     *scheduler.OrderMergeSyncService
	AttributionSyncService    *scheduler.AttributionSyncService
	ReconciliationSyncService *scheduler.ReconciliationSyncService
	CalendarSyncService       *scheduler.CalendarSyncService
}

// RunCronJob triggers one pipeline job (or all of them) outside the
// schedule. The merge jobs accept ?full_refresh=true to disable the watermark
// filter; this is the hook the external backfill driver calls.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type not specified", nil)
			return
		}

		fullRefresh := r.URL.Query().Get("full_refresh") == "true"

		switch cronType {
		case CronJobTypeCampaign:
			if services.CampaignMergeSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrSyncUnavailable, "Campaign merge service not available", nil)
				return
			}
			services.CampaignMergeSyncService.TriggerManualSync(fullRefresh)

		case CronJobTypeOrders:
			if services.OrderMergeSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrSyncUnavailable, "Order merge service not available", nil)
				return
			}
			services.OrderMergeSyncService.TriggerManualSync(fullRefresh)

		case CronJobTypeAttribution:
			if services.AttributionSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrSyncUnavailable, "Attribution service not available", nil)
				return
			}
			services.AttributionSyncService.TriggerManualSync()

		case CronJobTypeReconciliation:
			if services.ReconciliationSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrSyncUnavailable, "Reconciliation service not available", nil)
				return
			}
			services.ReconciliationSyncService.TriggerManualSync()

		case CronJobTypeCalendar:
			if services.CalendarSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrSyncUnavailable, "Calendar service not available", nil)
				return
			}
			services.CalendarSyncService.TriggerManualSync()

		case CronJobTypeAll:
			if services.CampaignMergeSyncService != nil {
				services.CampaignMergeSyncService.TriggerManualSync(fullRefresh)
			}
			if services.OrderMergeSyncService != nil {
				services.OrderMergeSyncService.TriggerManualSync(fullRefresh)
			}
			if services.AttributionSyncService != nil {
				services.AttributionSyncService.TriggerManualSync()
			}
			if services.ReconciliationSyncService != nil {
				services.ReconciliationSyncService.TriggerManualSync()
			}
			if services.CalendarSyncService != nil {
				services.CalendarSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Invalid cron job type. Accepted values: campaign, orders, attribution, reconciliation, calendar, all", nil)
			return
		}

		logrus.WithFields(logrus.Fields{
			"type":         cronType,
			"full_refresh": fullRefresh,
		}).Info("Manual cron job triggered")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message":      "Cron job started",
			"type":         cronType,
			"full_refresh": fullRefresh,
		})
	}
}

// GetCronStatus reports the state of every scheduler.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any)

		if services.CampaignMergeSyncService != nil {
			status[CronJobTypeCampaign] = services.CampaignMergeSyncService.GetStatus()
		}
		if services.OrderMergeSyncService != nil {
			status[CronJobTypeOrders] = services.OrderMergeSyncService.GetStatus()
		}
		if services.AttributionSyncService != nil {
			status[CronJobTypeAttribution] = services.AttributionSyncService.GetStatus()
		}
		if services.ReconciliationSyncService != nil {
			status[CronJobTypeReconciliation] = services.ReconciliationSyncService.GetStatus()
		}
		if services.CalendarSyncService != nil {
			status[CronJobTypeCalendar] = services.CalendarSyncService.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}
