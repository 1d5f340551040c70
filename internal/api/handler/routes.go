package handler

import (
	"net/http"

	"github.com/vfg2006/marketing-analytics-api/infrastructure/repository"
	"github.com/vfg2006/marketing-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/reconciling"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/token",
			Method:  http.MethodPost,
			Handler: IssueToken(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}

func Pipeline(checker reconciling.Checker, watermarkRepo repository.WatermarkRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reconciliation/report",
			Method:  http.MethodGet,
			Handler: GetReconciliationReport(checker),
		},
		{
			Path:    "/v1/watermarks",
			Method:  http.MethodGet,
			Handler: GetWatermarks(watermarkRepo),
		},
	}
}
