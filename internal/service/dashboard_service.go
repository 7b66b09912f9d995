package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/retry"
)

const DashboardFailedMessage = "ダッシュボードデータの取得に失敗しました"

// ErrDashboardUnavailable is returned once every attempt has failed.
var ErrDashboardUnavailable = errors.New("dashboard unavailable")

type DashboardService struct {
	Gas    *gasapi.Client
	Retry  retry.Policy
	Logger *slog.Logger
	Now    func() time.Time
}

// dashboardReserve is left on the request deadline to write the error
// response after the last attempt.
const dashboardReserve = 250 * time.Millisecond

// DashboardRetryPolicy retries transient failures with a linear backoff.
// Under a request deadline every attempt gets its own share of the time.
func DashboardRetryPolicy(attempts int, step time.Duration) retry.Policy {
	return retry.Policy{
		MaxAttempts:   attempts,
		Backoff:       retry.Linear(step),
		Retryable:     gasapi.Retryable,
		SplitDeadline: true,
		Reserve:       dashboardReserve,
	}
}

func (s DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Overview loads the aggregate for the period and shapes it for display.
// userName is shown when the payload does not carry one.
func (s DashboardService) Overview(ctx context.Context, period report.Period, userName string) (report.DashboardView, error) {
	now := s.now()
	r := report.Resolve(period, now)

	var data domain.DashboardData
	err := s.Retry.DoNotify(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.Gas.GetDashboard(ctx, r)
		return err
	}, func(a retry.Attempt) {
		s.Logger.Warn("dashboard fetch failed, retrying",
			"attempt", a.Number,
			"wait", a.Wait,
			"err", a.Err,
		)
	})
	if err != nil {
		s.Logger.Error("dashboard fetch gave up", "period", string(period), "err", err)
		return report.DashboardView{}, errors.Join(ErrDashboardUnavailable, err)
	}
	return report.BuildDashboard(data, period, r, now, userName), nil
}
