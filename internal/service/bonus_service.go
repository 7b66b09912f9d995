package service

import (
	"context"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
)

type BonusService struct {
	Gas *gasapi.Client
}

func (s BonusService) Overview(ctx context.Context) (report.BonusView, error) {
	o, err := s.Gas.GetBonusOverview(ctx)
	if err != nil {
		return report.BonusView{}, err
	}
	return report.BuildBonusView(o), nil
}
