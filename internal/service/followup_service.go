package service

import (
	"context"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

type FollowupRow struct {
	domain.Followup
	Badge Badge `json:"badge"`
}

type FollowupView struct {
	Followups    []FollowupRow `json:"followups"`
	Total        int           `json:"total"`
	OverdueCount int           `json:"overdue_count"`
}

type InspectionRow struct {
	domain.Inspection
	TypeLabel string `json:"type_label"`
	Badge     Badge  `json:"badge"`
}

type InspectionView struct {
	Inspections []InspectionRow `json:"inspections"`
	Total       int             `json:"total"`
}

type FollowupService struct {
	Gas *gasapi.Client
}

// FollowupBadge grades how long an estimate has waited for an answer.
func FollowupBadge(f domain.Followup) Badge {
	switch {
	case f.IsOverdue:
		return Badge{Label: "期限超過", Tone: "red"}
	case f.DaysSinceEstimate != nil && *f.DaysSinceEstimate > 3:
		return Badge{Label: "注意", Tone: "yellow"}
	default:
		return Badge{Label: "余裕", Tone: "green"}
	}
}

func InspectionBadge(status string) Badge {
	switch status {
	case "scheduled":
		return Badge{Label: "予定", Tone: "blue"}
	case "completed":
		return Badge{Label: "完了", Tone: "green"}
	case "overdue":
		return Badge{Label: "期限超過", Tone: "red"}
	default:
		return Badge{Label: status, Tone: "gray"}
	}
}

func (s FollowupService) Followups(ctx context.Context) (FollowupView, error) {
	list, err := s.Gas.GetFollowups(ctx)
	if err != nil {
		return FollowupView{}, err
	}
	v := FollowupView{
		Followups:    make([]FollowupRow, 0, len(list.Followups)),
		Total:        list.Total,
		OverdueCount: list.OverdueCount,
	}
	overdue := 0
	for _, f := range list.Followups {
		if f.IsOverdue {
			overdue++
		}
		v.Followups = append(v.Followups, FollowupRow{Followup: f, Badge: FollowupBadge(f)})
	}
	if v.Total == 0 {
		v.Total = len(list.Followups)
	}
	if v.OverdueCount == 0 {
		v.OverdueCount = overdue
	}
	return v, nil
}

func (s FollowupService) Inspections(ctx context.Context) (InspectionView, error) {
	list, err := s.Gas.GetInspections(ctx)
	if err != nil {
		return InspectionView{}, err
	}
	v := InspectionView{Inspections: make([]InspectionRow, 0, len(list.Inspections)), Total: list.Total}
	for _, in := range list.Inspections {
		v.Inspections = append(v.Inspections, InspectionRow{
			Inspection: in,
			TypeLabel:  domain.InspectionTypeLabel(in.InspectionType),
			Badge:      InspectionBadge(in.Status),
		})
	}
	if v.Total == 0 {
		v.Total = len(list.Inspections)
	}
	return v, nil
}
