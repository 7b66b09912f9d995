package service

import (
	"context"
	"strings"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

const CompanyName = "株式会社ラパンリフォーム"

type LetterTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Preview string `json:"preview"`
}

var LetterTemplates = []LetterTemplate{
	{ID: "thankyou", Name: "お礼状", Preview: "この度はリフォーム工事にご依頼いただき誠にありがとうございました。"},
	{ID: "seasonal", Name: "季節DM", Preview: "春の訪れと共に、ご挨拶申し上げます。"},
	{ID: "campaign", Name: "キャンペーン", Preview: "春のリフォームキャンペーン実施中です。"},
}

var recipientStatuses = map[domain.ProjectStatus]string{
	domain.StatusCompleted:  "完工",
	domain.StatusInProgress: "施工中",
	domain.StatusContract:   "契約済",
}

type Recipient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	LastWork    string `json:"last_work"`
}

type CampaignView struct {
	Company    string           `json:"company"`
	Templates  []LetterTemplate `json:"templates"`
	Recipients []Recipient      `json:"recipients"`
}

type CampaignService struct {
	Gas *gasapi.Client
}

func (s CampaignService) Recipients(ctx context.Context) (CampaignView, error) {
	list, err := s.Gas.GetProjects(ctx, mapProjectLimit)
	if err != nil {
		return CampaignView{}, err
	}
	return CampaignView{
		Company:    CompanyName,
		Templates:  LetterTemplates,
		Recipients: SendList(list.Projects),
	}, nil
}

// SendList keeps customers whose project reached contract or later.
func SendList(projects []domain.Project) []Recipient {
	out := []Recipient{}
	for _, p := range projects {
		label, ok := recipientStatuses[p.Status]
		if !ok {
			continue
		}
		out = append(out, Recipient{
			ID:          p.ID.String(),
			Name:        p.CustomerName,
			Address:     p.Address,
			Status:      string(p.Status),
			StatusLabel: label,
			LastWork:    lastWork(p),
		})
	}
	return out
}

func TemplateByID(id string) (LetterTemplate, bool) {
	for _, t := range LetterTemplates {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return LetterTemplate{}, false
}
