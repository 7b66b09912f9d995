package service

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
)

const (
	ProjectPageSize = 10
	// projectFetchLimit bounds the list the filters run over.
	projectFetchLimit = 500
)

type ProjectService struct {
	Gas    *gasapi.Client
	Logger *slog.Logger
}

type ProjectFilter struct {
	Query     string
	Year      int
	Month     int
	Statuses  []domain.ProjectStatus
	WorkTypes []string
	Page      int
}

type ProjectRow struct {
	domain.Project
	StatusLabel   string `json:"status_label"`
	WorkTypeLabel string `json:"work_type_label"`
	AmountLabel   string `json:"amount_label"`
}

type ProjectPage struct {
	Projects   []ProjectRow `json:"projects"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

func (s ProjectService) List(ctx context.Context, f ProjectFilter) (ProjectPage, error) {
	list, err := s.Gas.GetProjects(ctx, projectFetchLimit)
	if err != nil {
		return ProjectPage{}, err
	}
	return Paginate(FilterProjects(list.Projects, f), f.Page), nil
}

// FilterProjects applies the list filters. Empty criteria match everything.
func FilterProjects(projects []domain.Project, f ProjectFilter) []domain.Project {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	statuses := make(map[domain.ProjectStatus]bool, len(f.Statuses))
	for _, st := range f.Statuses {
		statuses[st] = true
	}

	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.ProjectNumber), q) &&
			!strings.Contains(strings.ToLower(p.CustomerName), q) &&
			!strings.Contains(strings.ToLower(p.AssignedToName), q) {
			continue
		}
		if f.Year != 0 || f.Month != 0 {
			y, m := inquiryYearMonth(p.InquiryDate)
			if f.Year != 0 && y != f.Year {
				continue
			}
			if f.Month != 0 && m != f.Month {
				continue
			}
		}
		if len(statuses) > 0 && !statuses[p.Status] {
			continue
		}
		if len(f.WorkTypes) > 0 && !matchesWorkType(p.WorkType, f.WorkTypes) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func inquiryYearMonth(date string) (int, int) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return 0, 0
	}
	y, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return y, m
}

// matchesWorkType reports whether any project work type contains any of
// the wanted labels.
func matchesWorkType(types domain.WorkTypeList, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range types {
			if strings.Contains(t, w) {
				return true
			}
		}
	}
	return false
}

// Paginate slices a filtered list into pages of ProjectPageSize. Page is
// clamped into range; there is always at least one page.
func Paginate(projects []domain.Project, page int) ProjectPage {
	total := len(projects)
	pages := int(math.Max(1, math.Ceil(float64(total)/ProjectPageSize)))
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * ProjectPageSize
	end := min(start+ProjectPageSize, total)

	rows := make([]ProjectRow, 0, end-start)
	for _, p := range projects[start:end] {
		rows = append(rows, projectRow(p))
	}
	return ProjectPage{Projects: rows, Total: total, Page: page, TotalPages: pages}
}

func projectRow(p domain.Project) ProjectRow {
	return ProjectRow{
		Project:       p,
		StatusLabel:   p.Status.Label(),
		WorkTypeLabel: strings.Join(p.WorkType, "、"),
		AmountLabel:   report.FormatManYen(p.EstimatedAmount.Float()),
	}
}

type NewProject struct {
	CustomerName     string   `json:"customer_name"`
	CustomerNameKana string   `json:"customer_name_kana"`
	PostalCode       string   `json:"postal_code"`
	Address          string   `json:"address"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	WorkType         []string `json:"work_type"`
	WorkDescription  string   `json:"work_description"`
	EstimatedAmount  float64  `json:"estimated_amount"`
	AcquisitionRoute string   `json:"acquisition_route"`
	InquiryDate      string   `json:"inquiry_date"`
	AssignedTo       string   `json:"assigned_to"`
	Notes            string   `json:"notes"`
}

const requiredFieldsMessage = "必須項目をすべて入力してください"

func (n NewProject) Validate() error {
	var missing []string
	check := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	check("customer_name", n.CustomerName)
	check("address", n.Address)
	check("phone", n.Phone)
	if len(n.WorkType) == 0 {
		missing = append(missing, "work_type")
	}
	if n.EstimatedAmount <= 0 {
		missing = append(missing, "estimated_amount")
	}
	check("acquisition_route", n.AcquisitionRoute)
	check("inquiry_date", n.InquiryDate)
	if len(missing) > 0 {
		return invalid(requiredFieldsMessage, missing...)
	}
	return nil
}

func (n NewProject) payload() map[string]any {
	workType := strings.Join(n.WorkType, ",")
	desc := strings.TrimSpace(n.WorkDescription)
	if desc == "" {
		desc = workType
	}
	return map[string]any{
		"customer_name":      n.CustomerName,
		"customer_name_kana": n.CustomerNameKana,
		"postal_code":        n.PostalCode,
		"address":            n.Address,
		"phone":              n.Phone,
		"email":              n.Email,
		"work_type":          workType,
		"work_description":   desc,
		"estimated_amount":   n.EstimatedAmount,
		"acquisition_route":  n.AcquisitionRoute,
		"inquiry_date":       n.InquiryDate,
		"assigned_to":        n.AssignedTo,
		"notes":              n.Notes,
		"status":             string(domain.StatusInquiry),
	}
}

func (s ProjectService) Create(ctx context.Context, n NewProject) (domain.Project, error) {
	if err := n.Validate(); err != nil {
		return domain.Project{}, err
	}
	return s.Gas.CreateProject(ctx, n.payload())
}

// Update sends only the supplied fields. Identity fields are not editable.
func (s ProjectService) Update(ctx context.Context, id string, fields map[string]any) (domain.Project, error) {
	delete(fields, "id")
	delete(fields, "project_id")
	delete(fields, "project_number")
	if st, ok := fields["status"].(string); ok && !domain.ProjectStatus(st).Valid() {
		return domain.Project{}, invalid("不正なステータスです", "status")
	}
	return s.Gas.UpdateProject(ctx, id, fields)
}

func (s ProjectService) Delete(ctx context.Context, id string) error {
	return s.Gas.DeleteProject(ctx, id)
}

func (s ProjectService) ChangeStatus(ctx context.Context, id string, status domain.ProjectStatus) (domain.Project, error) {
	if !status.Valid() {
		return domain.Project{}, invalid("不正なステータスです", "status")
	}
	return s.Gas.UpdateProject(ctx, id, map[string]any{"status": string(status)})
}

type ProjectDetail struct {
	Project     ProjectRow     `json:"project"`
	Photos      []domain.Photo `json:"photos"`
	PhotoError  string         `json:"photo_error,omitempty"`
	StatusFlow  []StatusOption `json:"status_flow"`
	PhotoGroups []PhotoGroup   `json:"photo_groups"`
}

type StatusOption struct {
	Value   domain.ProjectStatus `json:"value"`
	Label   string               `json:"label"`
	Current bool                 `json:"current"`
}

type PhotoGroup struct {
	Type   string         `json:"type"`
	Label  string         `json:"label"`
	Photos []domain.Photo `json:"photos"`
}

// Detail fetches the project and its photos concurrently. A photo failure
// is reported on the result; a project failure fails the call.
func (s ProjectService) Detail(ctx context.Context, id string) (ProjectDetail, error) {
	var (
		project  domain.Project
		photos   gasapi.PhotoList
		photoErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.Gas.GetProject(gctx, id)
		return err
	})
	g.Go(func() error {
		photos, photoErr = s.Gas.GetPhotos(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return ProjectDetail{}, err
	}
	if project.ID == "" {
		return ProjectDetail{}, ErrNotFound
	}

	d := ProjectDetail{
		Project:     projectRow(project),
		Photos:      photos.Photos,
		PhotoGroups: groupPhotos(photos.Photos),
	}
	if d.Photos == nil {
		d.Photos = []domain.Photo{}
	}
	if photoErr != nil {
		s.Logger.Warn("project photos unavailable", "project_id", id, "err", photoErr)
		d.PhotoError = gasapi.Message(photoErr)
	}
	for _, st := range domain.ProjectStatuses {
		d.StatusFlow = append(d.StatusFlow, StatusOption{Value: st, Label: st.Label(), Current: st == project.Status})
	}
	return d, nil
}

func groupPhotos(photos []domain.Photo) []PhotoGroup {
	groups := make([]PhotoGroup, 0, len(domain.PhotoTypes))
	for _, pt := range domain.PhotoTypes {
		g := PhotoGroup{Type: pt.ID, Label: pt.Label, Photos: []domain.Photo{}}
		for _, p := range photos {
			if p.PhotoType == pt.ID {
				g.Photos = append(g.Photos, p)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func (s ProjectService) Photos(ctx context.Context, projectID, photoType string) ([]domain.Photo, error) {
	list, err := s.Gas.GetPhotos(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Photo, 0, len(list.Photos))
	for _, p := range list.Photos {
		if photoType == "" || p.PhotoType == photoType {
			out = append(out, p)
		}
	}
	return out, nil
}

type PhotoUpload struct {
	PhotoType string `json:"photo_type"`
	PhotoData string `json:"photo_data"`
	FileName  string `json:"file_name"`
	Memo      string `json:"memo"`
}

func (s ProjectService) UploadPhoto(ctx context.Context, projectID string, in PhotoUpload) (domain.Photo, error) {
	if !domain.ValidPhotoType(in.PhotoType) {
		return domain.Photo{}, invalid("写真の種類が不正です", "photo_type")
	}
	if in.PhotoData == "" {
		return domain.Photo{}, invalid("写真データがありません", "photo_data")
	}
	return s.Gas.UploadPhoto(ctx, map[string]any{
		"project_id": projectID,
		"photo_type": in.PhotoType,
		"photo_data": in.PhotoData,
		"file_name":  in.FileName,
		"memo":       in.Memo,
	})
}

func (s ProjectService) SaveCustomerPhoto(ctx context.Context, projectID, photoURL, photoData string) (gasapi.CustomerPhoto, error) {
	if photoURL == "" && photoData == "" {
		return gasapi.CustomerPhoto{}, invalid("写真が指定されていません", "photo_url", "photo_data")
	}
	return s.Gas.SaveCustomerPhoto(ctx, projectID, photoURL, photoData)
}

func (s ProjectService) Meetings(ctx context.Context, projectID string) (gasapi.MeetingList, error) {
	return s.Gas.GetMeetings(ctx, projectID)
}

func (s ProjectService) AddMeeting(ctx context.Context, projectID string, m domain.MeetingRecord) (gasapi.CreatedRef, error) {
	m.ProjectID = domain.FlexString(projectID)
	var missing []string
	if m.MeetingDate == "" {
		missing = append(missing, "meeting_date")
	}
	if strings.TrimSpace(m.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return gasapi.CreatedRef{}, invalid(requiredFieldsMessage, missing...)
	}
	return s.Gas.CreateMeeting(ctx, m)
}

type CostSummary struct {
	Items           []domain.CostItem `json:"cost_items"`
	TotalCost       float64           `json:"total_cost"`
	ContractAmount  float64           `json:"contract_amount"`
	GrossProfit     float64           `json:"gross_profit"`
	GrossProfitRate report.Rate       `json:"gross_profit_rate"`
	TotalCostLabel  string            `json:"total_cost_label"`
	GrossLabel      string            `json:"gross_profit_label"`
}

// Costs lists cost items and derives gross profit from the contract amount.
func (s ProjectService) Costs(ctx context.Context, projectID string) (CostSummary, error) {
	var (
		project domain.Project
		items   gasapi.CostItemList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.Gas.GetProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.Gas.GetCostItems(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return CostSummary{}, err
	}
	return summarizeCosts(project, items), nil
}

func summarizeCosts(p domain.Project, items gasapi.CostItemList) CostSummary {
	total := items.TotalCost.Float()
	if total == 0 {
		for _, it := range items.CostItems {
			total += it.Amount.Float()
		}
	}
	contract := p.ContractAmount.Float()
	if contract == 0 {
		contract = p.EstimatedAmount.Float()
	}
	gross := contract - total

	sum := CostSummary{
		Items:          items.CostItems,
		TotalCost:      total,
		ContractAmount: contract,
		GrossProfit:    gross,
		TotalCostLabel: report.FormatYen(total),
		GrossLabel:     report.FormatYen(gross),
	}
	if sum.Items == nil {
		sum.Items = []domain.CostItem{}
	}
	if contract > 0 {
		sum.GrossProfitRate = report.Rate{Value: math.Round(gross/contract*1000) / 10, Defined: true}
	}
	return sum
}

func (s ProjectService) AddCost(ctx context.Context, projectID string, item domain.CostItem) (gasapi.CreatedRef, error) {
	item.ProjectID = domain.FlexString(projectID)
	if item.Amount <= 0 {
		return gasapi.CreatedRef{}, invalid("金額を入力してください", "amount")
	}
	if item.Category == "" {
		return gasapi.CreatedRef{}, invalid(requiredFieldsMessage, "category")
	}
	return s.Gas.CreateCostItem(ctx, item)
}
