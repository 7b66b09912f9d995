package gasapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
)

// Action names understood by the remote API.
const (
	ActionGetDashboard            = "getDashboard"
	ActionGetProjects             = "getProjects"
	ActionGetProject              = "getProject"
	ActionCreateProject           = "createProject"
	ActionUpdateProject           = "updateProject"
	ActionDeleteProject           = "deleteProject"
	ActionGetPhotos               = "getPhotos"
	ActionUploadPhoto             = "uploadPhoto"
	ActionGetExpenses             = "getExpenses"
	ActionCreateExpense           = "createExpense"
	ActionUpdateExpenseAccounting = "updateExpenseAccounting"
	ActionGetFollowups            = "getFollowups"
	ActionGetInspections          = "getInspections"
	ActionGetEmployees            = "getEmployees"
	ActionCreateEmployee          = "createEmployee"
	ActionUpdateEmployee          = "updateEmployee"
	ActionSavePermissions         = "savePermissions"
	ActionOCRReceipt              = "ocrReceipt"
	ActionCreateAttendance        = "createAttendance"
	ActionGetAttendanceStatus     = "getAttendanceStatus"
	ActionCreateSession           = "createSession"
	ActionGetCompanySettings      = "getCompanySettings"
	ActionSaveCompanySettings     = "saveCompanySettings"
	ActionGetUserMapSettings      = "getUserMapSettings"
	ActionSaveUserMapSettings     = "saveUserMapSettings"
	ActionGetUserInfo             = "getUserInfo"
	ActionGetBonusOverview        = "getBonusOverview"
	ActionUploadProfilePhoto      = "uploadProfilePhoto"
	ActionGetMeetings             = "getMeetings"
	ActionCreateMeeting           = "createMeeting"
	ActionGetCostItems            = "getCostItems"
	ActionCreateCostItem          = "createCostItem"
	ActionGetMasters              = "getMasters"
	ActionSaveMasters             = "saveMasters"
	ActionFormatText              = "formatText"
	ActionGetPagePermissions      = "getPagePermissions"
	ActionSavePagePermissions     = "savePagePermissions"
	ActionGetAccountPhotos        = "getAccountPhotos"
	ActionUploadAccountPhoto      = "uploadAccountPhoto"
	ActionDeleteAccountPhoto      = "deleteAccountPhoto"
	ActionSaveCustomerPhoto       = "saveCustomerPhoto"
	ActionGetNotices              = "getNotices"
	ActionCreateNotice            = "createNotice"
	ActionLineTokenExchange       = "lineTokenExchange"
)

type ProjectList struct {
	Projects []domain.Project `json:"projects"`
	Total    int              `json:"total"`
}

type ExpenseList struct {
	Expenses []domain.Expense `json:"expenses"`
	Total    int              `json:"total"`
}

type FollowupList struct {
	Followups    []domain.Followup `json:"followups"`
	Total        int               `json:"total"`
	OverdueCount int               `json:"overdue_count"`
}

type InspectionList struct {
	Inspections []domain.Inspection `json:"inspections"`
	Total       int                 `json:"total"`
}

type EmployeeList struct {
	Employees []domain.Employee `json:"employees"`
	Total     int               `json:"total"`
}

type MeetingList struct {
	Meetings []domain.MeetingRecord `json:"meetings"`
	Total    int                    `json:"total"`
}

type CostItemList struct {
	CostItems []domain.CostItem `json:"cost_items"`
	Total     int               `json:"total"`
	TotalCost domain.Amount     `json:"total_cost"`
}

type PhotoList struct {
	Photos []domain.Photo `json:"photos"`
}

type NoticeList struct {
	Notices []domain.Notice `json:"notices"`
}

type SessionGrant struct {
	SessionToken string      `json:"session_token"`
	User         domain.User `json:"user"`
}

type UserInfo struct {
	ID        domain.FlexString `json:"id"`
	Name      string            `json:"name"`
	Role      domain.UserRole   `json:"role"`
	Email     string            `json:"email,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
}

type TokenExchange struct {
	IDToken string `json:"id_token"`
}

type ProfilePhoto struct {
	AvatarURL string `json:"avatar_url"`
	DriveURL  string `json:"drive_url"`
}

type CreatedRef struct {
	ID        domain.FlexString `json:"id"`
	ProjectID domain.FlexString `json:"project_id"`
}

type AccountingFlag struct {
	ExpenseID          domain.FlexString `json:"expense_id"`
	AccountingImported bool              `json:"accounting_imported"`
}

type MastersSaved struct {
	MasterType string `json:"master_type"`
	Count      int    `json:"count"`
}

type FormattedText struct {
	FormattedText string `json:"formatted_text"`
}

type AccountPhotoUpload struct {
	Photo  domain.AccountPhoto   `json:"photo"`
	Photos []domain.AccountPhoto `json:"photos"`
	Count  int                   `json:"count"`
	Max    int                   `json:"max"`
}

type CustomerPhoto struct {
	PhotoURL string `json:"photo_url"`
}

type Settings map[string]any

func values(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func (c *Client) GetDashboard(ctx context.Context, r domain.DateRange) (domain.DashboardData, error) {
	env, err := c.Get(ctx, ActionGetDashboard, values("start_date", r.StartDate, "end_date", r.EndDate))
	if err != nil {
		return domain.DashboardData{}, err
	}
	if !env.HasData() {
		return domain.DashboardData{}, ErrNoData
	}
	return decode[domain.DashboardData](ActionGetDashboard, env)
}

func (c *Client) GetProjects(ctx context.Context, limit int) (ProjectList, error) {
	return getAs[ProjectList](ctx, c, ActionGetProjects, values("limit", strconv.Itoa(limit)))
}

// GetProject accepts both {"project": {...}} and a bare project payload.
func (c *Client) GetProject(ctx context.Context, id string) (domain.Project, error) {
	env, err := c.Get(ctx, ActionGetProject, values("project_id", id))
	if err != nil {
		return domain.Project{}, err
	}
	if !env.HasData() {
		return domain.Project{}, ErrNoData
	}
	wrapped, err := decode[struct {
		Project *domain.Project `json:"project"`
	}](ActionGetProject, env)
	if err != nil {
		return domain.Project{}, err
	}
	if wrapped.Project != nil {
		return *wrapped.Project, nil
	}
	return decode[domain.Project](ActionGetProject, env)
}

func (c *Client) CreateProject(ctx context.Context, data map[string]any) (domain.Project, error) {
	return postAs[domain.Project](ctx, c, ActionCreateProject, data)
}

func (c *Client) UpdateProject(ctx context.Context, id string, data map[string]any) (domain.Project, error) {
	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["project_id"] = id
	return postAs[domain.Project](ctx, c, ActionUpdateProject, payload)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.Post(ctx, ActionDeleteProject, map[string]any{"project_id": id})
	return err
}

func (c *Client) GetPhotos(ctx context.Context, projectID string) (PhotoList, error) {
	return getAs[PhotoList](ctx, c, ActionGetPhotos, values("project_id", projectID))
}

func (c *Client) UploadPhoto(ctx context.Context, data map[string]any) (domain.Photo, error) {
	return postAs[domain.Photo](ctx, c, ActionUploadPhoto, data)
}

func (c *Client) GetExpenses(ctx context.Context, limit int) (ExpenseList, error) {
	return getAs[ExpenseList](ctx, c, ActionGetExpenses, values("limit", strconv.Itoa(limit)))
}

func (c *Client) CreateExpense(ctx context.Context, data map[string]any) (domain.Expense, error) {
	return postAs[domain.Expense](ctx, c, ActionCreateExpense, data)
}

func (c *Client) UpdateExpenseAccounting(ctx context.Context, expenseID string, imported bool) (AccountingFlag, error) {
	return postAs[AccountingFlag](ctx, c, ActionUpdateExpenseAccounting, map[string]any{
		"expense_id":          expenseID,
		"accounting_imported": imported,
	})
}

func (c *Client) GetFollowups(ctx context.Context) (FollowupList, error) {
	return getAs[FollowupList](ctx, c, ActionGetFollowups, nil)
}

func (c *Client) GetInspections(ctx context.Context) (InspectionList, error) {
	return getAs[InspectionList](ctx, c, ActionGetInspections, nil)
}

func (c *Client) GetEmployees(ctx context.Context) (EmployeeList, error) {
	return getAs[EmployeeList](ctx, c, ActionGetEmployees, nil)
}

func (c *Client) CreateEmployee(ctx context.Context, data map[string]any) (domain.Employee, error) {
	return postAs[domain.Employee](ctx, c, ActionCreateEmployee, data)
}

func (c *Client) UpdateEmployee(ctx context.Context, data map[string]any) (domain.Employee, error) {
	return postAs[domain.Employee](ctx, c, ActionUpdateEmployee, data)
}

func (c *Client) SavePermissions(ctx context.Context, permissions []domain.UserPagePermissions) error {
	_, err := c.Post(ctx, ActionSavePermissions, map[string]any{"permissions": permissions})
	return err
}

func (c *Client) OCRReceipt(ctx context.Context, photoData string) (domain.OCRResult, error) {
	return postAs[domain.OCRResult](ctx, c, ActionOCRReceipt, map[string]any{"photo_data": photoData})
}

func (c *Client) CreateAttendance(ctx context.Context, data map[string]any) (domain.AttendanceRecord, error) {
	return postAs[domain.AttendanceRecord](ctx, c, ActionCreateAttendance, data)
}

func (c *Client) GetAttendanceStatus(ctx context.Context) (domain.AttendanceStatus, error) {
	return getAs[domain.AttendanceStatus](ctx, c, ActionGetAttendanceStatus, nil)
}

func (c *Client) CreateSession(ctx context.Context, idToken string) (SessionGrant, error) {
	return postAs[SessionGrant](ctx, c, ActionCreateSession, map[string]any{"id_token": idToken})
}

func (c *Client) GetCompanySettings(ctx context.Context) (Settings, error) {
	return getAs[Settings](ctx, c, ActionGetCompanySettings, nil)
}

func (c *Client) SaveCompanySettings(ctx context.Context, data Settings) error {
	_, err := c.Post(ctx, ActionSaveCompanySettings, data)
	return err
}

func (c *Client) GetUserMapSettings(ctx context.Context) (Settings, error) {
	return getAs[Settings](ctx, c, ActionGetUserMapSettings, nil)
}

func (c *Client) SaveUserMapSettings(ctx context.Context, data Settings) error {
	_, err := c.Post(ctx, ActionSaveUserMapSettings, data)
	return err
}

func (c *Client) GetUserInfo(ctx context.Context) (UserInfo, error) {
	return getAs[UserInfo](ctx, c, ActionGetUserInfo, nil)
}

func (c *Client) GetBonusOverview(ctx context.Context) (domain.BonusOverview, error) {
	return getAs[domain.BonusOverview](ctx, c, ActionGetBonusOverview, nil)
}

func (c *Client) UploadProfilePhoto(ctx context.Context, photoData string) (ProfilePhoto, error) {
	return postAs[ProfilePhoto](ctx, c, ActionUploadProfilePhoto, map[string]any{"photo_data": photoData})
}

func (c *Client) GetMeetings(ctx context.Context, projectID string) (MeetingList, error) {
	return getAs[MeetingList](ctx, c, ActionGetMeetings, values("project_id", projectID))
}

func (c *Client) CreateMeeting(ctx context.Context, m domain.MeetingRecord) (CreatedRef, error) {
	return postAs[CreatedRef](ctx, c, ActionCreateMeeting, map[string]any{
		"project_id":   m.ProjectID.String(),
		"meeting_date": m.MeetingDate,
		"meeting_type": m.MeetingType,
		"attendees":    m.Attendees,
		"content":      m.Content,
		"next_action":  m.NextAction,
	})
}

func (c *Client) GetCostItems(ctx context.Context, projectID string) (CostItemList, error) {
	return getAs[CostItemList](ctx, c, ActionGetCostItems, values("project_id", projectID))
}

func (c *Client) CreateCostItem(ctx context.Context, item domain.CostItem) (CreatedRef, error) {
	return postAs[CreatedRef](ctx, c, ActionCreateCostItem, map[string]any{
		"project_id":  item.ProjectID.String(),
		"cost_date":   item.CostDate,
		"category":    item.Category,
		"vendor_name": item.VendorName,
		"description": item.Description,
		"amount":      item.Amount.Float(),
	})
}

func (c *Client) GetMasters(ctx context.Context) (domain.MasterData, error) {
	return getAs[domain.MasterData](ctx, c, ActionGetMasters, nil)
}

func (c *Client) SaveMasters(ctx context.Context, masterType string, vals []string) (MastersSaved, error) {
	return postAs[MastersSaved](ctx, c, ActionSaveMasters, map[string]any{"master_type": masterType, "values": vals})
}

func (c *Client) FormatText(ctx context.Context, input, formatType string) (FormattedText, error) {
	if formatType == "" {
		formatType = "meeting"
	}
	return postAs[FormattedText](ctx, c, ActionFormatText, map[string]any{"input_text": input, "format_type": formatType})
}

func (c *Client) GetPagePermissions(ctx context.Context) (domain.PagePermissions, error) {
	return getAs[domain.PagePermissions](ctx, c, ActionGetPagePermissions, nil)
}

func (c *Client) SavePagePermissions(ctx context.Context, p domain.PagePermissions) (string, error) {
	out, err := postAs[struct {
		Message string `json:"message"`
	}](ctx, c, ActionSavePagePermissions, p)
	return out.Message, err
}

func (c *Client) GetAccountPhotos(ctx context.Context) (domain.AccountPhotos, error) {
	return getAs[domain.AccountPhotos](ctx, c, ActionGetAccountPhotos, nil)
}

func (c *Client) UploadAccountPhoto(ctx context.Context, photoData, name string) (AccountPhotoUpload, error) {
	return postAs[AccountPhotoUpload](ctx, c, ActionUploadAccountPhoto, map[string]any{"photo_data": photoData, "name": name})
}

func (c *Client) DeleteAccountPhoto(ctx context.Context, photoID string) (domain.AccountPhotos, error) {
	return postAs[domain.AccountPhotos](ctx, c, ActionDeleteAccountPhoto, map[string]any{"photo_id": photoID})
}

// SaveCustomerPhoto stores either a URL or inline image data for a project.
func (c *Client) SaveCustomerPhoto(ctx context.Context, projectID, photoURL, photoData string) (CustomerPhoto, error) {
	data := map[string]any{"project_id": projectID}
	if photoURL != "" {
		data["photo_url"] = photoURL
	}
	if photoData != "" {
		data["photo_data"] = photoData
	}
	return postAs[CustomerPhoto](ctx, c, ActionSaveCustomerPhoto, data)
}

func (c *Client) GetNotices(ctx context.Context, limit, offset int) (NoticeList, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	return getAs[NoticeList](ctx, c, ActionGetNotices, params)
}

func (c *Client) CreateNotice(ctx context.Context, n domain.Notice) (domain.Notice, error) {
	return postAs[domain.Notice](ctx, c, ActionCreateNotice, map[string]any{
		"title":     n.Title,
		"body":      n.Body,
		"category":  n.Category,
		"is_pinned": n.IsPinned,
	})
}

// LineTokenExchange trades a LINE authorization code for an ID token.
func (c *Client) LineTokenExchange(ctx context.Context, code, redirectURI string) (TokenExchange, error) {
	return getAs[TokenExchange](ctx, c, ActionLineTokenExchange, values("code", code, "redirect_uri", redirectURI))
}
