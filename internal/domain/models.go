package domain

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleSales   UserRole = "sales"
	RoleStaff   UserRole = "staff"
	RoleOffice  UserRole = "office"

	UserActive  UserStatus = "active"
	UserRetired UserStatus = "retired"

	StatusInquiry    ProjectStatus = "inquiry"
	StatusEstimate   ProjectStatus = "estimate"
	StatusFollowup   ProjectStatus = "followup_status"
	StatusContract   ProjectStatus = "contract"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusLost       ProjectStatus = "lost"

	AchievementAchieved    Achievement = "achieved"
	AchievementBarely      Achievement = "barely"
	AchievementNotAchieved Achievement = "not_achieved"

	PunchClockIn    PunchType = "clock_in"
	PunchBreakStart PunchType = "break_start"
	PunchBreakEnd   PunchType = "break_end"
	PunchClockOut   PunchType = "clock_out"
)

type UserRole string
type UserStatus string
type ProjectStatus string
type Achievement string
type PunchType string

// ProjectStatuses lists the fixed status enumeration in workflow order.
var ProjectStatuses = []ProjectStatus{
	StatusInquiry,
	StatusEstimate,
	StatusFollowup,
	StatusContract,
	StatusInProgress,
	StatusCompleted,
	StatusLost,
}

var statusLabels = map[ProjectStatus]string{
	StatusInquiry:    "問い合わせ",
	StatusEstimate:   "見積もり",
	StatusFollowup:   "追客",
	StatusContract:   "契約",
	StatusInProgress: "工事中",
	StatusCompleted:  "完工",
	StatusLost:       "失注",
}

func (s ProjectStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s ProjectStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// WorkTypes offered on the project forms.
var WorkTypes = []string{"外壁塗装", "屋根塗装", "水回り", "内装リフォーム", "エクステリア", "その他"}

// AcquisitionRoutes offered on the new-project form.
var AcquisitionRoutes = []string{"紹介", "チラシ", "HP", "ポータルサイト", "飛び込み", "その他"}

// ExpenseCategories is the closed category enumeration for expenses.
var ExpenseCategories = []string{"材料費", "交通費", "外注費", "消耗品費", "飲食費", "その他"}

func ValidExpenseCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (p PunchType) Valid() bool {
	switch p {
	case PunchClockIn, PunchBreakStart, PunchBreakEnd, PunchClockOut:
		return true
	}
	return false
}

type User struct {
	ID         FlexString `json:"id"`
	Name       string     `json:"name"`
	Role       UserRole   `json:"role"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	LineUserID string     `json:"line_user_id,omitempty"`
	Status     UserStatus `json:"status"`
}

type Project struct {
	ID               FlexString    `json:"id"`
	ProjectNumber    string        `json:"project_number"`
	CustomerName     string        `json:"customer_name"`
	CustomerNameKana string        `json:"customer_name_kana,omitempty"`
	PostalCode       string        `json:"postal_code,omitempty"`
	Address          string        `json:"address"`
	Phone            string        `json:"phone"`
	Email            string        `json:"email,omitempty"`
	WorkDescription  string        `json:"work_description"`
	WorkType         WorkTypeList  `json:"work_type"`
	EstimatedAmount  Amount        `json:"estimated_amount"`
	ContractAmount   Amount        `json:"contract_amount,omitempty"`
	AcquisitionRoute string        `json:"acquisition_route"`
	AssignedTo       FlexString    `json:"assigned_to"`
	AssignedToName   string        `json:"assigned_to_name,omitempty"`
	Status           ProjectStatus `json:"status"`
	InquiryDate      string        `json:"inquiry_date"`
	ContractDate     string        `json:"contract_date,omitempty"`
	PlannedBudget    Amount        `json:"planned_budget,omitempty"`
	ActualBudget     Amount        `json:"actual_budget,omitempty"`
	ActualCost       Amount        `json:"actual_cost,omitempty"`
	GrossProfit      Amount        `json:"gross_profit,omitempty"`
	GrossProfitRate  Amount        `json:"gross_profit_rate,omitempty"`
	ThankyouFlag     bool          `json:"thankyou_flag,omitempty"`
	FollowupFlag     bool          `json:"followup_flag,omitempty"`
	InspectionFlag   bool          `json:"inspection_flag,omitempty"`
	Lat              Amount        `json:"lat,omitempty"`
	Lng              Amount        `json:"lng,omitempty"`
	DriveFolderID    string        `json:"drive_folder_id,omitempty"`
	PhotoURL         string        `json:"photo_url,omitempty"`
	CreatedAt        string        `json:"created_at,omitempty"`
	UpdatedAt        string        `json:"updated_at,omitempty"`
	IsDeleted        bool          `json:"is_deleted,omitempty"`
}

// HasCoordinates reports whether the project carries a stored map position.
func (p Project) HasCoordinates() bool {
	return p.Lat != 0 && p.Lng != 0
}

type Photo struct {
	ID           FlexString `json:"id"`
	ProjectID    FlexString `json:"project_id"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	PhotoType    string     `json:"photo_type"`
	Memo         string     `json:"memo,omitempty"`
	TakenDate    string     `json:"taken_date,omitempty"`
	CreatedAt    string     `json:"created_at,omitempty"`
}

// PhotoTypes in the order the project photo tab presents them.
var PhotoTypes = []struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}{
	{"before", "契約前"},
	{"inspection", "現調"},
	{"pre_construction", "施工前"},
	{"undercoat", "下地"},
	{"during", "施工中"},
	{"after", "施工後"},
	{"completed", "完工"},
	{"other", "その他"},
}

func ValidPhotoType(t string) bool {
	for _, pt := range PhotoTypes {
		if pt.ID == t {
			return true
		}
	}
	return false
}

type Expense struct {
	ID                 FlexString `json:"id"`
	ProjectID          FlexString `json:"project_id,omitempty"`
	ProjectNumber      string     `json:"project_number,omitempty"`
	CustomerName       string     `json:"customer_name,omitempty"`
	Amount             Amount     `json:"amount"`
	Date               string     `json:"date,omitempty"`
	ExpenseDate        string     `json:"expense_date,omitempty"`
	Category           string     `json:"category"`
	Description        string     `json:"description,omitempty"`
	Memo               string     `json:"memo,omitempty"`
	ReceiptURL         string     `json:"receipt_url,omitempty"`
	UserID             FlexString `json:"user_id,omitempty"`
	UserName           string     `json:"user_name,omitempty"`
	Status             string     `json:"status,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	AccountingImported bool       `json:"accounting_imported"`
	CreatedAt          string     `json:"created_at,omitempty"`
}

// Day returns the expense date as YYYY-MM-DD, preferring expense_date.
func (e Expense) Day() string {
	d := e.ExpenseDate
	if d == "" {
		d = e.Date
	}
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}

type Employee struct {
	ID            FlexString `json:"id"`
	Name          string     `json:"name"`
	Role          UserRole   `json:"role"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	JoinDate      string     `json:"join_date,omitempty"`
	Status        UserStatus `json:"status,omitempty"`
	LineUserID    string     `json:"line_user_id,omitempty"`
	RetiredDate   string     `json:"retired_date,omitempty"`
	RetiredReason string     `json:"retired_reason,omitempty"`
	IsDeleted     bool       `json:"is_deleted"`
	CreatedAt     string     `json:"created_at,omitempty"`
}

// Retired reports the soft-retirement state; either representation counts.
func (e Employee) Retired() bool {
	return e.IsDeleted || e.Status == UserRetired
}

type MeetingRecord struct {
	ID          FlexString `json:"id"`
	ProjectID   FlexString `json:"project_id"`
	MeetingDate string     `json:"meeting_date"`
	MeetingType string     `json:"meeting_type"`
	Attendees   string     `json:"attendees"`
	Content     string     `json:"content"`
	NextAction  string     `json:"next_action"`
	UserID      FlexString `json:"user_id,omitempty"`
	UserName    string     `json:"user_name,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
}

type CostItem struct {
	ID          FlexString `json:"id"`
	ProjectID   FlexString `json:"project_id"`
	CostDate    string     `json:"cost_date"`
	Category    string     `json:"category"`
	VendorName  string     `json:"vendor_name"`
	Description string     `json:"description"`
	Amount      Amount     `json:"amount"`
	CreatedAt   string     `json:"created_at,omitempty"`
}

type Followup struct {
	ID                FlexString `json:"id"`
	ProjectNumber     string     `json:"project_number"`
	CustomerName      string     `json:"customer_name"`
	Status            string     `json:"status"`
	EstimateDate      string     `json:"estimate_date,omitempty"`
	DaysSinceEstimate *int       `json:"days_since_estimate,omitempty"`
	IsOverdue         bool       `json:"is_overdue,omitempty"`
	AssignedToName    string     `json:"assigned_to_name,omitempty"`
}

type Inspection struct {
	ProjectID      FlexString `json:"project_id"`
	ProjectNumber  string     `json:"project_number"`
	CustomerName   string     `json:"customer_name"`
	Address        string     `json:"address,omitempty"`
	InspectionType string     `json:"inspection_type"`
	CompletionDate string     `json:"completion_date,omitempty"`
	MonthsSince    *int       `json:"months_since,omitempty"`
	AssignedToName string     `json:"assigned_to_name,omitempty"`
	Status         string     `json:"status"`
}

var inspectionTypeLabels = map[string]string{"1year": "1年点検", "3year": "3年点検"}

func InspectionTypeLabel(t string) string {
	if l, ok := inspectionTypeLabels[t]; ok {
		return l
	}
	return t
}

type DashboardKPI struct {
	AssignedProjectsCount  Amount `json:"assigned_projects_count"`
	AssignedProjectsAmount Amount `json:"assigned_projects_amount"`
	SentEstimatesCount     Amount `json:"sent_estimates_count"`
	SentEstimatesAmount    Amount `json:"sent_estimates_amount"`
	ContractCount          Amount `json:"contract_count"`
	ContractAmount         Amount `json:"contract_amount"`
	ContractRate           Amount `json:"contract_rate"`
	AverageContractAmount  Amount `json:"average_contract_amount"`
	GrossProfitRate        Amount `json:"gross_profit_rate"`
	GrossProfitAmount      Amount `json:"gross_profit_amount"`
	CPA                    Amount `json:"cpa"`
	CPO                    Amount `json:"cpo"`
}

type KPIComparison struct {
	AssignedProjectsCountChange Amount `json:"assigned_projects_count_change"`
	ContractAmountChange        Amount `json:"contract_amount_change"`
	ContractRateChange          Amount `json:"contract_rate_change"`
}

type BonusProgress struct {
	PeriodLabel      string `json:"period_label"`
	PeriodMonths     string `json:"period_months"`
	FixedCost        Amount `json:"fixed_cost"`
	GrossProfit      Amount `json:"gross_profit"`
	Surplus          Amount `json:"surplus"`
	BonusEstimate    Amount `json:"bonus_estimate"`
	TargetAmount     Amount `json:"target_amount"`
	AchievementRate  Amount `json:"achievement_rate"`
	DistributionRate Amount `json:"distribution_rate"`
}

type MonthlySales struct {
	Month  string `json:"month"`
	Amount Amount `json:"amount"`
}

type AcquisitionRouteStat struct {
	Route  string `json:"route"`
	Count  Amount `json:"count"`
	Amount Amount `json:"amount"`
}

type WorkTypeStat struct {
	Type   string `json:"type"`
	Count  Amount `json:"count"`
	Amount Amount `json:"amount"`
}

type DashboardData struct {
	UserID        FlexString     `json:"user_id"`
	UserName      string         `json:"user_name"`
	Period        DateRange      `json:"period"`
	KPI           DashboardKPI   `json:"kpi"`
	Comparison    KPIComparison  `json:"comparison"`
	BonusProgress *BonusProgress `json:"bonus_progress"`
	Charts        struct {
		MonthlySales     []MonthlySales         `json:"monthly_sales"`
		AcquisitionRoute []AcquisitionRouteStat `json:"acquisition_route"`
		WorkType         []WorkTypeStat         `json:"work_type"`
	} `json:"charts"`
}

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type BonusPeriod struct {
	Label              string `json:"label"`
	MonthsLabel        string `json:"months_label"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	FixedCostPerPerson Amount `json:"fixed_cost_per_person"`
	DistributionRate   Amount `json:"distribution_rate"`
	TargetAmount       Amount `json:"target_amount"`
}

type BonusEmployee struct {
	UserID          FlexString  `json:"user_id"`
	Name            string      `json:"name"`
	Role            string      `json:"role"`
	ContractCount   Amount      `json:"contract_count"`
	ContractAmount  Amount      `json:"contract_amount"`
	GrossProfit     Amount      `json:"gross_profit"`
	FixedCost       Amount      `json:"fixed_cost"`
	Surplus         Amount      `json:"surplus"`
	BonusEstimate   Amount      `json:"bonus_estimate"`
	TargetAmount    Amount      `json:"target_amount"`
	AchievementRate Amount      `json:"achievement_rate"`
	Achievement     Achievement `json:"achievement"`
}

type BonusSummary struct {
	TotalEmployees     Amount `json:"total_employees"`
	TotalGrossProfit   Amount `json:"total_gross_profit"`
	TotalBonus         Amount `json:"total_bonus"`
	TotalContractCount Amount `json:"total_contract_count"`
}

type BonusOverview struct {
	Period    *BonusPeriod    `json:"period"`
	Employees []BonusEmployee `json:"employees"`
	Summary   *BonusSummary   `json:"summary"`
}

type AttendanceStatus struct {
	Status           string `json:"status"`
	ClockIn          string `json:"clock_in"`
	BreakStart       string `json:"break_start"`
	BreakEnd         string `json:"break_end"`
	ClockOut         string `json:"clock_out"`
	TotalWorkMinutes *int   `json:"total_work_minutes,omitempty"`
}

type AttendanceRecord struct {
	Date   string `json:"date"`
	Type   string `json:"type"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

type OCRResult struct {
	Amount    Amount `json:"amount"`
	StoreName string `json:"store_name"`
	Date      string `json:"date"`
	Category  string `json:"category"`
	Items     string `json:"items"`
}

type MasterItem struct {
	ID        FlexString `json:"id"`
	Value     string     `json:"value"`
	SortOrder int        `json:"sort_order"`
}

// MasterData is keyed by master type (category, meeting_type, work_type,
// acquisition_route and any custom type).
type MasterData map[string][]MasterItem

type UserPagePermissions struct {
	UserID FlexString      `json:"user_id"`
	Pages  map[string]bool `json:"pages"`
}

type PagePermissions struct {
	RoleMaster      map[string]map[string]bool `json:"role_master,omitempty"`
	UserPermissions []UserPagePermissions      `json:"user_permissions,omitempty"`
}

type AccountPhoto struct {
	ID        FlexString `json:"id"`
	URL       string     `json:"url"`
	Name      string     `json:"name"`
	CreatedAt string     `json:"created_at"`
}

type AccountPhotos struct {
	Photos []AccountPhoto `json:"photos"`
	Count  int            `json:"count,omitempty"`
	Max    int            `json:"max"`
}

type Notice struct {
	ID        FlexString `json:"id"`
	UserID    FlexString `json:"user_id"`
	UserName  string     `json:"user_name"`
	UserRole  string     `json:"user_role"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Category  string     `json:"category"`
	IsPinned  bool       `json:"is_pinned"`
	CreatedAt string     `json:"created_at"`
}

// MapCustomer is a marker projection of a project with a resolved position.
type MapCustomer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Status     string  `json:"status"`
	LastWork   string  `json:"lastWork"`
	Address    string  `json:"address,omitempty"`
	AssignedTo string  `json:"assignedTo,omitempty"`
	Geocoded   bool    `json:"geocoded,omitempty"`
}
