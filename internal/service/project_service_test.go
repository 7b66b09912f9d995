package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

func sampleProjects() []domain.Project {
	return []domain.Project{
		{ID: "1", ProjectNumber: "P-2025-001", CustomerName: "田中一郎", AssignedToName: "山田太郎", InquiryDate: "2025-03-10", Status: domain.StatusInquiry, WorkType: domain.WorkTypeList{"外壁塗装"}},
		{ID: "2", ProjectNumber: "P-2025-002", CustomerName: "佐藤花子", AssignedToName: "鈴木次郎", InquiryDate: "2025-04-02", Status: domain.StatusContract, WorkType: domain.WorkTypeList{"屋根塗装", "水回り"}},
		{ID: "3", ProjectNumber: "P-2024-050", CustomerName: "高橋", AssignedToName: "山田太郎", InquiryDate: "2024-04-20", Status: domain.StatusCompleted, WorkType: domain.WorkTypeList{"内装リフォーム"}},
	}
}

func ids(ps []domain.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID.String())
	}
	return out
}

func TestFilterProjects(t *testing.T) {
	all := sampleProjects()

	cases := []struct {
		name string
		f    ProjectFilter
		want []string
	}{
		{"no filter", ProjectFilter{}, []string{"1", "2", "3"}},
		{"number", ProjectFilter{Query: "p-2024"}, []string{"3"}},
		{"customer", ProjectFilter{Query: "佐藤"}, []string{"2"}},
		{"assignee", ProjectFilter{Query: "山田"}, []string{"1", "3"}},
		{"month only", ProjectFilter{Month: 4}, []string{"2", "3"}},
		{"year and month", ProjectFilter{Year: 2025, Month: 4}, []string{"2"}},
		{"status set", ProjectFilter{Statuses: []domain.ProjectStatus{domain.StatusInquiry, domain.StatusCompleted}}, []string{"1", "3"}},
		{"work type substring", ProjectFilter{WorkTypes: []string{"塗装"}}, []string{"1", "2"}},
		{"combined", ProjectFilter{Query: "山田", WorkTypes: []string{"内装"}}, []string{"3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ids(FilterProjects(all, tc.f)))
		})
	}
}

func TestPaginate(t *testing.T) {
	var ps []domain.Project
	for i := 1; i <= 23; i++ {
		ps = append(ps, domain.Project{ID: domain.FlexString(fmt.Sprint(i)), EstimatedAmount: 1500000, Status: domain.StatusEstimate})
	}

	page := Paginate(ps, 3)
	require.Equal(t, 23, page.Total)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Projects, 3)
	require.Equal(t, "21", page.Projects[0].ID.String())
	require.Equal(t, "150万円", page.Projects[0].AmountLabel)
	require.Equal(t, "見積もり", page.Projects[0].StatusLabel)

	require.Equal(t, 1, Paginate(ps, 0).Page)
	require.Equal(t, 3, Paginate(ps, 99).Page)

	empty := Paginate(nil, 1)
	require.Equal(t, 1, empty.TotalPages)
	require.Empty(t, empty.Projects)
}

func TestNewProjectValidation(t *testing.T) {
	err := NewProject{CustomerName: "田中"}.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "必須項目をすべて入力してください", ve.Message)
	require.Equal(t, []string{"address", "phone", "work_type", "estimated_amount", "acquisition_route", "inquiry_date"}, ve.Fields)
}

func validNewProject() NewProject {
	return NewProject{
		CustomerName:     "田中一郎",
		Address:          "埼玉県狭山市1-1",
		Phone:            "04-0000-0000",
		WorkType:         []string{"外壁塗装", "屋根塗装"},
		EstimatedAmount:  1200000,
		AcquisitionRoute: "紹介",
		InquiryDate:      "2025-05-01",
	}
}

func TestCreateProjectDefaultsDescription(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionCreateProject, `{"success":true,"data":{"id":"10","project_number":"P-2025-010"}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	p, err := svc.Create(context.Background(), validNewProject())
	require.NoError(t, err)
	require.Equal(t, "P-2025-010", p.ProjectNumber)

	sent := fake.lastPost(gasapi.ActionCreateProject)
	require.Equal(t, "外壁塗装,屋根塗装", sent["work_type"])
	require.Equal(t, "外壁塗装,屋根塗装", sent["work_description"])
	require.Equal(t, "inquiry", sent["status"])
}

func TestCreateProjectInvalidSendsNothing(t *testing.T) {
	fake, gas := newFakeBackend(t)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	n := validNewProject()
	n.Phone = "  "
	_, err := svc.Create(context.Background(), n)
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, fake.count(gasapi.ActionCreateProject))
}

func TestDetailSurvivesPhotoFailure(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionGetProject, `{"success":true,"data":{"project":{"id":"5","customer_name":"田中","status":"contract"}}}`)
	fake.handle(gasapi.ActionGetPhotos, func(url.Values, map[string]any) (int, string) {
		return http.StatusOK, `{"success":false,"error":"Drive error"}`
	})
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	d, err := svc.Detail(context.Background(), "5")
	require.NoError(t, err)
	require.Equal(t, "田中", d.Project.CustomerName)
	require.Equal(t, "Drive error", d.PhotoError)
	require.Empty(t, d.Photos)
	require.Len(t, d.PhotoGroups, len(domain.PhotoTypes))
	require.Len(t, d.StatusFlow, len(domain.ProjectStatuses))
	require.True(t, d.StatusFlow[3].Current)
}

func TestDetailProjectFailure(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionGetProject, `{"success":false,"error":"案件が見つかりません"}`)
	fake.on(gasapi.ActionGetPhotos, `{"success":true,"data":{"photos":[]}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	_, err := svc.Detail(context.Background(), "404")
	require.Error(t, err)
	require.Equal(t, "案件が見つかりません", gasapi.Message(err))
}

func TestDetailGroupsPhotos(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionGetProject, `{"success":true,"data":{"id":"5","status":"inquiry"}}`)
	fake.on(gasapi.ActionGetPhotos, `{"success":true,"data":{"photos":[{"id":1,"photo_type":"before"},{"id":2,"photo_type":"after"},{"id":3,"photo_type":"before"}]}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	d, err := svc.Detail(context.Background(), "5")
	require.NoError(t, err)
	require.Equal(t, "before", d.PhotoGroups[0].Type)
	require.Len(t, d.PhotoGroups[0].Photos, 2)
	require.Empty(t, d.PhotoError)

	photos, err := svc.Photos(context.Background(), "5", "after")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, "2", photos[0].ID.String())
}

func TestChangeStatus(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionUpdateProject, `{"success":true,"data":{"id":"5","status":"completed"}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	_, err := svc.ChangeStatus(context.Background(), "5", "finished")
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, fake.count(gasapi.ActionUpdateProject))

	p, err := svc.ChangeStatus(context.Background(), "5", domain.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, p.Status)
	sent := fake.lastPost(gasapi.ActionUpdateProject)
	require.Equal(t, "5", sent["project_id"])
	require.Equal(t, "completed", sent["status"])
}

func TestUploadPhotoValidatesType(t *testing.T) {
	fake, gas := newFakeBackend(t)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	_, err := svc.UploadPhoto(context.Background(), "5", PhotoUpload{PhotoType: "selfie", PhotoData: "data:image/png;base64,AA"})
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, fake.count(gasapi.ActionUploadPhoto))
}

func TestSummarizeCosts(t *testing.T) {
	p := domain.Project{ContractAmount: 2000000}
	items := gasapi.CostItemList{CostItems: []domain.CostItem{{Amount: 500000}, {Amount: 300000}}}

	sum := summarizeCosts(p, items)
	require.Equal(t, 800000.0, sum.TotalCost)
	require.Equal(t, 1200000.0, sum.GrossProfit)
	require.Equal(t, "60%", sum.GrossProfitRate.String())

	none := summarizeCosts(domain.Project{}, gasapi.CostItemList{})
	require.False(t, none.GrossProfitRate.Defined)
	require.Equal(t, "—", none.GrossProfitRate.String())
	require.NotNil(t, none.Items)
}

func TestCostsUsesReportedTotal(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionGetProject, `{"success":true,"data":{"id":"5","contract_amount":"1000000"}}`)
	fake.on(gasapi.ActionGetCostItems, `{"success":true,"data":{"cost_items":[{"id":1,"amount":100}],"total":1,"total_cost":250000}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	sum, err := svc.Costs(context.Background(), "5")
	require.NoError(t, err)
	require.Equal(t, 250000.0, sum.TotalCost)
	require.Equal(t, 750000.0, sum.GrossProfit)
	require.Equal(t, "75%", sum.GrossProfitRate.String())
}

func TestAddMeetingRequiresDateAndContent(t *testing.T) {
	fake, gas := newFakeBackend(t)
	fake.on(gasapi.ActionCreateMeeting, `{"success":true,"data":{"id":"m1","project_id":"5"}}`)
	svc := ProjectService{Gas: gas, Logger: discardLogger()}

	_, err := svc.AddMeeting(context.Background(), "5", domain.MeetingRecord{Content: "打ち合わせ"})
	require.ErrorIs(t, err, ErrValidation)

	ref, err := svc.AddMeeting(context.Background(), "5", domain.MeetingRecord{MeetingDate: "2025-05-01", Content: "色決め"})
	require.NoError(t, err)
	require.Equal(t, "m1", ref.ID.String())
	require.Equal(t, "5", fake.lastPost(gasapi.ActionCreateMeeting)["project_id"])
}
