package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

type SettingsService struct {
	Gas *gasapi.Client
}

func (s SettingsService) Company(ctx context.Context) (gasapi.Settings, error) {
	return s.Gas.GetCompanySettings(ctx)
}

func (s SettingsService) SaveCompany(ctx context.Context, data gasapi.Settings) error {
	if len(data) == 0 {
		return invalid("保存する項目がありません")
	}
	return s.Gas.SaveCompanySettings(ctx, data)
}

func (s SettingsService) MapSettings(ctx context.Context) (gasapi.Settings, error) {
	return s.Gas.GetUserMapSettings(ctx)
}

func (s SettingsService) SaveMapSettings(ctx context.Context, data gasapi.Settings) error {
	return s.Gas.SaveUserMapSettings(ctx, data)
}

func (s SettingsService) Masters(ctx context.Context) (domain.MasterData, error) {
	return s.Gas.GetMasters(ctx)
}

// SaveMasters replaces the values of one master type. Blank and repeated
// values are dropped; order is kept.
func (s SettingsService) SaveMasters(ctx context.Context, masterType string, vals []string) (gasapi.MastersSaved, error) {
	masterType = strings.TrimSpace(masterType)
	if masterType == "" {
		return gasapi.MastersSaved{}, invalid("マスタ種別がありません", "master_type")
	}
	seen := make(map[string]bool, len(vals))
	clean := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		clean = append(clean, v)
	}
	return s.Gas.SaveMasters(ctx, masterType, clean)
}

func (s SettingsService) PagePermissions(ctx context.Context) (domain.PagePermissions, error) {
	return s.Gas.GetPagePermissions(ctx)
}

func (s SettingsService) SavePagePermissions(ctx context.Context, p domain.PagePermissions) (string, error) {
	return s.Gas.SavePagePermissions(ctx, p)
}

const noticePageSize = 20

func (s SettingsService) Notices(ctx context.Context, limit, offset int) ([]domain.Notice, error) {
	if limit <= 0 {
		limit = noticePageSize
	}
	list, err := s.Gas.GetNotices(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if list.Notices == nil {
		return []domain.Notice{}, nil
	}
	return list.Notices, nil
}

func (s SettingsService) PostNotice(ctx context.Context, n domain.Notice) (domain.Notice, error) {
	if strings.TrimSpace(n.Body) == "" {
		return domain.Notice{}, invalid("本文を入力してください", "body")
	}
	if n.Category == "" {
		n.Category = "general"
	}
	return s.Gas.CreateNotice(ctx, n)
}

func (s SettingsService) FormatText(ctx context.Context, input, formatType string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", invalid("テキストを入力してください", "input_text")
	}
	out, err := s.Gas.FormatText(ctx, input, formatType)
	if err != nil {
		return "", err
	}
	return out.FormattedText, nil
}

type AccountService struct {
	Gas      *gasapi.Client
	Sessions *session.Manager
	Logger   *slog.Logger
}

// UpdateAvatar uploads a profile photo and records the new URL on the
// session. A concurrent session write is retried once from fresh state.
func (s AccountService) UpdateAvatar(ctx context.Context, sess session.Session, photoData string) (session.Session, error) {
	if photoData == "" {
		return session.Session{}, invalid("写真データがありません", "photo_data")
	}
	res, err := s.Gas.UploadProfilePhoto(ctx, photoData)
	if err != nil {
		return session.Session{}, err
	}
	set := func(u *domain.User) { u.AvatarURL = res.AvatarURL }

	updated, err := s.Sessions.UpdateUser(ctx, sess.ID, sess.Version, set)
	if errors.Is(err, session.ErrStale) {
		fresh, herr := s.Sessions.Hydrate(ctx, sess.ID)
		if herr != nil {
			return session.Session{}, herr
		}
		s.Logger.Debug("session changed during avatar update, retrying", "session_id", sess.ID)
		updated, err = s.Sessions.UpdateUser(ctx, fresh.ID, fresh.Version, set)
	}
	return updated, err
}

func (s AccountService) Photos(ctx context.Context) (domain.AccountPhotos, error) {
	p, err := s.Gas.GetAccountPhotos(ctx)
	if err != nil {
		return domain.AccountPhotos{}, err
	}
	if p.Photos == nil {
		p.Photos = []domain.AccountPhoto{}
	}
	if p.Count == 0 {
		p.Count = len(p.Photos)
	}
	return p, nil
}

// AddPhoto stores an account photo unless the account is at its limit.
func (s AccountService) AddPhoto(ctx context.Context, photoData, name string) (gasapi.AccountPhotoUpload, error) {
	if photoData == "" {
		return gasapi.AccountPhotoUpload{}, invalid("写真データがありません", "photo_data")
	}
	current, err := s.Photos(ctx)
	if err != nil {
		return gasapi.AccountPhotoUpload{}, err
	}
	if current.Max > 0 && current.Count >= current.Max {
		return gasapi.AccountPhotoUpload{}, invalid(fmt.Sprintf("登録できる写真は最大%d枚です", current.Max), "photo_data")
	}
	return s.Gas.UploadAccountPhoto(ctx, photoData, name)
}

func (s AccountService) DeletePhoto(ctx context.Context, id string) (domain.AccountPhotos, error) {
	return s.Gas.DeleteAccountPhoto(ctx, id)
}

type AttendanceService struct {
	Gas *gasapi.Client
	Now func() time.Time
}

type Punch struct {
	Type domain.PunchType `json:"type"`
	Lat  float64          `json:"lat,omitempty"`
	Lng  float64          `json:"lng,omitempty"`
}

func (s AttendanceService) Punch(ctx context.Context, p Punch) (domain.AttendanceRecord, error) {
	if !p.Type.Valid() {
		return domain.AttendanceRecord{}, invalid("打刻種別が不正です", "type")
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	data := map[string]any{
		"type": string(p.Type),
		"date": now.Format("2006-01-02"),
		"time": now.Format("15:04"),
	}
	if p.Lat != 0 || p.Lng != 0 {
		data["lat"] = p.Lat
		data["lng"] = p.Lng
	}
	return s.Gas.CreateAttendance(ctx, data)
}

func (s AttendanceService) Status(ctx context.Context) (domain.AttendanceStatus, error) {
	return s.Gas.GetAttendanceStatus(ctx)
}
