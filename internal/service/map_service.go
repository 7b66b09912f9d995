package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/geocode"
)

const mapProjectLimit = 500

// DefaultCenter is used when no marker has a position.
var DefaultCenter = geocode.Point{Lat: 35.853, Lng: 139.412}

var mapStatusColors = map[string]string{
	"completed":   "#059669",
	"in_progress": "#2563eb",
	"estimate":    "#d97706",
	"contract":    "#7c3aed",
	"inquiry":     "#6b7280",
}

var mapStatusLabels = map[string]string{
	"completed":   "完工",
	"in_progress": "施工中",
	"estimate":    "見積中",
	"contract":    "契約済",
}

func StatusColor(status string) string {
	if c, ok := mapStatusColors[status]; ok {
		return c
	}
	return mapStatusColors["inquiry"]
}

func MapStatusLabel(status string) string {
	if l, ok := mapStatusLabels[status]; ok {
		return l
	}
	return "問い合わせ"
}

type MapMarker struct {
	domain.MapCustomer
	Color       string `json:"color"`
	StatusLabel string `json:"status_label"`
}

type MapView struct {
	Center  geocode.Point `json:"center"`
	Markers []MapMarker   `json:"markers"`
	FocusID string        `json:"focus_id,omitempty"`
	// FocusMissing is set when the focus project could not be placed.
	FocusMissing bool `json:"focus_missing,omitempty"`
}

type MapQuery struct {
	MineOnly bool
	UserID   string
	FocusID  string
}

type MapService struct {
	Gas      *gasapi.Client
	Geocoder geocode.Geocoder
	Logger   *slog.Logger
}

func lastWork(p domain.Project) string {
	month := p.InquiryDate
	if len(month) > 7 {
		month = month[:7]
	}
	return strings.TrimSpace(month + " " + strings.Join(p.WorkType, ","))
}

func toCustomer(p domain.Project, pos geocode.Point) domain.MapCustomer {
	return domain.MapCustomer{
		ID:         p.ID.String(),
		Name:       p.CustomerName,
		Lat:        pos.Lat,
		Lng:        pos.Lng,
		Status:     string(p.Status),
		LastWork:   lastWork(p),
		Address:    p.Address,
		AssignedTo: p.AssignedTo.String(),
	}
}

func marker(c domain.MapCustomer) MapMarker {
	return MapMarker{MapCustomer: c, Color: StatusColor(c.Status), StatusLabel: MapStatusLabel(c.Status)}
}

// Customers returns markers for projects with stored coordinates. A focus
// project without a position is geocoded from its address on demand.
func (s MapService) Customers(ctx context.Context, q MapQuery) (MapView, error) {
	list, err := s.Gas.GetProjects(ctx, mapProjectLimit)
	if err != nil {
		return MapView{}, err
	}

	v := MapView{Markers: []MapMarker{}, FocusID: q.FocusID}
	focusPlaced := false
	var focus *domain.Project
	for i, p := range list.Projects {
		if q.FocusID != "" && p.ID.String() == q.FocusID {
			focus = &list.Projects[i]
		}
		if !p.HasCoordinates() {
			continue
		}
		c := toCustomer(p, geocode.Point{Lat: p.Lat.Float(), Lng: p.Lng.Float()})
		if q.MineOnly && c.AssignedTo != q.UserID {
			continue
		}
		if c.ID == q.FocusID {
			focusPlaced = true
		}
		v.Markers = append(v.Markers, marker(c))
	}

	if q.FocusID != "" && !focusPlaced {
		if focus == nil {
			if p, err := s.Gas.GetProject(ctx, q.FocusID); err == nil && p.ID != "" {
				focus = &p
			}
		}
		if m, ok := s.locate(ctx, focus); ok {
			v.Markers = append(v.Markers, m)
		} else {
			v.FocusMissing = true
		}
	}

	v.Center = DefaultCenter
	if len(v.Markers) > 0 {
		v.Center = geocode.Point{Lat: v.Markers[0].Lat, Lng: v.Markers[0].Lng}
	}
	if q.FocusID != "" {
		for _, m := range v.Markers {
			if m.ID == q.FocusID {
				v.Center = geocode.Point{Lat: m.Lat, Lng: m.Lng}
			}
		}
	}
	return v, nil
}

// locate geocodes a project that has an address but no stored position.
// Lookup failures leave the project off the map.
func (s MapService) locate(ctx context.Context, p *domain.Project) (MapMarker, bool) {
	if p == nil || strings.TrimSpace(p.Address) == "" || s.Geocoder == nil {
		return MapMarker{}, false
	}
	if p.HasCoordinates() {
		return marker(toCustomer(*p, geocode.Point{Lat: p.Lat.Float(), Lng: p.Lng.Float()})), true
	}
	pos, err := s.Geocoder.Lookup(ctx, p.Address)
	if err != nil {
		if !errors.Is(err, geocode.ErrNoResult) {
			s.Logger.Warn("geocode failed", "project_id", p.ID, "err", err)
		}
		return MapMarker{}, false
	}
	c := toCustomer(*p, pos)
	c.Geocoded = true
	return marker(c), true
}
