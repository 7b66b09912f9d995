package service

import (
	"context"
	"strings"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
)

type EmployeeFilter string

const (
	EmployeesAll     EmployeeFilter = "all"
	EmployeesActive  EmployeeFilter = "active"
	EmployeesRetired EmployeeFilter = "retired"
)

func ParseEmployeeFilter(s string) EmployeeFilter {
	switch EmployeeFilter(s) {
	case EmployeesActive, EmployeesRetired:
		return EmployeeFilter(s)
	}
	return EmployeesAll
}

func (f EmployeeFilter) Label() string {
	switch f {
	case EmployeesActive:
		return "在籍"
	case EmployeesRetired:
		return "退職"
	}
	return "全員"
}

type EmployeeView struct {
	Filter       EmployeeFilter    `json:"filter"`
	FilterLabel  string            `json:"filter_label"`
	Employees    []domain.Employee `json:"employees"`
	ActiveCount  int               `json:"active_count"`
	RetiredCount int               `json:"retired_count"`
}

type EmployeeService struct {
	Gas *gasapi.Client
}

func (s EmployeeService) List(ctx context.Context, f EmployeeFilter) (EmployeeView, error) {
	list, err := s.Gas.GetEmployees(ctx)
	if err != nil {
		return EmployeeView{}, err
	}
	return FilterEmployees(list.Employees, f), nil
}

func FilterEmployees(all []domain.Employee, f EmployeeFilter) EmployeeView {
	v := EmployeeView{Filter: f, FilterLabel: f.Label(), Employees: []domain.Employee{}}
	for _, e := range all {
		retired := e.Retired()
		if retired {
			v.RetiredCount++
		} else {
			v.ActiveCount++
		}
		if f == EmployeesActive && retired || f == EmployeesRetired && !retired {
			continue
		}
		v.Employees = append(v.Employees, e)
	}
	return v
}

// Assignable lists employees that may be picked as a project assignee.
func (s EmployeeService) Assignable(ctx context.Context) ([]domain.Employee, error) {
	list, err := s.Gas.GetEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return FilterEmployees(list.Employees, EmployeesActive).Employees, nil
}

type EmployeeInput struct {
	Name       string          `json:"name"`
	Role       domain.UserRole `json:"role"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	JoinDate   string          `json:"join_date"`
	LineUserID string          `json:"line_user_id"`
}

func (in EmployeeInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	switch in.Role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleSales, domain.RoleStaff, domain.RoleOffice:
	default:
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return invalid(requiredFieldsMessage, missing...)
	}
	return nil
}

func (in EmployeeInput) payload() map[string]any {
	m := map[string]any{"name": in.Name, "role": string(in.Role)}
	for k, v := range map[string]string{
		"email":        in.Email,
		"phone":        in.Phone,
		"join_date":    in.JoinDate,
		"line_user_id": in.LineUserID,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

func (s EmployeeService) Create(ctx context.Context, in EmployeeInput) (domain.Employee, error) {
	if err := in.validate(); err != nil {
		return domain.Employee{}, err
	}
	return s.Gas.CreateEmployee(ctx, in.payload())
}

func (s EmployeeService) Update(ctx context.Context, id string, in EmployeeInput) (domain.Employee, error) {
	if err := in.validate(); err != nil {
		return domain.Employee{}, err
	}
	m := in.payload()
	m["employee_id"] = id
	return s.Gas.UpdateEmployee(ctx, m)
}

// Retire soft-deletes an employee. History stays with the remote records.
func (s EmployeeService) Retire(ctx context.Context, id, date, reason string) (domain.Employee, error) {
	if strings.TrimSpace(date) == "" {
		return domain.Employee{}, invalid("退職日を入力してください", "retired_date")
	}
	return s.Gas.UpdateEmployee(ctx, map[string]any{
		"employee_id":    id,
		"is_deleted":     true,
		"status":         string(domain.UserRetired),
		"retired_date":   date,
		"retired_reason": reason,
	})
}

// Reinstate undoes Retire.
func (s EmployeeService) Reinstate(ctx context.Context, id string) (domain.Employee, error) {
	return s.Gas.UpdateEmployee(ctx, map[string]any{
		"employee_id":    id,
		"is_deleted":     false,
		"status":         string(domain.UserActive),
		"retired_date":   "",
		"retired_reason": "",
	})
}

func (s EmployeeService) SavePermissions(ctx context.Context, perms []domain.UserPagePermissions) error {
	for _, p := range perms {
		if p.UserID == "" {
			return invalid("ユーザーIDがありません", "user_id")
		}
	}
	return s.Gas.SavePermissions(ctx, perms)
}
